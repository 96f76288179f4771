package notify

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vantrevi/gatehouse/internal/models"
)

type fakeSales struct {
	records []models.SaleRecord
	err     error
}

func (f *fakeSales) SalesSince(t time.Time) ([]models.SaleRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.SaleRecord
	for _, r := range f.records {
		if !r.CreatedAt.Before(t) {
			out = append(out, r)
		}
	}
	return out, nil
}

type captureNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureNotifier) Notify(ctx context.Context, ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func TestBuildDailyReport(t *testing.T) {
	now := time.Date(2026, 8, 28, 18, 0, 0, 0, time.Local)
	today := now.Add(-2 * time.Hour)
	yesterday := now.Add(-26 * time.Hour)

	src := &fakeSales{records: []models.SaleRecord{
		{ShowName: "Heritage Walk", Adults: 4, FinalAmount: 472, CreatedAt: today},
		{ShowName: "Heritage Walk", Adults: 2, FinalAmount: 236, CreatedAt: today},
		{ShowName: "Light Show", Adults: 1, FinalAmount: 118, CreatedAt: today},
		{ShowName: "Night Museum", Adults: 9, FinalAmount: 999, CreatedAt: yesterday},
	}}

	report, err := BuildDailyReport(src, now)
	if err != nil {
		t.Fatalf("BuildDailyReport: %v", err)
	}
	if report.Tickets != 3 {
		t.Errorf("Tickets = %d, want 3 (yesterday excluded)", report.Tickets)
	}
	if report.Adults != 7 {
		t.Errorf("Adults = %d, want 7", report.Adults)
	}
	if report.Collected != 826 {
		t.Errorf("Collected = %v, want 826", report.Collected)
	}
	if len(report.ByShow) != 2 {
		t.Fatalf("len(ByShow) = %d, want 2", len(report.ByShow))
	}
	if report.ByShow[0].Show != "Heritage Walk" || report.ByShow[0].Collected != 708 {
		t.Errorf("ByShow[0] = %+v, want Heritage Walk first by collected", report.ByShow[0])
	}
}

func TestFormatDaily(t *testing.T) {
	ev := FormatDaily(&DailyReport{
		PeriodStart: time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local),
		Tickets:     3,
		Adults:      7,
		Collected:   826,
		ByShow:      []ShowDigest{{Show: "Heritage Walk", Tickets: 2, Collected: 708}},
	})
	if !strings.Contains(ev.Title, "daily sales digest") {
		t.Errorf("Title = %q", ev.Title)
	}
	if !strings.Contains(ev.Body, "3 tickets, 7 adults, 826.00 collected") {
		t.Errorf("Body = %q", ev.Body)
	}
	if !strings.Contains(ev.Body, "Heritage Walk: 2 tickets, 708.00") {
		t.Errorf("Body = %q, want per-show line", ev.Body)
	}
}

func TestNewDigest_Validation(t *testing.T) {
	src := &fakeSales{}
	n := &captureNotifier{}
	if _, err := NewDigest(nil, n, "0 18 * * *"); err == nil {
		t.Error("expected error for nil source")
	}
	if _, err := NewDigest(src, nil, "0 18 * * *"); err == nil {
		t.Error("expected error for nil notifier")
	}
	if _, err := NewDigest(src, n, "not a cron"); err == nil {
		t.Error("expected error for bad cron expression")
	}
	if _, err := NewDigest(src, n, "30 17 * * *"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDigest_FirePostsSummary(t *testing.T) {
	src := &fakeSales{records: []models.SaleRecord{
		{ShowName: "Light Show", Adults: 2, FinalAmount: 118, CreatedAt: time.Now()},
	}}
	n := &captureNotifier{}
	d, err := NewDigest(src, n, "0 18 * * *")
	if err != nil {
		t.Fatalf("NewDigest: %v", err)
	}

	if err := d.Fire(context.Background()); err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if len(n.events) != 1 {
		t.Fatalf("events = %d, want 1", len(n.events))
	}
}

func TestDigest_FireSuppressedWhenEmpty(t *testing.T) {
	n := &captureNotifier{}
	d, err := NewDigest(&fakeSales{}, n, "0 18 * * *")
	if err != nil {
		t.Fatalf("NewDigest: %v", err)
	}

	if err := d.Fire(context.Background()); err != nil {
		t.Fatalf("Fire: %v", err)
	}
	if len(n.events) != 0 {
		t.Errorf("events = %d, want 0 (suppressed)", len(n.events))
	}
}

func TestNextCronDuration(t *testing.T) {
	if d := nextCronDuration("* * * * *"); d <= 0 || d > time.Minute {
		t.Errorf("nextCronDuration = %v, want within a minute", d)
	}
	if d := nextCronDuration("garbage"); d != 0 {
		t.Errorf("nextCronDuration(garbage) = %v, want 0", d)
	}
}

func TestTerminalNotifier(t *testing.T) {
	var b strings.Builder
	term := NewTerminal(&b)
	term.Notify(context.Background(), Event{Title: "ticket sold", Body: "472.00"})
	term.Notify(context.Background(), Event{Title: "login failed", Body: "invalid credentials", Severity: SeverityError})

	out := b.String()
	if !strings.Contains(out, "ticket sold — 472.00") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "error: login failed — invalid credentials") {
		t.Errorf("output = %q", out)
	}
}
