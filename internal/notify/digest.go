package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/vantrevi/gatehouse/internal/models"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// nextCronDuration parses a 5-field cron expression and returns the
// duration until the next fire time. Returns 0 on parse error.
func nextCronDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// SalesSource is the slice of the local store the digest reads.
type SalesSource interface {
	SalesSince(t time.Time) ([]models.SaleRecord, error)
}

// DailyReport holds computed sales metrics for one day.
type DailyReport struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Tickets     int
	Adults      int
	Collected   float64
	ByShow      []ShowDigest
}

// ShowDigest holds per-show metrics within a daily report.
type ShowDigest struct {
	Show      string
	Tickets   int
	Collected float64
}

// BuildDailyReport summarizes the sales recorded since local midnight.
func BuildDailyReport(src SalesSource, now time.Time) (*DailyReport, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sales, err := src.SalesSince(start)
	if err != nil {
		return nil, fmt.Errorf("notify: daily report: %w", err)
	}

	report := &DailyReport{PeriodStart: start, PeriodEnd: now}
	byShow := map[string]*ShowDigest{}
	for _, s := range sales {
		report.Tickets++
		report.Adults += s.Adults
		report.Collected += s.FinalAmount
		d, ok := byShow[s.ShowName]
		if !ok {
			d = &ShowDigest{Show: s.ShowName}
			byShow[s.ShowName] = d
		}
		d.Tickets++
		d.Collected += s.FinalAmount
	}
	for _, d := range byShow {
		report.ByShow = append(report.ByShow, *d)
	}
	sort.Slice(report.ByShow, func(i, j int) bool {
		if report.ByShow[i].Collected != report.ByShow[j].Collected {
			return report.ByShow[i].Collected > report.ByShow[j].Collected
		}
		return report.ByShow[i].Show < report.ByShow[j].Show
	})
	return report, nil
}

// FormatDaily renders a report as a notification event.
func FormatDaily(r *DailyReport) Event {
	var b strings.Builder
	fmt.Fprintf(&b, "%d tickets, %d adults, %.2f collected", r.Tickets, r.Adults, r.Collected)
	for _, d := range r.ByShow {
		fmt.Fprintf(&b, "\n%s: %d tickets, %.2f", d.Show, d.Tickets, d.Collected)
	}
	return Event{
		Title:    "daily sales digest — " + r.PeriodStart.Format("Mon 2 Jan"),
		Body:     b.String(),
		Severity: SeverityInfo,
	}
}

// Digest posts the daily sales summary to a notifier on a cron schedule.
type Digest struct {
	src      SalesSource
	notifier Notifier
	expr     string
	log      *logrus.Entry
}

// NewDigest creates a Digest. expr is a 5-field cron expression.
func NewDigest(src SalesSource, notifier Notifier, expr string) (*Digest, error) {
	if src == nil {
		return nil, fmt.Errorf("notify: digest: sales source is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notify: digest: notifier is required")
	}
	if _, err := cronParser.Parse(expr); err != nil {
		return nil, fmt.Errorf("notify: digest: bad cron expression %q: %w", expr, err)
	}
	return &Digest{
		src:      src,
		notifier: notifier,
		expr:     expr,
		log:      logrus.WithField("component", "digest"),
	}, nil
}

// Run blocks, firing at each scheduled time until ctx is cancelled.
func (d *Digest) Run(ctx context.Context) error {
	for {
		wait := nextCronDuration(d.expr)
		if wait <= 0 {
			wait = time.Minute
		}
		d.log.WithField("next", time.Now().Add(wait).Format(time.RFC3339)).Info("digest scheduled")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			if err := d.Fire(ctx); err != nil {
				d.log.WithError(err).Warn("digest delivery failed")
			}
		}
	}
}

// Fire builds today's report and posts it. A day with no sales is
// suppressed entirely.
func (d *Digest) Fire(ctx context.Context) error {
	report, err := BuildDailyReport(d.src, time.Now())
	if err != nil {
		return err
	}
	if report.Tickets == 0 {
		d.log.Info("no sales today, digest suppressed")
		return nil
	}
	return d.notifier.Notify(ctx, FormatDaily(report))
}
