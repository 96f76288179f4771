// Package notify delivers user-facing events: validation and API
// failures, recorded sales, and scheduled digests. The counter terminal
// is the default sink; Slack and Discord sinks let a back office follow
// the gate remotely.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Severity levels for events.
const (
	SeverityInfo    = "info"
	SeverityError   = "error"
	SeveritySuccess = "success"
)

// Event is a single notification.
type Event struct {
	Title    string
	Body     string
	Severity string // one of the Severity constants; "" means info
}

// Notifier is the sink events are delivered to.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Terminal writes events as plain lines, one per event. Safe for
// concurrent use.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTerminal creates a Terminal notifier writing to out.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// Notify implements Notifier.
func (t *Terminal) Notify(ctx context.Context, ev Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	prefix := ""
	if ev.Severity == SeverityError {
		prefix = "error: "
	}
	if ev.Body != "" {
		_, err := fmt.Fprintf(t.out, "%s%s — %s\n", prefix, ev.Title, ev.Body)
		return err
	}
	_, err := fmt.Fprintf(t.out, "%s%s\n", prefix, ev.Title)
	return err
}

// Discard swallows every event. Used where no notification channel is
// configured.
type Discard struct{}

// Notify implements Notifier.
func (Discard) Notify(ctx context.Context, ev Event) error { return nil }
