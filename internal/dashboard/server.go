// Package dashboard serves the local read-only web view of the gate:
// today's sales, ticket history, and guide scores. All remote data comes
// through the shared API client on every page load — the dashboard never
// caches backend state, so what it shows is always re-authoritative.
package dashboard

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/vantrevi/gatehouse/internal/api"
	"github.com/vantrevi/gatehouse/internal/models"
)

// TicketSource is the slice of the backend client the dashboard reads.
type TicketSource interface {
	ListTickets(ctx context.Context, f api.TicketFilter) ([]models.Ticket, int, error)
	ListGuides(ctx context.Context, f api.GuideFilter) ([]models.Guide, error)
	TopGuides(ctx context.Context, limit int) ([]models.Guide, error)
}

// SaleLog is the slice of the local store the dashboard reads.
type SaleLog interface {
	RecentSales(limit int) ([]models.SaleRecord, error)
	SalesSince(t time.Time) ([]models.SaleRecord, error)
	LastSaleID() (uint, error)
	SalesAfter(afterID uint) ([]models.SaleRecord, error)
}

// StartOpts holds configuration for the dashboard server.
type StartOpts struct {
	Source       TicketSource
	Sales        SaleLog
	Port         int
	PollInterval time.Duration // sale-log poll cadence for SSE
	Out          io.Writer
}

// Start launches the dashboard HTTP server. It blocks until ctx is
// cancelled, then shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.Source == nil {
		return fmt.Errorf("dashboard: ticket source is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 3 * time.Second
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	tmpl, err := parseTemplates()
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	registerRoutes(router, opts)

	addr := fmt.Sprintf(":%d", opts.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Dashboard running at http://localhost:%d\n", opts.Port)
	}
	logrus.WithField("addr", addr).Info("dashboard listening")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// parseTemplates loads the embedded HTML templates with the shared
// formatting helpers.
func parseTemplates() (*template.Template, error) {
	tmpl := template.New("").Funcs(template.FuncMap{
		"money":   Money,
		"timeago": TimeAgo,
		"inc":     func(i int) int { return i + 1 },
	})
	tmpl, err := tmpl.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// Money renders an amount for display, rounded to 2 decimal places.
// Stored amounts keep full precision; rounding happens only here.
func Money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// TimeAgo renders a timestamp as a short relative age.
func TimeAgo(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
