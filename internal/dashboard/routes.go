package dashboard

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/vantrevi/gatehouse/internal/api"
	"github.com/vantrevi/gatehouse/internal/models"
)

// registerRoutes sets up all dashboard routes on the Gin router.
func registerRoutes(router *gin.Engine, opts StartOpts) {
	// Embedded static assets (served from assets/ subdir of the embed.FS).
	staticFS, _ := fs.Sub(assetsFS, "assets")
	router.StaticFS("/static", http.FS(staticFS))

	// Pages.
	router.GET("/", handleOverview(opts))
	router.GET("/tickets", handleTickets(opts))
	router.GET("/guides", handleGuides(opts))
	router.GET("/guides/top", handleTopGuides(opts))

	// SSE stream of new sales.
	router.GET("/api/events", handleSSE(opts))
}

// overviewData aggregates today's numbers from the local sales log.
type overviewData struct {
	Tickets   int
	Adults    int
	Collected float64
	Recent    []models.SaleRecord
}

func buildOverview(sales SaleLog) overviewData {
	var data overviewData
	if sales == nil {
		return data
	}
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := sales.SalesSince(start)
	if err != nil {
		logrus.WithError(err).Warn("dashboard: read today's sales")
		return data
	}
	for _, s := range today {
		data.Tickets++
		data.Adults += s.Adults
		data.Collected += s.FinalAmount
	}
	if recent, err := sales.RecentSales(10); err == nil {
		data.Recent = recent
	}
	return data
}

func handleOverview(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := buildOverview(opts.Sales)
		c.HTML(http.StatusOK, "overview.html", gin.H{
			"page":      "overview",
			"Tickets":   data.Tickets,
			"Adults":    data.Adults,
			"Collected": data.Collected,
			"Recent":    data.Recent,
		})
	}
}

func handleTickets(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := api.TicketFilter{
			StartDate: c.Query("start"),
			EndDate:   c.Query("end"),
			Search:    c.Query("search"),
		}
		tickets, total, err := opts.Source.ListTickets(c.Request.Context(), filter)
		if err != nil {
			logrus.WithError(err).Warn("dashboard: list tickets")
			c.HTML(http.StatusOK, "tickets.html", gin.H{
				"page":  "tickets",
				"Error": api.UserMessage(err),
			})
			return
		}
		c.HTML(http.StatusOK, "tickets.html", gin.H{
			"page":    "tickets",
			"Tickets": tickets,
			"Total":   total,
			"Search":  filter.Search,
		})
	}
}

func handleGuides(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := api.GuideFilter{
			Search:      c.Query("search"),
			Status:      c.Query("status"),
			VehicleType: models.VehicleType(c.Query("vehicle_type")),
		}
		guides, err := opts.Source.ListGuides(c.Request.Context(), filter)
		if err != nil {
			logrus.WithError(err).Warn("dashboard: list guides")
			c.HTML(http.StatusOK, "guides.html", gin.H{
				"page":  "guides",
				"Error": api.UserMessage(err),
			})
			return
		}
		c.HTML(http.StatusOK, "guides.html", gin.H{
			"page":   "guides",
			"Guides": guides,
		})
	}
}

func handleTopGuides(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		guides, err := opts.Source.TopGuides(c.Request.Context(), 10)
		if err != nil {
			logrus.WithError(err).Warn("dashboard: top guides")
			c.HTML(http.StatusOK, "top.html", gin.H{
				"page":  "top",
				"Error": api.UserMessage(err),
			})
			return
		}
		c.HTML(http.StatusOK, "top.html", gin.H{
			"page":   "top",
			"Guides": guides,
		})
	}
}
