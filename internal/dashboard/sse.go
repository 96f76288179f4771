package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
)

// saleEvent holds data for a new-sale SSE event.
type saleEvent struct {
	ID          uint    `json:"id"`
	ShowName    string  `json:"show_name"`
	GuideName   string  `json:"guide_name"`
	Adults      int     `json:"adults"`
	FinalAmount float64 `json:"final_amount"`
	SoldBy      string  `json:"sold_by,omitempty"`
}

// handleSSE streams new sales from the local log as they land. It polls
// rather than hooking the write path so a dashboard can attach and
// detach freely without the sale flow knowing about it.
func handleSSE(opts StartOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		writeSSE(c.Writer, "connected", map[string]string{"type": "connected"})
		c.Writer.Flush()

		// No sales log means nothing to stream — tests run without one.
		if opts.Sales == nil {
			return
		}

		// Baseline: only alert on sales recorded after attach.
		lastSeenID, err := opts.Sales.LastSaleID()
		if err != nil {
			return
		}

		ctx := c.Request.Context()
		ticker := time.NewTicker(opts.PollInterval)
		heartbeat := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				writeSSE(c.Writer, "heartbeat", map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				})
				c.Writer.Flush()
			case <-ticker.C:
				newSales, err := opts.Sales.SalesAfter(lastSeenID)
				if err != nil || len(newSales) == 0 {
					continue
				}
				lastSeenID = newSales[len(newSales)-1].ID
				for _, s := range newSales {
					writeSSE(c.Writer, "sale", saleEvent{
						ID:          s.ID,
						ShowName:    s.ShowName,
						GuideName:   s.GuideName,
						Adults:      s.Adults,
						FinalAmount: s.FinalAmount,
						SoldBy:      s.SoldBy,
					})
				}
				c.Writer.Flush()
			}
		}
	}
}

// writeSSE writes a single SSE event to the writer.
func writeSSE(w io.Writer, event string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
