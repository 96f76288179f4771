// Package pricing computes sale ticket totals. The arithmetic core is a
// pure function over well-formed non-negative inputs; the forgiving
// parse-with-default coercion the counter UI needs lives at the boundary
// in ParseCount and ParseAmount, not inside the computation.
package pricing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vantrevi/gatehouse/internal/models"
)

// Draft is the in-progress ticket form state for one sale. TotalPrice and
// FinalAmount are derived and must only be written by Recompute.
type Draft struct {
	VehicleType models.VehicleType
	GuideName   string
	GuideNumber string
	ShowName    string
	Adults      int
	UnitPrice   float64
	TaxPercent  float64
	TotalPrice  float64
	FinalAmount float64
}

// Recompute returns d with TotalPrice and FinalAmount re-derived from
// Adults, UnitPrice and TaxPercent. All other fields pass through
// unchanged. No rounding is applied; callers round at display time only,
// so recomputing with unchanged inputs is lossless and idempotent.
// Negative derived totals (possible only when a caller bypasses the
// boundary coercion) clamp to zero.
func Recompute(d Draft) Draft {
	total := float64(d.Adults) * d.UnitPrice
	final := total * (1 + d.TaxPercent/100)
	if total < 0 {
		total = 0
	}
	if final < 0 {
		final = 0
	}
	d.TotalPrice = total
	d.FinalAmount = final
	return d
}

// ParseCount converts raw form input to a head count. Empty, non-numeric
// and negative input all coerce to 0; bad input is never an error here.
func ParseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseAmount converts raw form input to a non-negative money amount,
// with the same coerce-to-zero policy as ParseCount.
func ParseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// Validate is the submission guard: it reports the reason a draft must
// not be sent to the backend, or nil when it may. Callers run it before
// any network call so an invalid draft never leaves the process.
func Validate(d Draft) error {
	if d.VehicleType == "" {
		return fmt.Errorf("pricing: vehicle type is required")
	}
	if !d.VehicleType.Valid() {
		return fmt.Errorf("pricing: unknown vehicle type %q", d.VehicleType)
	}
	if strings.TrimSpace(d.GuideName) == "" {
		return fmt.Errorf("pricing: guide name is required")
	}
	if strings.TrimSpace(d.ShowName) == "" {
		return fmt.Errorf("pricing: show name is required")
	}
	return nil
}

// Ticket converts a recomputed draft to the wire representation.
func Ticket(d Draft) models.Ticket {
	return models.Ticket{
		VehicleType: d.VehicleType,
		GuideName:   d.GuideName,
		GuideNumber: d.GuideNumber,
		ShowName:    d.ShowName,
		Adults:      d.Adults,
		TicketPrice: d.UnitPrice,
		TotalPrice:  d.TotalPrice,
		Tax:         d.TaxPercent,
		FinalAmount: d.FinalAmount,
	}
}
