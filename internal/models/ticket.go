// Package models holds the wire types exchanged with the ticketing API
// and the records persisted in the local state database.
package models

import "time"

// VehicleType categorizes how a party arrived at the gate.
type VehicleType string

const (
	VehicleGuide  VehicleType = "guide"
	VehicleBigCar VehicleType = "big_car"
	VehicleTT     VehicleType = "tt"
	VehicleCar    VehicleType = "car"
	VehicleAuto   VehicleType = "auto"
)

// VehicleTypes lists all accepted vehicle types, in display order.
var VehicleTypes = []VehicleType{VehicleGuide, VehicleBigCar, VehicleTT, VehicleCar, VehicleAuto}

// Valid reports whether v is one of the accepted vehicle types.
func (v VehicleType) Valid() bool {
	for _, t := range VehicleTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Ticket is a sale ticket as the API represents it.
type Ticket struct {
	ID          uint        `json:"id,omitempty"`
	VehicleType VehicleType `json:"vehicle_type"`
	GuideName   string      `json:"guide_name"`
	GuideNumber string      `json:"guide_number"`
	ShowName    string      `json:"show_name"`
	Adults      int         `json:"adults"`
	TicketPrice float64     `json:"ticket_price"`
	TotalPrice  float64     `json:"total_price"`
	Tax         float64     `json:"tax"`
	FinalAmount float64     `json:"final_amount"`
	CreatedAt   time.Time   `json:"created_at,omitempty"`
}

// TicketPage is the envelope some deployments return for ticket listings.
// Older deployments return a bare array; the API client handles both.
type TicketPage struct {
	Tickets []Ticket `json:"tickets"`
	Total   int      `json:"total"`
}
