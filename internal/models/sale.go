package models

import "time"

// Credential is a single entry in the local credential store. Exactly two
// keys are used: "token" and "user" (identity serialized as JSON).
type Credential struct {
	Key       string `gorm:"primaryKey;size:32"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// SaleRecord is the append-only local log of successfully submitted
// tickets, kept so receipts can be reprinted and daily totals computed
// without a round trip to the backend. Drafts are never written here.
type SaleRecord struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	TicketID    uint   `gorm:"index"`
	VehicleType string `gorm:"size:16"`
	GuideName   string `gorm:"size:128"`
	GuideNumber string `gorm:"size:64"`
	ShowName    string `gorm:"size:128"`
	Adults      int
	TicketPrice float64
	TotalPrice  float64
	Tax         float64
	FinalAmount float64
	SoldBy      string `gorm:"size:64"`
	CreatedAt   time.Time
}
