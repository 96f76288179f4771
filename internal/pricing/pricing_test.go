package pricing

import (
	"math"
	"testing"

	"github.com/vantrevi/gatehouse/internal/models"
)

func TestRecompute(t *testing.T) {
	tests := []struct {
		name      string
		adults    int
		unitPrice float64
		tax       float64
		wantTotal float64
		wantFinal float64
	}{
		{"standard", 4, 100, 18, 400, 472},
		{"zero adults", 0, 250, 10, 0, 0},
		{"zero price", 6, 0, 18, 0, 0},
		{"no tax", 3, 50, 0, 150, 150},
		{"single", 1, 99.5, 5, 99.5, 104.475},
		{"all zero", 0, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Recompute(Draft{Adults: tt.adults, UnitPrice: tt.unitPrice, TaxPercent: tt.tax})
			if math.Abs(d.TotalPrice-tt.wantTotal) > 1e-9 {
				t.Errorf("TotalPrice = %v, want %v", d.TotalPrice, tt.wantTotal)
			}
			if math.Abs(d.FinalAmount-tt.wantFinal) > 1e-9 {
				t.Errorf("FinalAmount = %v, want %v", d.FinalAmount, tt.wantFinal)
			}
		})
	}
}

func TestRecompute_Idempotent(t *testing.T) {
	d := Draft{Adults: 7, UnitPrice: 33.33, TaxPercent: 12.5}
	once := Recompute(d)
	twice := Recompute(once)
	if once != twice {
		t.Errorf("second Recompute changed the draft: %+v vs %+v", once, twice)
	}
}

func TestRecompute_PassesThroughOtherFields(t *testing.T) {
	d := Draft{
		VehicleType: models.VehicleCar,
		GuideName:   "Ravi",
		GuideNumber: "G-4",
		ShowName:    "Light Show",
		Adults:      2,
		UnitPrice:   80,
		TaxPercent:  5,
	}
	got := Recompute(d)
	if got.VehicleType != d.VehicleType || got.GuideName != d.GuideName ||
		got.GuideNumber != d.GuideNumber || got.ShowName != d.ShowName {
		t.Errorf("non-derived fields changed: %+v", got)
	}
	if got.TotalPrice != 160 || got.FinalAmount != 168 {
		t.Errorf("TotalPrice, FinalAmount = %v, %v, want 160, 168", got.TotalPrice, got.FinalAmount)
	}
}

func TestRecompute_ClampsNegative(t *testing.T) {
	// Only reachable by bypassing ParseCount/ParseAmount.
	d := Recompute(Draft{Adults: 3, UnitPrice: -10, TaxPercent: 18})
	if d.TotalPrice != 0 {
		t.Errorf("TotalPrice = %v, want 0", d.TotalPrice)
	}
	if d.FinalAmount != 0 {
		t.Errorf("FinalAmount = %v, want 0", d.FinalAmount)
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"4", 4}, {" 12 ", 12}, {"0", 0},
		{"", 0}, {"abc", 0}, {"-3", 0}, {"4.5", 0},
	}
	for _, tt := range tests {
		if got := ParseCount(tt.in); got != tt.want {
			t.Errorf("ParseCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"100", 100}, {"99.50", 99.5}, {" 18 ", 18}, {"0", 0},
		{"", 0}, {"free", 0}, {"-1", 0},
	}
	for _, tt := range tests {
		if got := ParseAmount(tt.in); got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	valid := Draft{
		VehicleType: models.VehicleGuide,
		GuideName:   "Asha",
		ShowName:    "Heritage Walk",
	}
	if err := Validate(valid); err != nil {
		t.Errorf("Validate(valid) = %v, want nil", err)
	}

	tests := []struct {
		name   string
		mutate func(Draft) Draft
	}{
		{"missing vehicle type", func(d Draft) Draft { d.VehicleType = ""; return d }},
		{"unknown vehicle type", func(d Draft) Draft { d.VehicleType = "bus"; return d }},
		{"missing guide name", func(d Draft) Draft { d.GuideName = ""; return d }},
		{"blank guide name", func(d Draft) Draft { d.GuideName = "   "; return d }},
		{"missing show name", func(d Draft) Draft { d.ShowName = ""; return d }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.mutate(valid)); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestTicket(t *testing.T) {
	d := Recompute(Draft{
		VehicleType: models.VehicleTT,
		GuideName:   "Meera",
		GuideNumber: "G-9",
		ShowName:    "Night Museum",
		Adults:      4,
		UnitPrice:   100,
		TaxPercent:  18,
	})
	tk := Ticket(d)
	if tk.TicketPrice != 100 || tk.TotalPrice != 400 || tk.Tax != 18 || tk.FinalAmount != 472 {
		t.Errorf("wire amounts = %v/%v/%v/%v, want 100/400/18/472",
			tk.TicketPrice, tk.TotalPrice, tk.Tax, tk.FinalAmount)
	}
	if tk.VehicleType != models.VehicleTT || tk.Adults != 4 {
		t.Errorf("wire fields wrong: %+v", tk)
	}
}
