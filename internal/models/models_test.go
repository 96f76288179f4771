package models

import (
	"encoding/json"
	"testing"
)

func TestVehicleType_Valid(t *testing.T) {
	for _, v := range VehicleTypes {
		if !v.Valid() {
			t.Errorf("VehicleType(%q).Valid() = false, want true", v)
		}
	}
	for _, v := range []VehicleType{"", "bus", "GUIDE", "big car"} {
		if v.Valid() {
			t.Errorf("VehicleType(%q).Valid() = true, want false", v)
		}
	}
}

func TestFlexFloat_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"number", `4.5`, 4.5},
		{"integer", `4`, 4},
		{"numeric string", `"4.5"`, 4.5},
		{"integer string", `"3"`, 3},
		{"empty string", `""`, 0},
		{"null", `null`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexFloat
			if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			if float64(f) != tt.want {
				t.Errorf("FlexFloat = %v, want %v", float64(f), tt.want)
			}
		})
	}
}

func TestFlexFloat_UnmarshalRejectsGarbage(t *testing.T) {
	var f FlexFloat
	if err := json.Unmarshal([]byte(`"four"`), &f); err == nil {
		t.Error("expected error for non-numeric string")
	}
}

func TestFlexFloat_MarshalEmitsNumber(t *testing.T) {
	out, err := json.Marshal(FlexFloat(4.5))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "4.5" {
		t.Errorf("marshal = %s, want 4.5", out)
	}
}

func TestGuide_DecodeStringRating(t *testing.T) {
	raw := `{"id":7,"name":"Asha","number":"G-12","vehicle_type":"guide","status":"active","rating":"4.8","total_sales":31}`
	var g Guide
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		t.Fatalf("unmarshal guide: %v", err)
	}
	if float64(g.Rating) != 4.8 {
		t.Errorf("Rating = %v, want 4.8", float64(g.Rating))
	}
	if g.VehicleType != VehicleGuide {
		t.Errorf("VehicleType = %q, want %q", g.VehicleType, VehicleGuide)
	}
}
