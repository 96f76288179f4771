package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// FlexFloat decodes a JSON number that some API versions send as a
// numeric string (e.g. "4.5" instead of 4.5). null and "" decode to 0.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("models: flex float: %w", err)
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("models: flex float %q: %w", s, err)
		}
		*f = FlexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("models: flex float: %w", err)
	}
	*f = FlexFloat(v)
	return nil
}

// MarshalJSON implements json.Marshaler, always emitting a number.
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(f))
}

// Guide is an agent whose performance the backend scores.
type Guide struct {
	ID          uint        `json:"id,omitempty"`
	Name        string      `json:"name"`
	Number      string      `json:"number"`
	VehicleType VehicleType `json:"vehicle_type"`
	Status      string      `json:"status"`
	Rating      FlexFloat   `json:"rating"`
	TotalSales  int         `json:"total_sales"`
	CreatedAt   time.Time   `json:"created_at,omitempty"`
}

// GuideUpdate carries a partial guide edit; nil fields are left unchanged
// by the backend.
type GuideUpdate struct {
	Name        *string      `json:"name,omitempty"`
	Number      *string      `json:"number,omitempty"`
	VehicleType *VehicleType `json:"vehicle_type,omitempty"`
	Status      *string      `json:"status,omitempty"`
}
