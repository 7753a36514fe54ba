package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Investment is a durable record as assigned by the investment store.
type Investment struct {
	ID         int64           `json:"id"`          // store-assigned, immutable
	FarmerName string          `json:"farmer_name"` // trimmed, non-empty
	Crop       string          `json:"crop"`        // trimmed, non-empty
	Amount     decimal.Decimal `json:"amount"`      // always > 0
	CreatedAt  time.Time       `json:"created_at"`  // store clock
}

// MarshalJSON encodes the amount as a JSON number rather than the quoted
// string decimal uses by default.
func (i Investment) MarshalJSON() ([]byte, error) {
	type wire struct {
		ID         int64       `json:"id"`
		FarmerName string      `json:"farmer_name"`
		Crop       string      `json:"crop"`
		Amount     json.Number `json:"amount"`
		CreatedAt  time.Time   `json:"created_at"`
	}
	return json.Marshal(wire{
		ID:         i.ID,
		FarmerName: i.FarmerName,
		Crop:       i.Crop,
		Amount:     json.Number(i.Amount.String()),
		CreatedAt:  i.CreatedAt,
	})
}

// Input is a create request that already passed validation.
type Input struct {
	FarmerName string
	Crop       string
	Amount     decimal.Decimal
}

// MarshalJSON produces the POST body expected by the store.
func (in Input) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		FarmerName string      `json:"farmer_name"`
		Crop       string      `json:"crop"`
		Amount     json.Number `json:"amount"`
	}{
		FarmerName: in.FarmerName,
		Crop:       in.Crop,
		Amount:     json.Number(in.Amount.String()),
	})
}
