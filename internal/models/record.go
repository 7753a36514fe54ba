package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Identity is either a tentative id issued locally or a durable id issued
// by the store. Exactly one of the two is set.
type Identity struct {
	Tentative string
	Durable   int64
}

// TentativeID wraps a locally generated id.
func TentativeID(id string) Identity { return Identity{Tentative: id} }

// DurableID wraps a store-assigned id.
func DurableID(id int64) Identity { return Identity{Durable: id} }

// IsTentative reports whether the identity was generated locally.
func (id Identity) IsTentative() bool { return id.Tentative != "" }

func (id Identity) String() string {
	if id.IsTentative() {
		return id.Tentative
	}
	return fmt.Sprintf("%d", id.Durable)
}

// Record is an entry of the client-side list. Tentative records carry
// Pending=true until their create request settles.
type Record struct {
	ID         Identity
	FarmerName string
	Crop       string
	Amount     decimal.Decimal
	RecordedAt time.Time
	Pending    bool
}

// RecordFromInvestment converts a durable store record into a list entry.
func RecordFromInvestment(inv Investment) Record {
	return Record{
		ID:         DurableID(inv.ID),
		FarmerName: inv.FarmerName,
		Crop:       inv.Crop,
		Amount:     inv.Amount,
		RecordedAt: inv.CreatedAt,
	}
}
