package events

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const InvestmentCreatedTopic = "investment_created"

type InvestmentCreated struct {
	InvestmentID int64           `json:"investment_id"`
	FarmerName   string          `json:"farmer_name"`
	Crop         string          `json:"crop"`
	Amount       decimal.Decimal `json:"amount"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

// EventKey partitions events by investment id.
func (e InvestmentCreated) EventKey() string {
	return strconv.FormatInt(e.InvestmentID, 10)
}
