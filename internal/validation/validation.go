// Package validation checks a proposed investment before it is submitted.
// The entry surface and the store both run it.
package validation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/farminvest/internal/apperrors"
	"github.com/sheikh-saqib/farminvest/internal/models"
)

// Candidate is raw user input.
type Candidate struct {
	Owner      string
	Category   string
	AmountText string
}

// Validate applies the rules in order and returns the first failure as a
// CodeValidation *apperrors.AppError.
func Validate(c Candidate) (models.Input, error) {
	owner := strings.TrimSpace(c.Owner)
	if owner == "" {
		return models.Input{}, apperrors.Validation(apperrors.ReasonOwnerRequired)
	}

	category := strings.TrimSpace(c.Category)
	if category == "" {
		return models.Input{}, apperrors.Validation(apperrors.ReasonCategoryRequired)
	}

	amount, err := ParseAmount(c.AmountText)
	if err != nil {
		return models.Input{}, err
	}

	return models.Input{
		FarmerName: owner,
		Crop:       category,
		Amount:     amount,
	}, nil
}

// Amount bounds. Anything outside them is rejected as an invalid amount,
// which keeps every stored value small enough to print in full.
const (
	MaxScale    = 8  // decimal places
	maxExponent = 64 // |exponent| accepted before any arithmetic
)

// MaxAmount is the exclusive upper bound on an amount.
var MaxAmount = decimal.New(1, 15)

// ParseAmount parses a locale-independent decimal and requires it to be
// strictly positive, below MaxAmount and at most MaxScale decimal places.
func ParseAmount(text string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.CodeValidation, apperrors.ReasonAmountInvalid, err)
	}
	// checked first so that 1e5000000 is never expanded
	if exp := amount.Exponent(); exp > maxExponent || exp < -maxExponent {
		return decimal.Zero, apperrors.Validation(apperrors.ReasonAmountInvalid)
	}
	if !amount.IsPositive() || amount.GreaterThanOrEqual(MaxAmount) {
		return decimal.Zero, apperrors.Validation(apperrors.ReasonAmountInvalid)
	}
	if !amount.Equal(amount.Truncate(MaxScale)) {
		return decimal.Zero, apperrors.Validation(apperrors.ReasonAmountInvalid)
	}
	return amount, nil
}
