package validation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/farminvest/internal/apperrors"
)

func TestValidate_Accepts(t *testing.T) {
	in, err := Validate(Candidate{Owner: "  John Doe ", Category: "Wheat\n", AmountText: " 5000 "})
	require.NoError(t, err)

	assert.Equal(t, "John Doe", in.FarmerName)
	assert.Equal(t, "Wheat", in.Crop)
	assert.True(t, in.Amount.Equal(decimal.NewFromInt(5000)))
}

func TestValidate_SmallestPositiveAmount(t *testing.T) {
	in, err := Validate(Candidate{Owner: "a", Category: "b", AmountText: "0.01"})
	require.NoError(t, err)
	assert.Equal(t, "0.01", in.Amount.String())
}

func TestValidate_AcceptsBoundedAmounts(t *testing.T) {
	for _, text := range []string{"0.001", "0.00000001", "999999999999999.99999999", "1.50000000000", "2e3"} {
		in, err := Validate(Candidate{Owner: "a", Category: "b", AmountText: text})
		require.NoError(t, err, text)
		assert.True(t, in.Amount.Equal(decimal.RequireFromString(text)), text)
	}
}

func TestParseAmount_HugeExponentIsCheap(t *testing.T) {
	start := time.Now()
	_, err := ParseAmount("1e999999999")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		in     Candidate
		reason string
	}{
		{"empty owner", Candidate{Owner: "", Category: "Wheat", AmountText: "1"}, apperrors.ReasonOwnerRequired},
		{"blank owner", Candidate{Owner: "   ", Category: "Wheat", AmountText: "1"}, apperrors.ReasonOwnerRequired},
		{"blank category", Candidate{Owner: "John", Category: "\t", AmountText: "1"}, apperrors.ReasonCategoryRequired},
		{"zero amount", Candidate{Owner: "John", Category: "Wheat", AmountText: "0"}, apperrors.ReasonAmountInvalid},
		{"negative amount", Candidate{Owner: "John", Category: "Wheat", AmountText: "-5"}, apperrors.ReasonAmountInvalid},
		{"non numeric amount", Candidate{Owner: "John", Category: "Wheat", AmountText: "abc"}, apperrors.ReasonAmountInvalid},
		{"empty amount", Candidate{Owner: "John", Category: "Wheat", AmountText: ""}, apperrors.ReasonAmountInvalid},
		{"infinity", Candidate{Owner: "John", Category: "Wheat", AmountText: "Inf"}, apperrors.ReasonAmountInvalid},
		{"nan", Candidate{Owner: "John", Category: "Wheat", AmountText: "NaN"}, apperrors.ReasonAmountInvalid},
		{"beyond float range", Candidate{Owner: "John", Category: "Wheat", AmountText: "1e400"}, apperrors.ReasonAmountInvalid},
		{"huge exponent", Candidate{Owner: "John", Category: "Wheat", AmountText: "1e5000000"}, apperrors.ReasonAmountInvalid},
		{"tiny exponent", Candidate{Owner: "John", Category: "Wheat", AmountText: "1e-5000000"}, apperrors.ReasonAmountInvalid},
		{"at upper bound", Candidate{Owner: "John", Category: "Wheat", AmountText: "1000000000000000"}, apperrors.ReasonAmountInvalid},
		{"too many decimals", Candidate{Owner: "John", Category: "Wheat", AmountText: "0.000000001"}, apperrors.ReasonAmountInvalid},
		{"first failure wins", Candidate{Owner: "", Category: "", AmountText: "abc"}, apperrors.ReasonOwnerRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.in)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
			assert.Equal(t, tt.reason, apperrors.Message(err))
		})
	}
}
