package money

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are rendered as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Scale is the number of fractional digits kept for stored amounts
const Scale = 2

// Round rounds an amount half away from zero to two decimals
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// LineTotal returns round(qty * unitPrice)
func LineTotal(qty int, unitPrice decimal.Decimal) decimal.Decimal {
	return Round(unitPrice.Mul(decimal.NewFromInt(int64(qty))))
}

// Sum adds amounts
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// IsNegative reports whether d < 0
func IsNegative(d decimal.Decimal) bool {
	return d.Sign() < 0
}

// FromFloat converts a float amount, rounding to two decimals
func FromFloat(f float64) decimal.Decimal {
	return Round(decimal.NewFromFloat(f))
}
