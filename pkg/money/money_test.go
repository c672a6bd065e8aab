package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name  string
		qty   int
		price string
		want  string
	}{
		{"whole", 3, "2.50", "7.5"},
		{"rounds half up", 1, "0.125", "0.13"},
		{"zero qty", 0, "9.99", "0"},
		{"float drift avoided", 3, "0.1", "0.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LineTotal(tt.qty, decimal.RequireFromString(tt.price))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("LineTotal(%d, %s) = %s, want %s", tt.qty, tt.price, got, tt.want)
			}
		})
	}
}

func TestSumAndSign(t *testing.T) {
	total := Sum(decimal.RequireFromString("10.10"), decimal.RequireFromString("0.20"), decimal.RequireFromString("-0.30"))
	if !total.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("Sum = %s, want 10", total)
	}
	if IsNegative(total) {
		t.Fatalf("10 is not negative")
	}
	if !IsNegative(decimal.RequireFromString("-0.01")) {
		t.Fatalf("-0.01 is negative")
	}
}

func TestAmountsMarshalAsNumbers(t *testing.T) {
	out, err := json.Marshal(map[string]decimal.Decimal{"total": decimal.RequireFromString("12.50")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"total":12.5}` {
		t.Fatalf("unexpected json %s", out)
	}
}
