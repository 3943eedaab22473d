package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyScale is the number of fractional digits the store prices in (millimes).
const CurrencyScale int32 = 3

// FormatAmount renders a currency amount with the store's fixed scale, e.g. "40.000".
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixedBank(CurrencyScale)
}

// ParseAmount parses a non-negative currency amount sent by clients.
func ParseAmount(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q must not be negative", raw)
	}
	if value.Exponent() < -CurrencyScale {
		return decimal.Zero, fmt.Errorf("amount %q has more than %d decimal places", raw, CurrencyScale)
	}
	return value, nil
}
