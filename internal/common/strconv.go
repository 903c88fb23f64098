package common

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// AtoiDefault converts the provided string to an integer falling back to the default when parsing fails.
func AtoiDefault(value string, def int) int {
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

// DecimalDefault parses decimal text falling back to the default when parsing fails.
// Basket prices and quantities arrive as raw text; malformed values resolve
// to the default rather than an error.
func DecimalDefault(value string, def decimal.Decimal) decimal.Decimal {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return def
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return def
	}
	return parsed
}
