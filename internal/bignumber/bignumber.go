package bignumber

import (
	"github.com/shopspring/decimal"
)

// BNOrZero coerces value into a decimal. Invalid, nil, or unsupported input
// yields the decimal zero; it never fails.
func BNOrZero(value any) decimal.Decimal {
	switch v := value.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return v
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero
		}
		return *v
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero
		}
		return parsed
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint64:
		return decimal.NewFromUint64(v)
	case float64:
		return decimal.NewFromFloat(v)
	default:
		return decimal.Zero
	}
}

// FromBaseUnit converts an integer base-unit amount into display units by
// dividing by 10^precision.
func FromBaseUnit(amount decimal.Decimal, precision int) decimal.Decimal {
	return amount.Shift(int32(-precision))
}

// ToBaseUnit converts a display-unit amount into base units by multiplying
// by 10^precision.
func ToBaseUnit(amount decimal.Decimal, precision int) decimal.Decimal {
	return amount.Shift(int32(precision))
}

// Sum folds the values left to right starting from an explicit zero.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, value := range values {
		total = total.Add(value)
	}
	return total
}
