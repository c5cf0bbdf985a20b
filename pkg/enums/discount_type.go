package enums

import (
	"fmt"
	"strings"
)

// DiscountType describes how a coupon reduces the cart total.
type DiscountType string

const (
	DiscountTypeAmount     DiscountType = "amount"
	DiscountTypePercentage DiscountType = "percentage"
)

var validDiscountTypes = []DiscountType{
	DiscountTypeAmount,
	DiscountTypePercentage,
}

// String implements fmt.Stringer.
func (d DiscountType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountType.
func (d DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// MaxValue returns the upper bound accepted for a coupon of this type.
func (d DiscountType) MaxValue() int64 {
	switch d {
	case DiscountTypeAmount:
		return 100000
	case DiscountTypePercentage:
		return 100
	}
	return 0
}

// ParseDiscountType converts raw input into a DiscountType.
func ParseDiscountType(value string) (DiscountType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validDiscountTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}
