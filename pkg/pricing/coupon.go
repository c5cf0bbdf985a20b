package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shopcart-backend/pkg/enums"
)

var hundred = decimal.NewFromInt(100)

// ApplyCoupon reduces amount by the coupon. Amount coupons never push the total below zero.
func ApplyCoupon(amount int64, coupon *Coupon) int64 {
	if coupon == nil {
		return amount
	}
	switch coupon.DiscountType {
	case enums.DiscountTypeAmount:
		if amount-coupon.DiscountValue < 0 {
			return 0
		}
		return amount - coupon.DiscountValue
	case enums.DiscountTypePercentage:
		factor := decimal.NewFromInt(1).Sub(decimal.NewFromInt(coupon.DiscountValue).Div(hundred))
		return roundMinor(decimal.NewFromInt(amount).Mul(factor))
	}
	return amount
}
