package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shopcart-backend/pkg/enums"
	"github.com/angelmondragon/shopcart-backend/pkg/pricing"
)

// DefaultProducts is the catalog installed when storage holds no products.
func DefaultProducts() []pricing.Product {
	return []pricing.Product{
		{
			ID:          "p1",
			Name:        "Product 1",
			Description: "Premium quality flagship product.",
			Price:       10000,
			Stock:       20,
			Discounts: []pricing.DiscountTier{
				{Quantity: 10, Rate: decimal.RequireFromString("0.1")},
				{Quantity: 20, Rate: decimal.RequireFromString("0.2")},
			},
		},
		{
			ID:          "p2",
			Name:        "Product 2",
			Description: "Practical product with a wide range of features.",
			Price:       20000,
			Stock:       20,
			Discounts: []pricing.DiscountTier{
				{Quantity: 10, Rate: decimal.RequireFromString("0.15")},
			},
			IsRecommended: true,
		},
		{
			ID:          "p3",
			Name:        "Product 3",
			Description: "High capacity, high performance product.",
			Price:       30000,
			Stock:       20,
			Discounts: []pricing.DiscountTier{
				{Quantity: 10, Rate: decimal.RequireFromString("0.2")},
				{Quantity: 30, Rate: decimal.RequireFromString("0.25")},
			},
		},
	}
}

// DefaultCoupons is the coupon list installed when storage holds no coupons.
func DefaultCoupons() []pricing.Coupon {
	return []pricing.Coupon{
		{Name: "5000 off", Code: "AMOUNT5000", DiscountType: enums.DiscountTypeAmount, DiscountValue: 5000},
		{Name: "10% off", Code: "PERCENT10", DiscountType: enums.DiscountTypePercentage, DiscountValue: 10},
	}
}
