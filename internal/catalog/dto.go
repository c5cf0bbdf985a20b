package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shopcart-backend/pkg/enums"
	"github.com/angelmondragon/shopcart-backend/pkg/pricing"
)

// DiscountTierInput defines a tiered discount rate for a minimum quantity.
type DiscountTierInput struct {
	Quantity int             `json:"quantity" validate:"gt=0"`
	Rate     decimal.Decimal `json:"rate" validate:"gte=0,lte=1"`
}

// ProductInput holds the validated payload to create a product.
type ProductInput struct {
	Name          string              `json:"name" validate:"required,max=200"`
	Description   string              `json:"description" validate:"max=2000"`
	Price         int64               `json:"price" validate:"gte=0"`
	Stock         int                 `json:"stock" validate:"gte=0,lte=9999"`
	Discounts     []DiscountTierInput `json:"discounts" validate:"dive"`
	IsRecommended bool                `json:"is_recommended"`
}

// ProductPatch holds optional mutation values for a product.
type ProductPatch struct {
	Name          *string              `json:"name"`
	Description   *string              `json:"description"`
	Price         *int64               `json:"price"`
	Stock         *int                 `json:"stock"`
	Discounts     *[]DiscountTierInput `json:"discounts"`
	IsRecommended *bool                `json:"is_recommended"`
}

// CouponInput holds the payload to register a coupon.
type CouponInput struct {
	Name          string             `json:"name" validate:"required,max=100"`
	Code          string             `json:"code" validate:"required,max=50"`
	DiscountType  enums.DiscountType `json:"discount_type" validate:"required"`
	DiscountValue int64              `json:"discount_value" validate:"gte=0"`
}

func (in ProductInput) toProduct(id string) pricing.Product {
	return pricing.Product{
		ID:            id,
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price,
		Stock:         in.Stock,
		Discounts:     toTiers(in.Discounts),
		IsRecommended: in.IsRecommended,
	}
}

func inputFromProduct(p pricing.Product) ProductInput {
	tiers := make([]DiscountTierInput, 0, len(p.Discounts))
	for _, tier := range p.Discounts {
		tiers = append(tiers, DiscountTierInput{Quantity: tier.Quantity, Rate: tier.Rate})
	}
	return ProductInput{
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Stock:         p.Stock,
		Discounts:     tiers,
		IsRecommended: p.IsRecommended,
	}
}

// apply overlays the set fields of patch onto in.
func (patch ProductPatch) apply(in ProductInput) ProductInput {
	if patch.Name != nil {
		in.Name = *patch.Name
	}
	if patch.Description != nil {
		in.Description = *patch.Description
	}
	if patch.Price != nil {
		in.Price = *patch.Price
	}
	if patch.Stock != nil {
		in.Stock = *patch.Stock
	}
	if patch.Discounts != nil {
		in.Discounts = *patch.Discounts
	}
	if patch.IsRecommended != nil {
		in.IsRecommended = *patch.IsRecommended
	}
	return in
}

func toTiers(inputs []DiscountTierInput) []pricing.DiscountTier {
	tiers := make([]pricing.DiscountTier, 0, len(inputs))
	for _, in := range inputs {
		tiers = append(tiers, pricing.DiscountTier{Quantity: in.Quantity, Rate: in.Rate})
	}
	return tiers
}

// NormalizeCouponCode trims and upper-cases a coupon code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
