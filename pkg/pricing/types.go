package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/shopcart-backend/pkg/enums"
)

// DiscountTier grants Rate off the line total once the line reaches Quantity units.
type DiscountTier struct {
	Quantity int             `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
}

// Product is a catalog entry. Price is expressed in minor currency units.
type Product struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Price         int64          `json:"price"`
	Stock         int            `json:"stock"`
	Discounts     []DiscountTier `json:"discounts"`
	IsRecommended bool           `json:"is_recommended,omitempty"`
}

// CartItem holds the product snapshot taken when it was first added.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is an ordered list of line items, unique by product id.
type Cart []CartItem

// Coupon is a cart-level discount applied after per-item discounts.
type Coupon struct {
	Name          string             `json:"name"`
	Code          string             `json:"code"`
	DiscountType  enums.DiscountType `json:"discount_type"`
	DiscountValue int64              `json:"discount_value"`
}

// Find returns the line item for productID.
func (c Cart) Find(productID string) (CartItem, bool) {
	if idx := c.IndexOf(productID); idx >= 0 {
		return c[idx], true
	}
	return CartItem{}, false
}

// IndexOf returns the position of productID in the cart or -1.
func (c Cart) IndexOf(productID string) int {
	for i, item := range c {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

// TotalQuantity sums the quantities of every line.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, item := range c {
		total += item.Quantity
	}
	return total
}

// Clone returns a copy that shares no line storage with c.
func (c Cart) Clone() Cart {
	if c == nil {
		return nil
	}
	out := make(Cart, len(c))
	copy(out, c)
	return out
}
