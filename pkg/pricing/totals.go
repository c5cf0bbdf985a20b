package pricing

import "github.com/shopspring/decimal"

// CartTotal is the cart-level summary before and after every discount.
type CartTotal struct {
	TotalBeforeDiscount int64 `json:"total_before_discount"`
	TotalAfterDiscount  int64 `json:"total_after_discount"`
}

// LineQuote is the priced view of a single cart line.
type LineQuote struct {
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       int64           `json:"unit_price"`
	Subtotal        int64           `json:"subtotal"`
	Rate            decimal.Decimal `json:"rate"`
	Total           int64           `json:"total"`
	DisplayRate     int64           `json:"display_rate"`
	RemainingStock  int             `json:"remaining_stock"`
	BulkBonusActive bool            `json:"bulk_bonus_active"`
}

// Quote is the full pricing breakdown of a cart with an optional coupon.
type Quote struct {
	Lines          []LineQuote `json:"lines"`
	ItemsTotal     int64       `json:"items_total"`
	CouponDiscount int64       `json:"coupon_discount"`
	TotalItemCount int         `json:"total_item_count"`
	CartTotal
}

// CalculateItemTotal prices a line after its tier and bulk discounts.
func CalculateItemTotal(item CartItem, cart Cart) int64 {
	return discountedLineTotal(item, MaxApplicableDiscount(item, cart))
}

// CalculateCartTotal sums undiscounted and discounted line totals and applies the coupon last.
func CalculateCartTotal(cart Cart, coupon *Coupon) CartTotal {
	return CartTotal{
		TotalBeforeDiscount: SubtotalBeforeDiscount(cart),
		TotalAfterDiscount:  ApplyCoupon(ItemsTotal(cart), coupon),
	}
}

// SubtotalBeforeDiscount sums price*quantity over the cart.
func SubtotalBeforeDiscount(cart Cart) int64 {
	var total int64
	for _, item := range cart {
		total += lineSubtotal(item)
	}
	return total
}

// ItemsTotal sums the discounted line totals before any coupon.
func ItemsTotal(cart Cart) int64 {
	var total int64
	for i, rate := range ResolveDiscounts(cart) {
		total += discountedLineTotal(cart[i], rate)
	}
	return total
}

// BuildQuote returns the per-line and cart-level breakdown used by the API.
func BuildQuote(cart Cart, coupon *Coupon) Quote {
	rates := ResolveDiscounts(cart)
	bulk := HasBulkPurchase(cart)
	quote := Quote{Lines: make([]LineQuote, 0, len(cart))}
	for i, item := range cart {
		subtotal := lineSubtotal(item)
		total := discountedLineTotal(item, rates[i])
		quote.Lines = append(quote.Lines, LineQuote{
			ProductID:       item.Product.ID,
			Name:            item.Product.Name,
			Quantity:        item.Quantity,
			UnitPrice:       item.Product.Price,
			Subtotal:        subtotal,
			Rate:            rates[i],
			Total:           total,
			DisplayRate:     DisplayDiscountRate(subtotal, total),
			RemainingStock:  RemainingStock(item.Product, cart),
			BulkBonusActive: bulk,
		})
		quote.ItemsTotal += total
		quote.TotalBeforeDiscount += subtotal
		quote.TotalItemCount += item.Quantity
	}
	quote.TotalAfterDiscount = ApplyCoupon(quote.ItemsTotal, coupon)
	quote.CouponDiscount = quote.ItemsTotal - quote.TotalAfterDiscount
	return quote
}

// DisplayDiscountRate is the whole-percent saving of discounted against original.
func DisplayDiscountRate(original, discounted int64) int64 {
	if original == 0 {
		return 0
	}
	ratio := decimal.NewFromInt(discounted).Div(decimal.NewFromInt(original))
	return roundMinor(decimal.NewFromInt(1).Sub(ratio).Mul(hundred))
}

func lineSubtotal(item CartItem) int64 {
	return item.Product.Price * int64(item.Quantity)
}

func discountedLineTotal(item CartItem, rate decimal.Decimal) int64 {
	base := decimal.NewFromInt(lineSubtotal(item))
	return roundMinor(base.Mul(decimal.NewFromInt(1).Sub(rate)))
}

// roundMinor rounds half away from zero to a whole minor unit.
func roundMinor(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
