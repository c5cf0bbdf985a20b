package pricing

import "github.com/shopspring/decimal"

// BulkPurchaseThreshold is the line quantity that unlocks the cart-wide bonus.
const BulkPurchaseThreshold = 10

var (
	// BulkPurchaseBonus is added to every line's rate once any line reaches BulkPurchaseThreshold.
	BulkPurchaseBonus = decimal.RequireFromString("0.05")
	// MaxDiscountRate caps the combined per-line rate.
	MaxDiscountRate = decimal.RequireFromString("0.5")
)

// BaseDiscount returns the highest tier rate whose quantity the line has reached.
func BaseDiscount(item CartItem) decimal.Decimal {
	best := decimal.Zero
	for _, tier := range item.Product.Discounts {
		if item.Quantity >= tier.Quantity && tier.Rate.GreaterThan(best) {
			best = tier.Rate
		}
	}
	return best
}

// HasBulkPurchase reports whether any line in the cart reaches the bulk threshold.
func HasBulkPurchase(cart Cart) bool {
	for _, item := range cart {
		if item.Quantity >= BulkPurchaseThreshold {
			return true
		}
	}
	return false
}

// MaxApplicableDiscount resolves the rate for one line. The bulk bonus depends on the
// whole cart, so adding units of one product can raise the rate of every other line.
func MaxApplicableDiscount(item CartItem, cart Cart) decimal.Decimal {
	return combineRate(BaseDiscount(item), HasBulkPurchase(cart))
}

// ResolveDiscounts computes the rate of every line with a single bulk scan.
func ResolveDiscounts(cart Cart) []decimal.Decimal {
	bulk := HasBulkPurchase(cart)
	rates := make([]decimal.Decimal, len(cart))
	for i, item := range cart {
		rates[i] = combineRate(BaseDiscount(item), bulk)
	}
	return rates
}

func combineRate(base decimal.Decimal, bulk bool) decimal.Decimal {
	rate := base
	if bulk {
		rate = rate.Add(BulkPurchaseBonus)
	}
	if rate.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(rate, MaxDiscountRate)
}
