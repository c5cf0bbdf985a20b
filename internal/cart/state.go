package cart

import (
	"fmt"

	"github.com/angelmondragon/shopcart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/shopcart-backend/pkg/errors"
	"github.com/angelmondragon/shopcart-backend/pkg/pricing"
)

// PercentageCouponMinimum is the smallest discounted items total a percentage coupon accepts.
const PercentageCouponMinimum int64 = 10000

// State is the cart contents plus the selected coupon. Transitions never mutate their input.
type State struct {
	Items          pricing.Cart    `json:"items"`
	SelectedCoupon *pricing.Coupon `json:"selected_coupon"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := State{Items: s.Items.Clone()}
	if out.Items == nil {
		out.Items = pricing.Cart{}
	}
	if s.SelectedCoupon != nil {
		coupon := *s.SelectedCoupon
		out.SelectedCoupon = &coupon
	}
	return out
}

// TotalItemCount sums the quantities of every line.
func (s State) TotalItemCount() int {
	return s.Items.TotalQuantity()
}

// Quote prices the state.
func (s State) Quote() pricing.Quote {
	return pricing.BuildQuote(s.Items, s.SelectedCoupon)
}

// AddToCart adds one unit of product, creating the line on first add. With no stock left,
// a product already in the cart reports StockExceeded and any other product OutOfStock.
func AddToCart(state State, product pricing.Product) (State, error) {
	idx := state.Items.IndexOf(product.ID)
	if pricing.RemainingStock(product, state.Items) <= 0 {
		if idx >= 0 {
			return state, stockExceeded(product.ID, product.Stock)
		}
		return state, pkgerrors.New(pkgerrors.CodeOutOfStock, "insufficient stock").
			WithDetails(map[string]any{"product_id": product.ID, "stock": product.Stock})
	}

	newQty := 1
	if idx >= 0 {
		newQty = state.Items[idx].Quantity + 1
	}
	if newQty > product.Stock {
		return state, stockExceeded(product.ID, product.Stock)
	}

	next := state.Clone()
	if idx >= 0 {
		next.Items[idx] = pricing.CartItem{Product: product, Quantity: newQty}
	} else {
		next.Items = append(next.Items, pricing.CartItem{Product: product, Quantity: 1})
	}
	return next, nil
}

// UpdateQuantity sets the quantity of an existing line; zero or less removes it.
// product is the current catalog entry and bounds the quantity.
func UpdateQuantity(state State, product pricing.Product, quantity int) (State, error) {
	if quantity <= 0 {
		return RemoveFromCart(state, product.ID), nil
	}

	idx := state.Items.IndexOf(product.ID)
	if idx < 0 {
		return state, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart").
			WithDetails(map[string]any{"product_id": product.ID})
	}
	if quantity > product.Stock {
		return state, stockExceeded(product.ID, product.Stock)
	}

	next := state.Clone()
	next.Items[idx] = pricing.CartItem{Product: product, Quantity: quantity}
	return next, nil
}

// RefreshProducts replaces each line's product with the catalog entry returned by lookup
// and caps quantities at the current stock, dropping lines with none left. Lines whose
// product is no longer in the catalog keep their snapshot. It returns the ids it capped.
func RefreshProducts(state State, lookup func(id string) (pricing.Product, bool)) (State, []string) {
	next := state.Clone()
	var capped []string
	items := next.Items[:0]
	for _, item := range next.Items {
		current, ok := lookup(item.Product.ID)
		if ok {
			item.Product = current
			if item.Quantity > current.Stock {
				capped = append(capped, current.ID)
				if current.Stock <= 0 {
					continue
				}
				item.Quantity = current.Stock
			}
		}
		items = append(items, item)
	}
	next.Items = items
	return next, capped
}

// RemoveFromCart drops the line for productID if present.
func RemoveFromCart(state State, productID string) State {
	next := state.Clone()
	if idx := next.Items.IndexOf(productID); idx >= 0 {
		next.Items = append(next.Items[:idx], next.Items[idx+1:]...)
	}
	return next
}

// ApplyCoupon selects coupon. Percentage coupons need a discounted items total of at
// least PercentageCouponMinimum.
func ApplyCoupon(state State, coupon pricing.Coupon) (State, error) {
	if coupon.DiscountType == enums.DiscountTypePercentage {
		if total := pricing.ItemsTotal(state.Items); total < PercentageCouponMinimum {
			return state, pkgerrors.New(pkgerrors.CodeCouponIneligible,
				fmt.Sprintf("percentage coupons require a purchase of at least %d", PercentageCouponMinimum)).
				WithDetails(map[string]any{"code": coupon.Code, "items_total": total, "minimum": PercentageCouponMinimum})
		}
	}
	next := state.Clone()
	next.SelectedCoupon = &coupon
	return next, nil
}

// UnapplyCoupon clears the selected coupon.
func UnapplyCoupon(state State) State {
	next := state.Clone()
	next.SelectedCoupon = nil
	return next
}

// ClearCart empties the cart and clears the selected coupon.
func ClearCart(State) State {
	return State{Items: pricing.Cart{}}
}

func stockExceeded(productID string, stock int) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeStockExceeded, fmt.Sprintf("only %d in stock", stock)).
		WithDetails(map[string]any{"product_id": productID, "stock": stock})
}
