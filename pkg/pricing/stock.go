package pricing

// RemainingStock is the product stock not yet claimed by the cart. It may be negative
// transiently, before a guard rejects an over-limit update.
func RemainingStock(product Product, cart Cart) int {
	item, _ := cart.Find(product.ID)
	return product.Stock - item.Quantity
}

// IsSoldOut reports whether no more units of product can be added.
func IsSoldOut(product Product, cart Cart) bool {
	return RemainingStock(product, cart) <= 0
}
