package models

// LineItem is a (product reference, quantity) pair stored inside a cart.
// The cart references products by id only; product data is never copied in.
type LineItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// Cart represents a shopping cart as persisted.
type Cart struct {
	ID       string     `json:"id"`
	Products []LineItem `json:"products"`
}

// CartLine is a cart line item as returned to callers: the product is
// resolved against the catalog and the line total is derived at read time.
type CartLine struct {
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	ItemTotal float64 `json:"itemTotal"`
}

// CartView is the read model of a cart. Totals are never persisted, so
// they always reflect current product prices.
type CartView struct {
	ID       string     `json:"id"`
	Products []CartLine `json:"products"`
	Total    float64    `json:"total"`
}

// LineTotal derives the total of a single line item. Every call site that
// needs an item total goes through here.
func LineTotal(price float64, quantity int) float64 {
	return price * float64(quantity)
}
