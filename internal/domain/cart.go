package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// CartItem is a product line inside a cart. Product attributes are embedded so
// the persisted line has the same flat shape as the product plus quantity.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal returns the discounted unit price multiplied by the quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the state held by the cart store. Methods never mutate the receiver;
// each returns the next state and whether anything changed.
type Cart struct {
	Items []CartItem `json:"cart"`
}

// FindItemIndex returns the index of the line for the given product id, or -1.
func (c Cart) FindItemIndex(productID int) int {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			return i
		}
	}
	return -1
}

// Add increments the quantity of an existing line or appends a new line with
// quantity 1. Stock is not checked.
func (c Cart) Add(p Product) (Cart, bool) {
	items := slices.Clone(c.Items)
	if i := c.FindItemIndex(p.ID); i >= 0 {
		items[i].Quantity++
		return Cart{Items: items}, true
	}
	return Cart{Items: append(items, CartItem{Product: p, Quantity: 1})}, true
}

// Remove drops the line for the given product id.
func (c Cart) Remove(productID int) (Cart, bool) {
	i := c.FindItemIndex(productID)
	if i < 0 {
		return c, false
	}
	return Cart{Items: slices.Delete(slices.Clone(c.Items), i, i+1)}, true
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line. There is no upper bound.
func (c Cart) UpdateQuantity(productID, quantity int) (Cart, bool) {
	if quantity <= 0 {
		return c.Remove(productID)
	}
	i := c.FindItemIndex(productID)
	if i < 0 {
		return c, false
	}
	if c.Items[i].Quantity == quantity {
		return c, false
	}
	items := slices.Clone(c.Items)
	items[i].Quantity = quantity
	return Cart{Items: items}, true
}

// Clear empties the cart.
func (c Cart) Clear() (Cart, bool) {
	if len(c.Items) == 0 {
		return c, false
	}
	return Cart{Items: []CartItem{}}, true
}

// TotalPrice sums the discounted line totals. It is recomputed on every call.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// TotalItems sums the quantities of all lines.
func (c Cart) TotalItems() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
