package domain

import "slices"

// Wishlist is the state held by the wishlist store: saved products, unique by
// id, in insertion order.
type Wishlist struct {
	Items []Product `json:"wishlist"`
}

// Add appends the product unless an entry with the same id already exists.
func (w Wishlist) Add(p Product) (Wishlist, bool) {
	if w.Contains(p.ID) {
		return w, false
	}
	return Wishlist{Items: append(slices.Clone(w.Items), p)}, true
}

// Remove drops the entry with the given id.
func (w Wishlist) Remove(productID int) (Wishlist, bool) {
	i := indexOf(w.Items, productID)
	if i < 0 {
		return w, false
	}
	return Wishlist{Items: slices.Delete(slices.Clone(w.Items), i, i+1)}, true
}

// Toggle removes the product when saved and adds it otherwise.
func (w Wishlist) Toggle(p Product) (Wishlist, bool) {
	if w.Contains(p.ID) {
		return w.Remove(p.ID)
	}
	return w.Add(p)
}

// Contains is a linear membership scan.
func (w Wishlist) Contains(productID int) bool {
	return indexOf(w.Items, productID) >= 0
}
