package domain

import "slices"

// MaxCompareProducts bounds the side-by-side comparison width.
const MaxCompareProducts = 4

// CompareSet is the state held by the compare store.
type CompareSet struct {
	Products []Product `json:"compareProducts"`
}

// Add appends the product when the set has room and does not hold it yet.
// A full set or a duplicate id is a silent no-op.
func (c CompareSet) Add(p Product) (CompareSet, bool) {
	if len(c.Products) >= MaxCompareProducts {
		return c, false
	}
	if indexOf(c.Products, p.ID) >= 0 {
		return c, false
	}
	return CompareSet{Products: append(slices.Clone(c.Products), p)}, true
}

// Remove drops the product with the given id.
func (c CompareSet) Remove(productID int) (CompareSet, bool) {
	i := indexOf(c.Products, productID)
	if i < 0 {
		return c, false
	}
	return CompareSet{Products: slices.Delete(slices.Clone(c.Products), i, i+1)}, true
}

// Clear empties the set.
func (c CompareSet) Clear() (CompareSet, bool) {
	if len(c.Products) == 0 {
		return c, false
	}
	return CompareSet{Products: []Product{}}, true
}

// Full reports whether another distinct product would be rejected.
func (c CompareSet) Full() bool {
	return len(c.Products) >= MaxCompareProducts
}
