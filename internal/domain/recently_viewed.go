package domain

// MaxRecentlyViewed is how many products the recently-viewed list keeps.
const MaxRecentlyViewed = 10

// RecentlyViewed is the state held by the recently-viewed store, most recent
// first.
type RecentlyViewed struct {
	Products []Product `json:"recentProducts"`
}

// Add moves the product to the front, dropping any older entry for the same
// id and anything past MaxRecentlyViewed.
func (r RecentlyViewed) Add(p Product) (RecentlyViewed, bool) {
	next := make([]Product, 0, min(len(r.Products)+1, MaxRecentlyViewed))
	next = append(next, p)
	for _, existing := range r.Products {
		if len(next) == MaxRecentlyViewed {
			break
		}
		if existing.ID == p.ID {
			continue
		}
		next = append(next, existing)
	}
	return RecentlyViewed{Products: next}, true
}

// Clear empties the list.
func (r RecentlyViewed) Clear() (RecentlyViewed, bool) {
	if len(r.Products) == 0 {
		return r, false
	}
	return RecentlyViewed{Products: []Product{}}, true
}
