package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/srabonmojumder/velora-Ecommerce/internal/domain"
	apperrors "github.com/srabonmojumder/velora-Ecommerce/pkg/errors"
)

// Sort orders.
const (
	SortFeatured  = "featured"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortName      = "name"
	SortRating    = "rating"
)

// Quick filters.
const (
	QuickAll      = "all"
	QuickSale     = "sale"
	QuickTrending = "trending"
	QuickNew      = "new"
	QuickPopular  = "popular"
)

const (
	trendingRating     = 4.7
	popularReviews     = 300
	relatedLimit       = 4
	featuredLimit      = 8
	flashSaleLimit     = 4
	flashSaleDiscount  = 15
	homeTrendingLimit  = 4
	homeTrendingRating = 4.5
)

// Query narrows and orders the product list. Zero values mean no filter.
// Price bounds apply to the list price, before discount.
type Query struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	OnSale   bool
	InStock  bool
	Quick    string
	Search   string
	Sort     string
}

// Validate rejects unknown sort orders, quick filters and inverted price ranges.
func (q Query) Validate() error {
	switch q.Sort {
	case "", SortFeatured, SortPriceLow, SortPriceHigh, SortName, SortRating:
	default:
		return apperrors.InvalidInput("unknown sort: " + q.Sort)
	}
	switch q.Quick {
	case "", QuickAll, QuickSale, QuickTrending, QuickNew, QuickPopular:
	default:
		return apperrors.InvalidInput("unknown quick filter: " + q.Quick)
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return apperrors.InvalidInput("min_price must not exceed max_price")
	}
	return nil
}

// Search returns the products matching q in the requested order.
func (c *Catalog) Search(q Query) ([]domain.Product, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if q.matches(p, needle) {
			out = append(out, p)
		}
	}

	switch q.Sort {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(b.Price, a.Price) })
	case SortName:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	case SortRating:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(b.Rating, a.Rating) })
	}
	return out, nil
}

func (q Query) matches(p domain.Product, needle string) bool {
	switch q.Quick {
	case QuickSale:
		if !p.OnSale() {
			return false
		}
	case QuickTrending:
		if p.Rating < trendingRating {
			return false
		}
	case QuickNew:
		if p.ID%3 != 0 {
			return false
		}
	case QuickPopular:
		if p.Reviews < popularReviews {
			return false
		}
	}

	if q.Category != "" && !strings.EqualFold(q.Category, "all") && !strings.EqualFold(p.Category, q.Category) {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	if q.OnSale && !p.OnSale() {
		return false
	}
	if q.InStock && !p.InStock {
		return false
	}
	if needle != "" && !containsFold(p, needle) {
		return false
	}
	return true
}

func containsFold(p domain.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) || strings.Contains(strings.ToLower(p.Category), needle) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// Related returns up to four other products from the same category.
func (c *Catalog) Related(id int) ([]domain.Product, error) {
	p, err := c.Product(id)
	if err != nil {
		return nil, err
	}
	return c.take(relatedLimit, func(o domain.Product) bool {
		return o.Category == p.Category && o.ID != p.ID
	}), nil
}

// Home groups the collections shown on the landing page.
type Home struct {
	Featured     []domain.Product     `json:"featured"`
	FlashSale    []domain.Product     `json:"flashSale"`
	Trending     []domain.Product     `json:"trending"`
	Categories   []domain.Category    `json:"categories"`
	Testimonials []domain.Testimonial `json:"testimonials"`
}

// Home builds the landing page collections.
func (c *Catalog) Home() Home {
	return Home{
		Featured: c.take(featuredLimit, func(domain.Product) bool { return true }),
		FlashSale: c.take(flashSaleLimit, func(p domain.Product) bool {
			return p.Discount >= flashSaleDiscount
		}),
		Trending: c.take(homeTrendingLimit, func(p domain.Product) bool {
			return p.Rating >= homeTrendingRating
		}),
		Categories:   c.Categories(),
		Testimonials: c.Testimonials(),
	}
}

func (c *Catalog) take(limit int, keep func(domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0, limit)
	for _, p := range c.products {
		if len(out) == limit {
			break
		}
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
