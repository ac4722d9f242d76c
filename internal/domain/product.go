package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Product is an immutable catalog record. JSON field names follow the
// persisted storefront blobs so stored state rehydrates without mapping.
type Product struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Rating      float64  `json:"rating"`
	Reviews     int      `json:"reviews"`
	InStock     bool     `json:"inStock"`
	Discount    float64  `json:"discount,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// OnSale reports whether the product carries a non-zero discount.
func (p Product) OnSale() bool {
	return p.Discount != 0
}

// UnitPrice returns the price after applying the product discount, if any.
func (p Product) UnitPrice() decimal.Decimal {
	return DiscountedPrice(p.Price, p.Discount)
}

// DiscountedPrice computes price*(1-discount/100). A zero discount leaves the
// price untouched.
func DiscountedPrice(price, discount float64) decimal.Decimal {
	base := decimal.NewFromFloat(price)
	if discount == 0 {
		return base
	}
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(discount).Div(hundred))
	return base.Mul(factor)
}

// Category is a static catalog grouping shown on the storefront.
type Category struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Count int    `json:"count"`
}

// Testimonial is a static customer quote shown on the storefront.
type Testimonial struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Role    string  `json:"role"`
	Image   string  `json:"image"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

func indexOf(products []Product, id int) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}
