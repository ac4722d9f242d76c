// Package catalog serves the read-only product catalog: products, categories
// and testimonials loaded once at start.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/srabonmojumder/velora-Ecommerce/internal/domain"
	apperrors "github.com/srabonmojumder/velora-Ecommerce/pkg/errors"
)

//go:embed data/catalog.json
var defaultCatalog []byte

type document struct {
	Products     []domain.Product     `json:"products"`
	Categories   []domain.Category    `json:"categories"`
	Testimonials []domain.Testimonial `json:"testimonials"`
}

// Catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	products     []domain.Product
	byID         map[int]int
	categories   []domain.Category
	testimonials []domain.Testimonial
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(bytes.NewReader(defaultCatalog))
}

// LoadFile reads a catalog document from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a catalog document. Product ids must be positive and unique.
// Category counts are recomputed from the products.
func Parse(r io.Reader) (*Catalog, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		products:     doc.Products,
		byID:         make(map[int]int, len(doc.Products)),
		categories:   doc.Categories,
		testimonials: doc.Testimonials,
	}

	counts := make(map[string]int)
	for i, p := range doc.Products {
		if p.ID <= 0 {
			return nil, fmt.Errorf("catalog product %q: id must be positive", p.Name)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog product %d: duplicate id", p.ID)
		}
		if p.Discount < 0 || p.Discount > 100 {
			return nil, fmt.Errorf("catalog product %d: discount out of range", p.ID)
		}
		c.byID[p.ID] = i
		counts[p.Category]++
	}
	for i := range c.categories {
		c.categories[i].Count = counts[c.categories[i].Name]
	}
	return c, nil
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Product returns the product with id.
func (c *Catalog) Product(id int) (domain.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", strconv.Itoa(id))
	}
	return c.products[i], nil
}

// Products returns every product in catalog order.
func (c *Catalog) Products() []domain.Product {
	return clone(c.products)
}

// Categories returns the storefront categories with live product counts.
func (c *Catalog) Categories() []domain.Category {
	return clone(c.categories)
}

// Testimonials returns the customer quotes.
func (c *Catalog) Testimonials() []domain.Testimonial {
	return clone(c.testimonials)
}

func clone[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}
