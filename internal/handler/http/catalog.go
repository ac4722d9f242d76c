package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/srabonmojumder/velora-Ecommerce/internal/catalog"
	"github.com/srabonmojumder/velora-Ecommerce/internal/domain"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/httputil"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/pagination"
)

// CatalogHandler serves the read-only catalog endpoints.
type CatalogHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(cat *catalog.Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: cat, logger: logger}
}

// ProductDetail is a product with the related products shown beside it.
type ProductDetail struct {
	Product domain.Product   `json:"product"`
	Related []domain.Product `json:"related"`
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	page, err := pagination.FromRequest(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	products, err := h.catalog.Search(q)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, pagination.Slice(products, page))
}

func parseQuery(r *http.Request) (catalog.Query, error) {
	values := r.URL.Query()
	q := catalog.Query{
		Category: values.Get("category"),
		Quick:    values.Get("quick"),
		Search:   values.Get("q"),
		Sort:     values.Get("sort"),
	}

	var err error
	if q.MinPrice, err = httputil.QueryFloat(r, "min_price"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = httputil.QueryFloat(r, "max_price"); err != nil {
		return q, err
	}
	if q.OnSale, err = httputil.QueryBool(r, "on_sale"); err != nil {
		return q, err
	}
	if q.InStock, err = httputil.QueryBool(r, "in_stock"); err != nil {
		return q, err
	}
	return q, nil
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, "product id", chi.URLParam(r, "id"))
	if !ok {
		return
	}

	p, err := h.catalog.Product(id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	related, err := h.catalog.Related(id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, ProductDetail{Product: p, Related: related})
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.catalog.Categories())
}

// ListTestimonials handles GET /api/v1/testimonials
func (h *CatalogHandler) ListTestimonials(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.catalog.Testimonials())
}

// Home handles GET /api/v1/home
func (h *CatalogHandler) Home(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteData(w, http.StatusOK, h.catalog.Home())
}

// ListCurrencies handles GET /api/v1/currencies
func (h *CatalogHandler) ListCurrencies(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteData(w, http.StatusOK, domain.Currencies())
}
