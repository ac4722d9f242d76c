package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srabonmojumder/velora-Ecommerce/internal/catalog"
	"github.com/srabonmojumder/velora-Ecommerce/internal/domain"
	"github.com/srabonmojumder/velora-Ecommerce/internal/persist"
	"github.com/srabonmojumder/velora-Ecommerce/internal/repository/memory"
	"github.com/srabonmojumder/velora-Ecommerce/internal/service"
	"github.com/srabonmojumder/velora-Ecommerce/internal/session"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/health"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/httputil"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/middleware"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/pagination"
)

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testServer struct {
	router http.Handler
	repo   *memory.BlobRepository
	health *health.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := testLogger()

	cat, err := catalog.Default()
	require.NoError(t, err)

	repo := memory.NewBlobRepository()
	sessions, err := session.NewManager(persist.NewPersister(repo, logger), 8, logger)
	require.NoError(t, err)

	svc := service.NewStorefrontService(cat, sessions, nil, logger, 0)

	hh := health.NewHandler()
	hh.Register("storage", repo.Ping)

	return &testServer{
		router: NewRouter(svc, hh, logger, middleware.DefaultCORSConfig(), middleware.DefaultRateLimitConfig()),
		repo:   repo,
		health: hh,
	}
}

func (s *testServer) do(t *testing.T, method, path, origin string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if origin != "" {
		req.Header.Set(middleware.OriginIDHeader, origin)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// decodeData unwraps the envelope into dst and fails on an error envelope.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var env struct {
		Data  json.RawMessage         `json:"data"`
		Error *httputil.ErrorResponse `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	require.Nil(t, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *httputil.ErrorResponse {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	return resp.Error
}

// ============================================================================
// Catalog
// ============================================================================

func TestListProducts_FiltersAndSorts(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/products?category=fashion&sort=price-high", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list pagination.Page[domain.Product]
	decodeData(t, rec, &list)
	require.Equal(t, 4, list.Total)
	require.Len(t, list.Items, 4)
	assert.Equal(t, 2, list.Items[0].ID)
	assert.Equal(t, 20, list.Items[3].ID)
	assert.Equal(t, 1, list.TotalPages)
}

func TestListProducts_Paginates(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/products?page=2&per_page=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list pagination.Page[domain.Product]
	decodeData(t, rec, &list)
	assert.Equal(t, 20, list.Total)
	assert.Equal(t, 4, list.TotalPages)
	require.Len(t, list.Items, 5)
	assert.Equal(t, 6, list.Items[0].ID)
	assert.True(t, list.HasNext)
	assert.True(t, list.HasPrev)
}

func TestListProducts_InvalidQuery(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		path string
	}{
		{"bad price", "/api/v1/products?min_price=cheap"},
		{"bad bool", "/api/v1/products?on_sale=maybe"},
		{"unknown sort", "/api/v1/products?sort=random"},
		{"inverted range", "/api/v1/products?min_price=100&max_price=10"},
		{"bad page", "/api/v1/products?page=0"},
		{"oversized page", "/api/v1/products?per_page=500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, tt.path, "", nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Code)
		})
	}
}

func TestGetProduct(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/products/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var detail ProductDetail
	decodeData(t, rec, &detail)
	assert.Equal(t, 1, detail.Product.ID)
	for _, p := range detail.Related {
		assert.Equal(t, "Electronics", p.Category)
		assert.NotEqual(t, 1, p.ID)
	}

	rec = srv.do(t, http.MethodGet, "/api/v1/products/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PARAMETER", decodeError(t, rec).Code)
}

func TestStaticCatalogEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/v1/categories", "/api/v1/testimonials", "/api/v1/home", "/api/v1/currencies"} {
		t.Run(path, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

// ============================================================================
// Cart
// ============================================================================

func TestCart_RequiresOrigin(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_ORIGIN", decodeError(t, rec).Code)
}

func TestCart_UserIDFallback(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(middleware.UserIDHeader, "user-42")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCart_Lifecycle(t *testing.T) {
	srv := newTestServer(t)
	const origin = "browser-1"

	rec := srv.do(t, http.MethodPost, "/api/v1/cart/items", origin, map[string]int{"productId": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	var cart service.CartView
	decodeData(t, rec, &cart)
	assert.True(t, cart.Applied)
	assert.Equal(t, 2, cart.TotalItems)
	assert.Equal(t, "509.98", cart.TotalPrice.StringFixed(2))

	rec = srv.do(t, http.MethodPut, "/api/v1/cart/items/1", origin, map[string]int{"quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &cart)
	assert.Equal(t, 1, cart.TotalItems)

	rec = srv.do(t, http.MethodGet, "/api/v1/cart/summary?currency=GBP", origin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		Currency     string `json:"currency"`
		FreeShipping bool   `json:"freeShipping"`
	}
	decodeData(t, rec, &summary)
	assert.Equal(t, "GBP", summary.Currency)
	assert.True(t, summary.FreeShipping)

	rec = srv.do(t, http.MethodDelete, "/api/v1/cart/items/1", origin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &cart)
	assert.Empty(t, cart.Items)

	rec = srv.do(t, http.MethodDelete, "/api/v1/cart", origin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &cart)
	assert.False(t, cart.Applied)
}

func TestCart_PersistsEnvelope(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/cart/items", "browser-9", map[string]int{"productId": 3})
	require.Equal(t, http.StatusOK, rec.Code)

	blob, err := srv.repo.Get(context.Background(), persist.Key(session.CartStore, "browser-9"))
	require.NoError(t, err)

	var env struct {
		State struct {
			Cart []struct {
				ID       int `json:"id"`
				Quantity int `json:"quantity"`
			} `json:"cart"`
		} `json:"state"`
		Version int `json:"version"`
	}
	require.NoError(t, json.Unmarshal(blob, &env))
	assert.Equal(t, 0, env.Version)
	require.Len(t, env.State.Cart, 1)
	assert.Equal(t, 3, env.State.Cart[0].ID)
	assert.Equal(t, 1, env.State.Cart[0].Quantity)
}

func TestAddItem_Validation(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/cart/items", "browser-1", map[string]int{"quantity": 2})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
	assert.Contains(t, errResp.Fields, "productId")

	rec = srv.do(t, http.MethodPost, "/api/v1/cart/items", "browser-1", map[string]int{"productId": 999})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateItem_RequiresQuantity(t *testing.T) {
	srv := newTestServer(t)
	origin := "browser-1"

	rec := srv.do(t, http.MethodPost, "/api/v1/cart/items", origin, map[string]int{"productId": 1, "quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code)

	for name, body := range map[string]any{
		"empty body":       nil,
		"misspelled field": map[string]int{"qty": 5},
		"null quantity":    map[string]any{"quantity": nil},
	} {
		t.Run(name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPut, "/api/v1/cart/items/1", origin, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			errResp := decodeError(t, rec)
			assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
			assert.Contains(t, errResp.Fields, "quantity")
		})
	}

	rec = srv.do(t, http.MethodGet, "/api/v1/cart", origin, nil)
	var cart service.CartView
	decodeData(t, rec, &cart)
	assert.Equal(t, 3, cart.TotalItems)

	rec = srv.do(t, http.MethodPut, "/api/v1/cart/items/1", origin, map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &cart)
	assert.True(t, cart.Applied)
	assert.Empty(t, cart.Items)
}

func TestAddItem_MalformedBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.OriginIDHeader, "browser-1")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Code)
}

func TestContentTypeJSON_RejectsOtherTypes(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader("productId=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(middleware.OriginIDHeader, "browser-1")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

// ============================================================================
// Wishlist, compare, recently viewed
// ============================================================================

func TestWishlistEndpoints(t *testing.T) {
	srv := newTestServer(t)
	const origin = "browser-2"

	rec := srv.do(t, http.MethodPost, "/api/v1/wishlist/7", origin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/wishlist/7", origin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var membership WishlistMembership
	decodeData(t, rec, &membership)
	assert.True(t, membership.InWishlist)

	rec = srv.do(t, http.MethodPost, "/api/v1/wishlist/7/toggle", origin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled service.WishlistToggleView
	decodeData(t, rec, &toggled)
	assert.False(t, toggled.InWishlist)

	rec = srv.do(t, http.MethodDelete, "/api/v1/wishlist/7", origin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view service.WishlistView
	decodeData(t, rec, &view)
	assert.False(t, view.Applied)
}

func TestCompareEndpoints_FifthIsNotApplied(t *testing.T) {
	srv := newTestServer(t)
	const origin = "browser-3"

	for _, id := range []string{"1", "2", "3", "4"} {
		rec := srv.do(t, http.MethodPost, "/api/v1/compare/"+id, origin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := srv.do(t, http.MethodPost, "/api/v1/compare/5", origin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view service.CompareView
	decodeData(t, rec, &view)
	assert.False(t, view.Applied)
	assert.Equal(t, 4, view.Count)

	rec = srv.do(t, http.MethodDelete, "/api/v1/compare", origin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &view)
	assert.Empty(t, view.Products)
}

func TestRecentlyViewedEndpoints(t *testing.T) {
	srv := newTestServer(t)
	const origin = "browser-4"

	for _, id := range []string{"1", "2", "1"} {
		rec := srv.do(t, http.MethodPost, "/api/v1/recently-viewed/"+id, origin, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := srv.do(t, http.MethodGet, "/api/v1/recently-viewed", origin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view service.RecentlyViewedView
	decodeData(t, rec, &view)
	require.Len(t, view.Products, 2)
	assert.Equal(t, 1, view.Products[0].ID)

	rec = srv.do(t, http.MethodDelete, "/api/v1/recently-viewed", origin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

// ============================================================================
// Checkout
// ============================================================================

func checkoutBody() map[string]string {
	return map[string]string{
		"email":      "grace@example.com",
		"firstName":  "Grace",
		"lastName":   "Hopper",
		"address":    "1 Compiler Way",
		"city":       "Arlington",
		"state":      "VA",
		"zipCode":    "22201",
		"country":    "United States",
		"cardNumber": "4111111111111111",
		"cardName":   "Grace Hopper",
		"expiryDate": "07/2030",
		"cvv":        "4321",
	}
}

func TestCheckout_Success(t *testing.T) {
	srv := newTestServer(t)
	const origin = "browser-5"

	rec := srv.do(t, http.MethodPost, "/api/v1/cart/items", origin, map[string]int{"productId": 18})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/v1/checkout", origin, checkoutBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var order struct {
		OrderNumber string `json:"orderNumber"`
		Summary     struct {
			Total string `json:"total"`
		} `json:"summary"`
	}
	decodeData(t, rec, &order)
	assert.Regexp(t, `^LUX-[0-9A-Z]{9}$`, order.OrderNumber)
	assert.Equal(t, "64.99", order.Summary.Total)

	rec = srv.do(t, http.MethodGet, "/api/v1/cart", origin, nil)
	var cart service.CartView
	decodeData(t, rec, &cart)
	assert.Empty(t, cart.Items)
}

func TestCheckout_EmptyCart(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/checkout", "browser-6", checkoutBody())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Code)
}

func TestCheckout_ValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	body := checkoutBody()
	delete(body, "email")
	body["cvv"] = "12a"

	rec := srv.do(t, http.MethodPost, "/api/v1/checkout", "browser-7", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)
	assert.Contains(t, errResp.Fields, "email")
	assert.Contains(t, errResp.Fields, "cvv")
}

// ============================================================================
// Health and metrics
// ============================================================================

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	srv.health.Register("broker", func(context.Context) error { return errors.New("unreachable") })
	rec = srv.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	_ = srv.do(t, http.MethodGet, "/api/v1/products", "", nil)

	rec := srv.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
