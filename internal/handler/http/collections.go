package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/srabonmojumder/velora-Ecommerce/internal/service"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/httputil"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/middleware"
)

// CollectionsHandler handles the wishlist, compare and recently viewed
// endpoints.
type CollectionsHandler struct {
	service *service.StorefrontService
	logger  *slog.Logger
}

// NewCollectionsHandler creates a new collections HTTP handler.
func NewCollectionsHandler(svc *service.StorefrontService, logger *slog.Logger) *CollectionsHandler {
	return &CollectionsHandler{service: svc, logger: logger}
}

// WishlistMembership answers whether a product is saved.
type WishlistMembership struct {
	ProductID  int  `json:"productId"`
	InWishlist bool `json:"inWishlist"`
}

func serveOrigin[T any](h *CollectionsHandler, op func(ctx context.Context, origin string) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := op(r.Context(), middleware.OriginFromContext(r.Context()))
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		httputil.WriteData(w, http.StatusOK, v)
	}
}

func serveProduct[T any](h *CollectionsHandler, op func(ctx context.Context, origin string, productID int) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, ok := httputil.ParseID(w, "product id", chi.URLParam(r, "productId"))
		if !ok {
			return
		}
		v, err := op(r.Context(), middleware.OriginFromContext(r.Context()), productID)
		if err != nil {
			httputil.WriteError(w, r, err, h.logger)
			return
		}
		httputil.WriteData(w, http.StatusOK, v)
	}
}

// GetWishlist handles GET /api/v1/wishlist
func (h *CollectionsHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	serveOrigin(h, h.service.GetWishlist)(w, r)
}

// WishlistContains handles GET /api/v1/wishlist/{productId}
func (h *CollectionsHandler) WishlistContains(w http.ResponseWriter, r *http.Request) {
	serveProduct(h, func(ctx context.Context, origin string, productID int) (*WishlistMembership, error) {
		in, err := h.service.IsInWishlist(ctx, origin, productID)
		if err != nil {
			return nil, err
		}
		return &WishlistMembership{ProductID: productID, InWishlist: in}, nil
	})(w, r)
}

// AddToWishlist handles POST /api/v1/wishlist/{productId}
func (h *CollectionsHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	serveProduct(h, h.service.AddToWishlist)(w, r)
}

// RemoveFromWishlist handles DELETE /api/v1/wishlist/{productId}
func (h *CollectionsHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	serveProduct(h, h.service.RemoveFromWishlist)(w, r)
}

// ToggleWishlist handles POST /api/v1/wishlist/{productId}/toggle
func (h *CollectionsHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	serveProduct(h, h.service.ToggleWishlist)(w, r)
}

// GetCompare handles GET /api/v1/compare
func (h *CollectionsHandler) GetCompare(w http.ResponseWriter, r *http.Request) {
	serveOrigin(h, h.service.GetCompare)(w, r)
}

// AddToCompare handles POST /api/v1/compare/{productId}
func (h *CollectionsHandler) AddToCompare(w http.ResponseWriter, r *http.Request) {
	serveProduct(h, h.service.AddToCompare)(w, r)
}

// RemoveFromCompare handles DELETE /api/v1/compare/{productId}
func (h *CollectionsHandler) RemoveFromCompare(w http.ResponseWriter, r *http.Request) {
	serveProduct(h, h.service.RemoveFromCompare)(w, r)
}

// ClearCompare handles DELETE /api/v1/compare
func (h *CollectionsHandler) ClearCompare(w http.ResponseWriter, r *http.Request) {
	serveOrigin(h, h.service.ClearCompare)(w, r)
}

// GetRecentlyViewed handles GET /api/v1/recently-viewed
func (h *CollectionsHandler) GetRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	serveOrigin(h, h.service.GetRecentlyViewed)(w, r)
}

// RecordView handles POST /api/v1/recently-viewed/{productId}
func (h *CollectionsHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	serveProduct(h, h.service.RecordView)(w, r)
}

// ClearRecentlyViewed handles DELETE /api/v1/recently-viewed
func (h *CollectionsHandler) ClearRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	serveOrigin(h, h.service.ClearRecentlyViewed)(w, r)
}
