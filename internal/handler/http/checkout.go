package http

import (
	"log/slog"
	"net/http"

	"github.com/srabonmojumder/velora-Ecommerce/internal/domain"
	"github.com/srabonmojumder/velora-Ecommerce/internal/service"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/httputil"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/middleware"
)

// CheckoutHandler handles the simulated checkout.
type CheckoutHandler struct {
	service *service.StorefrontService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.StorefrontService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: svc, logger: logger}
}

// Checkout handles POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var form domain.CheckoutForm
	if err := decodeJSON(r, &form); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	order, err := h.service.Checkout(r.Context(), middleware.OriginFromContext(r.Context()), form)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, order)
}
