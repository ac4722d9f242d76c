package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/srabonmojumder/velora-Ecommerce/pkg/httputil"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/logger"
)

const (
	// OriginIDHeader identifies the browser or device whose storage slot a
	// request reads and writes.
	OriginIDHeader = "X-Origin-ID"
	// UserIDHeader is accepted as a fallback origin for clients that only
	// send a user id.
	UserIDHeader = "X-User-ID"
)

type originKey struct{}

var originPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// OriginFromRequest returns the origin id carried by r, preferring X-Origin-ID.
func OriginFromRequest(r *http.Request) string {
	if id := r.Header.Get(OriginIDHeader); id != "" {
		return id
	}
	return r.Header.Get(UserIDHeader)
}

// RequireOrigin rejects requests without a well-formed origin id and stores
// the id in the request context for handlers and loggers.
func RequireOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := OriginFromRequest(r)
		if !originPattern.MatchString(id) {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:      "MISSING_ORIGIN",
					Message:   "header " + OriginIDHeader + " is required (1-128 of A-Z a-z 0-9 . _ : -)",
					RequestID: logger.CorrelationIDFromContext(r.Context()),
				},
			})
			return
		}

		ctx := context.WithValue(r.Context(), originKey{}, id)
		ctx = logger.WithOriginID(ctx, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OriginFromContext returns the origin id stored by RequireOrigin.
func OriginFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(originKey{}).(string); ok {
		return id
	}
	return ""
}
