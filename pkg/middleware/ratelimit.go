package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/srabonmojumder/velora-Ecommerce/pkg/httputil"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/logger"
)

// RateLimitConfig configures the per-origin token bucket.
type RateLimitConfig struct {
	// RPS is the sustained request rate per origin. Zero disables limiting.
	RPS float64
	// Burst is the bucket size.
	Burst int
	// MaxOrigins bounds how many buckets are tracked at once.
	MaxOrigins int
	// IdleTTL drops the bucket of an origin not seen for this long.
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns a disabled limiter with sane bucket bounds.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Burst:      20,
		MaxOrigins: 10000,
		IdleTTL:    3 * time.Minute,
	}
}

type limiterStore struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	rps      rate.Limit
	burst    int
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.limiters.Get(key); ok {
		return l
	}
	l := rate.NewLimiter(s.rps, s.burst)
	s.limiters.Add(key, l)
	return l
}

// RateLimit returns middleware that throttles each origin with its own token
// bucket. Requests are keyed by the origin stored by RequireOrigin, or by
// client IP when no origin is present. Exceeding the bucket yields 429.
func RateLimit(cfg RateLimitConfig, log *slog.Logger) func(http.Handler) http.Handler {
	if cfg.RPS <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	store := &limiterStore{
		limiters: expirable.NewLRU[string, *rate.Limiter](cfg.MaxOrigins, nil, cfg.IdleTTL),
		rps:      rate.Limit(cfg.RPS),
		burst:    max(cfg.Burst, 1),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := OriginFromContext(r.Context())
			if key == "" {
				key = clientIP(r)
			}

			if !store.get(key).Allow() {
				log.Warn("rate limit exceeded",
					slog.String("key", key),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", "1")
				httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:      "RATE_LIMITED",
						Message:   "too many requests",
						RequestID: logger.CorrelationIDFromContext(r.Context()),
					},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// connection address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	if ip := net.ParseIP(r.Header.Get("X-Real-IP")); ip != nil {
		return ip.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
