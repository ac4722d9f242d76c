package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/srabonmojumder/velora-Ecommerce/pkg/httputil"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/logger"
)

// CORSConfig controls which browser origins may call the API.
type CORSConfig struct {
	// AllowedOrigins lists exact origins ("https://shop.example"), subdomain
	// patterns ("https://*.shop.example") or "*".
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	// MaxAge is how long a browser may cache a preflight answer.
	MaxAge           time.Duration
	AllowCredentials bool
	// Environment "development" allows every origin regardless of the list.
	Environment string
}

// DefaultCORSConfig allows any origin. It is meant for development.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Accept", "Content-Type", CorrelationIDHeader, OriginIDHeader, UserIDHeader},
		ExposedHeaders: []string{CorrelationIDHeader, "Retry-After"},
		MaxAge:         time.Hour,
		Environment:    "development",
	}
}

type originMatcher struct {
	any      bool
	exact    []string
	suffixes [][2]string // scheme prefix, host suffix
}

func newOriginMatcher(cfg CORSConfig) originMatcher {
	m := originMatcher{any: cfg.Environment == "development"}
	for _, o := range cfg.AllowedOrigins {
		o = strings.ToLower(strings.TrimSpace(o))
		switch {
		case o == "*":
			m.any = true
		case strings.Contains(o, "://*."):
			scheme, host, _ := strings.Cut(o, "://*")
			m.suffixes = append(m.suffixes, [2]string{scheme + "://", host})
		default:
			m.exact = append(m.exact, o)
		}
	}
	return m
}

func (m originMatcher) allows(origin string) bool {
	if m.any {
		return true
	}
	origin = strings.ToLower(origin)
	if slices.Contains(m.exact, origin) {
		return true
	}
	for _, s := range m.suffixes {
		if strings.HasPrefix(origin, s[0]) && strings.HasSuffix(origin, s[1]) && len(origin) > len(s[0])+len(s[1]) {
			return true
		}
	}
	return false
}

// CORS answers preflight requests and decorates cross-origin responses.
// Requests without an Origin header pass through untouched. A preflight from
// an origin that is not allowed is refused with 403.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	defaults := DefaultCORSConfig()
	if len(cfg.AllowedMethods) == 0 {
		cfg.AllowedMethods = defaults.AllowedMethods
	}
	if len(cfg.AllowedHeaders) == 0 {
		cfg.AllowedHeaders = defaults.AllowedHeaders
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaults.MaxAge
	}

	matcher := newOriginMatcher(cfg)
	// Browsers reject a literal "*" on credentialed requests.
	echoOrigin := !matcher.any || cfg.AllowCredentials
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	exposed := strings.Join(cfg.ExposedHeaders, ", ")
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			h := w.Header()
			if echoOrigin {
				h.Add("Vary", "Origin")
			}

			if !matcher.allows(origin) {
				if preflight {
					httputil.WriteJSON(w, http.StatusForbidden, httputil.Response{
						Error: &httputil.ErrorResponse{
							Code:      "ORIGIN_NOT_ALLOWED",
							Message:   "origin " + origin + " is not allowed",
							RequestID: logger.CorrelationIDFromContext(r.Context()),
						},
					})
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if echoOrigin {
				h.Set("Access-Control-Allow-Origin", origin)
			} else {
				h.Set("Access-Control-Allow-Origin", "*")
			}
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}

			if preflight {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				h.Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if exposed != "" {
				h.Set("Access-Control-Expose-Headers", exposed)
			}
			next.ServeHTTP(w, r)
		})
	}
}
