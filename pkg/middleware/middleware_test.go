package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/srabonmojumder/velora-Ecommerce/pkg/logger"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRecovery(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"INTERNAL_ERROR","message":"an internal error occurred"}}`, rec.Body.String())
}

func TestRequestLogging_CorrelationID(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter("test", "debug", &buf)

	var seen string
	h := RequestLogging(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generated", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(CorrelationIDHeader))

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "WARN", line["level"])
		assert.Equal(t, float64(http.StatusTeapot), line["status"])
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set(CorrelationIDHeader, "corr-7")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "corr-7", seen)
		assert.Equal(t, "corr-7", rec.Header().Get(CorrelationIDHeader))
	})
}

func TestRequestLogging_QuietPaths(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter("test", "info", &buf)

	RequestLogging(l)(http.HandlerFunc(ok)).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Zero(t, buf.Len())
}

func TestRequireOrigin(t *testing.T) {
	var seen, logged string
	h := RequireOrigin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = OriginFromContext(r.Context())
		logged = logger.OriginIDFromContext(r.Context())
	}))

	tests := []struct {
		name     string
		headers  map[string]string
		wantCode int
		want     string
	}{
		{"origin header", map[string]string{OriginIDHeader: "device-1"}, http.StatusOK, "device-1"},
		{"user header fallback", map[string]string{UserIDHeader: "user_2"}, http.StatusOK, "user_2"},
		{"origin wins", map[string]string{OriginIDHeader: "a", UserIDHeader: "b"}, http.StatusOK, "a"},
		{"missing", nil, http.StatusBadRequest, ""},
		{"bad chars", map[string]string{OriginIDHeader: "a b/c"}, http.StatusBadRequest, ""},
		{"too long", map[string]string{OriginIDHeader: strings.Repeat("x", 129)}, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen, logged = "", ""
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.want, seen)
			assert.Equal(t, tt.want, logged)
			if tt.wantCode == http.StatusBadRequest {
				assert.Contains(t, rec.Body.String(), "MISSING_ORIGIN")
			}
		})
	}
}

func TestRequestLogger_EnrichesContextLogger(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter("test", "info", &buf)

	h := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(logger.WithCorrelationID(context.Background(), "corr-1"))
	req.Header.Set(OriginIDHeader, "tab-9")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "corr-1", line["correlation_id"])
	assert.Equal(t, "tab-9", line["origin_id"])
}

func TestPrometheusMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics("metrics-test"))
	r.Get("/api/v1/products/{id}", ok)

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("metrics-test", "GET", "/api/v1/products/{id}", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/products/3", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("metrics-test", "GET", "/api/v1/products/{id}", "200"))

	assert.Equal(t, before+1, after)
	assert.Zero(t, testutil.ToFloat64(httpRequestsInFlight.WithLabelValues("metrics-test")))
}

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func TestTracing_SpanPerRequest(t *testing.T) {
	exporter := setupTestTracer(t)

	r := chi.NewRouter()
	r.Use(Tracing("storefront"))
	r.Get("/api/v1/cart", ok)
	r.Get("/api/v1/fail", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(OriginIDHeader, "device-1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/fail", nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "GET /api/v1/cart", spans[0].Name)

	var origin string
	for _, attr := range spans[0].Attributes {
		if attr.Key == "storefront.origin_id" {
			origin = attr.Value.AsString()
		}
	}
	assert.Equal(t, "device-1", origin)
	assert.Equal(t, "Error", spans[1].Status.Code.String())
}

func TestTracing_ContinuesInboundTrace(t *testing.T) {
	exporter := setupTestTracer(t)

	h := Tracing("storefront")(http.HandlerFunc(ok))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	h.ServeHTTP(httptest.NewRecorder(), req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext.TraceID().String())
}

func corsRequest(method, origin string, preflight bool) *http.Request {
	req := httptest.NewRequest(method, "/api/v1/cart/items", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if preflight {
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}
	return req
}

func TestCORS(t *testing.T) {
	t.Run("wildcard in development", func(t *testing.T) {
		h := CORS(DefaultCORSConfig())(http.HandlerFunc(ok))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, corsRequest(http.MethodGet, "http://localhost:3000", false))

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), CorrelationIDHeader)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"), "methods are only sent on preflight")
	})

	t.Run("no origin header passes through", func(t *testing.T) {
		h := CORS(DefaultCORSConfig())(http.HandlerFunc(ok))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, corsRequest(http.MethodGet, "", false))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allow list", func(t *testing.T) {
		h := CORS(CORSConfig{
			AllowedOrigins: []string{"https://shop.example", "https://*.velora.example"},
			Environment:    "production",
		})(http.HandlerFunc(ok))

		for _, origin := range []string{"https://shop.example", "https://SHOP.example", "https://eu.velora.example"} {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, corsRequest(http.MethodGet, origin, false))
			assert.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"), origin)
			assert.Equal(t, "Origin", rec.Header().Get("Vary"))
		}

		for _, origin := range []string{"https://evil.example", "https://velora.example", "http://eu.velora.example"} {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, corsRequest(http.MethodGet, origin, false))
			assert.Equal(t, http.StatusOK, rec.Code, origin)
			assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"), origin)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		called := false
		h := CORS(DefaultCORSConfig())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, corsRequest(http.MethodOptions, "http://localhost:3000", true))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.False(t, called)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), OriginIDHeader)
		assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("preflight from unknown origin is refused", func(t *testing.T) {
		h := CORS(CORSConfig{AllowedOrigins: []string{"https://shop.example"}})(http.HandlerFunc(ok))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, corsRequest(http.MethodOptions, "https://evil.example", true))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "ORIGIN_NOT_ALLOWED")
	})

	t.Run("credentials echo the origin", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowCredentials = true
		h := CORS(cfg)(http.HandlerFunc(ok))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, corsRequest(http.MethodGet, "http://localhost:3000", false))

		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})
}
