package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srabonmojumder/velora-Ecommerce/internal/config"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/middleware"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)

	a, err := NewApp(cfg, discardLogger(), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.storage.close() })
	return a
}

func addToCart(t *testing.T, h http.Handler, origin string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{"productId":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.OriginIDHeader, origin)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func ready(t *testing.T, h http.Handler) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	return rec.Code
}

func TestNewApp_Memory(t *testing.T) {
	a := newTestApp(t)

	addToCart(t, a.Handler(), "device-1")
	assert.Equal(t, http.StatusOK, ready(t, a.Handler()))
}

func TestNewApp_SQLite(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", config.DriverSQLite)
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "storefront.db"))

	a := newTestApp(t)

	addToCart(t, a.Handler(), "device-1")
	assert.Equal(t, http.StatusOK, ready(t, a.Handler()))
}

func TestNewApp_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("STORAGE_DRIVER", config.DriverRedis)
	t.Setenv("REDIS_HOST", mr.Host())
	t.Setenv("REDIS_PORT", mr.Port())

	a := newTestApp(t)

	addToCart(t, a.Handler(), "device-1")
	assert.True(t, mr.Exists("storefront:cart-storage:device-1"))
	assert.Equal(t, http.StatusOK, ready(t, a.Handler()))
}

func TestNewApp_CustomCatalogMissing(t *testing.T) {
	t.Setenv("CATALOG_PATH", filepath.Join(t.TempDir(), "missing.json"))

	cfg, err := config.Load()
	require.NoError(t, err)

	_, err = NewApp(cfg, discardLogger(), prometheus.NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load catalog")
}

func TestShutdown_WithoutRun(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	a, err := NewApp(cfg, discardLogger(), prometheus.NewRegistry())
	require.NoError(t, err)

	assert.NoError(t, a.Shutdown())
}
