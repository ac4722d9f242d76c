package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/srabonmojumder/velora-Ecommerce/internal/catalog"
	"github.com/srabonmojumder/velora-Ecommerce/internal/config"
	"github.com/srabonmojumder/velora-Ecommerce/internal/event"
	handler "github.com/srabonmojumder/velora-Ecommerce/internal/handler/http"
	"github.com/srabonmojumder/velora-Ecommerce/internal/persist"
	"github.com/srabonmojumder/velora-Ecommerce/internal/service"
	"github.com/srabonmojumder/velora-Ecommerce/internal/session"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/health"
	pkgkafka "github.com/srabonmojumder/velora-Ecommerce/pkg/kafka"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/middleware"
	"github.com/srabonmojumder/velora-Ecommerce/pkg/tracing"
)

// Version is reported to the tracing backend.
var Version = "0.1.0"

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	storage        *storage
	producer       *pkgkafka.Producer
	shutdownTracer func(context.Context) error
	httpServer     *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
// Collectors owned by the app are registered with reg.
func NewApp(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownTracer, err := tracing.InitTracer(ctx, cfg.Tracing(handler.ServiceName, Version))
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded", slog.Int("products", cat.Len()))

	store, err := openStorage(ctx, cfg, reg, logger)
	if err != nil {
		_ = shutdownTracer(ctx)
		return nil, err
	}

	// Kafka is optional; without it events are dropped.
	var producer *pkgkafka.Producer
	eventProducer := event.NewNoopProducer()
	if cfg.EventsEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		if err := producer.Ping(ctx); err != nil {
			logger.Warn("kafka unreachable at startup",
				slog.String("error", err.Error()),
			)
		}
		eventProducer = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	sessions, err := session.NewManager(persist.NewPersister(store.repo, logger), cfg.SessionCacheSize, logger)
	if err != nil {
		_ = store.close()
		_ = shutdownTracer(ctx)
		return nil, err
	}
	svc := service.NewStorefrontService(cat, sessions, eventProducer, logger, cfg.CheckoutDelay)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register(cfg.StorageDriver, store.repo.Ping)

	// HTTP router.
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins
	cors.Environment = cfg.Environment
	limit := middleware.DefaultRateLimitConfig()
	limit.RPS = cfg.RateLimitRPS
	limit.Burst = cfg.RateLimitBurst
	router := handler.NewRouter(svc, healthHandler, logger, cors, limit)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.CheckoutDelay + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		storage:        store,
		producer:       producer,
		shutdownTracer: shutdownTracer,
		httpServer:     httpServer,
	}, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return cat, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
			slog.String("storage", a.cfg.StorageDriver),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components. In-flight requests finish before
// storage is closed, so their writes still land.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if err := a.storage.close(); err != nil {
		a.logger.Error("storage close error", slog.String("error", err.Error()))
	}

	if err := a.shutdownTracer(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
