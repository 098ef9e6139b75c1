package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/landscan/internal/config"
	"github.com/kailas-cloud/landscan/internal/domain/listing"
	"github.com/kailas-cloud/landscan/internal/domain/region"
	logpkg "github.com/kailas-cloud/landscan/internal/logger"
	"github.com/kailas-cloud/landscan/internal/metrics"
	chiTransport "github.com/kailas-cloud/landscan/internal/transport/chi"
	"github.com/kailas-cloud/landscan/internal/transport/naverland"
	healthuc "github.com/kailas-cloud/landscan/internal/usecase/health"
	searchuc "github.com/kailas-cloud/landscan/internal/usecase/search"
	"github.com/kailas-cloud/landscan/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting landscan API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.Int("max_pages", cfg.Search.MaxPages),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterSearchMetrics()

	catalog := region.SeoulCatalog()
	logger.Info("Region catalog loaded", zap.Int("regions", catalog.Len()))

	if cfg.Upstream.SkipTLSVerify() {
		logger.Warn("TLS certificate verification is disabled for the listing service",
			zap.String("upstream", cfg.Upstream.BaseURL))
	}

	client, err := naverland.NewClient(&naverland.Config{
		BaseURL:            cfg.Upstream.BaseURL,
		Timeout:            cfg.Upstream.Timeout(),
		UserAgent:          cfg.Upstream.UserAgent,
		Referer:            cfg.Upstream.Referer,
		Delay:              cfg.Upstream.Delay(),
		RandomDelay:        cfg.Upstream.RandomDelay(),
		InsecureSkipVerify: cfg.Upstream.SkipTLSVerify(),
		Logger:             logger,
	})
	if err != nil {
		logger.Fatal("Failed to create listing service client", zap.Error(err))
	}

	// Strategy order matters: region number first, bounding box as fallback.
	strategies := []searchuc.Strategy{
		naverland.NewCortarStrategy(client),
		naverland.NewGeoBoundStrategy(client, catalog),
	}
	searchSvc := searchuc.New(
		listing.NewNormalizer(listing.DefaultTypeTable()),
		strategies,
		searchuc.WithMaxPages(cfg.Search.MaxPages),
		searchuc.WithSession(client.NewSession),
		searchuc.WithLogger(logger),
	)

	// Pass nil interface (not typed nil pointer) when the upstream check is off.
	var upstreamChecker healthuc.UpstreamChecker
	if cfg.Upstream.HealthCheck {
		upstreamChecker = client
	}
	healthSvc := healthuc.New(catalog, upstreamChecker)

	server, err := chiTransport.NewServer(catalog, searchSvc, healthSvc, logger, cfg.Search.Timeout())
	if err != nil {
		logger.Fatal("Failed to create HTTP server", zap.Error(err))
	}
	router := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
	})

	// Request contexts derive from baseCtx so shutdown can cut running searches short.
	baseCtx, cancelRequests := context.WithCancel(context.Background())
	defer cancelRequests()

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	// Running searches stop paginating and answer with partial results.
	cancelRequests()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
