package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/dishscout/dishscout/internal/config"
	"github.com/dishscout/dishscout/internal/db"
	dbRedis "github.com/dishscout/dishscout/internal/db/redis"
	"github.com/dishscout/dishscout/internal/domain"
	logpkg "github.com/dishscout/dishscout/internal/logger"
	"github.com/dishscout/dishscout/internal/metrics"
	"github.com/dishscout/dishscout/internal/repository/analysiscache"
	dishrepo "github.com/dishscout/dishscout/internal/repository/dish"
	favoritesrepo "github.com/dishscout/dishscout/internal/repository/favorites"
	historyrepo "github.com/dishscout/dishscout/internal/repository/history"
	restaurantrepo "github.com/dishscout/dishscout/internal/repository/restaurant"
	usagerepo "github.com/dishscout/dishscout/internal/repository/usage"
	chiTransport "github.com/dishscout/dishscout/internal/transport/chi"
	openaiTransport "github.com/dishscout/dishscout/internal/transport/openai"
	analysisuc "github.com/dishscout/dishscout/internal/usecase/analysis"
	favoritesuc "github.com/dishscout/dishscout/internal/usecase/favorites"
	healthuc "github.com/dishscout/dishscout/internal/usecase/health"
	historyuc "github.com/dishscout/dishscout/internal/usecase/history"
	matchuc "github.com/dishscout/dishscout/internal/usecase/match"
	restaurantuc "github.com/dishscout/dishscout/internal/usecase/restaurant"
	usageuc "github.com/dishscout/dishscout/internal/usecase/usage"
	"github.com/dishscout/dishscout/internal/version"
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

	logger.Info("Starting dishscout API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register analysis metrics explicitly (no init())
	metrics.RegisterAnalysisMetrics()

	analyzer := buildAnalyzer(cfg.Analysis, store, logger)
	logger.Info("Analyzer created",
		zap.String("provider", cfg.Analysis.Provider),
		zap.String("model", cfg.Analysis.Model),
	)

	// Repositories
	restRepo := restaurantrepo.New(store)
	if n, err := restRepo.Warm(ctx); err != nil {
		logger.Fatal("Failed to warm restaurant index", zap.Error(err))
	} else {
		logger.Info("Restaurant index warmed", zap.Int("restaurants", n))
	}
	dishRepo := dishrepo.New(store)
	favRepo := favoritesrepo.New(store)
	histRepo := historyrepo.New(store, cfg.Matching.HistoryLimit)
	usageStore := usagerepo.New(store, 48*time.Hour, 62*24*time.Hour)

	// Use case services
	analysisSvc := analysisuc.New(analyzer, usageStore, cfg.Analysis.MaxImageBytes, logger)
	matchSvc := matchuc.New(
		restRepo, dishRepo, histRepo, usageStore,
		cfg.Matching.DefaultRadiusKm, cfg.Matching.MaxRadiusKm,
		cfg.Matching.DefaultMinSimilarity,
		logger,
	)
	restSvc := restaurantuc.New(restRepo, dishRepo)
	favSvc := favoritesuc.New(favRepo)
	histSvc := historyuc.New(histRepo)
	usageSvc := usageuc.New(usageStore)
	healthSvc := healthuc.New(store, newAnalyzerHealthChecker(analyzer))

	server := chiTransport.NewServer(
		analysisSvc, matchSvc, restSvc, favSvc, histSvc, usageSvc, healthSvc,
		cfg.Analysis.MaxImageBytes, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildAnalyzer assembles the analyzer chain: OpenAI -> Cached (text only).
func buildAnalyzer(cfg config.AnalysisConfig, store db.Store, logger *zap.Logger) domain.Analyzer {
	base := openaiTransport.NewAnalyzer(&openaiTransport.Config{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
		Provider: cfg.Provider,
		Logger:   logger,
	})

	if cfg.CacheTTLSec <= 0 {
		return base
	}
	return analysiscache.New(
		base, store, time.Duration(cfg.CacheTTLSec)*time.Second,
		metrics.AnalysisCacheTotal, logger,
	)
}

// analyzerHealthChecker wraps domain.Analyzer to implement health.AnalyzerChecker.
type analyzerHealthChecker struct {
	analyzer domain.Analyzer
}

func newAnalyzerHealthChecker(analyzer domain.Analyzer) *analyzerHealthChecker {
	return &analyzerHealthChecker{analyzer: analyzer}
}

func (h *analyzerHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.analyzer.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("analysis health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
