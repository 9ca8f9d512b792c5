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

	"github.com/seralia/knowsearch/internal/config"
	dbRedis "github.com/seralia/knowsearch/internal/db/redis"
	"github.com/seralia/knowsearch/internal/domain"
	"github.com/seralia/knowsearch/internal/domain/search/request"
	logpkg "github.com/seralia/knowsearch/internal/logger"
	"github.com/seralia/knowsearch/internal/metrics"
	documentrepo "github.com/seralia/knowsearch/internal/repository/document"
	"github.com/seralia/knowsearch/internal/repository/embcache"
	chiTransport "github.com/seralia/knowsearch/internal/transport/chi"
	localEmb "github.com/seralia/knowsearch/internal/transport/local"
	openaiEmb "github.com/seralia/knowsearch/internal/transport/openai"
	documentuc "github.com/seralia/knowsearch/internal/usecase/document"
	embeddinguc "github.com/seralia/knowsearch/internal/usecase/embedding"
	healthuc "github.com/seralia/knowsearch/internal/usecase/health"
	searchuc "github.com/seralia/knowsearch/internal/usecase/search"
	"github.com/seralia/knowsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting knowsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
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

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Build the embedder chain: remote with cache, then local fallback.
	embedder := buildEmbedder(cfg, store, logger)

	docRepo := documentrepo.New(store, cfg.Database.KeyPrefix)

	docSvc := documentuc.New(docRepo, embedder, logger)
	searchSvc := searchuc.New(docRepo, embedder, cfg.Search.SnippetLength, logger)
	healthSvc := healthuc.New(store, embedder)

	limits := request.Limits{
		Default: cfg.Search.DefaultLimit,
		Max:     cfg.Search.MaxLimit,
	}
	server := chiTransport.NewServer(docSvc, searchSvc, healthSvc, limits, logger)

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

// buildEmbedder assembles the provider chain: OpenAI -> Cached -> Instrumented,
// with the local hashed embedder as the last resort. An empty remote API key
// runs local-only.
func buildEmbedder(cfg config.Config, store *dbRedis.Store, logger *zap.Logger) *embeddinguc.FallbackEmbedder {
	providers := make([]embeddinguc.Provider, 0, 2)

	if cfg.Embedding.Remote.APIKey != "" {
		base := openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:        cfg.Embedding.Remote.APIKey,
			BaseURL:       cfg.Embedding.Remote.BaseURL,
			Model:         cfg.Embedding.Remote.Model,
			Dimensions:    cfg.Embedding.Remote.Dimensions,
			MaxInputChars: cfg.Embedding.Remote.MaxInputChars,
			Timeout:       time.Duration(cfg.Embedding.Remote.TimeoutSec) * time.Second,
			Provider:      "openai",
			Logger:        logger,
		})

		variant := fmt.Sprintf("openai:%s:%d", cfg.Embedding.Remote.Model, cfg.Embedding.Remote.Dimensions)
		var remote domain.Embedder = embcache.New(
			base, store, cfg.Database.KeyPrefix, variant, metrics.EmbeddingCacheTotal, logger,
		)
		remote = embeddinguc.NewInstrumentedEmbedder(remote, "openai", logger)

		providers = append(providers, embeddinguc.Provider{Name: "openai", Embedder: remote})
		logger.Info("Remote embedder enabled",
			zap.String("model", cfg.Embedding.Remote.Model),
			zap.Int("dimensions", cfg.Embedding.Remote.Dimensions),
		)
	} else {
		logger.Warn("No remote embedding API key, running local-only")
	}

	local := localEmb.NewEmbedder(cfg.Embedding.Local.Dimensions)
	providers = append(providers, embeddinguc.Provider{
		Name:     localEmb.Provider,
		Embedder: embeddinguc.NewInstrumentedEmbedder(local, localEmb.Provider, logger),
	})

	return embeddinguc.NewFallbackEmbedder(logger, providers...)
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
