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

	"github.com/kailas-cloud/glyphdex/internal/config"
	"github.com/kailas-cloud/glyphdex/internal/db"
	dbMemory "github.com/kailas-cloud/glyphdex/internal/db/memory"
	dbRedis "github.com/kailas-cloud/glyphdex/internal/db/redis"
	"github.com/kailas-cloud/glyphdex/internal/domain"
	logpkg "github.com/kailas-cloud/glyphdex/internal/logger"
	"github.com/kailas-cloud/glyphdex/internal/metrics"
	"github.com/kailas-cloud/glyphdex/internal/morph"
	"github.com/kailas-cloud/glyphdex/internal/repository/sigcache"
	"github.com/kailas-cloud/glyphdex/internal/semantic"
	"github.com/kailas-cloud/glyphdex/internal/tokenize"
	chiTransport "github.com/kailas-cloud/glyphdex/internal/transport/chi"
	openaiSig "github.com/kailas-cloud/glyphdex/internal/transport/openai"
	"github.com/kailas-cloud/glyphdex/internal/usecase/canonicalize"
	corpusuc "github.com/kailas-cloud/glyphdex/internal/usecase/corpus"
	"github.com/kailas-cloud/glyphdex/internal/usecase/generate"
	healthuc "github.com/kailas-cloud/glyphdex/internal/usecase/health"
	"github.com/kailas-cloud/glyphdex/internal/usecase/rank"
	signaluc "github.com/kailas-cloud/glyphdex/internal/usecase/signal"
	"github.com/kailas-cloud/glyphdex/internal/version"
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

	logger.Info("Starting glyphdex API server",
		zap.String("version", version.Full()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
		zap.String("semantic_provider", cfg.Semantic.Provider),
	)

	// Create signal cache store based on driver
	var store db.Store
	switch cfg.Cache.Driver {
	case "none":
		// no cache; providers are called directly
	case "memory":
		store = dbMemory.NewStore()
	case "valkey", "redis":
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
	default:
		logger.Fatal("Unknown cache driver", zap.String("driver", cfg.Cache.Driver))
	}

	ctx := context.Background()
	if store != nil {
		defer store.Close()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to cache store")
	}

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterPipelineMetrics()

	cacheTTL := time.Duration(cfg.Cache.SignalTTLSec) * time.Second
	provider, healthChecker := buildProvider(cfg.Semantic, store, cacheTTL, logger)

	// Analyzer shared across workers; the signature cache is process-wide.
	analyzer := morph.NewAnalyzer(morph.DefaultRules(), morph.NewSignatureCache())

	var weights [3]float64
	copy(weights[:], cfg.Engine.PrefilterWeights)

	generateSvc := generate.New(analyzer, provider, generate.Options{
		MaxSpanLength:   cfg.Engine.MaxSpanLength,
		Threshold:       cfg.Engine.PrefilterThreshold,
		Weights:         weights,
		FrequencyWindow: cfg.Engine.FrequencyWindow,
	})
	canonSvc := canonicalize.New(cfg.Engine.BucketCount, cfg.Engine.MaxSpanLength)
	corpusSvc := corpusuc.New(generateSvc, canonSvc, rank.New(), cfg.Engine.Concurrency, logger)

	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(cachePinger, healthChecker)

	server := chiTransport.NewServer(corpusSvc, healthSvc, tokenize.New(), logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())

	requestDeadline := chiTransport.WithDeadline(time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second)
	r.With(requestDeadline).Post("/v1/analyze", server.Analyze)
	r.With(requestDeadline).Post("/v1/report", server.Report)
	r.Get("/v1/health", server.HealthCheck)
	r.Get("/metrics", server.Metrics)

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

// buildProvider assembles the signal chain: base -> cached -> instrumented -> bounded.
// The bounded decorator sits outermost so one slow lookup cannot stall a span.
func buildProvider(
	cfg config.SemanticConfig,
	store db.Store,
	cacheTTL time.Duration,
	logger *zap.Logger,
) (domain.Provider, healthuc.SignalChecker) {
	var (
		base    domain.Provider
		checker healthuc.SignalChecker
	)
	switch cfg.Provider {
	case "openai":
		p := openaiSig.NewProvider(&openaiSig.Config{
			APIKey:        cfg.APIKey,
			BaseURL:       cfg.BaseURL,
			Model:         cfg.Model,
			Dimensions:    cfg.Dimensions,
			Categories:    cfg.Categories,
			MinSimilarity: cfg.MinSimilarity,
			Logger:        logger,
		})
		base, checker = p, p
	default:
		base = semantic.DefaultLexicon()
	}

	provider := base
	if store != nil {
		provider = sigcache.New(provider, store, cacheTTL, metrics.SignalCacheTotal, logger)
	}
	provider = signaluc.NewInstrumentedProvider(provider, cfg.Provider, logger)

	return domain.NewBoundedProvider(provider, time.Duration(cfg.TimeoutMs)*time.Millisecond), checker
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

// requestLogMiddleware emits a canonical log line per request and propagates X-Request-ID.
func requestLogMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
