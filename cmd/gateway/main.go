package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/af-corp/converse-gateway/internal/auth"
	"github.com/af-corp/converse-gateway/internal/catalog"
	"github.com/af-corp/converse-gateway/internal/config"
	"github.com/af-corp/converse-gateway/internal/dispatch"
	"github.com/af-corp/converse-gateway/internal/gateway"
	"github.com/af-corp/converse-gateway/internal/policy"
	"github.com/af-corp/converse-gateway/internal/provider"
	"github.com/af-corp/converse-gateway/internal/ratelimit"
	"github.com/af-corp/converse-gateway/internal/telemetry"
)

var version = "dev"

func main() {
	configDir := flag.String("config", "configs", "path to configuration directory")
	flag.Parse()

	// .env is a dev convenience; absence is normal in deployment.
	godotenv.Load()

	bootLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(bootLogger)

	// Load configuration
	loader := config.NewLoader(*configDir, bootLogger)
	if err := loader.Load(); err != nil {
		bootLogger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	cfg := loader.Config()
	logger := buildLogger(cfg.Telemetry)
	slog.SetDefault(logger)

	if err := loader.Watch(); err != nil {
		logger.Warn("failed to start config watcher", "error", err)
	}

	// Connect to PostgreSQL
	dbPool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		logger.Warn("database not reachable (gateway will start but auth will fail)", "error", err)
	} else {
		logger.Info("database connected")
	}

	// Connect to Redis
	var rdb *redis.Client
	if len(cfg.Redis.Addresses) > 0 && cfg.Redis.Addresses[0] != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addresses[0],
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis not reachable (auth cache and rate limits disabled)", "error", err)
			rdb = nil
		} else {
			logger.Info("redis connected")
		}
	}

	metrics := telemetry.NewMetrics()

	// Provider clients from the providers config. Endpoint changes need a
	// restart; only the model and tone catalogs hot-reload.
	providers := loader.Providers()
	standardClient := provider.NewHTTPCompletionClient(providers.Get(config.ProviderStandard))
	azureClient := provider.NewAzureCompletionClient(providers.Get(config.ProviderAzure))
	agentHandler := provider.NewAgentHandler(provider.NewHTTPAgentClient(providers.Get(config.ProviderAgent)), logger)
	audioService := provider.NewHTTPAudioService(providers.Get(config.ProviderAudio))
	botService := provider.NewHTTPBotService(providers.Get(config.ProviderBots))
	searchCfg := providers.Get(config.ProviderSearch)
	searchClient := dispatch.NewHTTPSearchClient(searchCfg.BaseURL, searchCfg.Timeout)

	dispatcher := dispatch.NewService(
		azureClient, standardClient, agentHandler,
		audioService, botService, searchClient,
		dispatch.NewChatLogger(logger), metrics,
	)

	// Model/tone catalog, swapped in place on config reload
	selector := buildSelector(loader)
	loader.OnReload(func() {
		*selector = *buildSelector(loader)
		logger.Info("model catalog reloaded")
	})

	// OPA model-access policy
	policies := policy.NewEvaluator(func() config.PolicyConfig {
		return loader.Config().Policy
	})
	if policies.Enabled() {
		if err := policies.Load(); err != nil {
			logger.Warn("failed to load policies (all requests will be denied)", "error", err)
		}
	}
	loader.OnReload(func() {
		if policies.Enabled() {
			if err := policies.Load(); err != nil {
				logger.Error("failed to reload policies", "error", err)
			}
		}
	})

	// Build handler
	keyStore := auth.NewCachedKeyStore(dbPool, rdb)
	limiter := ratelimit.NewLimiter(rdb)
	quota := ratelimit.NewQuotaTracker(rdb)
	handler := gateway.NewHandler(
		dispatcher,
		func() *catalog.Selector { return selector },
		loader.Config,
		policies,
		metrics,
	)

	// Router setup
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)

	// Unauthenticated routes
	r.Get("/converse/v1/health", handler.Health)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(keyStore))
		r.Use(ratelimit.Middleware(limiter, quota, metrics))
		r.Post("/v1/chat", handler.Chat)
		r.Get("/v1/models", handler.ListModels)
	})

	// Metrics on its own port
	if cfg.Telemetry.MetricsPort > 0 {
		go func() {
			metricsAddr := fmt.Sprintf(":%d", cfg.Telemetry.MetricsPort)
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("metrics server starting", "addr", metricsAddr)
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("gateway starting", "addr", addr, "version", version)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("gateway stopped")
}

func buildSelector(loader *config.Loader) *catalog.Selector {
	models := loader.Models()
	tones := loader.Tones()
	return catalog.New(models.Models, tones.Tones, models.Default)
}

func buildLogger(cfg config.TelemetryConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = "req_" + uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := context.WithValue(r.Context(), requestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type contextKey string

const requestIDKey contextKey = "request_id"
