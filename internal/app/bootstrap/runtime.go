package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cacheadapter "github.com/campusbridge/embed-service/internal/adapters/cache"
	httpadapter "github.com/campusbridge/embed-service/internal/adapters/http"
	"github.com/campusbridge/embed-service/internal/adapters/oembed"
	"github.com/campusbridge/embed-service/internal/adapters/security"
	"github.com/campusbridge/embed-service/internal/application"
	"github.com/campusbridge/embed-service/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	cleanupFn  func(context.Context)
}

// NewRuntime is the composition root: it resolves config, wires the cache
// tiers, resolver, sanitizer, upstream client and service, and hands back a
// runnable HTTP server. An unreachable Redis is not fatal here: the service
// starts in memory-only mode and the tiered cache probes its way back.
func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping embed service", "http_port", cfg.HTTPPort)

	memory := cacheadapter.NewMemoryStore()
	memory.StartJanitor(cfg.MemorySweepInterval)

	var primary ports.CacheStore
	cleanup := func(context.Context) { memory.Stop() }
	if cfg.RedisURL != "" {
		redisClient, connErr := cacheadapter.Connect(ctx, cfg.RedisURL)
		if connErr != nil {
			return nil, fmt.Errorf("connect redis: %w", connErr)
		}
		pingCtx, cancel := context.WithTimeout(ctx, cfg.RedisTimeout)
		if pingErr := redisClient.Ping(pingCtx).Err(); pingErr != nil {
			logger.Warn("redis unreachable at startup, starting degraded",
				"operation", "bootstrap_redis_ping",
				"outcome", "degraded",
				"error", pingErr.Error(),
			)
		}
		cancel()
		primary = cacheadapter.NewRedisStore(redisClient, cfg.RedisTimeout)
		cleanup = func(context.Context) {
			memory.Stop()
			_ = redisClient.Close()
		}
	} else {
		logger.Warn("REDIS_URL not set, running with memory-only cache")
	}

	embedCache := cacheadapter.NewTieredCache(primary, memory, cfg.RedisBackoff, cfg.SuccessTTL)

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			SuccessTTL: cfg.SuccessTTL,
			ErrorTTL:   cfg.ErrorTTL,
		},
		Cache:     embedCache,
		Resolver:  oembed.NewRegistry(cfg.AllowedProviders),
		Upstream:  oembed.NewClient(cfg.UpstreamTimeout),
		Sanitizer: security.NewEmbedSanitizer(),
	})

	handler := httpadapter.NewHandler(svc)
	router := httpadapter.NewRouter(handler, httpadapter.NewClientLimiter(cfg.RateLimitPerMinute))
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		cleanupFn:  cleanup,
	}, nil
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.cleanupFn(shutdownCtx)
	return nil
}
