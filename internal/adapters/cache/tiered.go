package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/campusbridge/embed-service/internal/metrics"
	"github.com/campusbridge/embed-service/internal/ports"
)

type availabilityState int

const (
	primaryHealthy availabilityState = iota
	degradedBackoff
)

// TieredCache layers a shared primary store over a process-local fallback.
// Primary failures are absorbed: they flip the availability state machine to
// degradedBackoff, which suppresses primary attempts for the back-off window
// so requests stop paying the connection-timeout cost while the primary is
// down. After the window elapses the next request probes the primary again
// and a success restores primaryHealthy.
type TieredCache struct {
	primary    ports.CacheStore
	memory     ports.CacheStore
	backoff    time.Duration
	successTTL time.Duration

	nowFn func() time.Time

	mu          sync.Mutex
	state       availabilityState
	lastFailure time.Time
}

// NewTieredCache builds the two-tier strategy. A nil primary yields a
// memory-only cache, which is a supported configuration, not an error.
func NewTieredCache(primary, memory ports.CacheStore, backoff, successTTL time.Duration) *TieredCache {
	if backoff <= 0 {
		backoff = 30 * time.Second
	}
	return &TieredCache{
		primary:    primary,
		memory:     memory,
		backoff:    backoff,
		successTTL: successTTL,
		nowFn:      func() time.Time { return time.Now().UTC() },
	}
}

// Get checks the primary tier first (unless degraded), then the fallback.
// Absence in both tiers is a miss; tier errors never reach the caller.
func (c *TieredCache) Get(ctx context.Context, key string) (*ports.CacheEntry, ports.CacheTier, error) {
	if c.primaryUsable() {
		entry, err := c.primary.Get(ctx, key)
		switch {
		case err != nil:
			c.markFailure(err, "get")
		case entry != nil && !entry.Expired(c.nowFn()):
			c.markRecovered()
			// Mirror primary hits into the fallback so it stays warm for a
			// later outage.
			_ = c.memory.Set(ctx, key, *entry, time.Until(entry.ExpiresAt))
			return entry, ports.TierRedis, nil
		default:
			// Primary reachable but no live entry.
			c.markRecovered()
		}
	}

	entry, err := c.memory.Get(ctx, key)
	if err != nil || entry == nil {
		return nil, ports.TierNone, nil
	}
	if entry.Expired(c.nowFn()) {
		return nil, ports.TierNone, nil
	}
	return entry, ports.TierMemory, nil
}

// Set writes the fallback synchronously so the response path always has a
// guaranteed write, then writes the primary: inline while healthy, async
// best-effort while degraded so a down primary never blocks the caller. The
// degraded-mode attempt doubles as the self-heal probe.
func (c *TieredCache) Set(ctx context.Context, key string, entry ports.CacheEntry, ttl time.Duration) {
	_ = c.memory.Set(ctx, key, entry, ttl)
	if c.primary == nil {
		return
	}

	if c.currentState() == primaryHealthy {
		if err := c.primary.Set(ctx, key, entry, ttl); err != nil {
			c.markFailure(err, "set")
		}
		return
	}

	go func() {
		writeCtx, cancel := context.WithTimeout(context.Background(), c.backoff)
		defer cancel()
		if err := c.primary.Set(writeCtx, key, entry, ttl); err == nil {
			c.markRecovered()
		}
	}()
}

// Stats snapshots tier sizes and availability for the introspection endpoint.
func (c *TieredCache) Stats(ctx context.Context) ports.CacheStats {
	stats := ports.CacheStats{
		CacheType:  "memory_only",
		SuccessTTL: c.successTTL,
	}
	if n, err := c.memory.Size(ctx); err == nil {
		stats.MemorySize = n
	}
	if c.primary == nil {
		return stats
	}

	stats.CacheType = "redis_with_memory_fallback"
	stats.PrimaryAvailable = c.currentState() == primaryHealthy
	if stats.PrimaryAvailable {
		if n, err := c.primary.Size(ctx); err == nil {
			stats.PrimarySize = n
		} else {
			c.markFailure(err, "stats")
			stats.PrimaryAvailable = false
		}
	}
	return stats
}

// primaryUsable reports whether this request should attempt the primary:
// always while healthy, and once per back-off window as a probe while
// degraded.
func (c *TieredCache) primaryUsable() bool {
	if c.primary == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == primaryHealthy {
		return true
	}
	if c.nowFn().Sub(c.lastFailure) >= c.backoff {
		// Push the window forward so concurrent requests don't all probe.
		c.lastFailure = c.nowFn()
		return true
	}
	return false
}

func (c *TieredCache) currentState() availabilityState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *TieredCache) markFailure(err error, op string) {
	metrics.PrimaryFailures.Inc()
	c.mu.Lock()
	wasHealthy := c.state == primaryHealthy
	c.state = degradedBackoff
	c.lastFailure = c.nowFn()
	c.mu.Unlock()

	logger := cacheLogger()
	if wasHealthy {
		logger.Warn("primary cache degraded, serving from memory fallback",
			"operation", "cache_"+op,
			"outcome", "degraded",
			"backoff_seconds", c.backoff.Seconds(),
			"error", err.Error(),
		)
		return
	}
	logger.Debug("primary cache still unavailable",
		"operation", "cache_"+op,
		"outcome", "degraded",
		"error", err.Error(),
	)
}

func (c *TieredCache) markRecovered() {
	c.mu.Lock()
	recovered := c.state == degradedBackoff
	c.state = primaryHealthy
	c.mu.Unlock()
	if recovered {
		cacheLogger().Info("primary cache recovered",
			"operation", "cache_probe",
			"outcome", "success",
		)
	}
}

func cacheLogger() *slog.Logger {
	return slog.Default().With(
		"service", "embed-service",
		"module", "cache",
		"layer", "adapter",
	)
}
