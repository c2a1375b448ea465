package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/campusbridge/embed-service/internal/domain"
	"github.com/campusbridge/embed-service/internal/metrics"
	"github.com/campusbridge/embed-service/internal/ports"
)

// Service orchestrates the embed lifecycle: validate -> cache lookup ->
// provider resolution -> upstream fetch -> sanitize -> cache write.
type Service struct {
	cfg       Config
	cache     ports.EmbedCache
	resolver  ports.ProviderResolver
	upstream  ports.UpstreamClient
	sanitizer ports.Sanitizer
	nowFn     func() time.Time
}

type Dependencies struct {
	Config    Config
	Cache     ports.EmbedCache
	Resolver  ports.ProviderResolver
	Upstream  ports.UpstreamClient
	Sanitizer ports.Sanitizer
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.SuccessTTL <= 0 {
		cfg.SuccessTTL = time.Hour
	}
	if cfg.ErrorTTL <= 0 {
		cfg.ErrorTTL = 10 * time.Minute
	}
	return &Service{
		cfg:       cfg,
		cache:     deps.Cache,
		resolver:  deps.Resolver,
		upstream:  deps.Upstream,
		sanitizer: deps.Sanitizer,
		nowFn:     func() time.Time { return time.Now().UTC() },
	}
}

// Resolve serves one embed request. Validation and provider checks happen
// before any cache write or network call; a cached error marker short-circuits
// the upstream fetch so a failing URL is retried at most once per error-TTL
// window.
func (s *Service) Resolve(ctx context.Context, rawURL string, maxWidth, maxHeight int) (EmbedResult, error) {
	req, err := domain.NewEmbedRequest(rawURL, maxWidth, maxHeight)
	if err != nil {
		return EmbedResult{}, err
	}
	key := req.CacheKey()

	if entry, tier, _ := s.cache.Get(ctx, key); entry != nil {
		metrics.CacheHits.WithLabelValues(string(tier)).Inc()
		if entry.Failed {
			return EmbedResult{}, domain.ErrUpstreamUnavailable
		}
		return resultFromEntry(*entry), nil
	}
	metrics.CacheMisses.Inc()

	provider, err := s.resolver.Resolve(req)
	if err != nil {
		// Validation failure: no cache write, no upstream call.
		return EmbedResult{}, err
	}

	embed, err := s.upstream.Fetch(ctx, provider, req)
	if err != nil {
		metrics.UpstreamFetches.WithLabelValues("failure").Inc()
		s.logger().WarnContext(ctx, "upstream fetch failed",
			"operation", "embed_fetch",
			"outcome", "failure",
			"provider", provider.Name,
			"error", err.Error(),
		)
		// Cache the failure with the short TTL so repeat requests inside the
		// window do not hammer a provider that is already erroring. A fetch
		// abandoned by the caller says nothing about provider health, so a
		// cancelled context must not poison the cache for everyone else.
		if ctx.Err() == nil {
			s.cache.Set(ctx, key, ports.CacheEntry{
				ProviderName: provider.Name,
				Failed:       true,
				ExpiresAt:    s.nowFn().Add(s.cfg.ErrorTTL),
			}, s.cfg.ErrorTTL)
		}
		return EmbedResult{}, err
	}
	metrics.UpstreamFetches.WithLabelValues("success").Inc()

	entry := ports.CacheEntry{
		HTML:         s.sanitizer.SanitizeHTML(embed.HTML),
		Title:        embed.Title,
		ProviderName: embed.ProviderName,
		ThumbnailURL: s.sanitizer.SanitizeURL(embed.ThumbnailURL),
		Width:        embed.Width,
		Height:       embed.Height,
		ExpiresAt:    s.nowFn().Add(s.cfg.SuccessTTL),
	}
	s.cache.Set(ctx, key, entry, s.cfg.SuccessTTL)

	return resultFromEntry(entry), nil
}

// CacheStats snapshots the tier state for the introspection endpoint.
func (s *Service) CacheStats(ctx context.Context) StatsResult {
	stats := s.cache.Stats(ctx)
	return StatsResult{
		CacheType:          stats.CacheType,
		RedisAvailable:     stats.PrimaryAvailable,
		TTLSeconds:         int(stats.SuccessTTL.Seconds()),
		RedisCacheSize:     stats.PrimarySize,
		MemoryCacheSize:    stats.MemorySize,
		TotalCachedEntries: stats.PrimarySize + stats.MemorySize,
	}
}

func resultFromEntry(entry ports.CacheEntry) EmbedResult {
	return EmbedResult{
		HTML:         entry.HTML,
		Title:        entry.Title,
		ProviderName: entry.ProviderName,
		ThumbnailURL: entry.ThumbnailURL,
		Width:        entry.Width,
		Height:       entry.Height,
	}
}

func (s *Service) logger() *slog.Logger {
	return slog.Default().With(
		"service", "embed-service",
		"module", "application",
		"layer", "application",
	)
}
