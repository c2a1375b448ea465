package application

import "time"

// Config holds the service-level knobs resolved once at bootstrap and passed
// in explicitly; the service never reads the environment.
type Config struct {
	SuccessTTL time.Duration
	ErrorTTL   time.Duration
}

// EmbedResult is the externally visible embed payload. Cache provenance is
// deliberately not part of it; tier accounting surfaces only through the
// statistics endpoint.
type EmbedResult struct {
	HTML         string `json:"html"`
	Title        string `json:"title"`
	ProviderName string `json:"provider_name"`
	ThumbnailURL string `json:"thumbnail_url"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// StatsResult mirrors the cache statistics contract of the introspection
// endpoint.
type StatsResult struct {
	CacheType          string `json:"cache_type"`
	RedisAvailable     bool   `json:"redis_available"`
	TTLSeconds         int    `json:"ttl_seconds"`
	RedisCacheSize     int    `json:"redis_cache_size"`
	MemoryCacheSize    int    `json:"memory_cache_size"`
	TotalCachedEntries int    `json:"total_cached_entries"`
}
