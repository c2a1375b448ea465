package ports

import (
	"context"

	"github.com/campusbridge/embed-service/internal/domain"
)

// Provider is a resolved oEmbed provider: a display name plus the endpoint
// the upstream fetch should hit for a given content URL.
type Provider struct {
	Name     string
	Endpoint string
}

// ProviderResolver maps a validated embed request to its provider.
// Resolution is pure lookup: it must fail fast with
// domain.ErrProviderNotAllowed and never perform I/O.
type ProviderResolver interface {
	Resolve(req domain.EmbedRequest) (Provider, error)
}

// UpstreamEmbed is the raw oEmbed descriptor returned by a provider before
// sanitization.
type UpstreamEmbed struct {
	HTML         string `json:"html"`
	Title        string `json:"title"`
	ProviderName string `json:"provider_name"`
	ThumbnailURL string `json:"thumbnail_url"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// UpstreamClient fetches the oEmbed descriptor from the provider endpoint.
// Implementations bound every fetch with a timeout; failures of any kind
// (timeout, non-2xx, malformed payload) surface as domain.ErrUpstreamUnavailable.
type UpstreamClient interface {
	Fetch(ctx context.Context, provider Provider, req domain.EmbedRequest) (UpstreamEmbed, error)
}
