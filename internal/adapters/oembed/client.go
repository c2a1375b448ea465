package oembed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/campusbridge/embed-service/internal/domain"
	"github.com/campusbridge/embed-service/internal/ports"
)

// maxBodyBytes caps how much of an upstream response is read. oEmbed
// descriptors are small; anything larger is treated as malformed.
const maxBodyBytes = 1 << 20

// Client fetches oEmbed descriptors over HTTP with a bounded timeout.
// Any failure mode (timeout, non-2xx, malformed JSON, empty fragment) maps to
// domain.ErrUpstreamUnavailable so the service layer has a single gateway
// error to cache and surface.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return &Client{httpClient: &http.Client{Timeout: timeout}}
}

func (c *Client) Fetch(ctx context.Context, provider ports.Provider, req domain.EmbedRequest) (ports.UpstreamEmbed, error) {
	endpoint, err := url.Parse(provider.Endpoint)
	if err != nil {
		return ports.UpstreamEmbed{}, fmt.Errorf("%w: bad endpoint for %s: %v", domain.ErrUpstreamUnavailable, provider.Name, err)
	}

	query := endpoint.Query()
	query.Set("url", req.URL)
	query.Set("format", "json")
	if req.MaxWidth > 0 {
		query.Set("maxwidth", strconv.Itoa(req.MaxWidth))
	}
	if req.MaxHeight > 0 {
		query.Set("maxheight", strconv.Itoa(req.MaxHeight))
	}
	endpoint.RawQuery = query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return ports.UpstreamEmbed{}, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return ports.UpstreamEmbed{}, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ports.UpstreamEmbed{}, fmt.Errorf("%w: %s returned status %d", domain.ErrUpstreamUnavailable, provider.Name, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return ports.UpstreamEmbed{}, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	var embed ports.UpstreamEmbed
	if err := json.Unmarshal(raw, &embed); err != nil {
		return ports.UpstreamEmbed{}, fmt.Errorf("%w: malformed payload from %s", domain.ErrUpstreamUnavailable, provider.Name)
	}
	if embed.HTML == "" {
		return ports.UpstreamEmbed{}, fmt.Errorf("%w: empty embed fragment from %s", domain.ErrUpstreamUnavailable, provider.Name)
	}
	if embed.ProviderName == "" {
		embed.ProviderName = provider.Name
	}
	return embed, nil
}
