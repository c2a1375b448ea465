package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// EmbedRequest is a validated, normalized embed lookup.
// MaxWidth/MaxHeight are advisory hints forwarded to the provider; zero means
// "provider default".
type EmbedRequest struct {
	URL       string
	MaxWidth  int
	MaxHeight int
}

// NewEmbedRequest validates the raw inputs and normalizes them into the
// canonical form used for cache keying. Non-positive size hints are clamped
// to zero so that "absent" and "invalid" hints key identically.
func NewEmbedRequest(rawURL string, maxWidth, maxHeight int) (EmbedRequest, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return EmbedRequest{}, fmt.Errorf("%w: url is required", ErrInvalidURL)
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return EmbedRequest{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return EmbedRequest{}, fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}
	if u.Host == "" {
		return EmbedRequest{}, fmt.Errorf("%w: url must be absolute", ErrInvalidURL)
	}
	if maxWidth < 0 {
		maxWidth = 0
	}
	if maxHeight < 0 {
		maxHeight = 0
	}
	return EmbedRequest{URL: u.String(), MaxWidth: maxWidth, MaxHeight: maxHeight}, nil
}

// Host returns the lowercased hostname of the request URL without port.
func (r EmbedRequest) Host() string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// CacheKey derives a deterministic digest for the (url, maxwidth, maxheight)
// tuple. Identical logical requests always hash to the same key, and the
// derivation is pure CPU so key generation never touches network or disk.
func (r EmbedRequest) CacheKey() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%d\x00%d", r.URL, r.MaxWidth, r.MaxHeight)
	return hex.EncodeToString(h.Sum(nil))
}
