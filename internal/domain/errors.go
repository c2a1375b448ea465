package domain

import "errors"

var (
	// ErrInvalidURL is returned when the requested URL is not an absolute
	// http(s) URL. It is rejected before any cache or network work.
	ErrInvalidURL = errors.New("invalid url")
	// ErrProviderNotAllowed signals that the URL's host matches no
	// allow-listed provider. Keeping this distinct from ErrUpstreamUnavailable
	// lets the adapter map it to a client error instead of a gateway error.
	ErrProviderNotAllowed = errors.New("provider not allowed")
	// ErrUpstreamUnavailable covers upstream timeouts, non-2xx responses and
	// malformed payloads after the cache-miss path has been taken.
	ErrUpstreamUnavailable = errors.New("upstream provider unavailable")
	// ErrRateLimited is produced by the endpoint layer's limiter before the
	// proxy service is invoked.
	ErrRateLimited = errors.New("rate limited")
)
