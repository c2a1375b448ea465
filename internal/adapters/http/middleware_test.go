package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/campusbridge/embed-service/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
		detail string
	}{
		{domain.ErrInvalidURL, http.StatusUnprocessableEntity, "invalid url"},
		{domain.ErrProviderNotAllowed, http.StatusUnprocessableEntity, "Provider not allowed"},
		{domain.ErrRateLimited, http.StatusTooManyRequests, "Rate limit exceeded"},
		{domain.ErrUpstreamUnavailable, http.StatusBadGateway, "Upstream provider unavailable"},
		{errors.New("something unexpected"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		status, detail := mapDomainError(tc.err)
		if status != tc.status || detail != tc.detail {
			t.Fatalf("map %v: got %d %q, want %d %q", tc.err, status, detail, tc.status, tc.detail)
		}
	}

	// Wrapped sentinels map the same as the bare error.
	status, _ := mapDomainError(fmt.Errorf("%w: youtube.com.evil.net", domain.ErrProviderNotAllowed))
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("wrapped sentinel lost its mapping: %d", status)
	}
}
