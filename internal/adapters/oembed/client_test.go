package oembed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campusbridge/embed-service/internal/domain"
	"github.com/campusbridge/embed-service/internal/ports"
)

func TestClientFetchDecodesDescriptor(t *testing.T) {
	t.Parallel()

	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"url":      r.URL.Query().Get("url"),
			"format":   r.URL.Query().Get("format"),
			"maxwidth": r.URL.Query().Get("maxwidth"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"html":"<iframe src=\"https://www.youtube.com/embed/x\"></iframe>","title":"a video","provider_name":"YouTube","thumbnail_url":"https://i.ytimg.com/vi/x/hq.jpg","width":560,"height":315}`))
	}))
	defer srv.Close()

	client := NewClient(2 * time.Second)
	req, _ := domain.NewEmbedRequest("https://www.youtube.com/watch?v=x", 640, 0)
	embed, err := client.Fetch(context.Background(), ports.Provider{Name: "YouTube", Endpoint: srv.URL}, req)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if embed.HTML == "" || embed.ProviderName != "YouTube" || embed.Width != 560 {
		t.Fatalf("unexpected descriptor: %+v", embed)
	}
	if gotQuery["url"] != "https://www.youtube.com/watch?v=x" {
		t.Fatalf("content url not forwarded: %v", gotQuery)
	}
	if gotQuery["format"] != "json" || gotQuery["maxwidth"] != "640" {
		t.Fatalf("expected format/maxwidth query params, got %v", gotQuery)
	}
}

func TestClientFetchNon2xxIsUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(2 * time.Second)
	req, _ := domain.NewEmbedRequest("https://vimeo.com/1", 0, 0)
	_, err := client.Fetch(context.Background(), ports.Provider{Name: "Vimeo", Endpoint: srv.URL}, req)
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestClientFetchMalformedPayloadIsUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := NewClient(2 * time.Second)
	req, _ := domain.NewEmbedRequest("https://vimeo.com/1", 0, 0)
	_, err := client.Fetch(context.Background(), ports.Provider{Name: "Vimeo", Endpoint: srv.URL}, req)
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestClientFetchTimeoutIsUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	client := NewClient(50 * time.Millisecond)
	req, _ := domain.NewEmbedRequest("https://vimeo.com/1", 0, 0)
	_, err := client.Fetch(context.Background(), ports.Provider{Name: "Vimeo", Endpoint: srv.URL}, req)
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable on timeout, got %v", err)
	}
}
