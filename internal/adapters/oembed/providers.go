package oembed

import (
	"fmt"
	"strings"

	"github.com/campusbridge/embed-service/internal/domain"
	"github.com/campusbridge/embed-service/internal/ports"
)

// provider pairs a display name and oEmbed endpoint with the host suffixes
// it may serve. Hosts match exactly or on a dot boundary, so
// "youtube.com" covers "www.youtube.com" but never "evilyoutube.com".
type provider struct {
	name     string
	endpoint string
	hosts    []string
}

// builtinProviders is the known provider catalog. The configured allow-list
// selects which of these are active; a catalog entry that is not allow-listed
// is treated the same as an unknown host.
var builtinProviders = []provider{
	{
		name:     "YouTube",
		endpoint: "https://www.youtube.com/oembed",
		hosts:    []string{"youtube.com", "youtu.be"},
	},
	{
		name:     "Vimeo",
		endpoint: "https://vimeo.com/api/oembed.json",
		hosts:    []string{"vimeo.com"},
	},
	{
		name:     "Twitter",
		endpoint: "https://publish.twitter.com/oembed",
		hosts:    []string{"twitter.com", "x.com"},
	},
	{
		name:     "SoundCloud",
		endpoint: "https://soundcloud.com/oembed",
		hosts:    []string{"soundcloud.com"},
	},
	{
		name:     "Flickr",
		endpoint: "https://www.flickr.com/services/oembed",
		hosts:    []string{"flickr.com", "flic.kr"},
	},
}

// Registry resolves embed URLs against the active provider allow-list.
// Resolution is a pure in-memory lookup; it never performs I/O.
type Registry struct {
	active []provider
}

// NewRegistry filters the builtin catalog down to the allowed host list.
// An empty allow-list activates the full catalog.
func NewRegistry(allowedHosts []string) *Registry {
	if len(allowedHosts) == 0 {
		return &Registry{active: builtinProviders}
	}

	allowed := make(map[string]bool, len(allowedHosts))
	for _, host := range allowedHosts {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			allowed[host] = true
		}
	}

	var active []provider
	for _, p := range builtinProviders {
		var hosts []string
		for _, h := range p.hosts {
			if allowed[h] {
				hosts = append(hosts, h)
			}
		}
		if len(hosts) > 0 {
			active = append(active, provider{name: p.name, endpoint: p.endpoint, hosts: hosts})
		}
	}
	return &Registry{active: active}
}

func (r *Registry) Resolve(req domain.EmbedRequest) (ports.Provider, error) {
	host := req.Host()
	if host == "" {
		return ports.Provider{}, fmt.Errorf("%w: missing host", domain.ErrInvalidURL)
	}
	for _, p := range r.active {
		for _, allowed := range p.hosts {
			if hostMatches(host, allowed) {
				return ports.Provider{Name: p.name, Endpoint: p.endpoint}, nil
			}
		}
	}
	return ports.Provider{}, fmt.Errorf("%w: %s", domain.ErrProviderNotAllowed, host)
}

func hostMatches(host, allowed string) bool {
	return host == allowed || strings.HasSuffix(host, "."+allowed)
}
