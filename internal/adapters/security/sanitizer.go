package security

import (
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/campusbridge/embed-service/internal/ports"
)

// EmbedSanitizer enforces the minimal markup surface an embed needs:
// iframe/img/a plus inert text containers, http(s) URLs only. Everything
// script-capable (script tags, on* handlers, javascript: URIs, style
// injection) is stripped by the policy.
type EmbedSanitizer struct {
	policy *bluemonday.Policy
}

var _ ports.Sanitizer = (*EmbedSanitizer)(nil)

func NewEmbedSanitizer() *EmbedSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements("p", "span", "blockquote")
	p.AllowAttrs("src", "width", "height", "allow", "allowfullscreen", "frameborder", "title").OnElements("iframe")
	p.AllowAttrs("src", "width", "height", "alt", "title").OnElements("img")
	p.AllowAttrs("href", "title").OnElements("a")

	p.AllowURLSchemes("http", "https")
	p.RequireParseableURLs(true)

	return &EmbedSanitizer{policy: p}
}

func (s *EmbedSanitizer) SanitizeHTML(fragment string) string {
	return strings.TrimSpace(s.policy.Sanitize(fragment))
}

// SanitizeURL keeps only absolute http(s) URLs; anything else becomes empty.
// Applied to provider thumbnail URLs before they are cached.
func (s *EmbedSanitizer) SanitizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return u.String()
}
