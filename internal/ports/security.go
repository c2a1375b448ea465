package ports

// Sanitizer strips scriptable constructs from provider-supplied HTML.
// It runs exactly once per entry, at cache-write time, so the stored
// representation is canonical and never re-sanitized on read.
type Sanitizer interface {
	SanitizeHTML(fragment string) string
	SanitizeURL(raw string) string
}
