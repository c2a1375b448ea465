package http

import "net/http"

func (h *Handler) embed(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	maxWidth := parseIntDefault(r.URL.Query().Get("maxwidth"), 0)
	maxHeight := parseIntDefault(r.URL.Query().Get("maxheight"), 0)

	result, err := h.service.Resolve(r.Context(), rawURL, maxWidth, maxHeight)
	if err != nil {
		status, detail := mapDomainError(err)
		logHTTPOperationError(r.Context(), "embed_resolve", status, detail, err)
		writeError(w, status, detail)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// cacheStats is read-only and exempt from the embed rate limit.
func (h *Handler) cacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.CacheStats(r.Context()))
}
