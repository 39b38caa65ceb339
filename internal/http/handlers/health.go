package handlers

import "net/http"

// HealthHandler reports liveness and whether a completion provider is
// configured.
type HealthHandler struct {
	provider   string
	configured bool
}

func NewHealthHandler(provider string, configured bool) *HealthHandler {
	return &HealthHandler{provider: provider, configured: configured}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"provider":   h.provider,
		"configured": h.configured,
	})
}
