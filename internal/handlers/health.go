package handlers

import (
	"net/http"

	"github.com/bobmcallan/aide-portal/internal/common"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger      *common.Logger
	aiAvailable bool
	backend     string
}

// NewHealthHandler creates a new health handler. aiAvailable reports whether
// a model key is configured; backend names the insight cache backend.
func NewHealthHandler(logger *common.Logger, aiAvailable bool, backend string) *HealthHandler {
	return &HealthHandler{logger: logger, aiAvailable: aiAvailable, backend: backend}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"ai_available": h.aiAvailable,
		"cache":        h.backend,
	})
}
