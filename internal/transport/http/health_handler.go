package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthHandler serves liveness and readiness checks
type HealthHandler struct {
	pinger  Pinger
	version string
	logger  *slog.Logger
}

// NewHealthHandler creates a health handler
func NewHealthHandler(pinger Pinger, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		pinger:  pinger,
		version: version,
		logger:  logger.With(slog.String("component", "health_handler")),
	}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":    "healthy",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Version handles GET /version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"version": h.version})
}

// ReadinessCheck handles GET /api/health/ready; not ready when the data
// source cannot be reached.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pinger.PingContext(ctx); err != nil {
		h.logger.WarnContext(ctx, "readiness check failed", slog.String("error", err.Error()))
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]any{
			"status": "not ready",
			"reason": "data source unreachable",
		})
		return
	}

	render.JSON(w, r, map[string]any{"status": "ready"})
}
