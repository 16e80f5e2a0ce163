package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/xbookmarks/pkg/api"
)

// Pinger reports whether a backend is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves health checks
type HealthHandler struct {
	logger  *slog.Logger
	storage Pinger
	version string
}

// NewHealthHandler creates a new HealthHandler. storage may be nil.
func NewHealthHandler(logger *slog.Logger, storage Pinger, version string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		storage: storage,
		version: version,
	}
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{
		Status:  "ok",
		Version: h.version,
	}

	if h.storage != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp.Storage = "ok"
		if err := h.storage.Ping(ctx); err != nil {
			h.logger.WarnContext(ctx, "storage ping failed", slog.Any("error", err))
			resp.Status = "degraded"
			resp.Storage = "unavailable"
			WriteJSON(w, h.logger, http.StatusServiceUnavailable, "storage unavailable", resp)
			return
		}
	}

	WriteJSON(w, h.logger, http.StatusOK, "", resp)
}
