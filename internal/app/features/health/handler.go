package health

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/linkcatalog/internal/app/features/errors"
	"github.com/dalemusser/linkcatalog/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Pinger reports whether the backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Store Pinger
	Log   *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(store Pinger, logger *zap.Logger) *Handler {
	return &Handler{
		Store: store,
		Log:   logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Message  string `json:"message,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected" }
//
// On DB failure: 503 and
//
//	{ "status":"degraded", "database":"disconnected", "message":"Database unavailable" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		h.Log.Error("health-check: mongo ping failed", zap.Error(err))
		uierrors.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:   "degraded",
			Database: "disconnected",
			Message:  "Database unavailable",
		})
		return
	}

	uierrors.WriteJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Database: "connected",
	})
}
