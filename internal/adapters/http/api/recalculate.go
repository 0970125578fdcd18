// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	service "github.com/chemarena/arena/internal/app"
)

// RecalcDependencies defines the interface for on-demand recalculation.
type RecalcDependencies interface {
	RecalculateAll(ctx context.Context) error
}

// RecalcHandler handles recalculation requests.
type RecalcHandler struct {
	deps RecalcDependencies
}

// NewRecalcHandler creates a new recalculation handler.
func NewRecalcHandler(deps RecalcDependencies) *RecalcHandler {
	return &RecalcHandler{deps: deps}
}

// recalcResponse reports a completed recalculation run.
type recalcResponse struct {
	Status     string  `json:"status"`
	DurationMS float64 `json:"duration_ms"`
}

// HandleRecalculate handles POST /api/recalculate requests. The run is
// synchronous and idempotent: repeating it without new votes rewrites
// the same ratings.
func (h *RecalcHandler) HandleRecalculate(w http.ResponseWriter, r *http.Request) {
	const op = "api.recalculate"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	start := time.Now()
	if err := h.deps.RecalculateAll(r.Context()); err != nil {
		if errors.Is(err, service.ErrInsufficientModels) {
			writeError(w, http.StatusConflict, "insufficient_models", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, recalcResponse{
		Status:     "completed",
		DurationMS: float64(time.Since(start).Milliseconds()),
	})
}
