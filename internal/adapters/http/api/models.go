// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	model "github.com/chemarena/arena/internal/domain/model"
)

// CatalogDependencies defines the interface for model catalog operations.
type CatalogDependencies interface {
	Models(ctx context.Context) ([]model.Model, map[string]model.RatingRow, error)
	Model(ctx context.Context, id string) (model.Model, model.RatingRow, bool, error)
}

// ModelsHandler handles model catalog requests.
type ModelsHandler struct {
	deps CatalogDependencies
}

// NewModelsHandler creates a new models handler.
func NewModelsHandler(deps CatalogDependencies) *ModelsHandler {
	return &ModelsHandler{deps: deps}
}

// HandleGetModels handles GET /api/models requests. Inactive models are
// excluded unless active_only=false is passed.
func (h *ModelsHandler) HandleGetModels(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_models"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	activeOnly := r.URL.Query().Get("active_only") != "false"

	models, ratings, err := h.deps.Models(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	out := make([]modelResponse, 0, len(models))
	for _, m := range models {
		if activeOnly && !m.Active {
			continue
		}
		row, rated := ratings[m.ID]
		out = append(out, newModelResponse(m, row, rated))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetModel handles GET /api/models/{id} requests.
func (h *ModelsHandler) HandleGetModel(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_model"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/models/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	m, row, rated, err := h.deps.Model(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newModelResponse(m, row, rated))
}
