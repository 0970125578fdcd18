// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	service "github.com/chemarena/arena/internal/app"
	model "github.com/chemarena/arena/internal/domain/model"
)

// PromptDependencies defines the interface for prompt catalog operations.
type PromptDependencies interface {
	Prompts(ctx context.Context, category string) ([]model.Prompt, error)
}

// PromptsHandler handles prompt catalog requests.
type PromptsHandler struct {
	deps PromptDependencies
}

// NewPromptsHandler creates a new prompts handler.
func NewPromptsHandler(deps PromptDependencies) *PromptsHandler {
	return &PromptsHandler{deps: deps}
}

// HandleGetPrompts handles GET /api/prompts?category= requests.
func (h *PromptsHandler) HandleGetPrompts(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_prompts"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	prompts, err := h.deps.Prompts(r.Context(), category)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCategory) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	out := make([]promptResponse, 0, len(prompts))
	for _, p := range prompts {
		out = append(out, promptResponse{
			ID:         p.ID,
			Category:   p.Category,
			Difficulty: p.Difficulty,
			Text:       p.Text,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
