// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	service "github.com/chemarena/arena/internal/app"
	model "github.com/chemarena/arena/internal/domain/model"
	"github.com/chemarena/arena/internal/domain/types"
)

// BattleDependencies defines the interface for battle lifecycle dependencies.
type BattleDependencies interface {
	CreateBattle(ctx context.Context, category string) (model.Battle, error)
	Battle(ctx context.Context, id string) (model.Battle, error)
	CastVote(ctx context.Context, battleID string, outcome types.Outcome) (VoteStatus, error)
}

// BattlesHandler handles battle creation, lookup, and voting.
type BattlesHandler struct {
	deps BattleDependencies
}

// NewBattlesHandler creates a new battles handler.
func NewBattlesHandler(deps BattleDependencies) *BattlesHandler {
	return &BattlesHandler{deps: deps}
}

// HandleCreateBattle handles POST /api/battles requests.
func (h *BattlesHandler) HandleCreateBattle(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_battle"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req battleRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
	}

	battle, err := h.deps.CreateBattle(r.Context(), strings.TrimSpace(req.Category))
	if err != nil {
		writeCreateError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, newBattleResponse(battle))
}

// writeCreateError maps battle creation failures onto HTTP statuses.
func writeCreateError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownCategory):
		writeError(w, http.StatusBadRequest, "unknown_category", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrNoPrompts), errors.Is(err, service.ErrInsufficientModels):
		writeError(w, http.StatusConflict, "catalog_unavailable", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// HandleBattlePath dispatches GET /api/battles/{id} and
// POST /api/battles/{id}/vote requests.
func (h *BattlesHandler) HandleBattlePath(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/battles/")
	if id, ok := strings.CutSuffix(path, "/vote"); ok {
		h.handleVote(w, r, id)
		return
	}
	h.handleGetBattle(w, r, path)
}

// handleGetBattle handles GET /api/battles/{id} requests.
func (h *BattlesHandler) handleGetBattle(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.get_battle"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	battle, err := h.deps.Battle(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newBattleResponse(battle))
}

// handleVote handles POST /api/battles/{id}/vote requests.
func (h *BattlesHandler) handleVote(w http.ResponseWriter, r *http.Request, id string) {
	const op = "api.cast_vote"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	outcome, err := req.outcome()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// The battle must exist before a vote is queued. Votes on battles
	// that already carry a persisted verdict short-circuit as duplicates.
	battle, err := h.deps.Battle(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if battle.Voted {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	status, err := h.deps.CastVote(r.Context(), id, outcome)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	switch status {
	case VoteDuplicate:
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
	case VoteBackpressure:
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
	default:
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
	}
}
