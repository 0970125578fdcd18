// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	repository "github.com/chemarena/arena/internal/adapters/repository"
	service "github.com/chemarena/arena/internal/app"
	"github.com/chemarena/arena/internal/domain/leaderboard"
	model "github.com/chemarena/arena/internal/domain/model"
	"github.com/chemarena/arena/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Battle lifecycle.
	CreateBattle(ctx context.Context, category string) (model.Battle, error)
	Battle(ctx context.Context, id string) (model.Battle, error)
	CastVote(ctx context.Context, battleID string, outcome types.Outcome) (VoteStatus, error)

	// Read operations expose leaderboard and catalog data.
	Leaderboard(ctx context.Context, category string, limit int) (Board, error)
	Categories(ctx context.Context) ([]service.CategoryInfo, error)
	Models(ctx context.Context) ([]model.Model, map[string]model.RatingRow, error)
	Model(ctx context.Context, id string) (model.Model, model.RatingRow, bool, error)
	Prompts(ctx context.Context, category string) ([]model.Prompt, error)

	// RecalculateAll refreshes every rating scope on demand.
	RecalculateAll(ctx context.Context) error
}

// Board mirrors the read shape returned by leaderboard queries.
type Board = leaderboard.Board

// VoteStatus mirrors the service's classification of an incoming vote.
type VoteStatus = service.VoteStatus

// Vote classifications re-exported for handler use.
const (
	VoteAccepted     = service.VoteAccepted
	VoteDuplicate    = service.VoteDuplicate
	VoteBackpressure = service.VoteBackpressure
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	battlesHandler     *BattlesHandler
	leaderboardHandler *LeaderboardHandler
	modelsHandler      *ModelsHandler
	promptsHandler     *PromptsHandler
	recalcHandler      *RecalcHandler
	dashboardHandler   *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		battlesHandler:     NewBattlesHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		modelsHandler:      NewModelsHandler(deps),
		promptsHandler:     NewPromptsHandler(deps),
		recalcHandler:      NewRecalcHandler(deps),
		dashboardHandler:   newdashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/battles", MetricsMiddleware(s.battlesHandler.HandleCreateBattle, "battles"))
	mux.HandleFunc("/api/battles/", MetricsMiddleware(s.battlesHandler.HandleBattlePath, "battles"))
	mux.HandleFunc("/api/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/api/leaderboard/categories", MetricsMiddleware(s.leaderboardHandler.HandleGetCategories, "categories"))
	mux.HandleFunc("/api/leaderboard/", MetricsMiddleware(s.leaderboardHandler.HandleGetCategoryBoard, "leaderboard"))
	mux.HandleFunc("/api/models", MetricsMiddleware(s.modelsHandler.HandleGetModels, "models"))
	mux.HandleFunc("/api/models/", MetricsMiddleware(s.modelsHandler.HandleGetModel, "models"))
	mux.HandleFunc("/api/prompts", MetricsMiddleware(s.promptsHandler.HandleGetPrompts, "prompts"))
	mux.HandleFunc("/api/recalculate", MetricsMiddleware(s.recalcHandler.HandleRecalculate, "recalculate"))
}

// battleRequest mirrors the OpenAPI schema for POST /api/battles.
type battleRequest struct {
	Category string `json:"category"`
}

// voteRequest mirrors the OpenAPI schema for POST /api/battles/{id}/vote.
type voteRequest struct {
	Winner string `json:"winner"`
}

func (v voteRequest) outcome() (types.Outcome, error) {
	return types.ParseOutcome(v.Winner)
}

// battleResponse is the wire form of a battle. Model identities and the
// verdict stay hidden until the battle has been voted.
type battleResponse struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	PromptID  string    `json:"prompt_id"`
	Prompt    string    `json:"prompt"`
	ResponseA string    `json:"response_a"`
	ResponseB string    `json:"response_b"`
	Voted     bool      `json:"voted"`
	ModelA    string    `json:"model_a,omitempty"`
	ModelB    string    `json:"model_b,omitempty"`
	Winner    string    `json:"winner,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newBattleResponse(b model.Battle) battleResponse {
	resp := battleResponse{
		ID:        b.ID,
		Category:  b.Category,
		PromptID:  b.PromptID,
		Prompt:    b.Prompt,
		ResponseA: b.ResponseA,
		ResponseB: b.ResponseB,
		Voted:     b.Voted,
		CreatedAt: b.CreatedAt,
	}
	if b.Voted {
		resp.ModelA = b.ModelA
		resp.ModelB = b.ModelB
		resp.Winner = string(b.Outcome)
	}
	return resp
}

// categoryResponse is the wire form of a configured category.
type categoryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Icon         string `json:"icon,omitempty"`
	Description  string `json:"description,omitempty"`
	TotalBattles int    `json:"total_battles"`
}

// modelResponse merges a catalog entry with its overall rating record.
type modelResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Provider     string  `json:"provider"`
	Description  string  `json:"description,omitempty"`
	IsNew        bool    `json:"is_new"`
	Active       bool    `json:"active"`
	Rated        bool    `json:"rated"`
	Rating       int     `json:"rating,omitempty"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Ties         int     `json:"ties"`
	WinRate      float64 `json:"win_rate"`
	Confidence   float64 `json:"confidence"`
	TotalMatches int     `json:"total_matches"`
}

func newModelResponse(m model.Model, row model.RatingRow, rated bool) modelResponse {
	resp := modelResponse{
		ID:          m.ID,
		Name:        m.Name,
		Provider:    m.Provider,
		Description: m.Description,
		IsNew:       m.IsNew,
		Active:      m.Active,
		Rated:       rated,
	}
	if rated {
		resp.Rating = row.Rating
		resp.Wins = row.Wins
		resp.Losses = row.Losses
		resp.Ties = row.Ties
		resp.WinRate = row.WinRate
		resp.Confidence = row.Confidence
		resp.TotalMatches = row.TotalMatches
	}
	return resp
}

// promptResponse is the wire form of a catalog prompt.
type promptResponse struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty,omitempty"`
	Text       string `json:"text"`
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
