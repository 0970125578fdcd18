// Package service provides the core arena service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/chemarena/arena/internal/adapters/llm"
	votequeue "github.com/chemarena/arena/internal/adapters/mq/queue"
	workerpool "github.com/chemarena/arena/internal/adapters/mq/worker"
	repository "github.com/chemarena/arena/internal/adapters/repository"
	"github.com/chemarena/arena/internal/domain/dedupe"
	"github.com/chemarena/arena/internal/domain/leaderboard"
	"github.com/chemarena/arena/internal/domain/model"
	"github.com/chemarena/arena/internal/domain/rating"
	"github.com/chemarena/arena/internal/domain/types"
	"github.com/chemarena/arena/pkg/logger"
	"github.com/chemarena/arena/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueCapacity    = 10_000
	defaultDedupeSize       = 50_000
	defaultLeaderboardLimit = 50
	defaultMaxLimit         = 100
	maxConcurrentRecalcs    = 4
)

// VoteStatus is the synchronous outcome of CastVote. The authoritative
// outcome write happens later on a worker.
type VoteStatus int

const (
	// VoteAccepted means the vote job was queued for processing.
	VoteAccepted VoteStatus = iota

	// VoteDuplicate means this battle already received a vote.
	VoteDuplicate

	// VoteBackpressure means the queue refused the job; the caller may retry.
	VoteBackpressure
)

// CategoryInfo pairs a configured category with its voted battle count.
type CategoryInfo struct {
	ID           string
	Name         string
	Icon         string
	Description  string
	TotalBattles int
}

// scopeGate serializes recalculations for one scope. While a run is
// active, at most one follow-up stays pending; further requests collapse
// into it.
type scopeGate struct {
	mu      sync.Mutex
	running bool
	pending bool
}

// Service implements the API dependencies for the arena.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	voteQueue  votequeue.Queue
	generator  llm.Client
	workerPool *workerpool.Pool
	solver     *rating.Solver
	mapper     *rating.Mapper

	// Catalog, injected from configuration
	categories   []model.Category
	categoryByID map[string]model.Category
	prompts      []model.Prompt
	promptsByCat map[string][]model.Prompt
	models       []model.Model

	// Configuration
	workerCount          int
	queueCapacity        int
	dedupeSize           int
	solverOptions        []rating.Option
	mapperOptions        []rating.MapperOption
	confidenceSaturation int
	defaultLimit         int
	maxLimit             int
	recalcInterval       time.Duration
	genLatencyMin        time.Duration
	genLatencyMax        time.Duration
	genRate              float64
	genBurst             int

	// Battle drawing randomness
	rngMu sync.Mutex
	rng   *rand.Rand

	// Recalculation gates, one per scope key
	gatesMu sync.Mutex
	gates   map[string]*scopeGate

	// State. The flag is atomic so the vote workers can consult it
	// without touching the lifecycle lock.
	started atomic.Bool
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects the backing store. When unset, Start builds an
// in-memory store seeded from the configured model catalog.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithGenerator injects the response generation client.
func WithGenerator(client llm.Client) Option {
	return func(s *Service) {
		if client != nil {
			s.generator = client
		}
	}
}

// WithWorkerCount sets the number of vote worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueCapacity sets the maximum size of the vote queue.
func WithQueueCapacity(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueCapacity = size
		}
	}
}

// WithDedupeSize sets the size of the vote deduplication guard.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCategories sets the battle categories.
func WithCategories(categories []model.Category) Option {
	return func(s *Service) {
		s.categories = categories
	}
}

// WithPrompts sets the battle prompt pool.
func WithPrompts(prompts []model.Prompt) Option {
	return func(s *Service) {
		s.prompts = prompts
	}
}

// WithModels seeds the competitor catalog used when no store is injected.
func WithModels(models []model.Model) Option {
	return func(s *Service) {
		s.models = models
	}
}

// WithSolverSettings tunes the strength estimator. Non-positive values
// keep the defaults.
func WithSolverSettings(maxIterations int, tolerance float64) Option {
	return func(s *Service) {
		s.solverOptions = append(s.solverOptions,
			rating.WithMaxIterations(maxIterations),
			rating.WithTolerance(tolerance),
		)
	}
}

// WithRatingScale anchors the displayed rating scale. Non-positive values
// keep the defaults.
func WithRatingScale(base, scale float64) Option {
	return func(s *Service) {
		s.mapperOptions = append(s.mapperOptions,
			rating.WithBaseRating(base),
			rating.WithRatingScale(scale),
		)
	}
}

// WithConfidenceSaturation sets the match count at which confidence
// reaches 1.
func WithConfidenceSaturation(saturation int) Option {
	return func(s *Service) {
		if saturation > 0 {
			s.confidenceSaturation = saturation
		}
	}
}

// WithLeaderboardLimits sets the default and maximum leaderboard sizes.
func WithLeaderboardLimits(defaultLimit, maxLimit int) Option {
	return func(s *Service) {
		if defaultLimit > 0 {
			s.defaultLimit = defaultLimit
		}
		if maxLimit > 0 {
			s.maxLimit = maxLimit
		}
	}
}

// WithRecalcInterval sets the periodic full recalculation cadence.
// Zero disables the ticker.
func WithRecalcInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval >= 0 {
			s.recalcInterval = interval
		}
	}
}

// WithGenerationLatencyRange sets the simulated generation latency bounds.
func WithGenerationLatencyRange(min, max time.Duration) Option {
	return func(s *Service) {
		if min > 0 && max > min {
			s.genLatencyMin = min
			s.genLatencyMax = max
		}
	}
}

// WithGenerationRate throttles generation calls per second.
func WithGenerationRate(rps float64, burst int) Option {
	return func(s *Service) {
		if rps > 0 {
			s.genRate = rps
		}
		if burst > 0 {
			s.genBurst = burst
		}
	}
}

// WithRandomSeed makes battle drawing deterministic.
func WithRandomSeed(seed int64) Option {
	return func(s *Service) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * 4,
		queueCapacity:  defaultQueueCapacity,
		dedupeSize:     defaultDedupeSize,
		defaultLimit:   defaultLeaderboardLimit,
		maxLimit:       defaultMaxLimit,
		recalcInterval: time.Minute,
		genLatencyMin:  80 * time.Millisecond,
		genLatencyMax:  150 * time.Millisecond,
		genRate:        10,
		genBurst:       2,
		gates:          make(map[string]*scopeGate),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:         nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.categoryByID = make(map[string]model.Category, len(s.categories))
	for _, c := range s.categories {
		s.categoryByID[c.ID] = c
	}
	s.promptsByCat = make(map[string][]model.Prompt)
	for _, p := range s.prompts {
		s.promptsByCat[p.Category] = append(s.promptsByCat[p.Category], p)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started.Load() {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting arena service...")

	s.baseCtx, s.cancel = context.WithCancel(context.Background())

	// Initialize components
	if s.store == nil {
		s.store = repository.NewMemoryStore(ctx, repository.WithCatalog(s.models))
		s.logger.Info(ctx, "using in-memory store")
	}
	s.deduper = dedupe.NewVoteGuard(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.voteQueue = votequeue.NewInMemoryQueue(
		votequeue.WithCapacity(s.queueCapacity),
	)
	if s.generator == nil {
		s.generator = llm.NewRateLimited(
			llm.NewSimulatedClient(
				llm.WithLatencyRange(s.genLatencyMin, s.genLatencyMax),
				llm.WithSeed(time.Now().UnixNano()),
			),
			s.genRate, s.genBurst,
		)
	}
	s.solver = rating.NewSolver(s.solverOptions...)
	s.mapper = rating.NewMapper(s.mapperOptions...)

	// Create and start the vote worker pool; the service itself is the
	// recalculator the workers call back into.
	s.workerPool = workerpool.NewPool(s.workerCount, s.voteQueue, s.store, s)
	s.workerPool.Start(s.baseCtx)

	if s.recalcInterval > 0 {
		s.wg.Add(1)
		go s.runRecalcTicker()
	}

	s.started.Store(true)
	s.logger.Info(ctx, "arena service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueCapacity", s.queueCapacity),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("categories", len(s.categories)),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started.Load() {
		return
	}

	s.logger.Info(context.Background(), "stopping arena service...")

	// The workers run on the base context, so cancel it before waiting
	// on the pool.
	s.started.Store(false)
	s.cancel()
	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	s.wg.Wait()

	// Close queue
	if s.voteQueue != nil {
		_ = s.voteQueue.Close()
	}

	// Close the store if it owns resources
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.logger.Info(context.Background(), "arena service stopped")
}

// CreateBattle draws a prompt and two distinct active models, generates
// both responses concurrently, and persists the battle. An empty category
// draws from the whole prompt pool.
func (s *Service) CreateBattle(ctx context.Context, category string) (model.Battle, error) {
	if category != "" {
		if _, ok := s.categoryByID[category]; !ok {
			return model.Battle{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
		}
	}

	prompt, err := s.drawPrompt(category)
	if err != nil {
		return model.Battle{}, err
	}

	modelA, modelB, err := s.drawModelPair(ctx)
	if err != nil {
		return model.Battle{}, err
	}

	// Generate both responses concurrently
	var responseA, responseB llm.Response
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.generator.Generate(gctx, llm.Request{ModelID: modelA, Prompt: prompt.Text})
		if err != nil {
			return fmt.Errorf("generate response for %s: %w", modelA, err)
		}
		responseA = r
		return nil
	})
	g.Go(func() error {
		r, err := s.generator.Generate(gctx, llm.Request{ModelID: modelB, Prompt: prompt.Text})
		if err != nil {
			return fmt.Errorf("generate response for %s: %w", modelB, err)
		}
		responseB = r
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.RecordErrorByComponent("service", "generation_error")
		return model.Battle{}, err
	}

	battle := model.Battle{
		ID:        uuid.NewString(),
		Category:  prompt.Category,
		PromptID:  prompt.ID,
		Prompt:    prompt.Text,
		ModelA:    modelA,
		ModelB:    modelB,
		ResponseA: responseA.Text,
		ResponseB: responseB.Text,
		CreatedAt: time.Now(),
	}

	if err := s.store.PutBattle(ctx, battle); err != nil {
		metrics.RecordErrorByComponent("service", "store_error")
		return model.Battle{}, fmt.Errorf("persist battle: %w", err)
	}

	metrics.RecordBattleCreated()
	s.logger.Debug(ctx, "battle created",
		logger.String("battleID", battle.ID),
		logger.String("category", battle.Category),
	)
	return battle, nil
}

// drawPrompt picks a random prompt, optionally narrowed to one category.
func (s *Service) drawPrompt(category string) (model.Prompt, error) {
	pool := s.prompts
	if category != "" {
		pool = s.promptsByCat[category]
	}
	if len(pool) == 0 {
		return model.Prompt{}, fmt.Errorf("%w: category %q", ErrNoPrompts, category)
	}

	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return pool[s.rng.Intn(len(pool))], nil
}

// drawModelPair picks two distinct active models from the catalog.
func (s *Service) drawModelPair(ctx context.Context) (string, string, error) {
	ids, err := s.store.ListActiveIDs(ctx)
	if err != nil {
		return "", "", fmt.Errorf("list active models: %w", err)
	}
	if len(ids) < 2 {
		return "", "", fmt.Errorf("%w: have %d", ErrInsufficientModels, len(ids))
	}

	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	i := s.rng.Intn(len(ids))
	j := s.rng.Intn(len(ids) - 1)
	if j >= i {
		j++
	}
	return ids[i], ids[j], nil
}

// Battle returns a stored battle by id.
func (s *Service) Battle(ctx context.Context, id string) (model.Battle, error) {
	return s.store.GetBattle(ctx, id)
}

// CastVote validates and queues a vote for asynchronous processing. The
// deduper only fast-guards repeats; the store's atomic outcome write
// remains the authoritative check.
func (s *Service) CastVote(ctx context.Context, battleID string, outcome types.Outcome) (VoteStatus, error) {
	if !outcome.Valid() {
		return 0, fmt.Errorf("%w: %q", types.ErrInvalidOutcome, outcome)
	}

	if s.deduper.SeenAndRecord(ctx, battleID) {
		metrics.RecordVoteDuplicate()
		s.logger.Debug(ctx, "duplicate vote detected, skipping",
			logger.String("battleID", battleID),
		)
		return VoteDuplicate, nil
	}

	job := model.VoteJob{
		BattleID:   battleID,
		Outcome:    outcome,
		ReceivedAt: time.Now(),
	}
	if !s.voteQueue.Enqueue(ctx, job) {
		// Give the vote back so a retry is not treated as a duplicate.
		s.deduper.Unrecord(ctx, battleID)
		s.logger.Warn(ctx, "vote queue full, rejecting vote",
			logger.String("battleID", battleID),
		)
		return VoteBackpressure, nil
	}

	metrics.UpdateQueueSize(s.voteQueue.Len(ctx))
	return VoteAccepted, nil
}

// RequestRecalc schedules an asynchronous recalculation of one scope.
// Requests for a scope already being recalculated collapse into a single
// pending follow-up run.
func (s *Service) RequestRecalc(_ context.Context, scope types.Scope) {
	if !s.started.Load() {
		return
	}

	gate := s.gate(scope.Key())
	gate.mu.Lock()
	if gate.running {
		gate.pending = true
		gate.mu.Unlock()
		return
	}
	gate.running = true
	gate.mu.Unlock()

	s.wg.Add(1)
	go s.runGate(scope, gate)
}

func (s *Service) gate(key string) *scopeGate {
	s.gatesMu.Lock()
	defer s.gatesMu.Unlock()
	g, ok := s.gates[key]
	if !ok {
		g = &scopeGate{}
		s.gates[key] = g
	}
	return g
}

// runGate drains a scope's recalculation requests, one run at a time.
func (s *Service) runGate(scope types.Scope, gate *scopeGate) {
	defer s.wg.Done()

	for {
		if err := s.Recalculate(s.baseCtx, scope); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error(s.baseCtx, "recalculation failed",
				logger.String("scope", scope.String()),
				logger.Error(err),
			)
		}

		gate.mu.Lock()
		if gate.pending {
			gate.pending = false
			gate.mu.Unlock()
			continue
		}
		gate.running = false
		gate.mu.Unlock()
		return
	}
}

// runRecalcTicker periodically refreshes every scope.
func (s *Service) runRecalcTicker() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.recalcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.baseCtx.Done():
			return
		case <-ticker.C:
			if err := s.RecalculateAll(s.baseCtx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error(s.baseCtx, "periodic recalculation failed", logger.Error(err))
			}
		}
	}
}

// Recalculate runs the full rating pipeline for one scope and persists
// the resulting rows. Fewer than two active models is a recoverable
// insufficient-data condition; a category scope with no matches is a
// no-op that leaves prior rows untouched.
func (s *Service) Recalculate(ctx context.Context, scope types.Scope) error {
	start := time.Now()

	ids, err := s.store.ListActiveIDs(ctx)
	if err != nil {
		metrics.RecordRecalculationError()
		return fmt.Errorf("list active models: %w", err)
	}
	if len(ids) < 2 {
		return fmt.Errorf("%w: have %d", ErrInsufficientModels, len(ids))
	}

	matches, err := s.store.ListMatches(ctx, scope.Category)
	if err != nil {
		metrics.RecordRecalculationError()
		return fmt.Errorf("list matches for %s: %w", scope, err)
	}
	if !scope.IsOverall() && len(matches) == 0 {
		return nil
	}

	wins, comparisons, err := rating.Tally(ids, matches)
	if err != nil {
		metrics.RecordRecalculationError()
		return fmt.Errorf("tally %s: %w", scope, err)
	}

	result := s.solver.Solve(ids, wins, comparisons)
	metrics.RecordSolverIterations(result.Iterations)
	if !result.Converged {
		metrics.RecordSolverNonConverged()
		s.logger.Warn(ctx, "solver stopped at the iteration cap",
			logger.String("scope", scope.String()),
			logger.Int("iterations", result.Iterations),
		)
	}

	records, err := rating.BuildRecords(ids, matches, s.confidenceSaturation)
	if err != nil {
		metrics.RecordRecalculationError()
		return fmt.Errorf("build records for %s: %w", scope, err)
	}

	ratings := s.mapper.Ratings(result.Strengths)

	now := time.Now()
	rows := make([]model.RatingRow, 0, len(ids))
	for _, id := range ids {
		record := records[id]
		rows = append(rows, model.RatingRow{
			ModelID:      id,
			Rating:       ratings[id],
			Strength:     result.Strengths[id],
			Wins:         record.Wins,
			Losses:       record.Losses,
			Ties:         record.Ties,
			WinRate:      record.WinRate,
			Confidence:   record.Confidence,
			TotalMatches: record.TotalMatches,
			UpdatedAt:    now,
		})
	}

	if err := s.store.PutRatings(ctx, scope, rows); err != nil {
		metrics.RecordRecalculationError()
		return fmt.Errorf("persist ratings for %s: %w", scope, err)
	}

	metrics.RecordRatingsWritten(len(rows))
	metrics.RecordRecalculation(float64(time.Since(start).Milliseconds()))
	s.logger.Debug(ctx, "recalculated scope",
		logger.String("scope", scope.String()),
		logger.Int("models", len(rows)),
		logger.Int("matches", len(matches)),
		logger.Int("iterations", result.Iterations),
	)
	return nil
}

// RecalculateAll refreshes the overall scope and every configured
// category. Scopes run concurrently with bounded parallelism, and one
// scope's failure never aborts the others; the errors are joined.
func (s *Service) RecalculateAll(ctx context.Context) error {
	scopes := make([]types.Scope, 0, len(s.categories)+1)
	scopes = append(scopes, types.OverallScope())
	for _, c := range s.categories {
		scopes = append(scopes, types.CategoryScope(c.ID))
	}

	var errMu sync.Mutex
	var errs []error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRecalcs)
	for _, scope := range scopes {
		scope := scope
		g.Go(func() error {
			if err := s.Recalculate(gctx, scope); err != nil {
				errMu.Lock()
				errs = append(errs, fmt.Errorf("scope %s: %w", scope, err))
				errMu.Unlock()
			}
			// Always nil so one failing scope cannot cancel its siblings.
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// Leaderboard assembles the ranked board for one scope. A non-positive
// limit selects the default, and any limit is capped by the configured
// maximum.
func (s *Service) Leaderboard(ctx context.Context, category string, limit int) (leaderboard.Board, error) {
	if category != "" {
		if _, ok := s.categoryByID[category]; !ok {
			return leaderboard.Board{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
		}
	}

	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	scope := types.Scope{Category: category}
	rows, err := s.store.ListRatings(ctx, scope)
	if err != nil {
		metrics.RecordLeaderboardError()
		return leaderboard.Board{}, fmt.Errorf("list ratings for %s: %w", scope, err)
	}

	models, err := s.store.ListModels(ctx)
	if err != nil {
		metrics.RecordLeaderboardError()
		return leaderboard.Board{}, fmt.Errorf("list models: %w", err)
	}
	catalog := make(map[string]model.Model, len(models))
	for _, m := range models {
		catalog[m.ID] = m
	}

	total, err := s.store.CountMatches(ctx, category)
	if err != nil {
		metrics.RecordLeaderboardError()
		return leaderboard.Board{}, fmt.Errorf("count matches for %s: %w", scope, err)
	}

	updated, err := s.store.LastUpdated(ctx, scope)
	if err != nil {
		metrics.RecordLeaderboardError()
		return leaderboard.Board{}, fmt.Errorf("last updated for %s: %w", scope, err)
	}

	return leaderboard.Board{
		Category:     category,
		Entries:      leaderboard.Build(rows, catalog, limit),
		TotalBattles: total,
		LastUpdated:  updated,
	}, nil
}

// Categories returns the configured categories with their voted battle
// counts.
func (s *Service) Categories(ctx context.Context) ([]CategoryInfo, error) {
	infos := make([]CategoryInfo, 0, len(s.categories))
	for _, c := range s.categories {
		count, err := s.store.CountMatches(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("count matches for %s: %w", c.ID, err)
		}
		infos = append(infos, CategoryInfo{
			ID:           c.ID,
			Name:         c.Name,
			Icon:         c.Icon,
			Description:  c.Description,
			TotalBattles: count,
		})
	}
	return infos, nil
}

// Models returns the catalog plus each model's overall rating row, keyed
// by model id. Unrated models are simply absent from the map.
func (s *Service) Models(ctx context.Context) ([]model.Model, map[string]model.RatingRow, error) {
	models, err := s.store.ListModels(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list models: %w", err)
	}

	rows, err := s.store.ListRatings(ctx, types.OverallScope())
	if err != nil {
		return nil, nil, fmt.Errorf("list overall ratings: %w", err)
	}
	ratings := make(map[string]model.RatingRow, len(rows))
	for _, row := range rows {
		ratings[row.ModelID] = row
	}

	return models, ratings, nil
}

// Model returns one catalog entry plus its overall rating row. The bool
// reports whether the model has been rated yet.
func (s *Service) Model(ctx context.Context, id string) (model.Model, model.RatingRow, bool, error) {
	m, err := s.store.GetModel(ctx, id)
	if err != nil {
		return model.Model{}, model.RatingRow{}, false, err
	}

	row, err := s.store.GetRating(ctx, types.OverallScope(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return m, model.RatingRow{}, false, nil
	}
	if err != nil {
		return model.Model{}, model.RatingRow{}, false, fmt.Errorf("get rating for %s: %w", id, err)
	}
	return m, row, true, nil
}

// Prompts returns the configured prompts, optionally narrowed to one
// category.
func (s *Service) Prompts(_ context.Context, category string) ([]model.Prompt, error) {
	if category == "" {
		return s.prompts, nil
	}
	if _, ok := s.categoryByID[category]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return s.promptsByCat[category], nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	started := s.started.Load()
	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       started,
		"workerCount":   s.workerCount,
		"queueCapacity": s.queueCapacity,
		"dedupeSize":    s.dedupeSize,
		"categories":    len(s.categories),
	}

	if started {
		queueLen := s.voteQueue.Len(ctx)
		stats["queueLength"] = queueLen
		metrics.UpdateQueueSize(queueLen)

		if models, err := s.store.ListModels(ctx); err == nil {
			stats["totalModels"] = len(models)
			metrics.UpdateTotalModels(len(models))
		}
		if votes, err := s.store.CountMatches(ctx, ""); err == nil {
			stats["totalVotes"] = votes
		}
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
