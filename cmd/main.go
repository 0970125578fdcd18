package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/chemarena/arena/internal/adapters/dynamostore"
	"github.com/chemarena/arena/internal/adapters/http/api"
	"github.com/chemarena/arena/internal/adapters/http/site"
	"github.com/chemarena/arena/internal/adapters/http/swagger"
	"github.com/chemarena/arena/internal/adapters/repository"
	service "github.com/chemarena/arena/internal/app"
	"github.com/chemarena/arena/internal/config"
	"github.com/chemarena/arena/pkg/logger"
	"github.com/chemarena/arena/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Apply configured log format (fallback to text on invalid input)
	if err := logger.SetFormatString(cfg.LogFormat); err != nil {
		loggerInstance.Warn(ctx, "invalid log_format; falling back to text", logger.String("log_format", cfg.LogFormat), logger.Error(err))
		_ = logger.SetFormatString("text")
	}

	// Service options shared by both storage backends.
	opts := []service.Option{
		service.WithLogger(loggerInstance),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueCapacity(cfg.QueueCapacity),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithCategories(cfg.CatalogCategories()),
		service.WithModels(cfg.CatalogModels()),
		service.WithPrompts(cfg.CatalogPrompts()),
		service.WithRecalcInterval(cfg.RecalcInterval),
		service.WithSolverSettings(cfg.Solver.MaxIterations, cfg.Solver.Tolerance),
		service.WithRatingScale(cfg.Solver.BaseRating, cfg.Solver.RatingScale),
		service.WithConfidenceSaturation(cfg.Solver.ConfidenceSaturation),
		service.WithLeaderboardLimits(cfg.DefaultLeaderboardLimit, cfg.MaxLeaderboardLimit),
		service.WithGenerationLatencyRange(
			time.Duration(cfg.LLM.LatencyMinMS)*time.Millisecond,
			time.Duration(cfg.LLM.LatencyMaxMS)*time.Millisecond,
		),
		service.WithGenerationRate(cfg.LLM.RequestsPerSecond, cfg.LLM.Burst),
	}

	// DynamoDB backend replaces the default in-memory store.
	if cfg.Storage.Backend == "dynamodb" {
		store, err := buildDynamoStore(ctx, cfg)
		if err != nil {
			os.Stderr.WriteString("failed to build dynamodb store: " + err.Error() + "\n")
			return
		}
		opts = append(opts, service.WithStore(store))
		loggerInstance.Info(ctx, "using dynamodb store",
			logger.String("region", cfg.Storage.DynamoDB.Region),
			logger.String("endpoint", cfg.Storage.DynamoDB.Endpoint))
	}

	// Create and start the service with configuration options
	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register the arena frontend at /
	site.Register(ctx, mux)

	// Register API docs under /api-docs
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.CORS(cfg.CORSOriginList(), mux),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildDynamoStore connects to DynamoDB and seeds the model catalog.
func buildDynamoStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	store, err := dynamostore.NewFromConfig(ctx,
		cfg.Storage.DynamoDB.Region,
		cfg.Storage.DynamoDB.Endpoint,
		dynamostore.Tables{
			Models:  cfg.Storage.DynamoDB.Tables.Models,
			Battles: cfg.Storage.DynamoDB.Tables.Battles,
			Ratings: cfg.Storage.DynamoDB.Tables.Ratings,
		})
	if err != nil {
		return nil, err
	}

	// Upsert the configured catalog so battles can draw from it.
	for _, m := range cfg.CatalogModels() {
		if err := store.PutModel(ctx, m); err != nil {
			return nil, fmt.Errorf("seed model %s: %w", m.ID, err)
		}
	}

	return store, nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval) // Update every 10 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval) // Update every 5 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *service.Service) {
	// Get current stats from the service
	stats := svc.GetStats()

	// The GetStats method already updates the metrics, but we can also
	// update additional metrics here if needed
	if queueLen, ok := stats["queueLength"].(int); ok {
		metrics.UpdateQueueSize(queueLen)
	}

	if totalModels, ok := stats["totalModels"].(int); ok {
		metrics.UpdateTotalModels(totalModels)
	}

	if workerCount, ok := stats["workerCount"].(int); ok {
		metrics.UpdateWorkerCount(workerCount)
	}
}
