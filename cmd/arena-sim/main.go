package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/chemarena/arena/internal/simulation"
)

// Default configuration constants.
const (
	defaultNumBattles = 1000
	defaultTopN       = 50
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTieRate    = 0.1
	defaultTimeout    = 30 * time.Second
	defaultSimTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numBattles = flag.Int("battles", defaultNumBattles, "Number of battles to create and vote")
		topN       = flag.Int("top", defaultTopN, "Number of top entries to fetch from leaderboard")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		category   = flag.String("category", "", "Restrict battles to one category (default: draw from all)")
		tieRate    = flag.Float64("tie-rate", defaultTieRate, "Probability a vote is a tie")
		outputFile = flag.String("output", "", "Output file for revealed battles (default: arena_battles_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for simulation output (default: sim_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulation.ShowHelp()
		return
	}

	// Setup logging
	if err := simulation.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultSimTimeout)
	defer cancel()

	// Create simulation configuration
	config := &simulation.Config{
		BaseURL:    *baseURL,
		NumBattles: *numBattles,
		TopN:       *topN,
		Workers:    *workers,
		Timeout:    *timeout,
		Category:   *category,
		TieRate:    *tieRate,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	// Run the simulation
	if err := simulation.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		return
	}
}
