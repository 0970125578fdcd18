package simulation

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/chemarena/arena/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "sim_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the battle simulator.
func ShowHelp() {
	os.Stdout.WriteString(`Chemistry Arena Battle Simulator
================================

A concurrent load and consistency tool for the arena's battle pipeline.
It creates battles, votes on them, collects the revealed verdicts, and
checks the leaderboard against what it observed.

Usage:
  go run cmd/arena-sim/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -battles int
        Number of battles to create and vote (default 1000)
  -top int
        Number of top entries to fetch from leaderboard (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -category string
        Restrict battles to one category (default: draw from all)
  -tie-rate float
        Probability a vote is a tie (default 0.1)
  -output string
        Output file for revealed battles (default: arena_battles_TIMESTAMP.json)
  -log string
        Log file for simulation output (default: sim_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/arena-sim/main.go

  # Simulate with custom parameters
  go run cmd/arena-sim/main.go -battles 5000 -workers 16 -url http://localhost:8080

  # Restrict to one category with more ties
  go run cmd/arena-sim/main.go -category admet -tie-rate 0.25

  # Simulate with custom log file
  go run cmd/arena-sim/main.go -battles 5000 -log my_sim.log
`)
}
