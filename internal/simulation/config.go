package simulation

import "time"

// Config holds configuration for the battle simulation
type Config struct {
	BaseURL    string        // Base URL of the service
	NumBattles int           // Number of battles to create and vote
	TopN       int           // Number of top entries to fetch
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	Category   string        // Fixed battle category; empty draws from all
	TieRate    float64       // Probability a vote is a tie
	OutputFile string        // Output file for revealed battles
	LogFile    string        // Log file for simulation output
	Verbose    bool          // Enable verbose logging
}

// Battle mirrors the battle wire shape
type Battle struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	PromptID  string `json:"prompt_id"`
	Prompt    string `json:"prompt"`
	ResponseA string `json:"response_a"`
	ResponseB string `json:"response_b"`
	Voted     bool   `json:"voted"`
	ModelA    string `json:"model_a,omitempty"`
	ModelB    string `json:"model_b,omitempty"`
	Winner    string `json:"winner,omitempty"`
}

// Entry mirrors a leaderboard entry
type Entry struct {
	Rank         int     `json:"rank"`
	ModelID      string  `json:"model_id"`
	ModelName    string  `json:"model_name"`
	Provider     string  `json:"provider"`
	Rating       int     `json:"rating"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Ties         int     `json:"ties"`
	WinRate      float64 `json:"win_rate"`
	TotalMatches int     `json:"total_matches"`
}

// Board mirrors a leaderboard response
type Board struct {
	Category     string  `json:"category,omitempty"`
	Entries      []Entry `json:"entries"`
	TotalBattles int     `json:"total_battles"`
}

// VoteRequest is the vote submission body
type VoteRequest struct {
	Winner string `json:"winner"`
}

// AckResponse represents the response from vote submission
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds simulation statistics
type Stats struct {
	BattlesCreated     int
	BattlesFailed      int
	VotesSubmitted     int
	VotesAccepted      int
	VotesDuplicate     int
	VotesFailed        int
	RevealsRetrieved   int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
