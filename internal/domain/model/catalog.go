package model

import "time"

// Model is a competitor in the arena catalog.
type Model struct {
	ID          string
	Name        string
	Provider    string
	Description string
	IsNew       bool
	Active      bool // inactive models are excluded from new battles and ratings
}

// Category describes a battle category. The category set is supplied by
// configuration, not hard-coded.
type Category struct {
	ID          string
	Name        string
	Icon        string
	Description string
}

// Prompt is a task shown to both models in a battle.
type Prompt struct {
	ID         string
	Category   string
	Difficulty string
	Text       string
}

// RatingRow is one model's persisted rating within a scope.
type RatingRow struct {
	ModelID      string
	Rating       int
	Strength     float64
	Wins         int
	Losses       int
	Ties         int
	WinRate      float64
	Confidence   float64
	TotalMatches int
	UpdatedAt    time.Time
}
