// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and env values on top.
// - Validation runs once at load time via struct tags.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
	"strings"
	"time"

	"github.com/chemarena/arena/internal/domain/model"
)

// SolverConfig tunes the pairwise rating solver.
type SolverConfig struct {
	// MaxIterations caps the fixed-point iteration count.
	MaxIterations int `koanf:"max_iterations"`

	// Tolerance is the max strength delta treated as converged.
	Tolerance float64 `koanf:"tolerance"`

	// BaseRating anchors the displayed rating scale.
	BaseRating float64 `koanf:"base_rating"`

	// RatingScale sets rating points per factor-of-ten strength ratio.
	RatingScale float64 `koanf:"rating_scale"`

	// ConfidenceSaturation is the match count at which confidence reaches 1.
	ConfidenceSaturation int `koanf:"confidence_saturation"`
}

// StorageConfig selects and parameterizes the battle/rating store.
type StorageConfig struct {
	// Backend is the store implementation: memory or dynamodb.
	Backend string `koanf:"backend" validate:"oneof=memory dynamodb"`

	DynamoDB DynamoDBConfig `koanf:"dynamodb"`
}

// DynamoDBConfig holds DynamoDB connection settings.
type DynamoDBConfig struct {
	Region string `koanf:"region"`

	// Endpoint overrides the AWS endpoint, e.g. a local DynamoDB.
	Endpoint string `koanf:"endpoint"`

	Tables DynamoDBTables `koanf:"tables"`
}

// DynamoDBTables names the three arena tables.
type DynamoDBTables struct {
	Models  string `koanf:"models"`
	Battles string `koanf:"battles"`
	Ratings string `koanf:"ratings"`
}

// LLMConfig tunes the response generation client.
type LLMConfig struct {
	// RequestsPerSecond throttles generation calls per model client.
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// Burst is the rate limiter burst size.
	Burst int `koanf:"burst"`

	// LatencyMinMS and LatencyMaxMS bound the simulated generation latency.
	LatencyMinMS int `koanf:"latency_min_ms"`
	LatencyMaxMS int `koanf:"latency_max_ms"`
}

// CategoryConfig describes one battle category.
type CategoryConfig struct {
	ID          string `koanf:"id" validate:"required"`
	Name        string `koanf:"name" validate:"required"`
	Icon        string `koanf:"icon"`
	Description string `koanf:"description"`
}

// ModelConfig seeds one competitor into the catalog.
type ModelConfig struct {
	ID          string `koanf:"id" validate:"required"`
	Name        string `koanf:"name" validate:"required"`
	Provider    string `koanf:"provider"`
	Description string `koanf:"description"`
	IsNew       bool   `koanf:"is_new"`
	Active      bool   `koanf:"active"`
}

// PromptConfig seeds one battle prompt.
type PromptConfig struct {
	ID         string `koanf:"id" validate:"required"`
	Category   string `koanf:"category" validate:"required"`
	Difficulty string `koanf:"difficulty"`
	Text       string `koanf:"text" validate:"required"`
}

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format" validate:"omitempty,oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// CORSOrigins is a comma-separated list of allowed origins, * for any.
	CORSOrigins string `koanf:"cors_origins"`

	// QueueCapacity bounds the in-memory vote queue.
	QueueCapacity int `koanf:"queue_capacity"`

	// WorkerCount sets the number of vote workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the vote deduplication guard.
	DedupeSize int `koanf:"dedupe_size"`

	// RecalcInterval is the periodic full recalculation cadence; 0 disables it.
	RecalcInterval time.Duration `koanf:"recalc_interval"`

	// DefaultLeaderboardLimit applies when GET /leaderboard omits ?limit.
	DefaultLeaderboardLimit int `koanf:"default_leaderboard_limit"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	Solver  SolverConfig  `koanf:"solver"`
	Storage StorageConfig `koanf:"storage"`
	LLM     LLMConfig     `koanf:"llm"`

	// Categories, Models, and Prompts seed the arena catalog. The category
	// set is injected here rather than hard-coded in the service.
	Categories []CategoryConfig `koanf:"categories" validate:"dive"`
	Models     []ModelConfig    `koanf:"models" validate:"dive"`
	Prompts    []PromptConfig   `koanf:"prompts" validate:"dive"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		Addr:                    ":9080",
		CORSOrigins:             "*",
		QueueCapacity:           10_000,
		WorkerCount:             runtime.NumCPU() * 4,
		DedupeSize:              50_000,
		RecalcInterval:          time.Minute,
		DefaultLeaderboardLimit: 50,
		MaxLeaderboardLimit:     100,
		Solver: SolverConfig{
			MaxIterations:        200,
			Tolerance:            1e-4,
			BaseRating:           1500,
			RatingScale:          400,
			ConfidenceSaturation: 100,
		},
		Storage: StorageConfig{
			Backend: "memory",
			DynamoDB: DynamoDBConfig{
				Region: "us-east-1",
				Tables: DynamoDBTables{
					Models:  "arena-models",
					Battles: "arena-battles",
					Ratings: "arena-ratings",
				},
			},
		},
		LLM: LLMConfig{
			RequestsPerSecond: 10,
			Burst:             2,
			LatencyMinMS:      80,
			LatencyMaxMS:      150,
		},
		Categories: defaultCategories(),
		Models:     defaultModels(),
		Prompts:    defaultPrompts(),
	}
	return c
}

// CORSOriginList splits CORSOrigins into trimmed entries.
func (c *Config) CORSOriginList() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// CatalogModels converts the configured model seeds into domain models.
func (c *Config) CatalogModels() []model.Model {
	models := make([]model.Model, 0, len(c.Models))
	for _, m := range c.Models {
		models = append(models, model.Model{
			ID:          m.ID,
			Name:        m.Name,
			Provider:    m.Provider,
			Description: m.Description,
			IsNew:       m.IsNew,
			Active:      m.Active,
		})
	}
	return models
}

// CatalogCategories converts the configured categories into domain categories.
func (c *Config) CatalogCategories() []model.Category {
	categories := make([]model.Category, 0, len(c.Categories))
	for _, cat := range c.Categories {
		categories = append(categories, model.Category{
			ID:          cat.ID,
			Name:        cat.Name,
			Icon:        cat.Icon,
			Description: cat.Description,
		})
	}
	return categories
}

// CatalogPrompts converts the configured prompt seeds into domain prompts.
func (c *Config) CatalogPrompts() []model.Prompt {
	prompts := make([]model.Prompt, 0, len(c.Prompts))
	for _, p := range c.Prompts {
		prompts = append(prompts, model.Prompt{
			ID:         p.ID,
			Category:   p.Category,
			Difficulty: p.Difficulty,
			Text:       p.Text,
		})
	}
	return prompts
}

func defaultCategories() []CategoryConfig {
	return []CategoryConfig{
		{
			ID:          "admet",
			Name:        "ADMET Prediction",
			Icon:        "🧬",
			Description: "Predict toxicity, lipophilicity, pKa, and solubility properties",
		},
		{
			ID:          "optimization",
			Name:        "Molecule Optimization",
			Icon:        "⚗️",
			Description: "Design compounds with improved solubility, stability, and reduced toxicity",
		},
		{
			ID:          "notation",
			Name:        "Notation Conversion",
			Icon:        "🔄",
			Description: "Convert between SMILES, IUPAC names, and other chemical notations",
		},
	}
}

func defaultModels() []ModelConfig {
	return []ModelConfig{
		{
			ID:          "gpt-4o",
			Name:        "GPT-4o",
			Provider:    "OpenAI",
			Description: "OpenAI's flagship multimodal model",
			Active:      true,
		},
		{
			ID:          "claude-3-5-sonnet",
			Name:        "Claude 3.5 Sonnet",
			Provider:    "Anthropic",
			Description: "Anthropic's balanced reasoning model",
			Active:      true,
		},
		{
			ID:          "gemini-1-5-pro",
			Name:        "Gemini 1.5 Pro",
			Provider:    "Google",
			Description: "Google's long-context model",
			Active:      true,
		},
		{
			ID:          "deepseek-v3",
			Name:        "DeepSeek V3",
			Provider:    "DeepSeek",
			Description: "DeepSeek's open-weight chat model",
			IsNew:       true,
			Active:      true,
		},
	}
}

func defaultPrompts() []PromptConfig {
	return []PromptConfig{
		{
			ID:         "admet-solubility-aspirin",
			Category:   "admet",
			Difficulty: "medium",
			Text:       "Predict the aqueous solubility class of aspirin and name the structural features that drive it.",
		},
		{
			ID:         "admet-pka-ibuprofen",
			Category:   "admet",
			Difficulty: "easy",
			Text:       "Estimate the pKa of the carboxylic acid proton in ibuprofen and explain your reasoning.",
		},
		{
			ID:         "admet-tox-nitrobenzene",
			Category:   "admet",
			Difficulty: "hard",
			Text:       "Assess the likely hepatotoxicity of nitrobenzene and identify the structural alert involved.",
		},
		{
			ID:         "opt-caffeine-solubility",
			Category:   "optimization",
			Difficulty: "medium",
			Text:       "Propose a modification to caffeine that increases water solubility while preserving adenosine receptor binding.",
		},
		{
			ID:         "opt-acetaminophen-tox",
			Category:   "optimization",
			Difficulty: "hard",
			Text:       "Suggest two structural changes that would reduce the hepatotoxicity of acetaminophen.",
		},
		{
			ID:         "notation-aspirin-iupac",
			Category:   "notation",
			Difficulty: "easy",
			Text:       "Convert the SMILES string CC(=O)OC1=CC=CC=C1C(=O)O to its IUPAC name.",
		},
		{
			ID:         "notation-valine-smiles",
			Category:   "notation",
			Difficulty: "medium",
			Text:       "Write the SMILES for 2-amino-3-methylbutanoic acid and mark the stereocenter.",
		},
	}
}
