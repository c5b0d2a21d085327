package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	CatalogPath  string
	PlansDir     string
	LogLevel     string

	// Solver and planner tuning
	SolverTimeout     time.Duration
	MaxCandidates     int
	IngredientCapGram float64
	MinLineGrams      float64
	ParallelDays      bool
	PlanSeed          uint64

	// MetricsTextfile, when set, receives a Prometheus textfile after each plan.
	MetricsTextfile string
}

const (
	keyDatabasePath    = "DATABASE_PATH"
	keyCatalogPath     = "CATALOG_PATH"
	keyPlansDir        = "PLANS_DIR"
	keyLogLevel        = "LOG_LEVEL"
	keySolverTimeout   = "SOLVER_TIMEOUT"
	keyMaxCandidates   = "MAX_CANDIDATES"
	keyIngredientCap   = "INGREDIENT_CAP_GRAMS"
	keyMinLineGrams    = "MIN_LINE_GRAMS"
	keyParallelDays    = "PARALLEL_DAYS"
	keyPlanSeed        = "PLAN_SEED"
	keyMetricsTextfile = "METRICS_TEXTFILE"
)

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault(keyDatabasePath, "data/meal-planner.db")
	v.SetDefault(keyCatalogPath, "")
	v.SetDefault(keyPlansDir, "data/plans")
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keySolverTimeout, 30*time.Second)
	v.SetDefault(keyMaxCandidates, 12)
	v.SetDefault(keyIngredientCap, 200.0)
	v.SetDefault(keyMinLineGrams, 5.0)
	v.SetDefault(keyParallelDays, false)
	v.SetDefault(keyPlanSeed, uint64(0))
	v.SetDefault(keyMetricsTextfile, "")

	cfg := &Config{
		DatabasePath:      v.GetString(keyDatabasePath),
		CatalogPath:       v.GetString(keyCatalogPath),
		PlansDir:          v.GetString(keyPlansDir),
		LogLevel:          v.GetString(keyLogLevel),
		SolverTimeout:     v.GetDuration(keySolverTimeout),
		MaxCandidates:     v.GetInt(keyMaxCandidates),
		IngredientCapGram: v.GetFloat64(keyIngredientCap),
		MinLineGrams:      v.GetFloat64(keyMinLineGrams),
		ParallelDays:      v.GetBool(keyParallelDays),
		PlanSeed:          v.GetUint64(keyPlanSeed),
		MetricsTextfile:   v.GetString(keyMetricsTextfile),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the planner cannot run with.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("%s must not be empty", keyDatabasePath)
	}
	if c.PlansDir == "" {
		return fmt.Errorf("%s must not be empty", keyPlansDir)
	}
	if c.SolverTimeout <= 0 {
		return fmt.Errorf("%s must be a positive duration, got %s", keySolverTimeout, c.SolverTimeout)
	}
	if c.MaxCandidates < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", keyMaxCandidates, c.MaxCandidates)
	}
	if c.IngredientCapGram <= 0 {
		return fmt.Errorf("%s must be positive, got %v", keyIngredientCap, c.IngredientCapGram)
	}
	if c.MinLineGrams < 0 {
		return fmt.Errorf("%s must not be negative, got %v", keyMinLineGrams, c.MinLineGrams)
	}
	return nil
}
