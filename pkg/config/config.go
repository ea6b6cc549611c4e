package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Storage
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	SnapshotDir  string `mapstructure:"SNAPSHOT_DIR"`
	DatasetPath  string `mapstructure:"DATASET_PATH"`

	// Redis (empty disables caching)
	RedisURL string `mapstructure:"REDIS_URL"`

	// Roster rules
	Gameweek                  int     `mapstructure:"GAMEWEEK"`
	Budget                    float64 `mapstructure:"BUDGET"`
	MaxPerCountry             int     `mapstructure:"MAX_PER_COUNTRY"`
	CaptainMultiplier         float64 `mapstructure:"CAPTAIN_MULTIPLIER"`
	SupersubMultiplier        float64 `mapstructure:"SUPERSUB_MULTIPLIER"`
	SupersubStarterMultiplier float64 `mapstructure:"SUPERSUB_STARTER_MULTIPLIER"`
	// MissingHistoryDefault is the availability assumed for players with no
	// appearance history yet (first round of the tournament).
	MissingHistoryDefault string `mapstructure:"MISSING_HISTORY_DEFAULT"`

	// Solver
	SolverTimeout time.Duration `mapstructure:"SOLVER_TIMEOUT"`

	// Upstream fantasy API
	SixNationsBaseURL   string        `mapstructure:"SIXNATIONS_BASE_URL"`
	SixNationsToken     string        `mapstructure:"SIXNATIONS_TOKEN"`
	SixNationsAccessKey string        `mapstructure:"SIXNATIONS_ACCESS_KEY"`
	ProviderTimeout     time.Duration `mapstructure:"PROVIDER_TIMEOUT"`
	ProviderRateLimit   float64       `mapstructure:"PROVIDER_RATE_LIMIT"`
	CacheTTL            time.Duration `mapstructure:"CACHE_TTL"`
	FetchInterval       time.Duration `mapstructure:"FETCH_INTERVAL"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_PATH", "rugby_optimizer.db")
	viper.SetDefault("SNAPSHOT_DIR", "snapshots")
	viper.SetDefault("DATASET_PATH", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("GAMEWEEK", 1)
	viper.SetDefault("BUDGET", 200.0)
	viper.SetDefault("MAX_PER_COUNTRY", 4)
	viper.SetDefault("CAPTAIN_MULTIPLIER", 2.0)
	viper.SetDefault("SUPERSUB_MULTIPLIER", 3.0)
	viper.SetDefault("SUPERSUB_STARTER_MULTIPLIER", 2.0)
	viper.SetDefault("MISSING_HISTORY_DEFAULT", "did-not-play")
	viper.SetDefault("SOLVER_TIMEOUT", "30s")
	viper.SetDefault("SIXNATIONS_BASE_URL", "https://fantasy.sixnationsrugby.com")
	viper.SetDefault("SIXNATIONS_TOKEN", "")
	viper.SetDefault("SIXNATIONS_ACCESS_KEY", "")
	viper.SetDefault("PROVIDER_TIMEOUT", "30s")
	viper.SetDefault("PROVIDER_RATE_LIMIT", 5.0)
	viper.SetDefault("CACHE_TTL", "15m")
	viper.SetDefault("FETCH_INTERVAL", "2h")

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
