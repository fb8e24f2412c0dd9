package game

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds host configuration, read from the environment.
type Config struct {
	// Seed for the deck RNG. A seed of 0 means a time-based seed.
	Seed int64 `env:"CARDLINE_SEED"`

	Scenario     string `env:"CARDLINE_SCENARIO"      envDefault:"skirmish"`
	ScenarioFile string `env:"CARDLINE_SCENARIO_FILE"` // YAML or JSON; overrides Scenario
	CatalogFile  string `env:"CARDLINE_CATALOG_FILE"`  // merged over the embedded catalog

	LogLevel  string `env:"CARDLINE_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"CARDLINE_LOG_FORMAT" envDefault:"text"`

	Telemetry        bool   `env:"CARDLINE_TELEMETRY"`
	HoneycombAPIKey  string `env:"HONEYCOMB_CARDLINE_API_KEY"`
	HoneycombDataset string `env:"HONEYCOMB_CARDLINE_DATASET" envDefault:"cardline"`
}

// LoadConfig parses Config from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
