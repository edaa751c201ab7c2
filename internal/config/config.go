// Package config loads riftcoach settings from defaults, an optional YAML
// file, and RIFTCOACH_-prefixed environment variables.
package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/riftcoach/riftcoach/internal/riot"
)

// Config is the process configuration shared by all commands.
type Config struct {
	// DBPath is the sqlite database file.
	DBPath string `koanf:"db_path"`

	// RiotAPIKey authenticates crawl requests (falls back to $RIOT_API_KEY).
	RiotAPIKey string `koanf:"riot_api_key"`

	// Regions are the platform regions to crawl, e.g. na1, euw1.
	Regions []string `koanf:"regions"`

	// Tiers are the ranked tiers to crawl.
	Tiers []string `koanf:"tiers"`

	// MatchesPerPlayer is how many recent ranked matches to cache per player.
	MatchesPerPlayer int `koanf:"matches_per_player"`

	// OutDir receives the CSV exports of training runs.
	OutDir string `koanf:"out_dir"`

	// Seed fixes clustering initialization for reproducible training runs.
	Seed int64 `koanf:"seed"`

	// AnthropicModel and AnthropicAPIKey configure advice generation.
	AnthropicModel  string `koanf:"anthropic_model"`
	AnthropicAPIKey string `koanf:"anthropic_api_key"`
}

// New returns the built-in defaults.
func New() *Config {
	return &Config{
		DBPath:           "riftcoach.db",
		Regions:          []string{"na1"},
		Tiers:            append([]string(nil), riot.Tiers...),
		MatchesPerPlayer: 20,
		OutDir:           ".",
		Seed:             42,
		AnthropicModel:   "claude-haiku-4-5-20251001",
	}
}

// Load layers configuration sources, lowest precedence first:
//  1. defaults (New)
//  2. YAML file, if path is non-empty
//  3. environment (prefix RIFTCOACH_, e.g. RIFTCOACH_DB_PATH)
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	envProvider := env.Provider("RIFTCOACH_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "riftcoach_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.RiotAPIKey == "" {
		cfg.RiotAPIKey = os.Getenv("RIOT_API_KEY")
	}
	if cfg.AnthropicAPIKey == "" {
		cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	if cfg.DBPath == "" {
		return nil, errors.New("db_path must not be empty")
	}
	if cfg.MatchesPerPlayer <= 0 {
		return nil, errors.New("matches_per_player must be positive")
	}
	for _, region := range cfg.Regions {
		if _, err := riot.RoutingRegion(region); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}
