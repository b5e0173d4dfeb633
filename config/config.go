// Package config loads agent configuration from a .env file, environment
// variables, and an optional YAML file. Precedence is YAML file, then
// environment, then defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything needed to assemble a session.
type Config struct {
	// Provider selects the reasoning engine: "gemini", "openai" or "anthropic".
	Provider string `yaml:"provider"`
	// Model overrides the provider's default model id.
	Model string `yaml:"model"`
	// APIKey authenticates against the provider. Usually left empty here and
	// resolved from the provider-specific environment variable.
	APIKey string `yaml:"api_key"`

	// ServerSpec locates the tool server: "stdio://<command>", "sse://<url>"
	// or a plain command line.
	ServerSpec string `yaml:"server"`
	// DataAPIAddr is the listen address of the vehicle data API.
	DataAPIAddr string `yaml:"data_api_addr"`

	// MaxSteps bounds engine round-trips per query.
	MaxSteps int `yaml:"max_steps"`
	// ToolTimeout bounds each tool invocation.
	ToolTimeout time.Duration `yaml:"tool_timeout"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Load reads configuration. A .env file is applied first if present, then
// environment variables, then the YAML file at path (skipped when path is
// empty or missing).
func Load(path string) (*Config, error) {
	// Best effort; deployments set real environment variables instead.
	_ = godotenv.Load()

	cfg := &Config{
		Provider:    "gemini",
		ServerSpec:  envOr("FLEETAGENT_SERVER", "stdio://fleetmcp"),
		DataAPIAddr: envOr("FLEETAGENT_DATA_API_ADDR", "127.0.0.1:8001"),
		MaxSteps:    8,
		ToolTimeout: 5 * time.Second,
		LogLevel:    envOr("FLEETAGENT_LOG_LEVEL", "info"),
	}

	if v := os.Getenv("FLEETAGENT_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("FLEETAGENT_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("FLEETAGENT_MAX_STEPS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse FLEETAGENT_MAX_STEPS: %w", err)
		}
		cfg.MaxSteps = n
	}
	if v := os.Getenv("FLEETAGENT_TOOL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse FLEETAGENT_TOOL_TIMEOUT: %w", err)
		}
		cfg.ToolTimeout = d
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if cfg.APIKey == "" {
		cfg.APIKey = apiKeyFor(cfg.Provider)
	}

	return cfg, nil
}

// apiKeyFor resolves the conventional environment variable for a provider.
func apiKeyFor(provider string) string {
	switch provider {
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	case "anthropic":
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
