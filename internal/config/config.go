package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lsscore/internal/logging"

	"gopkg.in/yaml.v3"
)

// Config holds all lsscore configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Store configures the sqlite-backed persistence layer.
	Store StoreConfig `yaml:"store"`

	// Providers configures data-context assembly bounds.
	Providers ProvidersConfig `yaml:"providers"`

	// Decision configures the action-recommendation engine.
	Decision DecisionConfig `yaml:"decision"`

	// Execution holds tool invocation settings; the tool registry does not read them.
	Execution ToolExecutionConfig `yaml:"execution"`

	// Limits holds system-wide resource bounds; they are validated but not applied.
	Limits ResourceLimits `yaml:"limits" json:"limits"`

	// Logging configures the category logger.
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig configures the sqlite persistence layer.
type StoreConfig struct {
	DatabasePath string `yaml:"database_path" json:"database_path,omitempty"`
}

// ProvidersConfig bounds the data-context assembly operations.
type ProvidersConfig struct {
	DefaultLimit int `yaml:"default_limit" json:"default_limit,omitempty"`
	MaxLimit     int `yaml:"max_limit" json:"max_limit,omitempty"`
}

// DecisionConfig selects and configures the action-recommendation engine.
type DecisionConfig struct {
	// Mode is "rule" (default, mangle-backed) or "llm" (pluggable LLM backend).
	Mode string `yaml:"mode" json:"mode,omitempty"`

	// RulesPath is loaded and saved with the config but not read by the
	// decision engine, which always evaluates its built-in rule schema.
	RulesPath string `yaml:"rules_path" json:"rules_path,omitempty"`

	// LLM configures the optional LLM-backed decision engine.
	LLM LLMConfig `yaml:"llm" json:"llm"`
}

// LLMConfig configures an optional generative backend for the decision engine.
type LLMConfig struct {
	Provider string `yaml:"provider" json:"provider,omitempty"` // "gemini" is the only backend wired today
	APIKey   string `yaml:"api_key" json:"-"`
	Model    string `yaml:"model" json:"model,omitempty"`
	Timeout  string `yaml:"timeout" json:"timeout,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "lsscore",
		Version: "0.1.0",

		Store: StoreConfig{
			DatabasePath: "data/lsscore.db",
		},

		Providers: ProvidersConfig{
			DefaultLimit: 50,
			MaxLimit:     200,
		},

		Decision: DecisionConfig{
			Mode:      "rule",
			RulesPath: "",
			LLM: LLMConfig{
				Provider: "gemini",
				Model:    "gemini-2.0-flash",
				Timeout:  "30s",
			},
		},

		Execution: ToolExecutionConfig{
			DefaultTimeout:  "10s",
			MaxSeriesPoints: 5000,
		},

		Limits: ResourceLimits{
			MaxConcurrentAnalyses:  8,
			MaxConcurrentProviders: 5,
			DefaultQueryLimit:      50,
			MaxQueryLimit:          200,
			MaxInstructionsPerRun:  500,
			MaxSessionDurationMin:  120,
			MaxDerivedFactsLimit:   100000,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			File:   "lsscore.log",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults if the
// file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	logging.BootDebug("Loading config from: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Boot("Config file not found, using defaults: %s", path)
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		logging.BootError("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		logging.BootError("Failed to parse config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	logging.Boot("Config loaded: store=%s decision_mode=%s", cfg.Store.DatabasePath, cfg.Decision.Mode)

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("LSSCORE_DB"); path != "" {
		c.Store.DatabasePath = path
	}
	if mode := os.Getenv("LSSCORE_DECISION_MODE"); mode != "" {
		c.Decision.Mode = mode
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Decision.LLM.APIKey = key
	}
}

// GetExecutionTimeout returns the default tool execution timeout as a duration.
func (c *Config) GetExecutionTimeout() time.Duration {
	d, err := time.ParseDuration(c.Execution.DefaultTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// GetDecisionLLMTimeout returns the LLM decision backend timeout as a duration.
func (c *Config) GetDecisionLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.Decision.LLM.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// EffectiveQueryLimit clamps a requested row limit to Providers.MaxLimit.
// A requested limit of zero or less falls back to Providers.DefaultLimit.
func (c *Config) EffectiveQueryLimit(requested int) int {
	if requested <= 0 {
		return c.Providers.DefaultLimit
	}
	if requested > c.Providers.MaxLimit {
		return c.Providers.MaxLimit
	}
	return requested
}

// ValidDecisionModes lists all supported decision engine modes.
var ValidDecisionModes = []string{"rule", "llm"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validMode := false
	for _, m := range ValidDecisionModes {
		if c.Decision.Mode == m {
			validMode = true
			break
		}
	}
	if !validMode {
		return fmt.Errorf("invalid decision mode: %s (valid: %v)", c.Decision.Mode, ValidDecisionModes)
	}
	if c.Decision.Mode == "llm" && c.Decision.LLM.APIKey == "" {
		return fmt.Errorf("decision mode 'llm' requires GEMINI_API_KEY to be set")
	}
	if c.Store.DatabasePath == "" {
		return fmt.Errorf("store.database_path must not be empty")
	}
	return c.ValidateResourceLimits()
}
