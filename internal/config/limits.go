package config

import "fmt"

// ResourceLimits holds system-wide resource bounds for analysis workloads.
// They are checked by ValidateResourceLimits and reported by
// EnforceResourceLimits; no other component reads them, and provider row
// limits come from ProvidersConfig.
type ResourceLimits struct {
	MaxConcurrentAnalyses  int `yaml:"max_concurrent_analyses" json:"max_concurrent_analyses"`     // parallel orchestrator runs
	MaxConcurrentProviders int `yaml:"max_concurrent_providers" json:"max_concurrent_providers"`   // parallel data-provider fetches per report
	DefaultQueryLimit      int `yaml:"default_query_limit" json:"default_query_limit"`             // rows returned when a request omits limit
	MaxQueryLimit          int `yaml:"max_query_limit" json:"max_query_limit"`                     // hard ceiling on rows per provider call
	MaxInstructionsPerRun  int `yaml:"max_instructions_per_run" json:"max_instructions_per_run"`   // orders generated per generate_daily_orders call
	MaxSessionDurationMin  int `yaml:"max_session_duration_min" json:"max_session_duration_min"`   // long-running batch job ceiling
	MaxDerivedFactsLimit   int `yaml:"max_derived_facts_limit" json:"max_derived_facts_limit"`     // mangle evaluation fact cap for the decision engine
}

// ValidateResourceLimits checks that resource limits are within acceptable ranges.
func (c *Config) ValidateResourceLimits() error {
	if c.Limits.MaxConcurrentAnalyses < 1 {
		return fmt.Errorf("max_concurrent_analyses must be >= 1")
	}
	if c.Limits.DefaultQueryLimit < 1 {
		return fmt.Errorf("default_query_limit must be >= 1")
	}
	if c.Limits.MaxQueryLimit < c.Limits.DefaultQueryLimit {
		return fmt.Errorf("max_query_limit must be >= default_query_limit")
	}
	if c.Limits.MaxDerivedFactsLimit < 1000 {
		return fmt.Errorf("max_derived_facts_limit must be >= 1000")
	}
	return nil
}

// EnforceResourceLimits returns the configured resource bounds by name.
// The providers, the orchestrator and the decision engine do not read them.
func (c *Config) EnforceResourceLimits() map[string]int {
	return map[string]int{
		"max_concurrent_analyses":  c.Limits.MaxConcurrentAnalyses,
		"max_concurrent_providers": c.Limits.MaxConcurrentProviders,
		"default_query_limit":      c.Limits.DefaultQueryLimit,
		"max_query_limit":          c.Limits.MaxQueryLimit,
		"max_instructions_per_run": c.Limits.MaxInstructionsPerRun,
		"max_derived_facts":        c.Limits.MaxDerivedFactsLimit,
	}
}
