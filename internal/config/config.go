// Package config holds generator thresholds and runtime configuration.
package config

import (
	"fmt"
)

// Default threshold values.
const (
	DefaultTAction          = 0.5
	DefaultTOutOfScope      = 0.4
	DefaultTOverallMin      = 0.45
	DefaultTSectionMin      = 0.5
	DefaultTGeneric         = 0.55
	DefaultTAttach          = 0.3
	DefaultMinEvidenceChars = 20

	DefaultLLMTimeoutMS      = 3000
	DefaultLLMBlendWeight    = 0.3
	DefaultLLMRequestsPerMin = 50
	DefaultLLMModel          = "gpt-4o-mini"
	DefaultEmbeddingModel    = "nomic-embed-text"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "console"
	DefaultEvalConcurrency   = 4
)

// ThresholdConfig holds the named gating knobs. It is passed explicitly
// through every stage.
type ThresholdConfig struct {
	TAction          float64 `koanf:"t_action" json:"t_action" yaml:"t_action"`
	TOutOfScope      float64 `koanf:"t_out_of_scope" json:"t_out_of_scope" yaml:"t_out_of_scope"`
	TOverallMin      float64 `koanf:"t_overall_min" json:"t_overall_min" yaml:"t_overall_min"`
	TSectionMin      float64 `koanf:"t_section_min" json:"t_section_min" yaml:"t_section_min"`
	TGeneric         float64 `koanf:"t_generic" json:"t_generic" yaml:"t_generic"`
	TAttach          float64 `koanf:"t_attach" json:"t_attach" yaml:"t_attach"`
	MinEvidenceChars int     `koanf:"min_evidence_chars" json:"min_evidence_chars" yaml:"min_evidence_chars"`
}

// DefaultThresholds returns the default threshold set.
func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{
		TAction:          DefaultTAction,
		TOutOfScope:      DefaultTOutOfScope,
		TOverallMin:      DefaultTOverallMin,
		TSectionMin:      DefaultTSectionMin,
		TGeneric:         DefaultTGeneric,
		TAttach:          DefaultTAttach,
		MinEvidenceChars: DefaultMinEvidenceChars,
	}
}

// Validate checks every threshold lies in [0,1].
func (t ThresholdConfig) Validate() error {
	named := []struct {
		name string
		v    float64
	}{
		{"t_action", t.TAction},
		{"t_out_of_scope", t.TOutOfScope},
		{"t_overall_min", t.TOverallMin},
		{"t_section_min", t.TSectionMin},
		{"t_generic", t.TGeneric},
		{"t_attach", t.TAttach},
	}
	for _, n := range named {
		if n.v < 0 || n.v > 1 {
			return fmt.Errorf("threshold %s must be within [0,1], got %v", n.name, n.v)
		}
	}
	if t.MinEvidenceChars < 0 {
		return fmt.Errorf("min_evidence_chars must be non-negative, got %d", t.MinEvidenceChars)
	}
	return nil
}

// LLMConfig configures the optional intent classifier.
type LLMConfig struct {
	Provider          string  `koanf:"provider" json:"provider" yaml:"provider"`
	Model             string  `koanf:"model" json:"model" yaml:"model"`
	BaseURL           string  `koanf:"base_url" json:"base_url,omitempty" yaml:"base_url,omitempty"`
	APIKey            string  `koanf:"api_key" json:"-" yaml:"-"`
	TimeoutMS         int     `koanf:"timeout_ms" json:"timeout_ms" yaml:"timeout_ms"`
	BlendWeight       float64 `koanf:"blend_weight" json:"blend_weight" yaml:"blend_weight"`
	RequestsPerMinute float64 `koanf:"requests_per_minute" json:"requests_per_minute" yaml:"requests_per_minute"`
}

// EmbeddingConfig configures the optional embedding similarity provider.
type EmbeddingConfig struct {
	Provider string `koanf:"provider" json:"provider" yaml:"provider"`
	Model    string `koanf:"model" json:"model" yaml:"model"`
	BaseURL  string `koanf:"base_url" json:"base_url,omitempty" yaml:"base_url,omitempty"`
	APIKey   string `koanf:"api_key" json:"-" yaml:"-"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `koanf:"level" json:"level" yaml:"level"`
	Format string `koanf:"format" json:"format" yaml:"format"`
}

// GeneratorConfig is the full generator configuration.
type GeneratorConfig struct {
	Thresholds        ThresholdConfig `koanf:"thresholds" json:"thresholds" yaml:"thresholds"`
	MaxSuggestions    int             `koanf:"max_suggestions" json:"max_suggestions" yaml:"max_suggestions"`
	EnableDebug       bool            `koanf:"enable_debug" json:"enable_debug" yaml:"enable_debug"`
	UseLLMClassifiers bool            `koanf:"use_llm_classifiers" json:"use_llm_classifiers" yaml:"use_llm_classifiers"`
	EmbeddingEnabled  bool            `koanf:"embedding_enabled" json:"embedding_enabled" yaml:"embedding_enabled"`
	LLM               LLMConfig       `koanf:"llm" json:"llm" yaml:"llm"`
	Embedding         EmbeddingConfig `koanf:"embedding" json:"embedding" yaml:"embedding"`
	Log               LogConfig       `koanf:"log" json:"log" yaml:"log"`
	EvalConcurrency   int             `koanf:"eval_concurrency" json:"eval_concurrency" yaml:"eval_concurrency"`
}

// Default returns a configuration with every default applied.
func Default() GeneratorConfig {
	cfg := GeneratorConfig{Thresholds: DefaultThresholds()}
	applyDefaults(&cfg)
	return cfg
}

// Validate checks the configuration.
func (c GeneratorConfig) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if c.MaxSuggestions < 0 {
		return fmt.Errorf("max_suggestions must be non-negative, got %d", c.MaxSuggestions)
	}
	if c.LLM.BlendWeight < 0 || c.LLM.BlendWeight > 1 {
		return fmt.Errorf("llm.blend_weight must be within [0,1], got %v", c.LLM.BlendWeight)
	}
	if c.LLM.TimeoutMS < 0 {
		return fmt.Errorf("llm.timeout_ms must be non-negative, got %d", c.LLM.TimeoutMS)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

func applyDefaults(c *GeneratorConfig) {
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultLLMModel
	}
	if c.LLM.TimeoutMS == 0 {
		c.LLM.TimeoutMS = DefaultLLMTimeoutMS
	}
	if c.LLM.BlendWeight == 0 {
		c.LLM.BlendWeight = DefaultLLMBlendWeight
	}
	if c.LLM.RequestsPerMinute == 0 {
		c.LLM.RequestsPerMinute = DefaultLLMRequestsPerMin
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = DefaultEmbeddingModel
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.EvalConcurrency == 0 {
		c.EvalConcurrency = DefaultEvalConcurrency
	}
}
