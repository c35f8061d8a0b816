package config

import (
	"time"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/topic"
)

// GuardrailsConfig represents the complete guardrail pipeline configuration
type GuardrailsConfig struct {
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Moderation ModerationConfig `yaml:"moderation"`
	Topic      TopicConfig      `yaml:"topic"`
	Generation GenerationConfig `yaml:"generation"`
}

// PipelineConfig controls ordering, input limits and per-stage timeouts
type PipelineConfig struct {
	ParallelChecks    bool          `yaml:"parallel_checks"`
	MaxQueryChars     int           `yaml:"max_query_chars"`
	ModerationTimeout time.Duration `yaml:"moderation_timeout"`
	TopicTimeout      time.Duration `yaml:"topic_timeout"`
	GenerationTimeout time.Duration `yaml:"generation_timeout"`
}

// ModelConfig holds sampling parameters for one model call
type ModelConfig struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TopK        int     `yaml:"top_k"`
	Retry       bool    `yaml:"retry"`
}

func (m ModelConfig) Sampling() llm.SamplingConfig {
	return llm.SamplingConfig{
		MaxTokens:   m.MaxTokens,
		Temperature: m.Temperature,
		TopK:        m.TopK,
		Retry:       m.Retry,
	}
}

type ModerationConfig struct {
	Categories []string    `yaml:"categories"`
	Model      ModelConfig `yaml:"model"`
}

type TopicConfig struct {
	K                int          `yaml:"k"`
	SnapshotPath     string       `yaml:"snapshot_path"`
	BuildConcurrency int          `yaml:"build_concurrency"`
	Exemplars        []topic.Seed `yaml:"exemplars"`
}

// GenerationConfig describes the answering assistant
type GenerationConfig struct {
	Scope        string      `yaml:"scope"`
	PassageCount int         `yaml:"passage_count"`
	Model        ModelConfig `yaml:"model"`
}
