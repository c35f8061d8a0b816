package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/topic"
	"gopkg.in/yaml.v3"
)

const DefaultGuardrailsConfigPath = "configs/guardrails.yaml"

var defaultCategories = []string{
	"harmful",
	"pornographic",
	"political recommendation",
	"illegal",
}

func LoadGuardrailsConfig() (*GuardrailsConfig, error) {
	path := os.Getenv("GUARDRAILS_CONFIG_PATH")
	if path == "" {
		path = DefaultGuardrailsConfigPath
	}

	return LoadGuardrailsConfigFromFile(path)
}

func LoadGuardrailsConfigFromFile(path string) (*GuardrailsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg GuardrailsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid guardrails config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *GuardrailsConfig) {
	if cfg.Pipeline.MaxQueryChars == 0 {
		cfg.Pipeline.MaxQueryChars = 2000
	}
	if cfg.Pipeline.ModerationTimeout == 0 {
		cfg.Pipeline.ModerationTimeout = 10 * time.Second
	}
	if cfg.Pipeline.TopicTimeout == 0 {
		cfg.Pipeline.TopicTimeout = 5 * time.Second
	}
	if cfg.Pipeline.GenerationTimeout == 0 {
		cfg.Pipeline.GenerationTimeout = 30 * time.Second
	}

	if len(cfg.Moderation.Categories) == 0 {
		cfg.Moderation.Categories = append([]string(nil), defaultCategories...)
	}
	// The verdict is a single token.
	if cfg.Moderation.Model.MaxTokens == 0 {
		cfg.Moderation.Model.MaxTokens = 5
	}

	if cfg.Topic.K == 0 {
		cfg.Topic.K = 1
	}
	if cfg.Topic.BuildConcurrency == 0 {
		cfg.Topic.BuildConcurrency = 4
	}

	if cfg.Generation.PassageCount == 0 {
		cfg.Generation.PassageCount = 5
	}
	if cfg.Generation.Model.MaxTokens == 0 {
		cfg.Generation.Model.MaxTokens = 1024
	}
}

func (c *GuardrailsConfig) Validate() error {
	var errs []error

	if c.Pipeline.MaxQueryChars < 0 {
		errs = append(errs, errors.New("pipeline.max_query_chars must not be negative"))
	}
	if c.Pipeline.ModerationTimeout <= 0 {
		errs = append(errs, errors.New("pipeline.moderation_timeout must be positive"))
	}
	if c.Pipeline.TopicTimeout <= 0 {
		errs = append(errs, errors.New("pipeline.topic_timeout must be positive"))
	}
	if c.Pipeline.GenerationTimeout <= 0 {
		errs = append(errs, errors.New("pipeline.generation_timeout must be positive"))
	}

	if err := c.Moderation.Model.validate("moderation.model"); err != nil {
		errs = append(errs, err)
	}
	if err := c.Generation.Model.validate("generation.model"); err != nil {
		errs = append(errs, err)
	}
	if c.Generation.PassageCount < 0 {
		errs = append(errs, errors.New("generation.passage_count must not be negative"))
	}

	if c.Topic.K < 1 {
		errs = append(errs, fmt.Errorf("topic.k must be at least 1, got %d", c.Topic.K))
	}
	if len(c.Topic.Exemplars) == 0 {
		errs = append(errs, errors.New("topic.exemplars must not be empty"))
	}

	var onTopic int
	for i, ex := range c.Topic.Exemplars {
		if ex.Text == "" {
			errs = append(errs, fmt.Errorf("topic.exemplars[%d] has empty text", i))
		}
		label, err := topic.ParseLabel(string(ex.Label))
		if err != nil {
			errs = append(errs, fmt.Errorf("topic.exemplars[%d]: %w", i, err))
			continue
		}
		c.Topic.Exemplars[i].Label = label
		if label == topic.LabelOnTopic {
			onTopic++
		}
	}
	if len(c.Topic.Exemplars) > 0 && onTopic == 0 {
		errs = append(errs, errors.New("topic.exemplars must contain at least one on_topic exemplar"))
	}

	return errors.Join(errs...)
}

func (m ModelConfig) validate(field string) error {
	if m.MaxTokens < 0 {
		return fmt.Errorf("%s.max_tokens must not be negative", field)
	}
	if m.Temperature < 0 || m.Temperature > 1 {
		return fmt.Errorf("%s.temperature must be between 0 and 1, got %f", field, m.Temperature)
	}
	if m.TopK < 0 {
		return fmt.Errorf("%s.top_k must not be negative", field)
	}
	return nil
}
