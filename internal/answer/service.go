package answer

import (
	"context"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/prompt"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/retrieval"
	"github.com/rs/zerolog"
)

// Service retrieves context for a question and asks the model for an
// enveloped answer. It returns the raw model output; validating the envelope
// is the caller's job.
type Service struct {
	retriever    retrieval.Retriever
	builder      *prompt.Builder
	llmClient    llm.LLMClient
	sampling     llm.SamplingConfig
	passageCount int
	logger       *zerolog.Logger
}

func NewService(
	retriever retrieval.Retriever,
	builder *prompt.Builder,
	llmClient llm.LLMClient,
	sampling llm.SamplingConfig,
	passageCount int,
	logger *zerolog.Logger,
) *Service {
	return &Service{
		retriever:    retriever,
		builder:      builder,
		llmClient:    llmClient,
		sampling:     sampling,
		passageCount: passageCount,
		logger:       logger,
	}
}

func (s *Service) Generate(ctx context.Context, query string) (string, error) {
	now := time.Now()

	// Retrieve context
	passages, err := s.retriever.Retrieve(ctx, query, s.passageCount)
	if err != nil {
		return "", fmt.Errorf("retrieval failed: %w", err)
	}
	contextText := retrieval.JoinPassages(passages)

	// Build protected prompt
	spec, err := s.builder.Build(query, contextText)
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	// Call LLM
	resp, err := llm.Invoke(ctx, s.llmClient, spec.Request(s.sampling), s.sampling.Retry)
	if err != nil {
		return "", fmt.Errorf("generation call failed: %w", err)
	}
	if resp == nil {
		return "", fmt.Errorf("generation call returned no response")
	}

	s.logger.Info().
		Int("passages", len(passages)).
		Int("context_chars", len(contextText)).
		Int("output_chars", len(resp.Content)).
		Str("stop_reason", resp.StopReason).
		Dur("duration", time.Since(now)).
		Msg("generation complete")

	return resp.Content, nil
}
