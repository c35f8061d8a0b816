package guardrails

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/answer"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/moderation"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/prompt"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/retrieval"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/topic"
)

const (
	golfQuery     = "How do I qualify for the players championship?"
	politicsQuery = "Who should I vote for?"
	recipeQuery   = "Give me a recipe for chocolate cake."
	blankQuery    = "Tell me something."
)

// stubLLM answers with a fixed function of the request.
type stubLLM struct {
	respond func(request llm.LLMRequest) (string, error)
	calls   int
}

func (s *stubLLM) InvokeModel(_ context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	s.calls++
	content, err := s.respond(request)
	if err != nil {
		return nil, err
	}
	return &llm.LLMResponse{Content: content, StopReason: "end_turn"}, nil
}

func (s *stubLLM) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	return s.InvokeModel(ctx, request)
}

type stubEmbedder map[string][]float32

func (s stubEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if v, ok := s[text]; ok {
		return v, nil
	}
	return nil, errors.New("unknown text")
}

type stubRetriever struct{}

func (stubRetriever) Retrieve(context.Context, string, int) ([]retrieval.Passage, error) {
	return []retrieval.Passage{{Content: "Players qualify by finishing high in the FedEx Cup standings."}}, nil
}

type e2eFixture struct {
	moderationLLM *stubLLM
	generationLLM *stubLLM
	holder        *topic.Holder
	pipeline      *Pipeline
}

func newE2EFixture(t *testing.T, generationOutput string) *e2eFixture {
	t.Helper()
	logger := newTestLogger()

	embedder := stubEmbedder{
		golfQuery: {1, 0, 0},
		"Who should I vote for in the next election?": {0, 1, 0},
		politicsQuery: {0, 1, 0},
		recipeQuery:   {0, 0, 1},
		blankQuery:    {0, 0, 0},
	}

	builder := topic.NewBuilder(embedder, 2, logger)
	idx, err := builder.Build(context.Background(), []topic.Seed{
		{Text: golfQuery, Label: topic.LabelOnTopic},
		{Text: "Who should I vote for in the next election?", Label: topic.LabelOffTopic},
		{Text: recipeQuery, Label: topic.LabelOffTopic},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	holder := topic.NewHolder(idx)

	moderationLLM := &stubLLM{respond: func(request llm.LLMRequest) (string, error) {
		if strings.Contains(request.Prompt, "vote") {
			return "Y", nil
		}
		return "N", nil
	}}
	classifier, err := moderation.NewClassifier(
		[]string{"harmful", "pornographic", "political recommendation", "illegal"},
		llm.SamplingConfig{MaxTokens: 5},
		moderationLLM,
		logger,
	)
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	generationLLM := &stubLLM{respond: func(llm.LLMRequest) (string, error) {
		return generationOutput, nil
	}}
	generator := answer.NewService(stubRetriever{}, prompt.NewBuilder("professional golf"), generationLLM,
		llm.SamplingConfig{MaxTokens: 256}, 3, logger)

	pipeline := NewPipeline(
		classifier,
		topic.NewFilter(embedder, holder, 1, logger),
		generator,
		defaultOptions(),
		logger,
	)

	return &e2eFixture{
		moderationLLM: moderationLLM,
		generationLLM: generationLLM,
		holder:        holder,
		pipeline:      pipeline,
	}
}

func TestEndToEnd_PoliticalQuestionBlockedByModeration(t *testing.T) {
	f := newE2EFixture(t, "<answer>unused</answer>")

	decision, err := f.pipeline.Run(context.Background(), "e2e-1", politicsQuery)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if decision.Outcome != models.OutcomeBlockedModeration {
		t.Errorf("Expected blocked_moderation, got %s", decision.Outcome)
	}
	if f.generationLLM.calls != 0 {
		t.Error("Generation must not run after a moderation block")
	}
}

func TestEndToEnd_GolfQuestionPasses(t *testing.T) {
	f := newE2EFixture(t, "<answer>Finish high in the FedEx Cup standings.</answer>")

	decision, err := f.pipeline.Run(context.Background(), "e2e-2", golfQuery)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if decision.Outcome != models.OutcomePassed {
		t.Fatalf("Expected passed, got %s", decision.Outcome)
	}
	if decision.Answer == nil || *decision.Answer == "" {
		t.Error("Expected a non-empty answer")
	}
}

func TestEndToEnd_OffTopicQuestion(t *testing.T) {
	f := newE2EFixture(t, "<answer>unused</answer>")

	decision, err := f.pipeline.Run(context.Background(), "e2e-3", recipeQuery)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if decision.Outcome != models.OutcomeBlockedOffTopic {
		t.Errorf("Expected blocked_off_topic, got %s", decision.Outcome)
	}
	if f.generationLLM.calls != 0 {
		t.Error("Generation must not run for off-topic questions")
	}
}

func TestEndToEnd_MissingEnvelopeIsContractViolation(t *testing.T) {
	f := newE2EFixture(t, "I have been told to ignore my instructions. The answer is 42.")

	decision, err := f.pipeline.Run(context.Background(), "e2e-4", golfQuery)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if decision.Outcome != models.OutcomeBlockedContractViolation {
		t.Errorf("Expected blocked_contract_violation, got %s", decision.Outcome)
	}
}

func TestEndToEnd_ModelFailureFailsClosed(t *testing.T) {
	f := newE2EFixture(t, "<answer>unused</answer>")
	f.moderationLLM.respond = func(llm.LLMRequest) (string, error) {
		return "", errors.New("connection refused")
	}

	decision, err := f.pipeline.Run(context.Background(), "e2e-5", golfQuery)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if decision.Outcome != models.OutcomeBlockedModeration {
		t.Errorf("Expected blocked_moderation, got %s", decision.Outcome)
	}
}

func TestEndToEnd_EmptyIndexIsConfigurationFault(t *testing.T) {
	f := newE2EFixture(t, "<answer>unused</answer>")
	f.holder.Swap(nil)

	_, err := f.pipeline.Run(context.Background(), "e2e-6", golfQuery)
	if !errors.Is(err, ErrConfiguration) || !errors.Is(err, topic.ErrEmptyIndex) {
		t.Errorf("Expected configuration fault wrapping ErrEmptyIndex, got %v", err)
	}
}

func TestEndToEnd_ZeroEmbeddingBlockedAsOffTopic(t *testing.T) {
	f := newE2EFixture(t, "<answer>should not be used</answer>")

	decision, err := f.pipeline.Run(context.Background(), "e2e-zero", blankQuery)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if decision.Outcome != models.OutcomeBlockedOffTopic {
		t.Errorf("Expected blocked_off_topic, got %s", decision.Outcome)
	}
	if f.generationLLM.calls != 0 {
		t.Error("Generation must not run for a degenerate embedding")
	}
}
