package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/prompt"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/retrieval"
	"github.com/rs/zerolog"
)

type MockLLMClient struct {
	ResponseToReturn *llm.LLMResponse
	ErrorToReturn    error
	WasCalled        bool
	LastRequest      *llm.LLMRequest
}

func (m *MockLLMClient) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	m.WasCalled = true
	m.LastRequest = &request
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}
	return m.ResponseToReturn, nil
}

func (m *MockLLMClient) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	return m.InvokeModel(ctx, request)
}

type fakeRetriever struct {
	passages  []retrieval.Passage
	err       error
	lastLimit int
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ string, limit int) ([]retrieval.Passage, error) {
	f.lastLimit = limit
	return f.passages, f.err
}

func newTestService(retriever retrieval.Retriever, client llm.LLMClient) *Service {
	logger := zerolog.Nop()
	return NewService(
		retriever,
		prompt.NewBuilder("professional golf"),
		client,
		llm.SamplingConfig{MaxTokens: 512, Temperature: 0.2, TopK: 250},
		3,
		&logger,
	)
}

func TestGenerate_Success(t *testing.T) {
	retriever := &fakeRetriever{passages: []retrieval.Passage{
		{Content: "Players qualify through FedEx Cup points."},
		{Content: "The event is held at TPC Sawgrass."},
	}}
	client := &MockLLMClient{ResponseToReturn: &llm.LLMResponse{Content: "<answer>Through FedEx Cup points.</answer>"}}

	raw, err := newTestService(retriever, client).Generate(context.Background(), "How do I qualify?")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if raw != "<answer>Through FedEx Cup points.</answer>" {
		t.Errorf("Expected raw output to be returned unchanged, got %q", raw)
	}
	if retriever.lastLimit != 3 {
		t.Errorf("Expected passage count 3, got %d", retriever.lastLimit)
	}

	req := client.LastRequest
	first := strings.Index(req.Prompt, "FedEx Cup points.")
	second := strings.Index(req.Prompt, "TPC Sawgrass")
	if first < 0 || second < first {
		t.Error("Expected passages in retrieval order inside the user block")
	}
	if strings.Contains(req.System, "How do I qualify?") {
		t.Error("Question must not appear in the system block")
	}
	if req.TopK != 250 || req.MaxTokens != 512 {
		t.Errorf("Unexpected sampling: %+v", req)
	}
}

func TestGenerate_NoPassagesStillCallsModel(t *testing.T) {
	client := &MockLLMClient{ResponseToReturn: &llm.LLMResponse{Content: "<answer>I don't know.</answer>"}}

	_, err := newTestService(retrieval.EmptyRetriever{}, client).Generate(context.Background(), "q")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !strings.Contains(client.LastRequest.Prompt, "<context>\n\n</context>") {
		t.Error("Expected empty context region")
	}
}

func TestGenerate_Errors(t *testing.T) {
	client := &MockLLMClient{ResponseToReturn: &llm.LLMResponse{Content: "x"}}
	_, err := newTestService(&fakeRetriever{err: errors.New("db down")}, client).Generate(context.Background(), "q")
	if err == nil {
		t.Error("Expected retrieval error")
	}
	if client.WasCalled {
		t.Error("Model must not be called when retrieval fails")
	}

	failing := &MockLLMClient{ErrorToReturn: errors.New("throttled")}
	if _, err := newTestService(retrieval.EmptyRetriever{}, failing).Generate(context.Background(), "q"); err == nil {
		t.Error("Expected generation error")
	}
}
