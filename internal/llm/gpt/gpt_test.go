package gpt

import (
	"testing"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/llm"
)

func TestNewClient_RequiresKeyAndModel(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini"); err == nil {
		t.Error("Expected error for missing API key")
	}
	if _, err := NewClient("sk-test", ""); err == nil {
		t.Error("Expected error for missing model")
	}
}

func TestBuildParams_SystemAndUserMessages(t *testing.T) {
	client, err := NewClient("sk-test", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	params := client.buildParams(llm.LLMRequest{
		System:    "instructions",
		Prompt:    "question",
		MaxTokens: 64,
	})
	if len(params.Messages) != 2 {
		t.Fatalf("Expected system and user messages, got %d", len(params.Messages))
	}
	if params.Messages[0].OfSystem == nil {
		t.Error("Expected first message to be the system message")
	}
	if params.Messages[1].OfUser == nil {
		t.Error("Expected second message to be the user message")
	}

	params = client.buildParams(llm.LLMRequest{Prompt: "question", MaxTokens: 64})
	if len(params.Messages) != 1 {
		t.Errorf("Expected only the user message without a system block, got %d", len(params.Messages))
	}
}
