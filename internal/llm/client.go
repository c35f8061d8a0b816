package llm

import (
	"context"
)

// LLMClient is an interface for invoking LLM models
// This allows mocking in tests without making real API calls
type LLMClient interface {
	InvokeModel(ctx context.Context, request LLMRequest) (*LLMResponse, error)
	InvokeModelWithRetry(ctx context.Context, request LLMRequest) (*LLMResponse, error)
}

// Invoke routes to InvokeModelWithRetry when retry is set.
func Invoke(ctx context.Context, client LLMClient, request LLMRequest, retry bool) (*LLMResponse, error) {
	if retry {
		return client.InvokeModelWithRetry(ctx, request)
	}
	return client.InvokeModel(ctx, request)
}
