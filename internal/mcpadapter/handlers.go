package mcpadapter

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
)

// AskInput is the MCP tool input schema (matches HTTP API field names).
type AskInput struct {
	RequestID string `json:"request_id,omitempty" jsonschema:"optional request identifier, generated when empty"`
	Question  string `json:"question" jsonschema:"the end user's question"`
}

type DecisionRunner interface {
	Run(ctx context.Context, requestID string, query string) (models.Decision, error)
}

// NewAskHandler returns a tool handler that uses the given pipeline.
// Pass the returned function to mcp.AddTool.
func NewAskHandler(runner DecisionRunner) func(context.Context, *mcp.CallToolRequest, AskInput) (*mcp.CallToolResult, models.Decision, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, models.Decision, error) {
		return AskGuarded(ctx, runner, req, input)
	}
}

// AskGuarded runs the guardrail pipeline and returns its decision. Only
// configuration faults surface as tool errors.
func AskGuarded(
	ctx context.Context,
	runner DecisionRunner,
	req *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, models.Decision, error) {
	requestID := strings.TrimSpace(input.RequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	decision, err := runner.Run(ctx, requestID, input.Question)
	return nil, decision, err
}
