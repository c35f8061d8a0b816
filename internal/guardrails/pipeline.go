package guardrails

//go:generate mockgen -source=pipeline.go -destination=mocks/mock_pipeline.go -package=mocks

import "context"

// Moderator reports whether a query violates content policy. Implementations
// must fail closed: any error or ambiguous verdict is a violation.
type Moderator interface {
	ViolatesPolicy(ctx context.Context, query string) bool
}

// TopicChecker classifies a query as on or off topic. Configuration faults
// are reported as errors recognised by topic.IsConfigurationFault.
type TopicChecker interface {
	IsOnTopic(ctx context.Context, query string) (bool, error)
}

// Generator retrieves context and returns the raw, unvalidated model output.
type Generator interface {
	Generate(ctx context.Context, query string) (string, error)
}
