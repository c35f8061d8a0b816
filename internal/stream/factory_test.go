package stream

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewStreamConsumer_Errors(t *testing.T) {
	logger := zerolog.Nop()

	if _, err := NewStreamConsumer(context.Background(), &StreamConfig{Provider: "redis"}, nil, &logger); err == nil {
		t.Error("Expected error when redis config is missing")
	}
	if _, err := NewStreamConsumer(context.Background(), &StreamConfig{Provider: "kafka"}, nil, &logger); err == nil {
		t.Error("Expected error for unsupported provider")
	}
}
