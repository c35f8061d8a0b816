package guardrails

import (
	"time"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
)

type Options struct {
	ParallelChecks    bool
	MaxQueryChars     int
	ModerationTimeout time.Duration
	TopicTimeout      time.Duration
	GenerationTimeout time.Duration
}

// Recorder receives decision and latency observations.
type Recorder interface {
	ObserveDecision(outcome models.Outcome)
	ObserveStage(stage string, duration time.Duration)
	ObserveConfigurationFault()
}

type nopRecorder struct{}

func (nopRecorder) ObserveDecision(models.Outcome)     {}
func (nopRecorder) ObserveStage(string, time.Duration) {}
func (nopRecorder) ObserveConfigurationFault()         {}
