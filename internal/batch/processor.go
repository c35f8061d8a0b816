package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

type DecisionRunner interface {
	Run(ctx context.Context, requestID string, query string) (models.Decision, error)
}

type Result struct {
	LineNumber int              `json:"line"`
	RequestID  string           `json:"request_id"`
	Decision   *models.Decision `json:"decision,omitempty"`
	Expected   models.Outcome   `json:"expected_outcome,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// Processor runs records through the pipeline with a fixed number of workers.
type Processor struct {
	runner  DecisionRunner
	workers int
	logger  *zerolog.Logger
}

func NewProcessor(runner DecisionRunner, workers int, logger *zerolog.Logger) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		runner:  runner,
		workers: workers,
		logger:  logger,
	}
}

// Process returns results in completion order. The channel closes once every
// record has been handled or ctx is cancelled.
func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan Result {
	jobs := make(chan InputRecord)
	results := make(chan Result)

	var wg sync.WaitGroup
	for range p.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range jobs {
				select {
				case <-ctx.Done():
					return
				case results <- p.processOne(ctx, record):
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, record := range records {
			select {
			case <-ctx.Done():
				return
			case jobs <- record:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

func (p *Processor) processOne(ctx context.Context, record InputRecord) Result {
	requestID := record.Request.RequestID
	if requestID == "" {
		requestID = fmt.Sprintf("line-%d", record.LineNumber)
	}

	result := Result{
		LineNumber: record.LineNumber,
		RequestID:  requestID,
		Expected:   record.Request.ExpectedOutcome,
	}

	if record.Error != nil {
		result.Error = record.Error.Error()
		return result
	}

	decision, err := p.runner.Run(ctx, requestID, record.Request.Question)
	if err != nil {
		p.logger.Error().Err(err).Str("request_id", requestID).Msg("Record failed")
		result.Error = err.Error()
		return result
	}

	result.Decision = &decision
	return result
}
