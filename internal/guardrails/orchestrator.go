package guardrails

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/contract"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/topic"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrConfiguration marks a fault that no request can recover from, such as an
// empty topic index. It is the only error Run returns.
var ErrConfiguration = errors.New("guardrail configuration fault")

// Pipeline runs moderation, topic filtering, generation and contract
// validation in that order and stops at the first block.
type Pipeline struct {
	moderator Moderator
	topics    TopicChecker
	generator Generator
	opts      Options
	recorder  Recorder
	logger    *zerolog.Logger
}

func NewPipeline(
	moderator Moderator,
	topics TopicChecker,
	generator Generator,
	opts Options,
	logger *zerolog.Logger,
) *Pipeline {
	return &Pipeline{
		moderator: moderator,
		topics:    topics,
		generator: generator,
		opts:      opts,
		recorder:  nopRecorder{},
		logger:    logger,
	}
}

func (p *Pipeline) WithRecorder(recorder Recorder) *Pipeline {
	if recorder != nil {
		p.recorder = recorder
	}
	return p
}

// run holds the per-request state carried between transitions.
type run struct {
	requestID string
	query     string

	topicChecked bool
	onTopic      bool

	rawOutput string
	decision  models.Decision
}

// Run executes the pipeline for one query. Every path ends in a decision
// except configuration faults, which are returned wrapped in ErrConfiguration.
func (p *Pipeline) Run(ctx context.Context, requestID string, query string) (models.Decision, error) {
	now := time.Now()
	r := &run{requestID: requestID, query: query}

	p.logger.Info().
		Str("request_id", requestID).
		Int("query_chars", utf8.RuneCountInString(query)).
		Msg("starting guardrail pipeline")

	state := StateStart
	for state != StateDone {
		next, err := p.step(ctx, r, state)
		if err != nil {
			p.recorder.ObserveConfigurationFault()
			p.logger.Error().
				Err(err).
				Str("request_id", requestID).
				Str("state", state.String()).
				Msg("guardrail pipeline aborted")
			return models.Decision{}, err
		}
		state = next
	}

	p.recorder.ObserveDecision(r.decision.Outcome)
	p.logger.Info().
		Str("request_id", requestID).
		Str("outcome", string(r.decision.Outcome)).
		Dur("duration", time.Since(now)).
		Msg("guardrail pipeline complete")

	return r.decision, nil
}

func (p *Pipeline) step(ctx context.Context, r *run, state State) (State, error) {
	switch state {
	case StateStart:
		if reason := p.rejectInput(r.query); reason != "" {
			p.logger.Warn().Str("request_id", r.requestID).Str("reason", reason).Msg("input rejected")
			return p.block(r, models.OutcomeBlockedOffTopic, MessageOffTopic), nil
		}
		return StateModerationCheck, nil

	case StateModerationCheck:
		if p.opts.ParallelChecks {
			return p.checkConcurrently(ctx, r)
		}
		if p.violates(ctx, r) {
			return p.block(r, models.OutcomeBlockedModeration, MessageModeration), nil
		}
		return StateTopicCheck, nil

	case StateTopicCheck:
		if !r.topicChecked {
			onTopic, err := p.checkTopic(ctx, r)
			if err != nil {
				return StateDone, err
			}
			r.onTopic = onTopic
			r.topicChecked = true
		}
		if !r.onTopic {
			return p.block(r, models.OutcomeBlockedOffTopic, MessageOffTopic), nil
		}
		return StateGenerate, nil

	case StateGenerate:
		raw, ok := p.generate(ctx, r)
		if !ok {
			return p.block(r, models.OutcomeBlockedContractViolation, MessageContractViolation), nil
		}
		r.rawOutput = raw
		return StateContractCheck, nil

	case StateContractCheck:
		answer, ok := contract.ExtractAnswer(r.rawOutput)
		if !ok {
			p.logger.Warn().
				Str("request_id", r.requestID).
				Int("output_chars", len(r.rawOutput)).
				Msg("model output missing answer envelope")
			return p.block(r, models.OutcomeBlockedContractViolation, MessageContractViolation), nil
		}
		r.decision = models.Decision{
			RequestID:   r.requestID,
			Outcome:     models.OutcomePassed,
			UserMessage: answer,
			Answer:      &answer,
		}
		return StateDone, nil

	default:
		return StateDone, fmt.Errorf("%w: unknown pipeline state %d", ErrConfiguration, state)
	}
}

func (p *Pipeline) block(r *run, outcome models.Outcome, message string) State {
	r.decision = models.Decision{
		RequestID:   r.requestID,
		Outcome:     outcome,
		UserMessage: message,
	}
	return StateDone
}

func (p *Pipeline) rejectInput(query string) string {
	if strings.TrimSpace(query) == "" {
		return "empty query"
	}
	if p.opts.MaxQueryChars > 0 && utf8.RuneCountInString(query) > p.opts.MaxQueryChars {
		return "query too long"
	}
	return ""
}

// violates treats a stage timeout as a violation even if the moderator
// returned a verdict.
func (p *Pipeline) violates(ctx context.Context, r *run) bool {
	now := time.Now()
	stageCtx, cancel := withTimeout(ctx, p.opts.ModerationTimeout)
	defer cancel()

	violating := p.moderator.ViolatesPolicy(stageCtx, r.query)
	if err := stageCtx.Err(); err != nil {
		p.logger.Warn().Err(err).Str("request_id", r.requestID).Msg("moderation timed out")
		violating = true
	}

	p.recorder.ObserveStage(StateModerationCheck.String(), time.Since(now))
	return violating
}

// checkTopic returns an error only for configuration faults. Any other
// failure is logged and reported as off topic.
func (p *Pipeline) checkTopic(ctx context.Context, r *run) (bool, error) {
	now := time.Now()
	stageCtx, cancel := withTimeout(ctx, p.opts.TopicTimeout)
	defer cancel()

	onTopic, err := p.topics.IsOnTopic(stageCtx, r.query)
	p.recorder.ObserveStage(StateTopicCheck.String(), time.Since(now))

	if err != nil {
		if topic.IsConfigurationFault(err) {
			return false, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		p.logger.Error().Err(err).Str("request_id", r.requestID).Msg("topic check failed, treating as off topic")
		return false, nil
	}
	if err := stageCtx.Err(); err != nil {
		p.logger.Warn().Err(err).Str("request_id", r.requestID).Msg("topic check timed out")
		return false, nil
	}
	return onTopic, nil
}

func (p *Pipeline) generate(ctx context.Context, r *run) (string, bool) {
	now := time.Now()
	stageCtx, cancel := withTimeout(ctx, p.opts.GenerationTimeout)
	defer cancel()

	raw, err := p.generator.Generate(stageCtx, r.query)
	p.recorder.ObserveStage(StateGenerate.String(), time.Since(now))

	if err != nil {
		p.logger.Error().Err(err).Str("request_id", r.requestID).Msg("generation failed")
		return "", false
	}
	if err := stageCtx.Err(); err != nil {
		p.logger.Warn().Err(err).Str("request_id", r.requestID).Msg("generation timed out")
		return "", false
	}
	return raw, true
}

// checkConcurrently runs moderation and the topic check together. A
// configuration fault wins over every verdict, then moderation wins over topic.
func (p *Pipeline) checkConcurrently(ctx context.Context, r *run) (State, error) {
	var (
		violating bool
		onTopic   bool
		topicErr  error
		g         errgroup.Group
	)

	g.Go(func() error {
		violating = p.violates(ctx, r)
		return nil
	})
	g.Go(func() error {
		onTopic, topicErr = p.checkTopic(ctx, r)
		return nil
	})
	_ = g.Wait()

	if topicErr != nil {
		return StateDone, topicErr
	}
	if violating {
		return p.block(r, models.OutcomeBlockedModeration, MessageModeration), nil
	}

	r.onTopic = onTopic
	r.topicChecked = true
	return StateTopicCheck, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
