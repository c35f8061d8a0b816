package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/guardrails"
	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	payloadField = "payload"
	claimBatch   = 10
)

type DecisionRunner interface {
	Run(ctx context.Context, requestID string, query string) (models.Decision, error)
}

// Consumer reads questions from a stream, runs the guardrail pipeline and
// publishes each decision to an output stream.
type Consumer struct {
	client       *redis.Client
	stream       string
	outputStream string
	groupID      string
	consumerName string
	claimMinIdle time.Duration
	runner       DecisionRunner
	logger       *zerolog.Logger
}

func NewConsumer(
	client *redis.Client,
	cfg *RedisStreamConfig,
	runner DecisionRunner,
	logger *zerolog.Logger,
) *Consumer {
	claimMinIdle := cfg.ClaimMinIdle
	if claimMinIdle <= 0 {
		claimMinIdle = DefaultClaimMinIdle
	}
	return &Consumer{
		client:       client,
		stream:       cfg.Stream,
		outputStream: cfg.OutputStream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		claimMinIdle: claimMinIdle,
		runner:       runner,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("output_stream", c.outputStream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	c.reclaim(ctx)
	lastClaim := time.Now()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if time.Since(lastClaim) >= c.claimMinIdle {
			c.reclaim(ctx)
			lastClaim = time.Now()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

// reclaim takes over entries that were delivered to some consumer of the group
// but not acknowledged within claimMinIdle, and processes them again. This is
// what redelivers messages left pending after a failed publish or a
// configuration fault.
func (c *Consumer) reclaim(ctx context.Context) {
	start := "0-0"
	for {
		msgs, next, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   c.stream,
			Group:    c.groupID,
			Consumer: c.consumerName,
			MinIdle:  c.claimMinIdle,
			Start:    start,
			Count:    claimBatch,
		}).Result()
		if err != nil {
			if ctx.Err() == nil {
				c.logger.Error().Err(err).Msg("Failed to reclaim pending messages")
			}
			return
		}

		if len(msgs) > 0 {
			c.logger.Info().Int("count", len(msgs)).Msg("Reclaimed pending messages")
		}
		for _, msg := range msgs {
			c.process(ctx, msg)
		}

		if next == "" || next == "0-0" || ctx.Err() != nil {
			return
		}
		start = next
	}
}

func (c *Consumer) Stop() error {
	return c.client.Close()
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	decision, ack := c.handle(ctx, msg)
	if decision != nil {
		if err := c.publish(ctx, *decision); err != nil {
			// left pending; reclaim picks it up after claimMinIdle
			c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to publish decision")
			return
		}
	}

	if ack {
		c.ack(ctx, msg.ID)
	}
}

// handle returns the decision to publish, if any, and whether the message
// should be acknowledged. Malformed messages are acknowledged and dropped;
// configuration faults are left pending.
func (c *Consumer) handle(ctx context.Context, msg redis.XMessage) (*models.Decision, bool) {
	askRequest, err := decodeRequest(msg.Values)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		return nil, true
	}

	requestID := askRequest.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	decision, err := c.runner.Run(ctx, requestID, askRequest.Question)
	if err != nil {
		if errors.Is(err, guardrails.ErrConfiguration) {
			c.logger.Error().Err(err).Str("id", msg.ID).Msg("Configuration fault, message left pending")
			return nil, false
		}
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Guardrail pipeline failed")
		return nil, false
	}

	c.logger.Info().
		Str("id", msg.ID).
		Str("request_id", decision.RequestID).
		Str("outcome", string(decision.Outcome)).
		Msg("Decision complete")

	return &decision, true
}

func (c *Consumer) publish(ctx context.Context, decision models.Decision) error {
	if c.outputStream == "" {
		return nil
	}

	payload, err := encodeDecision(decision)
	if err != nil {
		return err
	}

	return c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.outputStream,
		Values: map[string]any{payloadField: payload},
	}).Err()
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}

func decodeRequest(values map[string]any) (models.AskRequest, error) {
	payload, ok := values[payloadField].(string)
	if !ok {
		return models.AskRequest{}, fmt.Errorf("missing %s field", payloadField)
	}

	var event models.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return models.AskRequest{}, fmt.Errorf("invalid payload: %w", err)
	}
	if event.EventType != models.EventTypeQuestion || event.Request == nil {
		return models.AskRequest{}, fmt.Errorf("unexpected event type %q", event.EventType)
	}

	request := *event.Request
	if request.RequestID == "" {
		request.RequestID = event.EventID
	}
	return request, nil
}

func encodeDecision(decision models.Decision) (string, error) {
	data, err := json.Marshal(models.Event{
		EventID:   decision.RequestID,
		EventType: models.EventTypeDecision,
		Decision:  &decision,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode decision: %w", err)
	}
	return string(data), nil
}

// EncodeQuestion builds the payload a producer writes to the request stream.
func EncodeQuestion(request models.AskRequest) (map[string]any, error) {
	eventID := request.RequestID
	if eventID == "" {
		eventID = uuid.NewString()
		request.RequestID = eventID
	}

	data, err := json.Marshal(models.Event{
		EventID:   eventID,
		EventType: models.EventTypeQuestion,
		Request:   &request,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode question: %w", err)
	}
	return map[string]any{payloadField: string(data)}, nil
}
