package models

import "fmt"

type Outcome string

const (
	OutcomePassed                   Outcome = "passed"
	OutcomeBlockedModeration        Outcome = "blocked_moderation"
	OutcomeBlockedOffTopic          Outcome = "blocked_off_topic"
	OutcomeBlockedContractViolation Outcome = "blocked_contract_violation"
)

var Outcomes = []Outcome{
	OutcomePassed,
	OutcomeBlockedModeration,
	OutcomeBlockedOffTopic,
	OutcomeBlockedContractViolation,
}

func ParseOutcome(value string) (Outcome, error) {
	for _, o := range Outcomes {
		if string(o) == value {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown outcome %q", value)
}

func (o Outcome) Blocked() bool {
	return o != OutcomePassed
}

type EventType string

const (
	EventTypeQuestion EventType = "question"
	EventTypeDecision EventType = "decision"
)

// Input message
type AskRequest struct {
	RequestID       string  `json:"request_id,omitempty" jsonschema:"Optional caller supplied identifier, generated when empty"`
	Question        string  `json:"question" jsonschema:"The end user's question"`
	ExpectedOutcome Outcome `json:"expected_outcome,omitempty" jsonschema:"Expected outcome, used by batch validation only"`
}

// Decision is the terminal result of one pipeline run. It carries no timing
// so identical inputs produce identical decisions.
type Decision struct {
	RequestID   string  `json:"request_id"`
	Outcome     Outcome `json:"outcome"`
	UserMessage string  `json:"user_message"`
	Answer      *string `json:"answer,omitempty"`
}

// Envelope used on the Redis streams
type Event struct {
	EventID   string      `json:"event_id"`
	EventType EventType   `json:"event_type"`
	Request   *AskRequest `json:"request,omitempty"`
	Decision  *Decision   `json:"decision,omitempty"`
}
