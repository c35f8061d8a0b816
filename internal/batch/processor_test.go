package batch

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeRunner) Run(_ context.Context, requestID string, query string) (models.Decision, error) {
	f.mu.Lock()
	f.calls = append(f.calls, requestID)
	f.mu.Unlock()

	if f.err != nil {
		return models.Decision{}, f.err
	}

	outcome := models.OutcomeBlockedOffTopic
	if strings.Contains(strings.ToLower(query), "golf") {
		outcome = models.OutcomePassed
	}
	return models.Decision{RequestID: requestID, Outcome: outcome}, nil
}

func collect(ch <-chan Result) []Result {
	var results []Result
	for r := range ch {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].LineNumber < results[j].LineNumber })
	return results
}

func TestProcessor_RunsEveryRecord(t *testing.T) {
	runner := &fakeRunner{}
	records := []InputRecord{
		{LineNumber: 1, Request: models.AskRequest{RequestID: "a", Question: "golf majors"}},
		{LineNumber: 2, Request: models.AskRequest{RequestID: "b", Question: "pasta"}},
		{LineNumber: 3, Request: models.AskRequest{RequestID: "c", Question: "golf swing"}},
	}

	results := collect(NewProcessor(runner, 2, newTestLogger()).Process(context.Background(), records))

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Decision.Outcome != models.OutcomePassed {
		t.Errorf("expected passed for line 1, got %s", results[0].Decision.Outcome)
	}
	if results[1].Decision.Outcome != models.OutcomeBlockedOffTopic {
		t.Errorf("expected off topic for line 2, got %s", results[1].Decision.Outcome)
	}
	if len(runner.calls) != 3 {
		t.Errorf("expected 3 runner calls, got %d", len(runner.calls))
	}
}

func TestProcessor_SkipsInvalidRecords(t *testing.T) {
	runner := &fakeRunner{}
	records := []InputRecord{
		{LineNumber: 1, Error: errors.New("invalid JSON")},
	}

	results := collect(NewProcessor(runner, 1, newTestLogger()).Process(context.Background(), records))

	if len(results) != 1 || results[0].Error == "" {
		t.Fatalf("expected one error result, got %+v", results)
	}
	if len(runner.calls) != 0 {
		t.Errorf("runner should not be called for invalid records")
	}
}

func TestProcessor_DefaultsRequestID(t *testing.T) {
	runner := &fakeRunner{}
	records := []InputRecord{
		{LineNumber: 4, Request: models.AskRequest{Question: "golf"}},
	}

	results := collect(NewProcessor(runner, 1, newTestLogger()).Process(context.Background(), records))

	if results[0].RequestID != "line-4" {
		t.Errorf("expected generated request id line-4, got %q", results[0].RequestID)
	}
}

func TestProcessor_RunnerError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("configuration fault")}
	records := []InputRecord{
		{LineNumber: 1, Request: models.AskRequest{RequestID: "a", Question: "golf"}},
	}

	results := collect(NewProcessor(runner, 1, newTestLogger()).Process(context.Background(), records))

	if results[0].Decision != nil {
		t.Error("expected no decision on runner error")
	}
	if results[0].Error != "configuration fault" {
		t.Errorf("unexpected error: %q", results[0].Error)
	}
}
