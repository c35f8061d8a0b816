package batch

import (
	"context"
	"strings"
	"testing"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestReader_InvalidFile(t *testing.T) {
	file := strings.NewReader("invalid file content")

	reader := NewReader(file, newTestLogger())
	ctx := context.Background()
	ch := reader.ReadAll(ctx)

	for record := range ch {
		if record.Error == nil {
			t.Errorf("expected parse error for invalid JSON, but got none")
		}
	}
}

func TestReader_ValidFile(t *testing.T) {
	inputFile := `{"request_id":"1","question":"Who won the 2024 Players Championship?","expected_outcome":"passed"}
  {"request_id":"2","question":"Give me a lasagna recipe","expected_outcome":"blocked_off_topic"}`

	file := strings.NewReader(inputFile)

	ctx := context.Background()
	reader := NewReader(file, newTestLogger())

	ch := reader.ReadAll(ctx)
	count := 0
	for record := range ch {
		count += 1
		if record.Error != nil {
			t.Errorf("Error reading the question record. Got: %s", record.Error)
		}
	}
	if count != 2 {
		t.Errorf("Expected 2 question records. Got: %d", count)
	}
}

func TestReader_ContextCancellation(t *testing.T) {
	// Large input with many lines
	var lines []string
	for i := 0; i < 100; i++ {
		lines = append(lines,
			`{"request_id":"1","question":"Who won the 2024 Players Championship?","expected_outcome":"passed"}`)
	}
	file := strings.NewReader(strings.Join(lines, "\n"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := NewReader(file, newTestLogger())

	ch := reader.ReadAll(ctx)
	count := 0
	for range ch {
		count++
		if count == 5 {
			cancel() // Cancel after 5 records
			break
		}
	}

	// Should have stopped early
	if count >= 100 {
		t.Errorf("expected early cancellation, but read all records")
	}
}

func TestReader_LineNumbers(t *testing.T) {
	inputFile := `{"request_id":"1","question":"Who won the 2024 Players Championship?","expected_outcome":"passed"}

{"invalid json}
{"request_id":"2","question":"Give me a lasagna recipe","expected_outcome":"blocked_off_topic"}`

	file := strings.NewReader(inputFile)
	reader := NewReader(file, newTestLogger())

	ch := reader.ReadAll(context.Background())
	records := []InputRecord{}
	for record := range ch {
		records = append(records, record)
	}

	// Check line numbers
	if records[0].LineNumber != 1 {
		t.Errorf("first record should be line 1, got %d", records[0].LineNumber)
	}
	if records[1].LineNumber != 3 {
		t.Errorf("error record should be line 3, got %d", records[1].LineNumber)
	}
	if records[2].LineNumber != 4 {
		t.Errorf("third record should be line 4, got %d", records[2].LineNumber)
	}
}

func TestReader_ParsesFields(t *testing.T) {
	input := `{"request_id":"q-7","question":"What is the island green?","expected_outcome":"passed"}`

	reader := NewReader(strings.NewReader(input), newTestLogger())

	var records []InputRecord
	for record := range reader.ReadAll(context.Background()) {
		records = append(records, record)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	got := records[0].Request
	if got.RequestID != "q-7" || got.Question != "What is the island green?" {
		t.Errorf("unexpected request: %+v", got)
	}
	if got.ExpectedOutcome != models.OutcomePassed {
		t.Errorf("expected outcome passed, got %q", got.ExpectedOutcome)
	}
}

func TestReader_UnknownExpectedOutcome(t *testing.T) {
	input := `{"request_id":"q-1","question":"hello","expected_outcome":"maybe"}`

	reader := NewReader(strings.NewReader(input), newTestLogger())

	for record := range reader.ReadAll(context.Background()) {
		if record.Error == nil {
			t.Error("expected error for unknown expected_outcome")
		}
	}
}
