package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

const maxLineBytes = 1024 * 1024

// InputRecord is one JSONL line. Error is set when the line could not be parsed.
type InputRecord struct {
	LineNumber int
	Request    models.AskRequest
	Error      error
}

type Reader struct {
	input  io.Reader
	logger *zerolog.Logger
}

func NewReader(input io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{
		input:  input,
		logger: logger,
	}
}

// ReadAll streams records until the input ends or ctx is cancelled. Blank
// lines are skipped but still counted.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r.input)
		scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			record := parseLine(line, lineNumber)
			if record.Error != nil {
				r.logger.Warn().Int("line", lineNumber).Err(record.Error).Msg("Invalid input record")
			}

			select {
			case <-ctx.Done():
				return
			case out <- record:
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case <-ctx.Done():
			case out <- InputRecord{LineNumber: lineNumber + 1, Error: fmt.Errorf("failed to read input: %w", err)}:
			}
		}
	}()

	return out
}

func parseLine(line string, lineNumber int) InputRecord {
	record := InputRecord{LineNumber: lineNumber}

	if err := json.Unmarshal([]byte(line), &record.Request); err != nil {
		record.Error = fmt.Errorf("invalid JSON: %w", err)
		return record
	}

	if record.Request.ExpectedOutcome != "" {
		if _, err := models.ParseOutcome(string(record.Request.ExpectedOutcome)); err != nil {
			record.Error = err
		}
	}

	return record
}
