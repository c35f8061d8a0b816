package batch

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
	"github.com/rs/zerolog"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

type Summary struct {
	Total    int                    `json:"total"`
	Errors   int                    `json:"errors"`
	Outcomes map[models.Outcome]int `json:"outcomes"`
}

func newSummary() *Summary {
	return &Summary{Outcomes: make(map[models.Outcome]int)}
}

func (s *Summary) Add(result Result) {
	s.Total++
	if result.Decision == nil {
		s.Errors++
		return
	}
	s.Outcomes[result.Decision.Outcome]++
}

// Writer emits one JSON line per result, or a single summary object on Close.
type Writer struct {
	out     *bufio.Writer
	encoder *json.Encoder
	format  string
	summary *Summary
	logger  *zerolog.Logger
}

func NewWriter(output io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	if format != FormatJSONL && format != FormatSummary {
		return nil, fmt.Errorf("unsupported output format %q", format)
	}

	buffered := bufio.NewWriter(output)
	return &Writer{
		out:     buffered,
		encoder: json.NewEncoder(buffered),
		format:  format,
		summary: newSummary(),
		logger:  logger,
	}, nil
}

func (w *Writer) Write(result Result) error {
	w.summary.Add(result)

	if w.format != FormatJSONL {
		return nil
	}
	return w.encoder.Encode(result)
}

func (w *Writer) Summary() Summary {
	return *w.summary
}

func (w *Writer) Close() error {
	if w.format == FormatSummary {
		w.encoder.SetIndent("", "  ")
		if err := w.encoder.Encode(w.summary); err != nil {
			return err
		}
	}

	w.logger.Debug().Int("records", w.summary.Total).Msg("Writer closed")
	return w.out.Flush()
}
