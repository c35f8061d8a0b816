package batch

import (
	"errors"
	"fmt"
	"sort"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/models"
)

type Mismatch struct {
	RequestID string         `json:"request_id"`
	Line      int            `json:"line"`
	Expected  models.Outcome `json:"expected"`
	Actual    models.Outcome `json:"actual"`
	Error     string         `json:"error,omitempty"`
}

type ValidationResult struct {
	TotalRecords   int                               `json:"total_records"`
	AgreementCount int                               `json:"agreement_count"`
	AgreementRate  float64                           `json:"agreement_rate"`
	Threshold      float64                           `json:"threshold"`
	Passed         bool                              `json:"passed"`
	Confusion      map[models.Outcome]map[string]int `json:"confusion"`
	Mismatches     []Mismatch                        `json:"mismatches,omitempty"`
}

// ValidateOutcomes compares each decision with its expected outcome. A record
// that failed to run counts as a disagreement.
func ValidateOutcomes(results []Result, threshold float64) (*ValidationResult, error) {
	if len(results) == 0 {
		return nil, errors.New("no results to validate")
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("threshold must be between 0 and 1, got %f", threshold)
	}

	validation := &ValidationResult{
		TotalRecords: len(results),
		Threshold:    threshold,
		Confusion:    make(map[models.Outcome]map[string]int),
	}

	for _, result := range results {
		if result.Expected == "" {
			return nil, fmt.Errorf("record %s (line %d) has no expected_outcome", result.RequestID, result.LineNumber)
		}

		actual := "error"
		if result.Decision != nil {
			actual = string(result.Decision.Outcome)
		}

		row, ok := validation.Confusion[result.Expected]
		if !ok {
			row = make(map[string]int)
			validation.Confusion[result.Expected] = row
		}
		row[actual]++

		if actual == string(result.Expected) {
			validation.AgreementCount++
			continue
		}

		validation.Mismatches = append(validation.Mismatches, Mismatch{
			RequestID: result.RequestID,
			Line:      result.LineNumber,
			Expected:  result.Expected,
			Actual:    models.Outcome(actual),
			Error:     result.Error,
		})
	}

	sort.Slice(validation.Mismatches, func(i, j int) bool {
		return validation.Mismatches[i].Line < validation.Mismatches[j].Line
	})

	validation.AgreementRate = float64(validation.AgreementCount) / float64(validation.TotalRecords)
	validation.Passed = validation.AgreementRate >= threshold

	return validation, nil
}
