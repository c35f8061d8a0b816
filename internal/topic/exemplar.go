package topic

import (
	"fmt"
	"strings"
)

type Label string

const (
	LabelOnTopic  Label = "on_topic"
	LabelOffTopic Label = "off_topic"
)

func ParseLabel(value string) (Label, error) {
	switch Label(strings.ToLower(strings.TrimSpace(value))) {
	case LabelOnTopic:
		return LabelOnTopic, nil
	case LabelOffTopic:
		return LabelOffTopic, nil
	default:
		return "", fmt.Errorf("unknown topic label %q", value)
	}
}

// Exemplar is a labeled reference text with its embedding. Exemplars are not
// mutated after they enter an index.
type Exemplar struct {
	Text      string    `json:"text"`
	Label     Label     `json:"label"`
	Embedding []float32 `json:"embedding"`
}

// Seed is a hand-authored exemplar before embedding.
type Seed struct {
	Text  string `yaml:"text" json:"text"`
	Label Label  `yaml:"label" json:"label"`
}

type Match struct {
	Exemplar Exemplar
	Distance float64
}
