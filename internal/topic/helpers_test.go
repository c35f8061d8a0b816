package topic

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	err     error
	calls   int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	vector, ok := f.vectors[text]
	if !ok {
		return nil, errors.New("no vector for text")
	}
	return vector, nil
}

func golfExemplars() []Exemplar {
	return []Exemplar{
		{Text: "How do I qualify for the players championship?", Label: LabelOnTopic, Embedding: []float32{1, 0, 0}},
		{Text: "What is the prize money at the players championship?", Label: LabelOnTopic, Embedding: []float32{0.9, 0.1, 0}},
		{Text: "Who should I vote for in the election?", Label: LabelOffTopic, Embedding: []float32{0, 1, 0}},
		{Text: "Which political party is best?", Label: LabelOffTopic, Embedding: []float32{0, 0.9, 0.1}},
	}
}
