package topic

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/embedding"
	"github.com/rs/zerolog"
)

// Filter classifies queries by the labels of their nearest exemplars.
type Filter struct {
	embedder embedding.Embedder
	holder   *Holder
	k        int
	logger   *zerolog.Logger
}

func NewFilter(embedder embedding.Embedder, holder *Holder, k int, logger *zerolog.Logger) *Filter {
	return &Filter{
		embedder: embedder,
		holder:   holder,
		k:        k,
		logger:   logger,
	}
}

// IsOnTopic embeds the query and votes over the k nearest exemplars. Index
// faults are returned unchanged so callers can detect them with
// IsConfigurationFault; embedding failures are wrapped.
func (f *Filter) IsOnTopic(ctx context.Context, query string) (bool, error) {
	// Check the index before paying for an embedding call.
	idx := f.holder.Load()
	if idx == nil {
		return false, ErrEmptyIndex
	}
	if f.k < 1 {
		return false, ErrInvalidK
	}

	vector, err := f.embedder.Embed(ctx, query)
	if err != nil {
		return false, fmt.Errorf("failed to embed query: %w", err)
	}
	if !ValidVector(vector) {
		return false, fmt.Errorf("failed to embed query: %w", ErrDegenerateEmbedding)
	}

	matches, err := idx.Query(vector, f.k)
	if err != nil {
		return false, err
	}

	onTopic := Vote(matches)

	f.logger.Debug().
		Int("k", f.k).
		Float64("nearest_distance", matches[0].Distance).
		Str("nearest_label", string(matches[0].Exemplar.Label)).
		Bool("on_topic", onTopic).
		Msg("Topic check complete")

	return onTopic, nil
}

// Vote returns true when strictly more matches are on-topic than off-topic.
// A tie is off-topic.
func Vote(matches []Match) bool {
	var on, off int
	for _, m := range matches {
		if m.Exemplar.Label == LabelOnTopic {
			on++
		} else {
			off++
		}
	}
	return on > off
}
