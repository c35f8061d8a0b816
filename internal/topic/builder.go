package topic

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/guardrail-agent/internal/embedding"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const defaultBuildConcurrency = 4

type Builder struct {
	embedder    embedding.Embedder
	concurrency int
	logger      *zerolog.Logger
}

func NewBuilder(embedder embedding.Embedder, concurrency int, logger *zerolog.Logger) *Builder {
	if concurrency < 1 {
		concurrency = defaultBuildConcurrency
	}
	return &Builder{
		embedder:    embedder,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Build embeds every seed and returns a new index. Seeds are embedded in
// parallel but keep their input order in the index.
func (b *Builder) Build(ctx context.Context, seeds []Seed) (*Index, error) {
	if len(seeds) == 0 {
		return nil, ErrEmptyIndex
	}

	for i, seed := range seeds {
		if _, err := ParseLabel(string(seed.Label)); err != nil {
			return nil, fmt.Errorf("seed %d: %w", i, err)
		}
	}

	exemplars := make([]Exemplar, len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, seed := range seeds {
		g.Go(func() error {
			vector, err := b.embedder.Embed(gctx, seed.Text)
			if err != nil {
				return fmt.Errorf("failed to embed exemplar %d: %w", i, err)
			}
			exemplars[i] = Exemplar{Text: seed.Text, Label: seed.Label, Embedding: vector}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx, err := NewIndex(exemplars)
	if err != nil {
		return nil, err
	}

	b.logger.Info().
		Int("exemplars", idx.Len()).
		Int("dimension", idx.Dimension()).
		Msg("Topic index built")

	return idx, nil
}
