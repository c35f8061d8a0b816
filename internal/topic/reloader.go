package topic

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
)

// Reloader produces a fresh index and swaps it into a Holder. A snapshot file
// is preferred when one exists; otherwise the seeds are embedded again.
type Reloader struct {
	builder      *Builder
	holder       *Holder
	seeds        []Seed
	snapshotPath string
	logger       *zerolog.Logger
}

func NewReloader(builder *Builder, holder *Holder, seeds []Seed, snapshotPath string, logger *zerolog.Logger) *Reloader {
	return &Reloader{
		builder:      builder,
		holder:       holder,
		seeds:        seeds,
		snapshotPath: snapshotPath,
		logger:       logger,
	}
}

// Reload builds a new index and publishes it. The current index stays in
// place when building fails.
func (r *Reloader) Reload(ctx context.Context) (*Index, error) {
	idx, source, err := r.load(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("Topic index reload failed, keeping current index")
		return nil, err
	}

	r.holder.Swap(idx)
	r.logger.Info().
		Str("source", source).
		Int("exemplars", idx.Len()).
		Int("dimension", idx.Dimension()).
		Msg("Topic index loaded")

	return idx, nil
}

func (r *Reloader) load(ctx context.Context) (*Index, string, error) {
	if r.snapshotPath != "" {
		if _, err := os.Stat(r.snapshotPath); err == nil {
			idx, err := LoadFile(r.snapshotPath)
			return idx, "snapshot", err
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, "snapshot", err
		}
	}

	idx, err := r.builder.Build(ctx, r.seeds)
	return idx, "exemplars", err
}
