package topic

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const snapshotVersion = 1

type snapshot struct {
	Version   int        `json:"version"`
	Dimension int        `json:"dimension"`
	Exemplars []Exemplar `json:"exemplars"`
}

// Save writes idx as JSON. Load(Save(idx)) answers queries identically.
func Save(w io.Writer, idx *Index) error {
	if idx == nil {
		return ErrEmptyIndex
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snapshot{
		Version:   snapshotVersion,
		Dimension: idx.dimension,
		Exemplars: idx.exemplars,
	})
}

func Load(r io.Reader) (*Index, error) {
	var snap snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode topic index snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported topic index snapshot version %d", snap.Version)
	}

	idx, err := NewIndex(snap.Exemplars)
	if err != nil {
		return nil, err
	}
	if snap.Dimension != idx.Dimension() {
		return nil, fmt.Errorf("snapshot declares dimension %d, exemplars have %d: %w",
			snap.Dimension, idx.Dimension(), ErrDimensionMismatch)
	}
	return idx, nil
}

// SaveFile writes the snapshot to a temporary file and renames it into place.
func SaveFile(path string, idx *Index) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".topic-index-*.json")
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Save(tmp, idx); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}

	return os.Rename(tmp.Name(), path)
}

func LoadFile(path string) (*Index, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	return Load(file)
}
