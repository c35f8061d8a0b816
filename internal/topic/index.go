package topic

import (
	"fmt"
	"math"
	"sort"
)

// Index is an immutable exact nearest-neighbour store over cosine distance.
// It is safe for concurrent readers.
type Index struct {
	exemplars []Exemplar
	dimension int
}

// NewIndex copies the exemplars into a new index. All embeddings must share one
// non-zero dimension.
func NewIndex(exemplars []Exemplar) (*Index, error) {
	if len(exemplars) == 0 {
		return nil, ErrEmptyIndex
	}

	dimension := len(exemplars[0].Embedding)
	if dimension == 0 {
		return nil, fmt.Errorf("exemplar 0 has no embedding: %w", ErrDimensionMismatch)
	}

	stored := make([]Exemplar, len(exemplars))
	for i, ex := range exemplars {
		if len(ex.Embedding) != dimension {
			return nil, fmt.Errorf("exemplar %d has dimension %d, expected %d: %w",
				i, len(ex.Embedding), dimension, ErrDimensionMismatch)
		}
		if ex.Label != LabelOnTopic && ex.Label != LabelOffTopic {
			return nil, fmt.Errorf("exemplar %d has unknown label %q", i, ex.Label)
		}

		vector := make([]float32, dimension)
		copy(vector, ex.Embedding)
		stored[i] = Exemplar{Text: ex.Text, Label: ex.Label, Embedding: vector}
	}

	return &Index{exemplars: stored, dimension: dimension}, nil
}

func (idx *Index) Dimension() int {
	return idx.dimension
}

func (idx *Index) Len() int {
	return len(idx.exemplars)
}

// Exemplars returns a copy of the stored exemplars in insertion order.
func (idx *Index) Exemplars() []Exemplar {
	out := make([]Exemplar, len(idx.exemplars))
	for i, ex := range idx.exemplars {
		vector := make([]float32, len(ex.Embedding))
		copy(vector, ex.Embedding)
		out[i] = Exemplar{Text: ex.Text, Label: ex.Label, Embedding: vector}
	}
	return out
}

// Query returns at most k matches ordered by ascending distance. Equal
// distances keep insertion order.
func (idx *Index) Query(vector []float32, k int) ([]Match, error) {
	if idx == nil || len(idx.exemplars) == 0 {
		return nil, ErrEmptyIndex
	}
	if k < 1 {
		return nil, ErrInvalidK
	}
	if len(vector) != idx.dimension {
		return nil, fmt.Errorf("query has dimension %d, index has %d: %w",
			len(vector), idx.dimension, ErrDimensionMismatch)
	}

	matches := make([]Match, len(idx.exemplars))
	for i, ex := range idx.exemplars {
		matches[i] = Match{Exemplar: ex, Distance: cosineDistance(vector, ex.Embedding)}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if k < len(matches) {
		matches = matches[:k]
	}

	// Matches must not alias stored vectors.
	for i := range matches {
		vector := make([]float32, len(matches[i].Exemplar.Embedding))
		copy(vector, matches[i].Exemplar.Embedding)
		matches[i].Exemplar.Embedding = vector
	}
	return matches, nil
}

// ValidVector reports whether v has a non-zero norm and only finite
// components. Such a vector is the only kind with a meaningful distance.
func ValidVector(v []float32) bool {
	var norm float64
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
		norm += f * f
	}
	return norm > 0
}

// cosineDistance is 1 - cosine similarity. A zero vector is treated as
// orthogonal to everything.
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
