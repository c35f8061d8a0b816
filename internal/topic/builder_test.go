package topic

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestBuilder_PreservesSeedOrder(t *testing.T) {
	seeds := make([]Seed, 20)
	vectors := make(map[string][]float32)
	for i := range seeds {
		text := fmt.Sprintf("seed-%02d", i)
		label := LabelOnTopic
		if i%2 == 1 {
			label = LabelOffTopic
		}
		seeds[i] = Seed{Text: text, Label: label}
		vectors[text] = []float32{float32(i), 1}
	}

	builder := NewBuilder(&fakeEmbedder{vectors: vectors}, 3, newTestLogger())
	idx, err := builder.Build(context.Background(), seeds)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	exemplars := idx.Exemplars()
	if len(exemplars) != len(seeds) {
		t.Fatalf("Expected %d exemplars, got %d", len(seeds), len(exemplars))
	}
	for i, ex := range exemplars {
		if ex.Text != seeds[i].Text || ex.Label != seeds[i].Label {
			t.Errorf("Position %d: expected %s/%s, got %s/%s", i, seeds[i].Text, seeds[i].Label, ex.Text, ex.Label)
		}
		if ex.Embedding[0] != float32(i) {
			t.Errorf("Position %d: embedding does not belong to seed", i)
		}
	}
}

func TestBuilder_Errors(t *testing.T) {
	logger := newTestLogger()

	if _, err := NewBuilder(&fakeEmbedder{}, 1, logger).Build(context.Background(), nil); !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("Expected ErrEmptyIndex, got %v", err)
	}

	bad := []Seed{{Text: "x", Label: "sports"}}
	if _, err := NewBuilder(&fakeEmbedder{}, 1, logger).Build(context.Background(), bad); err == nil {
		t.Error("Expected error for unknown label")
	}

	failing := &fakeEmbedder{err: errors.New("service unavailable")}
	seeds := []Seed{{Text: "x", Label: LabelOnTopic}}
	if _, err := NewBuilder(failing, 1, logger).Build(context.Background(), seeds); err == nil {
		t.Error("Expected error when embedding fails")
	}
}

func TestHolder_Swap(t *testing.T) {
	first, _ := NewIndex([]Exemplar{{Text: "a", Label: LabelOnTopic, Embedding: []float32{1, 0}}})
	second, _ := NewIndex([]Exemplar{{Text: "b", Label: LabelOffTopic, Embedding: []float32{1, 0}}})

	holder := NewHolder(nil)
	if _, err := holder.Query([]float32{1, 0}, 1); !errors.Is(err, ErrEmptyIndex) {
		t.Errorf("Expected ErrEmptyIndex on empty holder, got %v", err)
	}

	holder.Swap(first)
	matches, _ := holder.Query([]float32{1, 0}, 1)
	if matches[0].Exemplar.Text != "a" {
		t.Errorf("Expected a, got %s", matches[0].Exemplar.Text)
	}

	previous := holder.Swap(second)
	if previous != first {
		t.Error("Swap should return the previous index")
	}
	matches, _ = holder.Query([]float32{1, 0}, 1)
	if matches[0].Exemplar.Text != "b" {
		t.Errorf("Expected b, got %s", matches[0].Exemplar.Text)
	}
}
