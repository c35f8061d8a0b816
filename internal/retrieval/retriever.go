package retrieval

import (
	"context"
	"strings"
)

type Passage struct {
	ID         string
	DocumentID string
	Content    string
	Distance   float64
}

// Retriever returns passages ordered by relevance.
type Retriever interface {
	Retrieve(ctx context.Context, query string, limit int) ([]Passage, error)
}

// JoinPassages concatenates passage text in the order given. No passages
// yields an empty context.
func JoinPassages(passages []Passage) string {
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		content := strings.TrimSpace(p.Content)
		if content == "" {
			continue
		}
		parts = append(parts, content)
	}
	return strings.Join(parts, "\n\n")
}

// EmptyRetriever is used when no knowledge base is configured.
type EmptyRetriever struct{}

func (EmptyRetriever) Retrieve(context.Context, string, int) ([]Passage, error) {
	return nil, nil
}
