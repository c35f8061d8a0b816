package retrieval

import (
	"context"
	"testing"
)

func TestJoinPassages(t *testing.T) {
	tests := []struct {
		name     string
		passages []Passage
		want     string
	}{
		{name: "none", passages: nil, want: ""},
		{name: "single", passages: []Passage{{Content: "one"}}, want: "one"},
		{
			name:     "keeps order",
			passages: []Passage{{Content: "second best"}, {Content: " best "}, {Content: "third"}},
			want:     "second best\n\nbest\n\nthird",
		},
		{name: "skips blank", passages: []Passage{{Content: "a"}, {Content: "  "}, {Content: "b"}}, want: "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinPassages(tt.passages); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEmptyRetriever(t *testing.T) {
	passages, err := EmptyRetriever{}.Retrieve(context.Background(), "q", 5)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(passages) != 0 {
		t.Errorf("Expected no passages, got %d", len(passages))
	}
}

func TestDBConfig_ConnectionString(t *testing.T) {
	cfg := DBConfig{Host: "localhost", Port: "5432", User: "u", Password: "p", Database: "kb", SSLMode: "disable"}
	want := "postgresql://u:p@localhost:5432/kb?sslmode=disable"
	if got := cfg.ConnectionString(); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}
