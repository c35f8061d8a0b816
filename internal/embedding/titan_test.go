package embedding

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBuildTitanRequest(t *testing.T) {
	body, err := buildTitanRequest("  players championship  ", 256)
	if err != nil {
		t.Fatalf("buildTitanRequest failed: %v", err)
	}

	var decoded titanRequest
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("invalid request body: %v", err)
	}
	if decoded.InputText != "players championship" {
		t.Errorf("Expected trimmed input text, got %q", decoded.InputText)
	}
	if decoded.Dimensions != 256 {
		t.Errorf("Expected dimensions=256, got %d", decoded.Dimensions)
	}
	if !decoded.Normalize {
		t.Error("Expected normalize=true")
	}
}

func TestBuildTitanRequest_EmptyText(t *testing.T) {
	_, err := buildTitanRequest("   ", 0)
	if !errors.Is(err, ErrEmptyText) {
		t.Errorf("Expected ErrEmptyText, got %v", err)
	}
}

func TestParseTitanResponse(t *testing.T) {
	vector, err := parseTitanResponse([]byte(`{"embedding":[0.1,0.2,0.3],"inputTextTokenCount":3}`))
	if err != nil {
		t.Fatalf("parseTitanResponse failed: %v", err)
	}
	if len(vector) != 3 {
		t.Errorf("Expected 3 dimensions, got %d", len(vector))
	}

	if _, err := parseTitanResponse([]byte(`{"embedding":[]}`)); err == nil {
		t.Error("Expected error for empty embedding")
	}
	if _, err := parseTitanResponse([]byte(`oops`)); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestCacheKey_StableAndPrefixed(t *testing.T) {
	a := cacheKey("emb:", "who won the players?")
	b := cacheKey("emb:", "who won the players?")
	c := cacheKey("emb:", "who won the masters?")

	if a != b {
		t.Error("Expected identical keys for identical text")
	}
	if a == c {
		t.Error("Expected different keys for different text")
	}
	if a[:4] != "emb:" {
		t.Errorf("Expected prefix emb:, got %s", a[:4])
	}
}
