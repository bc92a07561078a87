package gemini

import (
	"context"
	"testing"
)

func TestNewClientRejectsEmptyKey(t *testing.T) {
	if _, err := NewClient(context.Background(), "", DefaultModel); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestFactoryBuildsClientWithoutNetwork(t *testing.T) {
	gen, err := NewFactory("")(context.Background(), "AIza-test-key")
	if err != nil {
		t.Fatalf("factory failed: %v", err)
	}
	c, ok := gen.(*Client)
	if !ok {
		t.Fatalf("expected *Client, got %T", gen)
	}
	if c.model != DefaultModel {
		t.Fatalf("expected default model %q, got %q", DefaultModel, c.model)
	}
}
