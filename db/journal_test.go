package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestNewClientEmptyPath(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected an error for an empty path")
	}
}

func TestJournal(t *testing.T) {
	c, err := NewClient(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer func() { _ = c.Close() }()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []Production{
		{RequestID: "a", RecipeID: 1, RecipeName: "Abadía", Batches: 1, Status: StatusOK, CreatedAt: base},
		{RequestID: "b", RecipeID: 2, RecipeName: "Scotch", Batches: 3, Status: StatusRejected, Message: "insufficient stock for Munich", CreatedAt: base.Add(time.Hour)},
		{RequestID: "c", RecipeID: 1, RecipeName: "Abadía", Batches: 2, Status: StatusOK, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, e := range entries {
		if err := c.RecordProduction(ctx, e); err != nil {
			t.Fatalf("RecordProduction() error = %v", err)
		}
	}

	got, err := c.ListProductions(ctx, 2)
	if err != nil {
		t.Fatalf("ListProductions() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListProductions() returned %d entries, want 2", len(got))
	}
	if got[0].RequestID != "c" || got[1].RequestID != "b" {
		t.Errorf("unexpected order: %s, %s", got[0].RequestID, got[1].RequestID)
	}
	if got[1].Message != "insufficient stock for Munich" || got[1].Batches != 3 {
		t.Errorf("unexpected entry %+v", got[1])
	}
	if !got[0].CreatedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("CreatedAt = %v", got[0].CreatedAt)
	}

	all, err := c.ListProductions(ctx, 0)
	if err != nil {
		t.Fatalf("ListProductions() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListProductions(0) returned %d entries, want 3", len(all))
	}
}

func TestCloseNil(t *testing.T) {
	var c *Client
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil client = %v", err)
	}
}
