package pending

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestMemoryStorePutConsume(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	req := AnalysisRequest{
		ID:      NewRequestID("user-1"),
		OwnerID: "user-1",
		Mode:    "chunked",
		Answers: map[string]string{"special_needs": "não"},
	}
	if err := store.Put(ctx, req); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Consume(ctx, req.ID, "user-1")
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if got.Mode != "chunked" || got.Answers["special_needs"] != "não" {
		t.Errorf("got %+v", got)
	}

	// Second consume must fail: the entry is gone.
	if _, err := store.Consume(ctx, req.ID, "user-1"); !errors.Is(err, ErrExpired) {
		t.Fatalf("want ErrExpired on reuse, got %v", err)
	}
}

func TestMemoryStoreOwnerMismatchPurges(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	req := AnalysisRequest{ID: "ptd_user-1_1_abc", OwnerID: "user-1"}
	if err := store.Put(ctx, req); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if _, err := store.Consume(ctx, req.ID, "user-2"); !errors.Is(err, ErrOwnerMismatch) {
		t.Fatalf("want ErrOwnerMismatch, got %v", err)
	}
	// Even the rightful owner cannot recover it afterwards.
	if _, err := store.Consume(ctx, req.ID, "user-1"); !errors.Is(err, ErrExpired) {
		t.Fatalf("want ErrExpired after purge, got %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	base := time.Now()
	store.now = func() time.Time { return base }

	req := AnalysisRequest{ID: "ptd_user-1_1_def", OwnerID: "user-1"}
	if err := store.Put(ctx, req); err != nil {
		t.Fatalf("Put: %v", err)
	}

	store.now = func() time.Time { return base.Add(TTL + time.Second) }
	if _, err := store.Consume(ctx, req.ID, "user-1"); !errors.Is(err, ErrExpired) {
		t.Fatalf("want ErrExpired, got %v", err)
	}
}

func TestNewRequestID(t *testing.T) {
	id := NewRequestID("prof-42")
	if !strings.HasPrefix(id, "ptd_prof-42_") {
		t.Fatalf("id = %q", id)
	}
	parts := strings.Split(id, "_")
	if len(parts) != 4 || len(parts[3]) != 8 {
		t.Fatalf("id parts = %v", parts)
	}
	if id == NewRequestID("prof-42") {
		t.Error("ids must not collide")
	}
}
