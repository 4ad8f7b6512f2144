package sessions

import (
	"context"
	"errors"
	"testing"

	"github.com/lanternhq/lanternhack/internal/common"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "u1"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}

	if err := store.Replace(ctx, testSession("u1", 5)); err != nil {
		t.Fatalf("Replace error: %v", err)
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}

	// Mutating the returned copy must not leak into the store.
	got.TriesLeft = 0
	got.Candidates[0].Password = "changed"

	again, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if again.TriesLeft != 3 || again.Candidates[0].Password != "hunter2" {
		t.Fatalf("store record was mutated through a copy: %+v", again)
	}

	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := store.Get(ctx, "u1"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStore_DeleteAll(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.Replace(ctx, testSession("u1", 5))
	_ = store.Replace(ctx, testSession("u2", 6))

	if err := store.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll error: %v", err)
	}
	if _, err := store.Get(ctx, "u2"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected empty store, got %v", err)
	}
}
