package sessions

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/lanternhq/lanternhack/internal/common"
	"github.com/lanternhq/lanternhack/internal/server/models"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client)
}

func testSession(owner string, stationID int64) *models.HackSession {
	return &models.HackSession{
		Owner:     owner,
		StationID: stationID,
		TriesLeft: 3,
		Candidates: []models.Candidate{
			{
				UserName:     "jsmith",
				Password:     "hunter2",
				PasswordType: "A",
				PasswordHint: models.PasswordHint{Index: 2, Character: "n"},
				IsCorrect:    true,
			},
			{UserName: "mdoe", Password: "letmein", PasswordType: "B"},
		},
	}
}

func TestRedisStore_ReplaceAndGet(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	want := testSession("u1", 5)
	if err := store.Replace(ctx, want); err != nil {
		t.Fatalf("Replace error: %v", err)
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.StationID != 5 || got.TriesLeft != 3 || len(got.Candidates) != 2 {
		t.Fatalf("unexpected session: %+v", got)
	}
	if c := got.Correct(); c == nil || c.UserName != "jsmith" {
		t.Fatalf("correct candidate lost in round trip: %+v", got.Candidates)
	}
}

func TestRedisStore_Get_Missing(t *testing.T) {
	store := newRedisStore(t)

	_, err := store.Get(context.Background(), "ghost")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound, got %v", err)
	}
}

func TestRedisStore_Replace_Overwrites(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	if err := store.Replace(ctx, testSession("u1", 5)); err != nil {
		t.Fatalf("Replace error: %v", err)
	}
	if err := store.Replace(ctx, testSession("u1", 9)); err != nil {
		t.Fatalf("Replace error: %v", err)
	}

	got, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.StationID != 9 {
		t.Fatalf("expected replacement session for station 9, got %+v", got)
	}
}

func TestRedisStore_Delete(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	if err := store.Replace(ctx, testSession("u1", 5)); err != nil {
		t.Fatalf("Replace error: %v", err)
	}
	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	_, err := store.Get(ctx, "u1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected common.ErrNotFound after delete, got %v", err)
	}
}

func TestRedisStore_DeleteAll(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	for _, owner := range []string{"u1", "u2", "u3"} {
		if err := store.Replace(ctx, testSession(owner, 5)); err != nil {
			t.Fatalf("Replace error: %v", err)
		}
	}

	if err := store.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll error: %v", err)
	}

	for _, owner := range []string{"u1", "u2", "u3"} {
		if _, err := store.Get(ctx, owner); !errors.Is(err, common.ErrNotFound) {
			t.Fatalf("expected %s gone, got %v", owner, err)
		}
	}
}
