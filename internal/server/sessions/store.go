// Package sessions persists hack sessions, one per owning user. The store
// must treat replace and delete as atomic so a just-deleted session cannot
// be resurrected by a stale write.
package sessions

import (
	"context"

	"github.com/lanternhq/lanternhack/internal/server/models"
)

// Store holds at most one live HackSession per owner.
//
// Get returns common.ErrNotFound when the owner has no session. Replace
// overwrites any existing session wholesale; sessions are never merged.
// Sessions carry no expiry: they live until resolved, replaced, exhausted,
// or removed by a round reset (DeleteAll).
type Store interface {
	Get(ctx context.Context, owner string) (*models.HackSession, error)
	Replace(ctx context.Context, session *models.HackSession) error
	Delete(ctx context.Context, owner string) error
	DeleteAll(ctx context.Context) error
}
