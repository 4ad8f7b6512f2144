package sessions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/lanternhq/lanternhack/internal/common"
	"github.com/lanternhq/lanternhack/internal/server/models"
)

const keyPrefix = "hack:session:"

// RedisStore keeps each session as a JSON blob under hack:session:<owner>.
// SET and DEL are single-key atomic operations, which is all the contract
// requires; sessions are logically single-writer per owner.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) key(owner string) string {
	return keyPrefix + owner
}

func (r *RedisStore) Get(ctx context.Context, owner string) (*models.HackSession, error) {
	val, err := r.client.Get(ctx, r.key(owner)).Result()
	if err == redis.Nil {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sessions: %w", err)
	}

	var s models.HackSession
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("sessions: corrupt record for %q: %w", owner, err)
	}

	return &s, nil
}

func (r *RedisStore) Replace(ctx context.Context, session *models.HackSession) error {
	if session.Owner == "" {
		return fmt.Errorf("sessions: missing owner")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("sessions: marshal: %w", err)
	}

	// No TTL: a session lives until explicitly resolved, replaced, or reset.
	if err := r.client.Set(ctx, r.key(session.Owner), data, 0).Err(); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, owner string) error {
	if err := r.client.Del(ctx, r.key(owner)).Err(); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	return nil
}

// DeleteAll removes every live session. Used by the round-end reset path.
func (r *RedisStore) DeleteAll(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("sessions: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("sessions: %w", err)
	}
	return nil
}
