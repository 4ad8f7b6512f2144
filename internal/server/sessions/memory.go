package sessions

import (
	"context"
	"sync"

	"github.com/lanternhq/lanternhack/internal/common"
	"github.com/lanternhq/lanternhack/internal/server/models"
)

// MemoryStore is a map-backed Store for tests and single-process dev runs.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.HackSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]models.HackSession{}}
}

func (m *MemoryStore) Get(ctx context.Context, owner string) (*models.HackSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[owner]
	if !ok {
		return nil, common.ErrNotFound
	}
	// Copy out so callers cannot mutate the stored record in place.
	cp := s
	cp.Candidates = append([]models.Candidate(nil), s.Candidates...)
	return &cp, nil
}

func (m *MemoryStore) Replace(ctx context.Context, session *models.HackSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *session
	cp.Candidates = append([]models.Candidate(nil), session.Candidates...)
	m.sessions[session.Owner] = cp
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, owner)
	return nil
}

func (m *MemoryStore) DeleteAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions = map[string]models.HackSession{}
	return nil
}
