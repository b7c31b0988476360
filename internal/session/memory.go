// README: In-process session store; TTL semantics matching the Redis store.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"cabbot/internal/types"
)

// MemoryStore keeps sessions in the process heap. It serializes records the
// same way the Redis store does, so the two are interchangeable behind the
// fallback and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[types.ID]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[types.ID]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(ctx context.Context, userID types.ID) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[userID]
	if !ok || m.now().After(e.expires) {
		delete(m.entries, userID)
		return nil, ErrNotFound
	}
	var s State
	if err := json.Unmarshal(e.raw, &s); err != nil {
		return nil, err
	}
	e.expires = m.now().Add(m.ttl)
	m.entries[userID] = e
	return &s, nil
}

func (m *MemoryStore) Save(ctx context.Context, s *State) error {
	s.UpdatedAt = m.now().UTC()
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[s.UserID] = memoryEntry{raw: raw, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, userID types.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
	return nil
}

func (m *MemoryStore) Extend(ctx context.Context, userID types.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[userID]
	if !ok || m.now().After(e.expires) {
		delete(m.entries, userID)
		return ErrNotFound
	}
	e.expires = m.now().Add(m.ttl)
	m.entries[userID] = e
	return nil
}

func (m *MemoryStore) ListActive(ctx context.Context) ([]types.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var out []types.ID
	for id, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, id)
			continue
		}
		out = append(out, id)
	}
	return out, nil
}
