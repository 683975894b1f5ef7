package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"alfredoptarigan/interview-prep/internal/models"
)

const sessionShardCount = 32

type sessionShard struct {
	mu    sync.RWMutex
	items map[string]*models.Session
}

// MemorySessionStore keeps sessions in process memory, split across shards so
// requests for different sessions rarely contend. With a zero TTL and zero
// capacity nothing is ever evicted.
type MemorySessionStore struct {
	shards     [sessionShardCount]*sessionShard
	ttl        time.Duration
	maxEntries int
	count      atomic.Int64
	now        func() time.Time

	// createMu serializes the capacity check with the insert that follows it.
	createMu sync.Mutex
}

func NewMemorySessionStore(ttl time.Duration, maxEntries int) *MemorySessionStore {
	s := &MemorySessionStore{
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
	for i := range s.shards {
		s.shards[i] = &sessionShard{items: make(map[string]*models.Session)}
	}
	return s
}

func (s *MemorySessionStore) shard(id string) *sessionShard {
	h := fnv.New32a()
	h.Write([]byte(id))
	return s.shards[h.Sum32()%sessionShardCount]
}

func (s *MemorySessionStore) expired(session *models.Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(session.UpdatedAt) > s.ttl
}

// Create implements SessionStore.
func (s *MemorySessionStore) Create(ctx context.Context, session *models.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session id is required")
	}

	if s.maxEntries > 0 {
		s.createMu.Lock()
		defer s.createMu.Unlock()

		if s.count.Load() >= int64(s.maxEntries) {
			s.evictOldest()
		}
	}

	now := s.now()
	stored := session.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	sh := s.shard(session.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, exists := sh.items[session.ID]; exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	sh.items[session.ID] = stored
	s.count.Add(1)

	return nil
}

// Get implements SessionStore.
func (s *MemorySessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	sh := s.shard(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	session, ok := sh.items[id]
	if !ok || s.expired(session, s.now()) {
		return nil, ErrSessionNotFound
	}

	return session.Clone(), nil
}

// Update implements SessionStore.
func (s *MemorySessionStore) Update(ctx context.Context, session *models.Session) error {
	sh := s.shard(session.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	current, ok := sh.items[session.ID]
	if !ok || s.expired(current, s.now()) {
		return ErrSessionNotFound
	}

	stored := session.Clone()
	stored.UpdatedAt = s.now()
	sh.items[session.ID] = stored

	return nil
}

// Delete implements SessionStore.
func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	sh := s.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.items[id]; ok {
		delete(sh.items, id)
		s.count.Add(-1)
	}
	return nil
}

// Len returns the number of stored sessions, expired ones included until swept.
func (s *MemorySessionStore) Len() int {
	return int(s.count.Load())
}

// Sweep removes expired sessions and returns how many were removed.
func (s *MemorySessionStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	now := s.now()
	removed := 0

	for _, sh := range s.shards {
		sh.mu.Lock()
		for id, session := range sh.items {
			if s.expired(session, now) {
				delete(sh.items, id)
				removed++
			}
		}
		sh.mu.Unlock()
	}

	s.count.Add(int64(-removed))
	return removed
}

// evictOldest drops the least recently updated session across all shards.
func (s *MemorySessionStore) evictOldest() {
	var (
		oldestID string
		oldestAt time.Time
	)

	for _, sh := range s.shards {
		sh.mu.RLock()
		for id, session := range sh.items {
			if oldestID == "" || session.UpdatedAt.Before(oldestAt) {
				oldestID = id
				oldestAt = session.UpdatedAt
			}
		}
		sh.mu.RUnlock()
	}

	if oldestID != "" {
		_ = s.Delete(context.Background(), oldestID)
	}
}
