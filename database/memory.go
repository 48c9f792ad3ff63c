package database

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps sessions and watchlists in process memory. It is used
// when PostgreSQL is unreachable and in tests; data is lost on restart.
type MemoryStore struct {
	mu         sync.RWMutex
	sessions   map[string]Session
	watchlists map[string]Watchlist
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions:   make(map[string]Session),
		watchlists: make(map[string]Watchlist),
		now:        time.Now,
	}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Backend() string { return "memory" }

func (m *MemoryStore) SaveSession(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.GenreIDs = slices.Clone(s.GenreIDs)
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = m.now()
	}
	m.sessions[s.ID] = cp
	return nil
}

func (m *MemoryStore) GetSession(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.GenreIDs = slices.Clone(s.GenreIDs)
	return &s, nil
}

func (m *MemoryStore) SaveWatchlist(_ context.Context, w *Watchlist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[w.SessionID]; !ok {
		return ErrNotFound
	}
	cp := *w
	cp.PDFData = slices.Clone(w.PDFData)
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = m.now()
	}
	m.watchlists[w.ID] = cp
	return nil
}

func (m *MemoryStore) GetWatchlist(_ context.Context, id string) (*Watchlist, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.watchlists[id]
	if !ok {
		return nil, ErrNotFound
	}
	w.PDFData = slices.Clone(w.PDFData)
	return &w, nil
}
