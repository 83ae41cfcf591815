// Package memstore is a single-process SessionStore for local runs and tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/loyalty-funnel/internal/domain/entity"
	"github.com/oksasatya/loyalty-funnel/internal/domain/repository"
)

type entry struct {
	user      *entity.UserRecord
	loyalty   *entity.LoyaltyData
	expiresAt time.Time
}

type SessionStore struct {
	mu   sync.Mutex
	data map[string]*entry
	ttl  time.Duration
	now  func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{data: make(map[string]*entry), ttl: ttl, now: time.Now}
}

// live returns the unexpired entry for sid, dropping it if stale. Callers hold mu.
func (s *SessionStore) live(sid string) *entry {
	e, ok := s.data[sid]
	if !ok {
		return nil
	}
	if s.ttl > 0 && !s.now().Before(e.expiresAt) {
		delete(s.data, sid)
		return nil
	}
	return e
}

func (s *SessionStore) touch(sid string) *entry {
	e := s.live(sid)
	if e == nil {
		e = &entry{}
		s.data[sid] = e
	}
	e.expiresAt = s.now().Add(s.ttl)
	return e
}

func (s *SessionStore) SaveUser(_ context.Context, sessionID string, rec *entity.UserRecord) error {
	cp := *rec
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(sessionID).user = &cp
	return nil
}

func (s *SessionStore) GetUser(_ context.Context, sessionID string) (*entity.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(sessionID)
	if e == nil || e.user == nil {
		return nil, repository.ErrSessionNotFound
	}
	cp := *e.user
	return &cp, nil
}

func (s *SessionStore) SaveLoyalty(_ context.Context, sessionID string, data *entity.LoyaltyData) error {
	cp := *data
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch(sessionID).loyalty = &cp
	return nil
}

func (s *SessionStore) GetLoyalty(_ context.Context, sessionID string) (*entity.LoyaltyData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.live(sessionID)
	if e == nil || e.loyalty == nil {
		return nil, repository.ErrSessionNotFound
	}
	cp := *e.loyalty
	return &cp, nil
}

func (s *SessionStore) DeleteLoyalty(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.live(sessionID); e != nil {
		e.loyalty = nil
	}
	return nil
}

func (s *SessionStore) Ping(context.Context) error { return nil }

var _ repository.SessionStore = (*SessionStore)(nil)
