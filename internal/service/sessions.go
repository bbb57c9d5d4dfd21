package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"dupesweep/internal/model"
	"dupesweep/internal/repository"
)

// SessionStore persists each shop's offline access token.
type SessionStore interface {
	Load(ctx context.Context, shop string) (*model.Session, error)
	Save(ctx context.Context, s model.Session) error
	Delete(ctx context.Context, shop string) error
}

// StaticSessions is an in-memory SessionStore, seeded from configuration for
// single-shop installs.
type StaticSessions struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
}

func NewStaticSessions(seed ...model.Session) *StaticSessions {
	s := &StaticSessions{sessions: make(map[string]model.Session)}
	for _, sess := range seed {
		if sess.Shop == "" || sess.AccessToken == "" {
			continue
		}
		_ = s.Save(context.Background(), sess)
	}
	return s
}

func (s *StaticSessions) Load(_ context.Context, shop string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[normalizeShop(shop)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrSessionNotFound, shop)
	}
	return &sess, nil
}

func (s *StaticSessions) Save(_ context.Context, sess model.Session) error {
	sess.Shop = normalizeShop(sess.Shop)
	if sess.ID == "" {
		sess.ID = repository.OfflineSessionID(sess.Shop)
	}
	sess.UpdatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Shop] = sess
	return nil
}

func (s *StaticSessions) Delete(_ context.Context, shop string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, normalizeShop(shop))
	return nil
}

func normalizeShop(shop string) string {
	return strings.ToLower(strings.TrimSpace(shop))
}
