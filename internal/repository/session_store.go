package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dupesweep/internal/model"
)

const sessionKeyPrefix = "shopify_sessions_"

// SessionStore keeps offline sessions in Redis, one JSON value per shop.
type SessionStore struct {
	Client *redis.Client
	// TTL of zero keeps sessions until the shop uninstalls.
	TTL time.Duration
}

func sessionKey(shop string) string {
	return sessionKeyPrefix + OfflineSessionID(shop)
}

func (s *SessionStore) Load(ctx context.Context, shop string) (*model.Session, error) {
	val, err := s.Client.Get(ctx, sessionKey(shop)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, shop)
	}
	if err != nil {
		return nil, fmt.Errorf("load session for %s: %w", shop, err)
	}

	var sess model.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("decode session for %s: %w", shop, err)
	}
	return &sess, nil
}

func (s *SessionStore) Save(ctx context.Context, sess model.Session) error {
	if sess.ID == "" {
		sess.ID = OfflineSessionID(sess.Shop)
	}
	sess.UpdatedAt = time.Now().UTC()

	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session for %s: %w", sess.Shop, err)
	}
	if err := s.Client.Set(ctx, sessionKey(sess.Shop), b, s.TTL).Err(); err != nil {
		return fmt.Errorf("save session for %s: %w", sess.Shop, err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, shop string) error {
	if err := s.Client.Del(ctx, sessionKey(shop)).Err(); err != nil {
		return fmt.Errorf("delete session for %s: %w", shop, err)
	}
	return nil
}
