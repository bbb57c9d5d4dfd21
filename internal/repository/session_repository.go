package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dupesweep/internal/model"
)

// ErrSessionNotFound means no offline session is stored for the shop.
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository reads offline sessions from the "Session" table the
// app's auth layer writes (one row per session, Prisma column naming).
type SessionRepository struct {
	DB *sql.DB
}

func (r *SessionRepository) Load(ctx context.Context, shop string) (*model.Session, error) {
	var s model.Session
	var scope sql.NullString
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, shop, "accessToken", scope
		FROM "Session"
		WHERE shop = $1 AND "isOnline" = false
		ORDER BY id
		LIMIT 1
	`, shop).Scan(&s.ID, &s.Shop, &s.AccessToken, &scope)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, shop)
	}
	if err != nil {
		return nil, fmt.Errorf("load session for %s: %w", shop, err)
	}
	s.Scope = scope.String
	return &s, nil
}

func (r *SessionRepository) Save(ctx context.Context, s model.Session) error {
	if s.ID == "" {
		s.ID = OfflineSessionID(s.Shop)
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO "Session" (id, shop, state, "isOnline", scope, "accessToken")
		VALUES ($1, $2, '', false, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET shop = EXCLUDED.shop, scope = EXCLUDED.scope, "accessToken" = EXCLUDED."accessToken"
	`, s.ID, s.Shop, s.Scope, s.AccessToken)
	if err != nil {
		return fmt.Errorf("save session for %s: %w", s.Shop, err)
	}
	return nil
}

// Delete removes every session of the shop, online and offline.
func (r *SessionRepository) Delete(ctx context.Context, shop string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM "Session" WHERE shop = $1`, shop); err != nil {
		return fmt.Errorf("delete sessions for %s: %w", shop, err)
	}
	return nil
}

// OfflineSessionID is the id Shopify's session storage uses for a shop's
// offline session.
func OfflineSessionID(shop string) string {
	return "offline_" + shop
}
