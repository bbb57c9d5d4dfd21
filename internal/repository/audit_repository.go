package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"dupesweep/internal/deletion"
)

// AuditEntry is one stored delete attempt.
type AuditEntry struct {
	ID          uuid.UUID
	Shop        string
	ProductID   string
	Status      deletion.Status
	Error       string
	AttemptedAt time.Time
}

// AuditRepository appends delete attempts to the product_delete_audit table.
type AuditRepository struct {
	DB *pgxpool.Pool
}

func (r *AuditRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS product_delete_audit (
			id           UUID PRIMARY KEY,
			shop         TEXT NOT NULL,
			product_id   TEXT NOT NULL,
			status       TEXT NOT NULL,
			error        TEXT NOT NULL DEFAULT '',
			attempted_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS product_delete_audit_shop_idx
			ON product_delete_audit (shop, attempted_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

func (r *AuditRepository) Save(ctx context.Context, shop string, o deletion.Outcome) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO product_delete_audit (id, shop, product_id, status, error, attempted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), shop, o.ID, string(o.Status), o.Error, o.AttemptedAt)
	if err != nil {
		return fmt.Errorf("save audit entry for %s: %w", o.ID, err)
	}
	return nil
}

// Recent returns the newest entries for shop, newest first.
func (r *AuditRepository) Recent(ctx context.Context, shop string, limit int) ([]AuditEntry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, shop, product_id, status, error, attempted_at
		FROM product_delete_audit
		WHERE shop = $1
		ORDER BY attempted_at DESC
		LIMIT $2
	`, shop, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var status string
		if err := rows.Scan(&e.ID, &e.Shop, &e.ProductID, &status, &e.Error, &e.AttemptedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Status = deletion.Status(status)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Recorder binds the repository to one shop for use by deletion.
func (r *AuditRepository) Recorder(shop string) deletion.Recorder {
	return shopRecorder{repo: r, shop: shop}
}

type shopRecorder struct {
	repo *AuditRepository
	shop string
}

func (s shopRecorder) Record(ctx context.Context, o deletion.Outcome) error {
	return s.repo.Save(ctx, s.shop, o)
}
