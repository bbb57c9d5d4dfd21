package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dupesweep/internal/db"
	"dupesweep/internal/deletion"
	"dupesweep/internal/model"
)

// These tests need live services and skip unless TEST_DATABASE_URL or
// TEST_REDIS_URL is set.

func testPostgresURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return url
}

func TestSessionRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	conn, err := db.New(ctx, testPostgresURL(t))
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS "Session" (
			id TEXT PRIMARY KEY,
			shop TEXT NOT NULL,
			state TEXT NOT NULL,
			"isOnline" BOOLEAN NOT NULL DEFAULT false,
			scope TEXT,
			"accessToken" TEXT NOT NULL
		)`)
	require.NoError(t, err)

	repo := &SessionRepository{DB: conn}
	shop := "repo-test.myshopify.com"
	t.Cleanup(func() { _ = repo.Delete(ctx, shop) })

	_, err = repo.Load(ctx, shop)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, repo.Save(ctx, model.Session{Shop: shop, AccessToken: "shpat_one", Scope: "write_products"}))
	require.NoError(t, repo.Save(ctx, model.Session{Shop: shop, AccessToken: "shpat_two", Scope: "write_products"}))

	sess, err := repo.Load(ctx, shop)
	require.NoError(t, err)
	assert.Equal(t, "offline_"+shop, sess.ID)
	assert.Equal(t, "shpat_two", sess.AccessToken)

	require.NoError(t, repo.Delete(ctx, shop))
	_, err = repo.Load(ctx, shop)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAuditRepository(t *testing.T) {
	ctx := context.Background()
	pool, err := db.NewPool(ctx, testPostgresURL(t))
	require.NoError(t, err)
	defer pool.Close()

	repo := &AuditRepository{DB: pool}
	require.NoError(t, repo.EnsureSchema(ctx))

	shop := "audit-test-" + time.Now().Format("150405.000000") + ".myshopify.com"
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM product_delete_audit WHERE shop = $1`, shop)
	})

	rec := repo.Recorder(shop)
	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, rec.Record(ctx, deletion.Outcome{ID: "p1", Status: deletion.StatusDeleted, AttemptedAt: now.Add(-time.Minute)}))
	require.NoError(t, rec.Record(ctx, deletion.Outcome{ID: "p2", Status: deletion.StatusFailed, Error: "boom", AttemptedAt: now}))

	entries, err := repo.Recent(ctx, shop, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "p2", entries[0].ProductID)
	assert.Equal(t, deletion.StatusFailed, entries[0].Status)
	assert.Equal(t, "boom", entries[0].Error)
	assert.Equal(t, "p1", entries[1].ProductID)
}

func TestRedisSessionStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	ctx := context.Background()
	store := &SessionStore{Client: client, TTL: time.Minute}
	shop := "redis-test.myshopify.com"
	t.Cleanup(func() { _ = store.Delete(ctx, shop) })

	_, err = store.Load(ctx, shop)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, store.Save(ctx, model.Session{Shop: shop, AccessToken: "shpat_r"}))
	sess, err := store.Load(ctx, shop)
	require.NoError(t, err)
	assert.Equal(t, "shpat_r", sess.AccessToken)
	assert.Equal(t, "offline_"+shop, sess.ID)

	require.NoError(t, store.Delete(ctx, shop))
	_, err = store.Load(ctx, shop)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestOfflineSessionID(t *testing.T) {
	assert.Equal(t, "offline_demo.myshopify.com", OfflineSessionID("demo.myshopify.com"))
	assert.Equal(t, "shopify_sessions_offline_demo.myshopify.com", sessionKey("demo.myshopify.com"))
}
