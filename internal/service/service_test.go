package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dupesweep/internal/catalog"
	"dupesweep/internal/deletion"
	"dupesweep/internal/grouping"
	"dupesweep/internal/model"
	"dupesweep/internal/repository"
)

type fakeCatalog struct {
	mu       sync.Mutex
	products []model.Product
	fetchErr error
	missing  map[string]bool
	failing  map[string]error
	deleted  []string
}

func (f *fakeCatalog) FetchAll(ctx context.Context) ([]model.Product, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.products, nil
}

func (f *fakeCatalog) DeleteProduct(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failing[id]; ok {
		return err
	}
	if f.missing[id] {
		return catalog.ErrNotFound
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type memoryAudit struct {
	mu       sync.Mutex
	outcomes map[string][]deletion.Outcome
}

func (m *memoryAudit) Recorder(shop string) deletion.Recorder {
	return recorderFunc(func(ctx context.Context, o deletion.Outcome) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.outcomes == nil {
			m.outcomes = make(map[string][]deletion.Outcome)
		}
		m.outcomes[shop] = append(m.outcomes[shop], o)
		return nil
	})
}

type recorderFunc func(ctx context.Context, o deletion.Outcome) error

func (f recorderFunc) Record(ctx context.Context, o deletion.Outcome) error { return f(ctx, o) }

var base = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func product(id, title string, ageDays int) model.Product {
	return model.Product{ID: id, Title: title, CreatedAt: base.AddDate(0, 0, ageDays)}
}

func sampleCatalog() *fakeCatalog {
	return &fakeCatalog{products: []model.Product{
		product("p1", "Mug", 0),
		product("p2", "mug ", 1),
		product("p3", "Mug", 2),
		product("p4", "Plate", 0),
		product("p5", "Bowl", 0),
		product("p6", "bowl", 3),
	}}
}

func TestScan(t *testing.T) {
	svc, err := New(sampleCatalog(), Options{Shop: "demo.myshopify.com"})
	require.NoError(t, err)

	r, err := svc.Scan(context.Background(), grouping.ByTitle)
	require.NoError(t, err)

	assert.Equal(t, "demo.myshopify.com", r.Shop)
	assert.Equal(t, grouping.ByTitle, r.Criterion)
	assert.Equal(t, grouping.Stats{Products: 6, Groups: 2, Removable: 3}, r.Stats)
	require.Len(t, r.Groups, 2)
	assert.Equal(t, "mug", r.Groups[0].Key)
	assert.Equal(t, "p1", r.Groups[0].Original.ID)
	assert.Equal(t, "bowl", r.Groups[1].Key)
	assert.False(t, r.ScannedAt.IsZero())
}

func TestScanNoDuplicates(t *testing.T) {
	svc, err := New(&fakeCatalog{products: []model.Product{product("p1", "Mug", 0)}}, Options{})
	require.NoError(t, err)

	r, err := svc.Scan(context.Background(), grouping.BySKU)
	require.NoError(t, err)
	assert.NotNil(t, r.Groups)
	assert.Empty(t, r.Groups)
	assert.Equal(t, grouping.Stats{Products: 1}, r.Stats)
}

func TestScanFetchFailure(t *testing.T) {
	fetchErr := errors.New("HTTP 503")
	svc, err := New(&fakeCatalog{fetchErr: fetchErr}, Options{})
	require.NoError(t, err)

	r, err := svc.Scan(context.Background(), grouping.ByTitle)
	assert.Nil(t, r)
	assert.ErrorIs(t, err, fetchErr)
}

func TestScanInvalidCriterion(t *testing.T) {
	svc, err := New(sampleCatalog(), Options{})
	require.NoError(t, err)

	_, err = svc.Scan(context.Background(), grouping.Criterion(99))
	assert.ErrorIs(t, err, grouping.ErrUnknownCriterion)
}

func TestNewRequiresCatalog(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)
}

func TestDeleteSelected(t *testing.T) {
	cat := sampleCatalog()
	cat.missing = map[string]bool{"p3": true}
	cat.failing = map[string]error{"p6": errors.New("boom")}
	audit := &memoryAudit{}

	svc, err := New(cat, Options{Shop: "demo.myshopify.com", Recorder: audit.Recorder("demo.myshopify.com")})
	require.NoError(t, err)

	res := svc.DeleteSelected(context.Background(), []string{"p2", "p3", "p6", "p2"})
	require.Len(t, res.Outcomes, 3)
	assert.Equal(t, 1, res.Deleted)
	assert.Equal(t, 1, res.AlreadyRemoved)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"p6"}, res.FailedIDs())
	assert.Equal(t, []string{"p2"}, cat.deleted)
	assert.Len(t, audit.outcomes["demo.myshopify.com"], 3)
}

func TestDeleteOriginal(t *testing.T) {
	cat := sampleCatalog()
	svc, err := New(cat, Options{})
	require.NoError(t, err)

	r, err := svc.Scan(context.Background(), grouping.ByTitle)
	require.NoError(t, err)
	mugs := r.Groups[0]

	next, err := svc.DeleteOriginal(context.Background(), mugs)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "p2", next.Original.ID)
	require.Len(t, next.Duplicates, 1)
	assert.Equal(t, "p3", next.Duplicates[0].ID)

	last, err := svc.DeleteOriginal(context.Background(), *next)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "p3", last.Original.ID)
	assert.Empty(t, last.Duplicates)

	gone, err := svc.DeleteOriginal(context.Background(), *last)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Equal(t, []string{"p1", "p2", "p3"}, cat.deleted)
}

func TestDeleteOriginalRemoteFailure(t *testing.T) {
	cat := sampleCatalog()
	cat.failing = map[string]error{"p1": errors.New("throttled")}
	svc, err := New(cat, Options{})
	require.NoError(t, err)

	g := grouping.Group{Key: "mug", Original: cat.products[0], Duplicates: cat.products[1:3]}
	next, err := svc.DeleteOriginal(context.Background(), g)
	assert.Error(t, err)
	assert.Nil(t, next)
}

func TestDeleteMemberNotInGroup(t *testing.T) {
	cat := sampleCatalog()
	svc, err := New(cat, Options{})
	require.NoError(t, err)

	g := grouping.Group{Key: "mug", Original: cat.products[0], Duplicates: cat.products[1:3]}
	_, err = svc.DeleteMember(context.Background(), g, "p9")
	assert.ErrorIs(t, err, deletion.ErrNotMember)
	assert.Empty(t, cat.deleted)
}

func TestStaticSessions(t *testing.T) {
	ctx := context.Background()
	s := NewStaticSessions(
		model.Session{Shop: " Demo.myshopify.com", AccessToken: "shpat_1"},
		model.Session{Shop: "skipped.myshopify.com"},
	)

	sess, err := s.Load(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, "shpat_1", sess.AccessToken)
	assert.Equal(t, "offline_demo.myshopify.com", sess.ID)

	_, err = s.Load(ctx, "skipped.myshopify.com")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	require.NoError(t, s.Delete(ctx, "DEMO.myshopify.com"))
	_, err = s.Load(ctx, "demo.myshopify.com")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestFactory(t *testing.T) {
	ctx := context.Background()
	audit := &memoryAudit{}
	f := &Factory{
		Sessions: NewStaticSessions(model.Session{Shop: "demo.myshopify.com", AccessToken: "shpat_1"}),
		Audit:    audit,
	}

	first, err := f.ForShop(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	second, err := f.ForShop(ctx, "Demo.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, "demo.myshopify.com", first.Shop())
	assert.Same(t, first.catalog, second.catalog)
	assert.NotNil(t, first.recorder)

	f.Forget("demo.myshopify.com")
	third, err := f.ForShop(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	assert.NotSame(t, first.catalog, third.catalog)

	_, err = f.ForShop(ctx, "other.myshopify.com")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	_, err = f.ForShop(ctx, "  ")
	assert.Error(t, err)
}
