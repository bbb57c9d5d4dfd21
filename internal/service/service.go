package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"dupesweep/internal/deletion"
	"dupesweep/internal/grouping"
	"dupesweep/internal/model"
	"dupesweep/internal/observability"
)

// Catalog is the remote product store of one shop.
type Catalog interface {
	FetchAll(ctx context.Context) ([]model.Product, error)
	deletion.Deleter
}

// Report is one grouping pass over the full catalog.
type Report struct {
	Shop      string             `json:"shop" yaml:"shop"`
	Criterion grouping.Criterion `json:"criterion" yaml:"criterion"`
	Stats     grouping.Stats     `json:"stats" yaml:"stats"`
	Groups    []grouping.Group   `json:"groups" yaml:"groups"`
	ScannedAt time.Time          `json:"scannedAt" yaml:"scannedAt"`
}

type Options struct {
	Shop        string
	Concurrency int
	// Recorder receives every delete outcome. Optional.
	Recorder deletion.Recorder
}

// Service runs scans and deletions against a single shop's catalog.
type Service struct {
	catalog     Catalog
	shop        string
	concurrency int
	recorder    deletion.Recorder
}

func New(c Catalog, opts Options) (*Service, error) {
	if c == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = deletion.DefaultConcurrency
	}
	return &Service{
		catalog:     c,
		shop:        opts.Shop,
		concurrency: concurrency,
		recorder:    opts.Recorder,
	}, nil
}

func (s *Service) Shop() string {
	return s.shop
}

// Scan fetches the whole catalog and groups it by c. A fetch failure fails
// the scan; no report is built from a partial catalog.
func (s *Service) Scan(ctx context.Context, c grouping.Criterion) (*Report, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", grouping.ErrUnknownCriterion, int(c))
	}

	start := time.Now()
	products, err := s.catalog.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", c, err)
	}

	groups, err := grouping.Find(products, c)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", c, err)
	}

	observability.DuplicateGroups.WithLabelValues(c.String()).Set(float64(len(groups)))

	r := &Report{
		Shop:      s.shop,
		Criterion: c,
		Stats:     grouping.Summarize(len(products), groups),
		Groups:    groups,
		ScannedAt: time.Now().UTC(),
	}
	log.Printf("[Scan] %s by %s: %d products, %d groups, %d removable (%s)",
		s.shop, c, r.Stats.Products, r.Stats.Groups, r.Stats.Removable, time.Since(start).Round(time.Millisecond))
	return r, nil
}

// DeleteSelected deletes every distinct id once and reports each outcome.
func (s *Service) DeleteSelected(ctx context.Context, ids []string) deletion.Result {
	return deletion.DeleteAll(ctx, s.catalog, ids, deletion.Options{
		Concurrency: s.concurrency,
		Recorder:    s.recorder,
	})
}

// DeleteOriginal deletes g's canonical product and returns the group's new
// shape, or nil when the group dissolved.
func (s *Service) DeleteOriginal(ctx context.Context, g grouping.Group) (*grouping.Group, error) {
	return deletion.DeleteOriginal(ctx, s.catalog, g, s.recorder)
}

// DeleteMember deletes one member of g and returns the group's new shape.
func (s *Service) DeleteMember(ctx context.Context, g grouping.Group, id string) (*grouping.Group, error) {
	return deletion.DeleteMember(ctx, s.catalog, g, id, s.recorder)
}
