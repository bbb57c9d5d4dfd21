package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"dupesweep/internal/catalog"
	"dupesweep/internal/deletion"
)

// AuditLog hands out a Recorder bound to one shop.
type AuditLog interface {
	Recorder(shop string) deletion.Recorder
}

// Factory builds a Service for any installed shop from its stored session.
// Catalog clients are reused per shop and token so concurrent requests for
// one shop share a rate limiter.
type Factory struct {
	Sessions    SessionStore
	Catalog     catalog.Options
	Concurrency int
	// Audit is optional.
	Audit AuditLog

	mu      sync.Mutex
	clients map[string]*catalog.Client
}

func (f *Factory) ForShop(ctx context.Context, shop string) (*Service, error) {
	shop = normalizeShop(shop)
	if shop == "" {
		return nil, fmt.Errorf("shop domain cannot be empty")
	}
	if f.Sessions == nil {
		return nil, fmt.Errorf("no session store configured")
	}

	sess, err := f.Sessions.Load(ctx, shop)
	if err != nil {
		return nil, err
	}

	client, err := f.client(shop, sess.AccessToken)
	if err != nil {
		return nil, err
	}

	opts := Options{Shop: shop, Concurrency: f.Concurrency}
	if f.Audit != nil {
		opts.Recorder = f.Audit.Recorder(shop)
	}
	return New(client, opts)
}

// Forget drops the cached client of shop, e.g. after an uninstall.
func (f *Factory) Forget(shop string) {
	shop = normalizeShop(shop)
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.clients {
		if strings.HasPrefix(key, shop+"\x00") {
			delete(f.clients, key)
		}
	}
}

func (f *Factory) client(shop, token string) (*catalog.Client, error) {
	key := shop + "\x00" + token

	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.clients[key]; ok {
		return c, nil
	}

	c, err := catalog.NewClient(shop, token, f.Catalog)
	if err != nil {
		return nil, fmt.Errorf("create catalog client for %s: %w", shop, err)
	}
	if f.clients == nil {
		f.clients = make(map[string]*catalog.Client)
	}
	f.clients[key] = c
	return c, nil
}
