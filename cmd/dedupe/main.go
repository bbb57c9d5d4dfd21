package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"dupesweep/internal/catalog"
	"dupesweep/internal/config"
	"dupesweep/internal/db"
	"dupesweep/internal/model"
	"dupesweep/internal/repository"
	"dupesweep/internal/service"
)

var rootCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Find and remove duplicate products in a Shopify catalog",
	Long: `dedupe scans a shop's product catalog, groups products that share a
matching attribute (title, SKU, barcode, vendor or a combination) and deletes
the duplicates, keeping the oldest product of each group.

Configuration is read from the environment and .env (SHOPIFY_SHOP,
SHOPIFY_ACCESS_TOKEN, SESSION_STORAGE, DATABASE_URL, ...).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("shop", "", "shop domain (defaults to SHOPIFY_SHOP)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds everything a command needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	sessions service.SessionStore
	factory  *service.Factory
	audit    *repository.AuditRepository
	closers  []func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	if err := a.openSessions(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.factory = &service.Factory{
		Sessions: a.sessions,
		Catalog: catalog.Options{
			APIVersion:        cfg.APIVersion,
			PageSize:          cfg.PageSize,
			RequestsPerSecond: cfg.RequestsPerSecond,
		},
		Concurrency: cfg.DeleteConcurrency,
	}

	if cfg.AuditEnabled {
		audit, err := a.openAudit(ctx)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.factory.Audit = audit
	}
	return a, nil
}

func (a *app) openSessions(ctx context.Context) error {
	switch a.cfg.SessionStorage {
	case config.SessionStoragePostgres:
		conn, err := db.New(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { conn.Close() })
		a.sessions = &repository.SessionRepository{DB: conn}
		log.Printf("[Sessions] Using postgres session storage")

	case config.SessionStorageRedis:
		client := redis.NewClient(redisOptions(a.cfg.RedisURL))
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return fmt.Errorf("ping redis: %w", err)
		}
		a.closers = append(a.closers, func() { client.Close() })
		a.sessions = &repository.SessionStore{Client: client}
		log.Printf("[Sessions] Using redis session storage")

	default:
		a.sessions = service.NewStaticSessions(model.Session{
			Shop:        a.cfg.ShopDomain,
			AccessToken: a.cfg.AccessToken,
		})
	}
	return nil
}

func (a *app) openAudit(ctx context.Context) (*repository.AuditRepository, error) {
	pool, err := db.NewPool(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, pool.Close)

	audit := &repository.AuditRepository{DB: pool}
	if err := audit.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	a.audit = audit
	return audit, nil
}

// redisOptions accepts both a redis:// URL and a bare host:port.
func redisOptions(raw string) *redis.Options {
	if strings.Contains(raw, "://") {
		if opts, err := redis.ParseURL(raw); err == nil {
			return opts
		}
	}
	return &redis.Options{Addr: raw}
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// shop returns the --shop flag or the configured default.
func (a *app) shop(cmd *cobra.Command) string {
	if shop, _ := cmd.Flags().GetString("shop"); shop != "" {
		return shop
	}
	return a.cfg.ShopDomain
}

// serviceFor opens the app and resolves the requested shop's service.
func serviceFor(cmd *cobra.Command) (*app, *service.Service, error) {
	a, err := newApp(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	svc, err := a.factory.ForShop(cmd.Context(), a.shop(cmd))
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, svc, nil
}
