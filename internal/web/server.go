package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/rs/cors"

	"dupesweep/internal/observability"
	"dupesweep/internal/service"
)

// ShopServices resolves the Service of an installed shop.
type ShopServices interface {
	ForShop(ctx context.Context, shop string) (*service.Service, error)
}

type Options struct {
	Services    ShopServices
	Sessions    service.SessionStore
	DefaultShop string
	// APISecret signs webhook payloads. Webhooks are rejected when empty.
	APISecret      string
	AllowedOrigins []string
	// OnUninstall runs after a shop's session was dropped.
	OnUninstall func(shop string)
}

type Server struct {
	services    ShopServices
	sessions    service.SessionStore
	defaultShop string
	secret      []byte
	origins     []string
	onUninstall func(shop string)
}

func NewServer(opts Options) (*Server, error) {
	if opts.Services == nil {
		return nil, fmt.Errorf("shop services cannot be nil")
	}
	if opts.Sessions == nil {
		return nil, fmt.Errorf("session store cannot be nil")
	}
	if opts.APISecret == "" {
		log.Printf("[Web] SHOPIFY_API_SECRET not set, webhooks will be rejected")
	}
	return &Server{
		services:    opts.Services,
		sessions:    opts.Sessions,
		defaultShop: opts.DefaultShop,
		secret:      []byte(opts.APISecret),
		origins:     opts.AllowedOrigins,
		onUninstall: opts.OnUninstall,
	}, nil
}

// Handler returns the full route table wrapped in CORS and request
// instrumentation.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/duplicates", s.handleDuplicates)
	mux.HandleFunc("POST /api/products/delete", s.handleDeleteProducts)
	mux.HandleFunc("POST /api/groups/delete-original", s.handleDeleteOriginal)
	mux.HandleFunc("POST /api/groups/delete-member", s.handleDeleteMember)
	mux.HandleFunc("GET /duplicates", s.handleReport)
	mux.HandleFunc("POST /webhooks/{topic}", s.handleWebhook)
	mux.Handle("GET /metrics", observability.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", shopHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return instrument(c.Handler(mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Web] Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Printf("[Web] Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

const shopHeader = "X-Shopify-Shop-Domain"

// shopFor picks the shop a request acts on: the Shopify header, then the
// shop query parameter, then the configured default.
func (s *Server) shopFor(r *http.Request) string {
	if shop := strings.TrimSpace(r.Header.Get(shopHeader)); shop != "" {
		return shop
	}
	if shop := strings.TrimSpace(r.URL.Query().Get("shop")); shop != "" {
		return shop
	}
	return s.defaultShop
}
