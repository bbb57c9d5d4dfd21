package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultAPIVersion = "2024-10"
	DefaultPageSize   = 100
	MaxPageSize       = 250
)

// Options tune a Client. Zero values fall back to defaults.
type Options struct {
	APIVersion        string
	PageSize          int
	RequestsPerSecond float64
	HTTPClient        *http.Client
	// Endpoint overrides the GraphQL URL derived from the shop domain.
	Endpoint string
}

// Client talks to the Shopify Admin GraphQL API of a single shop. It is safe
// for concurrent use; every call waits on a shared rate limiter.
type Client struct {
	shop     string
	endpoint string
	token    string
	pageSize int
	http     *http.Client
	limiter  *rate.Limiter
}

func NewClient(shop, token string, opts Options) (*Client, error) {
	shop = strings.TrimSpace(shop)
	if shop == "" {
		return nil, fmt.Errorf("shop domain cannot be empty")
	}
	if token == "" {
		return nil, fmt.Errorf("access token cannot be empty")
	}

	version := opts.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		return nil, fmt.Errorf("page size too large (got %d, max %d)", pageSize, MaxPageSize)
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shop, version)
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		shop:     shop,
		endpoint: endpoint,
		token:    token,
		pageSize: pageSize,
		http:     httpClient,
		limiter:  rate.NewLimiter(limit, 1),
	}, nil
}

// Shop returns the shop domain the client is bound to.
func (c *Client) Shop() string {
	return c.shop
}

// do runs one GraphQL operation and decodes its data into out.
func (c *Client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		select {
		case <-ctx.Done():
			return fmt.Errorf("request was cancelled: %w", ctx.Err())
		default:
			return fmt.Errorf("failed to execute request: %w", err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var envelope graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(envelope.Errors) > 0 {
		gqlErr := &GraphQLError{}
		for _, issue := range envelope.Errors {
			gqlErr.Messages = append(gqlErr.Messages, issue.Message)
			gqlErr.Codes = append(gqlErr.Codes, issue.Extensions.Code)
		}
		return gqlErr
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return fmt.Errorf("%w: empty data", ErrMalformedResponse)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}
