package catalog

import (
	"context"
	"fmt"
	"log"

	"dupesweep/internal/model"
	"dupesweep/internal/observability"
)

const variantPageSize = 100

const productsQuery = `query ($first: Int!, $cursor: String) {
  products(first: $first, after: $cursor) {
    pageInfo { hasNextPage endCursor }
    nodes {
      id
      title
      vendor
      createdAt
      featuredImage { url(transform: {maxWidth: 60, maxHeight: 60}) }
      variants(first: 100) {
        pageInfo { hasNextPage endCursor }
        nodes { id sku barcode }
      }
    }
  }
}`

const productVariantsQuery = `query ($id: ID!, $first: Int!, $cursor: String) {
  product(id: $id) {
    variants(first: $first, after: $cursor) {
      pageInfo { hasNextPage endCursor }
      nodes { id sku barcode }
    }
  }
}`

// FetchAll pages through the whole catalog and returns every product with all
// of its variants. Pages are requested one after another since each cursor
// comes from the previous page. Any failure aborts the fetch; a partial
// catalog is never returned.
func (c *Client) FetchAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	var cursor *string

	log.Printf("[Catalog] Fetching products for %s", c.shop)

	for page := 1; ; page++ {
		var data productsData
		vars := map[string]any{"first": c.pageSize, "cursor": cursor}
		if err := c.do(ctx, productsQuery, vars, &data); err != nil {
			return nil, fmt.Errorf("fetch products page %d: %w", page, err)
		}
		if data.Products == nil {
			return nil, fmt.Errorf("fetch products page %d: %w: missing products", page, ErrMalformedResponse)
		}

		for _, node := range data.Products.Nodes {
			if node.Variants.PageInfo.HasNextPage {
				rest, err := c.fetchRemainingVariants(ctx, node.ID, node.Variants.PageInfo.EndCursor)
				if err != nil {
					return nil, fmt.Errorf("fetch variants of %s: %w", node.ID, err)
				}
				node.Variants.Nodes = append(node.Variants.Nodes, rest...)
			}
			p, err := toProduct(node)
			if err != nil {
				return nil, fmt.Errorf("fetch products page %d: %w", page, err)
			}
			products = append(products, p)
		}

		observability.CatalogPagesFetched.Inc()
		observability.CatalogProductsFetched.Add(float64(len(data.Products.Nodes)))
		log.Printf("[Catalog] Page %d: %d products so far", page, len(products))

		info := data.Products.PageInfo
		if !info.HasNextPage {
			break
		}
		if info.EndCursor == "" {
			return nil, fmt.Errorf("fetch products page %d: %w: next page without cursor", page, ErrMalformedResponse)
		}
		next := info.EndCursor
		cursor = &next
	}

	log.Printf("[Catalog] Fetched %d products for %s", len(products), c.shop)
	return products, nil
}

func (c *Client) fetchRemainingVariants(ctx context.Context, productID, after string) ([]variantNode, error) {
	var variants []variantNode
	cursor := after

	for {
		var data productVariantsData
		vars := map[string]any{"id": productID, "first": variantPageSize, "cursor": cursor}
		if err := c.do(ctx, productVariantsQuery, vars, &data); err != nil {
			return nil, err
		}
		if data.Product == nil {
			return nil, fmt.Errorf("%w: missing product", ErrMalformedResponse)
		}

		variants = append(variants, data.Product.Variants.Nodes...)

		info := data.Product.Variants.PageInfo
		if !info.HasNextPage {
			return variants, nil
		}
		if info.EndCursor == "" {
			return nil, fmt.Errorf("%w: next variant page without cursor", ErrMalformedResponse)
		}
		cursor = info.EndCursor
	}
}
