package catalog

import "encoding/json"

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLIssue  `json:"errors"`
}

type graphQLIssue struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

// PageInfo is the cursor state of a Shopify connection.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type productsData struct {
	Products *productConnection `json:"products"`
}

type productConnection struct {
	PageInfo PageInfo      `json:"pageInfo"`
	Nodes    []productNode `json:"nodes"`
}

type productNode struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Vendor        string `json:"vendor"`
	CreatedAt     string `json:"createdAt"`
	FeaturedImage *struct {
		URL string `json:"url"`
	} `json:"featuredImage"`
	Variants variantConnection `json:"variants"`
}

type variantConnection struct {
	PageInfo PageInfo      `json:"pageInfo"`
	Nodes    []variantNode `json:"nodes"`
}

type variantNode struct {
	ID      string `json:"id"`
	SKU     string `json:"sku"`
	Barcode string `json:"barcode"`
}

type productVariantsData struct {
	Product *struct {
		Variants variantConnection `json:"variants"`
	} `json:"product"`
}

type productDeleteData struct {
	ProductDelete *struct {
		DeletedProductID string      `json:"deletedProductId"`
		UserErrors       []UserError `json:"userErrors"`
	} `json:"productDelete"`
}

// UserError is a validation failure reported by a Shopify mutation.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}
