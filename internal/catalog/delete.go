package catalog

import (
	"context"
	"fmt"
)

const productDeleteMutation = `mutation productDelete($id: ID!) {
  productDelete(input: {id: $id}) {
    deletedProductId
    userErrors { field message }
  }
}`

// DeleteProduct removes one product from the store. A product that no longer
// exists yields an error matching ErrNotFound.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("product id cannot be empty")
	}

	var data productDeleteData
	if err := c.do(ctx, productDeleteMutation, map[string]any{"id": id}, &data); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if data.ProductDelete == nil {
		return fmt.Errorf("delete product %s: %w: missing productDelete", id, ErrMalformedResponse)
	}
	if errs := data.ProductDelete.UserErrors; len(errs) > 0 {
		if missingProduct(errs) {
			return fmt.Errorf("delete product %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete product %s: %w", id, UserErrors(errs))
	}
	if data.ProductDelete.DeletedProductID == "" {
		return fmt.Errorf("delete product %s: %w: no deleted id", id, ErrMalformedResponse)
	}
	return nil
}
