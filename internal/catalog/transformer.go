package catalog

import (
	"fmt"
	"time"

	"dupesweep/internal/model"
)

func toProduct(n productNode) (model.Product, error) {
	if n.ID == "" {
		return model.Product{}, fmt.Errorf("%w: product without id", ErrMalformedResponse)
	}
	createdAt, err := time.Parse(time.RFC3339, n.CreatedAt)
	if err != nil {
		return model.Product{}, fmt.Errorf("%w: product %s createdAt %q: %v", ErrMalformedResponse, n.ID, n.CreatedAt, err)
	}

	p := model.Product{
		ID:        n.ID,
		Title:     n.Title,
		Vendor:    n.Vendor,
		CreatedAt: createdAt.UTC(),
	}
	if n.FeaturedImage != nil {
		p.ImageURL = n.FeaturedImage.URL
	}
	for _, v := range n.Variants.Nodes {
		p.Variants = append(p.Variants, model.Variant{
			ID:      v.ID,
			SKU:     v.SKU,
			Barcode: v.Barcode,
		})
	}
	return p, nil
}
