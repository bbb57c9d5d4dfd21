package grouping

import (
	"fmt"
	"strings"

	"dupesweep/internal/model"
)

// keySeparator joins the parts of a composite key.
const keySeparator = "|"

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Keys returns every matching key p contributes under c. A product may
// contribute no key (no vendor, no SKU-bearing variant) or several (one per
// qualifying variant); repeated keys are returned as-is.
func Keys(p model.Product, c Criterion) ([]string, error) {
	switch c {
	case ByTitle:
		return []string{normalize(p.Title)}, nil
	case ByVendor:
		if v := normalize(p.Vendor); v != "" {
			return []string{v}, nil
		}
		return nil, nil
	case BySKU:
		return variantKeys(p, func(v model.Variant) string {
			return normalize(v.SKU)
		}), nil
	case ByBarcode:
		return variantKeys(p, func(v model.Variant) string {
			return normalize(v.Barcode)
		}), nil
	case ByTitleSKU:
		title := normalize(p.Title)
		return variantKeys(p, func(v model.Variant) string {
			return compose(title, normalize(v.SKU))
		}), nil
	case ByTitleBarcode:
		title := normalize(p.Title)
		return variantKeys(p, func(v model.Variant) string {
			return compose(title, normalize(v.Barcode))
		}), nil
	case BySKUBarcode:
		return variantKeys(p, func(v model.Variant) string {
			sku, barcode := normalize(v.SKU), normalize(v.Barcode)
			if sku == "" || barcode == "" {
				return ""
			}
			return sku + keySeparator + barcode
		}), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCriterion, int(c))
	}
}

// compose joins a product-level part with a variant-level part, yielding
// nothing when the variant part is absent.
func compose(productPart, variantPart string) string {
	if variantPart == "" {
		return ""
	}
	return productPart + keySeparator + variantPart
}

// variantKeys applies key to every variant, skipping empty results.
func variantKeys(p model.Product, key func(model.Variant) string) []string {
	var keys []string
	for _, v := range p.Variants {
		if k := key(v); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
