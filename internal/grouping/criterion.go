package grouping

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCriterion is returned for any criterion name outside the
// supported set.
var ErrUnknownCriterion = errors.New("unrecognized criterion")

// Criterion selects which product attributes decide that two products are
// duplicates. The zero value is not a valid criterion.
type Criterion int

const (
	ByTitle Criterion = iota + 1
	BySKU
	ByTitleSKU
	ByVendor
	ByBarcode
	ByTitleBarcode
	BySKUBarcode
)

var criterionNames = map[Criterion]string{
	ByTitle:        "title",
	BySKU:          "sku",
	ByTitleSKU:     "title+sku",
	ByVendor:       "vendor",
	ByBarcode:      "barcode",
	ByTitleBarcode: "title+barcode",
	BySKUBarcode:   "sku+barcode",
}

// Criteria lists every supported criterion in display order.
func Criteria() []Criterion {
	return []Criterion{ByTitle, BySKU, ByTitleSKU, ByVendor, ByBarcode, ByTitleBarcode, BySKUBarcode}
}

// ParseCriterion maps a criterion name such as "title+sku" to its value.
// Names are matched after trimming surrounding whitespace; nothing is
// defaulted.
func ParseCriterion(s string) (Criterion, error) {
	name := strings.TrimSpace(s)
	for c, n := range criterionNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCriterion, s)
}

func (c Criterion) Valid() bool {
	_, ok := criterionNames[c]
	return ok
}

func (c Criterion) String() string {
	if n, ok := criterionNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Criterion(%d)", int(c))
}

func (c Criterion) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCriterion, int(c))
	}
	return []byte(c.String()), nil
}

func (c *Criterion) UnmarshalText(text []byte) error {
	parsed, err := ParseCriterion(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
