package grouping

import (
	"cmp"
	"slices"

	"dupesweep/internal/model"
)

// Group is one set of products sharing a matching key. Original is the
// product to keep, Duplicates the ones to remove, oldest first.
type Group struct {
	Key        string          `json:"key" yaml:"key"`
	Original   model.Product   `json:"original" yaml:"original"`
	Duplicates []model.Product `json:"duplicates" yaml:"duplicates"`
}

// Resolved reports whether the group has nothing left to remove.
func (g Group) Resolved() bool {
	return len(g.Duplicates) == 0
}

// Members returns the original followed by the duplicates.
func (g Group) Members() []model.Product {
	members := make([]model.Product, 0, len(g.Duplicates)+1)
	members = append(members, g.Original)
	return append(members, g.Duplicates...)
}

// Contains reports whether id is the original or one of the duplicates.
func (g Group) Contains(id string) bool {
	if g.Original.ID == id {
		return true
	}
	return slices.ContainsFunc(g.Duplicates, func(p model.Product) bool {
		return p.ID == id
	})
}

// Find partitions products into duplicate groups under c. Only keys shared
// by two or more distinct products produce a group. Groups come out in the
// order their key was first seen.
func Find(products []model.Product, c Criterion) ([]Group, error) {
	if !c.Valid() {
		return nil, ErrUnknownCriterion
	}

	var order []string
	buckets := make(map[string][]model.Product)
	seen := make(map[string]map[string]bool)

	for _, p := range products {
		keys, err := Keys(p, c)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			if seen[k] == nil {
				seen[k] = make(map[string]bool)
				order = append(order, k)
			}
			if seen[k][p.ID] {
				continue
			}
			seen[k][p.ID] = true
			buckets[k] = append(buckets[k], p)
		}
	}

	groups := make([]Group, 0)
	for _, k := range order {
		if g, ok := assemble(k, buckets[k]); ok {
			groups = append(groups, g)
		}
	}
	return groups, nil
}

// assemble sorts members oldest first and splits off the original.
func assemble(key string, members []model.Product) (Group, bool) {
	if len(members) < 2 {
		return Group{}, false
	}
	sorted := slices.Clone(members)
	sortByAge(sorted)
	return Group{
		Key:        key,
		Original:   sorted[0],
		Duplicates: sorted[1:],
	}, true
}

// sortByAge orders by creation time ascending; equal timestamps fall back to
// product ID so the choice of original never depends on fetch order.
func sortByAge(products []model.Product) {
	slices.SortStableFunc(products, func(a, b model.Product) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
