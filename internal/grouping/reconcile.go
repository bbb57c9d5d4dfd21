package grouping

import (
	"slices"

	"dupesweep/internal/model"
)

// Reconcile returns the shape g takes once the member deletedID is gone.
// The input group is never modified.
//
// Deleting a duplicate drops it from the list. Deleting the original
// promotes the oldest remaining duplicate. When the original was the last
// member, the group no longer exists and nil is returned. An id that is not
// a member yields an unchanged copy.
func Reconcile(g Group, deletedID string) *Group {
	if g.Original.ID != deletedID {
		next := Group{
			Key:      g.Key,
			Original: g.Original,
			Duplicates: slices.DeleteFunc(slices.Clone(g.Duplicates), func(p model.Product) bool {
				return p.ID == deletedID
			}),
		}
		if next.Duplicates == nil {
			next.Duplicates = []model.Product{}
		}
		return &next
	}

	if len(g.Duplicates) == 0 {
		return nil
	}

	remaining := slices.Clone(g.Duplicates)
	sortByAge(remaining)
	return &Group{
		Key:        g.Key,
		Original:   remaining[0],
		Duplicates: remaining[1:],
	}
}
