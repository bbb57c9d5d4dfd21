package deletion

import (
	"context"
	"errors"
	"fmt"

	"dupesweep/internal/grouping"
)

// ErrNotMember is returned when the id to delete is not part of the group
// the caller handed in.
var ErrNotMember = errors.New("product is not a member of the group")

// DeleteMember deletes one member of g from the store, then returns the
// group's new shape. The caller's group is only a snapshot: a member that is
// already gone from the store counts as deleted. If the remote delete fails
// the error is returned and no new shape is produced. A nil group with a nil
// error means the group no longer exists.
func DeleteMember(ctx context.Context, d Deleter, g grouping.Group, id string, rec Recorder) (*grouping.Group, error) {
	if !g.Contains(id) {
		return nil, fmt.Errorf("%w: %s (group %q)", ErrNotMember, id, g.Key)
	}

	o := attempt(ctx, d, id, rec)
	if o.Status == StatusFailed {
		return nil, o.Err
	}
	return grouping.Reconcile(g, id), nil
}

// DeleteOriginal deletes the canonical member of g and promotes the next
// oldest member.
func DeleteOriginal(ctx context.Context, d Deleter, g grouping.Group, rec Recorder) (*grouping.Group, error) {
	return DeleteMember(ctx, d, g, g.Original.ID, rec)
}
