package plan

import (
	"context"
	"errors"
	"fmt"

	"workouttracker/internal/store"
)

// ErrIndexOutOfRange is returned when a group move refers to a missing position
var ErrIndexOutOfRange = errors.New("group index out of range")

// OrderCommitter persists new exercise order indices.
// *store.Store satisfies it.
type OrderCommitter interface {
	UpdateExerciseOrder(ctx context.Context, updates []store.OrderUpdate) error
}

// MoveGroup returns a copy of groups with the group at from moved to to
func MoveGroup(groups []Group, from, to int) ([]Group, error) {
	if from < 0 || from >= len(groups) || to < 0 || to >= len(groups) {
		return nil, fmt.Errorf("moving group %d to %d of %d: %w", from, to, len(groups), ErrIndexOutOfRange)
	}

	moved := make([]Group, 0, len(groups))
	moved = append(moved, groups[:from]...)
	moved = append(moved, groups[from+1:]...)

	result := make([]Group, 0, len(groups))
	result = append(result, moved[:to]...)
	result = append(result, groups[from])
	result = append(result, moved[to:]...)
	return result, nil
}

// Renumber assigns order indices 0..n-1 to every exercise, group by group and
// then member by member. It mutates the exercises in groups and returns the
// updates to persist.
func Renumber(groups []Group) []store.OrderUpdate {
	var updates []store.OrderUpdate
	next := 0
	for gi := range groups {
		for ei := range groups[gi].Exercises {
			ex := &groups[gi].Exercises[ei]
			ex.OrderIndex = next
			updates = append(updates, store.OrderUpdate{ExerciseID: ex.ID, OrderIndex: next})
			next++
		}
	}
	return updates
}

// RenumberAfterReorder renumbers groups in place and commits the result.
// On a commit error the in-memory order is still consistent; retrying is up
// to the caller.
func RenumberAfterReorder(ctx context.Context, committer OrderCommitter, groups []Group) error {
	updates := Renumber(groups)
	if len(updates) == 0 {
		return nil
	}
	if err := committer.UpdateExerciseOrder(ctx, updates); err != nil {
		return fmt.Errorf("saving exercise order: %w", err)
	}
	return nil
}
