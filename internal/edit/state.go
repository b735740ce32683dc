// Package edit models which record of a list is being edited.
package edit

import "github.com/program-ledger/console/internal/types"

type Mode int

const (
	Viewing Mode = iota
	Editing
)

// State is either viewing, or editing exactly one record with a draft of
// its editable fields. There is no way to hold two edit buffers at once.
type State[T any] struct {
	Mode     Mode
	TargetID types.ID
	Draft    T
}

// View returns the viewing state.
func View[T any]() State[T] {
	return State[T]{Mode: Viewing}
}

// Edit returns the state of editing the record id with draft.
func Edit[T any](id types.ID, draft T) State[T] {
	return State[T]{Mode: Editing, TargetID: id, Draft: draft}
}

// IsEditing reports whether the record id is being edited.
func (s State[T]) IsEditing(id types.ID) bool {
	return s.Mode == Editing && s.TargetID == id
}

// Active reports whether any record is being edited.
func (s State[T]) Active() bool {
	return s.Mode == Editing
}

// Find builds the state for the record with the given id from list. If no
// record matches, the state is viewing.
func Find[R any, T any](list []R, id *types.ID, idOf func(R) types.ID, draftOf func(R) T) State[T] {
	if id == nil {
		return View[T]()
	}

	for _, r := range list {
		if idOf(r).Equal(id) {
			return Edit(*id, draftOf(r))
		}
	}

	return View[T]()
}
