package fields

import "github.com/cuemby/warren/pkg/types"

// registerLink is one entry in a Register's history chain, newest first.
type registerLink struct {
	value   any
	clock   uint64
	storeID uint32
	next    *registerLink
}

// Register is the last-writer-wins scalar field (C3). It keeps a full
// history chain rather than a single value so a remote write bearing an
// older (clock, storeId) than the current head still lands in its correct
// historical position instead of being silently dropped.
type Register struct {
	head     *registerLink
	undoable bool
}

// NewRegister returns a Register seeded with the schema-declared default at
// the sentinel (clock=0, storeId=0) position, per spec §4.3.
func NewRegister(defaultValue any, undoable bool) *Register {
	return &Register{head: &registerLink{value: defaultValue}, undoable: undoable}
}

// Get returns the head value.
func (r *Register) Get() any {
	return r.head.value
}

// Set performs a local write at (clock, storeId) -- the caller's current
// transaction version and store id -- and returns the patch/change pair to
// record against the open transaction.
func (r *Register) Set(clock uint64, storeID uint32, value any) (types.FieldPatch, types.FieldChange) {
	previous := r.head.value
	switch {
	case !r.undoable:
		r.head = &registerLink{value: value, clock: clock, storeID: storeID}
	case r.head.clock == clock && r.head.storeID == storeID:
		r.head = &registerLink{value: value, clock: clock, storeID: storeID, next: r.head.next}
	default:
		r.head = &registerLink{value: value, clock: clock, storeID: storeID, next: r.head}
	}

	patch := types.FieldPatch{
		Kind:     types.FieldKindRegister,
		Register: &types.RegisterPatch{Value: value, Clock: clock, StoreID: storeID},
	}
	change := types.FieldChange{
		Kind:     types.FieldKindRegister,
		Register: &types.RegisterChange{Previous: previous, Current: value},
	}
	return patch, change
}

// ApplyRemote folds an incoming register write into the history chain,
// inserting it just before the first link whose (clock, storeId) is no
// greater than the incoming write's. Used both for remote patches and for
// redo (replaying a previously undone write as-is). ok is true only when
// the visible head value changed.
func (r *Register) ApplyRemote(value any, clock uint64, storeID uint32) (types.FieldChange, bool) {
	var prev *registerLink
	cur := r.head
	for cur != nil && compareClockStore(cur.clock, cur.storeID, clock, storeID) > 0 {
		prev = cur
		cur = cur.next
	}

	link := &registerLink{value: value, clock: clock, storeID: storeID, next: cur}
	if prev != nil {
		prev.next = link
		return types.FieldChange{}, false
	}

	previous := r.head.value
	r.head = link
	return types.FieldChange{
		Kind:     types.FieldKindRegister,
		Register: &types.RegisterChange{Previous: previous, Current: value},
	}, true
}

// Retract removes the link written at (clock, storeId) from the history
// chain, restoring whatever link preceded it as the observable value if it
// was the head. It is the structural inverse of ApplyRemote used to undo a
// single historical write. ok is true only when the visible head value
// changed. A non-undoable register keeps no history, so Retract leaves it
// unchanged.
func (r *Register) Retract(clock uint64, storeID uint32) (types.FieldChange, bool) {
	if !r.undoable {
		return types.FieldChange{}, false
	}
	var prev *registerLink
	cur := r.head
	for cur != nil && !(cur.clock == clock && cur.storeID == storeID) {
		prev = cur
		cur = cur.next
	}
	if cur == nil {
		return types.FieldChange{}, false
	}

	if prev != nil {
		prev.next = cur.next
		return types.FieldChange{}, false
	}

	previous := cur.value
	if cur.next != nil {
		r.head = cur.next
	} else {
		// The seed link is never itself retracted by ordinary undo, but
		// guard against an empty chain rather than leaving head nil.
		r.head = &registerLink{}
	}
	return types.FieldChange{
		Kind:     types.FieldKindRegister,
		Register: &types.RegisterChange{Previous: previous, Current: r.head.value},
	}, true
}
