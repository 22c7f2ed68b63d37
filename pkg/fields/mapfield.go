package fields

import (
	"sort"

	"github.com/cuemby/warren/pkg/omap"
	"github.com/cuemby/warren/pkg/types"
)

// mapLink is one entry in a map key's history chain, newest first --
// structurally the same idea as registerLink, plus a present flag since a
// map key (unlike a register) can be visibly absent.
type mapLink struct {
	value   any
	present bool
	clock   uint64
	storeID uint32
	next    *mapLink
}

// MapField is the last-writer-wins field keyed by user string (C5): an
// omap.Map from key to the head of that key's history chain. A key with no
// chain, or whose chain head has present=false, reads as absent.
type MapField struct {
	chains   *omap.Map[*mapLink]
	undoable bool
}

// NewMapField returns an empty MapField.
func NewMapField(undoable bool) *MapField {
	return &MapField{chains: omap.New[*mapLink](), undoable: undoable}
}

// Get returns the visible value for key.
func (m *MapField) Get(key string) (any, bool) {
	chain, ok := m.chains.Get(key)
	if !ok || !chain.present {
		return nil, false
	}
	return chain.value, true
}

// Has reports whether key is currently present.
func (m *MapField) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// PresentKeys returns the currently visible keys, in sorted order.
func (m *MapField) PresentKeys() []string {
	var keys []string
	for key, chain := range m.chains.Iter() {
		if chain.present {
			keys = append(keys, key)
		}
	}
	return keys
}

func (m *MapField) writeChain(existing *mapLink, clock uint64, storeID uint32, value any, present bool) *mapLink {
	switch {
	case existing == nil, !m.undoable:
		return &mapLink{value: value, present: present, clock: clock, storeID: storeID}
	case existing.clock == clock && existing.storeID == storeID:
		return &mapLink{value: value, present: present, clock: clock, storeID: storeID, next: existing.next}
	default:
		return &mapLink{value: value, present: present, clock: clock, storeID: storeID, next: existing}
	}
}

func (m *MapField) writeOne(clock uint64, storeID uint32, key string, value any, present bool) (types.MapEntryPatch, types.MapChange) {
	existing, _ := m.chains.Get(key)
	var previous any
	if existing != nil && existing.present {
		previous = existing.value
	}
	m.chains.Set(key, m.writeChain(existing, clock, storeID, value, present))

	var current any
	if present {
		current = value
	}
	entry := types.MapEntryPatch{Value: value, Present: present, Clock: clock, StoreID: storeID}
	change := types.MapChange{Key: key, Previous: previous, Current: current}
	return entry, change
}

// Set writes key = value locally, per spec §4.5.
func (m *MapField) Set(clock uint64, storeID uint32, key string, value any) (types.FieldPatch, types.FieldChange) {
	entry, change := m.writeOne(clock, storeID, key, value, true)
	return types.FieldPatch{Kind: types.FieldKindMap, Map: types.MapPatch{key: entry}},
		types.FieldChange{Kind: types.FieldKindMap, Map: []types.MapChange{change}}
}

// Delete removes key locally. It is a no-op on an already-absent key, per
// spec §4.5 step 1.
func (m *MapField) Delete(clock uint64, storeID uint32, key string) (types.FieldPatch, types.FieldChange) {
	if !m.Has(key) {
		return types.FieldPatch{Kind: types.FieldKindMap, Map: types.MapPatch{}}, types.FieldChange{Kind: types.FieldKindMap}
	}
	entry, change := m.writeOne(clock, storeID, key, nil, false)
	return types.FieldPatch{Kind: types.FieldKindMap, Map: types.MapPatch{key: entry}},
		types.FieldChange{Kind: types.FieldKindMap, Map: []types.MapChange{change}}
}

// Clear deletes every currently present key, aggregated into one patch and
// one change set, per spec §4.5 ("clear() := delete each current key").
func (m *MapField) Clear(clock uint64, storeID uint32) (types.FieldPatch, types.FieldChange) {
	patch := types.MapPatch{}
	var changes []types.MapChange
	for _, key := range m.PresentKeys() {
		entry, change := m.writeOne(clock, storeID, key, nil, false)
		patch[key] = entry
		changes = append(changes, change)
	}
	return types.FieldPatch{Kind: types.FieldKindMap, Map: patch}, types.FieldChange{Kind: types.FieldKindMap, Map: changes}
}

// applyOne walks head's chain to find where (clock, storeId) belongs,
// mirroring Register.ApplyRemote, and returns the resulting chain head,
// the previously visible value (if the head moved), and whether it moved.
func (m *MapField) applyOne(head *mapLink, value any, present bool, clock uint64, storeID uint32) (*mapLink, any, bool) {
	var prev *mapLink
	cur := head
	for cur != nil && compareClockStore(cur.clock, cur.storeID, clock, storeID) > 0 {
		prev = cur
		cur = cur.next
	}

	link := &mapLink{value: value, present: present, clock: clock, storeID: storeID, next: cur}
	if prev != nil {
		prev.next = link
		return head, nil, false
	}

	var previous any
	if head != nil && head.present {
		previous = head.value
	}
	return link, previous, true
}

// ApplyRemote folds an incoming (or redone) map patch into the field, one
// key at a time, using the same (clock, storeId) history-chain ordering
// as Register.
func (m *MapField) ApplyRemote(patch types.MapPatch) types.FieldChange {
	var changes []types.MapChange
	for _, key := range sortedMapKeys(patch) {
		entry := patch[key]
		existing, _ := m.chains.Get(key)
		newHead, previous, changed := m.applyOne(existing, entry.Value, entry.Present, entry.Clock, entry.StoreID)
		m.chains.Set(key, newHead)
		if changed {
			var current any
			if newHead.present {
				current = newHead.value
			}
			changes = append(changes, types.MapChange{Key: key, Previous: previous, Current: current})
		}
	}
	return types.FieldChange{Kind: types.FieldKindMap, Map: changes}
}

// retractOne removes the link written at (clock, storeId) from head's
// chain -- the structural inverse of applyOne, used to undo a single
// historical write. Unlike Register there is no seed link, so retracting a
// key's only write empties its chain back to fully untouched.
func (m *MapField) retractOne(head *mapLink, clock uint64, storeID uint32) (*mapLink, any, bool) {
	var prev *mapLink
	cur := head
	for cur != nil && !(cur.clock == clock && cur.storeID == storeID) {
		prev = cur
		cur = cur.next
	}
	if cur == nil {
		return head, nil, false
	}
	if prev != nil {
		prev.next = cur.next
		return head, nil, false
	}

	var previous any
	if cur.present {
		previous = cur.value
	}
	newHead := cur.next
	return newHead, previous, true
}

// Retract is the undo-side inverse of ApplyRemote: it removes the exact
// historical writes named in patch (by clock/storeId, one per key) rather
// than applying new ones. A non-undoable map keeps no history, so Retract
// leaves it unchanged.
func (m *MapField) Retract(patch types.MapPatch) types.FieldChange {
	if !m.undoable {
		return types.FieldChange{Kind: types.FieldKindMap}
	}
	var changes []types.MapChange
	for _, key := range sortedMapKeys(patch) {
		entry := patch[key]
		existing, ok := m.chains.Get(key)
		if !ok {
			continue
		}
		newHead, previous, changed := m.retractOne(existing, entry.Clock, entry.StoreID)
		if newHead == nil {
			m.chains.Delete(key)
		} else {
			m.chains.Set(key, newHead)
		}
		if changed {
			var current any
			if newHead != nil && newHead.present {
				current = newHead.value
			}
			changes = append(changes, types.MapChange{Key: key, Previous: previous, Current: current})
		}
	}
	return types.FieldChange{Kind: types.FieldKindMap, Map: changes}
}

func sortedMapKeys(patch types.MapPatch) []string {
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
