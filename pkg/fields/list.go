package fields

import (
	"sort"

	"github.com/cuemby/warren/pkg/ident"
	"github.com/cuemby/warren/pkg/omap"
	"github.com/cuemby/warren/pkg/types"
)

// List is the ordered sequence field (C4): an omap.Map keyed by triplex
// identifier so position and identity both resolve in O(log n), plus a
// cemetery counting deletions that arrive for identifiers not currently
// present, so a late insertion racing a remote delete can be recognized
// and dropped instead of resurrecting a deleted element.
type List struct {
	items    *omap.Map[any]
	cemetery map[string]uint32
	clock    uint64
}

// NewList returns an empty List.
func NewList() *List {
	return &List{items: omap.New[any](), cemetery: map[string]uint32{}}
}

// Size returns the number of live elements.
func (l *List) Size() int {
	return l.items.Size()
}

// Get returns the value at a positional index (negative counts from the
// end).
func (l *List) Get(index int) (any, bool) {
	return l.items.ValueAt(index)
}

// Values returns a snapshot of the list's current contents in order.
func (l *List) Values() []any {
	values := make([]any, 0, l.items.Size())
	for _, v := range l.items.Iter() {
		values = append(values, v)
	}
	return values
}

// Splice is the primitive every other List mutation is defined in terms
// of: remove count elements starting at index, then insert values in
// their place, per spec §4.4.
func (l *List) Splice(storeID uint32, index, count int, values []any) (types.FieldPatch, types.FieldChange) {
	n := l.items.Size()
	if index < 0 {
		index += n
	}
	if index < 0 {
		index = 0
	}
	if index > n {
		index = n
	}
	if count < 0 {
		count = 0
	}
	if count > n-index {
		count = n - index
	}

	removed := map[string]any{}
	var changes []types.ListChange

	for i := 0; i < count; i++ {
		id, value, _ := l.items.At(index)
		l.items.Remove(index)
		removed[id] = value
		changes = append(changes, types.ListChange{Op: "remove", Index: index, Value: value})
	}

	var lower string
	if index > 0 {
		if k, ok := l.items.KeyAt(index - 1); ok {
			lower = k
		}
	}
	var upper string
	if k, ok := l.items.KeyAt(index); ok {
		upper = k
	}

	inserted := map[string]any{}
	for _, value := range values {
		l.clock++
		id := ident.MakeTriplex(l.clock, storeID, lower, upper)
		l.items.Set(id, value)
		inserted[id] = value
		changes = append(changes, types.ListChange{Op: "insert", Index: index, Value: value})
		lower = id
		index++
	}

	patch := types.FieldPatch{
		Kind: types.FieldKindList,
		List: &types.ListPatch{Clock: l.clock, Removed: removed, Inserted: inserted},
	}
	change := types.FieldChange{Kind: types.FieldKindList, List: changes}
	return patch, change
}

// Push appends values to the end of the list.
func (l *List) Push(storeID uint32, values ...any) (types.FieldPatch, types.FieldChange) {
	return l.Splice(storeID, l.items.Size(), 0, values)
}

// Insert inserts values starting at index, shifting later elements right.
func (l *List) Insert(storeID uint32, index int, values ...any) (types.FieldPatch, types.FieldChange) {
	return l.Splice(storeID, index, 0, values)
}

// RemoveAt removes count elements starting at index.
func (l *List) RemoveAt(storeID uint32, index, count int) (types.FieldPatch, types.FieldChange) {
	return l.Splice(storeID, index, count, nil)
}

// SetAt replaces the single element at index.
func (l *List) SetAt(storeID uint32, index int, value any) (types.FieldPatch, types.FieldChange) {
	return l.Splice(storeID, index, 1, []any{value})
}

// Clear removes every element.
func (l *List) Clear(storeID uint32) (types.FieldPatch, types.FieldChange) {
	return l.Splice(storeID, 0, l.items.Size(), nil)
}

// Assign discards the current contents and replaces them with values.
func (l *List) Assign(storeID uint32, values []any) (types.FieldPatch, types.FieldChange) {
	return l.Splice(storeID, 0, l.items.Size(), values)
}

// ApplyRemote folds an incoming (or redone) list patch into the list:
// removals first, then insertions, per spec §4.4. Processing order within
// each half is sorted by identifier for reproducible change output; the
// resulting state is identical for any processing order since each
// identifier's fate depends only on the current map/cemetery, never on
// sibling identifiers in the same patch.
func (l *List) ApplyRemote(patch types.ListPatch) types.FieldChange {
	if patch.Clock > l.clock {
		l.clock = patch.Clock
	}

	var changes []types.ListChange

	for _, id := range sortedKeys(patch.Removed) {
		value := patch.Removed[id]
		if idx := l.items.IndexOf(id); idx >= 0 {
			l.items.Remove(idx)
			changes = append(changes, types.ListChange{Op: "remove", Index: idx, Value: value})
		} else {
			l.cemetery[id]++
		}
	}

	for _, id := range sortedKeys(patch.Inserted) {
		value := patch.Inserted[id]
		if l.cemetery[id] > 0 {
			l.cemetery[id]--
			if l.cemetery[id] == 0 {
				delete(l.cemetery, id)
			}
			continue
		}
		if l.items.Has(id) {
			continue
		}
		insertPoint := l.items.IndexOf(id)
		pos := -insertPoint - 1
		l.items.Set(id, value)
		changes = append(changes, types.ListChange{Op: "insert", Index: pos, Value: value})
	}

	return types.FieldChange{Kind: types.FieldKindList, List: changes}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
