package fields

import "github.com/cuemby/warren/pkg/types"

// Text is the collaborative text field (C6): logically a List of
// single-character elements, with the caller-facing API expressed in
// terms of whole-string splices (types.TextEdit) rather than individual
// characters.
type Text struct {
	list *List
}

// NewText returns an empty Text field.
func NewText() *Text {
	return &Text{list: NewList()}
}

// String reassembles the current contents.
func (t *Text) String() string {
	var b []byte
	for _, v := range t.list.items.Iter() {
		b = append(b, []byte(v.(string))...)
	}
	return string(b)
}

// Len returns the number of characters.
func (t *Text) Len() int {
	return t.list.Size()
}

func splitChars(s string) []any {
	runes := []rune(s)
	out := make([]any, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	return out
}

// Edit performs a local splice: remove len([]rune(edit.Removed)) characters
// at edit.Index, then insert edit.Inserted in their place. The wire patch
// expands the edit to its constituent per-character identifiers, per spec
// §4.6 and §9 item 2; the observer change reports the edit in its original
// whole-string form.
func (t *Text) Edit(storeID uint32, edit types.TextEdit) (types.FieldPatch, types.FieldChange) {
	removedCount := len([]rune(edit.Removed))
	listPatch, _ := t.list.Splice(storeID, edit.Index, removedCount, splitChars(edit.Inserted))

	textPatch := types.TextPatch{Clock: listPatch.List.Clock, Removed: map[string]string{}, Inserted: map[string]string{}}
	for id, v := range listPatch.List.Removed {
		textPatch.Removed[id] = v.(string)
	}
	for id, v := range listPatch.List.Inserted {
		textPatch.Inserted[id] = v.(string)
	}

	patch := types.FieldPatch{Kind: types.FieldKindText, Text: &textPatch}
	change := types.FieldChange{
		Kind: types.FieldKindText,
		Text: []types.TextChange{{Index: edit.Index, Removed: edit.Removed, Inserted: edit.Inserted}},
	}
	return patch, change
}

// ApplyRemote folds an incoming (or redone) text patch into the field.
// Unlike a local Edit, a remote patch's removed/inserted identifiers need
// not form one contiguous run, so the resulting change is reported as one
// single-character TextChange per affected position rather than collapsed
// into a whole-string edit.
func (t *Text) ApplyRemote(patch types.TextPatch) types.FieldChange {
	listPatch := types.ListPatch{Clock: patch.Clock, Removed: map[string]any{}, Inserted: map[string]any{}}
	for id, c := range patch.Removed {
		listPatch.Removed[id] = c
	}
	for id, c := range patch.Inserted {
		listPatch.Inserted[id] = c
	}

	listChange := t.list.ApplyRemote(listPatch)

	changes := make([]types.TextChange, 0, len(listChange.List))
	for _, lc := range listChange.List {
		switch lc.Op {
		case "remove":
			changes = append(changes, types.TextChange{Index: lc.Index, Removed: lc.Value.(string)})
		case "insert":
			changes = append(changes, types.TextChange{Index: lc.Index, Inserted: lc.Value.(string)})
		}
	}
	return types.FieldChange{Kind: types.FieldKindText, Text: changes}
}
