package record

import (
	"github.com/cuemby/warren/pkg/fields"
	"github.com/cuemby/warren/pkg/types"
)

// slot is one field's storage: exactly one of the four pointers is
// non-nil, selected by kind, mirroring the FieldPatch/FieldChange tagged
// union these fields produce.
type slot struct {
	kind     types.FieldKind
	register *fields.Register
	list     *fields.List
	mapField *fields.MapField
	text     *fields.Text
}

func newSlot(fs types.FieldSchema) slot {
	switch fs.Kind {
	case types.FieldKindList:
		return slot{kind: fs.Kind, list: fields.NewList()}
	case types.FieldKindMap:
		return slot{kind: fs.Kind, mapField: fields.NewMapField(fs.Undoable)}
	case types.FieldKindText:
		return slot{kind: fs.Kind, text: fields.NewText()}
	default:
		return slot{kind: types.FieldKindRegister, register: fields.NewRegister(fs.Default, fs.Undoable)}
	}
}

// Record is one row of a Table (C7): a stable id, a pointer to its parent
// table, and one storage slot per schema field. Records are created inside
// a transaction and never move between tables, per spec §3's lifecycle
// invariant.
type Record struct {
	id    string
	table *Table
	slots map[string]slot
}

func newRecord(table *Table, id string) *Record {
	slots := make(map[string]slot, len(table.schema.Fields))
	for name, fs := range table.schema.Fields {
		slots[name] = newSlot(fs)
	}
	return &Record{id: id, table: table, slots: slots}
}

// ID returns the record's stable identifier.
func (r *Record) ID() string { return r.id }

// SchemaID returns the id of the schema this record was created from.
func (r *Record) SchemaID() string { return r.table.schema.ID }

func (r *Record) slotOf(fieldName string, want types.FieldKind) (slot, error) {
	s, ok := r.slots[fieldName]
	if !ok {
		return slot{}, &FieldNotFoundError{SchemaID: r.table.schema.ID, FieldName: fieldName}
	}
	if s.kind != want {
		return slot{}, &FieldKindMismatchError{
			SchemaID: r.table.schema.ID, FieldName: fieldName,
			Want: string(want), Have: string(s.kind),
		}
	}
	return s, nil
}

// Get returns the current value of any field by name, regardless of kind:
// a register's head value, a list's value slice, a map's present
// key→value snapshot, or a text field's assembled string.
func (r *Record) Get(fieldName string) (any, error) {
	s, ok := r.slots[fieldName]
	if !ok {
		return nil, &FieldNotFoundError{SchemaID: r.table.schema.ID, FieldName: fieldName}
	}
	switch s.kind {
	case types.FieldKindRegister:
		return s.register.Get(), nil
	case types.FieldKindList:
		return s.list.Values(), nil
	case types.FieldKindMap:
		out := make(map[string]any, len(s.mapField.PresentKeys()))
		for _, key := range s.mapField.PresentKeys() {
			out[key], _ = s.mapField.Get(key)
		}
		return out, nil
	default:
		return s.text.String(), nil
	}
}

// record is a small convenience wrapping a MutationContext round-trip:
// assert a transaction is open, stamp (clock, storeId), then forward the
// resulting patch/change into it under this record's field.
func (r *Record) record(fieldName string, mutate func(clock uint64, storeID uint32) (types.FieldPatch, types.FieldChange)) error {
	ctx := r.table.ctx
	if err := ctx.AssertMutationsAllowed(); err != nil {
		return err
	}
	patch, change := mutate(ctx.Clock(), ctx.StoreID())
	ctx.RecordMutation(r.table.schema.ID, r.id, fieldName, patch, change)
	return nil
}

// Set writes a register field's value, per spec §4.3/§4.7.
func (r *Record) Set(fieldName string, value any) error {
	s, err := r.slotOf(fieldName, types.FieldKindRegister)
	if err != nil {
		return err
	}
	return r.record(fieldName, func(clock uint64, storeID uint32) (types.FieldPatch, types.FieldChange) {
		return s.register.Set(clock, storeID, value)
	})
}

// ─────────────────────────────────────────────────────────────
// List field operations (C4), delegated through the record.
// ─────────────────────────────────────────────────────────────

func (r *Record) list(fieldName string) (*fields.List, error) {
	s, err := r.slotOf(fieldName, types.FieldKindList)
	if err != nil {
		return nil, err
	}
	return s.list, nil
}

// ListValues returns a snapshot of a list field's current contents.
func (r *Record) ListValues(fieldName string) ([]any, error) {
	l, err := r.list(fieldName)
	if err != nil {
		return nil, err
	}
	return l.Values(), nil
}

// ListLen returns a list field's current length.
func (r *Record) ListLen(fieldName string) (int, error) {
	l, err := r.list(fieldName)
	if err != nil {
		return 0, err
	}
	return l.Size(), nil
}

// Push appends values to the end of a list field.
func (r *Record) Push(fieldName string, values ...any) error {
	l, err := r.list(fieldName)
	if err != nil {
		return err
	}
	return r.record(fieldName, func(clock uint64, storeID uint32) (types.FieldPatch, types.FieldChange) {
		return l.Push(storeID, values...)
	})
}

// Insert inserts values into a list field starting at index.
func (r *Record) Insert(fieldName string, index int, values ...any) error {
	l, err := r.list(fieldName)
	if err != nil {
		return err
	}
	return r.record(fieldName, func(clock uint64, storeID uint32) (types.FieldPatch, types.FieldChange) {
		return l.Insert(storeID, index, values...)
	})
}

// RemoveAt removes count elements from a list field starting at index.
func (r *Record) RemoveAt(fieldName string, index, count int) error {
	l, err := r.list(fieldName)
	if err != nil {
		return err
	}
	return r.record(fieldName, func(clock uint64, storeID uint32) (types.FieldPatch, types.FieldChange) {
		return l.RemoveAt(storeID, index, count)
	})
}

// SetAt replaces the element at index in a list field.
func (r *Record) SetAt(fieldName string, index int, value any) error {
	l, err := r.list(fieldName)
	if err != nil {
		return err
	}
	return r.record(fieldName, func(clock uint64, storeID uint32) (types.FieldPatch, types.FieldChange) {
		return l.SetAt(storeID, index, value)
	})
}

// ClearList removes every element of a list field.
func (r *Record) ClearList(fieldName string) error {
	l, err := r.list(fieldName)
	if err != nil {
		return err
	}
	return r.record(fieldName, func(clock uint64, storeID uint32) (types.FieldPatch, types.FieldChange) {
		return l.Clear(storeID)
	})
}

// AssignList discards a list field's current contents and replaces them.
func (r *Record) AssignList(fieldName string, values []any) error {
	l, err := r.list(fieldName)
	if err != nil {
		return err
	}
	return r.record(fieldName, func(clock uint64, storeID uint32) (types.FieldPatch, types.FieldChange) {
		return l.Assign(storeID, values)
	})
}

// ─────────────────────────────────────────────────────────────
// Map field operations (C5), delegated through the record.
// ─────────────────────────────────────────────────────────────

func (r *Record) mapOf(fieldName string) (*fields.MapField, error) {
	s, err := r.slotOf(fieldName, types.FieldKindMap)
	if err != nil {
		return nil, err
	}
	return s.mapField, nil
}

// MapGet reads one key of a map field.
func (r *Record) MapGet(fieldName, key string) (any, bool, error) {
	m, err := r.mapOf(fieldName)
	if err != nil {
		return nil, false, err
	}
	v, ok := m.Get(key)
	return v, ok, nil
}

// MapKeys returns a map field's currently present keys, sorted.
func (r *Record) MapKeys(fieldName string) ([]string, error) {
	m, err := r.mapOf(fieldName)
	if err != nil {
		return nil, err
	}
	return m.PresentKeys(), nil
}

// MapSet writes key = value in a map field.
func (r *Record) MapSet(fieldName, key string, value any) error {
	m, err := r.mapOf(fieldName)
	if err != nil {
		return err
	}
	return r.record(fieldName, func(clock uint64, storeID uint32) (types.FieldPatch, types.FieldChange) {
		return m.Set(clock, storeID, key, value)
	})
}

// MapDelete removes key from a map field. A no-op if already absent.
func (r *Record) MapDelete(fieldName, key string) error {
	m, err := r.mapOf(fieldName)
	if err != nil {
		return err
	}
	return r.record(fieldName, func(clock uint64, storeID uint32) (types.FieldPatch, types.FieldChange) {
		return m.Delete(clock, storeID, key)
	})
}

// MapClear deletes every present key of a map field.
func (r *Record) MapClear(fieldName string) error {
	m, err := r.mapOf(fieldName)
	if err != nil {
		return err
	}
	return r.record(fieldName, func(clock uint64, storeID uint32) (types.FieldPatch, types.FieldChange) {
		return m.Clear(clock, storeID)
	})
}

// ─────────────────────────────────────────────────────────────
// Text field operations (C6), delegated through the record.
// ─────────────────────────────────────────────────────────────

func (r *Record) textOf(fieldName string) (*fields.Text, error) {
	s, err := r.slotOf(fieldName, types.FieldKindText)
	if err != nil {
		return nil, err
	}
	return s.text, nil
}

// Text returns a text field's current string contents.
func (r *Record) Text(fieldName string) (string, error) {
	t, err := r.textOf(fieldName)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

// TextEdit performs a local splice on a text field.
func (r *Record) TextEdit(fieldName string, edit types.TextEdit) error {
	t, err := r.textOf(fieldName)
	if err != nil {
		return err
	}
	return r.record(fieldName, func(clock uint64, storeID uint32) (types.FieldPatch, types.FieldChange) {
		return t.Edit(storeID, edit)
	})
}

// ─────────────────────────────────────────────────────────────
// Remote patch application and undo, dispatched by field kind.
// ─────────────────────────────────────────────────────────────

// ApplyFieldPatch folds an incoming (or redone, or undo-swapped) field
// patch into fieldName's storage, per spec §4.8's per-field dispatch.
func (r *Record) ApplyFieldPatch(fieldName string, patch types.FieldPatch) (types.FieldChange, error) {
	s, ok := r.slots[fieldName]
	if !ok {
		return types.FieldChange{}, &FieldNotFoundError{SchemaID: r.table.schema.ID, FieldName: fieldName}
	}
	switch s.kind {
	case types.FieldKindRegister:
		rp := patch.Register
		change, _ := s.register.ApplyRemote(rp.Value, rp.Clock, rp.StoreID)
		return change, nil
	case types.FieldKindList:
		return s.list.ApplyRemote(*patch.List), nil
	case types.FieldKindMap:
		return s.mapField.ApplyRemote(patch.Map), nil
	default:
		return s.text.ApplyRemote(*patch.Text), nil
	}
}

// RetractFieldPatch undoes a single historical register or map write by
// splicing it back out of the field's history chain. List and Text have
// no equivalent: their undo instead replays ApplyFieldPatch with
// removed/inserted swapped, since their patches already carry that shape.
func (r *Record) RetractFieldPatch(fieldName string, patch types.FieldPatch) (types.FieldChange, error) {
	s, ok := r.slots[fieldName]
	if !ok {
		return types.FieldChange{}, &FieldNotFoundError{SchemaID: r.table.schema.ID, FieldName: fieldName}
	}
	switch s.kind {
	case types.FieldKindRegister:
		rp := patch.Register
		change, _ := s.register.Retract(rp.Clock, rp.StoreID)
		return change, nil
	case types.FieldKindMap:
		return s.mapField.Retract(patch.Map), nil
	default:
		return types.FieldChange{}, &FieldKindMismatchError{
			SchemaID: r.table.schema.ID, FieldName: fieldName,
			Want: "register or map", Have: string(s.kind),
		}
	}
}
