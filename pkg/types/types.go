package types

import (
	"fmt"
	"sort"
	"strings"
)

// FieldKind identifies which CRDT algorithm a field uses.
type FieldKind string

const (
	FieldKindRegister FieldKind = "register"
	FieldKindList     FieldKind = "list"
	FieldKindMap      FieldKind = "map"
	FieldKindText     FieldKind = "text"
)

// FieldSchema describes one field of a Schema.
type FieldSchema struct {
	Kind FieldKind

	// Undoable controls whether the field keeps a history chain (register,
	// map) so a later undo can restore a prior value. Non-undoable fields
	// replace state in place and cannot be undone.
	Undoable bool

	// Default is the register's initial value. Ignored for other kinds.
	Default any
}

// Schema is an immutable descriptor for one table: a string id and a set of
// named fields. Schemas are created at store construction and never mutate
// afterward.
type Schema struct {
	ID     string
	Fields map[string]FieldSchema
}

// FieldNames returns the schema's field names in sorted order, for
// deterministic iteration (error messages, table dumps).
func (s Schema) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InvalidSchemaError is returned by ValidateSchema when one or more schemas
// declare a field name reserved for internal use. It lists every offending
// "schemaId.fieldName" pair so construction can be rejected atomically.
type InvalidSchemaError struct {
	Names []string
}

func (e *InvalidSchemaError) Error() string {
	return fmt.Sprintf("invalid schema: reserved field name(s): %s", strings.Join(e.Names, ", "))
}

// ValidateSchema rejects field names beginning with "$" or "@" across all
// supplied schemas. It returns nil if every schema is well-formed, or a
// single *InvalidSchemaError naming every offending field otherwise.
func ValidateSchema(schemas []Schema) error {
	var offending []string
	for _, schema := range schemas {
		names := schema.FieldNames()
		for _, name := range names {
			if strings.HasPrefix(name, "$") || strings.HasPrefix(name, "@") {
				offending = append(offending, schema.ID+"."+name)
			}
		}
	}
	if len(offending) > 0 {
		return &InvalidSchemaError{Names: offending}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────
// Patch — the wire payload produced by a transaction
// ─────────────────────────────────────────────────────────────

// Patch is the nested wire payload of a committed transaction, keyed
// schemaId -> recordId -> fieldName -> FieldPatch.
type Patch map[string]TablePatch

// TablePatch is the per-schema slice of a Patch.
type TablePatch map[string]RecordPatch

// RecordPatch is the per-record slice of a TablePatch.
type RecordPatch map[string]FieldPatch

// FieldPatch is a tagged union over the four field-kind patch shapes.
// Exactly one of Register/List/Map/Text is populated, selected by Kind.
type FieldPatch struct {
	Kind     FieldKind
	Register *RegisterPatch
	List     *ListPatch
	Map      MapPatch
	Text     *TextPatch
}

// RegisterPatch carries a single LWW write.
type RegisterPatch struct {
	Value   any
	Clock   uint64
	StoreID uint32
}

// ListPatch carries one splice's worth of removed identifiers and inserted
// (identifier, value) pairs. Removed/Inserted are keyed by triplex
// identifier string; map iteration order is irrelevant because application
// is per-identifier and idempotent.
type ListPatch struct {
	Clock    uint64
	Removed  map[string]any
	Inserted map[string]any
}

// MapPatch carries one write per touched key.
type MapPatch map[string]MapEntryPatch

// MapEntryPatch is one key's LWW write. Present distinguishes "set to
// value" from "deleted" without relying on Value's zero value.
type MapEntryPatch struct {
	Value   any
	Present bool
	Clock   uint64
	StoreID uint32
}

// TextPatch carries one splice's worth of removed and inserted
// character-identifier pairs, expanded from the caller-facing TextEdit.
type TextPatch struct {
	Clock    uint64
	Removed  map[string]string
	Inserted map[string]string
}

// TextEdit is the caller-facing text splice shape from spec §4.6: a single
// index with the removed and inserted substrings. Text fields expand a
// TextEdit into the char-identifier-keyed TextPatch before it ever reaches
// the list CRDT engine.
type TextEdit struct {
	Index    int
	Removed  string
	Inserted string
}

// Envelope is the transaction wrapper peers exchange: a duplex transaction
// id, the originating store's id, and the patch itself.
type Envelope struct {
	ID      string
	StoreID uint32
	Patch   Patch
}

// ─────────────────────────────────────────────────────────────
// Change — the observer payload produced by a transaction
// ─────────────────────────────────────────────────────────────

// Change mirrors Patch's shape but carries observer-friendly values
// (previous/current pairs, positional indices) instead of raw clock/storeId
// tuples.
type Change map[string]TableChange

// TableChange is the per-schema slice of a Change.
type TableChange map[string]RecordChange

// RecordChange is the per-record slice of a TableChange.
type RecordChange map[string]FieldChange

// FieldChange is a tagged union mirroring FieldPatch, carrying the net
// effect of a field's mutations within one transaction.
type FieldChange struct {
	Kind     FieldKind
	Register *RegisterChange
	List     []ListChange
	Map      []MapChange
	Text     []TextChange
}

// RegisterChange reports the observable head transition, if any.
type RegisterChange struct {
	Previous any
	Current  any
}

// ListChange reports one positional insert or remove.
type ListChange struct {
	Op    string // "insert" | "remove"
	Index int
	Value any
}

// MapChange reports one key's observable transition.
type MapChange struct {
	Key      string
	Previous any
	Current  any
}

// TextChange reports one splice in caller-facing form.
type TextChange struct {
	Index    int
	Removed  string
	Inserted string
}

// EventType distinguishes the three kinds of observer event.
type EventType string

const (
	EventTransaction EventType = "transaction"
	EventUndo        EventType = "undo"
	EventRedo        EventType = "redo"
)

// ObserverEvent is delivered to observers asynchronously relative to the
// mutation call site that produced it, in commit order.
type ObserverEvent struct {
	Type          EventType
	StoreID       uint32
	TransactionID string
	Change        Change
}

// ensureTablePatch and ensureRecordPatch are small helpers used by the
// transaction engine to lazily build the nested Patch/Change maps without
// repeating the same nil-check-then-allocate dance at every call site.

func ensureTablePatch(p Patch, schemaID string) TablePatch {
	t, ok := p[schemaID]
	if !ok {
		t = TablePatch{}
		p[schemaID] = t
	}
	return t
}

func ensureRecordPatch(t TablePatch, recordID string) RecordPatch {
	r, ok := t[recordID]
	if !ok {
		r = RecordPatch{}
		t[recordID] = r
	}
	return r
}

// SetFieldPatch records fp under patch[schemaID][recordID][fieldName],
// allocating intermediate maps as needed. Use this only where fp is known
// to be the field's only patch within the transaction (e.g. applying a
// single incoming remote patch); local mutations within an open
// transaction must use MergeFieldPatch instead, since a field can be
// mutated more than once before commit.
func SetFieldPatch(p Patch, schemaID, recordID, fieldName string, fp FieldPatch) {
	ensureRecordPatch(ensureTablePatch(p, schemaID), recordID)[fieldName] = fp
}

// MergeFieldPatch merges fp into patch[schemaID][recordID][fieldName],
// accumulating the net effect of every local mutation recorded against one
// field within a single open transaction. Register patches are replaced
// outright (the last local write within a transaction already carries the
// correct value, since Register.Set folds same-transaction writes into one
// head link); Map patches keep the latest entry per key; List/Text patches
// have their Removed/Inserted entries unioned. An id inserted and later
// removed within the same transaction cancels out of the List/Text patch
// entirely, since no peer ever needs to hear about an identifier that
// never outlived the transaction that created it.
func MergeFieldPatch(p Patch, schemaID, recordID, fieldName string, fp FieldPatch) {
	rp := ensureRecordPatch(ensureTablePatch(p, schemaID), recordID)
	existing, ok := rp[fieldName]
	if !ok {
		rp[fieldName] = fp
		return
	}
	switch fp.Kind {
	case FieldKindRegister:
		existing.Register = fp.Register
	case FieldKindList:
		existing.List = mergeListPatch(existing.List, fp.List)
	case FieldKindMap:
		if existing.Map == nil {
			existing.Map = MapPatch{}
		}
		for k, v := range fp.Map {
			existing.Map[k] = v
		}
	case FieldKindText:
		existing.Text = mergeTextPatch(existing.Text, fp.Text)
	}
	existing.Kind = fp.Kind
	rp[fieldName] = existing
}

func mergeListPatch(existing, incoming *ListPatch) *ListPatch {
	if existing == nil {
		return incoming
	}
	if incoming == nil {
		return existing
	}
	merged := *existing
	if merged.Removed == nil {
		merged.Removed = map[string]any{}
	}
	if merged.Inserted == nil {
		merged.Inserted = map[string]any{}
	}
	for id, v := range incoming.Removed {
		merged.Removed[id] = v
	}
	for id, v := range incoming.Inserted {
		merged.Inserted[id] = v
	}
	for id := range merged.Inserted {
		if _, removedToo := merged.Removed[id]; removedToo {
			delete(merged.Inserted, id)
			delete(merged.Removed, id)
		}
	}
	merged.Clock = incoming.Clock
	return &merged
}

func mergeTextPatch(existing, incoming *TextPatch) *TextPatch {
	if existing == nil {
		return incoming
	}
	if incoming == nil {
		return existing
	}
	merged := *existing
	if merged.Removed == nil {
		merged.Removed = map[string]string{}
	}
	if merged.Inserted == nil {
		merged.Inserted = map[string]string{}
	}
	for id, c := range incoming.Removed {
		merged.Removed[id] = c
	}
	for id, c := range incoming.Inserted {
		merged.Inserted[id] = c
	}
	for id := range merged.Inserted {
		if _, removedToo := merged.Removed[id]; removedToo {
			delete(merged.Inserted, id)
			delete(merged.Removed, id)
		}
	}
	merged.Clock = incoming.Clock
	return &merged
}

func ensureTableChange(c Change, schemaID string) TableChange {
	t, ok := c[schemaID]
	if !ok {
		t = TableChange{}
		c[schemaID] = t
	}
	return t
}

func ensureRecordChange(t TableChange, recordID string) RecordChange {
	r, ok := t[recordID]
	if !ok {
		r = RecordChange{}
		t[recordID] = r
	}
	return r
}

// MergeFieldChange merges fc into change[schemaID][recordID][fieldName],
// concatenating List/Map/Text entries and keeping the earliest Previous with
// the latest Current for Register changes produced within one transaction.
func MergeFieldChange(c Change, schemaID, recordID, fieldName string, fc FieldChange) {
	rc := ensureRecordChange(ensureTableChange(c, schemaID), recordID)
	existing, ok := rc[fieldName]
	if !ok {
		rc[fieldName] = fc
		return
	}
	switch fc.Kind {
	case FieldKindRegister:
		if existing.Register == nil {
			existing.Register = fc.Register
		} else if fc.Register != nil {
			existing.Register.Current = fc.Register.Current
		}
	case FieldKindList:
		existing.List = append(existing.List, fc.List...)
	case FieldKindMap:
		existing.Map = append(existing.Map, fc.Map...)
	case FieldKindText:
		existing.Text = append(existing.Text, fc.Text...)
	}
	existing.Kind = fc.Kind
	rc[fieldName] = existing
}
