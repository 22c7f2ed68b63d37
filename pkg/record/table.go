package record

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/cuemby/warren/pkg/log"
	"github.com/cuemby/warren/pkg/omap"
	"github.com/cuemby/warren/pkg/types"
)

// Table is an immutable association of one Schema to an ordered map of
// Records keyed by record id (C8).
type Table struct {
	schema  types.Schema
	ctx     MutationContext
	records *omap.Map[*Record]
	logger  zerolog.Logger
}

// NewTable constructs an empty table for schema, wired to ctx for
// transaction access. Called once per schema at store construction.
func NewTable(schema types.Schema, ctx MutationContext) *Table {
	return &Table{
		schema:  schema,
		ctx:     ctx,
		records: omap.New[*Record](),
		logger:  log.WithComponent("record"),
	}
}

// SchemaID returns the table's schema id.
func (t *Table) SchemaID() string { return t.schema.ID }

// Schema returns the table's immutable schema descriptor.
func (t *Table) Schema() types.Schema { return t.schema }

// Len returns the number of records currently in the table.
func (t *Table) Len() int { return t.records.Size() }

// Get returns the record with the given id, if present.
func (t *Table) Get(id string) (*Record, bool) {
	return t.records.Get(id)
}

// Has reports whether id names a record in this table.
func (t *Table) Has(id string) bool {
	return t.records.Has(id)
}

// RecordIDs returns every record id currently in the table, in ascending
// key order.
func (t *Table) RecordIDs() []string {
	ids := make([]string, 0, t.records.Size())
	for key := range t.records.SliceKeys() {
		ids = append(ids, key)
	}
	return ids
}

// New creates an unowned record for this table's schema, with the given
// id, but does not insert it; callers must follow up with Insert within
// the same transaction.
func (t *Table) New(id string) *Record {
	return newRecord(t, id)
}

// Insert adds record to the table under its id. It fails with an
// OwnershipError if record was not created by this table (a differently
// scoped Table pointer) or if the table already has a record at that id,
// per spec §4.8's ownership-tag requirement.
func (t *Table) Insert(record *Record) error {
	if record.table != t {
		return &OwnershipError{RecordID: record.id, Reason: "record was not created by this table"}
	}
	if t.records.Has(record.id) {
		return &OwnershipError{RecordID: record.id, Reason: "a record with this id already exists in the table"}
	}
	t.records.Set(record.id, record)
	return nil
}

// Delete removes the record with the given id, if present.
func (t *Table) Delete(id string) bool {
	return t.records.Delete(id)
}

// ApplyPatch applies an incoming table patch: for each (recordId,
// recordPatch) pair, dispatch field patches to the matching record's
// fields, per spec §4.8. A recordId naming no known record is logged as
// UnknownRecord and skipped rather than failing the whole patch.
func (t *Table) ApplyPatch(tablePatch types.TablePatch) types.TableChange {
	change := types.TableChange{}
	for _, recordID := range sortedRecordKeys(tablePatch) {
		recordPatch := tablePatch[recordID]
		rec, ok := t.records.Get(recordID)
		if !ok {
			t.logger.Warn().
				Str("schema_id", t.schema.ID).
				Str("record_id", recordID).
				Msg("UnknownRecord: remote patch references unknown record id, skipping")
			continue
		}
		recordChange := types.RecordChange{}
		for _, fieldName := range sortedFieldKeys(recordPatch) {
			fieldPatch := recordPatch[fieldName]
			fieldChange, err := rec.ApplyFieldPatch(fieldName, fieldPatch)
			if err != nil {
				t.logger.Warn().
					Str("schema_id", t.schema.ID).
					Str("record_id", recordID).
					Str("field", fieldName).
					Err(err).
					Msg("UnknownRecord: remote patch references unknown field, skipping")
				continue
			}
			recordChange[fieldName] = fieldChange
		}
		if len(recordChange) > 0 {
			change[recordID] = recordChange
		}
	}
	return change
}

// RetractPatch is ApplyPatch's undo-side counterpart for register and map
// fields: it splices the exact historical writes named in tablePatch back
// out, rather than applying new ones. List and Text fields are never
// named in a tablePatch passed to RetractPatch; their undo instead calls
// ApplyPatch with a swapped removed/inserted patch built by the caller.
func (t *Table) RetractPatch(tablePatch types.TablePatch) types.TableChange {
	change := types.TableChange{}
	for _, recordID := range sortedRecordKeys(tablePatch) {
		recordPatch := tablePatch[recordID]
		rec, ok := t.records.Get(recordID)
		if !ok {
			t.logger.Warn().
				Str("schema_id", t.schema.ID).
				Str("record_id", recordID).
				Msg("UnknownRecord: undo references unknown record id, skipping")
			continue
		}
		recordChange := types.RecordChange{}
		for _, fieldName := range sortedFieldKeys(recordPatch) {
			fieldPatch := recordPatch[fieldName]
			fieldChange, err := rec.RetractFieldPatch(fieldName, fieldPatch)
			if err != nil {
				t.logger.Warn().
					Str("schema_id", t.schema.ID).
					Str("record_id", recordID).
					Str("field", fieldName).
					Err(err).
					Msg("undo target field does not support structural retraction, skipping")
				continue
			}
			recordChange[fieldName] = fieldChange
		}
		if len(recordChange) > 0 {
			change[recordID] = recordChange
		}
	}
	return change
}

func sortedRecordKeys(tp types.TablePatch) []string {
	keys := make([]string, 0, len(tp))
	for k := range tp {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFieldKeys(rp types.RecordPatch) []string {
	keys := make([]string, 0, len(rp))
	for k := range rp {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
