/*
Package types defines the data model shared by every layer of the store:
field kinds, schema descriptors, the nested patch/change maps a transaction
produces, and the transaction envelope peers exchange.

# Architecture

The types package is the foundation of the store's data model. It defines:

  - Schema topology (tables, fields, field kinds)
  - The wire patch shape produced by a committed transaction
  - The observer-facing change shape produced by the same transaction
  - The transaction envelope exchanged between peers

# Core Types

Schema:
  - Schema: immutable field layout for one table
  - FieldSchema: one field's kind, undoable flag, and register default
  - FieldKind: Register, List, Map, or Text

Patch (wire payload, bit-compatible across peers):
  - Patch: schemaId -> TablePatch
  - TablePatch: recordId -> RecordPatch
  - RecordPatch: fieldName -> FieldPatch
  - FieldPatch: tagged union over RegisterPatch/ListPatch/MapPatch/TextPatch
  - Envelope: {ID, StoreID, Patch} exchanged between peers

Change (observer payload, semantically equivalent to Patch but friendlier):
  - Change / TableChange / RecordChange / FieldChange mirror the Patch
    shape, with FieldChange carrying human-friendly previous/current pairs
    instead of raw clock/storeId tuples.

# Design Patterns

Tagged Variant:

	FieldPatch and FieldChange replace structural/interface polymorphism
	with an explicit Kind discriminant and one populated variant field,
	e.g.:

	  type FieldPatch struct {
	      Kind     FieldKind
	      Register *RegisterPatch
	      List     *ListPatch
	      Map      MapPatch
	      Text     *TextPatch
	  }

Enumeration Pattern:

	All enums use typed string constants:
	  type FieldKind string
	  const (
	      FieldKindRegister FieldKind = "register"
	      FieldKindList     FieldKind = "list"
	  )

# Values

Values carried inside patches and changes are kept as plain `any` rather
than json.RawMessage: the core never interprets them, only compares and
forwards them. Callers that need JSON bytes on the wire run the whole
Envelope through encoding/json themselves.

# Validation

Field names must not start with "$" or "@" (reserved for future internal
use). ValidateSchema collects every offending name across every schema and
returns a single InvalidSchemaError so construction fails atomically rather
than registering some schemas and rejecting others.

# See Also

  - pkg/record for the Schema/FieldSchema consumers (Record, Table)
  - pkg/fields for the CRDT field implementations that produce FieldPatch
  - pkg/store for the transaction engine that assembles Patch/Change/Envelope
*/
package types
