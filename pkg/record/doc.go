// Package record implements the schema-driven record and table model (C7,
// C8): a Table is an ordered collection of Records sharing one Schema, and
// a Record is a fixed set of named field slots, each delegating to the
// CRDT field implementation in pkg/fields that its schema kind names.
//
// Neither type knows anything about transactions. Mutating a field
// requires a MutationContext, supplied by the table's owner (pkg/store),
// that hands out the current (clock, storeId) pair and receives the
// resulting patch/change to fold into the open transaction. This keeps
// the dependency one-directional: pkg/record never imports pkg/store.
package record
