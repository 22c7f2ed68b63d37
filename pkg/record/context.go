package record

import "github.com/cuemby/warren/pkg/types"

// MutationContext is the hook a Table uses to reach the enclosing
// transaction without pkg/record importing pkg/store: it supplies the
// version/storeId pair local field writes stamp their links with, checks
// that a transaction is actually open, and accumulates the resulting
// patch/change into the transaction's running totals.
type MutationContext interface {
	// AssertMutationsAllowed returns an error (NotInTransaction, in
	// pkg/store's vocabulary) if no transaction is currently open.
	AssertMutationsAllowed() error

	// Clock returns the current transaction's version, used as the
	// (clock, storeId) stamp for every field write made while it is open.
	Clock() uint64

	// StoreID returns the owning store's id.
	StoreID() uint32

	// RecordMutation folds one field's patch/change into the open
	// transaction's accumulated Patch and Change, merging rather than
	// overwriting when the same field mutates more than once before commit.
	RecordMutation(schemaID, recordID, fieldName string, patch types.FieldPatch, change types.FieldChange)
}
