package store

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/cuemby/warren/pkg/ident"
	"github.com/cuemby/warren/pkg/log"
	"github.com/cuemby/warren/pkg/metrics"
	"github.com/cuemby/warren/pkg/observer"
	"github.com/cuemby/warren/pkg/record"
	"github.com/cuemby/warren/pkg/sink"
	"github.com/cuemby/warren/pkg/types"
)

// transaction is the private in-progress transaction state spec §4.9
// names: an id, the version it was opened at, and the patch/change it has
// accumulated so far.
type transaction struct {
	id      string
	version uint64
	patch   types.Patch
	change  types.Change
}

// Config configures a new Store, mirroring the teacher's
// manager.Config/storage.NewBoltStore construction pattern.
type Config struct {
	// StoreID is this peer's unique numeric id; must be > 0.
	StoreID uint32

	// Schemas are validated once and become this store's fixed set of
	// tables. Adding a schema after construction is not supported.
	Schemas []types.Schema

	// Sink receives the patch from every committed local transaction
	// that produced one. Defaults to sink.NullSink{} if nil.
	Sink sink.BroadcastSink

	// Metrics, if set, observes commits/applies/undo-redo for D1.
	Metrics *metrics.Recorder

	// Logger overrides the default pkg/log.WithComponent("store") logger.
	Logger *zerolog.Logger
}

// Store is the replication engine's top-level object (C9): a unique
// storeId, a monotonic version counter, one Table per schema, the active
// transaction (or nil), a broadcast sink, an observer broker, and an
// append-only undo/redo history. A Store is single-threaded cooperative
// and performs no internal locking (spec §5); concurrent callers must
// serialize access themselves.
type Store struct {
	storeID uint32
	version uint64
	schemas []types.Schema
	tables  map[string]*record.Table

	tx *transaction

	sink    sink.BroadcastSink
	broker  *observer.Broker
	metrics *metrics.Recorder
	logger  zerolog.Logger

	history     []historyEntry
	historyByID map[string]types.Patch
}

type historyEntry struct {
	id      string
	storeID uint32
	patch   types.Patch
}

// New constructs a Store from cfg. It fails with an *types.InvalidSchemaError
// if any schema declares a reserved field name.
func New(cfg Config) (*Store, error) {
	if err := types.ValidateSchema(cfg.Schemas); err != nil {
		return nil, err
	}
	if cfg.StoreID == 0 {
		return nil, fmt.Errorf("store: storeId must be > 0")
	}

	logger := log.WithComponent("store")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	sk := cfg.Sink
	if sk == nil {
		sk = sink.NullSink{}
	}

	broker := observer.NewBroker()
	broker.Start()

	s := &Store{
		storeID:     cfg.StoreID,
		schemas:     cfg.Schemas,
		sink:        sk,
		broker:      broker,
		metrics:     cfg.Metrics,
		logger:      logger,
		historyByID: map[string]types.Patch{},
	}

	tables := make(map[string]*record.Table, len(cfg.Schemas))
	for _, schema := range cfg.Schemas {
		tables[schema.ID] = record.NewTable(schema, s)
	}
	s.tables = tables

	return s, nil
}

// Close stops the store's observer broker. Subscribers already holding a
// channel keep it open but stop receiving new events.
func (s *Store) Close() {
	s.broker.Stop()
}

// StoreID returns this store's id.
func (s *Store) StoreID() uint32 { return s.storeID }

// Version returns the current monotonic version counter.
func (s *Store) Version() uint64 { return s.version }

// Table returns the named schema's table.
func (s *Store) Table(schemaID string) (*record.Table, error) {
	t, ok := s.tables[schemaID]
	if !ok {
		return nil, fmt.Errorf("store: unknown schema %q", schemaID)
	}
	return t, nil
}

// TableSizes returns the current record count of every table, keyed by
// schema id. It satisfies pkg/metrics.TableSizer, letting a Collector
// sample table growth without pkg/metrics importing pkg/store.
func (s *Store) TableSizes() map[string]int {
	sizes := make(map[string]int, len(s.tables))
	for schemaID, table := range s.tables {
		sizes[schemaID] = table.Len()
	}
	return sizes
}

// TransactionSummary is a read-only view of one entry in the undo/redo
// history, exposed for inspection by hosts (e.g. the CLI demo's history
// listing) without handing out the mutable internal Patch map.
type TransactionSummary struct {
	ID      string
	StoreID uint32
}

// History returns a summary of every committed transaction (local or
// applied remote) in commit order, oldest first.
func (s *Store) History() []TransactionSummary {
	out := make([]TransactionSummary, len(s.history))
	for i, e := range s.history {
		out[i] = TransactionSummary{ID: e.id, StoreID: e.storeID}
	}
	return out
}

// Subscribe attaches a new observer subscriber.
func (s *Store) Subscribe() observer.Subscriber { return s.broker.Subscribe() }

// Unsubscribe detaches a subscriber previously returned by Subscribe.
func (s *Store) Unsubscribe(sub observer.Subscriber) { s.broker.Unsubscribe(sub) }

// ─────────────────────────────────────────────────────────────
// record.MutationContext implementation
// ─────────────────────────────────────────────────────────────

// AssertMutationsAllowed implements record.MutationContext.
func (s *Store) AssertMutationsAllowed() error {
	if s.tx == nil {
		return ErrNotInTransaction
	}
	return nil
}

// Clock implements record.MutationContext: every write made while the
// current transaction is open is stamped with the version it was opened
// at, not the post-commit version.
func (s *Store) Clock() uint64 {
	return s.tx.version
}

// RecordMutation implements record.MutationContext.
func (s *Store) RecordMutation(schemaID, recordID, fieldName string, patch types.FieldPatch, change types.FieldChange) {
	types.MergeFieldPatch(s.tx.patch, schemaID, recordID, fieldName, patch)
	types.MergeFieldChange(s.tx.change, schemaID, recordID, fieldName, change)
}

// ─────────────────────────────────────────────────────────────
// Transaction lifecycle
// ─────────────────────────────────────────────────────────────

// Begin opens a new local transaction and returns its id, per spec §4.9.
func (s *Store) Begin() (string, error) {
	if s.tx != nil {
		return "", ErrAlreadyInTransaction
	}
	id := ident.MakeDuplex(s.version, s.storeID)
	s.tx = &transaction{id: id, version: s.version, patch: types.Patch{}, change: types.Change{}}
	return id, nil
}

// End commits the open transaction: version advances, a non-empty change
// is published to observers, and a non-empty patch is posted to the sink.
func (s *Store) End() error {
	if s.tx == nil {
		return ErrNotInTransaction
	}
	timer := metrics.NewTimer()
	tx := s.tx
	s.tx = nil
	s.version++
	s.appendHistory(tx.id, tx.patch)

	s.logger.Debug().
		Str("transaction_id", tx.id).
		Uint64("version", s.version).
		Msg("transaction committed")

	if len(tx.change) > 0 {
		s.broker.Publish(&types.ObserverEvent{
			Type: types.EventTransaction, StoreID: s.storeID, TransactionID: tx.id, Change: tx.change,
		})
	}
	if len(tx.patch) > 0 {
		s.sink.Post(types.Envelope{ID: tx.id, StoreID: s.storeID, Patch: tx.patch})
	}
	if s.metrics != nil {
		s.metrics.ObserveCommit(len(tx.patch), len(tx.change))
		s.metrics.ObserveDuration("commit", timer)
	}
	return nil
}

func (s *Store) appendHistory(id string, patch types.Patch) {
	s.history = append(s.history, historyEntry{id: id, storeID: s.storeID, patch: patch})
	s.historyByID[id] = patch
}

// ─────────────────────────────────────────────────────────────
// Remote transaction application
// ─────────────────────────────────────────────────────────────

// ApplyTransaction applies a transaction envelope received from another
// peer, per spec §4.9. It refuses with ErrMutationConflict if a local
// transaction is currently open. Unknown schema ids are logged and
// skipped rather than failing the whole apply. A record the patch names
// that this store does not hold yet is created in its table before the
// patch is applied to it.
func (s *Store) ApplyTransaction(remote types.Envelope) error {
	if s.tx != nil {
		return ErrMutationConflict
	}
	timer := metrics.NewTimer()

	change := types.Change{}
	for _, schemaID := range sortedPatchKeys(remote.Patch) {
		table, ok := s.tables[schemaID]
		if !ok {
			s.logger.Warn().Str("schema_id", schemaID).Msg("UnknownSchema: remote patch references unknown schema id, skipping")
			continue
		}
		tablePatch := remote.Patch[schemaID]
		for recordID := range tablePatch {
			if !table.Has(recordID) {
				_ = table.Insert(table.New(recordID))
			}
		}
		if tc := table.ApplyPatch(tablePatch); len(tc) > 0 {
			change[schemaID] = tc
		}
	}

	remoteVersion, _ := ident.ReadDuplex(remote.ID)
	if remoteVersion >= s.version {
		s.version = remoteVersion + 1
	} else {
		s.version++
	}
	s.appendHistory(remote.ID, remote.Patch)

	if len(change) > 0 {
		s.broker.Publish(&types.ObserverEvent{
			Type: types.EventTransaction, StoreID: remote.StoreID, TransactionID: remote.ID, Change: change,
		})
	}
	if s.metrics != nil {
		s.metrics.ObserveApply(len(remote.Patch), len(change))
		s.metrics.ObserveDuration("apply", timer)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────
// Undo / redo
// ─────────────────────────────────────────────────────────────

// Undo reverses the transaction named by id, per spec §4.9: list/text
// fields are undone by re-applying their patch with removed/inserted
// swapped; register/map fields, which have no such shape, are undone by
// structurally retracting the exact historical write the patch recorded
// (pkg/record's RetractPatch/RetractFieldPatch). Emits a change event of type
// "undo".
func (s *Store) Undo(id string) error {
	patch, ok := s.historyByID[id]
	if !ok {
		return ErrUnknownTransaction
	}
	if s.tx != nil {
		return ErrMutationConflict
	}
	timer := metrics.NewTimer()

	retractable, swapped := splitPatchForUndo(patch)
	change := types.Change{}
	s.dispatchPatch(retractable, change, true)
	s.dispatchPatch(swapped, change, false)

	s.version++
	if len(change) > 0 {
		s.broker.Publish(&types.ObserverEvent{Type: types.EventUndo, StoreID: s.storeID, TransactionID: id, Change: change})
	}
	if s.metrics != nil {
		s.metrics.ObserveUndo()
		s.metrics.ObserveDuration("undo", timer)
	}
	return nil
}

// Redo re-applies the transaction named by id exactly as it was
// originally committed. Emits a change event of type "redo".
func (s *Store) Redo(id string) error {
	patch, ok := s.historyByID[id]
	if !ok {
		return ErrUnknownTransaction
	}
	if s.tx != nil {
		return ErrMutationConflict
	}
	timer := metrics.NewTimer()

	change := types.Change{}
	s.dispatchPatch(patch, change, false)

	s.version++
	if len(change) > 0 {
		s.broker.Publish(&types.ObserverEvent{Type: types.EventRedo, StoreID: s.storeID, TransactionID: id, Change: change})
	}
	if s.metrics != nil {
		s.metrics.ObserveRedo()
		s.metrics.ObserveDuration("redo", timer)
	}
	return nil
}

// dispatchPatch routes every schema's table patch in patch to either
// Table.RetractPatch (retract=true) or Table.ApplyPatch, merging the
// resulting table changes into change.
func (s *Store) dispatchPatch(patch types.Patch, change types.Change, retract bool) {
	for _, schemaID := range sortedPatchKeys(patch) {
		table, ok := s.tables[schemaID]
		if !ok {
			continue
		}
		var tableChange types.TableChange
		if retract {
			tableChange = table.RetractPatch(patch[schemaID])
		} else {
			tableChange = table.ApplyPatch(patch[schemaID])
		}
		if len(tableChange) == 0 {
			continue
		}
		rc, ok := change[schemaID]
		if !ok {
			rc = types.TableChange{}
			change[schemaID] = rc
		}
		for recordID, recordChange := range tableChange {
			fc, ok := rc[recordID]
			if !ok {
				fc = types.RecordChange{}
				rc[recordID] = fc
			}
			for fieldName, fieldChange := range recordChange {
				fc[fieldName] = fieldChange
			}
		}
	}
}

// splitPatchForUndo partitions patch into retractable (register/map field
// patches, undone structurally) and swapped (list/text field patches,
// undone by forward-applying them with removed/inserted exchanged).
func splitPatchForUndo(patch types.Patch) (retractable, swapped types.Patch) {
	retractable = types.Patch{}
	swapped = types.Patch{}
	for schemaID, tablePatch := range patch {
		for recordID, recordPatch := range tablePatch {
			for fieldName, fp := range recordPatch {
				switch fp.Kind {
				case types.FieldKindRegister, types.FieldKindMap:
					putFieldPatch(retractable, schemaID, recordID, fieldName, fp)
				case types.FieldKindList:
					inv := types.FieldPatch{Kind: fp.Kind, List: &types.ListPatch{
						Clock: fp.List.Clock, Removed: fp.List.Inserted, Inserted: fp.List.Removed,
					}}
					putFieldPatch(swapped, schemaID, recordID, fieldName, inv)
				case types.FieldKindText:
					inv := types.FieldPatch{Kind: fp.Kind, Text: &types.TextPatch{
						Clock: fp.Text.Clock, Removed: fp.Text.Inserted, Inserted: fp.Text.Removed,
					}}
					putFieldPatch(swapped, schemaID, recordID, fieldName, inv)
				}
			}
		}
	}
	return retractable, swapped
}

func putFieldPatch(p types.Patch, schemaID, recordID, fieldName string, fp types.FieldPatch) {
	tp, ok := p[schemaID]
	if !ok {
		tp = types.TablePatch{}
		p[schemaID] = tp
	}
	rp, ok := tp[recordID]
	if !ok {
		rp = types.RecordPatch{}
		tp[recordID] = rp
	}
	rp[fieldName] = fp
}

func sortedPatchKeys(patch types.Patch) []string {
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
