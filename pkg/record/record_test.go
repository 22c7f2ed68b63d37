package record

import (
	"testing"

	"github.com/cuemby/warren/pkg/types"
)

// fakeCtx is a minimal MutationContext for exercising records/tables
// without pulling in the transaction engine.
type fakeCtx struct {
	open    bool
	clock   uint64
	storeID uint32
	patch   types.Patch
	change  types.Change
}

func newFakeCtx(storeID uint32) *fakeCtx {
	return &fakeCtx{storeID: storeID, patch: types.Patch{}, change: types.Change{}}
}

func (c *fakeCtx) begin(clock uint64) {
	c.open = true
	c.clock = clock
}

func (c *fakeCtx) end() { c.open = false }

func (c *fakeCtx) AssertMutationsAllowed() error {
	if !c.open {
		return errNotInTransaction
	}
	return nil
}

func (c *fakeCtx) Clock() uint64   { return c.clock }
func (c *fakeCtx) StoreID() uint32 { return c.storeID }

func (c *fakeCtx) RecordMutation(schemaID, recordID, fieldName string, patch types.FieldPatch, change types.FieldChange) {
	types.MergeFieldPatch(c.patch, schemaID, recordID, fieldName, patch)
	types.MergeFieldChange(c.change, schemaID, recordID, fieldName, change)
}

type sentinelErr string

func (e sentinelErr) Error() string { return string(e) }

const errNotInTransaction = sentinelErr("not in transaction")

func testSchema() types.Schema {
	return types.Schema{
		ID: "todos",
		Fields: map[string]types.FieldSchema{
			"title": {Kind: types.FieldKindRegister, Undoable: true, Default: ""},
			"tags":  {Kind: types.FieldKindList},
			"meta":  {Kind: types.FieldKindMap, Undoable: true},
			"notes": {Kind: types.FieldKindText},
		},
	}
}

func TestRecordSetRejectsMutationOutsideTransaction(t *testing.T) {
	ctx := newFakeCtx(1)
	table := NewTable(testSchema(), ctx)
	rec := table.New("r1")

	if err := rec.Set("title", "hello"); err == nil {
		t.Fatal("expected an error mutating outside a transaction")
	}
}

func TestRecordSetUpdatesValueAndAccumulatesPatch(t *testing.T) {
	ctx := newFakeCtx(1)
	table := NewTable(testSchema(), ctx)
	rec := table.New("r1")
	if err := table.Insert(rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	ctx.begin(1)
	if err := rec.Set("title", "buy milk"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	ctx.end()

	v, err := rec.Get("title")
	if err != nil || v != "buy milk" {
		t.Fatalf("Get(title) = %v, %v, want buy milk, nil", v, err)
	}

	fp := ctx.patch["todos"]["r1"]["title"]
	if fp.Register == nil || fp.Register.Value != "buy milk" {
		t.Fatalf("accumulated patch = %+v, want register write of buy milk", fp)
	}
}

func TestRecordGetUnknownFieldErrors(t *testing.T) {
	table := NewTable(testSchema(), newFakeCtx(1))
	rec := table.New("r1")
	if _, err := rec.Get("nope"); err == nil {
		t.Fatal("expected a FieldNotFoundError")
	}
}

func TestRecordListAndMapAndTextMutations(t *testing.T) {
	ctx := newFakeCtx(1)
	table := NewTable(testSchema(), ctx)
	rec := table.New("r1")
	table.Insert(rec)

	ctx.begin(1)
	if err := rec.Push("tags", "home", "urgent"); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := rec.MapSet("meta", "priority", "high"); err != nil {
		t.Fatalf("MapSet: %v", err)
	}
	if err := rec.TextEdit("notes", types.TextEdit{Index: 0, Inserted: "call back"}); err != nil {
		t.Fatalf("TextEdit: %v", err)
	}
	ctx.end()

	tags, _ := rec.ListValues("tags")
	if len(tags) != 2 || tags[0] != "home" || tags[1] != "urgent" {
		t.Fatalf("tags = %v, want [home urgent]", tags)
	}
	if v, ok, _ := rec.MapGet("meta", "priority"); !ok || v != "high" {
		t.Fatalf("meta[priority] = %v, %v, want high, true", v, ok)
	}
	if text, _ := rec.Text("notes"); text != "call back" {
		t.Fatalf("notes = %q, want %q", text, "call back")
	}
}
