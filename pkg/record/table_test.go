package record

import (
	"testing"

	"github.com/cuemby/warren/pkg/types"
)

func TestTableInsertRejectsForeignRecord(t *testing.T) {
	tableA := NewTable(testSchema(), newFakeCtx(1))
	tableB := NewTable(testSchema(), newFakeCtx(2))

	rec := tableA.New("r1")
	if err := tableB.Insert(rec); err == nil {
		t.Fatal("expected an OwnershipError inserting a record into a different table")
	}
}

func TestTableInsertRejectsDuplicateID(t *testing.T) {
	table := NewTable(testSchema(), newFakeCtx(1))
	first := table.New("r1")
	if err := table.Insert(first); err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	second := table.New("r1")
	if err := table.Insert(second); err == nil {
		t.Fatal("expected an OwnershipError inserting a second record at the same id")
	}
}

func TestTableApplyPatchDispatchesToRecordField(t *testing.T) {
	table := NewTable(testSchema(), newFakeCtx(1))
	rec := table.New("r1")
	table.Insert(rec)

	patch := types.TablePatch{
		"r1": types.RecordPatch{
			"title": types.FieldPatch{
				Kind:     types.FieldKindRegister,
				Register: &types.RegisterPatch{Value: "remote value", Clock: 5, StoreID: 2},
			},
		},
	}
	change := table.ApplyPatch(patch)

	if v, _ := rec.Get("title"); v != "remote value" {
		t.Fatalf("title = %v, want remote value", v)
	}
	fc, ok := change["r1"]["title"]
	if !ok || fc.Register == nil || fc.Register.Current != "remote value" {
		t.Fatalf("change = %+v, want a register change to remote value", change)
	}
}

func TestTableApplyPatchSkipsUnknownRecord(t *testing.T) {
	table := NewTable(testSchema(), newFakeCtx(1))

	patch := types.TablePatch{
		"ghost": types.RecordPatch{
			"title": types.FieldPatch{
				Kind:     types.FieldKindRegister,
				Register: &types.RegisterPatch{Value: "x", Clock: 1, StoreID: 1},
			},
		},
	}
	change := table.ApplyPatch(patch)
	if len(change) != 0 {
		t.Fatalf("change = %+v, want empty (unknown record skipped)", change)
	}
}

func TestTableRetractPatchUndoesRegisterWrite(t *testing.T) {
	ctx := newFakeCtx(1)
	table := NewTable(testSchema(), ctx)
	rec := table.New("r1")
	table.Insert(rec)

	ctx.begin(1)
	rec.Set("title", "a")
	ctx.end()
	ctx.begin(2)
	rec.Set("title", "b")
	ctx.end()

	// Retract the "b" write named by the transaction's own accumulated
	// patch to undo it.
	patch := types.TablePatch{"r1": ctx.patch["todos"]["r1"]}
	change := table.RetractPatch(patch)

	if v, _ := rec.Get("title"); v != "a" {
		t.Fatalf("title = %v after retract, want a", v)
	}
	if fc := change["r1"]["title"]; fc.Register == nil || fc.Register.Current != "a" {
		t.Fatalf("change = %+v, want register change to a", change)
	}
}
