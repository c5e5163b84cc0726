package refine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exograph/exoschema/diff"
	"github.com/exograph/exoschema/internal/prompt"
	"github.com/exograph/exoschema/internal/refine"
	"github.com/exograph/exoschema/ir"
)

func newNotesSchema(tableName string) *ir.Schema {
	s := ir.NewSchema()
	t := ir.NewTable(ir.Local(tableName))
	t.Columns = []*ir.Column{
		{Name: "id", Type: ir.IntN(ir.Int32)},
		{Name: "body", Type: ir.Text(nil)},
	}
	t.PrimaryKey = []string{"id"}
	t.RecomputeDerived()
	s.AddTable(t)
	return s
}

// TestRefineTableRenameAccepted mirrors spec.md §4.5's simple rename case:
// a table with identical columns appears under a new name, and the
// operator confirms the single candidate.
func TestRefineTableRenameAccepted(t *testing.T) {
	src := newNotesSchema("notes")
	tgt := newNotesSchema("memos")

	ops := diff.Diff(src, tgt)
	require.Len(t, ops, 2) // DropTable notes, CreateTable memos

	scripted := &prompt.Scripted{Answers: []prompt.Answer{{PickIndex: 0}}}
	out, err := refine.Refine(src, tgt, ops, scripted)
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, diff.OpRenameTable, out[0].Kind)
	assert.Equal(t, "notes", out[0].OldName.Name)
	assert.Equal(t, "memos", out[0].Table.Name)
}

// TestRefineTableRenameDeclined confirms that declining the only candidate
// leaves the original drop+create pair untouched.
func TestRefineTableRenameDeclined(t *testing.T) {
	src := newNotesSchema("notes")
	tgt := newNotesSchema("memos")

	ops := diff.Diff(src, tgt)

	scripted := &prompt.Scripted{Answers: []prompt.Answer{{PickIndex: -1}}}
	out, err := refine.Refine(src, tgt, ops, scripted)
	require.NoError(t, err)

	require.Len(t, out, 2)
	kinds := map[diff.OpKind]bool{out[0].Kind: true, out[1].Kind: true}
	assert.True(t, kinds[diff.OpDropTable])
	assert.True(t, kinds[diff.OpCreateTable])
}

// TestRefineColumnRenameAccepted exercises the column-rename candidate
// path: same table, one column drops, a structurally-identical one (same
// type/nullability/default) appears under a new name.
func TestRefineColumnRenameAccepted(t *testing.T) {
	src := newNotesSchema("notes")
	tgt := ir.NewSchema()
	renamed := ir.NewTable(ir.Local("notes"))
	renamed.Columns = []*ir.Column{
		{Name: "id", Type: ir.IntN(ir.Int32)},
		{Name: "content", Type: ir.Text(nil)},
	}
	renamed.PrimaryKey = []string{"id"}
	renamed.RecomputeDerived()
	tgt.AddTable(renamed)

	ops := diff.Diff(src, tgt)
	require.Len(t, ops, 2) // DropColumn body, AddColumn content

	scripted := &prompt.Scripted{Answers: []prompt.Answer{{PickIndex: 0}}}
	out, err := refine.Refine(src, tgt, ops, scripted)
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, diff.OpRenameColumn, out[0].Kind)
	assert.Equal(t, "body", out[0].Name)
	assert.Equal(t, "content", out[0].NewName)
}

// TestRefineNoCandidatesLeavesOpsUnchanged ensures a schema diff with no
// rename-shaped pairs passes through refine untouched.
func TestRefineNoCandidatesLeavesOpsUnchanged(t *testing.T) {
	src := newNotesSchema("notes")
	tgt := newNotesSchema("notes")
	tgtTable := tgt.Tables[ir.Local("notes").Key()]
	tgtTable.Columns = append(tgtTable.Columns, &ir.Column{Name: "archived", Type: ir.Bool(), Nullable: true})

	ops := diff.Diff(src, tgt)
	out, err := refine.Refine(src, tgt, ops, prompt.AlwaysDecline{})
	require.NoError(t, err)
	assert.Equal(t, ops, out)
}
