package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exograph/exoschema/internal/importer"
	"github.com/exograph/exoschema/ir"
)

func TestImportSimpleTable(t *testing.T) {
	s := ir.NewSchema()
	t1 := ir.NewTable(ir.Local("todos"))
	t1.Columns = []*ir.Column{
		{Name: "id", Type: ir.IntN(ir.Int32), Default: &ir.Default{Kind: ir.DefaultNextval, Seq: ir.Local("todos_id_seq")}},
		{Name: "title", Type: ir.Text(nil)},
		{Name: "done", Type: ir.Bool(), Nullable: true},
	}
	t1.PrimaryKey = []string{"id"}
	t1.RecomputeDerived()
	s.AddTable(t1)

	out, warnings, err := importer.Import(s, nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Contains(t, out, `type Todos {`)
	assert.Contains(t, out, "id: Int = autoIncrement() @pk")
	assert.Contains(t, out, "title: String")
	assert.Contains(t, out, "done: Boolean?")
}

func TestImportRelationAndBackReference(t *testing.T) {
	s := ir.NewSchema()
	todos := ir.NewTable(ir.Local("todos"))
	todos.Columns = []*ir.Column{{Name: "id", Type: ir.IntN(ir.Int32)}}
	todos.PrimaryKey = []string{"id"}
	todos.RecomputeDerived()
	s.AddTable(todos)

	notes := ir.NewTable(ir.Local("notes"))
	notes.Columns = []*ir.Column{
		{Name: "id", Type: ir.IntN(ir.Int32)},
		{Name: "todo_id", Type: ir.IntN(ir.Int32)},
	}
	notes.PrimaryKey = []string{"id"}
	notes.ForeignKeys["notes_todo_id_fkey"] = &ir.ForeignKey{
		Name: "notes_todo_id_fkey", LocalColumns: []string{"todo_id"},
		RefTable: ir.Local("todos"), RefColumns: []string{"id"},
	}
	notes.RecomputeDerived()
	s.AddTable(notes)

	out, _, err := importer.Import(s, nil)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `todo: Todos @column(name="todo_id")`))
	assert.True(t, strings.Contains(out, "notes: Set<Notes>"))
}

func TestImportEnum(t *testing.T) {
	s := ir.NewSchema()
	s.Enums[ir.Local("status").Key()] = &ir.Enum{QName: ir.Local("status"), Variants: []string{"OPEN", "CLOSED"}}

	out, _, err := importer.Import(s, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "enum Status {")
	assert.Contains(t, out, "OPEN,")
	assert.Contains(t, out, "CLOSED,")
}

func TestImportUnsupportedConstructWarning(t *testing.T) {
	s := ir.NewSchema()
	rawDDL := []string{`CREATE TABLE widgets (id int, price int CHECK (price > 0))`}

	_, warnings, err := importer.Import(s, rawDDL)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Detail, "CHECK constraint")
}
