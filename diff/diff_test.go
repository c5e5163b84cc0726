package diff

import (
	"testing"

	"github.com/exograph/exoschema/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTodosSchema() *ir.Schema {
	s := ir.NewSchema()
	t := ir.NewTable(ir.Local("todos"))
	t.Columns = []*ir.Column{
		{Name: "id", Type: ir.IntN(ir.Int32)},
		{Name: "title", Type: ir.Text(nil)},
	}
	t.PrimaryKey = []string{"id"}
	t.RecomputeDerived()
	s.AddTable(t)
	return s
}

// TestEmptyDiffIsIdentity exercises property 2 of spec.md §8: diffing a
// schema against itself yields no ops.
func TestEmptyDiffIsIdentity(t *testing.T) {
	s := newTodosSchema()
	ops := Diff(s, s)
	assert.Empty(t, ops)
}

// TestAddEnumAndColumns mirrors golden scenario S1 (add-enum): a new enum
// plus two new columns referencing it, one with a default.
func TestAddEnumAndColumns(t *testing.T) {
	src := newTodosSchema()

	tgt := newTodosSchema()
	priorityEnum := ir.NewQName(ir.DefaultNamespace, "priority")
	tgt.Enums[priorityEnum.Key()] = &ir.Enum{QName: priorityEnum, Variants: []string{"LOW", "MEDIUM", "HIGH"}}
	tgtTable := tgt.Tables[ir.Local("todos").Key()]
	tgtTable.Columns = append(tgtTable.Columns,
		&ir.Column{Name: "priority", Type: ir.EnumRefType(priorityEnum)},
		&ir.Column{Name: "priority_with_default", Type: ir.EnumRefType(priorityEnum),
			Default: &ir.Default{Kind: ir.DefaultEnumLiteral, Text: "MEDIUM"}},
	)

	ops := Diff(src, tgt)

	var kinds []OpKind
	for _, op := range ops {
		kinds = append(kinds, op.Kind)
	}
	assert.Contains(t, kinds, OpCreateEnum)
	assert.Contains(t, kinds, OpAddColumn)

	var sawPriority, sawDefaulted bool
	for _, op := range ops {
		if op.Kind == OpAddColumn && op.Name == "priority" {
			sawPriority = true
		}
		if op.Kind == OpAddColumn && op.Name == "priority_with_default" {
			sawDefaulted = true
			require.NotNil(t, op.Column.Default)
			assert.Equal(t, "MEDIUM", op.Column.Default.Text)
		}
	}
	assert.True(t, sawPriority)
	assert.True(t, sawDefaulted)
}

// TestEnumAppendedVariant exercises the safe-append path of rule 7.
func TestEnumAppendedVariant(t *testing.T) {
	qn := ir.Local("priority")
	src := ir.NewSchema()
	src.Enums[qn.Key()] = &ir.Enum{QName: qn, Variants: []string{"LOW", "MEDIUM"}}
	tgt := ir.NewSchema()
	tgt.Enums[qn.Key()] = &ir.Enum{QName: qn, Variants: []string{"LOW", "MEDIUM", "HIGH"}}

	ops := Diff(src, tgt)
	require.Len(t, ops, 1)
	assert.Equal(t, OpAddEnumVariant, ops[0].Kind)
	assert.Equal(t, "HIGH", ops[0].Variant)
}

// TestEnumReorderDegradesToRecreate exercises the non-append path of rule 7.
func TestEnumReorderDegradesToRecreate(t *testing.T) {
	qn := ir.Local("priority")
	src := ir.NewSchema()
	src.Enums[qn.Key()] = &ir.Enum{QName: qn, Variants: []string{"LOW", "MEDIUM", "HIGH"}}
	tgt := ir.NewSchema()
	tgt.Enums[qn.Key()] = &ir.Enum{QName: qn, Variants: []string{"HIGH", "MEDIUM", "LOW"}}

	ops := Diff(src, tgt)
	require.Len(t, ops, 2)
	assert.Equal(t, OpDropEnum, ops[0].Kind)
	assert.Equal(t, OpCreateEnum, ops[1].Kind)
}

// TestHNSWDistanceFunctionChange mirrors golden scenario S4.
func TestHNSWDistanceFunctionChange(t *testing.T) {
	mkSchema := func(dist ir.DistanceFunction) *ir.Schema {
		s := ir.NewSchema()
		tbl := ir.NewTable(ir.Local("documents"))
		tbl.Columns = []*ir.Column{{Name: "content_vector", Type: ir.Vector(1536)}}
		tbl.Indices["document_contentvector_idx"] = &ir.Index{
			Name: "document_contentvector_idx", Columns: []string{"content_vector"},
			Kind: ir.IndexHNSW, Distance: dist,
		}
		s.AddTable(tbl)
		return s
	}

	ops := Diff(mkSchema(ir.DistanceCosine), mkSchema(ir.DistanceL2))
	require.Len(t, ops, 2)
	assert.Equal(t, OpDropIndex, ops[0].Kind)
	assert.Equal(t, OpCreateIndex, ops[1].Kind)
	assert.Equal(t, ir.DistanceL2, ops[1].Index.Distance)
}

// TestForeignKeyLocalColumnReorderIsNotADifference exercises rule 5.
func TestForeignKeyLocalColumnReorderIsNotADifference(t *testing.T) {
	mkSchema := func(local []string, ref []string) *ir.Schema {
		s := ir.NewSchema()
		tbl := ir.NewTable(ir.Local("order_items"))
		tbl.ForeignKeys["order_items_fk"] = &ir.ForeignKey{
			Name: "order_items_fk", LocalColumns: local, RefTable: ir.Local("orders"), RefColumns: ref,
			OnDelete: ir.ActionCascade, OnUpdate: ir.ActionNoAction,
		}
		s.AddTable(tbl)
		return s
	}
	src := mkSchema([]string{"order_year", "order_id"}, []string{"year", "id"})
	tgt := mkSchema([]string{"order_id", "order_year"}, []string{"id", "year"})

	ops := Diff(src, tgt)
	assert.Empty(t, ops)
}

// TestDropTableGuardedByManaged exercises rule 3: a table absent from the
// managed set produces no drop, even when it disappears from the target.
func TestDropTableGuardedByManaged(t *testing.T) {
	src := ir.NewSchema()
	venues := ir.NewTable(ir.Local("venues"))
	venues.Columns = []*ir.Column{{Name: "id", Type: ir.IntN(ir.Int32)}}
	venues.PrimaryKey = []string{"id"}
	src.AddUnmanagedTable(venues)

	tgt := ir.NewSchema()

	ops := Diff(src, tgt)
	assert.Empty(t, ops)
}

// TestUpdateSyncColumnChangeRecreatesManagedPair exercises rule 8.
func TestUpdateSyncColumnChangeRecreatesManagedPair(t *testing.T) {
	mkSchema := func(syncCols ...string) *ir.Schema {
		s := ir.NewSchema()
		tbl := ir.NewTable(ir.Local("todos"))
		tbl.Columns = []*ir.Column{{Name: "id", Type: ir.IntN(ir.Int32)}}
		for _, c := range syncCols {
			tbl.Columns = append(tbl.Columns, &ir.Column{Name: c, UpdateSync: true})
		}
		tbl.PrimaryKey = []string{"id"}
		tbl.RecomputeDerived()
		s.AddTable(tbl)
		return s
	}

	src := mkSchema("updated_at")
	tgt := mkSchema("updated_at", "modification_id")

	ops := Diff(src, tgt)

	var kinds []OpKind
	for _, op := range ops {
		kinds = append(kinds, op.Kind)
	}
	assert.Contains(t, kinds, OpDropFunction)
	assert.Contains(t, kinds, OpCreateFunction)
	assert.Contains(t, kinds, OpDropTrigger)
	assert.Contains(t, kinds, OpCreateTrigger)
}
