package diff

import "github.com/exograph/exoschema/ir"

// diffTables implements spec.md §4.3 rules 1-6 and 8 for tables and
// everything that lives inside them (columns, primary key, foreign keys,
// unique constraints, indices, and the managed update-sync function and
// trigger pair). Drops are guarded by managed membership, per rule 3.
func diffTables(src, tgt *ir.Schema) []SchemaOp {
	var ops []SchemaOp

	srcKeys := src.SortedTableKeys()
	tgtKeys := tgt.SortedTableKeys()
	srcSet := toSet(srcKeys)
	tgtSet := toSet(tgtKeys)

	for _, key := range tgtKeys {
		if srcSet[key] {
			continue
		}
		t := tgt.Tables[key]
		if !tgt.IsManaged(key) {
			continue
		}
		ops = append(ops, createTableOps(t)...)
	}

	for _, key := range srcKeys {
		if tgtSet[key] {
			continue
		}
		s := src.Tables[key]
		if !src.IsManaged(key) {
			continue
		}
		ops = append(ops, dropTableOps(s)...)
	}

	for _, key := range tgtKeys {
		if !srcSet[key] {
			continue
		}
		if !src.IsManaged(key) {
			continue
		}
		ops = append(ops, diffTableInternals(src.Tables[key], tgt.Tables[key])...)
	}

	return ops
}

// createTableOps emits the ops for a brand-new managed table: the CREATE
// TABLE itself (columns and PK clause, per spec.md §4.4's rendering rule —
// FKs deferred), then its unique constraints, indices and foreign keys as
// their own statements, then the managed update-sync pair if present.
func createTableOps(t *ir.Table) []SchemaOp {
	ops := []SchemaOp{{Kind: OpCreateTable, Table: t.QName, TableDef: t, Rationale: "new table"}}

	for _, name := range sortedMapKeys(t.UniqueConstraints) {
		ops = append(ops, SchemaOp{Kind: OpAddUniqueConstraint, Table: t.QName, Name: name, Unique: t.UniqueConstraints[name]})
	}
	for _, name := range sortedMapKeys(t.Indices) {
		ops = append(ops, SchemaOp{Kind: OpCreateIndex, Table: t.QName, Name: name, Index: t.Indices[name]})
	}
	for _, name := range sortedMapKeys(t.ForeignKeys) {
		ops = append(ops, SchemaOp{Kind: OpAddForeignKey, Table: t.QName, Name: name, FK: t.ForeignKeys[name]})
	}
	if t.HasUpdateSync {
		ops = append(ops, updateSyncCreateOps(t)...)
	}
	return ops
}

// dropTableOps emits the ops for removing a managed table, tearing down
// its managed trigger/function pair, foreign keys, indices and unique
// constraints before the DROP TABLE itself (order here is cosmetic; the
// planner's phase ordering is authoritative).
func dropTableOps(t *ir.Table) []SchemaOp {
	var ops []SchemaOp
	if t.HasUpdateSync {
		ops = append(ops, updateSyncDropOps(t)...)
	}
	for _, name := range sortedMapKeys(t.ForeignKeys) {
		ops = append(ops, SchemaOp{Kind: OpDropForeignKey, Table: t.QName, Name: name})
	}
	for _, name := range sortedMapKeys(t.Indices) {
		ops = append(ops, SchemaOp{Kind: OpDropIndex, Table: t.QName, Name: name})
	}
	for _, name := range sortedMapKeys(t.UniqueConstraints) {
		ops = append(ops, SchemaOp{Kind: OpDropUniqueConstraint, Table: t.QName, Name: name})
	}
	ops = append(ops, SchemaOp{Kind: OpDropTable, Table: t.QName, Rationale: "table no longer present in target schema"})
	return ops
}

// diffTableInternals diffs a table present (and managed) on both sides.
func diffTableInternals(s, t *ir.Table) []SchemaOp {
	var ops []SchemaOp
	ops = append(ops, diffColumns(s, t)...)
	ops = append(ops, diffPrimaryKey(s, t)...)
	ops = append(ops, diffForeignKeys(s, t)...)
	ops = append(ops, diffUniqueConstraints(s, t)...)
	ops = append(ops, diffIndices(s, t)...)
	ops = append(ops, diffUpdateSync(s, t)...)
	return ops
}

func columnsByName(t *ir.Table) map[string]*ir.Column {
	m := make(map[string]*ir.Column, len(t.Columns))
	for _, c := range t.Columns {
		m[c.Name] = c
	}
	return m
}

func diffColumns(s, t *ir.Table) []SchemaOp {
	var ops []SchemaOp
	srcCols := columnsByName(s)
	tgtCols := columnsByName(t)

	names := toSet(nil)
	var order []string
	for name := range srcCols {
		if !names[name] {
			names[name] = true
			order = append(order, name)
		}
	}
	for name := range tgtCols {
		if !names[name] {
			names[name] = true
			order = append(order, name)
		}
	}
	order = sortStrings(order)

	for _, name := range order {
		sc, sok := srcCols[name]
		tc, tok := tgtCols[name]
		switch {
		case !sok && tok:
			ops = append(ops, SchemaOp{Kind: OpAddColumn, Table: t.QName, Name: name, Column: tc})
		case sok && !tok:
			ops = append(ops, SchemaOp{Kind: OpDropColumn, Table: t.QName, Name: name})
		case sok && tok:
			ops = append(ops, diffColumnDefinition(t.QName, name, sc, tc)...)
		}
	}
	return ops
}

func diffColumnDefinition(table ir.QName, name string, sc, tc *ir.Column) []SchemaOp {
	var ops []SchemaOp
	if !sc.Type.Equal(tc.Type) {
		ops = append(ops, SchemaOp{Kind: OpAlterColumnType, Table: table, Name: name, ColumnType: tc.Type, OldColumnType: sc.Type})
	}
	if sc.Nullable != tc.Nullable {
		ops = append(ops, SchemaOp{Kind: OpSetColumnNullable, Table: table, Name: name, Nullable: tc.Nullable})
	}
	switch {
	case sc.Default == nil && tc.Default != nil:
		ops = append(ops, SchemaOp{Kind: OpSetColumnDefault, Table: table, Name: name, Default: tc.Default})
	case sc.Default != nil && tc.Default == nil:
		ops = append(ops, SchemaOp{Kind: OpDropColumnDefault, Table: table, Name: name})
	case sc.Default != nil && tc.Default != nil && !sc.Default.Equal(*tc.Default):
		ops = append(ops, SchemaOp{Kind: OpSetColumnDefault, Table: table, Name: name, Default: tc.Default})
	}
	return ops
}

// diffPrimaryKey implements rule 4: any change in the PK column set or
// order recreates the constraint wholesale, since a PK is a single
// indivisible constraint.
func diffPrimaryKey(s, t *ir.Table) []SchemaOp {
	if columnRefsEqualOrdered(s.PrimaryKey, t.PrimaryKey) {
		return nil
	}
	var ops []SchemaOp
	if len(s.PrimaryKey) > 0 {
		ops = append(ops, SchemaOp{Kind: OpDropPrimaryKey, Table: t.QName, Name: t.QName.Name + "_pkey"})
	}
	if len(t.PrimaryKey) > 0 {
		ops = append(ops, SchemaOp{Kind: OpCreatePrimaryKey, Table: t.QName, PKColumns: t.PrimaryKey})
	}
	return ops
}

// diffForeignKeys implements rule 5: a local-column ordering-only change is
// not a difference, since ForeignKey.Equal already ignores it.
func diffForeignKeys(s, t *ir.Table) []SchemaOp {
	var ops []SchemaOp
	srcSet := toSet(sortedMapKeys(s.ForeignKeys))
	for _, name := range sortedMapKeys(t.ForeignKeys) {
		tfk := t.ForeignKeys[name]
		if !srcSet[name] {
			ops = append(ops, SchemaOp{Kind: OpAddForeignKey, Table: t.QName, Name: name, FK: tfk})
			continue
		}
		sfk := s.ForeignKeys[name]
		if !sfk.Equal(tfk) {
			ops = append(ops, SchemaOp{Kind: OpDropForeignKey, Table: t.QName, Name: name})
			ops = append(ops, SchemaOp{Kind: OpAddForeignKey, Table: t.QName, Name: name, FK: tfk})
		}
	}
	tgtSet := toSet(sortedMapKeys(t.ForeignKeys))
	for _, name := range sortedMapKeys(s.ForeignKeys) {
		if !tgtSet[name] {
			ops = append(ops, SchemaOp{Kind: OpDropForeignKey, Table: t.QName, Name: name})
		}
	}
	return ops
}

func diffUniqueConstraints(s, t *ir.Table) []SchemaOp {
	var ops []SchemaOp
	srcSet := toSet(sortedMapKeys(s.UniqueConstraints))
	for _, name := range sortedMapKeys(t.UniqueConstraints) {
		tu := t.UniqueConstraints[name]
		if !srcSet[name] {
			ops = append(ops, SchemaOp{Kind: OpAddUniqueConstraint, Table: t.QName, Name: name, Unique: tu})
			continue
		}
		su := s.UniqueConstraints[name]
		if !su.Equal(tu) {
			ops = append(ops, SchemaOp{Kind: OpDropUniqueConstraint, Table: t.QName, Name: name})
			ops = append(ops, SchemaOp{Kind: OpAddUniqueConstraint, Table: t.QName, Name: name, Unique: tu})
		}
	}
	tgtSet := toSet(sortedMapKeys(t.UniqueConstraints))
	for _, name := range sortedMapKeys(s.UniqueConstraints) {
		if !tgtSet[name] {
			ops = append(ops, SchemaOp{Kind: OpDropUniqueConstraint, Table: t.QName, Name: name})
		}
	}
	return ops
}

// diffIndices implements rule 6: an HNSW distance-function change is a
// difference even though the column set is unchanged, since Index.Equal
// is distance-sensitive for IndexHNSW.
func diffIndices(s, t *ir.Table) []SchemaOp {
	var ops []SchemaOp
	srcSet := toSet(sortedMapKeys(s.Indices))
	for _, name := range sortedMapKeys(t.Indices) {
		ti := t.Indices[name]
		if !srcSet[name] {
			ops = append(ops, SchemaOp{Kind: OpCreateIndex, Table: t.QName, Name: name, Index: ti})
			continue
		}
		si := s.Indices[name]
		if !si.Equal(ti) {
			ops = append(ops, SchemaOp{Kind: OpDropIndex, Table: t.QName, Name: name})
			ops = append(ops, SchemaOp{Kind: OpCreateIndex, Table: t.QName, Name: name, Index: ti})
		}
	}
	tgtSet := toSet(sortedMapKeys(t.Indices))
	for _, name := range sortedMapKeys(s.Indices) {
		if !tgtSet[name] {
			ops = append(ops, SchemaOp{Kind: OpDropIndex, Table: t.QName, Name: name})
		}
	}
	return ops
}

// diffUpdateSync implements rule 8: any change in the set of update-sync
// columns re-emits the full managed function+trigger drop/create sequence,
// even though the table itself is unchanged.
func diffUpdateSync(s, t *ir.Table) []SchemaOp {
	sCols := updateSyncColumnNames(s)
	tCols := updateSyncColumnNames(t)
	if columnRefsEqualOrdered(sCols, tCols) {
		return nil
	}
	var ops []SchemaOp
	if len(sCols) > 0 {
		ops = append(ops, updateSyncDropOps(s)...)
	}
	if len(tCols) > 0 {
		ops = append(ops, updateSyncCreateOps(t)...)
	}
	return ops
}

func updateSyncColumnNames(t *ir.Table) []string {
	var names []string
	for _, c := range t.UpdateSyncColumns() {
		names = append(names, c.Name)
	}
	return names
}

func updateSyncCreateOps(t *ir.Table) []SchemaOp {
	fn := &ir.Function{
		QName: ir.NewQName(t.QName.Namespace, t.UpdateFunctionName()),
		Table: t.QName.Name,
		Sets:  updateSyncColumnNames(t),
	}
	trig := &ir.Trigger{
		QName:    ir.NewQName(t.QName.Namespace, t.UpdateTriggerName()),
		Table:    t.QName.Name,
		Function: t.UpdateFunctionName(),
	}
	return []SchemaOp{
		{Kind: OpCreateFunction, FuncName: fn.QName, Table: t.QName, Function: fn},
		{Kind: OpCreateTrigger, TrigName: trig.QName, Table: t.QName, Trigger: trig},
	}
}

func updateSyncDropOps(t *ir.Table) []SchemaOp {
	trigName := ir.NewQName(t.QName.Namespace, t.UpdateTriggerName())
	fnName := ir.NewQName(t.QName.Namespace, t.UpdateFunctionName())
	return []SchemaOp{
		{Kind: OpDropTrigger, TrigName: trigName, Table: t.QName},
		{Kind: OpDropFunction, FuncName: fnName, Table: t.QName},
	}
}

func columnRefsEqualOrdered(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sortStrings(ss []string) []string {
	out := append([]string{}, ss...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
