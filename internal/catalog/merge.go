package catalog

import (
	"fmt"
	"strings"

	"github.com/exograph/exoschema/internal/sqlparse"
	"github.com/exograph/exoschema/ir"
)

// The merge* functions below are the single-threaded half of BuildSchema:
// they consume the rawRow slices collected concurrently by collect() and
// populate an *ir.Schema, grounded on the teacher's internal/ir/builder.go
// merge step (there: scanning *sql.Rows into typed IR nodes after each
// query completes; here: the same scan-and-assemble shape, generalized to
// the wider Exograph type system).

func mergeEnums(schema *ir.Schema, rows []rawRow) {
	order := []string{}
	byKey := map[string]*ir.Enum{}
	for _, r := range rows {
		ns, name, label := asString(r[0]), asString(r[1]), asString(r[2])
		qn := ir.NewQName(ns, name)
		key := qn.Key()
		e, ok := byKey[key]
		if !ok {
			e = &ir.Enum{QName: qn}
			byKey[key] = e
			order = append(order, key)
		}
		e.Variants = append(e.Variants, label)
	}
	for _, key := range order {
		schema.Enums[key] = byKey[key]
	}
}

func mergeSequences(schema *ir.Schema, rows []rawRow) {
	for _, r := range rows {
		ns, name := asString(r[0]), asString(r[1])
		qn := ir.NewQName(ns, name)
		schema.Sequences[qn.Key()] = &ir.Sequence{QName: qn}
	}
}

func mergeExtensions(schema *ir.Schema, rows []rawRow) {
	for _, r := range rows {
		schema.Extensions[asString(r[0])] = true
	}
}

func mergeTables(schema *ir.Schema, rows []rawRow) {
	for _, r := range rows {
		ns, name := asString(r[0]), asString(r[1])
		schema.AddTable(ir.NewTable(ir.NewQName(ns, name)))
	}
}

func mergeColumns(schema *ir.Schema, rows []rawRow) {
	for _, r := range rows {
		ns, tableName, colName := asString(r[0]), asString(r[1]), asString(r[2])
		udtName := asString(r[4])
		nullable := asBool(r[5])
		maxLength := asIntPtr(r[6])
		numericPrecision := asIntPtr(r[7])
		numericScale := asIntPtr(r[8])
		datetimePrecision := asIntPtr(r[9])
		columnDefault := asString(r[10])

		t := schema.Tables[ir.NewQName(ns, tableName).Key()]
		if t == nil {
			continue
		}

		var enumRef *ir.QName
		if e := findEnumByUDTName(schema, ns, udtName); e != nil {
			qn := e.QName
			enumRef = &qn
		}

		precision, scale := selectPrecisionScale(udtName, numericPrecision, numericScale, datetimePrecision)
		colType := ir.ParsePostgresType(udtName, maxLength, precision, scale, false, enumRef)

		col := &ir.Column{Name: colName, Type: colType, Nullable: nullable}
		if columnDefault != "" {
			col.Default = parseColumnDefault(columnDefault, colType)
			if col.Default != nil && col.Default.Kind == ir.DefaultNextval {
				markImplicitSequence(schema, tableName, colName, col.Default.Seq)
			}
		}
		t.Columns = append(t.Columns, col)
	}
}

// findEnumByUDTName looks up a registered enum by its PostgreSQL type name,
// preferring one in the column's own namespace and falling back to any
// namespace (enums are frequently declared once and referenced cross-schema).
func findEnumByUDTName(schema *ir.Schema, ns, udtName string) *ir.Enum {
	if e, ok := schema.Enums[ir.NewQName(ns, udtName).Key()]; ok {
		return e
	}
	for _, e := range schema.Enums {
		if e.QName.Name == udtName {
			return e
		}
	}
	return nil
}

// selectPrecisionScale picks the (precision, scale) pair information_schema
// reports the type's size under, since a single "precision" concept is
// split across numeric_precision/numeric_scale and datetime_precision
// depending on the underlying type family.
func selectPrecisionScale(udtName string, numericPrecision, numericScale, datetimePrecision *int) (*int, *int) {
	switch udtName {
	case "numeric", "decimal":
		return numericPrecision, numericScale
	case "timestamp", "timestamptz", "time", "timestamp without time zone", "timestamp with time zone":
		return datetimePrecision, nil
	default:
		return nil, nil
	}
}

// markImplicitSequence flags seq as owned by table/column when its name
// matches the naming convention PostgreSQL uses for a SERIAL column's
// backing sequence (spec.md §9 "Sequence tracking across renames").
func markImplicitSequence(schema *ir.Schema, table, column string, seqName ir.QName) {
	seq, ok := schema.Sequences[seqName.Key()]
	if !ok {
		return
	}
	if seqName.Name == ir.ImplicitSequenceName(table, column) {
		seq.Implicit = true
		seq.OwnedByTable = table
		seq.OwnedByColumn = column
	}
}

// parseColumnDefault parses PostgreSQL's textual rendering of
// information_schema.columns.column_default (e.g.
// "nextval('users_id_seq'::regclass)", "now()", "'active'::status") back
// into an ir.Default. This is a best-effort parse of the handful of shapes
// Exograph-declared defaults actually produce; anything unrecognized is
// kept as a literal so it round-trips even if not semantically understood.
func parseColumnDefault(raw string, colType ir.Type) *ir.Default {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	// Run the expression through pg_query_go's parser/deparser so two
	// syntactically-different renderings of the same AST (extra
	// whitespace, a redundant cast, alternate casing) normalize to the
	// same text before the shape-matching below inspects it. Parsing is
	// best-effort: information_schema can hand back fragments (nested
	// CASE expressions, operator chains) this normalizer was not written
	// for, and those fall back to the raw text unchanged.
	if normalized, err := sqlparse.NormalizeExpr(raw); err == nil && normalized != "" {
		raw = normalized
	}

	if strings.HasPrefix(raw, "nextval(") {
		return &ir.Default{Kind: ir.DefaultNextval, Seq: parseSequenceQName(extractQuoted(raw))}
	}

	if strings.HasSuffix(raw, "()") && !strings.Contains(raw, "'") {
		return &ir.Default{Kind: ir.DefaultFunctionCall, Text: strings.TrimSuffix(raw, "()")}
	}

	if strings.HasPrefix(raw, "'") {
		lit := extractQuoted(raw)
		if colType.Kind == ir.KindEnumRef {
			return &ir.Default{Kind: ir.DefaultEnumLiteral, Text: lit}
		}
		return &ir.Default{Kind: ir.DefaultLiteral, Text: lit, Quote: true}
	}

	text := raw
	if i := strings.Index(text, "::"); i >= 0 {
		text = text[:i]
	}
	return &ir.Default{Kind: ir.DefaultLiteral, Text: text}
}

func extractQuoted(s string) string {
	start := strings.IndexByte(s, '\'')
	if start < 0 {
		return s
	}
	rest := s[start+1:]
	end := strings.IndexByte(rest, '\'')
	if end < 0 {
		return rest
	}
	return rest[:end]
}

func parseSequenceQName(name string) ir.QName {
	if i := strings.Index(name, "."); i >= 0 {
		return ir.NewQName(name[:i], name[i+1:])
	}
	return ir.Local(name)
}

func mergePrimaryKeys(schema *ir.Schema, rows []rawRow) {
	for _, r := range rows {
		ns, tableName, colName := asString(r[0]), asString(r[1]), asString(r[2])
		t := schema.Tables[ir.NewQName(ns, tableName).Key()]
		if t == nil {
			continue
		}
		t.PrimaryKey = append(t.PrimaryKey, colName)
	}
}

// referentialActionFromCode maps pg_constraint.confupdtype/confdeltype's
// single-character code to the corresponding ReferentialAction.
func referentialActionFromCode(code string) (ir.ReferentialAction, error) {
	switch code {
	case "a":
		return ir.ActionNoAction, nil
	case "r":
		return ir.ActionRestrict, nil
	case "c":
		return ir.ActionCascade, nil
	case "n":
		return ir.ActionSetNull, nil
	case "d":
		return ir.ActionSetDefault, nil
	default:
		return "", fmt.Errorf("catalog: unrecognized referential action code %q", code)
	}
}

// mergeForeignKeys groups rows by constraint oid (queryForeignKeys already
// orders by oid, ord) so a composite FK becomes a single ir.ForeignKey, per
// spec.md §3.
func mergeForeignKeys(schema *ir.Schema, rows []rawRow) error {
	type group struct {
		tableKey string
		fk       *ir.ForeignKey
	}
	order := []string{}
	byOID := map[string]*group{}

	for _, r := range rows {
		oidKey := fmt.Sprintf("%v", r[0])
		ns, tableName := asString(r[1]), asString(r[2])
		conname := asString(r[3])
		localCol := asString(r[4])
		refNs, refTable, refCol := asString(r[5]), asString(r[6]), asString(r[7])
		updCode, delCode := asString(r[8]), asString(r[9])

		g, ok := byOID[oidKey]
		if !ok {
			onUpdate, err := referentialActionFromCode(updCode)
			if err != nil {
				return err
			}
			onDelete, err := referentialActionFromCode(delCode)
			if err != nil {
				return err
			}
			g = &group{
				tableKey: ir.NewQName(ns, tableName).Key(),
				fk: &ir.ForeignKey{
					Name:     conname,
					RefTable: ir.NewQName(refNs, refTable),
					OnDelete: onDelete,
					OnUpdate: onUpdate,
				},
			}
			byOID[oidKey] = g
			order = append(order, oidKey)
		}
		g.fk.LocalColumns = append(g.fk.LocalColumns, localCol)
		g.fk.RefColumns = append(g.fk.RefColumns, refCol)
	}

	for _, oidKey := range order {
		g := byOID[oidKey]
		t := schema.Tables[g.tableKey]
		if t == nil {
			continue
		}
		t.ForeignKeys[g.fk.Name] = g.fk
	}
	return nil
}

func mergeUniqueConstraints(schema *ir.Schema, rows []rawRow) {
	type group struct {
		tableKey string
		u        *ir.UniqueConstraint
	}
	order := []string{}
	byKey := map[string]*group{}

	for _, r := range rows {
		ns, tableName, name, col := asString(r[0]), asString(r[1]), asString(r[2]), asString(r[3])
		tableKey := ir.NewQName(ns, tableName).Key()
		groupKey := tableKey + "/" + name
		g, ok := byKey[groupKey]
		if !ok {
			g = &group{tableKey: tableKey, u: &ir.UniqueConstraint{Name: name}}
			byKey[groupKey] = g
			order = append(order, groupKey)
		}
		g.u.Columns = append(g.u.Columns, col)
	}

	for _, groupKey := range order {
		g := byKey[groupKey]
		t := schema.Tables[g.tableKey]
		if t == nil {
			continue
		}
		t.UniqueConstraints[g.u.Name] = g.u
	}
}

func mergeIndices(schema *ir.Schema, rows []rawRow) {
	type group struct {
		tableKey   string
		idx        *ir.Index
		firstOpcls string
	}
	order := []string{}
	byKey := map[string]*group{}

	for _, r := range rows {
		ns, tableName, indexName, amName := asString(r[0]), asString(r[1]), asString(r[2]), asString(r[3])
		col := asString(r[4])
		opcName := asString(r[6])

		tableKey := ir.NewQName(ns, tableName).Key()
		groupKey := tableKey + "/" + indexName
		g, ok := byKey[groupKey]
		if !ok {
			kind := ir.IndexBTree
			if amName == "hnsw" {
				kind = ir.IndexHNSW
			}
			g = &group{tableKey: tableKey, idx: &ir.Index{Name: indexName, Kind: kind}, firstOpcls: opcName}
			byKey[groupKey] = g
			order = append(order, groupKey)
		}
		g.idx.Columns = append(g.idx.Columns, col)
	}

	for _, groupKey := range order {
		g := byKey[groupKey]
		if g.idx.Kind == ir.IndexHNSW {
			g.idx.Distance = ir.DistanceFunctionFromOpClass(g.firstOpcls)
		}
		t := schema.Tables[g.tableKey]
		if t == nil {
			continue
		}
		t.Indices[g.idx.Name] = g.idx
	}
}

func mergeManagedFunctions(schema *ir.Schema, rows []rawRow) {
	for _, r := range rows {
		ns, proname := asString(r[0]), asString(r[1])
		table := strings.TrimPrefix(proname, "exograph_update_")
		qn := ir.NewQName(ns, proname)
		schema.Functions[qn.Key()] = &ir.Function{QName: qn, Table: table}
	}
}

func mergeManagedTriggers(schema *ir.Schema, rows []rawRow) {
	for _, r := range rows {
		ns, table, tgname := asString(r[0]), asString(r[1]), asString(r[2])
		qn := ir.NewQName(ns, tgname)
		schema.Triggers[qn.Key()] = &ir.Trigger{
			QName:    qn,
			Table:    table,
			Function: "exograph_update_" + table,
		}
	}
}
