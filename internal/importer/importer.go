// Package importer implements the schema-import / pretty-printer (C8,
// spec.md §4.6): given an introspected *ir.Schema, render the declarative
// source text that would round-trip to it. Grounded on the teacher's
// internal/ir package doc-comment style (the teacher has no declarative
// model of its own to round-trip to, so the rendering rules themselves —
// field ordering, naming conventions, relation inference — are new code
// built against spec.md §4.6, in the teacher's plain-function,
// switch-over-kind idiom).
package importer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/exograph/exoschema/internal/sqlparse"
	"github.com/exograph/exoschema/ir"
)

// Warning is a single UnsupportedConstruct occurrence (spec.md §7):
// non-fatal, collected alongside the rendered source rather than aborting
// the import.
type Warning struct {
	Object string
	Detail string
}

// Import renders schema as declarative source text. rawDDL is an optional
// list of the CREATE TABLE/INDEX statements introspection captured
// verbatim (e.g. from a pg_dump-style capture alongside catalog queries);
// when supplied, it is scanned for constructs the declarative model has
// no representation for (CHECK constraints, partial indices) and each
// occurrence is surfaced as a Warning instead of silently dropped. A nil
// rawDDL skips this scan entirely — the rendered source is unaffected
// either way, since ir.Schema itself never carries these constructs.
func Import(schema *ir.Schema, rawDDL []string) (string, []Warning, error) {
	var warnings []Warning
	for _, stmt := range rawDDL {
		statements, err := sqlparse.SplitStatements(stmt)
		if err != nil {
			continue
		}
		for _, s := range statements {
			if u, ok := sqlparse.DetectUnsupported(s); ok {
				warnings = append(warnings, Warning{Object: u.Object, Detail: u.Detail})
			}
		}
	}

	b := &renderer{schema: schema}
	b.renderExtensions()
	b.renderEnums()

	relations := analyzeRelations(schema)
	for _, key := range schema.SortedTableKeys() {
		if err := b.renderType(schema.Tables[key], relations); err != nil {
			return "", warnings, err
		}
	}

	return b.buf.String(), warnings, nil
}

type renderer struct {
	schema *ir.Schema
	buf    strings.Builder
}

func (b *renderer) renderExtensions() {
	for _, ext := range b.schema.SortedExtensions() {
		fmt.Fprintf(&b.buf, "@extension(\"%s\")\n", ext)
	}
	if len(b.schema.Extensions) > 0 {
		b.buf.WriteString("\n")
	}
}

func (b *renderer) renderEnums() {
	for _, key := range b.schema.SortedEnumKeys() {
		e := b.schema.Enums[key]
		fmt.Fprintf(&b.buf, "enum %s {\n", typeName(e.QName.Name))
		for _, v := range e.Variants {
			fmt.Fprintf(&b.buf, "  %s,\n", v)
		}
		b.buf.WriteString("}\n\n")
	}
}

// relationInfo records, for one table, which of its FK-backed columns
// become a relation field and whether the parent gets an implicit
// Set<Child> back-reference or needs an explicit @relation disambiguator
// (spec.md §4.6's "back-references" rule).
type relationInfo struct {
	// childrenOf maps a referenced table key to the list of (child table
	// key, fk name) pairs referencing it.
	childrenOf map[string][]childRef
}

type childRef struct {
	childKey string
	fkName   string
}

func analyzeRelations(schema *ir.Schema) *relationInfo {
	info := &relationInfo{childrenOf: map[string][]childRef{}}
	for _, key := range schema.SortedTableKeys() {
		t := schema.Tables[key]
		var fkNames []string
		for name := range t.ForeignKeys {
			fkNames = append(fkNames, name)
		}
		sort.Strings(fkNames)
		for _, name := range fkNames {
			fk := t.ForeignKeys[name]
			info.childrenOf[fk.RefTable.Key()] = append(info.childrenOf[fk.RefTable.Key()], childRef{childKey: key, fkName: name})
		}
	}
	return info
}

func (b *renderer) renderType(t *ir.Table, relations *relationInfo) error {
	fmt.Fprintf(&b.buf, "@table(name=\"%s\"", t.QName.Name)
	if !t.QName.IsDefaultNamespace() {
		fmt.Fprintf(&b.buf, ", schema=\"%s\"", t.QName.Namespace)
	}
	b.buf.WriteString(")\n")
	fmt.Fprintf(&b.buf, "type %s {\n", typeName(t.QName.Name))

	pkSet := map[string]bool{}
	for _, c := range t.PrimaryKey {
		pkSet[c] = true
	}

	// 1. PK columns in PK order.
	for _, pkCol := range t.PrimaryKey {
		c := t.ColumnByName(pkCol)
		if c != nil {
			b.renderScalarField(c, true)
		}
	}

	// 2. Non-relation scalar columns, original physical order.
	fkColumns := fkLocalColumnSet(t)
	for _, c := range t.Columns {
		if pkSet[c.Name] || fkColumns[c.Name] {
			continue
		}
		b.renderScalarField(c, false)
	}

	// Relation fields (FK-backed columns) and back-references, sorted
	// together alphabetically by field name (spec.md §4.6 rule 3).
	var relationFields []string
	var fkNames []string
	for name := range t.ForeignKeys {
		fkNames = append(fkNames, name)
	}
	sort.Strings(fkNames)
	for _, name := range fkNames {
		fk := t.ForeignKeys[name]
		rendered, err := renderToOneRelation(fk)
		if err != nil {
			return fmt.Errorf("table %s: %w", t.QName, err)
		}
		relationFields = append(relationFields, rendered)
	}

	for _, childKey := range relations.backReferenceTargets(t.QName.Key()) {
		refs := relations.childrenOf[t.QName.Key()]
		var matching []childRef
		for _, r := range refs {
			if r.childKey == childKey {
				matching = append(matching, r)
			}
		}
		childTable := b.schema.Tables[childKey]
		if childTable == nil {
			continue
		}
		if len(matching) == 1 {
			relationFields = append(relationFields, renderBackReference(childTable, matching[0], false))
		} else {
			for _, m := range matching {
				relationFields = append(relationFields, renderBackReference(childTable, m, true))
			}
		}
	}

	sort.Strings(relationFields)
	for _, f := range relationFields {
		fmt.Fprintf(&b.buf, "  %s\n", f)
	}

	b.buf.WriteString("}\n\n")
	return nil
}

// backReferenceTargets returns, in sorted order, the distinct child table
// keys that reference parentKey at least once.
func (r *relationInfo) backReferenceTargets(parentKey string) []string {
	var keys []string
	seen := map[string]bool{}
	for _, ref := range r.childrenOf[parentKey] {
		if !seen[ref.childKey] {
			seen[ref.childKey] = true
			keys = append(keys, ref.childKey)
		}
	}
	sort.Strings(keys)
	return keys
}

func fkLocalColumnSet(t *ir.Table) map[string]bool {
	set := map[string]bool{}
	for _, fk := range t.ForeignKeys {
		for _, col := range fk.LocalColumns {
			set[col] = true
		}
	}
	return set
}

func (b *renderer) renderScalarField(c *ir.Column, isPK bool) {
	var annotations []string
	if isPK {
		annotations = append(annotations, "@pk")
	}
	fieldName := toCamelCase(c.Name)
	if fieldName != c.Name {
		annotations = append(annotations, fmt.Sprintf(`@column(name="%s")`, c.Name))
	}
	if c.UpdateSync {
		annotations = append(annotations, "@updateSync")
	}
	if c.Readonly {
		annotations = append(annotations, "@readonly")
	}

	typ := scalarTypeName(c.Type)
	if c.Nullable {
		typ += "?"
	}
	if d := renderDefault(c.Default); d != "" {
		typ += " = " + d
	}

	line := fieldName + ": " + typ
	if len(annotations) > 0 {
		line += " " + strings.Join(annotations, " ")
	}
	fmt.Fprintf(&b.buf, "  %s\n", line)
}

// renderToOneRelation renders a single FK-backed column as a to-one
// relation field, stripping the conventional "_id" suffix for the field
// name (spec.md §4.6: "user_id -> user"), and emitting @column(mapping=)
// for composite FKs (more than one local column).
func renderToOneRelation(fk *ir.ForeignKey) (string, error) {
	fieldName := relationFieldName(fk.LocalColumns[0])
	typ := typeName(fk.RefTable.Name)
	if len(fk.LocalColumns) == 1 {
		return fmt.Sprintf(`  %s: %s @column(name="%s")`, fieldName, typ, fk.LocalColumns[0]), nil
	}
	local, ref := fk.SortedColumns()
	mapping := make(map[string]any, len(local))
	for i := range local {
		mapping[local[i]] = ref[i]
	}
	if err := validateMapping(mapping); err != nil {
		return "", err
	}
	return fmt.Sprintf(`  %s: %s @column(mapping=%s)`, fieldName, typ, renderMapping(local, ref)), nil
}

func renderBackReference(childTable *ir.Table, ref childRef, disambiguate bool) string {
	fieldName := toCamelCase(childTable.QName.Name) // pluralized by convention downstream; kept simple here
	typ := fmt.Sprintf("Set<%s>", typeName(childTable.QName.Name))
	if !disambiguate {
		return fmt.Sprintf("  %s: %s", fieldName, typ)
	}
	fk := childTable.ForeignKeys[ref.fkName]
	relField := relationFieldName(fk.LocalColumns[0])
	return fmt.Sprintf(`  %s: %s @relation("%s")`, fieldName, typ, relField)
}

// typeName title-cases a table/enum's snake_case local name into a
// declarative-model type name ("todo_items" -> "TodoItems").
func typeName(snake string) string {
	parts := strings.Split(snake, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

// toCamelCase lower-camel-cases a snake_case identifier ("created_at" ->
// "createdAt").
func toCamelCase(snake string) string {
	parts := strings.Split(snake, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			parts[i] = strings.ToLower(p)
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

// relationFieldName derives a relation field name from its backing FK
// column, stripping a trailing "_id" (spec.md §4.6: "user_id -> user").
func relationFieldName(column string) string {
	trimmed := strings.TrimSuffix(column, "_id")
	if trimmed == "" {
		trimmed = column
	}
	return toCamelCase(trimmed)
}

func scalarTypeName(t ir.Type) string {
	switch t.Kind {
	case ir.KindInt:
		return "Int"
	case ir.KindFloat:
		return "Float"
	case ir.KindDecimal:
		return "Decimal"
	case ir.KindBool:
		return "Boolean"
	case ir.KindText:
		return "String"
	case ir.KindDate:
		return "LocalDate"
	case ir.KindTime:
		return "LocalTime"
	case ir.KindTimestamp:
		if t.WithTimeZone {
			return "Instant"
		}
		return "LocalDateTime"
	case ir.KindUUID:
		return "Uuid"
	case ir.KindJSON:
		return "Json"
	case ir.KindVector:
		return fmt.Sprintf("Vector(%d)", t.VectorSize)
	case ir.KindEnumRef:
		return typeName(t.EnumRef.Name)
	default:
		return "String"
	}
}

// renderDefault renders a column default canonically, per spec.md §4.6:
// autoIncrement() for a nextval-backed default, now()/generate_uuid() for
// the well-known function defaults (preferring generate_uuid() over the
// raw gen_random_uuid() name, since that is the declarative-model
// spelling for the pgcrypto-backed default), and a quoted literal
// otherwise.
func renderDefault(d *ir.Default) string {
	if d == nil {
		return ""
	}
	switch d.Kind {
	case ir.DefaultNextval:
		return "autoIncrement()"
	case ir.DefaultFunctionCall:
		switch d.Text {
		case "now":
			return "now()"
		case "gen_random_uuid":
			return "generate_uuid()"
		default:
			return d.Text + "()"
		}
	case ir.DefaultEnumLiteral:
		return d.Text
	case ir.DefaultLiteral:
		if d.Quote {
			return `"` + d.Text + `"`
		}
		return d.Text
	default:
		return ""
	}
}

func renderMapping(local, ref []string) string {
	var parts []string
	for i := range local {
		parts = append(parts, fmt.Sprintf(`"%s": "%s"`, local[i], ref[i]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
