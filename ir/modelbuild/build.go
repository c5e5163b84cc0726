package modelbuild

import (
	"fmt"

	"github.com/exograph/exoschema/internal/xerrors"
	"github.com/exograph/exoschema/ir"
)

// typeContext tracks per-module info needed to resolve relation fields
// after all types have been registered (relations may reference a type
// declared later in the same or another module).
type typeContext struct {
	decl      TypeDecl
	namespace string
	tableName string
}

// Build assembles an ir.Schema from a declarative-model AST, per spec.md
// §4.2 ("From model AST"). It returns a ModelInvariantViolation-wrapped
// error (see internal/xerrors) if the model itself is inconsistent (an
// unresolved relation target, a composite mapping with the wrong arity)
// before Schema.Validate would even get a chance to run.
func Build(model *Model) (*ir.Schema, error) {
	schema := ir.NewSchema()

	byTypeName := map[string]*typeContext{}
	for _, mod := range model.Modules {
		ns := mod.Schema
		if ns == "" {
			ns = ir.DefaultNamespace
		}
		for _, enumDecl := range mod.Enums {
			e := &ir.Enum{
				QName:    ir.NewQName(ns, enumDecl.Name),
				Variants: append([]string{}, enumDecl.Variants...),
			}
			schema.Enums[e.QName.Key()] = e
		}
		for _, t := range mod.Types {
			tableName := t.TableName
			if tableName == "" {
				tableName = PluralizeTableName(t.Name)
			}
			tns := t.Schema
			if tns == "" {
				tns = ns
			}
			byTypeName[t.Name] = &typeContext{decl: t, namespace: tns, tableName: tableName}
		}
	}

	// Pass 1: create tables with scalar columns and primary keys, but no
	// foreign keys yet — relation targets may not exist until every table
	// is registered (spec.md §9 "Cyclic references between tables").
	for _, ctx := range byTypeName {
		table := ir.NewTable(ir.NewQName(ctx.namespace, ctx.tableName))
		var pk []string
		for _, f := range ctx.decl.Fields {
			if f.Kind != FieldScalar {
				continue
			}
			col, err := buildScalarColumn(f, schema, ctx.namespace, ctx.tableName)
			if err != nil {
				return nil, &xerrors.ModelInvariantViolation{Detail: fmt.Sprintf("type %s field %s: %v", ctx.decl.Name, f.Name, err), Err: err}
			}
			table.Columns = append(table.Columns, col)
			if f.IsPrimaryKey {
				pk = append(pk, col.Name)
			}
		}
		table.PrimaryKey = pk
		schema.AddTable(table)
	}

	// Pass 2: add foreign keys for to-one relation fields, now that every
	// table exists.
	for _, ctx := range byTypeName {
		table := schema.Tables[ir.NewQName(ctx.namespace, ctx.tableName).Key()]
		for _, f := range ctx.decl.Fields {
			if f.Kind != FieldRelationToOne {
				continue
			}
			target, ok := byTypeName[f.RelatedType]
			if !ok {
				return nil, &xerrors.ModelInvariantViolation{Detail: fmt.Sprintf("type %s field %s: relation target %q not found", ctx.decl.Name, f.Name, f.RelatedType)}
			}
			targetTable := schema.Tables[ir.NewQName(target.namespace, target.tableName).Key()]

			fk, cols, err := buildForeignKey(f, table, targetTable)
			if err != nil {
				return nil, &xerrors.ModelInvariantViolation{Detail: fmt.Sprintf("type %s field %s: %v", ctx.decl.Name, f.Name, err), Err: err}
			}
			table.Columns = append(table.Columns, cols...)
			table.ForeignKeys[fk.Name] = fk
		}
		table.RecomputeDerived()
	}

	// Pass 3: managed update-sync function/trigger pairs.
	for _, ctx := range byTypeName {
		table := schema.Tables[ir.NewQName(ctx.namespace, ctx.tableName).Key()]
		if !table.HasUpdateSync {
			continue
		}
		fnName := ir.NewQName(ctx.namespace, table.UpdateFunctionName())
		trigName := ir.NewQName(ctx.namespace, table.UpdateTriggerName())
		sets := make([]string, 0)
		for _, c := range table.UpdateSyncColumns() {
			sets = append(sets, c.Name)
		}
		schema.Functions[fnName.Key()] = &ir.Function{QName: fnName, Table: table.QName.Name, Sets: sets}
		schema.Triggers[trigName.Key()] = &ir.Trigger{QName: trigName, Table: table.QName.Name, Function: fnName.Name}
	}

	if err := schema.Validate(); err != nil {
		return nil, &xerrors.ModelInvariantViolation{Detail: err.Error(), Err: err}
	}
	return schema, nil
}

func buildScalarColumn(f FieldDecl, schema *ir.Schema, namespace, tableName string) (*ir.Column, error) {
	colName := f.ColumnName
	if colName == "" {
		colName = ToSnakeCase(f.Name)
	}

	t, err := resolveScalarType(f)
	if err != nil {
		return nil, err
	}

	col := &ir.Column{
		Name:       colName,
		Type:       t,
		Nullable:   f.Nullable,
		UpdateSync: f.UpdateSync,
		Readonly:   f.Readonly,
	}

	if f.Default != nil && f.Default.AutoIncrement {
		seqName := f.Default.AutoIncrementSeq
		var seqQ ir.QName
		implicit := seqName == ""
		if implicit {
			seqQ = ir.NewQName(namespace, ir.ImplicitSequenceName(tableName, colName))
		} else {
			seqQ = ir.NewQName(namespace, seqName)
		}
		if _, exists := schema.Sequences[seqQ.Key()]; !exists {
			schema.Sequences[seqQ.Key()] = &ir.Sequence{
				QName:         seqQ,
				Implicit:      implicit,
				OwnedByTable:  tableName,
				OwnedByColumn: colName,
			}
		}
		col.Default = &ir.Default{Kind: ir.DefaultNextval, Seq: seqQ}
		return col, nil
	}

	if f.Default != nil {
		def, extension, err := buildDefault(*f.Default, colName, f, schema)
		if err != nil {
			return nil, err
		}
		col.Default = def
		if extension != "" {
			schema.Extensions[extension] = true
		}
	}

	return col, nil
}

func resolveScalarType(f FieldDecl) (ir.Type, error) {
	switch f.ScalarType {
	case ScalarInt:
		switch {
		case f.Bits16:
			return ir.IntN(ir.Int16), nil
		case f.Bits64:
			return ir.IntN(ir.Int64), nil
		default:
			return ir.Int(), nil
		}
	case ScalarFloat:
		if f.SinglePrec {
			return ir.FloatSinglePrecision(), nil
		}
		return ir.Float(), nil
	case ScalarDecimal:
		p, s := 0, 0
		if f.PrecisionArg != nil {
			p = *f.PrecisionArg
		}
		if f.ScaleArg != nil {
			s = *f.ScaleArg
		}
		return ir.Decimal(p, s), nil
	case ScalarBoolean:
		return ir.Bool(), nil
	case ScalarString:
		return ir.Text(f.MaxLength), nil
	case ScalarLocalDate:
		return ir.Date(), nil
	case ScalarLocalTime:
		return ir.Time(), nil
	case ScalarInstant:
		return ir.Timestamp(true, 0), nil
	case ScalarLocalDateTime:
		return ir.Timestamp(false, 0), nil
	case ScalarUUID:
		return ir.UUID(), nil
	case ScalarJSON:
		return ir.JSON(), nil
	case ScalarVector:
		if f.VectorSize <= 0 {
			return ir.Type{}, fmt.Errorf("vector field has no declared @size")
		}
		return ir.Vector(f.VectorSize), nil
	default:
		return ir.Type{}, fmt.Errorf("unrecognized scalar type %d", f.ScalarType)
	}
}

// buildDefault translates a declarative-model default into an ir.Default,
// returning the required extension name (if any) to register on the
// schema (spec.md §4.2): now() -> now(); generate_uuid() ->
// gen_random_uuid() + pgcrypto. autoIncrement() (SERIAL + implicit
// sequence) is handled by buildScalarColumn and never reaches this.
func buildDefault(d FieldDefault, colName string, f FieldDecl, schema *ir.Schema) (*ir.Default, string, error) {
	switch {
	case d.Now:
		return &ir.Default{Kind: ir.DefaultFunctionCall, Text: "now"}, "", nil
	case d.GenerateUUID:
		return &ir.Default{Kind: ir.DefaultFunctionCall, Text: "gen_random_uuid"}, "pgcrypto", nil
	case d.EnumVariant != "":
		return &ir.Default{Kind: ir.DefaultEnumLiteral, Text: d.EnumVariant}, "", nil
	default:
		return &ir.Default{Kind: ir.DefaultLiteral, Text: d.Literal, Quote: d.LiteralQuoted}, "", nil
	}
}

// buildForeignKey builds the (possibly composite) FK and its backing
// local columns for a to-one relation field. Composite FK mapping is read
// from @column(mapping={fieldA: "col_a", ...}); a single-column relation
// without a mapping derives its column name by appending "_id" to the
// snake_cased relation field name (spec.md §4.2, §4.6).
func buildForeignKey(f FieldDecl, owner, target *ir.Table) (*ir.ForeignKey, []*ir.Column, error) {
	if len(target.PrimaryKey) == 0 {
		return nil, nil, fmt.Errorf("relation target %s has no primary key", target.QName)
	}

	var localCols, refCols []string
	var newColumns []*ir.Column

	if len(f.ColumnMapping) > 0 {
		if len(f.ColumnMapping) != len(target.PrimaryKey) {
			return nil, nil, fmt.Errorf("@column mapping has %d entries but %s has a %d-column primary key", len(f.ColumnMapping), target.QName, len(target.PrimaryKey))
		}
		for _, pkCol := range target.PrimaryKey {
			refTypeCol := target.ColumnByName(pkCol)
			mappedCol := findMappingForPKColumn(f, pkCol)
			if mappedCol == "" {
				return nil, nil, fmt.Errorf("@column mapping missing an entry for target PK column %q", pkCol)
			}
			localCols = append(localCols, mappedCol)
			refCols = append(refCols, pkCol)
			newColumns = append(newColumns, &ir.Column{
				Name:     mappedCol,
				Type:     refTypeCol.Type,
				Nullable: f.Nullable,
			})
		}
	} else {
		if len(target.PrimaryKey) != 1 {
			return nil, nil, fmt.Errorf("relation to %s needs @column(mapping=...) since it has a composite primary key", target.QName)
		}
		colName := f.ColumnName
		if colName == "" {
			colName = RelationFieldToColumnName(f.Name)
		}
		pkCol := target.ColumnByName(target.PrimaryKey[0])
		localCols = []string{colName}
		refCols = []string{target.PrimaryKey[0]}
		newColumns = []*ir.Column{{Name: colName, Type: pkCol.Type, Nullable: f.Nullable}}
	}

	fkName := fmt.Sprintf("%s_%s_fk", owner.QName.Name, localCols[0])
	if owner.QName.Namespace != ir.DefaultNamespace && owner.QName.Namespace == target.QName.Namespace {
		// spec.md S6: FKs between same-non-default-namespace tables are
		// named with a namespace prefix, e.g. "info_logs_owner_fk".
		fkName = fmt.Sprintf("%s_%s_%s_fk", owner.QName.Namespace, owner.QName.Name, localCols[0])
	}

	fk := &ir.ForeignKey{
		Name:         fkName,
		LocalColumns: localCols,
		RefTable:     target.QName,
		RefColumns:   refCols,
		OnDelete:     ir.ActionNoAction,
		OnUpdate:     ir.ActionNoAction,
	}
	return fk, newColumns, nil
}

// findMappingForPKColumn looks up the local column mapped to target PK
// column pkCol. @column(mapping=...) keys are target-side field/column
// names, so a direct lookup suffices; a single-entry mapping falls back to
// positional matching for the (common) single-column-PK case.
func findMappingForPKColumn(f FieldDecl, pkCol string) string {
	if v, ok := f.ColumnMapping[pkCol]; ok {
		return v
	}
	if len(f.ColumnMapping) == 1 {
		for _, v := range f.ColumnMapping {
			return v
		}
	}
	return ""
}
