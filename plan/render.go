package plan

import (
	"fmt"
	"strings"

	"github.com/exograph/exoschema/diff"
	"github.com/exograph/exoschema/ir"
)

// render turns a single SchemaOp into the SQL statement text spec.md §4.4
// prescribes for it. Identifiers are always double-quoted (ir.QuoteIdentifier);
// composite foreign keys render their sorted local-column form.
func render(op diff.SchemaOp) (string, error) {
	switch op.Kind {
	case diff.OpCreateExtension:
		return fmt.Sprintf(`CREATE EXTENSION IF NOT EXISTS %s;`, op.Name), nil
	case diff.OpDropExtension:
		return fmt.Sprintf(`DROP EXTENSION %s;`, op.Name), nil

	case diff.OpCreateSchema:
		return fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s;`, ir.QuoteIdentifier(op.Namespace)), nil
	case diff.OpDropSchema:
		return fmt.Sprintf(`DROP SCHEMA %s;`, ir.QuoteIdentifier(op.Namespace)), nil

	case diff.OpCreateEnum:
		variants := make([]string, len(op.EnumVariants))
		for i, v := range op.EnumVariants {
			variants[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
		}
		return fmt.Sprintf(`CREATE TYPE %s AS ENUM (%s);`, op.EnumName.String(), strings.Join(variants, ", ")), nil
	case diff.OpDropEnum:
		return fmt.Sprintf(`DROP TYPE %s;`, op.EnumName.String()), nil
	case diff.OpAddEnumVariant:
		return fmt.Sprintf(`ALTER TYPE %s ADD VALUE '%s';`, op.EnumName.String(), strings.ReplaceAll(op.Variant, "'", "''")), nil

	case diff.OpCreateSequence:
		return fmt.Sprintf(`CREATE SEQUENCE %s;`, op.SeqName.String()), nil
	case diff.OpDropSequence:
		return fmt.Sprintf(`DROP SEQUENCE %s;`, op.SeqName.String()), nil

	case diff.OpCreateTable:
		return renderCreateTable(op.TableDef), nil
	case diff.OpDropTable:
		return fmt.Sprintf(`DROP TABLE %s;`, op.Table.String()), nil

	case diff.OpAddColumn:
		return fmt.Sprintf(`ALTER TABLE %s ADD %s;`, op.Table.String(), renderColumnDef(op.Column)), nil
	case diff.OpDropColumn:
		return fmt.Sprintf(`ALTER TABLE %s DROP COLUMN %s;`, op.Table.String(), ir.QuoteIdentifier(op.Name)), nil

	case diff.OpAlterColumnType:
		return fmt.Sprintf(`ALTER TABLE %s ALTER COLUMN %s TYPE %s;`, op.Table.String(), ir.QuoteIdentifier(op.Name), op.ColumnType.Render()), nil

	case diff.OpSetColumnDefault:
		return fmt.Sprintf(`ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s;`, op.Table.String(), ir.QuoteIdentifier(op.Name), op.Default.Render()), nil
	case diff.OpDropColumnDefault:
		return fmt.Sprintf(`ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT;`, op.Table.String(), ir.QuoteIdentifier(op.Name)), nil

	case diff.OpSetColumnNullable:
		if op.Nullable {
			return fmt.Sprintf(`ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL;`, op.Table.String(), ir.QuoteIdentifier(op.Name)), nil
		}
		return fmt.Sprintf(`ALTER TABLE %s ALTER COLUMN %s SET NOT NULL;`, op.Table.String(), ir.QuoteIdentifier(op.Name)), nil

	case diff.OpCreatePrimaryKey:
		return fmt.Sprintf(`ALTER TABLE %s ADD PRIMARY KEY (%s);`, op.Table.String(), renderIdentList(op.PKColumns)), nil
	case diff.OpDropPrimaryKey:
		return fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT %s;`, op.Table.String(), ir.QuoteIdentifier(op.Name)), nil

	case diff.OpAddForeignKey:
		return renderAddForeignKey(op.Table, op.FK), nil
	case diff.OpDropForeignKey:
		return fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT %s;`, op.Table.String(), ir.QuoteIdentifier(op.Name)), nil

	case diff.OpAddUniqueConstraint:
		return fmt.Sprintf(`ALTER TABLE %s ADD CONSTRAINT %s UNIQUE (%s);`, op.Table.String(), ir.QuoteIdentifier(op.Unique.Name), renderIdentList(op.Unique.Columns)), nil
	case diff.OpDropUniqueConstraint:
		return fmt.Sprintf(`ALTER TABLE %s DROP CONSTRAINT %s;`, op.Table.String(), ir.QuoteIdentifier(op.Name)), nil

	case diff.OpCreateIndex:
		return renderCreateIndex(op.Table, op.Index), nil
	case diff.OpDropIndex:
		return fmt.Sprintf(`DROP INDEX %s;`, ir.QuoteIdentifier(op.Name)), nil

	case diff.OpCreateFunction:
		return renderCreateFunction(op.Function), nil
	case diff.OpDropFunction:
		return fmt.Sprintf(`DROP FUNCTION %s();`, op.FuncName.String()), nil

	case diff.OpCreateTrigger:
		return renderCreateTrigger(op.Table, op.Trigger), nil
	case diff.OpDropTrigger:
		return fmt.Sprintf(`DROP TRIGGER %s ON %s;`, ir.QuoteIdentifier(op.TrigName.Name), op.Table.String()), nil

	case diff.OpRenameTable:
		return fmt.Sprintf(`ALTER TABLE %s RENAME TO %s;`, op.OldName.String(), ir.QuoteIdentifier(op.Table.Name)), nil
	case diff.OpRenameColumn:
		return fmt.Sprintf(`ALTER TABLE %s RENAME COLUMN %s TO %s;`, op.Table.String(), ir.QuoteIdentifier(op.Name), ir.QuoteIdentifier(op.NewName)), nil
	case diff.OpRenameSequence:
		return fmt.Sprintf(`ALTER SEQUENCE %s RENAME TO %s;`, op.OldName.String(), ir.QuoteIdentifier(op.SeqName.Name)), nil

	default:
		return "", fmt.Errorf("plan: unhandled OpKind %s in render", op.Kind)
	}
}

func renderIdentList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = ir.QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}

func renderColumnDef(c *ir.Column) string {
	var b strings.Builder
	b.WriteString(ir.QuoteIdentifier(c.Name))
	b.WriteString(" ")
	b.WriteString(c.Type.Render())
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	if c.Default != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.Default.Render())
	}
	return b.String()
}

func renderCreateTable(t *ir.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", t.QName.String())
	lines := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		lines = append(lines, "    "+renderColumnDef(c))
	}
	if len(t.PrimaryKey) > 0 {
		lines = append(lines, fmt.Sprintf("    PRIMARY KEY (%s)", renderIdentList(t.PrimaryKey)))
	}
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n);")
	return b.String()
}

// renderAddForeignKey omits the referenced-column list: per the schema
// invariant a foreign key's RefColumns always equal the target table's
// primary key, so naming them again would be redundant.
func renderAddForeignKey(table ir.QName, fk *ir.ForeignKey) string {
	local, _ := fk.SortedColumns()
	var b strings.Builder
	fmt.Fprintf(&b, `ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s`,
		table.String(), ir.QuoteIdentifier(fk.Name), renderIdentList(local), fk.RefTable.String())
	if fk.OnDelete != "" && fk.OnDelete != ir.ActionNoAction {
		fmt.Fprintf(&b, " ON DELETE %s", fk.OnDelete)
	}
	if fk.OnUpdate != "" && fk.OnUpdate != ir.ActionNoAction {
		fmt.Fprintf(&b, " ON UPDATE %s", fk.OnUpdate)
	}
	b.WriteString(";")
	return b.String()
}

func renderCreateIndex(table ir.QName, idx *ir.Index) string {
	if idx.Kind == ir.IndexHNSW {
		col := idx.Columns[0]
		return fmt.Sprintf(`CREATE INDEX %s ON %s USING hnsw (%s %s);`,
			ir.QuoteIdentifier(idx.Name), table.String(), ir.QuoteIdentifier(col), idx.Distance.OpClass())
	}
	return fmt.Sprintf(`CREATE INDEX %s ON %s (%s);`, ir.QuoteIdentifier(idx.Name), table.String(), renderIdentList(idx.Columns))
}

func renderCreateFunction(f *ir.Function) string {
	return fmt.Sprintf(`CREATE FUNCTION %s() RETURNS TRIGGER AS $$ BEGIN %sRETURN NEW; END; $$ language 'plpgsql';`,
		f.QName.String(), f.Body())
}

func renderCreateTrigger(table ir.QName, t *ir.Trigger) string {
	return fmt.Sprintf(`CREATE TRIGGER %s BEFORE UPDATE ON %s FOR EACH ROW EXECUTE FUNCTION %s();`,
		t.QName.String(), table.String(), ir.QuoteIdentifier(t.Function))
}
