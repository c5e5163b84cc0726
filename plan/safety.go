package plan

import (
	"fmt"

	"github.com/exograph/exoschema/diff"
	"github.com/exograph/exoschema/ir"
)

// classify reports whether op is destructive per spec.md §4.4: "anything
// that drops an owning entity (table, column, enum, index that has no
// replacement in the same migration, type narrowing, PK reorder, FK
// removal)". allOps is the full ordered statement list, consulted to find
// a same-migration replacement for a dropped index or foreign key.
func classify(op diff.SchemaOp, allOps []diff.SchemaOp) (destructive bool, rationale string) {
	switch op.Kind {
	case diff.OpDropTable:
		return true, fmt.Sprintf("drops table %s", op.Table.String())
	case diff.OpDropColumn:
		return true, fmt.Sprintf("drops column %s.%s", op.Table.String(), op.Name)
	case diff.OpDropEnum:
		return true, fmt.Sprintf("drops enum type %s", op.EnumName.String())
	case diff.OpDropPrimaryKey:
		return true, fmt.Sprintf("drops primary key on %s", op.Table.String())

	case diff.OpDropIndex:
		if hasReplacement(allOps, diff.OpCreateIndex, op.Table, op.Name, func(o diff.SchemaOp) string { return o.Index.Name }) {
			return false, fmt.Sprintf("drops and recreates index %s", op.Name)
		}
		return true, fmt.Sprintf("drops index %s with no replacement in this migration", op.Name)

	case diff.OpDropForeignKey:
		if hasReplacement(allOps, diff.OpAddForeignKey, op.Table, op.Name, func(o diff.SchemaOp) string { return o.FK.Name }) {
			return false, fmt.Sprintf("drops and recreates foreign key %s", op.Name)
		}
		return true, fmt.Sprintf("removes foreign key %s with no replacement in this migration", op.Name)

	case diff.OpAlterColumnType:
		if isNarrowing(op.OldColumnType, op.ColumnType) {
			return true, fmt.Sprintf("narrows column %s.%s from %s to %s", op.Table.String(), op.Name, op.OldColumnType.Render(), op.ColumnType.Render())
		}
		return false, fmt.Sprintf("widens column %s.%s from %s to %s", op.Table.String(), op.Name, op.OldColumnType.Render(), op.ColumnType.Render())

	default:
		return false, ""
	}
}

// hasReplacement reports whether allOps contains an op of kind with the
// same owning table and a name (extracted via name) matching target.
func hasReplacement(allOps []diff.SchemaOp, kind diff.OpKind, table ir.QName, target string, name func(diff.SchemaOp) string) bool {
	for _, o := range allOps {
		if o.Kind == kind && o.Table == table && name(o) == target {
			return true
		}
	}
	return false
}

// isNarrowing reports whether converting a column from oldType to newType
// can lose data or reject previously-valid values, per spec.md §4.4's
// destructive-classification rule for AlterColumnType.
func isNarrowing(oldType, newType ir.Type) bool {
	if oldType.Kind != newType.Kind {
		// Cross-kind conversions are treated conservatively as narrowing,
		// except Int -> Float, which is treated as a safe widening.
		if oldType.Kind == ir.KindInt && newType.Kind == ir.KindFloat {
			return false
		}
		return true
	}
	switch oldType.Kind {
	case ir.KindInt:
		return intWidthRank(newType.IntWidth) < intWidthRank(oldType.IntWidth)
	case ir.KindFloat:
		return oldType.FloatWidth == ir.FloatDouble && newType.FloatWidth == ir.FloatSingle
	case ir.KindDecimal:
		return newType.Precision < oldType.Precision || newType.Scale < oldType.Scale
	case ir.KindText:
		if oldType.MaxLength == nil {
			return newType.MaxLength != nil
		}
		if newType.MaxLength == nil {
			return false
		}
		return *newType.MaxLength < *oldType.MaxLength
	case ir.KindTimestamp:
		return newType.Precision < oldType.Precision
	default:
		return false
	}
}

func intWidthRank(w ir.IntWidth) int {
	switch w {
	case ir.Int16:
		return 16
	case ir.Int64:
		return 64
	default:
		return 32
	}
}
