package plan

import "github.com/exograph/exoschema/diff"

// Phase numbers implement the fixed up-migration ordering of spec.md
// §4.4. Down-migration is the differ applied in reverse (target → source)
// and ordered by this same schedule — there is no separate down phase
// table.
const (
	phaseCreateExtension = iota + 1
	phaseCreateSchema
	phaseCreateEnum // CreateEnum, AddEnumVariant
	phaseCreateSequence
	phaseCreateTable
	phaseAddColumn
	phaseWiden // AlterColumnType, SetColumnNullable(true)
	phaseCreatePKAndUnique
	phaseAddForeignKey
	phaseCreateIndex
	phaseSetColumnDefault // SetColumnDefault, DropColumnDefault
	phaseNarrow           // SetColumnNullable(false)
	phaseCreateFunctionAndTrigger

	// Destructive phases, in reverse of creation order.
	phaseDropTrigger
	phaseDropFunction
	phaseDropForeignKey
	phaseDropIndex
	phaseDropUniqueAndPK
	phaseDropColumn
	phaseDropTable
	phaseDropSequence
	phaseDropEnum
	phaseDropSchema
	phaseDropExtension

	// Renames (interactive-refiner-only ops) run where the drop+create
	// pair they replace would have run: table renames alongside table
	// creation, sequence renames alongside sequence creation, column
	// renames alongside column addition.
	phaseRenameTable    = phaseCreateTable
	phaseRenameColumn   = phaseAddColumn
	phaseRenameSequence = phaseCreateSequence
)

func phaseOf(op SchemaOp) int {
	switch op.Kind {
	case diff.OpCreateExtension:
		return phaseCreateExtension
	case diff.OpCreateSchema:
		return phaseCreateSchema
	case diff.OpCreateEnum, diff.OpAddEnumVariant:
		return phaseCreateEnum
	case diff.OpCreateSequence:
		return phaseCreateSequence
	case diff.OpCreateTable:
		return phaseCreateTable
	case diff.OpAddColumn:
		return phaseAddColumn
	case diff.OpAlterColumnType:
		return phaseWiden
	case diff.OpSetColumnNullable:
		if op.Nullable {
			return phaseWiden
		}
		return phaseNarrow
	case diff.OpCreatePrimaryKey, diff.OpAddUniqueConstraint:
		return phaseCreatePKAndUnique
	case diff.OpAddForeignKey:
		return phaseAddForeignKey
	case diff.OpCreateIndex:
		return phaseCreateIndex
	case diff.OpSetColumnDefault, diff.OpDropColumnDefault:
		return phaseSetColumnDefault
	case diff.OpCreateFunction, diff.OpCreateTrigger:
		return phaseCreateFunctionAndTrigger

	case diff.OpDropTrigger:
		return phaseDropTrigger
	case diff.OpDropFunction:
		return phaseDropFunction
	case diff.OpDropForeignKey:
		return phaseDropForeignKey
	case diff.OpDropIndex:
		return phaseDropIndex
	case diff.OpDropUniqueConstraint, diff.OpDropPrimaryKey:
		return phaseDropUniqueAndPK
	case diff.OpDropColumn:
		return phaseDropColumn
	case diff.OpDropTable:
		return phaseDropTable
	case diff.OpDropSequence:
		return phaseDropSequence
	case diff.OpDropEnum:
		return phaseDropEnum
	case diff.OpDropSchema:
		return phaseDropSchema
	case diff.OpDropExtension:
		return phaseDropExtension

	case diff.OpRenameTable:
		return phaseRenameTable
	case diff.OpRenameColumn:
		return phaseRenameColumn
	case diff.OpRenameSequence:
		return phaseRenameSequence

	default:
		panic("plan: unhandled OpKind in phaseOf")
	}
}
