// Package diff implements the pairwise schema comparison of spec.md §4.3
// (C5): two ir.Schema values in, a flat, ordered list of SchemaOp values
// out. Grounded on the teacher's internal/diff package, generalized from
// its per-kind Added/Dropped/Modified slices (internal/diff/types.go) to a
// single tagged-variant list, since the planner downstream needs one
// ordered sequence rather than several per-kind buckets to apply its
// phase ordering.
package diff

import "github.com/exograph/exoschema/ir"

// OpKind discriminates the closed set of SchemaOp variants enumerated in
// spec.md §4.3. Exhaustiveness is enforced by convention: OpKind.String and
// the planner's phaseOf carry a panicking default and the planner's
// render.go switch returns an error for an unhandled kind, following the teacher's kind-tagged-struct style (ir/type.go)
// rather than interface dispatch.
type OpKind int

const (
	OpCreateExtension OpKind = iota
	OpDropExtension
	OpCreateEnum
	OpDropEnum
	OpAddEnumVariant
	OpCreateSchema
	OpDropSchema
	OpCreateTable
	OpDropTable
	OpAddColumn
	OpDropColumn
	OpAlterColumnType
	OpSetColumnDefault
	OpDropColumnDefault
	OpSetColumnNullable
	OpCreatePrimaryKey
	OpDropPrimaryKey
	OpAddForeignKey
	OpDropForeignKey
	OpAddUniqueConstraint
	OpDropUniqueConstraint
	OpCreateIndex
	OpDropIndex
	OpCreateSequence
	OpDropSequence
	OpCreateFunction
	OpDropFunction
	OpCreateTrigger
	OpDropTrigger

	// The remaining three kinds are never produced by Diff itself; they are
	// substituted in by the interactive refiner (spec.md §4.5) for a
	// DropTable+CreateTable (or Drop/AddColumn, Drop/CreateSequence) pair
	// the operator confirms is a rename rather than a replacement.
	OpRenameTable
	OpRenameColumn
	OpRenameSequence
)

// String renders the op kind as the PascalCase name used in spec.md §4.3,
// useful for rationale text and debug logging.
func (k OpKind) String() string {
	switch k {
	case OpCreateExtension:
		return "CreateExtension"
	case OpDropExtension:
		return "DropExtension"
	case OpCreateEnum:
		return "CreateEnum"
	case OpDropEnum:
		return "DropEnum"
	case OpAddEnumVariant:
		return "AddEnumVariant"
	case OpCreateSchema:
		return "CreateSchema"
	case OpDropSchema:
		return "DropSchema"
	case OpCreateTable:
		return "CreateTable"
	case OpDropTable:
		return "DropTable"
	case OpAddColumn:
		return "AddColumn"
	case OpDropColumn:
		return "DropColumn"
	case OpAlterColumnType:
		return "AlterColumnType"
	case OpSetColumnDefault:
		return "SetColumnDefault"
	case OpDropColumnDefault:
		return "DropColumnDefault"
	case OpSetColumnNullable:
		return "SetColumnNullable"
	case OpCreatePrimaryKey:
		return "CreatePrimaryKey"
	case OpDropPrimaryKey:
		return "DropPrimaryKey"
	case OpAddForeignKey:
		return "AddForeignKey"
	case OpDropForeignKey:
		return "DropForeignKey"
	case OpAddUniqueConstraint:
		return "AddUniqueConstraint"
	case OpDropUniqueConstraint:
		return "DropUniqueConstraint"
	case OpCreateIndex:
		return "CreateIndex"
	case OpDropIndex:
		return "DropIndex"
	case OpCreateSequence:
		return "CreateSequence"
	case OpDropSequence:
		return "DropSequence"
	case OpCreateFunction:
		return "CreateFunction"
	case OpDropFunction:
		return "DropFunction"
	case OpCreateTrigger:
		return "CreateTrigger"
	case OpDropTrigger:
		return "DropTrigger"
	case OpRenameTable:
		return "RenameTable"
	case OpRenameColumn:
		return "RenameColumn"
	case OpRenameSequence:
		return "RenameSequence"
	default:
		panic("diff: unhandled OpKind in String")
	}
}

// SchemaOp is a single schema change. Only the fields relevant to Kind are
// meaningful; every value embeds enough detail to render SQL without
// re-reading either source schema (spec.md §3 "Lifecycle").
type SchemaOp struct {
	Kind OpKind

	Namespace string  // CreateSchema, DropSchema
	Table     ir.QName // owning table: columns, constraints, indices, table itself
	Name      string  // secondary identifier: extension, column, constraint or index name

	TableDef     *ir.Table         // CreateTable
	Column       *ir.Column        // AddColumn
	ColumnType   ir.Type           // AlterColumnType: new type
	OldColumnType ir.Type          // AlterColumnType: previous type, for narrowing/widening classification
	Default      *ir.Default       // SetColumnDefault
	Nullable     bool              // SetColumnNullable
	PKColumns    []string          // CreatePrimaryKey
	FK           *ir.ForeignKey    // AddForeignKey
	Unique       *ir.UniqueConstraint // AddUniqueConstraint
	Index        *ir.Index         // CreateIndex
	EnumName     ir.QName          // CreateEnum, DropEnum, AddEnumVariant
	EnumVariants []string          // CreateEnum
	Variant      string            // AddEnumVariant
	SeqName      ir.QName          // CreateSequence, DropSequence
	Sequence     *ir.Sequence      // CreateSequence
	FuncName     ir.QName          // DropFunction
	Function     *ir.Function      // CreateFunction
	TrigName     ir.QName          // DropTrigger
	Trigger      *ir.Trigger       // CreateTrigger

	OldName ir.QName // RenameTable, RenameSequence: previous qualified name (Table/SeqName carries the new one)
	NewName string   // RenameColumn: new column name (Table+Name carry the owning table and old column name)

	Rationale string
}
