package diff

import "github.com/exograph/exoschema/ir"

// Diff compares src against tgt and returns the flat list of SchemaOp
// changes needed to bring src to tgt, per spec.md §4.3. The returned order
// is deterministic (sorted within each entity kind by QName/name) but is
// not phase-ordered — ordering under dependency constraints is the
// planner's job (plan.Plan).
func Diff(src, tgt *ir.Schema) []SchemaOp {
	var ops []SchemaOp
	ops = append(ops, diffExtensions(src, tgt)...)
	ops = append(ops, diffNamespaces(src, tgt)...)
	ops = append(ops, diffEnums(src, tgt)...)
	ops = append(ops, diffSequences(src, tgt)...)
	ops = append(ops, diffTables(src, tgt)...)
	return ops
}
