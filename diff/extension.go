package diff

import "github.com/exograph/exoschema/ir"

// diffExtensions compares required extensions; extensions carry no
// managed/unmanaged distinction (spec.md §3's managed set is table-scoped
// only), so presence alone governs create/drop.
func diffExtensions(src, tgt *ir.Schema) []SchemaOp {
	var ops []SchemaOp
	for _, name := range tgt.SortedExtensions() {
		if !src.Extensions[name] {
			ops = append(ops, SchemaOp{Kind: OpCreateExtension, Name: name, Rationale: "extension required by target schema"})
		}
	}
	for _, name := range src.SortedExtensions() {
		if !tgt.Extensions[name] {
			ops = append(ops, SchemaOp{Kind: OpDropExtension, Name: name, Rationale: "extension no longer required"})
		}
	}
	return ops
}

// diffNamespaces compares the set of namespaces referenced by either
// schema, skipping the default namespace (never explicitly created or
// dropped).
func diffNamespaces(src, tgt *ir.Schema) []SchemaOp {
	var ops []SchemaOp
	srcSet := toSet(src.SortedNamespaces())
	for _, ns := range tgt.SortedNamespaces() {
		if ns == ir.DefaultNamespace {
			continue
		}
		if !srcSet[ns] {
			ops = append(ops, SchemaOp{Kind: OpCreateSchema, Namespace: ns})
		}
	}
	tgtSet := toSet(tgt.SortedNamespaces())
	for _, ns := range src.SortedNamespaces() {
		if ns == ir.DefaultNamespace {
			continue
		}
		if !tgtSet[ns] {
			ops = append(ops, SchemaOp{Kind: OpDropSchema, Namespace: ns})
		}
	}
	return ops
}
