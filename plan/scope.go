// Package plan implements the planner of spec.md §4.4 (C6): it takes the
// flat op list the differ (or the interactive refiner) produces and
// orders it under the fixed phase schedule, applies a scope filter,
// classifies each resulting statement's safety, and renders SQL text.
// Grounded on the teacher's internal/diff package's statement-collection
// idiom (internal/diff/collector.go, sql_generator.go), adapted from a
// single Diff-and-render pass to a separate ordering stage consuming an
// already-produced op list.
package plan

import (
	"github.com/exograph/exoschema/diff"
	"github.com/exograph/exoschema/ir"
)

// Scope restricts which ops the planner renders, per spec.md §4.4: either
// every namespace (AllNamespaces) or exactly one (CurrentNamespace).
type Scope struct {
	all bool
	ns  string
}

// AllNamespaces returns a scope including every namespace.
func AllNamespaces() Scope { return Scope{all: true} }

// CurrentNamespace returns a scope restricted to ns.
func CurrentNamespace(ns string) Scope { return Scope{ns: ns} }

// includes reports whether an op belonging to namespace ns passes the
// scope filter.
func (s Scope) includes(ns string) bool {
	return s.all || ns == s.ns
}

// opNamespace returns the owning namespace of op for scope-filtering
// purposes. Extension ops are global (always in scope); everything else is
// scoped to the namespace of the entity it creates/drops/renames.
func opNamespace(op SchemaOp) (ns string, global bool) {
	switch op.Kind {
	case diff.OpCreateExtension, diff.OpDropExtension:
		return "", true
	case diff.OpCreateSchema, diff.OpDropSchema:
		return op.Namespace, false
	case diff.OpCreateEnum, diff.OpDropEnum, diff.OpAddEnumVariant:
		return op.EnumName.Namespace, false
	case diff.OpCreateSequence, diff.OpDropSequence, diff.OpRenameSequence:
		return op.SeqName.Namespace, false
	default:
		return op.Table.Namespace, false
	}
}

func inScope(op SchemaOp, scope Scope) bool {
	ns, global := opNamespace(op)
	if global {
		return true
	}
	if ns == "" {
		ns = ir.DefaultNamespace
	}
	return scope.includes(ns)
}
