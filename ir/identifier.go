// Package ir defines the canonical in-memory model of a PostgreSQL schema:
// namespaces, tables, columns, constraints, indices, enums, sequences,
// extensions, and the Exograph-managed update-sync function/trigger pair.
package ir

import "strings"

// DefaultNamespace is the sentinel namespace elided from output where legal.
const DefaultNamespace = "public"

// QName is a qualified name: a namespace paired with a local identifier.
// The zero value is not meaningful; use NewQName or Local.
type QName struct {
	Namespace string
	Name      string
}

// Local builds a QName in the default namespace.
func Local(name string) QName {
	return QName{Namespace: DefaultNamespace, Name: name}
}

// NewQName builds a QName in the given namespace, defaulting an empty
// namespace to DefaultNamespace.
func NewQName(namespace, name string) QName {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return QName{Namespace: namespace, Name: name}
}

// IsDefaultNamespace reports whether q lives in the default namespace.
func (q QName) IsDefaultNamespace() bool {
	return q.Namespace == "" || q.Namespace == DefaultNamespace
}

// String renders q as "namespace"."name", eliding the namespace when it is
// the default one. Callers that must keep the namespace explicit (e.g.
// AllNamespaces scope rendering) should use Qualified instead.
func (q QName) String() string {
	if q.IsDefaultNamespace() {
		return QuoteIdentifier(q.Name)
	}
	return q.Qualified()
}

// Qualified always renders "namespace"."name", regardless of whether the
// namespace is the default one.
func (q QName) Qualified() string {
	return QuoteIdentifier(q.Namespace) + "." + QuoteIdentifier(q.Name)
}

// Key returns a canonical map key, always schema-qualified, independent of
// default-namespace elision rules — used internally to key Schema's maps so
// two QNames that render identically but differ in namespace never collide.
func (q QName) Key() string {
	ns := q.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	return ns + "." + q.Name
}

// Less provides a deterministic QName ordering (namespace, then name) used
// throughout the differ and planner to avoid iterating Go maps directly.
func (q QName) Less(other QName) bool {
	if q.Namespace != other.Namespace {
		return q.Namespace < other.Namespace
	}
	return q.Name < other.Name
}

// QuoteIdentifier always double-quotes identifier. Per spec.md §4.4
// rendering rules, identifiers in rendered SQL are always double-quoted —
// unlike the teacher's pgschema, which only quotes when syntactically
// necessary, this planner prefers unconditional quoting for deterministic,
// byte-stable golden output regardless of an identifier's shape.
func QuoteIdentifier(identifier string) string {
	escaped := strings.ReplaceAll(identifier, `"`, `""`)
	return `"` + escaped + `"`
}

// columnRefsEqual compares two ordered column-name slices for equality.
func columnRefsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sortedStrings returns a new, lexicographically sorted copy of ss.
func sortedStrings(ss []string) []string {
	out := make([]string, len(ss))
	copy(out, ss)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
