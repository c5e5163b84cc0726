package ir

// Enum is a PostgreSQL enum type with an ordered list of variant labels.
type Enum struct {
	QName    QName
	Variants []string // ordered, catalog/declaration order
}

// HasVariant reports whether label is one of e's variants.
func (e *Enum) HasVariant(label string) bool {
	for _, v := range e.Variants {
		if v == label {
			return true
		}
	}
	return false
}

// Equal reports full structural equality (order-sensitive).
func (e *Enum) Equal(other *Enum) bool {
	return columnRefsEqual(e.Variants, other.Variants)
}

// AppendedVariants reports whether other is e with zero or more variants
// appended at the end only — i.e. e.Variants is a prefix of other.Variants.
// Per spec.md §4.3 rule 7: "adding variants is always safe-appended at the
// end only"; any other change (removal, reorder, insertion in the middle)
// must degrade to drop+create.
func (e *Enum) AppendedVariants(other *Enum) (added []string, ok bool) {
	if len(other.Variants) < len(e.Variants) {
		return nil, false
	}
	for i, v := range e.Variants {
		if other.Variants[i] != v {
			return nil, false
		}
	}
	return append([]string{}, other.Variants[len(e.Variants):]...), true
}
