package modelbuild

import "strings"

// ToSnakeCase converts a camelCase or PascalCase identifier to snake_case,
// matching the declarative-model's field-to-column naming convention
// (grounded on the teacher's builder.go behavior of lower-casing and
// underscoring multi-word catalog identifiers, generalized to the reverse
// direction here).
func ToSnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToCamelCase converts a snake_case identifier to camelCase, the reverse of
// ToSnakeCase.
func ToCamelCase(name string) string {
	var b strings.Builder
	upperNext := false
	for _, r := range name {
		if r == '_' {
			upperNext = true
			continue
		}
		if upperNext && r >= 'a' && r <= 'z' {
			b.WriteRune(r - 'a' + 'A')
			upperNext = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PluralizeTableName derives a table name from a declarative-model type
// name using the repository's naive pluralization rule: snake_case the
// type name, then unconditionally append "s" — even to a name already
// ending in "s" (spec.md §9 Open Questions: "a single test
// (composite-pk-reorder-fields) shows persons/addresss as the auto-plural,
// suggesting the pluralizer is naive"). An explicit @table(name=...)
// override always takes precedence over this rule and is applied by the
// caller before this function is reached.
func PluralizeTableName(typeName string) string {
	return ToSnakeCase(typeName) + "s"
}

// RelationFieldToColumnName derives the FK column name for a to-one
// relation field lacking an explicit @column(name=...) override, e.g.
// field "venue" -> column "venue_id".
func RelationFieldToColumnName(fieldName string) string {
	return ToSnakeCase(fieldName) + "_id"
}
