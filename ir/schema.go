package ir

import (
	"fmt"
	"sort"
)

// Schema is the canonical in-memory model of a database schema, spread
// across named namespaces (spec.md §3). Values are immutable once
// assembled (spec.md §3 "Lifecycle"): no exported method mutates a Schema
// in place except during the assembly phase itself; the differ and
// planner only ever read from a *Schema.
type Schema struct {
	Extensions map[string]bool // extension name -> present

	Enums     map[string]*Enum
	Sequences map[string]*Sequence
	Tables    map[string]*Table
	Functions map[string]*Function
	Triggers  map[string]*Trigger

	// Managed is the subset of table QName keys (Table.QName.Key()) whose
	// lifecycle the planner may destructively alter. Tables absent from
	// Managed appear only as foreign-key targets (spec.md §3).
	Managed map[string]bool
}

// NewSchema returns an empty, initialized Schema.
func NewSchema() *Schema {
	return &Schema{
		Extensions: map[string]bool{},
		Enums:      map[string]*Enum{},
		Sequences:  map[string]*Sequence{},
		Tables:     map[string]*Table{},
		Functions:  map[string]*Function{},
		Triggers:   map[string]*Trigger{},
		Managed:    map[string]bool{},
	}
}

// AddTable inserts a table, keyed by its QName.
func (s *Schema) AddTable(t *Table) {
	s.Tables[t.QName.Key()] = t
	s.Managed[t.QName.Key()] = true
}

// AddUnmanagedTable inserts a table that is a foreign-key target only; the
// planner will never emit a destructive op against it (spec.md §3).
func (s *Schema) AddUnmanagedTable(t *Table) {
	s.Tables[t.QName.Key()] = t
}

// IsManaged reports whether the table keyed by key is planner-managed.
func (s *Schema) IsManaged(key string) bool {
	return s.Managed[key]
}

// SortedTableKeys returns Tables' keys sorted by QName, per spec.md §9
// "Deterministic set iteration: the differ must not iterate unordered maps
// to produce output."
func (s *Schema) SortedTableKeys() []string {
	return sortedMapKeysByQName(s.Tables, func(t *Table) QName { return t.QName })
}

// SortedEnumKeys returns Enums' keys sorted by QName.
func (s *Schema) SortedEnumKeys() []string {
	return sortedMapKeysByQName(s.Enums, func(e *Enum) QName { return e.QName })
}

// SortedSequenceKeys returns Sequences' keys sorted by QName.
func (s *Schema) SortedSequenceKeys() []string {
	return sortedMapKeysByQName(s.Sequences, func(sq *Sequence) QName { return sq.QName })
}

// SortedFunctionKeys returns Functions' keys sorted by QName.
func (s *Schema) SortedFunctionKeys() []string {
	return sortedMapKeysByQName(s.Functions, func(f *Function) QName { return f.QName })
}

// SortedTriggerKeys returns Triggers' keys sorted by QName.
func (s *Schema) SortedTriggerKeys() []string {
	return sortedMapKeysByQName(s.Triggers, func(t *Trigger) QName { return t.QName })
}

// SortedExtensions returns extension names in lexicographic order.
func (s *Schema) SortedExtensions() []string {
	names := make([]string, 0, len(s.Extensions))
	for n := range s.Extensions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SortedNamespaces returns the set of distinct namespaces referenced by any
// table, enum, sequence, function or trigger in s, in lexicographic order.
func (s *Schema) SortedNamespaces() []string {
	seen := map[string]bool{}
	for _, t := range s.Tables {
		seen[t.QName.Namespace] = true
	}
	for _, e := range s.Enums {
		seen[e.QName.Namespace] = true
	}
	for _, sq := range s.Sequences {
		seen[sq.QName.Namespace] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedMapKeysByQName[V any](m map[string]V, qnameOf func(V) QName) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return qnameOf(m[keys[i]]).Less(qnameOf(m[keys[j]]))
	})
	return keys
}

// Validate checks the invariants of spec.md §3 and returns the first
// violation found as a plain error.
func (s *Schema) Validate() error {
	// No two tables in the same namespace share a name — guaranteed
	// structurally by map keying on QName.Key(), nothing further to check.

	for _, key := range s.SortedTableKeys() {
		t := s.Tables[key]

		seenCol := map[string]bool{}
		for _, c := range t.Columns {
			if seenCol[c.Name] {
				return fmt.Errorf("table %s: duplicate column %q", t.QName, c.Name)
			}
			seenCol[c.Name] = true
		}

		for _, pkCol := range t.PrimaryKey {
			if t.ColumnByName(pkCol) == nil {
				return fmt.Errorf("table %s: primary key references unknown column %q", t.QName, pkCol)
			}
		}

		fkNames := sortedFKNames(t)
		for _, fkName := range fkNames {
			fk := t.ForeignKeys[fkName]
			for _, col := range fk.LocalColumns {
				c := t.ColumnByName(col)
				if c == nil {
					return fmt.Errorf("table %s: foreign key %q references unknown local column %q", t.QName, fk.Name, col)
				}
			}
			refTable, ok := s.Tables[fk.RefTable.Key()]
			if !ok {
				return fmt.Errorf("table %s: foreign key %q references unknown table %s", t.QName, fk.Name, fk.RefTable)
			}
			if !columnRefsEqual(sortedStrings(fk.RefColumns), sortedStrings(refTable.PrimaryKey)) {
				return fmt.Errorf("table %s: foreign key %q columns do not match referenced table %s primary key", t.QName, fk.Name, fk.RefTable)
			}
			if len(fk.LocalColumns) != len(fk.RefColumns) {
				return fmt.Errorf("table %s: foreign key %q has mismatched local/ref column counts", t.QName, fk.Name)
			}
			for i, localCol := range fk.LocalColumns {
				localType := t.ColumnByName(localCol).Type
				refCol := refTable.ColumnByName(fk.RefColumns[i])
				if refCol == nil {
					return fmt.Errorf("table %s: foreign key %q ref column %q not found on %s", t.QName, fk.Name, fk.RefColumns[i], fk.RefTable)
				}
				if !localType.Equal(refCol.Type) {
					return fmt.Errorf("table %s: foreign key %q column %q type does not match referenced column", t.QName, fk.Name, localCol)
				}
			}
		}

		for _, idxName := range sortedIndexNames(t) {
			idx := t.Indices[idxName]
			if idx.Kind != IndexHNSW {
				continue
			}
			if len(idx.Columns) != 1 {
				return fmt.Errorf("table %s: hnsw index %q must be single-column", t.QName, idx.Name)
			}
			col := t.ColumnByName(idx.Columns[0])
			if col == nil || col.Type.Kind != KindVector {
				return fmt.Errorf("table %s: hnsw index %q is not over a vector column", t.QName, idx.Name)
			}
			if col.Type.VectorSize <= 0 {
				return fmt.Errorf("table %s: vector column %q used in hnsw index %q has no declared dimension", t.QName, col.Name, idx.Name)
			}
		}

		for _, c := range t.Columns {
			if c.Default != nil && c.Default.Kind == DefaultEnumLiteral {
				enum, ok := s.resolveEnumForColumn(c)
				if !ok || !enum.HasVariant(c.Default.Text) {
					return fmt.Errorf("table %s: column %q default %q is not a variant of its enum", t.QName, c.Name, c.Default.Text)
				}
			}
		}

		if t.HasUpdateSync {
			fn, fnOK := s.Functions[NewQName(t.QName.Namespace, t.UpdateFunctionName()).Key()]
			_, trigOK := s.Triggers[NewQName(t.QName.Namespace, t.UpdateTriggerName()).Key()]
			if !fnOK || !trigOK {
				return fmt.Errorf("table %s: has_update_sync requires managed function+trigger pair", t.QName)
			}
			if fn != nil && fn.Table != t.QName.Name {
				return fmt.Errorf("table %s: managed function bound to wrong table %q", t.QName, fn.Table)
			}
		}
	}

	return nil
}

func (s *Schema) resolveEnumForColumn(c *Column) (*Enum, bool) {
	if c.Type.Kind != KindEnumRef {
		return nil, false
	}
	e, ok := s.Enums[c.Type.EnumRef.Key()]
	return e, ok
}

func sortedFKNames(t *Table) []string {
	names := make([]string, 0, len(t.ForeignKeys))
	for n := range t.ForeignKeys {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedIndexNames(t *Table) []string {
	names := make([]string, 0, len(t.Indices))
	for n := range t.Indices {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedUniqueNames(t *Table) []string {
	names := make([]string, 0, len(t.UniqueConstraints))
	for n := range t.UniqueConstraints {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
