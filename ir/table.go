package ir

// ReferentialAction is an ON DELETE / ON UPDATE foreign-key action.
type ReferentialAction string

const (
	ActionNoAction   ReferentialAction = "NO ACTION"
	ActionRestrict   ReferentialAction = "RESTRICT"
	ActionCascade    ReferentialAction = "CASCADE"
	ActionSetNull    ReferentialAction = "SET NULL"
	ActionSetDefault ReferentialAction = "SET DEFAULT"
)

// ForeignKey is a (possibly composite) foreign-key constraint. A single
// referenced table with composite local columns is one ForeignKey, never
// several (spec.md §3).
type ForeignKey struct {
	Name          string
	LocalColumns  []string // ordered, declaration order
	RefTable      QName
	RefColumns    []string // ordered, matches the referenced table's PK order
	OnDelete      ReferentialAction
	OnUpdate      ReferentialAction
}

// SortedColumns returns LocalColumns paired with RefColumns, both
// reordered by lexicographic sort of the local column names, per the
// planner's composite-FK rendering rule (spec.md §4.4): "Composite FK
// local-column lists are sorted lexicographically in the emitted SQL so
// that two logically-equal composite FKs produce identical text."
func (fk *ForeignKey) SortedColumns() (local, ref []string) {
	type pair struct{ l, r string }
	pairs := make([]pair, len(fk.LocalColumns))
	for i := range fk.LocalColumns {
		pairs[i] = pair{fk.LocalColumns[i], fk.RefColumns[i]}
	}
	for i := 1; i < len(pairs); i++ {
		for j := i; j > 0 && pairs[j-1].l > pairs[j].l; j-- {
			pairs[j-1], pairs[j] = pairs[j], pairs[j-1]
		}
	}
	local = make([]string, len(pairs))
	ref = make([]string, len(pairs))
	for i, p := range pairs {
		local[i] = p.l
		ref[i] = p.r
	}
	return local, ref
}

// Equal reports whether two foreign keys are structurally identical,
// ignoring local-column ordering (spec.md §4.3 rule 5: a change in the
// local-column ordering alone does not require recreation).
func (fk *ForeignKey) Equal(other *ForeignKey) bool {
	if fk.RefTable != other.RefTable {
		return false
	}
	if fk.OnDelete != other.OnDelete || fk.OnUpdate != other.OnUpdate {
		return false
	}
	al, ar := fk.SortedColumns()
	bl, br := other.SortedColumns()
	return columnRefsEqual(al, bl) && columnRefsEqual(ar, br)
}

// UniqueConstraint is a named uniqueness constraint over an ordered column
// tuple.
type UniqueConstraint struct {
	Name    string
	Columns []string // ordered
}

// Equal reports structural equality, treating the column tuple as ordered
// (reordering a unique constraint's columns is a meaningful change since it
// changes the constraint's canonical key order, even though PostgreSQL
// itself does not distinguish column order in UNIQUE; we track it anyway so
// two importer round-trips of the same constraint stay byte-identical).
func (u *UniqueConstraint) Equal(other *UniqueConstraint) bool {
	return columnRefsEqual(u.Columns, other.Columns)
}

// IndexKind discriminates the supported index access methods.
type IndexKind int

const (
	IndexBTree IndexKind = iota
	IndexHNSW
)

// DistanceFunction is an HNSW operator-class family.
type DistanceFunction string

const (
	DistanceCosine DistanceFunction = "cosine"
	DistanceL2     DistanceFunction = "l2"
	DistanceIP     DistanceFunction = "ip"
)

// OpClass returns the PostgreSQL operator class name for this distance
// function, e.g. "vector_cosine_ops".
func (d DistanceFunction) OpClass() string {
	switch d {
	case DistanceL2:
		return "vector_l2_ops"
	case DistanceIP:
		return "vector_ip_ops"
	default:
		return "vector_cosine_ops"
	}
}

// DistanceFunctionFromOpClass reverses OpClass, defaulting to cosine for an
// unrecognized operator class (spec.md §4.1's "default cosine" rule).
func DistanceFunctionFromOpClass(opClass string) DistanceFunction {
	switch opClass {
	case "vector_l2_ops":
		return DistanceL2
	case "vector_ip_ops":
		return DistanceIP
	default:
		return DistanceCosine
	}
}

// Index is a named index over an ordered column tuple.
type Index struct {
	Name     string
	Columns  []string // ordered
	Kind     IndexKind
	Distance DistanceFunction // IndexHNSW only
}

// Equal reports structural equality, including the distance function for
// HNSW indices (spec.md §4.3 rule 6: a distance-function change requires
// drop+create).
func (idx *Index) Equal(other *Index) bool {
	if idx.Kind != other.Kind {
		return false
	}
	if !columnRefsEqual(idx.Columns, other.Columns) {
		return false
	}
	if idx.Kind == IndexHNSW && idx.Distance != other.Distance {
		return false
	}
	return true
}

// Table is a database table living in a Schema.
type Table struct {
	QName QName

	Columns     []*Column // declaration order, preserved
	PrimaryKey  []string  // ordered column names, possibly composite

	ForeignKeys       map[string]*ForeignKey       // name -> FK
	UniqueConstraints map[string]*UniqueConstraint // name -> constraint
	Indices           map[string]*Index            // name -> index

	HasUpdateSync bool // true if any column is UpdateSync

	Comment string
}

// NewTable constructs an empty table with initialized maps.
func NewTable(qn QName) *Table {
	return &Table{
		QName:             qn,
		ForeignKeys:       map[string]*ForeignKey{},
		UniqueConstraints: map[string]*UniqueConstraint{},
		Indices:           map[string]*Index{},
	}
}

// ColumnByName returns the column named name, or nil.
func (t *Table) ColumnByName(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// RecomputeDerived sets each column's IsPK flag and Table.HasUpdateSync
// from PrimaryKey/Columns, maintaining the invariant that these are always
// derived rather than independently settable (spec.md §3).
func (t *Table) RecomputeDerived() {
	pk := map[string]bool{}
	for _, c := range t.PrimaryKey {
		pk[c] = true
	}
	hasSync := false
	for _, c := range t.Columns {
		c.IsPK = pk[c.Name]
		if c.UpdateSync {
			hasSync = true
		}
	}
	t.HasUpdateSync = hasSync
}

// UpdateSyncColumns returns the UpdateSync columns in declaration order,
// used to render the managed trigger function's assignment list (spec.md
// §4.4).
func (t *Table) UpdateSyncColumns() []*Column {
	var out []*Column
	for _, c := range t.Columns {
		if c.UpdateSync {
			out = append(out, c)
		}
	}
	return out
}

// UpdateFunctionName returns the name of this table's managed trigger
// function: exograph_update_<table>.
func (t *Table) UpdateFunctionName() string {
	return "exograph_update_" + t.QName.Name
}

// UpdateTriggerName returns the name of this table's managed trigger:
// exograph_on_update_<table>.
func (t *Table) UpdateTriggerName() string {
	return "exograph_on_update_" + t.QName.Name
}

// ImplicitSequenceName returns the name PostgreSQL gives the sequence
// implicitly created for a SERIAL-typed column: <table>_<column>_seq. This
// is treated as a derived property of the column rather than a separate
// entity (spec.md §9 "Sequence tracking across renames").
func ImplicitSequenceName(table, column string) string {
	return table + "_" + column + "_seq"
}
