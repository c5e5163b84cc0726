package ir

import "testing"

func simpleSchema(t *testing.T) *Schema {
	t.Helper()
	s := NewSchema()

	authors := NewTable(Local("authors"))
	authors.Columns = []*Column{
		{Name: "id", Type: Int()},
		{Name: "name", Type: Text(nil)},
	}
	authors.PrimaryKey = []string{"id"}
	authors.RecomputeDerived()
	s.AddTable(authors)

	books := NewTable(Local("books"))
	books.Columns = []*Column{
		{Name: "id", Type: Int()},
		{Name: "author_id", Type: Int()},
	}
	books.PrimaryKey = []string{"id"}
	books.ForeignKeys["books_author_id_fkey"] = &ForeignKey{
		Name:         "books_author_id_fkey",
		LocalColumns: []string{"author_id"},
		RefTable:     Local("authors"),
		RefColumns:   []string{"id"},
	}
	books.RecomputeDerived()
	s.AddTable(books)

	return s
}

func TestSchemaValidatePassesForConsistentSchema(t *testing.T) {
	s := simpleSchema(t)
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestSchemaValidateRejectsDuplicateColumn(t *testing.T) {
	s := simpleSchema(t)
	authors := s.Tables[Local("authors").Key()]
	authors.Columns = append(authors.Columns, &Column{Name: "id", Type: Int()})

	if err := s.Validate(); err == nil {
		t.Fatal("expected Validate to reject a duplicate column name")
	}
}

func TestSchemaValidateRejectsForeignKeyToUnknownTable(t *testing.T) {
	s := simpleSchema(t)
	books := s.Tables[Local("books").Key()]
	books.ForeignKeys["bad_fk"] = &ForeignKey{
		Name:         "bad_fk",
		LocalColumns: []string{"author_id"},
		RefTable:     Local("nonexistent"),
		RefColumns:   []string{"id"},
	}

	if err := s.Validate(); err == nil {
		t.Fatal("expected Validate to reject a foreign key to an unknown table")
	}
}

func TestSchemaValidateRejectsPrimaryKeyOnUnknownColumn(t *testing.T) {
	s := simpleSchema(t)
	authors := s.Tables[Local("authors").Key()]
	authors.PrimaryKey = []string{"missing"}

	if err := s.Validate(); err == nil {
		t.Fatal("expected Validate to reject a primary key over an unknown column")
	}
}

func TestSchemaSortedTableKeysIsDeterministic(t *testing.T) {
	s := simpleSchema(t)
	keys := s.SortedTableKeys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 table keys, got %d", len(keys))
	}
	if keys[0] != Local("authors").Key() || keys[1] != Local("books").Key() {
		t.Fatalf("expected [authors, books] order, got %v", keys)
	}
}

func TestSchemaAddUnmanagedTableIsNotManaged(t *testing.T) {
	s := NewSchema()
	t1 := NewTable(Local("external"))
	s.AddUnmanagedTable(t1)

	if s.IsManaged(Local("external").Key()) {
		t.Fatal("expected AddUnmanagedTable to leave the table unmanaged")
	}
	if _, ok := s.Tables[Local("external").Key()]; !ok {
		t.Fatal("expected the unmanaged table to still be present in Tables")
	}
}
