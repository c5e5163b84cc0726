package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMigrationCaseAndAssertSQLEqual(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("old.sql", "CREATE TABLE todos (id serial PRIMARY KEY);\n")
	write("up.sql", "ALTER TABLE \"todos\" ADD \"title\" text NOT NULL;   \n")

	c := LoadMigrationCase(t, dir)
	if c.Old == "" {
		t.Fatal("expected old.sql to be loaded")
	}
	if c.Down != "" {
		t.Fatal("expected down.sql to be absent")
	}

	AssertSQLEqual(t, `ALTER TABLE "todos" ADD "title" text NOT NULL;`, c.Up)
}

func TestLoadImportCase(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "schema.sql"), []byte("CREATE TABLE t (id int);\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.expected.exo"), []byte("type T {\n  id: Int @pk\n}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := LoadImportCase(t, dir)
	if c.SchemaSQL == "" || c.ExpectedExo == "" {
		t.Fatal("expected both fixture files to load")
	}
}
