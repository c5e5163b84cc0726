package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MigrationCase is one golden migration fixture directory, per spec.md
// §6's "golden test format": old.sql/new.sql describe the before/after
// schema, up.sql/down.sql/in-place.sql are the expected rendered plans.
type MigrationCase struct {
	Old     string
	New     string
	Up      string
	Down    string
	InPlace string
}

// LoadMigrationCase reads a golden fixture directory. Any of the five
// files may be absent (returned as "").
func LoadMigrationCase(t *testing.T, dir string) MigrationCase {
	t.Helper()
	read := func(name string) string {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				return ""
			}
			t.Fatalf("reading %s: %v", filepath.Join(dir, name), err)
		}
		return string(data)
	}
	return MigrationCase{
		Old:     read("old.sql"),
		New:     read("new.sql"),
		Up:      read("up.sql"),
		Down:    read("down.sql"),
		InPlace: read("in-place.sql"),
	}
}

// AssertSQLEqual compares want and got modulo trailing whitespace on each
// line, the tolerance spec.md §6 allows ("byte-for-byte modulo trailing
// whitespace").
func AssertSQLEqual(t *testing.T, want, got string) {
	t.Helper()
	if normalizeTrailingWhitespace(want) != normalizeTrailingWhitespace(got) {
		t.Errorf("SQL mismatch:\n--- want ---\n%s\n--- got ---\n%s", want, got)
	}
}

func normalizeTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// ImportCase is an importer golden fixture: schema.sql plus the model
// source the importer must reproduce verbatim (spec.md §6's "Import test
// format").
type ImportCase struct {
	SchemaSQL   string
	ExpectedExo string
}

// LoadImportCase reads an importer fixture directory.
func LoadImportCase(t *testing.T, dir string) ImportCase {
	t.Helper()
	schemaSQL, err := os.ReadFile(filepath.Join(dir, "schema.sql"))
	if err != nil {
		t.Fatalf("reading schema.sql: %v", err)
	}
	expected, err := os.ReadFile(filepath.Join(dir, "index.expected.exo"))
	if err != nil {
		t.Fatalf("reading index.expected.exo: %v", err)
	}
	return ImportCase{SchemaSQL: string(schemaSQL), ExpectedExo: string(expected)}
}

// DecisionFile loads an interactive decision fixture
// (interactive/up/<choice>.sql per spec.md §6).
func DecisionFile(t *testing.T, dir, choice string) string {
	t.Helper()
	path := filepath.Join(dir, "interactive", "up", fmt.Sprintf("%s.sql", choice))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
