package unmanaged

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/exograph/exoschema/ir"
)

func TestLoadFromPathMissingFileReturnsNilConfig(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg != nil {
		t.Fatalf("expected a nil Config for a missing file, got %+v", cfg)
	}
}

func TestLoadFromPathParsesPatterns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".exoschemaignore")
	body := "[tables]\npatterns = [\"legacy_*\", \"audit_log\"]\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if !cfg.Matches("legacy_users") {
		t.Fatal("expected legacy_users to match the legacy_* pattern")
	}
	if !cfg.Matches("audit_log") {
		t.Fatal("expected an exact pattern match")
	}
	if cfg.Matches("todos") {
		t.Fatal("expected todos not to match any configured pattern")
	}
}

func TestConfigMatchesNilConfigMatchesNothing(t *testing.T) {
	var cfg *Config
	if cfg.Matches("anything") {
		t.Fatal("expected a nil Config to match nothing")
	}
}

func TestApplyDowngradesMatchingTables(t *testing.T) {
	schema := ir.NewSchema()
	legacy := ir.NewTable(ir.Local("legacy_users"))
	schema.AddTable(legacy)
	todos := ir.NewTable(ir.Local("todos"))
	schema.AddTable(todos)

	cfg := &Config{Tables: []string{"legacy_*"}}
	Apply(schema, cfg)

	if schema.IsManaged(ir.Local("legacy_users").Key()) {
		t.Fatal("expected legacy_users to be downgraded to unmanaged")
	}
	if !schema.IsManaged(ir.Local("todos").Key()) {
		t.Fatal("expected todos to remain managed")
	}
	if _, ok := schema.Tables[ir.Local("legacy_users").Key()]; !ok {
		t.Fatal("expected the downgraded table to remain present in Tables")
	}
}

func TestApplyNilConfigIsNoop(t *testing.T) {
	schema := ir.NewSchema()
	t1 := ir.NewTable(ir.Local("todos"))
	schema.AddTable(t1)

	Apply(schema, nil)

	if !schema.IsManaged(ir.Local("todos").Key()) {
		t.Fatal("expected a nil Config to leave managed tables untouched")
	}
}
