package modelsource

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileDecodesModel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	body := `{
		"Modules": [
			{
				"Name": "Todo",
				"Schema": "",
				"Types": [
					{
						"Name": "Todo",
						"Fields": [
							{"Name": "id", "Kind": 0, "ScalarType": 0, "IsPrimaryKey": true, "Default": {"AutoIncrement": true}},
							{"Name": "title", "Kind": 0, "ScalarType": 4}
						]
					}
				]
			}
		]
	}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	model, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(model.Modules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(model.Modules))
	}
	mod := model.Modules[0]
	if len(mod.Types) != 1 || mod.Types[0].Name != "Todo" {
		t.Fatalf("unexpected module shape: %+v", mod)
	}
	if len(mod.Types[0].Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(mod.Types[0].Fields))
	}
	if !mod.Types[0].Fields[0].IsPrimaryKey {
		t.Fatal("expected id field to be marked primary key")
	}

	source := FileSource{Path: path}
	viaSource, err := source.Load()
	if err != nil {
		t.Fatalf("FileSource.Load: %v", err)
	}
	if len(viaSource.Modules) != len(model.Modules) {
		t.Fatal("FileSource.Load disagreed with LoadFile")
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadFileInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected a decode error for malformed JSON")
	}
}
