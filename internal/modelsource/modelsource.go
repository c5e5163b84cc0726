// Package modelsource supplies modelbuild.Model values to the CLI. The
// declarative-model parser and typechecker that would normally produce
// this AST from `.exo` source files is explicitly out of scope (spec.md
// §1) — ir/modelbuild/ast.go already documents its Model/Module/TypeDecl
// shapes as "the documented contract that external collaborator is
// expected to satisfy". This package is the small, concrete collaborator
// that contract implies: a JSON-file-backed loader, since every AST node
// is already a plain exported Go struct encoding/json can deserialize
// without any bespoke marshaling code.
package modelsource

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/exograph/exoschema/ir/modelbuild"
)

// Source produces a modelbuild.Model for the CLI to build a desired-state
// Schema from. The only implementation shipped here is a file-backed one;
// an editor plugin, a remote model service, or the real `.exo` parser
// could all implement this interface instead.
type Source interface {
	Load() (*modelbuild.Model, error)
}

// FileSource loads a modelbuild.Model from a JSON file at Path.
type FileSource struct {
	Path string
}

var _ Source = FileSource{}

// Load reads and decodes the JSON file at s.Path.
func (s FileSource) Load() (*modelbuild.Model, error) {
	return LoadFile(s.Path)
}

// LoadFile reads path as a JSON-encoded modelbuild.Model. The JSON shape
// mirrors the Go struct field names exactly (Modules, Schema, Types,
// Fields, ...), since modelbuild.Model carries no json struct tags.
func LoadFile(path string) (*modelbuild.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("modelsource: reading %s: %w", path, err)
	}
	var model modelbuild.Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("modelsource: decoding %s: %w", path, err)
	}
	return &model, nil
}
