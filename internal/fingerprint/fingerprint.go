// Package fingerprint implements the drift-detection fingerprint
// described in SPEC_FULL.md's supplemented features: a stable hash of a
// schema's full content, computed from the introspected source schema
// before diffing and planning, and re-checked against a fresh
// introspection immediately before the plan is executed,
// so a migration never applies against a database that moved out from
// under it. Grounded on the teacher's internal/fingerprint/fingerprint.go
// (SHA-256 over the canonical JSON encoding of the schema), adapted from
// the teacher's own *ir.IR/Schemas-map type (this module has no such
// type) to this module's single *ir.Schema value. encoding/json marshals
// Go map keys in sorted order, so hashing the Schema struct directly
// (rather than re-deriving a sorted representation by hand) is already
// deterministic across runs.
package fingerprint

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/exograph/exoschema/ir"
)

// Fingerprint is a content hash of an *ir.Schema.
type Fingerprint struct {
	Hash string `json:"hash"`
}

// Compute hashes schema's canonical JSON encoding.
func Compute(schema *ir.Schema) (*Fingerprint, error) {
	hash, err := hashObject(schema)
	if err != nil {
		return nil, fmt.Errorf("fingerprint: hashing schema: %w", err)
	}
	return &Fingerprint{Hash: hash}, nil
}

func hashObject(obj interface{}) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum), nil
}

// String renders a short, human-readable form for log lines.
func (f *Fingerprint) String() string {
	if len(f.Hash) >= 8 {
		return fmt.Sprintf("schema fingerprint %s", f.Hash[:8])
	}
	return fmt.Sprintf("schema fingerprint %s", f.Hash)
}
