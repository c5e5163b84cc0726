package fingerprint

import (
	"fmt"

	"github.com/exograph/exoschema/internal/xerrors"
)

// Compare reports a mismatch between the fingerprint taken when a plan was
// built and one taken immediately before the plan executes, wrapped as an
// IntrospectionFailure so cmd/migrate's exit-code mapping treats a
// drifted-database abort the same way it treats any other introspection
// problem (spec.md §7, SPEC_FULL.md supplemented feature #3).
func Compare(expected, actual *Fingerprint) error {
	if expected.Hash == actual.Hash {
		return nil
	}
	return &xerrors.IntrospectionFailure{
		Query: "fingerprint re-check",
		Err:   fmt.Errorf("schema fingerprint mismatch: schema changed since the plan was built (expected %s, observed %s)", expected.Hash, actual.Hash),
	}
}
