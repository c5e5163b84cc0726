package schema

import (
	"errors"
	"fmt"
	"testing"

	"github.com/exograph/exoschema/internal/xerrors"
)

func TestExitCodeForSuccess(t *testing.T) {
	if code := ExitCodeFor(nil); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
}

func TestExitCodeForDestructiveNotPermitted(t *testing.T) {
	err := &xerrors.DestructiveNotPermitted{Count: 3}
	if code := ExitCodeFor(err); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestExitCodeForOperatorAborted(t *testing.T) {
	err := &xerrors.OperatorAborted{Reason: "declined"}
	if code := ExitCodeFor(err); code != 3 {
		t.Fatalf("expected exit code 3, got %d", code)
	}
}

func TestExitCodeForDrift(t *testing.T) {
	err := fmt.Errorf("%w: 2 operation(s) pending", errDrift)
	if code := ExitCodeFor(err); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestExitCodeForGenericError(t *testing.T) {
	if code := ExitCodeFor(errors.New("boom")); code != 1 {
		t.Fatalf("expected exit code 1 for an unrecognized error, got %d", code)
	}
}

func TestConnectionFlagsNamespaces(t *testing.T) {
	f := &connectionFlags{namespace: "tenant_a"}
	if ns := f.namespaces(); len(ns) != 1 || ns[0] != "tenant_a" {
		t.Fatalf("expected [tenant_a], got %v", ns)
	}

	all := &connectionFlags{allNamespaces: true}
	if ns := all.namespaces(); ns != nil {
		t.Fatalf("expected nil namespaces for --all-namespaces, got %v", ns)
	}
}

func TestConnectionFlagsResolveDSNRequiresFlagOrEnv(t *testing.T) {
	f := &connectionFlags{}
	if _, err := f.resolveDSN(); err == nil {
		t.Fatal("expected an error when neither --db nor EXO_POSTGRES_URL is set")
	}

	withFlag := &connectionFlags{dsn: "postgres://localhost/exo"}
	dsn, err := withFlag.resolveDSN()
	if err != nil {
		t.Fatalf("resolveDSN: %v", err)
	}
	if dsn != "postgres://localhost/exo" {
		t.Fatalf("expected the --db value to win, got %q", dsn)
	}
}
