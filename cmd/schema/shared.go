// Package schema implements the `exo schema` subcommands (create, migrate,
// verify, import), the CLI surface spec.md §1 calls out as the one driver
// of the core subsystem alongside the dev server's auto-migration path.
// Grounded on the teacher's cmd/plan.go and cmd/apply/apply.go: package
// level flag variables, a RunE per subcommand, and a shared
// connect-introspect-diff pipeline factored out of both.
package schema

import (
	"context"
	"errors"
	"fmt"

	"github.com/exograph/exoschema/internal/catalog"
	"github.com/exograph/exoschema/internal/env"
	"github.com/exograph/exoschema/internal/executor"
	"github.com/exograph/exoschema/internal/modelsource"
	"github.com/exograph/exoschema/internal/unmanaged"
	"github.com/exograph/exoschema/internal/xerrors"
	"github.com/exograph/exoschema/internal/xlog"
	"github.com/exograph/exoschema/ir"
	"github.com/exograph/exoschema/ir/modelbuild"
	"github.com/exograph/exoschema/plan"
	"github.com/spf13/cobra"
)

// Cmd is the `exo schema` parent command; subcommands register themselves
// onto it from their own init().
var Cmd = &cobra.Command{
	Use:   "schema",
	Short: "Plan and apply PostgreSQL schema migrations from a declarative model",
}

// connectionFlags are the database-connection flags shared by every
// subcommand that introspects a live database.
type connectionFlags struct {
	dsn           string
	namespace     string
	allNamespaces bool
	ignoreFile    string
}

func registerConnectionFlags(cmd *cobra.Command, f *connectionFlags) {
	cmd.Flags().StringVar(&f.dsn, "db", "", "PostgreSQL connection string (default: EXO_POSTGRES_URL)")
	cmd.Flags().StringVar(&f.namespace, "namespace", ir.DefaultNamespace, "Namespace (schema) to plan against")
	cmd.Flags().BoolVar(&f.allNamespaces, "all-namespaces", false, "Plan across every namespace instead of just --namespace")
	cmd.Flags().StringVar(&f.ignoreFile, "ignore-file", unmanaged.FileName, "Path to the unmanaged-table pattern file")
}

// resolveDSN returns f.dsn, falling back to EXO_POSTGRES_URL (spec.md §6:
// "the only variable the core reads is EXO_POSTGRES_URL").
func (f *connectionFlags) resolveDSN() (string, error) {
	if f.dsn != "" {
		return f.dsn, nil
	}
	if u := env.PostgresURL(); u != "" {
		return u, nil
	}
	return "", fmt.Errorf("no database connection: pass --db or set %s", env.PostgresURLEnvVar)
}

func (f *connectionFlags) scope() plan.Scope {
	if f.allNamespaces {
		return plan.AllNamespaces()
	}
	return plan.CurrentNamespace(f.namespace)
}

func (f *connectionFlags) namespaces() []string {
	if f.allNamespaces {
		return nil
	}
	return []string{f.namespace}
}

// connectExecutor opens a pgx-backed Executor against dsn.
func connectExecutor(ctx context.Context, dsn string) (*executor.PgxExecutor, error) {
	xlog.Get().Debug("connecting to database", "dsn", catalog.RedactDSN(dsn))
	exec, err := executor.NewPgxExecutor(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return exec, nil
}

// introspectSchema builds an ir.Schema from the live database exec is
// connected to, then applies the unmanaged-table pattern file.
func introspectSchema(ctx context.Context, exec executor.Executor, f *connectionFlags) (*ir.Schema, error) {
	namespaces := f.namespaces()
	if namespaces == nil {
		xlog.Get().Debug("introspecting all namespaces")
	}
	schema, err := catalog.NewBuilder(exec).BuildSchema(ctx, namespaces)
	if err != nil {
		return nil, err
	}
	cfg, err := unmanaged.LoadFromPath(f.ignoreFile)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", f.ignoreFile, err)
	}
	unmanaged.Apply(schema, cfg)
	return schema, nil
}

// loadModelSchema loads the desired-state model from a JSON-encoded
// modelbuild.Model file and assembles it into an ir.Schema (C4a, spec.md
// §4.2). The real `.exo` parser/typechecker is out of scope (spec.md §1);
// modelsource.FileSource is the small collaborator that stands in for it.
func loadModelSchema(path string) (*ir.Schema, error) {
	model, err := modelsource.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return modelbuild.Build(model)
}

// ExitCodeFor maps a returned error to the exit codes spec.md §6 fixes:
// 0 success, 1 destructive-without-opt-in, 2 introspection mismatch
// (verify mode), 3 operator aborted.
func ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var destructive *xerrors.DestructiveNotPermitted
	if errors.As(err, &destructive) {
		return 1
	}
	var aborted *xerrors.OperatorAborted
	if errors.As(err, &aborted) {
		return 3
	}
	if errors.Is(err, errDrift) {
		return 2
	}
	return 1
}

// errDrift marks a verify-mode mismatch; wrapped so errors.Is can detect
// it without a dedicated exported type (ExitCodeFor is the only caller
// that needs to distinguish it from a generic failure).
var errDrift = errors.New("schema drift detected")
