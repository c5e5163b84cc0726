// Package testutil provides shared integration-test helpers: a
// testcontainers-backed PostgreSQL instance for internal/catalog and
// internal/executor tests, and golden-fixture comparison for the
// diff/plan/importer test suites. Grounded on the teacher's
// internal/ir/ir_integration_test.go container-startup pattern, which is
// itself the only place in the pack that drives
// testcontainers-go/modules/postgres end to end.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/exograph/exoschema/internal/executor"
)

// Postgres holds a running test container plus an Executor connected to
// it.
type Postgres struct {
	DSN  string
	Exec *executor.PgxExecutor
}

// StartPostgres launches a disposable PostgreSQL 17 container and returns
// an Executor connected to it. The caller must call the returned cleanup
// function (typically via t.Cleanup) to terminate the container.
func StartPostgres(ctx context.Context, t *testing.T) (*Postgres, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	container, err := postgres.Run(ctx,
		"postgres:17",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("getting connection string: %v", err)
	}

	exec, err := executor.NewPgxExecutor(ctx, dsn)
	if err != nil {
		t.Fatalf("connecting executor: %v", err)
	}

	cleanup := func() {
		exec.Close()
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminating postgres container: %v", err)
		}
	}
	return &Postgres{DSN: dsn, Exec: exec}, cleanup
}

// LoadSQL executes the statements in sql against p in one batch, for
// seeding a container from a fixture file before introspecting it.
func (p *Postgres) LoadSQL(ctx context.Context, sql string) error {
	return p.Exec.ExecuteInTransaction(ctx, []string{sql})
}
