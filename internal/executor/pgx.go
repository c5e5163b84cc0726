package executor

import (
	"context"
	"fmt"

	"github.com/exograph/exoschema/internal/xerrors"
	"github.com/exograph/exoschema/internal/xlog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxExecutor is the production Executor backed by a pgx connection pool,
// grounded on the teacher's internal/ir/builder.go use of *sql.DB-style
// query execution, adapted to pgx's native pool type (a direct teacher
// dependency) instead of database/sql.
type PgxExecutor struct {
	pool *pgxpool.Pool
}

// NewPgxExecutor connects to dsn and returns a ready Executor.
func NewPgxExecutor(ctx context.Context, dsn string) (*PgxExecutor, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, &xerrors.IntrospectionFailure{Query: "connect", Err: err}
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, &xerrors.IntrospectionFailure{Query: "ping", Err: err}
	}
	return &PgxExecutor{pool: pool}, nil
}

// Close releases the underlying pool.
func (e *PgxExecutor) Close() { e.pool.Close() }

type pgxRows struct{ rows pgx.Rows }

func (r *pgxRows) Next() bool            { return r.rows.Next() }
func (r *pgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r *pgxRows) Err() error             { return r.rows.Err() }
func (r *pgxRows) Close()                { r.rows.Close() }

// Query implements Executor.
func (e *PgxExecutor) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if xlog.IsDebug() {
		xlog.Get().Debug("catalog query", "sql", sql)
	}
	rows, err := e.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &xerrors.IntrospectionFailure{Query: sql, Err: err}
	}
	return &pgxRows{rows: rows}, nil
}

// ExecuteInTransaction implements Executor. All statements run in one
// transaction; the executor issues BEGIN/COMMIT, never the core itself
// (spec.md §5).
func (e *PgxExecutor) ExecuteInTransaction(ctx context.Context, statements []string) error {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return &xerrors.ExecutorFailure{Statement: "BEGIN", Err: err}
	}
	defer tx.Rollback(ctx)

	for _, stmt := range statements {
		if xlog.IsDebug() {
			xlog.Get().Debug("executing statement", "sql", stmt)
		}
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return &xerrors.ExecutorFailure{Statement: stmt, Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &xerrors.ExecutorFailure{Statement: "COMMIT", Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}
