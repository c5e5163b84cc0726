// Package executor defines the opaque database-executor collaborator of
// spec.md §5: the core never issues BEGIN/COMMIT itself, it hands a list
// of statements to an Executor that runs them in one transaction.
package executor

import "context"

// Row is a single result row from a catalog query, addressable by
// ordinal position; callers know the expected column shape from the query
// they issued (mirrors the teacher's thin wrapping of database/sql.Rows
// in internal/ir/builder.go, generalized to an interface so tests can
// supply a fake).
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a catalog query's result set.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Executor is the opaque collaborator the core holds for (a) catalog
// queries during introspection and (b) executing planned statements.
type Executor interface {
	// Query runs a parameterized catalog query (introspection only).
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	// ExecuteInTransaction runs every statement in statements inside a
	// single transaction, committed atomically only if every statement
	// succeeds. The core never calls BEGIN/COMMIT directly (spec.md §5).
	ExecuteInTransaction(ctx context.Context, statements []string) error
}
