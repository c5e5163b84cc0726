// Package catalog implements the live-introspection half of schema
// assembly (C4b, spec.md §4.2): a fixed sequence of PostgreSQL catalog
// queries, run through the executor collaborator, assembled into an
// ir.Schema. Grounded on the teacher's internal/ir/builder.go, which
// drives an equivalent (if differently-scoped) query sequence through
// internal/queries against *sql.DB; here the independent queries run
// concurrently via golang.org/x/sync/errgroup (a direct teacher
// dependency) before a single-threaded deterministic merge, per
// SPEC_FULL.md's domain-stack wiring for errgroup.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudflare/backoff"
	"github.com/exograph/exoschema/internal/executor"
	"github.com/exograph/exoschema/internal/xerrors"
	"github.com/exograph/exoschema/ir"
	"golang.org/x/sync/errgroup"
)

const (
	maxCatalogRetries  = 3
	catalogMaxBackoff  = 3 * time.Second
	catalogBackoffStep = 100 * time.Millisecond
)

// Builder builds an ir.Schema from live PostgreSQL catalog queries.
type Builder struct {
	exec executor.Executor
}

// NewBuilder returns a Builder driven by exec.
func NewBuilder(exec executor.Executor) *Builder {
	return &Builder{exec: exec}
}

// rawRow holds a catalog row as a slice of any, deferring typed scanning
// until the single-threaded merge phase (keeps the concurrent phase free
// of shared mutable state).
type rawRow []any

func collect(ctx context.Context, exec executor.Executor, query string, namespaces []string, width int) ([]rawRow, error) {
	var out []rawRow
	op := func() error {
		rows, err := exec.Query(ctx, query, namespaces)
		if err != nil {
			return err
		}
		defer rows.Close()
		out = nil
		for rows.Next() {
			dest := make([]any, width)
			ptrs := make([]any, width)
			for i := range dest {
				ptrs[i] = &dest[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return err
			}
			out = append(out, rawRow(dest))
		}
		return rows.Err()
	}

	b := backoff.New(catalogMaxBackoff, catalogBackoffStep)
	var lastErr error
	for attempt := 0; attempt < maxCatalogRetries; attempt++ {
		err := op()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if sleepErr := sleepCtx(ctx, b.Duration()); sleepErr != nil {
			return nil, &xerrors.IntrospectionFailure{Query: query, Err: sleepErr}
		}
	}
	return nil, &xerrors.IntrospectionFailure{Query: query, Err: lastErr}
}

// sleepCtx waits for d or ctx cancellation, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// BuildSchema runs the fixed query sequence across namespaces and returns
// the assembled ir.Schema. namespaces should include every namespace the
// caller wants modeled; a nil namespaces expands to every namespace except
// pg_* and information_schema. A table with no columns still appears;
// Validate does not reject it.
func (b *Builder) BuildSchema(ctx context.Context, namespaces []string) (*ir.Schema, error) {
	schema := ir.NewSchema()

	if namespaces == nil {
		rows, err := exec2(ctx, b.exec, `SELECT nspname FROM pg_namespace WHERE nspname NOT LIKE 'pg\_%' AND nspname <> 'information_schema' ORDER BY nspname`)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			namespaces = append(namespaces, asString(r[0]))
		}
	}

	var (
		tables      []rawRow
		columns     []rawRow
		pks         []rawRow
		fks         []rawRow
		uniques     []rawRow
		indices     []rawRow
		enums       []rawRow
		sequences   []rawRow
		extensions  []rawRow
		mgmtFuncs   []rawRow
		mgmtTrigger []rawRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { tables, err = collect(gctx, b.exec, queryTables, namespaces, 2); return })
	g.Go(func() (err error) { columns, err = collect(gctx, b.exec, queryColumns, namespaces, 11); return })
	g.Go(func() (err error) { pks, err = collect(gctx, b.exec, queryPrimaryKeys, namespaces, 4); return })
	g.Go(func() (err error) { fks, err = collect(gctx, b.exec, queryForeignKeys, namespaces, 11); return })
	g.Go(func() (err error) { uniques, err = collect(gctx, b.exec, queryUniqueConstraints, namespaces, 5); return })
	g.Go(func() (err error) { indices, err = collect(gctx, b.exec, queryIndices, namespaces, 7); return })
	g.Go(func() (err error) { enums, err = collect(gctx, b.exec, queryEnums, namespaces, 4); return })
	g.Go(func() (err error) { sequences, err = collect(gctx, b.exec, querySequences, namespaces, 2); return })
	g.Go(func() (err error) {
		rows, err := exec2(gctx, b.exec, queryExtensions)
		extensions = rows
		return err
	})
	g.Go(func() (err error) { mgmtFuncs, err = collect(gctx, b.exec, queryManagedFunctions, namespaces, 2); return })
	g.Go(func() (err error) { mgmtTrigger, err = collect(gctx, b.exec, queryManagedTriggers, namespaces, 3); return })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// --- single-threaded deterministic merge ---

	mergeEnums(schema, enums)
	mergeSequences(schema, sequences)
	mergeExtensions(schema, extensions)
	mergeTables(schema, tables)
	mergeColumns(schema, columns)
	mergePrimaryKeys(schema, pks)
	if err := mergeForeignKeys(schema, fks); err != nil {
		return nil, err
	}
	mergeUniqueConstraints(schema, uniques)
	mergeIndices(schema, indices)

	for _, t := range schema.Tables {
		t.RecomputeDerived()
	}

	mergeManagedFunctions(schema, mgmtFuncs)
	mergeManagedTriggers(schema, mgmtTrigger)

	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("introspected schema failed invariant check: %w", err)
	}
	return schema, nil
}

// exec2 runs a no-argument query (queryExtensions takes none).
func exec2(ctx context.Context, exec executor.Executor, query string) ([]rawRow, error) {
	rows, err := exec.Query(ctx, query)
	if err != nil {
		return nil, &xerrors.IntrospectionFailure{Query: query, Err: err}
	}
	defer rows.Close()
	var out []rawRow
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &xerrors.IntrospectionFailure{Query: query, Err: err}
		}
		out = append(out, rawRow{name})
	}
	return out, rows.Err()
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asIntPtr(v any) *int {
	switch n := v.(type) {
	case int32:
		i := int(n)
		return &i
	case int64:
		i := int(n)
		return &i
	case int:
		return &n
	default:
		return nil
	}
}
