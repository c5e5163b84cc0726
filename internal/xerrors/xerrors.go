// Package xerrors defines the error kinds of spec.md §7. Each is a plain
// struct implementing error and Unwrap, following the teacher's
// fmt.Errorf("...: %w", err) wrapping idiom (internal/ir/builder.go,
// cmd/apply/apply.go) but given a stable type so callers can errors.As
// instead of string-matching.
package xerrors

import "fmt"

// ModelInvariantViolation: assembly detected an inconsistency (unknown
// column, type mismatch across FK, duplicate PK). Fatal to diffing.
type ModelInvariantViolation struct {
	Detail string
	Span   string // source-span info from the AST, when available
	Err    error
}

func (e *ModelInvariantViolation) Error() string {
	if e.Span != "" {
		return fmt.Sprintf("model invariant violation at %s: %s", e.Span, e.Detail)
	}
	return fmt.Sprintf("model invariant violation: %s", e.Detail)
}

func (e *ModelInvariantViolation) Unwrap() error { return e.Err }

// IntrospectionFailure: a catalog query failed or returned an unexpected
// shape.
type IntrospectionFailure struct {
	Query string
	Err   error
}

func (e *IntrospectionFailure) Error() string {
	return fmt.Sprintf("introspection failed (%s): %v", e.Query, e.Err)
}

func (e *IntrospectionFailure) Unwrap() error { return e.Err }

// UnsupportedConstruct: a PostgreSQL feature the importer cannot render.
// Non-fatal — callers collect these as warnings; the rest of the schema
// still imports (spec.md §7).
type UnsupportedConstruct struct {
	Object string
	Detail string
}

func (e *UnsupportedConstruct) Error() string {
	return fmt.Sprintf("unsupported construct on %s: %s", e.Object, e.Detail)
}

// DestructiveNotPermitted: the planner produced destructive statements but
// the caller did not opt in.
type DestructiveNotPermitted struct {
	Count int
}

func (e *DestructiveNotPermitted) Error() string {
	return fmt.Sprintf("plan contains %d destructive statement(s); rerun with --allow-destructive", e.Count)
}

// OperatorAborted: interactive session cancelled.
type OperatorAborted struct {
	Reason string
}

func (e *OperatorAborted) Error() string {
	if e.Reason == "" {
		return "migration aborted by operator"
	}
	return fmt.Sprintf("migration aborted by operator: %s", e.Reason)
}

// ExecutorFailure: wraps the executor's error verbatim.
type ExecutorFailure struct {
	Statement string
	Err       error
}

func (e *ExecutorFailure) Error() string {
	return fmt.Sprintf("executor failed on statement %q: %v", e.Statement, e.Err)
}

func (e *ExecutorFailure) Unwrap() error { return e.Err }
