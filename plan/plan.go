package plan

import (
	"fmt"
	"sort"

	"github.com/exograph/exoschema/diff"
)

// SchemaOp is an alias for diff.SchemaOp, kept local so the rest of this
// package reads as working with "the op" rather than reaching across
// package boundaries on every line.
type SchemaOp = diff.SchemaOp

// PlannedStatement is a single emitted SQL statement plus its safety
// classification and a short human-readable reason, per spec.md §4.4.
type PlannedStatement struct {
	SQL         string
	Destructive bool
	Rationale   string
}

// Summary counts the statements a Plan produced, by safety classification.
type Summary struct {
	Total       int
	Safe        int
	Destructive int
}

// Plan is the planner's output: an ordered statement list plus a summary.
type Plan struct {
	Statements []PlannedStatement
	Summary    Summary
}

// Build orders ops under the fixed phase schedule (spec.md §4.4), drops
// anything outside scope, classifies each remaining op's safety, and
// renders it to SQL.
func Build(ops []SchemaOp, scope Scope) (*Plan, error) {
	inScopeOps := make([]SchemaOp, 0, len(ops))
	for _, op := range ops {
		if inScope(op, scope) {
			inScopeOps = append(inScopeOps, op)
		}
	}

	ordered := orderByPhase(inScopeOps)

	plan := &Plan{Statements: make([]PlannedStatement, 0, len(ordered))}
	for _, op := range ordered {
		sql, err := render(op)
		if err != nil {
			return nil, fmt.Errorf("plan: rendering %s: %w", op.Kind, err)
		}
		destructive, rationale := classify(op, ordered)
		plan.Statements = append(plan.Statements, PlannedStatement{SQL: sql, Destructive: destructive, Rationale: rationale})
		plan.Summary.Total++
		if destructive {
			plan.Summary.Destructive++
		} else {
			plan.Summary.Safe++
		}
	}
	return plan, nil
}

// orderByPhase stably sorts ops by their fixed phase number, preserving
// insertion order within a phase (spec.md §4.4: "applied as a stable sort
// by phase, preserving insertion order within phases"). A dropped index or
// foreign key whose same-named replacement is in ops sorts in the
// replacement's phase, so the differ's drop-then-create order is kept.
func orderByPhase(ops []SchemaOp) []SchemaOp {
	out := append([]SchemaOp{}, ops...)
	phase := func(op SchemaOp) int {
		switch {
		case op.Kind == diff.OpDropIndex && hasReplacement(ops, diff.OpCreateIndex, op.Table, op.Name, func(o diff.SchemaOp) string { return o.Index.Name }):
			return phaseCreateIndex
		case op.Kind == diff.OpDropForeignKey && hasReplacement(ops, diff.OpAddForeignKey, op.Table, op.Name, func(o diff.SchemaOp) string { return o.FK.Name }):
			return phaseAddForeignKey
		}
		return phaseOf(op)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return phase(out[i]) < phase(out[j])
	})
	return out
}
