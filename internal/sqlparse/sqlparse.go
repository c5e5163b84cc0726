// Package sqlparse wraps github.com/pganalyze/pg_query_go/v6 to give the
// rest of the module two small services the raw PostgreSQL text in
// information_schema.columns.column_default and CREATE TABLE/INDEX
// statements needs: normalizing a default-value expression fragment into a
// canonical textual form (so C3's default-expression equality, spec.md §3,
// is driven by the AST rather than incidental whitespace/casing), and
// splitting a batch of statements for the importer's unsupported-construct
// scan (spec.md §4.6, §7). Grounded on the teacher's ir/parser.go and
// ir/formatter.go (the Parse/Deparse/RawStmt/ParseResult wrapping idiom)
// and on the pack's sql2pgroll package (the GetStmts/GetStmt/GetNode
// type-switch idiom).
package sqlparse

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// NormalizeExpr parses a bare SQL expression fragment (the shape
// column_default takes: "now()", "nextval('users_id_seq'::regclass)",
// "'active'::status") and deparses it back to canonical text, so two
// syntactically-different-but-equivalent renderings of the same
// expression compare equal. Fragments pg_query_go cannot parse as a
// SELECT target (this should not happen for the shapes introspection
// actually produces) return an error.
func NormalizeExpr(expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", nil
	}

	wrapped := "SELECT " + expr
	tree, err := pg_query.Parse(wrapped)
	if err != nil {
		return "", fmt.Errorf("sqlparse: parsing expression %q: %w", expr, err)
	}
	stmts := tree.GetStmts()
	if len(stmts) != 1 {
		return "", fmt.Errorf("sqlparse: expression %q parsed to %d statements", expr, len(stmts))
	}

	selectStmt := stmts[0].GetStmt().GetSelectStmt()
	if selectStmt == nil || len(selectStmt.GetTargetList()) != 1 {
		return "", fmt.Errorf("sqlparse: expression %q did not parse to a single select target", expr)
	}
	valNode := selectStmt.GetTargetList()[0].GetResTarget().GetVal()

	return deparseNode(valNode)
}

// deparseNode renders a single expression node back to SQL text by
// wrapping it in a throwaway RawStmt/ParseResult pair, the same trick the
// teacher's ir/formatter.go formatQueryNode uses to deparse a fragment
// pg_query_go only knows how to deparse whole statements for.
func deparseNode(node *pg_query.Node) (string, error) {
	wrapped := &pg_query.ParseResult{
		Stmts: []*pg_query.RawStmt{
			{Stmt: &pg_query.Node{Node: &pg_query.Node_SelectStmt{
				SelectStmt: &pg_query.SelectStmt{
					TargetList: []*pg_query.Node{
						{Node: &pg_query.Node_ResTarget{ResTarget: &pg_query.ResTarget{Val: node}}},
					},
				},
			}}},
		},
	}
	out, err := pg_query.Deparse(wrapped)
	if err != nil {
		return "", fmt.Errorf("sqlparse: deparsing expression: %w", err)
	}
	out = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(out), ";"))
	return strings.TrimPrefix(out, "SELECT "), nil
}

// SplitStatements parses sql (which may contain several ;-terminated
// statements, as a pg_dump-style CREATE TABLE/INDEX batch does) and
// deparses each one back to its own canonical statement string, for
// callers that want to examine statements individually (the importer's
// unsupported-construct scan).
func SplitStatements(sql string) ([]string, error) {
	tree, err := pg_query.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("sqlparse: parsing statement batch: %w", err)
	}
	out := make([]string, 0, len(tree.GetStmts()))
	for _, raw := range tree.GetStmts() {
		single := &pg_query.ParseResult{Stmts: []*pg_query.RawStmt{raw}}
		text, err := pg_query.Deparse(single)
		if err != nil {
			return nil, fmt.Errorf("sqlparse: deparsing statement: %w", err)
		}
		out = append(out, text)
	}
	return out, nil
}

// Unsupported describes a single construct the importer cannot render
// (spec.md §4.6, §7's UnsupportedConstruct).
type Unsupported struct {
	Object string
	Detail string
}

// DetectUnsupported scans a single SQL statement (as produced by
// SplitStatements) for the two construct shapes the importer's
// declarative model has no representation for: table-level/inline CHECK
// constraints and partial indices (a CREATE INDEX with a WHERE clause).
// Anything else is considered representable and returns ok=false.
func DetectUnsupported(stmt string) (u Unsupported, ok bool) {
	tree, err := pg_query.Parse(stmt)
	if err != nil || len(tree.GetStmts()) != 1 {
		return Unsupported{}, false
	}
	node := tree.GetStmts()[0].GetStmt().GetNode()

	switch n := node.(type) {
	case *pg_query.Node_CreateStmt:
		stmt := n.CreateStmt
		tableName := stmt.GetRelation().GetRelname()
		for _, elt := range stmt.GetTableElts() {
			if cons := elt.GetConstraint(); cons != nil && cons.GetContype() == pg_query.ConstrType_CONSTR_CHECK {
				return Unsupported{Object: "table " + tableName, Detail: "CHECK constraint has no declarative-model representation"}, true
			}
			if colDef := elt.GetColumnDef(); colDef != nil {
				for _, c := range colDef.GetConstraints() {
					if c.GetConstraint().GetContype() == pg_query.ConstrType_CONSTR_CHECK {
						return Unsupported{Object: "table " + tableName, Detail: "CHECK constraint on column " + colDef.GetColname() + " has no declarative-model representation"}, true
					}
				}
			}
		}
	case *pg_query.Node_IndexStmt:
		stmt := n.IndexStmt
		if stmt.GetWhereClause() != nil {
			return Unsupported{Object: "index " + stmt.GetIdxname(), Detail: "partial index (WHERE clause) has no declarative-model representation"}, true
		}
	}
	return Unsupported{}, false
}
