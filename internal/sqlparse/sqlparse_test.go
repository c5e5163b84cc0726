package sqlparse

import "testing"

func TestNormalizeExprCanonicalizesCasing(t *testing.T) {
	got, err := NormalizeExpr("NOW()")
	if err != nil {
		t.Fatalf("NormalizeExpr: %v", err)
	}
	if got != "now()" {
		t.Fatalf("NormalizeExpr(NOW()) = %q, want %q", got, "now()")
	}
}

func TestNormalizeExprEmptyIsEmpty(t *testing.T) {
	got, err := NormalizeExpr("   ")
	if err != nil {
		t.Fatalf("NormalizeExpr: %v", err)
	}
	if got != "" {
		t.Fatalf("expected an empty result for a blank expression, got %q", got)
	}
}

func TestSplitStatementsSplitsBatch(t *testing.T) {
	batch := `CREATE TABLE todos (id serial PRIMARY KEY); CREATE TABLE tags (id serial PRIMARY KEY);`
	stmts, err := SplitStatements(batch)
	if err != nil {
		t.Fatalf("SplitStatements: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %v", len(stmts), stmts)
	}
}

func TestSplitStatementsRejectsMalformedSQL(t *testing.T) {
	if _, err := SplitStatements("CREATE TABLE ("); err == nil {
		t.Fatal("expected an error for malformed SQL")
	}
}

func TestDetectUnsupportedFindsTableCheckConstraint(t *testing.T) {
	stmts, err := SplitStatements(`CREATE TABLE todos (id serial PRIMARY KEY, priority int CHECK (priority > 0));`)
	if err != nil {
		t.Fatalf("SplitStatements: %v", err)
	}
	u, ok := DetectUnsupported(stmts[0])
	if !ok {
		t.Fatal("expected a CHECK constraint to be flagged as unsupported")
	}
	if u.Object != "table todos" {
		t.Fatalf("unexpected Object: %q", u.Object)
	}
}

func TestDetectUnsupportedFindsPartialIndex(t *testing.T) {
	stmts, err := SplitStatements(`CREATE INDEX idx_active ON todos (id) WHERE done = false;`)
	if err != nil {
		t.Fatalf("SplitStatements: %v", err)
	}
	_, ok := DetectUnsupported(stmts[0])
	if !ok {
		t.Fatal("expected a partial index to be flagged as unsupported")
	}
}

func TestDetectUnsupportedAllowsPlainTable(t *testing.T) {
	stmts, err := SplitStatements(`CREATE TABLE todos (id serial PRIMARY KEY, title text NOT NULL);`)
	if err != nil {
		t.Fatalf("SplitStatements: %v", err)
	}
	if _, ok := DetectUnsupported(stmts[0]); ok {
		t.Fatal("expected a plain table to not be flagged as unsupported")
	}
}
