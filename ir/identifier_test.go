package ir

import "testing"

func TestQNameStringElidesDefaultNamespace(t *testing.T) {
	q := Local("todo")
	if got, want := q.String(), `"todo"`; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if got, want := q.Qualified(), `"public"."todo"`; got != want {
		t.Fatalf("Qualified() = %q, want %q", got, want)
	}
}

func TestQNameStringKeepsNonDefaultNamespace(t *testing.T) {
	q := NewQName("tenant_a", "todo")
	if got, want := q.String(), `"tenant_a"."todo"`; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestNewQNameDefaultsEmptyNamespace(t *testing.T) {
	q := NewQName("", "todo")
	if q.Namespace != DefaultNamespace {
		t.Fatalf("expected namespace to default to %q, got %q", DefaultNamespace, q.Namespace)
	}
}

func TestQNameKeyDistinguishesNamespaces(t *testing.T) {
	a := Local("todo")
	b := NewQName("tenant_a", "todo")
	if a.Key() == b.Key() {
		t.Fatal("expected distinct keys for identically-named QNames in different namespaces")
	}
}

func TestQNameLessOrdersByNamespaceThenName(t *testing.T) {
	a := NewQName("public", "a")
	b := NewQName("public", "b")
	c := NewQName("tenant_a", "a")
	if !a.Less(b) {
		t.Fatal("expected a < b within the same namespace")
	}
	if !b.Less(c) {
		t.Fatal("expected public namespace to sort before tenant_a")
	}
}

func TestQuoteIdentifierAlwaysQuotes(t *testing.T) {
	cases := map[string]string{
		"todo":   `"todo"`,
		"select": `"select"`,
		`weird"name`: `"weird""name"`,
	}
	for in, want := range cases {
		if got := QuoteIdentifier(in); got != want {
			t.Errorf("QuoteIdentifier(%q) = %q, want %q", in, got, want)
		}
	}
}
