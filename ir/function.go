package ir

// Function is a PostgreSQL function. Only the Exograph-managed
// update-on-write pattern is modeled (spec.md §3): functions named
// exograph_update_<table> that set update-sync columns on row update.
type Function struct {
	QName  QName
	Table  string   // owning table's local name
	Sets   []string // ordered column names the function assigns, declaration order
}

// Body renders the <assignments> part of the fixed PL/pgSQL template for
// the update-sync function (spec.md §4.4); plan/render.go wraps it as:
//
//	CREATE FUNCTION exograph_update_<t>() RETURNS TRIGGER AS $$
//	BEGIN <assignments> RETURN NEW; END; $$ language 'plpgsql';
func (f *Function) Body() string {
	assignments := ""
	for _, col := range f.Sets {
		assignments += "NEW." + QuoteIdentifier(col) + " = " + defaultAssignmentExpr(col) + "; "
	}
	return assignments
}

// defaultAssignmentExpr picks the regeneration expression for a managed
// update-sync column by name convention: updated_at gets now(), anything
// named modification_id gets gen_random_uuid(), modification_id_v7 gets
// uuidv7(), anything else falls back to now().
func defaultAssignmentExpr(column string) string {
	switch column {
	case "updated_at":
		return "now()"
	case "modification_id":
		return "gen_random_uuid()"
	case "modification_id_v7":
		return "uuidv7()"
	default:
		return "now()"
	}
}

// Equal reports structural equality (order-sensitive Sets, since the
// assignment order is part of the rendered SQL).
func (f *Function) Equal(other *Function) bool {
	return f.Table == other.Table && columnRefsEqual(f.Sets, other.Sets)
}

// Trigger is a PostgreSQL trigger. Only the Exograph-managed
// BEFORE UPDATE trigger pairing with a Function is modeled.
type Trigger struct {
	QName    QName
	Table    string
	Function string // referenced Function's local name
}

// Equal reports structural equality.
func (t *Trigger) Equal(other *Trigger) bool {
	return t.Table == other.Table && t.Function == other.Function
}
