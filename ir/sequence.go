package ir

// Sequence is a named serial-backing sequence. It may be Implicit (created
// automatically from a SERIAL / autoIncrement() column) or explicit
// (declared and referenced by name via autoIncrement("ns.name")).
type Sequence struct {
	QName    QName
	Implicit bool

	// OwnedByTable/OwnedByColumn are set for Implicit sequences, recording
	// which column's SERIAL expansion created this sequence — needed by
	// the interactive refiner to rename the sequence in lockstep with a
	// table or column rename (spec.md §4.5, §9).
	OwnedByTable  string
	OwnedByColumn string
}

// Equal reports structural equality.
func (s *Sequence) Equal(other *Sequence) bool {
	return s.Implicit == other.Implicit
}
