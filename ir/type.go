package ir

import "fmt"

// TypeKind discriminates the closed set of Type variants. Exhaustiveness is
// enforced by convention: Type.Equal and Type.Render carry a default
// branch that panics, following the teacher's use of plain kind-tagged structs
// (internal/ir/type.go) rather than interface dispatch for IR node kinds.
type TypeKind int

const (
	KindInt TypeKind = iota
	KindFloat
	KindDecimal
	KindBool
	KindText
	KindDate
	KindTime
	KindTimestamp
	KindUUID
	KindJSON
	KindArray
	KindVector
	KindEnumRef
)

// IntWidth is the bit width of an Int type.
type IntWidth int

const (
	Int32 IntWidth = 32 // default
	Int16 IntWidth = 16
	Int64 IntWidth = 64
)

// FloatWidth is the precision of a Float type.
type FloatWidth int

const (
	FloatDouble FloatWidth = iota // default
	FloatSingle
)

// Type is a canonical scalar/type descriptor. Only the fields relevant to
// Kind are meaningful; the rest are zero. Structural equality is defined by
// Equal, not Go's == (Array/Vector/Decimal carry pointer or slice payloads).
type Type struct {
	Kind TypeKind

	IntWidth   IntWidth   // KindInt
	FloatWidth FloatWidth // KindFloat

	Precision int // KindDecimal, KindTimestamp (fractional-seconds precision)
	Scale     int // KindDecimal

	MaxLength *int // KindText; nil means unbounded TEXT

	WithTimeZone bool // KindTimestamp

	Elem *Type // KindArray: element type

	VectorSize int // KindVector: dimension

	EnumRef QName // KindEnumRef
}

// Int returns the default-width (32-bit) integer type.
func Int() Type { return Type{Kind: KindInt, IntWidth: Int32} }

// IntN returns an integer type of the given width (16/32/64).
func IntN(width IntWidth) Type { return Type{Kind: KindInt, IntWidth: width} }

// Float returns the default (double precision) float type.
func Float() Type { return Type{Kind: KindFloat, FloatWidth: FloatDouble} }

// FloatSinglePrecision returns the REAL float type.
func FloatSinglePrecision() Type { return Type{Kind: KindFloat, FloatWidth: FloatSingle} }

// Decimal returns a fixed-precision decimal type.
func Decimal(precision, scale int) Type {
	return Type{Kind: KindDecimal, Precision: precision, Scale: scale}
}

// Bool returns the boolean type.
func Bool() Type { return Type{Kind: KindBool} }

// Text returns a TEXT/VARCHAR type; maxLength nil means unbounded TEXT.
func Text(maxLength *int) Type { return Type{Kind: KindText, MaxLength: maxLength} }

// Date returns the DATE type.
func Date() Type { return Type{Kind: KindDate} }

// Time returns the TIME type.
func Time() Type { return Type{Kind: KindTime} }

// Timestamp returns a TIMESTAMP type, optionally with time zone and with a
// fractional-seconds precision (0 means unspecified/default).
func Timestamp(withTZ bool, precision int) Type {
	return Type{Kind: KindTimestamp, WithTimeZone: withTZ, Precision: precision}
}

// UUID returns the UUID type.
func UUID() Type { return Type{Kind: KindUUID} }

// JSON returns the JSON (jsonb) type.
func JSON() Type { return Type{Kind: KindJSON} }

// Array returns an array type over elem.
func Array(elem Type) Type { return Type{Kind: KindArray, Elem: &elem} }

// Vector returns a pgvector Vector(size) type.
func Vector(size int) Type { return Type{Kind: KindVector, VectorSize: size} }

// EnumRefType returns a reference to a user-defined enum type.
func EnumRefType(name QName) Type { return Type{Kind: KindEnumRef, EnumRef: name} }

// Equal reports whether t and other are structurally identical. Text with
// MaxLength == nil is equal to another Text with MaxLength == nil only;
// Decimal(10,2) equals Decimal(10,2) only, per spec.md §4.1.
func (t Type) Equal(other Type) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindInt:
		return t.IntWidth == other.IntWidth
	case KindFloat:
		return t.FloatWidth == other.FloatWidth
	case KindDecimal:
		return t.Precision == other.Precision && t.Scale == other.Scale
	case KindBool:
		return true
	case KindText:
		if (t.MaxLength == nil) != (other.MaxLength == nil) {
			return false
		}
		if t.MaxLength != nil && *t.MaxLength != *other.MaxLength {
			return false
		}
		return true
	case KindDate, KindTime:
		return true
	case KindTimestamp:
		return t.WithTimeZone == other.WithTimeZone && t.Precision == other.Precision
	case KindUUID, KindJSON:
		return true
	case KindArray:
		if t.Elem == nil || other.Elem == nil {
			return t.Elem == other.Elem
		}
		return t.Elem.Equal(*other.Elem)
	case KindVector:
		return t.VectorSize == other.VectorSize
	case KindEnumRef:
		return t.EnumRef == other.EnumRef
	default:
		panic(fmt.Sprintf("ir: unhandled TypeKind %d in Equal", t.Kind))
	}
}

// Render returns the PostgreSQL CREATE-context rendering of t, e.g.
// "SMALLINT", `VARCHAR(30)`, `TIMESTAMP WITH TIME ZONE`, "Vector(1536)".
//
// Rule (spec.md §4.1): Int with no width hint maps to INTEGER; @bits16 /
// @bits64 map to SMALLINT / BIGINT. @singlePrecision maps Float to REAL;
// otherwise DOUBLE PRECISION.
func (t Type) Render() string {
	switch t.Kind {
	case KindInt:
		switch t.IntWidth {
		case Int16:
			return "SMALLINT"
		case Int64:
			return "BIGINT"
		default:
			return "INTEGER"
		}
	case KindFloat:
		if t.FloatWidth == FloatSingle {
			return "REAL"
		}
		return "DOUBLE PRECISION"
	case KindDecimal:
		return fmt.Sprintf("DECIMAL(%d,%d)", t.Precision, t.Scale)
	case KindBool:
		return "BOOLEAN"
	case KindText:
		if t.MaxLength != nil {
			return fmt.Sprintf("VARCHAR(%d)", *t.MaxLength)
		}
		return "TEXT"
	case KindDate:
		return "DATE"
	case KindTime:
		return "TIME"
	case KindTimestamp:
		base := "TIMESTAMP"
		if t.Precision > 0 {
			base = fmt.Sprintf("TIMESTAMP(%d)", t.Precision)
		}
		if t.WithTimeZone {
			return base + " WITH TIME ZONE"
		}
		return base
	case KindUUID:
		return "UUID"
	case KindJSON:
		return "JSONB"
	case KindArray:
		return t.Elem.Render() + "[]"
	case KindVector:
		return fmt.Sprintf("Vector(%d)", t.VectorSize)
	case KindEnumRef:
		return t.EnumRef.String()
	default:
		panic(fmt.Sprintf("ir: unhandled TypeKind %d in Render", t.Kind))
	}
}

// ParsePostgresType maps a PostgreSQL information_schema/pg_type row to a
// canonical Type. udtName is pg_type.typname (lowercased, e.g. "int4",
// "varchar", "vector"); maxLength/precision/scale come from the matching
// information_schema.columns row; enumRef is non-zero when udtName names a
// user-defined enum already known to the caller.
func ParsePostgresType(udtName string, maxLength, precision, scale *int, withTZ bool, enumRef *QName) Type {
	switch udtName {
	case "int2", "smallint":
		return IntN(Int16)
	case "int4", "integer", "int", "serial":
		return IntN(Int32)
	case "int8", "bigint", "bigserial":
		return IntN(Int64)
	case "float4", "real":
		return FloatSinglePrecision()
	case "float8", "double precision":
		return Float()
	case "numeric", "decimal":
		p, s := 0, 0
		if precision != nil {
			p = *precision
		}
		if scale != nil {
			s = *scale
		}
		return Decimal(p, s)
	case "bool", "boolean":
		return Bool()
	case "text":
		return Text(nil)
	case "varchar", "character varying":
		return Text(maxLength)
	case "date":
		return Date()
	case "time", "time without time zone":
		return Time()
	case "timestamp", "timestamp without time zone":
		p := 0
		if precision != nil {
			p = *precision
		}
		return Timestamp(false, p)
	case "timestamptz", "timestamp with time zone":
		p := 0
		if precision != nil {
			p = *precision
		}
		return Timestamp(true, p)
	case "uuid":
		return UUID()
	case "json", "jsonb":
		return JSON()
	case "vector":
		size := 0
		if precision != nil {
			size = *precision
		}
		return Vector(size)
	default:
		if enumRef != nil {
			return EnumRefType(*enumRef)
		}
		// Fall back to TEXT for anything unrecognized rather than erroring;
		// no warning is raised for it, and the importer renders such a
		// column as String.
		return Text(nil)
	}
}
