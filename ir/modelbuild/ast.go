// Package modelbuild builds an ir.Schema from a typed declarative-model
// AST. The parser and typechecker that produce this AST are out of scope
// (spec.md §1: "The declarative-model parser and typechecker (produces a
// typed AST consumed here)") — the shapes in this file are the documented
// contract that external collaborator is expected to satisfy, not a parser
// of our own.
package modelbuild

// Model is the root of a typechecked declarative-model AST: a list of
// modules, each contributing one namespace.
type Model struct {
	Modules []Module
}

// Module corresponds to an @postgres(schema=...)-annotated module.
type Module struct {
	Name   string // module name, used only for diagnostics
	Schema string // @postgres(schema=...); empty means the default namespace
	Types  []TypeDecl
	Enums  []EnumDecl
}

// EnumDecl is a declared `enum` type with its variants in declaration
// order.
type EnumDecl struct {
	Name     string
	Variants []string
}

// TypeDecl is a declarative-model entity type, which becomes a table.
type TypeDecl struct {
	Name        string // the type's name, e.g. "Todo"
	TableName   string // @table(name=...) override; empty means derive it
	Schema      string // @table(schema=...) override; empty means the module's schema
	Fields      []FieldDecl
}

// FieldKind discriminates a scalar field from a relation field.
type FieldKind int

const (
	FieldScalar FieldKind = iota
	FieldRelationToOne
	FieldRelationToMany // Set<T> — no column on this side
)

// FieldDecl is one field of a declarative-model type.
type FieldDecl struct {
	Name string
	Kind FieldKind

	// Scalar fields:
	ScalarType   ScalarType
	Nullable     bool
	Default      *FieldDefault
	Bits16       bool // @bits16
	Bits64       bool // @bits64
	SinglePrec   bool // @singlePrecision
	MaxLength    *int // @maxLength(n)
	PrecisionArg *int // @precision(n) for Decimal/Timestamp
	ScaleArg     *int // @scale(n) for Decimal
	WithTimeZone bool // @timestamp(timezone=true)
	VectorSize   int  // @size(n), vector fields only
	Distance     string // @distance("l2"|"cosine"|"ip"), vector index fields only
	UpdateSync   bool   // @updateSync
	Readonly     bool   // @readonly
	ColumnName   string // @column(name=...) override; empty means derive it
	IsPrimaryKey bool   // @pk

	// Relation fields (FieldRelationToOne only; FieldRelationToMany carries
	// no column and is skipped by the builder — it is the inverse side of
	// some other type's FieldRelationToOne):
	RelatedType     string            // the referenced type's name
	ColumnMapping   map[string]string // @column(mapping={...}), field name -> column name
	HasHNSWIndex    bool
}

// ScalarType enumerates the declarative-model's built-in scalar kinds.
type ScalarType int

const (
	ScalarInt ScalarType = iota
	ScalarFloat
	ScalarDecimal
	ScalarBoolean
	ScalarString
	ScalarLocalDate
	ScalarLocalTime
	ScalarInstant // maps to Timestamp(withTZ=true)
	ScalarLocalDateTime
	ScalarUUID
	ScalarJSON
	ScalarVector
)

// FieldDefault describes a field's `= expr` default in the declarative
// model.
type FieldDefault struct {
	AutoIncrement    bool
	AutoIncrementSeq string // autoIncrement("ns.name") explicit sequence reference; empty means implicit
	Now              bool
	GenerateUUID     bool // generate_uuid() -> gen_random_uuid() + pgcrypto
	Literal          string
	LiteralQuoted    bool
	EnumVariant      string
}
