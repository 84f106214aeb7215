package schema

import "fmt"

// NamedEntry pairs a declaration-order name with the schema of the
// value stored under that name. GenericRecord and Enumeration both
// carry an ordered list of these rather than a plain Go map, because
// field order must be the declaration order and a map iteration order
// is not stable.
type NamedEntry struct {
	Name   string
	Schema Schema
}

// GenericRecord is a named-field product whose field list is only
// known at runtime (e.g. loaded from a registry by name, built by a
// caller assembling fields dynamically). Field order is Structure's
// slice order; both the flattening rule and field-number assignment
// key off that order.
type GenericRecord struct {
	Structure []NamedEntry
}

func (*GenericRecord) isSchema() {}

// NewGenericRecord builds a GenericRecord from an ordered field list.
// Field names must be unique; NewGenericRecord panics on a duplicate,
// since a schema is built once at startup and a duplicate name is a
// programmer error, not a runtime condition to recover from.
func NewGenericRecord(fields ...NamedEntry) *GenericRecord {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			panic(fmt.Sprintf("schema: duplicate field name %q in GenericRecord", f.Name))
		}
		seen[f.Name] = struct{}{}
	}
	return &GenericRecord{Structure: fields}
}

// Enumeration is a runtime-dynamic sum: a named-field union whose
// wire representation carries exactly one present case, selected by
// the case's position in Structure. A decoded value is represented as
// an EnumValue.
type Enumeration struct {
	Structure []NamedEntry
}

func (*Enumeration) isSchema() {}

// NewEnumeration builds an Enumeration from an ordered case list.
func NewEnumeration(cases ...NamedEntry) *Enumeration {
	seen := make(map[string]struct{}, len(cases))
	for _, c := range cases {
		if _, dup := seen[c.Name]; dup {
			panic(fmt.Sprintf("schema: duplicate case name %q in Enumeration", c.Name))
		}
		seen[c.Name] = struct{}{}
	}
	return &Enumeration{Structure: cases}
}

// EnumValue is the dynamic representation of a decoded Enumeration:
// the name of the one present case and its value.
type EnumValue struct {
	CaseName string
	Value    any
}

// RecordField describes one field of a statically-sized product: a
// generic representation carrying an ordered list of (name, schema,
// extractor) plus a constructor, standing in for a family of per-arity
// generated types. Extract pulls this field's value out of an
// already-constructed parent value, for encode; Schema describes its
// wire shape.
type RecordField struct {
	Name    string
	Schema  Schema
	Extract func(parent any) (any, error)
}

// Record is a statically-sized product: an ordered list of named,
// typed fields plus a constructor. Construct builds a parent value from
// a slice of field values in Fields' order. When the Record is decoded
// as a value of its own, the decode path checks that every field was
// present before calling it; when it is flattened into a GenericRecord
// through a Transform, an absent field reaches Construct as nil.
type Record struct {
	Fields    []RecordField
	Construct func(values []any) (any, error)
}

func (*Record) isSchema() {}

// NewRecord builds a Record schema from its fields and constructor.
func NewRecord(construct func([]any) (any, error), fields ...RecordField) *Record {
	return &Record{Fields: fields, Construct: construct}
}

// SumCase describes one alternative of a statically-sized sum: a
// generic representation standing in for a family of per-arity
// generated sum types. Deconstruct probes whether a parent value is
// this case on encode,
// returning the child value when it is; Construct runs the other way
// on decode, rebuilding the parent-level value once the wire field
// number has already selected this case and its child has been
// decoded.
type SumCase struct {
	Name        string
	Schema      Schema
	Deconstruct func(parent any) (child any, ok bool)
	Construct   func(child any) any
}

// Sum is a statically-sized sum: an ordered list of cases, exactly one
// of which reports ok=true from Deconstruct for any given encodable
// value.
type Sum struct {
	Cases []SumCase
}

func (*Sum) isSchema() {}

// NewSum builds a Sum schema from its ordered case list.
func NewSum(cases ...SumCase) *Sum {
	return &Sum{Cases: cases}
}
