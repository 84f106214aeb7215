// Package schema describes the algebraic data model the codec in
// package wire understands. A Schema is an ordinary, immutable Go
// value built once per type and shared across every encode/decode
// call — there is no .proto compiler and no generated code here.
package schema

import "sync"

// Schema is the sealed set of shapes the codec knows how to encode
// and decode. Implementations live in this file and record.go; the
// unexported marker method keeps the set closed to this package's
// callers, the same role a Kind string switch would play but expressed
// as an interface instead.
type Schema interface {
	isSchema()
}

// Primitive is a scalar leaf: one of the StandardType values below.
// Formatter only matters for the calendar types that are encoded as
// formatted strings (Instant, LocalDate, ...); it is nil for every
// other StandardType.
type Primitive struct {
	Type      StandardType
	Formatter *TimeFormatter
}

func (*Primitive) isSchema() {}

// NewPrimitive builds a Primitive schema for a non-temporal StandardType.
func NewPrimitive(t StandardType) *Primitive {
	return &Primitive{Type: t}
}

// NewTemporal builds a Primitive schema for a string-formatted
// calendar type, carrying the formatter that will be used on encode
// and decode.
func NewTemporal(t StandardType, f *TimeFormatter) *Primitive {
	return &Primitive{Type: t, Formatter: f}
}

// Sequence is a homogeneous ordered collection. ToChunk converts a
// caller value into a slice of elements; FromChunk builds a caller
// value back from the decoded slice. Keeping these as conversion
// functions (rather than requiring the caller value to already be a
// []any) lets a Sequence schema describe any Go slice type, not just
// []any.
type Sequence struct {
	Element   Schema
	ToChunk   func(value any) ([]any, error)
	FromChunk func(elements []any) (any, error)
}

func (*Sequence) isSchema() {}

// NewSequence builds a Sequence schema. Nil ToChunk/FromChunk default
// to treating the value as a plain []any.
func NewSequence(element Schema, toChunk func(any) ([]any, error), fromChunk func([]any) (any, error)) *Sequence {
	if toChunk == nil {
		toChunk = func(v any) ([]any, error) {
			s, _ := v.([]any)
			return s, nil
		}
	}
	if fromChunk == nil {
		fromChunk = func(elems []any) (any, error) { return elems, nil }
	}
	return &Sequence{Element: element, ToChunk: toChunk, FromChunk: fromChunk}
}

// Tuple is an ordered pair, wire-encoded as the two-field record
// {first, second}.
type Tuple struct {
	Left, Right Schema
}

func (*Tuple) isSchema() {}

// NewTuple builds a Tuple schema.
func NewTuple(left, right Schema) *Tuple {
	return &Tuple{Left: left, Right: right}
}

// TupleValue is the dynamic representation of a Tuple's value.
type TupleValue struct {
	Left, Right any
}

// Optional is zero-or-one of Inner, wire-encoded as the one-field
// record {value}.
type Optional struct {
	Inner Schema
}

func (*Optional) isSchema() {}

// NewOptional builds an Optional schema.
func NewOptional(inner Schema) *Optional {
	return &Optional{Inner: inner}
}

// Either is a tagged union of exactly two alternatives, wire-encoded
// as the one-field record {Left at 1 | Right at 2}. A decoded value
// is represented as an EitherValue.
type Either struct {
	Left, Right Schema
}

func (*Either) isSchema() {}

// NewEither builds an Either schema.
func NewEither(left, right Schema) *Either {
	return &Either{Left: left, Right: right}
}

// EitherValue is the dynamic representation of a decoded Either: it
// holds the chosen side's tag and value. Exactly one of Value's type
// corresponds to the schema side named by IsRight.
type EitherValue struct {
	IsRight bool
	Value   any
}

// Transform is an isomorphism-like lens between Inner's decoded shape
// and the caller-facing value. F runs on decode, G runs on encode; a
// given call only ever needs one direction at a time.
type Transform struct {
	Inner Schema
	F     func(inner any) (any, error)
	G     func(value any) (any, error)
}

func (*Transform) isSchema() {}

// NewTransform builds a Transform schema.
func NewTransform(inner Schema, f func(any) (any, error), g func(any) (any, error)) *Transform {
	return &Transform{Inner: inner, F: f, G: g}
}

// Fail is a schema that always fails to decode with Message and
// encodes to the empty byte sequence.
type Fail struct {
	Message string
}

func (*Fail) isSchema() {}

// NewFail builds a Fail schema.
func NewFail(message string) *Fail {
	return &Fail{Message: message}
}

// CaseObject is a singleton product: zero fields, one instance.
type CaseObject struct {
	Instance any
}

func (*CaseObject) isSchema() {}

// NewCaseObject builds a CaseObject schema around the given singleton value.
func NewCaseObject(instance any) *CaseObject {
	return &CaseObject{Instance: instance}
}

// LazyRef is the indirection node used to describe recursive schemas:
// a schema referencing itself through a thunk instead of directly, so
// the Go value graph doesn't have to be infinite. The thunk is only
// ever forced once; the realized Schema is cached. once guards that
// first resolution so concurrent callers sharing the same LazyRef
// (an ordinary occurrence — a schema is built once and shared freely
// across goroutines) don't race on thunk()/realized.
type LazyRef struct {
	thunk    func() Schema
	once     sync.Once
	realized Schema
}

func (*LazyRef) isSchema() {}

// Lazy builds a LazyRef around thunk. thunk is typically a closure
// that closes over a variable assigned after Lazy returns, e.g.:
//
//	var treeSchema schema.Schema
//	treeSchema = schema.NewGenericRecord(
//	    schema.Field("value", schema.NewPrimitive(schema.Int)),
//	    schema.Field("children", schema.NewSequence(schema.Lazy(func() schema.Schema { return treeSchema }), nil, nil)),
//	)
func Lazy(thunk func() Schema) *LazyRef {
	return &LazyRef{thunk: thunk}
}

// Resolve forces the thunk exactly once and returns the realized
// schema. Safe to call repeatedly and from multiple callers sharing
// the same LazyRef value; the realized schema itself may still be
// another LazyRef if the thunk built one, so callers that need the
// concrete shape should loop calling Resolve until the result stops
// being a *LazyRef.
func (l *LazyRef) Resolve() Schema {
	l.once.Do(func() {
		l.realized = l.thunk()
	})
	return l.realized
}
