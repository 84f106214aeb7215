package wire

import (
	"fmt"
	"sort"

	"github.com/anirudhraja/schemapb/schema"
)

// Encode returns s's default encoder: it never returns an error,
// silently emitting an empty chunk for any (schema, value) combination
// it cannot match.
func Encode(s schema.Schema, cfg *Config) func(value any) []byte {
	if cfg == nil {
		cfg = DefaultConfig
	}
	return func(value any) []byte {
		b, _ := encodeTopLevel(s, value, cfg)
		return b
	}
}

// EncodeStrict is an opt-in strict encoder: the same dispatch as
// Encode, but returning a (schema, value) mismatch as an error instead
// of swallowing it. A mismatch inside a nested field comes back as a
// *FieldError carrying the field path; one at the root is a plain
// error. A Transform whose G fails is still dropped silently.
func EncodeStrict(s schema.Schema, cfg *Config) func(value any) ([]byte, error) {
	if cfg == nil {
		cfg = DefaultConfig
	}
	return func(value any) ([]byte, error) {
		return encodeTopLevel(s, value, cfg)
	}
}

// encodeTopLevel encodes the root value with no outer tag, so its wire
// shape is exactly whatever emitPayload would have produced as a
// field's payload.
func encodeTopLevel(s schema.Schema, value any, cfg *Config) ([]byte, error) {
	payload, _, present, err := emitPayload(s, value, cfg)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	return payload, nil
}

// encodeSchemaField computes the fully tagged bytes for one field:
// tag + (length prefix for length-delimited wire types) + payload. If
// tagged is false (a packed sequence element) the payload is returned
// without any tag at all.
func encodeSchemaField(fieldNumber FieldNumber, tagged bool, s schema.Schema, value any, cfg *Config) ([]byte, error) {
	payload, wireType, present, err := emitPayload(s, value, cfg)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, nil
	}
	if !tagged {
		return payload, nil
	}
	enc := NewEncoder()
	if wireType == WireLengthDelimited {
		enc.Tag(fieldNumber, WireLengthDelimited)
		enc.LengthDelimited(payload)
	} else {
		enc.Tag(fieldNumber, wireType)
		enc.Raw(payload)
	}
	return enc.Bytes(), nil
}

// emitPayload computes the canonical payload bytes for (s, value) —
// what would be written between a field's tag and the next field's tag
// — along with the wire type that payload is shaped for and whether
// the field is present at all (false means "omit the field entirely",
// for an absent Optional, a Fail schema, or a failed Transform; an
// unmatched Sum case is still present, as an empty payload).
func emitPayload(s schema.Schema, value any, cfg *Config) (payload []byte, wireType WireType, present bool, err error) {
	switch t := s.(type) {
	case *schema.Primitive:
		p, err := encodeStandardType(t.Type, t.Formatter, value)
		if err != nil {
			return nil, 0, false, err
		}
		return p, wireTypeForStandardType(t.Type), true, nil

	case *schema.Sequence:
		elements, err := t.ToChunk(value)
		if err != nil {
			return nil, 0, false, err
		}
		enc := NewEncoder()
		if canBePacked(t.Element) {
			for _, el := range elements {
				b, err := encodeSchemaField(0, false, t.Element, el, cfg)
				if err != nil {
					return nil, 0, false, err
				}
				enc.Raw(b)
			}
		} else {
			for i, el := range elements {
				b, err := encodeSchemaField(FieldNumber(i+1), true, t.Element, el, cfg)
				if err != nil {
					return nil, 0, false, err
				}
				enc.Raw(b)
			}
		}
		return enc.Bytes(), WireLengthDelimited, true, nil

	case *schema.Tuple:
		tv, ok := value.(schema.TupleValue)
		if !ok {
			return nil, 0, false, fmt.Errorf("expected schema.TupleValue for Tuple, got %T", value)
		}
		left, err := encodeSchemaField(1, true, t.Left, tv.Left, cfg)
		if err != nil {
			return nil, 0, false, wrapFieldError(err, "first")
		}
		right, err := encodeSchemaField(2, true, t.Right, tv.Right, cfg)
		if err != nil {
			return nil, 0, false, wrapFieldError(err, "second")
		}
		enc := NewEncoder()
		enc.Raw(left)
		enc.Raw(right)
		return enc.Bytes(), WireLengthDelimited, true, nil

	case *schema.Optional:
		if value == nil {
			return nil, 0, false, nil
		}
		inner, err := encodeSchemaField(1, true, t.Inner, value, cfg)
		if err != nil {
			return nil, 0, false, wrapFieldError(err, "value")
		}
		return inner, WireLengthDelimited, true, nil

	case *schema.Either:
		ev, ok := value.(schema.EitherValue)
		if !ok {
			return nil, 0, false, fmt.Errorf("expected schema.EitherValue for Either, got %T", value)
		}
		if ev.IsRight {
			b, err := encodeSchemaField(2, true, t.Right, ev.Value, cfg)
			if err != nil {
				return nil, 0, false, wrapFieldError(err, "right")
			}
			return b, WireLengthDelimited, true, nil
		}
		b, err := encodeSchemaField(1, true, t.Left, ev.Value, cfg)
		if err != nil {
			return nil, 0, false, wrapFieldError(err, "left")
		}
		return b, WireLengthDelimited, true, nil

	case *schema.Transform:
		inner, err := t.G(value)
		if err != nil {
			// A Transform whose g fails on encode is silently dropped,
			// not propagated, even in strict mode — there is no inner
			// value to report a field path against.
			return nil, 0, false, nil
		}
		return emitPayload(t.Inner, inner, cfg)

	case *schema.Fail:
		// Grouped with "unmatched shape" by spec.md §4.3, not with
		// CaseObject: a Fail-typed field is omitted entirely, no tag
		// at all, the same as an absent Optional.
		return nil, 0, false, nil

	case *schema.CaseObject:
		return nil, WireLengthDelimited, true, nil

	case *schema.GenericRecord:
		m, ok := value.(map[string]any)
		if !ok {
			return nil, 0, false, fmt.Errorf("expected map[string]any for GenericRecord, got %T", value)
		}
		entries := make([]nameSchema, len(t.Structure))
		for i, e := range t.Structure {
			entries[i] = nameSchema{Name: e.Name, Schema: e.Schema}
		}
		b, err := encodeMultiField(entries, func(i int) (any, error) {
			return m[t.Structure[i].Name], nil
		}, cfg)
		if err != nil {
			return nil, 0, false, err
		}
		return b, WireLengthDelimited, true, nil

	case *schema.Record:
		entries := make([]nameSchema, len(t.Fields))
		for i, f := range t.Fields {
			entries[i] = nameSchema{Name: f.Name, Schema: f.Schema}
		}
		b, err := encodeMultiField(entries, func(i int) (any, error) {
			return t.Fields[i].Extract(value)
		}, cfg)
		if err != nil {
			return nil, 0, false, err
		}
		return b, WireLengthDelimited, true, nil

	case *schema.Enumeration:
		ev, ok := value.(schema.EnumValue)
		if !ok {
			return nil, 0, false, fmt.Errorf("expected schema.EnumValue for Enumeration, got %T", value)
		}
		idx := -1
		for i, e := range t.Structure {
			if e.Name == ev.CaseName {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, 0, false, fmt.Errorf("Enumeration has no case named %q", ev.CaseName)
		}
		b, err := encodeSchemaField(FieldNumber(idx+1), true, t.Structure[idx].Schema, ev.Value, cfg)
		if err != nil {
			return nil, 0, false, wrapFieldError(err, ev.CaseName)
		}
		return b, WireLengthDelimited, true, nil

	case *schema.Sum:
		for i, c := range t.Cases {
			if child, ok := c.Deconstruct(value); ok {
				b, err := encodeSchemaField(FieldNumber(i+1), true, c.Schema, child, cfg)
				if err != nil {
					return nil, 0, false, wrapFieldError(err, c.Name)
				}
				return b, WireLengthDelimited, true, nil
			}
		}
		// No case matched: emit an empty length-delimited payload
		// rather than omitting the field entirely.
		return nil, WireLengthDelimited, true, nil

	case *schema.LazyRef:
		return emitPayload(t.Resolve(), value, cfg)

	default:
		return nil, 0, false, fmt.Errorf("unsupported schema type %T", s)
	}
}

// encodeMultiField encodes an ordered (name, schema) field list whose
// per-field values come from fieldValue, applying field-number
// flattening via planFields before emitting each field in ascending
// wire-number order.
func encodeMultiField(entries []nameSchema, fieldValue func(i int) (any, error), cfg *Config) ([]byte, error) {
	plans := planFields(entries, 1)

	values := make(map[int]any)
	schemaFor := make(map[int]schema.Schema)
	for i, plan := range plans {
		v, err := fieldValue(i)
		if err != nil {
			return nil, wrapFieldError(err, plan.name)
		}
		m, err := plan.encode(v)
		if err != nil {
			return nil, wrapFieldError(err, plan.name)
		}
		for n, val := range m {
			values[n] = val
		}
		for n, s := range plan.schemaFor {
			schemaFor[n] = s
		}
	}

	numbers := make([]int, 0, len(values))
	for n := range values {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	enc := NewEncoder()
	for _, n := range numbers {
		b, err := encodeSchemaField(FieldNumber(n), true, schemaFor[n], values[n], cfg)
		if err != nil {
			return nil, err
		}
		enc.Raw(b)
	}
	return enc.Bytes(), nil
}

// canBePacked reports whether a Sequence over s is eligible for the
// packed representation: a primitive leaf whose StandardType is
// packedEligible, or a Transform (or LazyRef) wrapping one. A Sequence
// element is never packable, even one over a packable leaf: each inner
// sequence is written as its own length-delimited element.
func canBePacked(s schema.Schema) bool {
	switch t := s.(type) {
	case *schema.Primitive:
		return schema.IsPackedType(t.Type)
	case *schema.Transform:
		return canBePacked(t.Inner)
	case *schema.LazyRef:
		return canBePacked(t.Resolve())
	default:
		return false
	}
}
