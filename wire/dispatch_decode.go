package wire

import (
	"fmt"

	"github.com/anirudhraja/schemapb/schema"
)

// Decode returns s's decoder. The top-level input has no outer tag, so
// the whole buffer is exactly s's own payload.
func Decode(s schema.Schema, cfg *Config) func(data []byte) (any, error) {
	if cfg == nil {
		cfg = DefaultConfig
	}
	body := decodeBody(s, cfg)
	return func(data []byte) (any, error) {
		return body.Run(data)
	}
}

// decodeBody returns a Decoder that consumes a buffer already known to
// be exactly s's own payload region — the whole top-level input, or
// the bytes inside a parent's Take(length) envelope for a nested
// length-delimited field. This is the counterpart of
// dispatch_encode.go's emitPayload.
func decodeBody(s schema.Schema, cfg *Config) Decoder {
	switch t := s.(type) {
	case *schema.Primitive:
		return decodeStandardType(t.Type, t.Formatter)

	case *schema.Sequence:
		if canBePacked(t.Element) {
			return fieldDecoder(t.Element, cfg).Loop().FlatMap(func(v any) Decoder {
				elems, _ := v.([]any)
				val, err := t.FromChunk(elems)
				if err != nil {
					return FailDecoder(err.Error())
				}
				return Succeed(val)
			})
		}
		// An unpacked Sequence body is a run of tagged elements carrying
		// synthetic 1-based field numbers, as the unpacked encoding
		// writes them.
		return decodeUnpackedSequenceBody(t, cfg)

	case *schema.Tuple:
		entries := []nameSchema{{Name: "first", Schema: t.Left}, {Name: "second", Schema: t.Right}}
		return decodeMultiField(entries, true, func(values []any) (any, error) {
			return schema.TupleValue{Left: values[0], Right: values[1]}, nil
		}, cfg)

	case *schema.Optional:
		entries := []nameSchema{{Name: "value", Schema: t.Inner}}
		return decodeMultiField(entries, true, func(values []any) (any, error) {
			return values[0], nil
		}, cfg)

	case *schema.Either:
		return decodeEitherBody(t, cfg)

	case *schema.Transform:
		inner := decodeBody(t.Inner, cfg)
		return inner.FlatMap(func(v any) Decoder {
			out, err := t.F(v)
			if err != nil {
				return FailDecoder(err.Error())
			}
			return Succeed(out)
		})

	case *schema.Fail:
		return FailDecoder(t.Message)

	case *schema.CaseObject:
		return func(buf []byte) ([]byte, any, error) {
			if len(buf) != 0 {
				return nil, nil, fmt.Errorf("Error while decoding case object.")
			}
			return nil, t.Instance, nil
		}

	case *schema.GenericRecord:
		if cfg.UnwrapSingleFieldRecords && len(t.Structure) == 1 && t.Structure[0].Name == "value" {
			entries := []nameSchema{{Name: "value", Schema: t.Structure[0].Schema}}
			return decodeMultiField(entries, false, func(values []any) (any, error) {
				return values[0], nil
			}, cfg)
		}
		entries := make([]nameSchema, len(t.Structure))
		for i, e := range t.Structure {
			entries[i] = nameSchema{Name: e.Name, Schema: e.Schema}
		}
		return decodeMultiField(entries, false, func(values []any) (any, error) {
			m := make(map[string]any, len(values))
			for i, e := range t.Structure {
				m[e.Name] = values[i]
			}
			return m, nil
		}, cfg)

	case *schema.Record:
		if cfg.UnwrapSingleFieldRecords && len(t.Fields) == 1 && t.Fields[0].Name == "value" {
			entries := []nameSchema{{Name: "value", Schema: t.Fields[0].Schema}}
			return decodeMultiField(entries, true, func(values []any) (any, error) {
				return values[0], nil
			}, cfg)
		}
		entries := make([]nameSchema, len(t.Fields))
		for i, f := range t.Fields {
			entries[i] = nameSchema{Name: f.Name, Schema: f.Schema}
		}
		return decodeMultiField(entries, true, t.Construct, cfg)

	case *schema.Enumeration:
		return decodeEnumerationBody(t, cfg)

	case *schema.Sum:
		return decodeSumBody(t, cfg)

	case *schema.LazyRef:
		return decodeBody(t.Resolve(), cfg)

	default:
		return FailDecoder(fmt.Sprintf("unsupported schema type %T", s))
	}
}

// fieldDecoder returns a Decoder that runs right after a field's tag
// has already been consumed and validated: for self-delimiting wire
// types (Varint, Bit32, Bit64 — only ever Primitive leaves) it parses
// the value directly off the front of the buffer; for
// LengthDelimited it reads the length prefix itself, bounds the
// buffer with Take, and recurses into decodeBody.
func fieldDecoder(s schema.Schema, cfg *Config) Decoder {
	switch t := s.(type) {
	case *schema.LazyRef:
		return fieldDecoder(t.Resolve(), cfg)
	case *schema.Transform:
		inner := fieldDecoder(t.Inner, cfg)
		return inner.FlatMap(func(v any) Decoder {
			out, err := t.F(v)
			if err != nil {
				return FailDecoder(err.Error())
			}
			return Succeed(out)
		})
	case *schema.Primitive:
		if wireTypeForStandardType(t.Type) == WireLengthDelimited {
			return takeLengthDelimited(decodeBody(s, cfg))
		}
		return decodeBody(s, cfg)
	default:
		return takeLengthDelimited(decodeBody(s, cfg))
	}
}

// takeLengthDelimited reads a varint length prefix and bounds d to
// exactly that many of the following bytes.
func takeLengthDelimited(d Decoder) Decoder {
	return func(buf []byte) ([]byte, any, error) {
		rest, length, err := ReadVarint(buf)
		if err != nil {
			return nil, nil, err
		}
		return d.Take(int(length))(rest)
	}
}

// wireTypeMatches reports whether wireType is the one s's fields would
// actually be written with.
func wireTypeMatches(s schema.Schema, wireType WireType) bool {
	switch t := s.(type) {
	case *schema.Primitive:
		return wireTypeForStandardType(t.Type) == wireType
	case *schema.Transform:
		return wireTypeMatches(t.Inner, wireType)
	case *schema.LazyRef:
		return wireTypeMatches(t.Resolve(), wireType)
	case *schema.Sequence:
		if canBePacked(t.Element) {
			return wireType == WireLengthDelimited
		}
		return wireTypeMatches(t.Element, wireType)
	default:
		return wireType == WireLengthDelimited
	}
}

// skipValue discards one field's value without interpreting it,
// honoring the module's Non-goal of not preserving unknown fields.
func skipValue(buf []byte, wireType WireType) ([]byte, error) {
	switch wireType {
	case WireVarint:
		rest, _, err := ReadVarint(buf)
		return rest, err
	case WireBit32:
		rest, _, err := ReadFixed32(buf)
		return rest, err
	case WireBit64:
		rest, _, err := ReadFixed64(buf)
		return rest, err
	case WireLengthDelimited:
		rest, length, err := ReadVarint(buf)
		if err != nil {
			return nil, err
		}
		if int(length) > len(rest) {
			return nil, fmt.Errorf("Unexpected end of chunk")
		}
		return rest[length:], nil
	default:
		return nil, fmt.Errorf("Failed decoding key: unknown wire type")
	}
}

// decodeMultiField reads repeated (tag, value) pairs off the entire
// given buffer and reassembles entries' declared-field values — via
// the field-number flattening plan — before handing them to build.
// requireAll makes a field number named by the plan but never seen on
// the wire a hard "Missing field number N." error, which is the right
// behavior for the statically-sized products (Record, Tuple, Optional);
// GenericRecord instead defaults an absent field to nil,
// since its whole point is tolerating schema evolution.
func decodeMultiField(entries []nameSchema, requireAll bool, build func(declaredValues []any) (any, error), cfg *Config) Decoder {
	plans := planFields(entries, 1)
	schemaFor := make(map[int]schema.Schema)
	for _, p := range plans {
		for n, s := range p.schemaFor {
			schemaFor[n] = s
		}
	}

	return func(buf []byte) ([]byte, any, error) {
		// Every declared field — including a Sequence one, packed or
		// not — occupies exactly one wire field number here: a
		// Sequence's own elements (synthetically numbered 1..n) live
		// inside that single field's length-delimited envelope rather
		// than repeating the outer field number. A given field number
		// can still appear more than once on the wire though (a
		// malformed or hand-crafted payload); the first occurrence
		// wins and later ones are decoded (to keep the cursor
		// advancing correctly) but discarded.
		single := make(map[int]any)
		rest := buf
		for len(rest) > 0 {
			next, tagRaw, err := ReadVarint(rest)
			if err != nil {
				return nil, nil, err
			}
			fieldNumber, wireType, err := ParseTag(Tag(tagRaw))
			if err != nil {
				return nil, nil, err
			}
			fs, known := schemaFor[int(fieldNumber)]
			if !known {
				next, err = skipValue(next, wireType)
				if err != nil {
					return nil, nil, err
				}
				rest = next
				continue
			}
			if !wireTypeMatches(fs, wireType) {
				return nil, nil, fmt.Errorf("Schema doesn't contain field number %d.", fieldNumber)
			}
			next2, v, err := fieldDecoder(fs, cfg)(next)
			if err != nil {
				return nil, nil, err
			}
			if _, dup := single[int(fieldNumber)]; !dup {
				single[int(fieldNumber)] = v
			}
			rest = next2
		}

		declared := make([]any, len(plans))
		for i, p := range plans {
			merged := make(map[int]any, len(p.numbers))
			for _, n := range p.numbers {
				if v, ok := single[n]; ok {
					merged[n] = v
				} else if requireAll {
					return nil, nil, fmt.Errorf("Missing field number %d.", n)
				} else {
					merged[n] = nil
				}
			}
			v, err := p.assemble(merged)
			if err != nil {
				return nil, nil, wrapFieldError(err, p.name)
			}
			declared[i] = v
		}
		result, err := build(declared)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	}
}

// decodeUnpackedSequenceBody decodes the body of any Sequence whose
// element is not packable (a top-level value, or the inside of a
// field's length-delimited envelope): it reads one tagged element after
// another until the buffer is empty, in wire order. The elements'
// synthetic field numbers are read but not checked.
func decodeUnpackedSequenceBody(t *schema.Sequence, cfg *Config) Decoder {
	return func(buf []byte) ([]byte, any, error) {
		var elems []any
		rest := buf
		for len(rest) > 0 {
			next, tagRaw, err := ReadVarint(rest)
			if err != nil {
				return nil, nil, err
			}
			_, wireType, err := ParseTag(Tag(tagRaw))
			if err != nil {
				return nil, nil, err
			}
			if !wireTypeMatches(t.Element, wireType) {
				return nil, nil, fmt.Errorf("Unexpected end of bytes")
			}
			next2, v, err := fieldDecoder(t.Element, cfg)(next)
			if err != nil {
				return nil, nil, err
			}
			elems = append(elems, v)
			rest = next2
		}
		val, err := t.FromChunk(elems)
		if err != nil {
			return nil, nil, err
		}
		return nil, val, nil
	}
}

func decodeEitherBody(t *schema.Either, cfg *Config) Decoder {
	return func(buf []byte) ([]byte, any, error) {
		rest := buf
		var result any
		found := false
		for len(rest) > 0 {
			next, tagRaw, err := ReadVarint(rest)
			if err != nil {
				return nil, nil, err
			}
			fieldNumber, wireType, err := ParseTag(Tag(tagRaw))
			if err != nil {
				return nil, nil, err
			}
			switch fieldNumber {
			case 1:
				if !wireTypeMatches(t.Left, wireType) {
					return nil, nil, fmt.Errorf("Failed to decode either.")
				}
				n2, v, err := fieldDecoder(t.Left, cfg)(next)
				if err != nil {
					return nil, nil, err
				}
				result = schema.EitherValue{IsRight: false, Value: v}
				found = true
				rest = n2
			case 2:
				if !wireTypeMatches(t.Right, wireType) {
					return nil, nil, fmt.Errorf("Failed to decode either.")
				}
				n2, v, err := fieldDecoder(t.Right, cfg)(next)
				if err != nil {
					return nil, nil, err
				}
				result = schema.EitherValue{IsRight: true, Value: v}
				found = true
				rest = n2
			default:
				n2, err := skipValue(next, wireType)
				if err != nil {
					return nil, nil, err
				}
				rest = n2
			}
		}
		if !found {
			return nil, nil, fmt.Errorf("Failed to decode either.")
		}
		return nil, result, nil
	}
}

func decodeEnumerationBody(t *schema.Enumeration, cfg *Config) Decoder {
	return func(buf []byte) ([]byte, any, error) {
		rest := buf
		var result any
		found := false
		for len(rest) > 0 {
			next, tagRaw, err := ReadVarint(rest)
			if err != nil {
				return nil, nil, err
			}
			fieldNumber, wireType, err := ParseTag(Tag(tagRaw))
			if err != nil {
				return nil, nil, err
			}
			idx := int(fieldNumber) - 1
			if idx < 0 || idx >= len(t.Structure) {
				return nil, nil, fmt.Errorf("Schema doesn't contain field number %d.", fieldNumber)
			}
			caseEntry := t.Structure[idx]
			if !wireTypeMatches(caseEntry.Schema, wireType) {
				return nil, nil, fmt.Errorf("Schema doesn't contain field number %d.", fieldNumber)
			}
			n2, v, err := fieldDecoder(caseEntry.Schema, cfg)(next)
			if err != nil {
				return nil, nil, err
			}
			result = schema.EnumValue{CaseName: caseEntry.Name, Value: v}
			found = true
			rest = n2
		}
		if !found {
			return nil, nil, fmt.Errorf("Enumeration has no present case.")
		}
		return nil, result, nil
	}
}

func decodeSumBody(t *schema.Sum, cfg *Config) Decoder {
	return func(buf []byte) ([]byte, any, error) {
		rest := buf
		var result any
		found := false
		for len(rest) > 0 {
			next, tagRaw, err := ReadVarint(rest)
			if err != nil {
				return nil, nil, err
			}
			fieldNumber, wireType, err := ParseTag(Tag(tagRaw))
			if err != nil {
				return nil, nil, err
			}
			idx := int(fieldNumber) - 1
			if idx < 0 || idx >= len(t.Cases) {
				return nil, nil, fmt.Errorf("Schema doesn't contain field number %d.", fieldNumber)
			}
			c := t.Cases[idx]
			if !wireTypeMatches(c.Schema, wireType) {
				return nil, nil, fmt.Errorf("Schema doesn't contain field number %d.", fieldNumber)
			}
			n2, v, err := fieldDecoder(c.Schema, cfg)(next)
			if err != nil {
				return nil, nil, err
			}
			result = c.Construct(v)
			found = true
			rest = n2
		}
		if !found {
			return nil, nil, fmt.Errorf("Enumeration has no present case.")
		}
		return nil, result, nil
	}
}
