package wire

import (
	"fmt"

	"github.com/anirudhraja/schemapb/schema"
)

// fieldPlan is the result of resolving one declared field of a
// GenericRecord, Record, Tuple or Optional to the wire field number(s) it
// actually occupies, per the field-number flattening rule. In
// the common case a declared field occupies exactly one field number
// and Numbers has length 1; a field whose schema is a Transform over
// a schema that would itself expand into multiple fields (a
// GenericRecord or Record, per asMultiField below) is inlined: its
// wire numbers are its inner fields' numbers, continuing the running
// offset instead of restarting at 1.
type fieldPlan struct {
	name   string
	schema schema.Schema // the declared field's own schema, for error messages only
	// numbers lists, in order, every wire field number this declared
	// field consumes.
	numbers []int
	// schemaFor maps a wire field number (one of numbers) to the
	// schema that should encode/decode the value living at that
	// number.
	schemaFor map[int]schema.Schema
	// encode converts this declared field's own value into a
	// number->value map ready to be encoded with schemaFor.
	encode func(declaredValue any) (map[int]any, error)
	// assemble converts a number->decoded-value map (restricted to
	// this field's own numbers) back into this declared field's own
	// value.
	assemble func(decoded map[int]any) (any, error)
}

// planFields resolves an ordered declared-field list to their wire
// field numbers, starting the running offset at baseOffset: field i
// gets i+baseOffset at the top of a record, i.e. baseOffset=1.
func planFields(entries []nameSchema, baseOffset int) []fieldPlan {
	plans := make([]fieldPlan, 0, len(entries))
	offset := baseOffset
	for _, e := range entries {
		plan := planOneField(e.Name, e.Schema, &offset)
		plans = append(plans, plan)
	}
	return plans
}

func planOneField(name string, s schema.Schema, offset *int) fieldPlan {
	if t, ok := s.(*schema.Transform); ok {
		if adapter, ok := asMultiField(t.Inner); ok {
			children := make([]fieldPlan, len(adapter.entries))
			for i, ie := range adapter.entries {
				children[i] = planOneField(ie.Name, ie.Schema, offset)
			}
			numbers := make([]int, 0)
			schemaFor := make(map[int]schema.Schema)
			for _, c := range children {
				numbers = append(numbers, c.numbers...)
				for n, cs := range c.schemaFor {
					schemaFor[n] = cs
				}
			}
			encode := func(declaredValue any) (map[int]any, error) {
				innerValue, err := t.G(declaredValue)
				if err != nil {
					return nil, err
				}
				values, err := adapter.valuesFor(innerValue)
				if err != nil {
					return nil, err
				}
				result := make(map[int]any)
				for i, c := range children {
					m, err := c.encode(values[i])
					if err != nil {
						return nil, err
					}
					for n, v := range m {
						result[n] = v
					}
				}
				return result, nil
			}
			assemble := func(decoded map[int]any) (any, error) {
				values := make([]any, len(children))
				for i, c := range children {
					v, err := c.assemble(decoded)
					if err != nil {
						return nil, err
					}
					values[i] = v
				}
				innerValue, err := adapter.build(values)
				if err != nil {
					return nil, err
				}
				return t.F(innerValue)
			}
			return fieldPlan{
				name:      name,
				schema:    s,
				numbers:   numbers,
				schemaFor: schemaFor,
				encode:    encode,
				assemble:  assemble,
			}
		}
	}

	number := *offset
	*offset++
	return fieldPlan{
		name:      name,
		schema:    s,
		numbers:   []int{number},
		schemaFor: map[int]schema.Schema{number: s},
		encode: func(declaredValue any) (map[int]any, error) {
			return map[int]any{number: declaredValue}, nil
		},
		assemble: func(decoded map[int]any) (any, error) {
			return decoded[number], nil
		},
	}
}

// nameSchema is the minimal (name, schema) pair derived from
// GenericRecord.Structure and Record.Fields (and the fixed entries of
// Tuple and Optional), used as planFields' uniform input.
type nameSchema struct {
	Name   string
	Schema schema.Schema
}

// multiFieldAdapter lets planOneField treat a GenericRecord or Record
// as an ordered list of (name, schema) entries with generic
// value-in/value-out accessors, so the flattening algorithm above
// doesn't need to know which of the two concrete schema kinds it's
// looking at. Enumeration is deliberately not a valid flatten *target*
// here since a sum's cases are mutually exclusive on the wire and
// don't compose with "consume the next N field numbers" the way
// product fields do — see DESIGN.md. Nor is it a flatten source:
// Enumeration and Sum cases never go through planFields, each case
// occupies exactly its own position number, and a Transform case is
// encoded as one nested length-delimited field.
type multiFieldAdapter struct {
	entries   []nameSchema
	valuesFor func(value any) ([]any, error)
	build     func(values []any) (any, error)
}

func asMultiField(s schema.Schema) (*multiFieldAdapter, bool) {
	switch t := s.(type) {
	case *schema.GenericRecord:
		entries := make([]nameSchema, len(t.Structure))
		for i, e := range t.Structure {
			entries[i] = nameSchema{Name: e.Name, Schema: e.Schema}
		}
		return &multiFieldAdapter{
			entries: entries,
			valuesFor: func(value any) ([]any, error) {
				m, ok := value.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("expected map[string]any for GenericRecord value, got %T", value)
				}
				vals := make([]any, len(t.Structure))
				for i, e := range t.Structure {
					vals[i] = m[e.Name]
				}
				return vals, nil
			},
			build: func(values []any) (any, error) {
				m := make(map[string]any, len(values))
				for i, e := range t.Structure {
					m[e.Name] = values[i]
				}
				return m, nil
			},
		}, true
	case *schema.Record:
		entries := make([]nameSchema, len(t.Fields))
		for i, f := range t.Fields {
			entries[i] = nameSchema{Name: f.Name, Schema: f.Schema}
		}
		return &multiFieldAdapter{
			entries: entries,
			valuesFor: func(value any) ([]any, error) {
				vals := make([]any, len(t.Fields))
				for i, f := range t.Fields {
					v, err := f.Extract(value)
					if err != nil {
						return nil, err
					}
					vals[i] = v
				}
				return vals, nil
			},
			build: func(values []any) (any, error) {
				return t.Construct(values)
			},
		}, true
	default:
		return nil, false
	}
}
