package wire

import (
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anirudhraja/schemapb/schema"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestEncodeSingleIntField(t *testing.T) {
	s := schema.NewGenericRecord(schema.Field("value", schema.NewPrimitive(schema.Int)))
	got := Encode(s, nil)(map[string]any{"value": int64(150)})
	require.Equal(t, mustHex(t, "089601"), got)
}

func TestDecodeSingleIntField(t *testing.T) {
	s := schema.NewGenericRecord(schema.Field("value", schema.NewPrimitive(schema.Int)))
	got, err := Decode(s, nil)(mustHex(t, "089601"))
	require.NoError(t, err)
	require.Equal(t, map[string]any{"value": int64(150)}, got)
}

func TestEncodeNestedRecord(t *testing.T) {
	inner := schema.NewGenericRecord(schema.Field("value", schema.NewPrimitive(schema.Int)))
	outer := schema.NewGenericRecord(schema.Field("embedded", inner))
	got := Encode(outer, nil)(map[string]any{
		"embedded": map[string]any{"value": int64(150)},
	})
	require.Equal(t, mustHex(t, "0A03089601"), got)
}

func TestEncodePackedIntSequence(t *testing.T) {
	s := schema.NewGenericRecord(schema.Field("packed", schema.NewSequence(schema.NewPrimitive(schema.Int), nil, nil)))
	got := Encode(s, nil)(map[string]any{
		"packed": []any{int64(3), int64(270), int64(86942)},
	})
	require.Equal(t, mustHex(t, "0A06038E029EA705"), got)
}

func TestEncodeUnpackedStringSequence(t *testing.T) {
	s := schema.NewGenericRecord(schema.Field("items", schema.NewSequence(schema.NewPrimitive(schema.StringType), nil, nil)))
	got := Encode(s, nil)(map[string]any{
		"items": []any{"foo", "bar", "baz"},
	})
	require.Equal(t, mustHex(t, "0A0F0A03666F6F12036261721A0362617A"), got)
}

func TestEncodeTopLevelNameValueRecord(t *testing.T) {
	s := schema.NewGenericRecord(
		schema.Field("name", schema.NewPrimitive(schema.StringType)),
		schema.Field("value", schema.NewPrimitive(schema.Int)),
	)
	got := Encode(s, nil)(map[string]any{"name": "Foo", "value": int64(123)})
	require.Equal(t, mustHex(t, "0A03466F6F107B"), got)
}

func TestEncodeEnumerationOfOneFieldRecords(t *testing.T) {
	oneOf := schema.NewEnumeration(
		schema.Field("StringValue", schema.NewGenericRecord(schema.Field("value", schema.NewPrimitive(schema.StringType)))),
		schema.Field("IntValue", schema.NewGenericRecord(schema.Field("value", schema.NewPrimitive(schema.Int)))),
		schema.Field("BooleanValue", schema.NewGenericRecord(schema.Field("value", schema.NewPrimitive(schema.Bool)))),
	)
	outer := schema.NewGenericRecord(schema.Field("oneOf", oneOf))
	got := Encode(outer, nil)(map[string]any{
		"oneOf": schema.EnumValue{CaseName: "IntValue", Value: map[string]any{"value": int64(482)}},
	})
	require.Equal(t, mustHex(t, "0A05120308E203"), got)
}

func TestDecodeEnumerationOfOneFieldRecords(t *testing.T) {
	oneOf := schema.NewEnumeration(
		schema.Field("StringValue", schema.NewGenericRecord(schema.Field("value", schema.NewPrimitive(schema.StringType)))),
		schema.Field("IntValue", schema.NewGenericRecord(schema.Field("value", schema.NewPrimitive(schema.Int)))),
		schema.Field("BooleanValue", schema.NewGenericRecord(schema.Field("value", schema.NewPrimitive(schema.Bool)))),
	)
	outer := schema.NewGenericRecord(schema.Field("oneOf", oneOf))
	got, err := Decode(outer, nil)(mustHex(t, "0A05120308E203"))
	require.NoError(t, err)
	want := map[string]any{
		"oneOf": schema.EnumValue{CaseName: "IntValue", Value: map[string]any{"value": int64(482)}},
	}
	require.Equal(t, want, got)
}

func TestOptionalNoneHasNoTag(t *testing.T) {
	s := schema.NewGenericRecord(schema.Field("maybe", schema.NewOptional(schema.NewPrimitive(schema.Int))))
	got := Encode(s, nil)(map[string]any{"maybe": nil})
	require.Empty(t, got)
}

func TestOptionalSomeRoundTrip(t *testing.T) {
	s := schema.NewGenericRecord(schema.Field("maybe", schema.NewOptional(schema.NewPrimitive(schema.Int))))
	encoded := Encode(s, nil)(map[string]any{"maybe": int64(7)})
	got, err := Decode(s, nil)(encoded)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"maybe": int64(7)}, got)
}

func TestEitherRoundTrip(t *testing.T) {
	s := schema.NewEither(schema.NewPrimitive(schema.StringType), schema.NewPrimitive(schema.Int))
	encoded := Encode(s, nil)(schema.EitherValue{IsRight: true, Value: int64(9)})
	got, err := Decode(s, nil)(encoded)
	require.NoError(t, err)
	require.Equal(t, schema.EitherValue{IsRight: true, Value: int64(9)}, got)
}

func TestTupleRoundTrip(t *testing.T) {
	s := schema.NewTuple(schema.NewPrimitive(schema.StringType), schema.NewPrimitive(schema.Bool))
	encoded := Encode(s, nil)(schema.TupleValue{Left: "ok", Right: true})
	got, err := Decode(s, nil)(encoded)
	require.NoError(t, err)
	require.Equal(t, schema.TupleValue{Left: "ok", Right: true}, got)
}

func TestSumRoundTrip(t *testing.T) {
	type shape interface{ isShape() }
	type circle struct{ radius int64 }
	type square struct{ side int64 }

	s := schema.NewSum(
		schema.SumCase{
			Name:   "circle",
			Schema: schema.NewPrimitive(schema.Int),
			Deconstruct: func(parent any) (any, bool) {
				c, ok := parent.(circle)
				if !ok {
					return nil, false
				}
				return c.radius, true
			},
			Construct: func(child any) any { return circle{radius: child.(int64)} },
		},
		schema.SumCase{
			Name:   "square",
			Schema: schema.NewPrimitive(schema.Int),
			Deconstruct: func(parent any) (any, bool) {
				sq, ok := parent.(square)
				if !ok {
					return nil, false
				}
				return sq.side, true
			},
			Construct: func(child any) any { return square{side: child.(int64)} },
		},
	)

	encoded := Encode(s, nil)(square{side: 5})
	got, err := Decode(s, nil)(encoded)
	require.NoError(t, err)
	require.Equal(t, square{side: 5}, got)
}

func TestTransformFlatteningMatchesStaticRecord(t *testing.T) {
	// A Transform over a two-field GenericRecord, used as one declared
	// field of an outer record, must consume two wire field numbers via
	// flattening rather than wrapping itself in its own nested envelope.
	point := schema.NewTransform(
		schema.NewGenericRecord(
			schema.Field("x", schema.NewPrimitive(schema.Int)),
			schema.Field("y", schema.NewPrimitive(schema.Int)),
		),
		func(inner any) (any, error) {
			m := inner.(map[string]any)
			return [2]int64{m["x"].(int64), m["y"].(int64)}, nil
		},
		func(value any) (any, error) {
			p := value.([2]int64)
			return map[string]any{"x": p[0], "y": p[1]}, nil
		},
	)
	outer := schema.NewGenericRecord(
		schema.Field("label", schema.NewPrimitive(schema.StringType)),
		schema.Field("point", point),
	)
	value := map[string]any{"label": "origin", "point": [2]int64{0, 0}}
	encoded := Encode(outer, nil)(value)
	// label at field 1, point.x at field 2, point.y at field 3 — not a
	// nested length-delimited field 2 containing its own 1/2.
	decodedLabelTag, rest, err := peekTag(encoded)
	require.NoError(t, err)
	require.Equal(t, FieldNumber(1), decodedLabelTag)
	_ = rest

	flat := schema.NewGenericRecord(
		schema.Field("label", schema.NewPrimitive(schema.StringType)),
		schema.Field("x", schema.NewPrimitive(schema.Int)),
		schema.Field("y", schema.NewPrimitive(schema.Int)),
	)
	require.Equal(t, Encode(flat, nil)(map[string]any{"label": "origin", "x": int64(0), "y": int64(0)}), encoded)

	got, err := Decode(outer, nil)(encoded)
	require.NoError(t, err)
	require.Equal(t, value, got)
}

func peekTag(buf []byte) (FieldNumber, []byte, error) {
	rest, tagRaw, err := ReadVarint(buf)
	if err != nil {
		return 0, nil, err
	}
	fn, _, err := ParseTag(Tag(tagRaw))
	return fn, rest, err
}

func TestDurationRoundTrip(t *testing.T) {
	s := schema.NewGenericRecord(schema.Field("d", schema.NewPrimitive(schema.Duration)))
	value := map[string]any{"d": Duration{Seconds: 5, Nanos: 250}}
	encoded := Encode(s, nil)(value)
	got, err := Decode(s, nil)(encoded)
	require.NoError(t, err)
	require.Equal(t, value, got)
}

func TestInstantRoundTripsThroughRFC3339(t *testing.T) {
	formatted := schema.NewTemporal(schema.Instant, schema.RFC3339Formatter)
	s := schema.NewGenericRecord(schema.Field("at", formatted))
	want := mustParseRFC3339(t, "2024-01-02T03:04:05Z")
	parsed, err := Decode(s, nil)(Encode(s, nil)(map[string]any{"at": want}))
	require.NoError(t, err)
	m := parsed.(map[string]any)
	require.True(t, m["at"].(time.Time).Equal(want))
}

func mustParseRFC3339(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return tm
}

// TestDuplicateFieldNumberKeepsFirstOccurrence exercises spec.md
// §4.4's record-decode rule: a field number seen twice on the wire
// keeps its first decoded value, the second is decoded (to keep the
// cursor moving) and thrown away.
func TestDuplicateFieldNumberKeepsFirstOccurrence(t *testing.T) {
	s := schema.NewGenericRecord(schema.Field("value", schema.NewPrimitive(schema.Int)))

	enc := NewEncoder()
	enc.Tag(1, WireVarint)
	enc.Varint(1)
	enc.Tag(1, WireVarint)
	enc.Varint(2)

	got, err := Decode(s, nil)(enc.Bytes())
	require.NoError(t, err)
	require.Equal(t, map[string]any{"value": int64(1)}, got)
}

// nineFields stands in for a statically-sized product of arity 9, the
// smallest arity at which the reference source's per-arity generated
// routines mix up field8/field9 (see spec.md §9). schema.Record
// collapses every arity to one generic representation, so there is no
// per-arity code path left to carry that bug into — this test just
// confirms the positions land correctly all the way out to 9 fields.
type nineFields struct {
	F1, F2, F3, F4, F5, F6, F7, F8, F9 int64
}

func nineFieldsRecordSchema() *schema.Record {
	extract := func(i int) func(any) (any, error) {
		return func(parent any) (any, error) {
			n := parent.(nineFields)
			switch i {
			case 0:
				return n.F1, nil
			case 1:
				return n.F2, nil
			case 2:
				return n.F3, nil
			case 3:
				return n.F4, nil
			case 4:
				return n.F5, nil
			case 5:
				return n.F6, nil
			case 6:
				return n.F7, nil
			case 7:
				return n.F8, nil
			default:
				return n.F9, nil
			}
		}
	}
	fields := make([]schema.RecordField, 9)
	for i := 0; i < 9; i++ {
		fields[i] = schema.RecordField{
			Name:    fmt.Sprintf("f%d", i+1),
			Schema:  schema.NewPrimitive(schema.Int),
			Extract: extract(i),
		}
	}
	construct := func(values []any) (any, error) {
		return nineFields{
			F1: values[0].(int64), F2: values[1].(int64), F3: values[2].(int64),
			F4: values[3].(int64), F5: values[4].(int64), F6: values[5].(int64),
			F7: values[6].(int64), F8: values[7].(int64), F9: values[8].(int64),
		}, nil
	}
	return schema.NewRecord(construct, fields...)
}

func TestStaticRecordArityNineKeepsField8AndField9Distinct(t *testing.T) {
	s := nineFieldsRecordSchema()
	value := nineFields{F1: 1, F2: 2, F3: 3, F4: 4, F5: 5, F6: 6, F7: 7, F8: 8, F9: 9}

	encoded := Encode(s, nil)(value)
	got, err := Decode(s, nil)(encoded)
	require.NoError(t, err)
	require.Equal(t, value, got)
}

func TestStaticRecordMissingFieldFails(t *testing.T) {
	s := nineFieldsRecordSchema()
	// Hand-build a payload missing field 9 entirely.
	enc := NewEncoder()
	for i := 1; i <= 8; i++ {
		enc.Tag(FieldNumber(i), WireVarint)
		enc.Varint(uint64(i))
	}
	_, err := Decode(s, nil)(enc.Bytes())
	require.EqualError(t, err, "Missing field number 9.")
}

func TestCaseObjectRoundTrip(t *testing.T) {
	type singleton struct{}
	s := schema.NewGenericRecord(schema.Field("empty", schema.NewCaseObject(singleton{})))

	encoded := Encode(s, nil)(map[string]any{"empty": singleton{}})
	require.Equal(t, mustHex(t, "0A00"), encoded)

	got, err := Decode(s, nil)(encoded)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"empty": singleton{}}, got)
}

func TestFailSchemaEncodesEmptyAndDecodeMessageVerbatim(t *testing.T) {
	s := schema.NewFail("boom")

	require.Empty(t, Encode(s, nil)(nil))

	_, err := Decode(s, nil)(mustHex(t, "01"))
	require.EqualError(t, err, "boom")
}

// TestFailFieldNestedInRecordOmitsTag guards against treating a
// Fail-typed field like CaseObject: spec.md §4.3 groups Fail with
// "unmatched shape" (no tag emitted at all), not with CaseObject
// (which does get a tagged zero-length frame).
func TestFailFieldNestedInRecordOmitsTag(t *testing.T) {
	s := schema.NewGenericRecord(
		schema.Field("broken", schema.NewFail("boom")),
		schema.Field("ok", schema.NewPrimitive(schema.Int)),
	)
	got := Encode(s, nil)(map[string]any{"broken": nil, "ok": int64(5)})
	require.Equal(t, mustHex(t, "1005"), got)
}
