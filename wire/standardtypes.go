package wire

import (
	"fmt"
	"time"

	"github.com/anirudhraja/schemapb/schema"
)

// MonthDay, YearMonth, Period and Duration are the record-shaped
// standard-type values: each decomposes a calendar value into a small
// set of densely-numbered int fields, the same technique used to
// bridge well-known Timestamp/Duration-style messages.
type MonthDay struct{ Month, Day int32 }
type YearMonth struct{ Year, Month int32 }
type Period struct{ Years, Months, Days int32 }
type Duration struct {
	Seconds int64
	Nanos   int32
}

// wireTypeForStandardType returns the wire type used for t's simple
// (non-record-shaped) encoding. Record-shaped types (MonthDay,
// YearMonth, Period, Duration) and string-formatted calendar types are
// handled by their own encode/decode paths below and are not dispatched
// through this table directly for their payload, but still report
// LengthDelimited here since that's what their outer field tag uses.
func wireTypeForStandardType(t schema.StandardType) WireType {
	switch t {
	case schema.Bool, schema.Short, schema.Int, schema.Long,
		schema.DayOfWeek, schema.Month, schema.Year, schema.ZoneOffset:
		return WireVarint
	case schema.Float:
		return WireBit32
	case schema.Double:
		return WireBit64
	default:
		return WireLengthDelimited
	}
}

// encodeStandardType returns the wire payload for a Primitive(t)
// value, not including its tag (the caller wraps with encodeSchemaField's
// usual tag/length logic based on wireTypeForStandardType).
func encodeStandardType(t schema.StandardType, formatter *schema.TimeFormatter, value any) ([]byte, error) {
	switch t {
	case schema.Unit:
		return nil, nil
	case schema.Bool:
		v, _ := value.(bool)
		if v {
			return AppendVarint(nil, 1), nil
		}
		return AppendVarint(nil, 0), nil
	case schema.Short, schema.Int, schema.Long:
		return AppendVarint(nil, uint64(toInt64(value))), nil
	case schema.Float:
		return AppendFloat(nil, toFloat32(value)), nil
	case schema.Double:
		return AppendDouble(nil, toFloat64(value)), nil
	case schema.StringType:
		s, _ := value.(string)
		return []byte(s), nil
	case schema.Char:
		r, _ := value.(rune)
		return []byte(string(r)), nil
	case schema.Binary:
		b, _ := value.([]byte)
		return b, nil
	case schema.DayOfWeek, schema.Month, schema.Year, schema.ZoneOffset:
		return AppendVarint(nil, uint64(toInt64(value))), nil
	case schema.ZoneID:
		s, _ := value.(string)
		return []byte(s), nil
	case schema.MonthDay:
		md, _ := value.(MonthDay)
		return encodeRecordInts([]int32{md.Month, md.Day}), nil
	case schema.YearMonth:
		ym, _ := value.(YearMonth)
		return encodeRecordInts([]int32{ym.Year, ym.Month}), nil
	case schema.Period:
		p, _ := value.(Period)
		return encodeRecordInts([]int32{p.Years, p.Months, p.Days}), nil
	case schema.Duration:
		d, _ := value.(Duration)
		return encodeDurationRecord(d), nil
	case schema.Instant, schema.LocalDate, schema.LocalTime, schema.LocalDateTime,
		schema.OffsetTime, schema.OffsetDateTime, schema.ZonedDateTime:
		t, ok := value.(time.Time)
		if !ok {
			return nil, fmt.Errorf("expected a time.Time value for temporal standard type")
		}
		return []byte(formatter.Format(t)), nil
	default:
		return nil, fmt.Errorf("unknown standard type %q", t)
	}
}

// encodeRecordInts encodes a fixed, densely-numbered (1..N) set of int
// fields, omitting zero-valued fields the way proto3 omits default
// scalars; the decode side defaults any field that never appears back
// to 0, so this is safe to leave unwritten.
func encodeRecordInts(values []int32) []byte {
	enc := NewEncoder()
	for i, v := range values {
		if v == 0 {
			continue
		}
		enc.Tag(FieldNumber(i+1), WireVarint)
		enc.Varint(uint64(v))
	}
	return enc.Bytes()
}

func encodeDurationRecord(d Duration) []byte {
	enc := NewEncoder()
	if d.Seconds != 0 {
		enc.Tag(1, WireVarint)
		enc.Varint(uint64(d.Seconds))
	}
	if d.Nanos != 0 {
		enc.Tag(2, WireVarint)
		enc.Varint(uint64(d.Nanos))
	}
	return enc.Bytes()
}

// decodeStandardType returns a Decoder producing the Go value for
// Primitive(t), to be run inside whatever envelope
// dispatch_decode.go's key-reading loop has already set up (a Take(n)
// for length-delimited types).
func decodeStandardType(t schema.StandardType, formatter *schema.TimeFormatter) Decoder {
	switch t {
	case schema.Unit:
		return Succeed(struct{}{})
	case schema.Bool:
		return func(buf []byte) ([]byte, any, error) {
			rest, v, err := ReadVarint(buf)
			if err != nil {
				return nil, nil, err
			}
			return rest, v != 0, nil
		}
	case schema.Short, schema.Int, schema.Long:
		return func(buf []byte) ([]byte, any, error) {
			rest, v, err := ReadVarint(buf)
			if err != nil {
				return nil, nil, err
			}
			return rest, int64(v), nil
		}
	case schema.Float:
		return func(buf []byte) ([]byte, any, error) {
			rest, v, err := ReadFloat(buf)
			if err != nil {
				return nil, nil, err
			}
			return rest, v, nil
		}
	case schema.Double:
		return func(buf []byte) ([]byte, any, error) {
			rest, v, err := ReadDouble(buf)
			if err != nil {
				return nil, nil, err
			}
			return rest, v, nil
		}
	case schema.StringType, schema.ZoneID:
		return StringDecoder()
	case schema.Char:
		return func(buf []byte) ([]byte, any, error) {
			s := string(buf)
			runes := []rune(s)
			if len(runes) == 0 {
				return nil, nil, fmt.Errorf("Unexpected end of bytes")
			}
			return nil, runes[0], nil
		}
	case schema.Binary:
		return BinaryDecoder()
	case schema.DayOfWeek, schema.Month, schema.Year, schema.ZoneOffset:
		return func(buf []byte) ([]byte, any, error) {
			rest, v, err := ReadVarint(buf)
			if err != nil {
				return nil, nil, err
			}
			return rest, int64(v), nil
		}
	case schema.MonthDay:
		return decodeRecordInts(2).Map(func(v any) any {
			ints := v.([]int32)
			return MonthDay{Month: ints[0], Day: ints[1]}
		})
	case schema.YearMonth:
		return decodeRecordInts(2).Map(func(v any) any {
			ints := v.([]int32)
			return YearMonth{Year: ints[0], Month: ints[1]}
		})
	case schema.Period:
		return decodeRecordInts(3).Map(func(v any) any {
			ints := v.([]int32)
			return Period{Years: ints[0], Months: ints[1], Days: ints[2]}
		})
	case schema.Duration:
		return decodeDurationRecord()
	case schema.Instant, schema.LocalDate, schema.LocalTime, schema.LocalDateTime,
		schema.OffsetTime, schema.OffsetDateTime, schema.ZonedDateTime:
		return StringDecoder().FlatMap(func(v any) Decoder {
			s := v.(string)
			parsed, err := formatter.Parse(s)
			if err != nil {
				return FailDecoder(err.Error())
			}
			return Succeed(parsed)
		})
	default:
		return FailDecoder(fmt.Sprintf("unknown standard type %q", t))
	}
}

// decodeRecordInts reads a densely-numbered (1..n) set of optional int
// fields out of the remaining buffer, defaulting any field number that
// never appears to 0.
func decodeRecordInts(n int) Decoder {
	return func(buf []byte) ([]byte, any, error) {
		values := make([]int32, n)
		rest := buf
		for len(rest) > 0 {
			next, tag, err := ReadVarint(rest)
			if err != nil {
				return nil, nil, err
			}
			fieldNumber, wireType, err := ParseTag(Tag(tag))
			if err != nil {
				return nil, nil, err
			}
			if wireType != WireVarint {
				return nil, nil, fmt.Errorf("Unexpected end of bytes")
			}
			next, v, err := ReadVarint(next)
			if err != nil {
				return nil, nil, err
			}
			if int(fieldNumber) >= 1 && int(fieldNumber) <= n {
				values[fieldNumber-1] = int32(v)
			}
			rest = next
		}
		return rest, values, nil
	}
}

func decodeDurationRecord() Decoder {
	return func(buf []byte) ([]byte, any, error) {
		var d Duration
		rest := buf
		for len(rest) > 0 {
			next, tag, err := ReadVarint(rest)
			if err != nil {
				return nil, nil, err
			}
			fieldNumber, wireType, err := ParseTag(Tag(tag))
			if err != nil {
				return nil, nil, err
			}
			if wireType != WireVarint {
				return nil, nil, fmt.Errorf("Unexpected end of bytes")
			}
			next, v, err := ReadVarint(next)
			if err != nil {
				return nil, nil, err
			}
			switch fieldNumber {
			case 1:
				d.Seconds = int64(v)
			case 2:
				d.Nanos = int32(v)
			}
			rest = next
		}
		return rest, d, nil
	}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	default:
		return 0
	}
}

func toFloat32(v any) float32 {
	switch n := v.(type) {
	case float32:
		return n
	case float64:
		return float32(n)
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
