// Package wire implements the Protobuf-compatible wire format: varint,
// fixed32/64, and tag primitives (this file, varint.go, fixed.go), a
// decoder combinator (decoder.go), and the schema-driven
// encoder/decoder dispatchers (dispatch_encode.go, dispatch_decode.go,
// standardtypes.go) that do the actual work.
package wire

import "fmt"

// WireType is one of the six Protobuf wire-type codes. StartGroup/
// EndGroup are kept as named constants (a key can still name them)
// even though this module rejects them outright on decode and never
// emits them on encode.
type WireType int32

const (
	WireVarint          WireType = 0
	WireBit64           WireType = 1
	WireLengthDelimited WireType = 2
	WireStartGroup      WireType = 3
	WireEndGroup        WireType = 4
	WireBit32           WireType = 5
)

// FieldNumber is a positive integer identifying a field within a
// record's wire encoding.
type FieldNumber int32

// Tag combines a field number and wire-type code.
type Tag uint64

// MakeTag builds the tag for (fieldNumber, wireType).
func MakeTag(fieldNumber FieldNumber, wireType WireType) Tag {
	return Tag(uint64(fieldNumber)<<3 | uint64(wireType))
}

// ParseTag splits a decoded tag varint into its field number and wire
// type: field number must be >= 1, and the wire-type code must be one
// of {0..5}. Group wire types (3, 4) are syntactically in range but
// are rejected explicitly — this module never has a consumer for
// them, so accepting them at this layer only postpones a cryptic
// failure to wherever decoding gets stuck.
func ParseTag(tag Tag) (FieldNumber, WireType, error) {
	fieldNumber := FieldNumber(tag >> 3)
	wireType := WireType(tag & 0x7)

	if fieldNumber < 1 {
		return 0, 0, fmt.Errorf("Failed decoding key: invalid field number")
	}
	switch wireType {
	case WireStartGroup, WireEndGroup:
		return 0, 0, fmt.Errorf("group wire types are not supported")
	case WireVarint, WireBit64, WireLengthDelimited, WireBit32:
		return fieldNumber, wireType, nil
	default:
		return 0, 0, fmt.Errorf("Failed decoding key: unknown wire type")
	}
}
