package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// AppendFixed32 appends v as 4 little-endian bytes.
func AppendFixed32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

// AppendFixed64 appends v as 8 little-endian bytes.
func AppendFixed64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// AppendFloat appends v as Bit32, little-endian IEEE-754.
func AppendFloat(buf []byte, v float32) []byte {
	return AppendFixed32(buf, math.Float32bits(v))
}

// AppendDouble appends v as Bit64, little-endian IEEE-754.
func AppendDouble(buf []byte, v float64) []byte {
	return AppendFixed64(buf, math.Float64bits(v))
}

// ReadFixed32 reads 4 little-endian bytes from the front of buf.
func ReadFixed32(buf []byte) (rest []byte, value uint32, err error) {
	if len(buf) < 4 {
		return nil, 0, fmt.Errorf("Unexpected end of chunk")
	}
	return buf[4:], binary.LittleEndian.Uint32(buf[:4]), nil
}

// ReadFixed64 reads 8 little-endian bytes from the front of buf.
func ReadFixed64(buf []byte) (rest []byte, value uint64, err error) {
	if len(buf) < 8 {
		return nil, 0, fmt.Errorf("Unexpected end of chunk")
	}
	return buf[8:], binary.LittleEndian.Uint64(buf[:8]), nil
}

// ReadFloat reads a Bit32 payload and reinterprets it as float32. A
// short payload fails with "Unable to decode Float" rather than the
// generic chunk-truncation message.
func ReadFloat(buf []byte) (rest []byte, value float32, err error) {
	rest, bits, err := ReadFixed32(buf)
	if err != nil {
		return nil, 0, fmt.Errorf("Unable to decode Float")
	}
	return rest, math.Float32frombits(bits), nil
}

// ReadDouble reads a Bit64 payload and reinterprets it as float64,
// failing with "Unable to decode Double" on a short payload.
func ReadDouble(buf []byte) (rest []byte, value float64, err error) {
	rest, bits, err := ReadFixed64(buf)
	if err != nil {
		return nil, 0, fmt.Errorf("Unable to decode Double")
	}
	return rest, math.Float64frombits(bits), nil
}
