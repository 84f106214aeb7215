package wire

// Encoder is a growable byte builder, preferred over repeated small
// byte-slice concatenations.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty Encoder with a small initial capacity.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 64)}
}

// Bytes returns the accumulated bytes.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Reset clears the encoder's buffer for reuse.
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// Varint appends v's varint encoding.
func (e *Encoder) Varint(v uint64) {
	e.buf = AppendVarint(e.buf, v)
}

// Fixed32 appends v as 4 little-endian bytes.
func (e *Encoder) Fixed32(v uint32) {
	e.buf = AppendFixed32(e.buf, v)
}

// Fixed64 appends v as 8 little-endian bytes.
func (e *Encoder) Fixed64(v uint64) {
	e.buf = AppendFixed64(e.buf, v)
}

// LengthDelimited appends data as a length-delimited chunk: varint(len(data))
// followed by data itself.
func (e *Encoder) LengthDelimited(data []byte) {
	e.buf = AppendVarint(e.buf, uint64(len(data)))
	e.buf = append(e.buf, data...)
}

// Raw appends data verbatim, with no length prefix.
func (e *Encoder) Raw(data []byte) {
	e.buf = append(e.buf, data...)
}

// Tag appends the tag for (fieldNumber, wireType). Top-level values
// and packed sequence elements are emitted with fieldNumber == 0,
// meaning "no tag" — callers must check for that case themselves
// before calling Tag, since 0 is not a valid on-wire field number.
func (e *Encoder) Tag(fieldNumber FieldNumber, wireType WireType) {
	e.Varint(uint64(MakeTag(fieldNumber, wireType)))
}
