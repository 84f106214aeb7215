package wire

import "fmt"

// Decoder is a pure function from a byte slice to either an error or a
// (leftover, value) pair. It threads the byte cursor functionally: the
// leftover slice returned by each step is the next step's input, so Take
// below can hand a bounded sub-slice to an inner Decoder and splice the
// outer cursor back together afterwards without either side needing to
// know about the other's position.
type Decoder func(buf []byte) (rest []byte, value any, err error)

// Succeed returns a Decoder that always succeeds with v without
// consuming any input.
func Succeed(v any) Decoder {
	return func(buf []byte) ([]byte, any, error) {
		return buf, v, nil
	}
}

// FailDecoder returns a Decoder that always fails with msg.
func FailDecoder(msg string) Decoder {
	return func(buf []byte) ([]byte, any, error) {
		return nil, nil, fmt.Errorf("%s", msg)
	}
}

// Map transforms a successful result with f, leaving failures and the
// leftover bytes untouched.
func (d Decoder) Map(f func(any) any) Decoder {
	return func(buf []byte) ([]byte, any, error) {
		rest, v, err := d(buf)
		if err != nil {
			return nil, nil, err
		}
		return rest, f(v), nil
	}
}

// FlatMap sequences d with a continuation built from d's result. It
// additionally fails with "Unexpected end of bytes" if the buffer
// handed to it is already empty.
func (d Decoder) FlatMap(f func(any) Decoder) Decoder {
	return func(buf []byte) ([]byte, any, error) {
		if len(buf) == 0 {
			return nil, nil, fmt.Errorf("Unexpected end of bytes")
		}
		rest, v, err := d(buf)
		if err != nil {
			return nil, nil, err
		}
		return f(v)(rest)
	}
}

// Take runs self on the first n bytes of the incoming buffer and
// appends the untouched suffix back onto whatever leftover self
// produces from the prefix. This is how a bounded sub-parser for a
// length-delimited frame recovers the outer cursor once it's done:
// self may consume less than n bytes (the prefix's own leftover), and
// those unconsumed prefix bytes plus everything after the frame come
// back out together.
func (d Decoder) Take(n int) Decoder {
	return func(buf []byte) ([]byte, any, error) {
		if n > len(buf) {
			return nil, nil, fmt.Errorf("Unexpected end of bytes")
		}
		prefix, suffix := buf[:n], buf[n:]
		leftover, v, err := d(prefix)
		if err != nil {
			return nil, nil, err
		}
		return append(append([]byte{}, leftover...), suffix...), v, nil
	}
}

// Loop runs self repeatedly, accumulating results into a []any, until
// the buffer is fully consumed.
func (d Decoder) Loop() Decoder {
	return func(buf []byte) ([]byte, any, error) {
		var results []any
		rest := buf
		for len(rest) > 0 {
			next, v, err := d(rest)
			if err != nil {
				return nil, nil, err
			}
			if len(next) == len(rest) {
				// self made no progress; refuse to spin forever.
				return nil, nil, fmt.Errorf("Unexpected end of bytes")
			}
			results = append(results, v)
			rest = next
		}
		return rest, results, nil
	}
}

// BinaryDecoder consumes the entire remaining buffer verbatim. Only
// meaningful inside a Take(n) envelope.
func BinaryDecoder() Decoder {
	return func(buf []byte) ([]byte, any, error) {
		data := append([]byte{}, buf...)
		return nil, data, nil
	}
}

// StringDecoder consumes the entire remaining buffer as UTF-8. Only
// meaningful inside a Take(n) envelope.
func StringDecoder() Decoder {
	return func(buf []byte) ([]byte, any, error) {
		return nil, string(buf), nil
	}
}

// Run executes the decoder against data, rejecting an empty buffer
// outright rather than letting a downstream step fail on it.
func (d Decoder) Run(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("No bytes to decode")
	}
	_, v, err := d(data)
	if err != nil {
		return nil, err
	}
	return v, nil
}
