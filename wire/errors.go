package wire

import (
	"fmt"
	"strings"
)

// FieldError wraps an error with the dotted field path that led to it,
// for the opt-in strict encoder. The decoder also wraps an error from
// assembling a flattened field with it.
type FieldError struct {
	FieldPath []string
	Err       error
}

func (e *FieldError) Error() string {
	if len(e.FieldPath) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("encoding error at field path '%s': %v", strings.Join(e.FieldPath, "."), e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// wrapFieldError prepends fieldName to err's field path, creating a
// FieldError if err isn't already one.
func wrapFieldError(err error, fieldName string) error {
	if err == nil {
		return nil
	}
	if fe, ok := err.(*FieldError); ok {
		path := make([]string, 0, len(fe.FieldPath)+1)
		path = append(path, fieldName)
		path = append(path, fe.FieldPath...)
		return &FieldError{FieldPath: path, Err: fe.Err}
	}
	return &FieldError{FieldPath: []string{fieldName}, Err: err}
}
