package brc

import (
	"errors"
	"fmt"
)

var (
	ErrIO              = errors.New("i/o error")
	ErrMalformedNumber = errors.New("malformed temperature")
	ErrInvalidKey      = errors.New("station name is not valid UTF-8")
)

// RecordError locates a record rejected under the abort policy.
type RecordError struct {
	Kind   error
	Offset int64 // of the first byte of the record in the input
	Record []byte
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%v at offset %d: %q", e.Kind, e.Offset, e.Record)
}

func (e *RecordError) Unwrap() error {
	return e.Kind
}

func ioError(op, filename string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrIO, op, filename, err)
}
