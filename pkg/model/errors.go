package model

import (
	"errors"
	"fmt"
)

// Defining possible error
var (
	MalformedRecord      = errors.New("malformed record")
	InvalidProteinLength = errors.New("invalid protein length")
	InvalidThreshold     = errors.New("threshold out of range")
	EmptyFamily          = errors.New("no system qualifies")
)

// RecordError ties a parse failure to the line it came from. It unwraps to
// MalformedRecord so callers can match the whole class with errors.Is.
type RecordError struct {
	File string
	Line int
	Msg  string // additional context for the error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

func (e *RecordError) Unwrap() error {
	return MalformedRecord
}
