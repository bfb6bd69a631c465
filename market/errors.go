package market

import (
	"errors"
	"fmt"
)

var (
	// ErrParse matches any *ParseError.
	ErrParse = errors.New("parse error")

	// ErrMissingColumn matches any *MissingColumnError.
	ErrMissingColumn = errors.New("missing column")
)

// ParseError reports a field that could not be parsed. Line is 1-based and
// counts the header row.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: bad %s %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// MissingColumnError reports a required column absent from the header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }
