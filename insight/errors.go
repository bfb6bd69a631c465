package insight

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind      = errors.New("unknown insight kind")
	ErrInsufficientData = errors.New("insufficient data")
	ErrYearOutOfRange   = errors.New("year out of range")
)

// InsufficientDataError is returned when a computation needs more records
// than the filtered table holds.
type InsufficientDataError struct {
	Kind Kind
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: need at least %d records, have %d", e.Kind, e.Need, e.Have)
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }
