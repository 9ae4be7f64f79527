package runtime

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrAllocation      = errors.New("allocation failed")
	ErrUnknownHandle   = errors.New("unknown handle")
)

// IndexError reports an indexed read outside the occupied range [0, Length).
type IndexError struct {
	Container string
	Index     int
	Length    int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of bounds for length %d", e.Container, e.Index, e.Length)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// NewIndexError builds an IndexError for the named container.
func NewIndexError(container string, index, length int) *IndexError {
	return &IndexError{Container: container, Index: index, Length: length}
}

// AllocationError reports a growth request the runtime refused to satisfy.
type AllocationError struct {
	Container string
	Requested int
	Limit     int
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("%s allocation of %d elements exceeds limit %d", e.Container, e.Requested, e.Limit)
}

func (e *AllocationError) Is(target error) bool {
	return target == ErrAllocation
}

// HandleError reports a kernel handle that does not name a live container.
type HandleError struct {
	Kind   Kind
	Handle int64
}

func (e *HandleError) Error() string {
	return fmt.Sprintf("%s handle %d is not defined", e.Kind, e.Handle)
}

func (e *HandleError) Is(target error) bool {
	return target == ErrUnknownHandle
}
