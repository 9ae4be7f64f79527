// Package list implements the runtime's dynamic list: an append-only,
// randomly indexable sequence backed by one contiguous buffer.
//
// A List is owned by a single goroutine. Callers that share a list must
// serialize access themselves (the kernel package does this with a mutex).
package list

import (
	"fmt"
	"math"

	"able/kernel-go/pkg/runtime"
)

// Growth selects how the backing buffer is resized on append.
type Growth int

const (
	// GrowDoubling doubles capacity when the buffer is full (amortized O(1)).
	GrowDoubling Growth = iota
	// GrowExact reallocates the buffer to exactly the new length on every
	// append, matching the original C runtime's realloc-per-append cost.
	GrowExact
)

func (g Growth) String() string {
	switch g {
	case GrowDoubling:
		return "doubling"
	case GrowExact:
		return "exact"
	default:
		return fmt.Sprintf("growth(%d)", int(g))
	}
}

// ParseGrowth maps a configuration name onto a Growth.
func ParseGrowth(name string) (Growth, error) {
	switch name {
	case "", "doubling":
		return GrowDoubling, nil
	case "exact":
		return GrowExact, nil
	default:
		return 0, fmt.Errorf("unknown list growth policy %q", name)
	}
}

// Observer receives growth events. Implementations must be cheap; they run
// inside Append.
type Observer interface {
	ObserveAppend()
	ObserveGrow(oldCap, newCap int)
}

// List is a dynamic list of T. The zero value is an empty list using
// GrowDoubling and no length limit.
type List[T any] struct {
	items    []T
	growth   Growth
	maxLen   int
	observer Observer
}

type Option func(*options)

type options struct {
	growth   Growth
	maxLen   int
	observer Observer
}

// WithGrowth sets the growth policy.
func WithGrowth(g Growth) Option {
	return func(o *options) { o.growth = g }
}

// WithMaxLen caps the list length; appends past the cap fail with an
// AllocationError. Zero or negative means no cap.
func WithMaxLen(n int) Option {
	return func(o *options) { o.maxLen = n }
}

func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// New returns an empty list with no backing buffer.
func New[T any](opts ...Option) *List[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &List[T]{growth: o.growth, maxLen: o.maxLen, observer: o.observer}
}

func (l *List[T]) Len() int { return len(l.items) }

func (l *List[T]) Cap() int { return cap(l.items) }

func (l *List[T]) Growth() Growth { return l.growth }

func (l *List[T]) limit() int {
	if l.maxLen > 0 {
		return l.maxLen
	}
	return math.MaxInt
}

// At returns the item stored at index. Indices outside [0, Len()) yield a
// *runtime.IndexError.
func (l *List[T]) At(index int) (T, error) {
	if index < 0 || index > len(l.items)-1 {
		var zero T
		return zero, runtime.NewIndexError("list", index, len(l.items))
	}
	return l.items[index], nil
}

// Append grows the list by one slot and stores item in it. Raw views of the
// old buffer are invalidated when the buffer moves.
func (l *List[T]) Append(item T) error {
	length := len(l.items)
	if length >= l.limit() {
		return &runtime.AllocationError{Container: "list", Requested: length + 1, Limit: l.limit()}
	}
	if length == cap(l.items) {
		l.grow(length + 1)
	}
	l.items = l.items[:length+1]
	l.items[length] = item
	if l.observer != nil {
		l.observer.ObserveAppend()
	}
	return nil
}

func (l *List[T]) grow(minimum int) {
	oldCap := cap(l.items)
	newCap := minimum
	if l.growth == GrowDoubling {
		newCap = oldCap * 2
		if newCap < minimum {
			newCap = minimum
		}
		if lim := l.limit(); newCap > lim || newCap < 0 {
			newCap = lim
		}
	}
	next := make([]T, len(l.items), newCap)
	copy(next, l.items)
	l.items = next
	if l.observer != nil {
		l.observer.ObserveGrow(oldCap, newCap)
	}
}

// Items returns a copy of the occupied range.
func (l *List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}
