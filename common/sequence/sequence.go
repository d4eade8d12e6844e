package sequence

import (
	"github.com/pkg/errors"
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Sequence is an append-only ordered list with positional access.
type Sequence[T any] struct {
	elements []T
}

// New creates a new Sequence with the specified initial capacity and returns a pointer to it.
func New[T any](initialCapacity int) *Sequence[T] {
	if initialCapacity < 0 {
		initialCapacity = 0
	}

	return &Sequence[T]{
		elements: make([]T, 0, initialCapacity),
	}
}

// Append adds an element to the end of the sequence.
func (s *Sequence[T]) Append(element T) {
	s.elements = append(s.elements, element)
}

// Get returns the element at the given position. It returns an error if the position is out of range.
func (s *Sequence[T]) Get(index int) (T, error) {
	if index < 0 || index >= len(s.elements) {
		var zero T
		return zero, errors.Wrapf(ErrIndexOutOfRange, "%d (length %d)", index, len(s.elements))
	}

	return s.elements[index], nil
}

// Range calls f for each element in order until f returns false.
func (s *Sequence[T]) Range(f func(index int, element T) bool) {
	for i, element := range s.elements {
		if !f(i, element) {
			return
		}
	}
}

// Slice returns a copy of the elements in order.
func (s *Sequence[T]) Slice() []T {
	out := make([]T, len(s.elements))
	copy(out, s.elements)
	return out
}

// IsEmpty checks if the sequence is empty
func (s *Sequence[T]) IsEmpty() bool {
	return len(s.elements) == 0
}

// Len returns the number of elements in the sequence.
func (s *Sequence[T]) Len() int {
	return len(s.elements)
}
