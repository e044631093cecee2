package sequence

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"go.uber.org/zap"

	"github.com/nclsHart/Immutable/internal/backing"
	"github.com/nclsHart/Immutable/internal/tracelog"
	"github.com/nclsHart/Immutable/types"
)

var (
	// ErrOutOfBounds reports an index outside [0, size).
	ErrOutOfBounds = errors.New("index out of bounds")

	// ErrTypeMismatch reports a binary operation across two sequences whose
	// declared element types differ.
	ErrTypeMismatch = errors.New("declared element types differ")

	// ErrNotFound reports a search that matched no element.
	ErrNotFound = errors.New("no element satisfies the predicate")

	// ErrEmptySequence reports an operation that needs at least one element.
	ErrEmptySequence = errors.New("sequence is empty")
)

// SetLogger installs the zap logger used to trace strategy transitions
// (deferred materializations, relazy re-evaluations, group builds). Passing
// nil restores the default no-op logger. Tracing is process-wide.
func SetLogger(logger *zap.Logger) {
	tracelog.Use(logger)
}

// Sequence is an immutable, runtime-typed sequence of elements. The zero
// value behaves as an empty eager sequence whose declared element type is
// any; use Of, Deferred, Relazy or Empty to declare a narrower type.
//
// A Sequence is a small value: copying it is cheap and shares the backing
// store, which is safe because stores are never written after construction.
type Sequence[T any] struct {
	elem  types.Type
	store backing.Store[T]
}

// Of builds an eager sequence over the given element type. Every value is
// validated immediately; the first violation aborts construction and reports
// its 1-based position among the supplied values.
func Of[T any](elem types.Type, values ...T) (Sequence[T], error) {
	buf := make([]T, 0, len(values))
	for i, v := range values {
		if err := elem.Validate(v, i+1); err != nil {
			return Sequence[T]{}, err
		}
		buf = append(buf, v)
	}
	return Sequence[T]{elem: elem, store: backing.Eager(buf)}, nil
}

// Empty builds an eager sequence with no elements.
func Empty[T any](elem types.Type) Sequence[T] {
	return Sequence[T]{elem: elem, store: backing.Eager[T](nil)}
}

// Deferred wraps a one-shot producer. Nothing is pulled from src until the
// first access; the drain then happens exactly once, validating each element
// as it arrives, and the outcome (buffer or error) is cached for the
// lifetime of the sequence and every pre-materialization derivative.
func Deferred[T any](elem types.Type, src iter.Seq[T]) Sequence[T] {
	return Sequence[T]{elem: elem, store: backing.Deferred(func() ([]T, error) {
		return backing.Collect(src, func(v T, pos int) error {
			return elem.Validate(v, pos)
		})
	})}
}

// Relazy wraps a factory that recreates its producer on demand. Every access
// invokes the factory and drains a fresh producer, re-validating each
// element, so consecutive accesses may observe different contents. Errors
// are not sticky: a failing access leaves later accesses free to succeed.
func Relazy[T any](elem types.Type, factory func() iter.Seq[T]) Sequence[T] {
	return Sequence[T]{elem: elem, store: backing.Relazy(func() ([]T, error) {
		return backing.Collect(factory(), func(v T, pos int) error {
			return elem.Validate(v, pos)
		})
	})}
}

// typeOrAny tolerates the zero value.
func (s Sequence[T]) typeOrAny() types.Type {
	if s.elem == nil {
		return types.Any()
	}
	return s.elem
}

// storeOrEmpty tolerates the zero value.
func (s Sequence[T]) storeOrEmpty() backing.Store[T] {
	if s.store == nil {
		return backing.Eager[T](nil)
	}
	return s.store
}

// ElementType returns the declared element type descriptor. It is fixed for
// the lifetime of the sequence; homogeneous transformations carry it over.
func (s Sequence[T]) ElementType() types.Type {
	return s.typeOrAny()
}

// Size reports the number of elements. It forces evaluation: a Deferred
// receiver materializes, a Relazy receiver re-evaluates its source.
func (s Sequence[T]) Size() (int, error) {
	items, err := s.storeOrEmpty().Realize()
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Get returns the element at index i, counting from zero.
func (s Sequence[T]) Get(i int) (T, error) {
	var zero T
	items, err := s.storeOrEmpty().Realize()
	if err != nil {
		return zero, err
	}
	if i < 0 || i >= len(items) {
		return zero, fmt.Errorf("%w: index %d, size %d", ErrOutOfBounds, i, len(items))
	}
	return items[i], nil
}

// First returns the first element, or ErrEmptySequence.
func (s Sequence[T]) First() (T, error) {
	var zero T
	items, err := s.storeOrEmpty().Realize()
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, fmt.Errorf("%w: no first element", ErrEmptySequence)
	}
	return items[0], nil
}

// Last returns the last element, or ErrEmptySequence.
func (s Sequence[T]) Last() (T, error) {
	var zero T
	items, err := s.storeOrEmpty().Realize()
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, fmt.Errorf("%w: no last element", ErrEmptySequence)
	}
	return items[len(items)-1], nil
}

// Each applies fn to every element in order. The first error from fn stops
// the walk and is returned unchanged.
func (s Sequence[T]) Each(fn func(T) error) error {
	items, err := s.storeOrEmpty().Realize()
	if err != nil {
		return err
	}
	for _, v := range items {
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

// Collect returns the elements as a fresh slice the caller owns.
func (s Sequence[T]) Collect() ([]T, error) {
	items, err := s.storeOrEmpty().Realize()
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

// Contains reports whether any element equals v under the declared element
// type's equality.
func (s Sequence[T]) Contains(v T) (bool, error) {
	items, err := s.storeOrEmpty().Realize()
	if err != nil {
		return false, err
	}
	elem := s.typeOrAny()
	for _, w := range items {
		if elem.Equal(w, v) {
			return true, nil
		}
	}
	return false, nil
}

// Find returns the first element satisfying pred, or ErrNotFound.
func (s Sequence[T]) Find(pred func(T) bool) (T, error) {
	var zero T
	items, err := s.storeOrEmpty().Realize()
	if err != nil {
		return zero, err
	}
	for _, v := range items {
		if pred(v) {
			return v, nil
		}
	}
	return zero, ErrNotFound
}

// Any reports whether at least one element satisfies pred.
func (s Sequence[T]) Any(pred func(T) bool) (bool, error) {
	_, err := s.Find(pred)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Append returns a new sequence with v added at the end. The receiver is
// untouched. v is validated against the declared element type immediately;
// the structural extension itself respects the receiver's laziness.
func (s Sequence[T]) Append(v T) (Sequence[T], error) {
	if err := s.typeOrAny().Validate(v, 1); err != nil {
		return Sequence[T]{}, err
	}
	return s.derive(func(items []T) []T {
		out := make([]T, len(items)+1)
		copy(out, items)
		out[len(items)] = v
		return out
	}), nil
}

// Concat returns the receiver's elements followed by other's. Both sides
// must declare the same element type. Elements cross over unvalidated; they
// already passed their own sequence's boundary. The argument materializes
// when the result does.
func (s Sequence[T]) Concat(other Sequence[T]) (Sequence[T], error) {
	if err := s.sameDeclared(other); err != nil {
		return Sequence[T]{}, err
	}
	otherStore := other.storeOrEmpty()
	return s.deriveE(func(items []T) ([]T, error) {
		tail, err := otherStore.Realize()
		if err != nil {
			return nil, err
		}
		out := make([]T, 0, len(items)+len(tail))
		out = append(out, items...)
		out = append(out, tail...)
		return out, nil
	}), nil
}

// Clear returns an empty sequence with the same declared element type.
func (s Sequence[T]) Clear() Sequence[T] {
	return Empty[T](s.typeOrAny())
}

// Equal reports element-wise equality under the declared element type. Both
// sides must declare the same type; comparing across types is a programming
// error, reported as ErrTypeMismatch rather than as false.
func (s Sequence[T]) Equal(other Sequence[T]) (bool, error) {
	if err := s.sameDeclared(other); err != nil {
		return false, err
	}
	a, err := s.storeOrEmpty().Realize()
	if err != nil {
		return false, err
	}
	b, err := other.storeOrEmpty().Realize()
	if err != nil {
		return false, err
	}
	if len(a) != len(b) {
		return false, nil
	}
	elem := s.typeOrAny()
	for i := range a {
		if !elem.Equal(a[i], b[i]) {
			return false, nil
		}
	}
	return true, nil
}

// EqualAny implements types.Value so a sequence can itself be an element of
// a typed container. Comparison across different instantiations of T
// reports false.
func (s Sequence[T]) EqualAny(other any) bool {
	o, ok := other.(Sequence[T])
	if !ok {
		return false
	}
	eq, err := s.Equal(o)
	return err == nil && eq
}

func (s Sequence[T]) sameDeclared(other Sequence[T]) error {
	a, b := s.typeOrAny(), other.typeOrAny()
	if !types.Same(a, b) {
		return fmt.Errorf("%w: %s vs %s", ErrTypeMismatch, a.Name(), b.Name())
	}
	return nil
}

// derive builds the successor of s under a pure structural transformation.
// op must not mutate its input and must not retain it beyond the call.
func (s Sequence[T]) derive(op func([]T) []T) Sequence[T] {
	return s.deriveE(func(items []T) ([]T, error) {
		return op(items), nil
	})
}

// deriveE is derive for transformations that can themselves fail at
// evaluation time. The strategy dispatch lives in backing.Derive: a lazy
// receiver yields a lazy successor, a settled receiver computes now.
func (s Sequence[T]) deriveE(op func([]T) ([]T, error)) Sequence[T] {
	return Sequence[T]{
		elem:  s.typeOrAny(),
		store: backing.Derive(s.storeOrEmpty(), op),
	}
}
