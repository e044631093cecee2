// Package types provides runtime element type descriptors for the
// immutable containers in this module.
//
// A Type is an injected capability, not a compile-time constraint: containers
// call Validate on every externally supplied element so that a caller feeding
// a sequence of ints a string observes a TypeError at the offending position,
// even though Go's type system could not have expressed the mix statically.
// Elements transported unchanged between containers are trusted and not
// re-validated.
//
// A Type also carries the element equality relation used by order-sensitive
// comparison and by the equality-driven set operations. Equality must be
// total over any pair of values and must never panic; descriptors fall back
// to reflect.DeepEqual where no finer relation applies.
package types

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/rickb777/date/v2"
	"github.com/rickb777/period"
)

// Type describes the declared element type of a container.
type Type interface {
	// Name returns the stable identifier of the type. Two descriptors with
	// equal names declare the same element type.
	Name() string

	// Validate reports whether value belongs to the declared type.
	// Position is the 1-based position of the value within the operation
	// that supplied it and is carried into the returned *TypeError.
	Validate(value any, position int) error

	// Equal reports whether a and b are equal under the element equality
	// relation. Values outside the declared type are never equal.
	Equal(a, b any) bool
}

// Value is implemented by containers of this module (sequences, text) so
// that descriptors and associative structures can inspect and compare them
// without depending on their generic instantiations.
type Value interface {
	ElementType() Type
	EqualAny(other any) bool
}

// TypeError reports a value that does not satisfy a declared element type.
type TypeError struct {
	Expected string
	Actual   string
	Position int
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type mismatch at position %d: expected %s, got %s", e.Position, e.Expected, e.Actual)
}

// Same reports whether two descriptors declare the same element type.
func Same(a, b Type) bool {
	return a.Name() == b.Name()
}

type typeOf[T any] struct {
	name  string
	equal func(a, b T) bool
}

func (t typeOf[T]) Name() string { return t.name }

func (t typeOf[T]) Validate(value any, position int) error {
	if _, ok := member[T](value); !ok {
		return &TypeError{Expected: t.name, Actual: actualName(value), Position: position}
	}
	return nil
}

func (t typeOf[T]) Equal(a, b any) bool {
	av, ok := member[T](a)
	if !ok {
		return false
	}
	bv, ok := member[T](b)
	if !ok {
		return false
	}
	if t.equal != nil {
		return t.equal(av, bv)
	}
	return reflect.DeepEqual(av, bv)
}

// member reports whether value belongs to T and returns its T-typed view.
// A type assertion alone rejects nil even for T = any, but nil is the zero
// value of every interface type, so interface-typed descriptors count it as
// a member. Concrete-typed descriptors keep rejecting it.
func member[T any](value any) (T, bool) {
	if v, ok := value.(T); ok {
		return v, true
	}
	var zero T
	if value == nil && isInterface[T]() {
		return zero, true
	}
	return zero, false
}

func isInterface[T any]() bool {
	return reflect.TypeOf((*T)(nil)).Elem().Kind() == reflect.Interface
}

func actualName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}

// Any accepts every value. Equality is reflect.DeepEqual.
func Any() Type { return typeOf[any]{name: "any"} }

// Bool describes bool elements.
func Bool() Type { return typeOf[bool]{name: "bool"} }

// Int describes int elements.
func Int() Type { return typeOf[int]{name: "int"} }

// Float describes float64 elements.
func Float() Type { return typeOf[float64]{name: "float64"} }

// String describes string elements.
func String() Type { return typeOf[string]{name: "string"} }

// Time describes time.Time elements. Equality uses time.Time.Equal, so two
// representations of the same instant compare equal regardless of location
// or monotonic clock reading.
func Time() Type {
	return typeOf[time.Time]{
		name:  "time.Time",
		equal: func(a, b time.Time) bool { return a.Equal(b) },
	}
}

// Date describes date.Date calendar-day elements.
func Date() Type {
	return typeOf[date.Date]{
		name:  "date.Date",
		equal: func(a, b date.Date) bool { return a == b },
	}
}

// Period describes period.Period ISO-8601 period elements. Equality is
// structural: P1Y and P12M are distinct values.
func Period() Type { return typeOf[period.Period]{name: "period.Period"} }

// Decimal describes decimal.Decimal elements. Equality compares numeric
// value, not representation: 1.5 equals 1.50.
func Decimal() Type {
	return typeOf[decimal.Decimal]{
		name:  "decimal.Decimal",
		equal: func(a, b decimal.Decimal) bool { return a.Cmp(b) == 0 },
	}
}

// UUID describes uuid.UUID elements.
func UUID() Type {
	return typeOf[uuid.UUID]{
		name:  "uuid.UUID",
		equal: func(a, b uuid.UUID) bool { return a == b },
	}
}

// Of describes elements of an arbitrary Go type T under the given name.
// The name identifies the declared type across containers, so use the same
// name wherever the same T is meant. Equality is reflect.DeepEqual.
func Of[T any](name string) Type { return typeOf[T]{name: name} }

// OfEqual is Of with an explicit equality relation over T.
func OfEqual[T any](name string, equal func(a, b T) bool) Type {
	return typeOf[T]{name: name, equal: equal}
}

type sequenceOf struct {
	elem Type
}

// SequenceOf describes values that are themselves containers of elem-typed
// elements, identified through the Value marker. groupBy results use it to
// declare their value side.
func SequenceOf(elem Type) Type { return sequenceOf{elem: elem} }

func (t sequenceOf) Name() string { return fmt.Sprintf("sequence[%s]", t.elem.Name()) }

func (t sequenceOf) Validate(value any, position int) error {
	v, ok := value.(Value)
	if !ok || !Same(v.ElementType(), t.elem) {
		return &TypeError{Expected: t.Name(), Actual: actualName(value), Position: position}
	}
	return nil
}

func (t sequenceOf) Equal(a, b any) bool {
	av, ok := a.(Value)
	if !ok {
		return false
	}
	return av.EqualAny(b)
}
