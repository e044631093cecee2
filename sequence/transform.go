package sequence

import (
	"slices"

	"github.com/nclsHart/Immutable/internal/backing"
	"github.com/nclsHart/Immutable/types"
)

// CompareFunc orders two elements: negative when a sorts before b, zero when
// they tie, positive when a sorts after b.
type CompareFunc[T any] func(a, b T) int

// Map returns a sequence holding f(v) for every element v, in order. f must
// be pure: with a lazy receiver it runs at access time, and under Relazy it
// runs once per access. Outputs stay within the declared element type and
// are trusted; use MapTo to map into a different type with validation.
func (s Sequence[T]) Map(f func(T) T) Sequence[T] {
	return s.derive(func(items []T) []T {
		out := make([]T, len(items))
		for i, v := range items {
			out[i] = f(v)
		}
		return out
	})
}

// TryMap is Map for fallible transforms. It materializes the receiver
// immediately; the first error from f aborts and is returned unchanged,
// leaving no partial result.
func (s Sequence[T]) TryMap(f func(T) (T, error)) (Sequence[T], error) {
	items, err := s.storeOrEmpty().Realize()
	if err != nil {
		return Sequence[T]{}, err
	}
	out := make([]T, len(items))
	for i, v := range items {
		r, err := f(v)
		if err != nil {
			return Sequence[T]{}, err
		}
		out[i] = r
	}
	return Sequence[T]{elem: s.typeOrAny(), store: backing.Eager(out)}, nil
}

// Filter returns the elements satisfying pred, keeping their order.
func (s Sequence[T]) Filter(pred func(T) bool) Sequence[T] {
	return s.derive(func(items []T) []T {
		out := make([]T, 0, len(items))
		for _, v := range items {
			if pred(v) {
				out = append(out, v)
			}
		}
		return slices.Clip(out)
	})
}

// Sort returns a sequence ordered by cmp. The sort is stable: elements that
// compare equal keep their original relative order. The receiver's buffer is
// cloned before sorting, so existing references never observe the reorder.
func (s Sequence[T]) Sort(cmp CompareFunc[T]) Sequence[T] {
	return s.derive(func(items []T) []T {
		out := slices.Clone(items)
		slices.SortStableFunc(out, cmp)
		return out
	})
}

// Slice returns the half-open window [from, until). Bounds are clamped to
// the sequence: a window past either end degrades to fewer elements or to an
// empty sequence, never to an error.
func (s Sequence[T]) Slice(from, until int) Sequence[T] {
	return s.derive(func(items []T) []T {
		lo, hi := clampWindow(from, until, len(items))
		return items[lo:hi]
	})
}

// Take returns the first n elements, or everything when n exceeds the size.
func (s Sequence[T]) Take(n int) Sequence[T] {
	return s.derive(func(items []T) []T {
		lo, hi := clampWindow(0, n, len(items))
		return items[lo:hi]
	})
}

// TakeEnd returns the last n elements.
func (s Sequence[T]) TakeEnd(n int) Sequence[T] {
	return s.derive(func(items []T) []T {
		k := clampCount(n, len(items))
		return items[len(items)-k:]
	})
}

// Drop returns everything after the first n elements.
func (s Sequence[T]) Drop(n int) Sequence[T] {
	return s.derive(func(items []T) []T {
		lo, hi := clampWindow(n, len(items), len(items))
		return items[lo:hi]
	})
}

// DropEnd returns everything before the last n elements.
func (s Sequence[T]) DropEnd(n int) Sequence[T] {
	return s.derive(func(items []T) []T {
		k := clampCount(n, len(items))
		return items[:len(items)-k]
	})
}

// clampCount bounds a count to [0, size]. Clamping happens before any index
// arithmetic: size-n wraps for n near math.MinInt.
func clampCount(n, size int) int {
	if n < 0 {
		return 0
	}
	if n > size {
		return size
	}
	return n
}

func clampWindow(from, until, size int) (int, int) {
	if from < 0 {
		from = 0
	}
	if from > size {
		from = size
	}
	if until < from {
		until = from
	}
	if until > size {
		until = size
	}
	return from, until
}

// Reverse returns the elements in the opposite order.
func (s Sequence[T]) Reverse() Sequence[T] {
	return s.derive(func(items []T) []T {
		out := slices.Clone(items)
		slices.Reverse(out)
		return out
	})
}

// Distinct returns the elements with later duplicates removed, where
// duplicate means equal under the declared element type. First occurrence
// wins the position. Quadratic: descriptor equality is opaque, so every
// survivor is compared against every candidate.
func (s Sequence[T]) Distinct() Sequence[T] {
	elem := s.typeOrAny()
	return s.derive(func(items []T) []T {
		out := make([]T, 0, len(items))
		for _, v := range items {
			if !containsEqual(elem, out, v) {
				out = append(out, v)
			}
		}
		return slices.Clip(out)
	})
}

// Diff returns the receiver's elements that have no equal in other, keeping
// order and duplicates. Both sides must declare the same element type. The
// argument materializes when the result does. Quadratic in the two sizes.
func (s Sequence[T]) Diff(other Sequence[T]) (Sequence[T], error) {
	if err := s.sameDeclared(other); err != nil {
		return Sequence[T]{}, err
	}
	elem := s.typeOrAny()
	otherStore := other.storeOrEmpty()
	return s.deriveE(func(items []T) ([]T, error) {
		exclude, err := otherStore.Realize()
		if err != nil {
			return nil, err
		}
		out := make([]T, 0, len(items))
		for _, v := range items {
			if !containsEqual(elem, exclude, v) {
				out = append(out, v)
			}
		}
		return slices.Clip(out), nil
	}), nil
}

// Intersect returns the receiver's elements that have an equal in other,
// keeping the receiver's order and duplicates. Both sides must declare the
// same element type. Quadratic in the two sizes.
func (s Sequence[T]) Intersect(other Sequence[T]) (Sequence[T], error) {
	if err := s.sameDeclared(other); err != nil {
		return Sequence[T]{}, err
	}
	elem := s.typeOrAny()
	otherStore := other.storeOrEmpty()
	return s.deriveE(func(items []T) ([]T, error) {
		keep, err := otherStore.Realize()
		if err != nil {
			return nil, err
		}
		out := make([]T, 0, len(items))
		for _, v := range items {
			if containsEqual(elem, keep, v) {
				out = append(out, v)
			}
		}
		return slices.Clip(out), nil
	}), nil
}

func containsEqual[T any](elem types.Type, items []T, v T) bool {
	for _, w := range items {
		if elem.Equal(w, v) {
			return true
		}
	}
	return false
}

// MapTo maps into a sequence of a different element type. Every output of f
// is validated against the target descriptor; the first violation carries
// the 1-based position of the input that produced it. With an eager receiver
// the mapping and its validation run immediately; with a lazy receiver they
// run when the result is accessed, under the receiver's strategy.
func MapTo[T, R any](s Sequence[T], target types.Type, f func(T) R) (Sequence[R], error) {
	st := s.storeOrEmpty()
	step := func() ([]R, error) {
		items, err := st.Realize()
		if err != nil {
			return nil, err
		}
		out := make([]R, len(items))
		for i, v := range items {
			r := f(v)
			if err := target.Validate(r, i+1); err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	}
	switch {
	case st.Kind() == backing.KindRelazy:
		return Sequence[R]{elem: target, store: backing.Relazy(step)}, nil
	case st.Kind() == backing.KindDeferred && !st.Settled():
		return Sequence[R]{elem: target, store: backing.Deferred(step)}, nil
	default:
		out, err := step()
		if err != nil {
			return Sequence[R]{}, err
		}
		return Sequence[R]{elem: target, store: backing.Eager(out)}, nil
	}
}

// Reduce folds the elements left to right into an accumulator, starting
// from seed. It forces evaluation of the receiver.
func Reduce[T, A any](s Sequence[T], seed A, f func(A, T) A) (A, error) {
	items, err := s.storeOrEmpty().Realize()
	if err != nil {
		return seed, err
	}
	acc := seed
	for _, v := range items {
		acc = f(acc, v)
	}
	return acc, nil
}

// TryReduce is Reduce for fallible folders. The first error from f aborts
// the fold and is returned unchanged alongside the seed.
func TryReduce[T, A any](s Sequence[T], seed A, f func(A, T) (A, error)) (A, error) {
	items, err := s.storeOrEmpty().Realize()
	if err != nil {
		return seed, err
	}
	acc := seed
	for _, v := range items {
		acc, err = f(acc, v)
		if err != nil {
			return seed, err
		}
	}
	return acc, nil
}
