// Package backing implements the evaluation strategies behind the immutable
// containers: a closed set of variants satisfying one contract, so facades
// cannot observe which variant backs an instance except through cost and
// repeatability.
//
//   - eager: elements held in an owned, fully realized buffer.
//   - deferred: a one-shot fill consumed at most once across the entire
//     derivation tree sharing the store; the UNREALIZED -> REALIZED
//     transition is guarded and irreversible.
//   - relazy: an eval closure re-invoked on every access; no caching, no
//     consistency guarantee between accesses.
//
// Stores never write a buffer after it is realized; facades that derive new
// containers copy before mutating. Under that contract concurrent readers
// are safe, and the deferred transition is the only guarded state change.
package backing

import "iter"

// Kind identifies an evaluation strategy variant.
type Kind int

const (
	KindEager Kind = iota
	KindDeferred
	KindRelazy
)

func (k Kind) String() string {
	switch k {
	case KindEager:
		return "eager"
	case KindDeferred:
		return "deferred"
	case KindRelazy:
		return "relazy"
	default:
		return "unknown"
	}
}

// Store is the contract every evaluation strategy satisfies.
type Store[T any] interface {
	// Realize returns the elements in order, or the error that produced
	// them. The returned slice is shared and read-only; callers copy before
	// mutating. Eager stores return immediately, deferred stores drain
	// their fill on the first call and memoize, relazy stores re-evaluate
	// on every call.
	Realize() ([]T, error)

	// Kind reports the variant, for derivation dispatch.
	Kind() Kind

	// Settled reports whether the contents are fixed: true for eager
	// stores and for deferred stores after their transition, false for a
	// deferred store that has not drained its source and always false for
	// relazy stores.
	Settled() bool
}

// Derive builds the store backing the successor of a structural
// transformation, preserving the parent's strategy as observed by callers:
//
//   - relazy parent: a relazy successor that re-runs the parent chain and
//     re-applies op on every access.
//   - unsettled deferred parent: a deferred successor whose first access
//     drains the shared parent exactly once, then applies op once.
//   - settled parent: op runs here and now into an eager successor. A
//     settled failure propagates as a store that keeps returning the same
//     error, so a broken pipeline stays broken instead of turning empty.
//
// op must be pure: no mutation of its input, no retention of it.
func Derive[T any](parent Store[T], op func([]T) ([]T, error)) Store[T] {
	step := func() ([]T, error) {
		items, err := parent.Realize()
		if err != nil {
			return nil, err
		}
		return op(items)
	}
	switch {
	case parent.Kind() == KindRelazy:
		return Relazy(step)
	case parent.Kind() == KindDeferred && !parent.Settled():
		return Deferred(step)
	default:
		out, err := step()
		if err != nil {
			return Deferred(func() ([]T, error) { return nil, err })
		}
		return Eager(out)
	}
}

// Collect drains a one-shot producer into an owned buffer, applying validate
// to each element with its 1-based position. A validation failure aborts the
// drain and discards the partial buffer. A nil validate trusts the producer.
func Collect[T any](src iter.Seq[T], validate func(T, int) error) ([]T, error) {
	var buf []T
	pos := 0
	for v := range src {
		pos++
		if validate != nil {
			if err := validate(v, pos); err != nil {
				return nil, err
			}
		}
		buf = append(buf, v)
	}
	return buf, nil
}
