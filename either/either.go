// Package either provides a two-alternative value: exactly one of a left or
// a right, with the right conventionally carrying the useful result and the
// left the reason there is none. It is a plain value type with no engine
// dependency, used to thread fallible pipeline steps without unwinding.
package either

// Either holds one of two alternatives. The zero value is a left holding
// the zero L.
type Either[L, R any] struct {
	left    L
	right   R
	isRight bool
}

// Left builds an Either holding the left alternative.
func Left[L, R any](l L) Either[L, R] {
	return Either[L, R]{left: l}
}

// Right builds an Either holding the right alternative.
func Right[L, R any](r R) Either[L, R] {
	return Either[L, R]{right: r, isRight: true}
}

// IsLeft reports whether the left alternative is held.
func (e Either[L, R]) IsLeft() bool { return !e.isRight }

// IsRight reports whether the right alternative is held.
func (e Either[L, R]) IsRight() bool { return e.isRight }

// Left returns the left alternative and whether it is the one held.
func (e Either[L, R]) Left() (L, bool) { return e.left, !e.isRight }

// Right returns the right alternative and whether it is the one held.
func (e Either[L, R]) Right() (R, bool) { return e.right, e.isRight }

// OrElse returns the right alternative, or fallback when the left is held.
func (e Either[L, R]) OrElse(fallback R) R {
	if e.isRight {
		return e.right
	}
	return fallback
}

// Fold collapses the Either into one value by applying the function on the
// side that is held.
func Fold[L, R, O any](e Either[L, R], onLeft func(L) O, onRight func(R) O) O {
	if e.isRight {
		return onRight(e.right)
	}
	return onLeft(e.left)
}

// MapR transforms the right alternative, passing a left through untouched.
func MapR[L, R, R2 any](e Either[L, R], f func(R) R2) Either[L, R2] {
	if e.isRight {
		return Right[L, R2](f(e.right))
	}
	return Left[L, R2](e.left)
}

// MapL transforms the left alternative, passing a right through untouched.
func MapL[L, L2, R any](e Either[L, R], f func(L) L2) Either[L2, R] {
	if e.isRight {
		return Right[L2, R](e.right)
	}
	return Left[L2, R](f(e.left))
}

// Split separates a batch of eithers into its lefts and its rights, each in
// encounter order.
func Split[L, R any](items []Either[L, R]) (lefts []L, rights []R) {
	for _, e := range items {
		if e.isRight {
			rights = append(rights, e.right)
		} else {
			lefts = append(lefts, e.left)
		}
	}
	return lefts, rights
}

// Wrap adapts Go's (value, error) convention: a nil error becomes a right
// holding the value, a non-nil error becomes a left holding it.
func Wrap[R any](v R, err error) Either[error, R] {
	if err != nil {
		return Left[error, R](err)
	}
	return Right[error, R](v)
}
