package backing

type eager[T any] struct {
	buf []T
}

// Eager wraps an owned, fully realized buffer. Ownership transfers to the
// store; the caller must not write buf afterwards.
func Eager[T any](buf []T) Store[T] {
	return eager[T]{buf: buf}
}

func (e eager[T]) Realize() ([]T, error) { return e.buf, nil }

func (e eager[T]) Kind() Kind { return KindEager }

func (e eager[T]) Settled() bool { return true }
