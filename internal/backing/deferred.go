package backing

import (
	"sync"
	"sync/atomic"

	"github.com/nclsHart/Immutable/internal/tracelog"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type deferred[T any] struct {
	id   string
	fill func() ([]T, error)

	once sync.Once
	done atomic.Bool
	buf  []T
	err  error
}

// Deferred wraps a one-shot fill. The fill runs at most once, on the first
// Realize from any facade sharing the store; its result, buffer or error,
// is sticky for the lifetime of the store. The returned pointer is what
// pre-materialization derivations share, so the whole derivation tree
// observes a single drain.
func Deferred[T any](fill func() ([]T, error)) Store[T] {
	return &deferred[T]{
		id:   uuid.New().String(),
		fill: fill,
	}
}

func (d *deferred[T]) Realize() ([]T, error) {
	d.once.Do(func() {
		d.buf, d.err = d.fill()
		d.fill = nil
		if d.err != nil {
			tracelog.L().Debug("deferred source failed to materialize",
				zap.String("backing_id", d.id),
				zap.Error(d.err),
			)
		} else {
			tracelog.L().Debug("materialized deferred source",
				zap.String("backing_id", d.id),
				zap.Int("elements", len(d.buf)),
			)
		}
		d.done.Store(true)
	})
	return d.buf, d.err
}

func (d *deferred[T]) Kind() Kind { return KindDeferred }

// Settled becomes true the instant the transition completes and never
// reverts. It may report false for a store that a concurrent Realize is
// settling this moment; derivations treat that conservatively and defer.
func (d *deferred[T]) Settled() bool { return d.done.Load() }
