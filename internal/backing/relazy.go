package backing

import (
	"github.com/nclsHart/Immutable/internal/tracelog"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type relazy[T any] struct {
	id   string
	eval func() ([]T, error)
}

// Relazy wraps an eval closure re-invoked on every Realize. The store holds
// no state between accesses, so consecutive calls may observe different
// contents; that is the point. Thread-safety of eval is the caller's
// contract.
func Relazy[T any](eval func() ([]T, error)) Store[T] {
	return relazy[T]{
		id:   uuid.New().String(),
		eval: eval,
	}
}

func (r relazy[T]) Realize() ([]T, error) {
	buf, err := r.eval()
	if err != nil {
		tracelog.L().Debug("relazy source failed to evaluate",
			zap.String("backing_id", r.id),
			zap.Error(err),
		)
		return nil, err
	}
	tracelog.L().Debug("re-evaluated relazy source",
		zap.String("backing_id", r.id),
		zap.Int("elements", len(buf)),
	)
	return buf, nil
}

func (r relazy[T]) Kind() Kind { return KindRelazy }

func (r relazy[T]) Settled() bool { return false }
