package sequence

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nclsHart/Immutable/dict"
	"github.com/nclsHart/Immutable/internal/tracelog"
	"github.com/nclsHart/Immutable/types"
)

// GroupBy partitions the elements into a dict from discriminator keys to
// sub-sequences. Each element lands in exactly one group, groups preserve
// source order internally, and the dict lists groups in first-occurrence
// order of their keys. The discriminator's output is associated as-is, under
// the dict's any key type; the group values are typed sequence-of-element.
//
// Grouping forces evaluation of the receiver; the produced groups are eager.
// Grouping an empty sequence reports ErrEmptySequence: an empty mapping has
// no meaningful shape to return.
func GroupBy[T, K any](s Sequence[T], key func(T) K) (dict.Dict[K, Sequence[T]], error) {
	items, err := s.storeOrEmpty().Realize()
	if err != nil {
		return dict.Dict[K, Sequence[T]]{}, err
	}
	if len(items) == 0 {
		return dict.Dict[K, Sequence[T]]{}, fmt.Errorf("%w: nothing to group", ErrEmptySequence)
	}
	d := dict.Empty[K, Sequence[T]](types.Any(), types.SequenceOf(s.typeOrAny()))
	d, err = foldGroups(d, s.Clear(), items, key)
	if err != nil {
		return dict.Dict[K, Sequence[T]]{}, err
	}
	if n, err := d.Size(); err == nil {
		tracelog.L().Debug("grouped sequence",
			zap.Int("elements", len(items)),
			zap.Int("groups", n))
	}
	return d, nil
}

// Group groups the elements by their own value: every distinct element keys
// the sub-sequence of its occurrences. Distinctness follows the declared
// element type's equality, and so does the dict's key equality, so values
// the descriptor considers equal share a group.
func Group[T any](s Sequence[T]) (dict.Dict[T, Sequence[T]], error) {
	items, err := s.storeOrEmpty().Realize()
	if err != nil {
		return dict.Dict[T, Sequence[T]]{}, err
	}
	if len(items) == 0 {
		return dict.Dict[T, Sequence[T]]{}, fmt.Errorf("%w: nothing to group", ErrEmptySequence)
	}
	d := dict.Empty[T, Sequence[T]](s.typeOrAny(), types.SequenceOf(s.typeOrAny()))
	return foldGroups(d, s.Clear(), items, func(v T) T { return v })
}

// Partition splits the elements into the two arms of pred. The result
// always holds exactly the keys true and false, in that order, even when an
// arm or the whole receiver is empty.
func Partition[T any](s Sequence[T], pred func(T) bool) (dict.Dict[bool, Sequence[T]], error) {
	items, err := s.storeOrEmpty().Realize()
	if err != nil {
		return dict.Dict[bool, Sequence[T]]{}, err
	}
	d := dict.Empty[bool, Sequence[T]](types.Bool(), types.SequenceOf(s.typeOrAny()))
	for _, arm := range []bool{true, false} {
		d, err = d.Put(arm, s.Clear())
		if err != nil {
			return dict.Dict[bool, Sequence[T]]{}, err
		}
	}
	return foldGroups(d, s.Clear(), items, pred)
}

// foldGroups folds items into d one element at a time: fetch the element's
// group (or start from empty), extend it, and put the extended group back
// under the same key. The dict's replace-in-place Put keeps each key at its
// first-occurrence position.
func foldGroups[T, K any](d dict.Dict[K, Sequence[T]], empty Sequence[T], items []T, key func(T) K) (dict.Dict[K, Sequence[T]], error) {
	for _, v := range items {
		k := key(v)
		grp, err := d.Get(k)
		if err != nil {
			if !errors.Is(err, dict.ErrKeyNotFound) {
				return dict.Dict[K, Sequence[T]]{}, err
			}
			grp = empty
		}
		grp, err = grp.Append(v)
		if err != nil {
			return dict.Dict[K, Sequence[T]]{}, err
		}
		d, err = d.Put(k, grp)
		if err != nil {
			return dict.Dict[K, Sequence[T]]{}, err
		}
	}
	return d, nil
}
