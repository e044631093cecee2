// Package dict provides a runtime-typed, immutable association from keys to
// values, insertion-ordered, with the same three evaluation strategies as
// the sequence package.
//
// Keys are not constrained to comparable: key equality comes from the key
// type descriptor, and lookups are accelerated by an xxhash index over the
// keys' canonical forms. The hash is an accelerator, not an oracle; when a
// probe misses, equality gets the last word via a linear scan, which keeps
// descriptors whose equality is coarser than their printed form (decimals
// with trailing zeros, say) correct at the cost of O(n) absent-key lookups.
package dict

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/nclsHart/Immutable/internal/backing"
	"github.com/nclsHart/Immutable/internal/keyhash"
	"github.com/nclsHart/Immutable/internal/tracelog"
	"github.com/nclsHart/Immutable/types"
)

var (
	// ErrKeyNotFound reports a lookup for a key the dict does not hold.
	ErrKeyNotFound = errors.New("key not found")

	// ErrTypeMismatch reports a binary operation across two dicts whose
	// declared key or value types differ.
	ErrTypeMismatch = errors.New("declared types differ")
)

// Entry is one key-value association.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Dict is an immutable association from keys to values. Entries keep the
// order in which their keys first appeared; putting an existing key replaces
// the value in place. The zero value behaves as an empty dict typed any to
// any.
type Dict[K, V any] struct {
	keyType types.Type
	valType types.Type
	store   backing.Store[Entry[K, V]]
	idx     *index
}

// index caches the bucket table of a settled store. Dict values sharing a
// store share the index; settled contents never change, so the table is
// built at most once.
type index struct {
	once    sync.Once
	buckets map[uint64][]int
}

// Of builds an eager dict from the given entries. Keys and values are
// validated immediately, positions counting entries from one; a later entry
// with an existing key replaces the earlier value in place.
func Of[K, V any](keyType, valType types.Type, entries ...Entry[K, V]) (Dict[K, V], error) {
	buf := make([]Entry[K, V], 0, len(entries))
	for i, e := range entries {
		if err := keyType.Validate(e.Key, i+1); err != nil {
			return Dict[K, V]{}, err
		}
		if err := valType.Validate(e.Value, i+1); err != nil {
			return Dict[K, V]{}, err
		}
		buf = upsert(keyType, buf, e)
	}
	return Dict[K, V]{keyType: keyType, valType: valType, store: backing.Eager(buf), idx: &index{}}, nil
}

// Empty builds an eager dict with no entries.
func Empty[K, V any](keyType, valType types.Type) Dict[K, V] {
	return Dict[K, V]{keyType: keyType, valType: valType, store: backing.Eager[Entry[K, V]](nil), idx: &index{}}
}

// Deferred wraps a one-shot entry producer, drained and validated exactly
// once on first access. Duplicate keys collapse during the drain, last value
// winning at the key's first position.
func Deferred[K, V any](keyType, valType types.Type, src iter.Seq[Entry[K, V]]) Dict[K, V] {
	return Dict[K, V]{
		keyType: keyType,
		valType: valType,
		store: backing.Deferred(func() ([]Entry[K, V], error) {
			return drain(keyType, valType, src)
		}),
		idx: &index{},
	}
}

// Relazy wraps a factory recreating its entry producer on demand; every
// access drains and validates a fresh producer.
func Relazy[K, V any](keyType, valType types.Type, factory func() iter.Seq[Entry[K, V]]) Dict[K, V] {
	return Dict[K, V]{
		keyType: keyType,
		valType: valType,
		store: backing.Relazy(func() ([]Entry[K, V], error) {
			return drain(keyType, valType, factory())
		}),
		idx: &index{},
	}
}

func drain[K, V any](keyType, valType types.Type, src iter.Seq[Entry[K, V]]) ([]Entry[K, V], error) {
	raw, err := backing.Collect(src, func(e Entry[K, V], pos int) error {
		if err := keyType.Validate(e.Key, pos); err != nil {
			return err
		}
		return valType.Validate(e.Value, pos)
	})
	if err != nil {
		return nil, err
	}
	out := make([]Entry[K, V], 0, len(raw))
	for _, e := range raw {
		out = upsert(keyType, out, e)
	}
	if len(out) < len(raw) {
		tracelog.L().Debug("collapsed duplicate keys during drain",
			zap.Int("entries", len(raw)),
			zap.Int("keys", len(out)))
	}
	return out, nil
}

// upsert replaces in place when the key exists, keeping its original
// position, and appends otherwise. The buffer must be owned by the caller.
func upsert[K, V any](keyType types.Type, entries []Entry[K, V], e Entry[K, V]) []Entry[K, V] {
	for i := range entries {
		if keyType.Equal(entries[i].Key, e.Key) {
			entries[i].Value = e.Value
			return entries
		}
	}
	return append(entries, e)
}

func (d Dict[K, V]) keyTypeOrAny() types.Type {
	if d.keyType == nil {
		return types.Any()
	}
	return d.keyType
}

func (d Dict[K, V]) valTypeOrAny() types.Type {
	if d.valType == nil {
		return types.Any()
	}
	return d.valType
}

func (d Dict[K, V]) storeOrEmpty() backing.Store[Entry[K, V]] {
	if d.store == nil {
		return backing.Eager[Entry[K, V]](nil)
	}
	return d.store
}

// KeyType returns the declared key type descriptor.
func (d Dict[K, V]) KeyType() types.Type { return d.keyTypeOrAny() }

// ValueType returns the declared value type descriptor.
func (d Dict[K, V]) ValueType() types.Type { return d.valTypeOrAny() }

// realize returns the entries and a bucket table over them. Settled contents
// cache the table; relazy contents rebuild it on every access.
func (d Dict[K, V]) realize() ([]Entry[K, V], map[uint64][]int, error) {
	st := d.storeOrEmpty()
	entries, err := st.Realize()
	if err != nil {
		return nil, nil, err
	}
	if d.idx == nil || !st.Settled() {
		return entries, buckets(entries), nil
	}
	d.idx.once.Do(func() {
		d.idx.buckets = buckets(entries)
	})
	return entries, d.idx.buckets, nil
}

func buckets[K, V any](entries []Entry[K, V]) map[uint64][]int {
	m := make(map[uint64][]int, len(entries))
	for i, e := range entries {
		h := keyhash.Sum(e.Key)
		m[h] = append(m[h], i)
	}
	return m
}

// find probes the bucket for k, then falls back to a full scan so that
// descriptor equality always gets the last word.
func (d Dict[K, V]) find(entries []Entry[K, V], b map[uint64][]int, k K) int {
	kt := d.keyTypeOrAny()
	for _, i := range b[keyhash.Sum(k)] {
		if kt.Equal(entries[i].Key, k) {
			return i
		}
	}
	for i := range entries {
		if kt.Equal(entries[i].Key, k) {
			return i
		}
	}
	return -1
}

// Get returns the value associated with k, or ErrKeyNotFound.
func (d Dict[K, V]) Get(k K) (V, error) {
	var zero V
	entries, b, err := d.realize()
	if err != nil {
		return zero, err
	}
	if i := d.find(entries, b, k); i >= 0 {
		return entries[i].Value, nil
	}
	return zero, fmt.Errorf("%w: %v", ErrKeyNotFound, k)
}

// Has reports whether k is present.
func (d Dict[K, V]) Has(k K) (bool, error) {
	entries, b, err := d.realize()
	if err != nil {
		return false, err
	}
	return d.find(entries, b, k) >= 0, nil
}

// Size reports the number of entries. It forces evaluation.
func (d Dict[K, V]) Size() (int, error) {
	entries, err := d.storeOrEmpty().Realize()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// Put returns a new dict with k associated to v. An existing key keeps its
// position and takes the new value; a new key appends. Both k and v are
// validated immediately; the structural change respects the receiver's
// laziness and leaves the receiver untouched.
func (d Dict[K, V]) Put(k K, v V) (Dict[K, V], error) {
	if err := d.keyTypeOrAny().Validate(k, 1); err != nil {
		return Dict[K, V]{}, err
	}
	if err := d.valTypeOrAny().Validate(v, 1); err != nil {
		return Dict[K, V]{}, err
	}
	kt := d.keyTypeOrAny()
	return d.derive(func(entries []Entry[K, V]) ([]Entry[K, V], error) {
		return upsert(kt, slices.Clone(entries), Entry[K, V]{Key: k, Value: v}), nil
	}), nil
}

// Delete returns a new dict without k. Deleting an absent key is a no-op
// that still yields a fresh value.
func (d Dict[K, V]) Delete(k K) Dict[K, V] {
	kt := d.keyTypeOrAny()
	return d.derive(func(entries []Entry[K, V]) ([]Entry[K, V], error) {
		out := make([]Entry[K, V], 0, len(entries))
		for _, e := range entries {
			if !kt.Equal(e.Key, k) {
				out = append(out, e)
			}
		}
		return slices.Clip(out), nil
	})
}

// Keys returns the keys in insertion order, as a fresh slice.
func (d Dict[K, V]) Keys() ([]K, error) {
	entries, err := d.storeOrEmpty().Realize()
	if err != nil {
		return nil, err
	}
	out := make([]K, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out, nil
}

// Values returns the values in insertion order, as a fresh slice.
func (d Dict[K, V]) Values() ([]V, error) {
	entries, err := d.storeOrEmpty().Realize()
	if err != nil {
		return nil, err
	}
	out := make([]V, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return out, nil
}

// Entries returns the entries in insertion order, as a fresh slice.
func (d Dict[K, V]) Entries() ([]Entry[K, V], error) {
	entries, err := d.storeOrEmpty().Realize()
	if err != nil {
		return nil, err
	}
	return slices.Clone(entries), nil
}

// Each applies fn to every entry in insertion order. The first error from fn
// stops the walk and is returned unchanged.
func (d Dict[K, V]) Each(fn func(K, V) error) error {
	entries, err := d.storeOrEmpty().Realize()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := fn(e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether both dicts hold the same keys with equal values,
// regardless of insertion order. Both sides must declare the same key and
// value types, otherwise ErrTypeMismatch.
func (d Dict[K, V]) Equal(other Dict[K, V]) (bool, error) {
	dk, dv := d.keyTypeOrAny(), d.valTypeOrAny()
	otherK, otherV := other.keyTypeOrAny(), other.valTypeOrAny()
	if !types.Same(dk, otherK) || !types.Same(dv, otherV) {
		return false, fmt.Errorf("%w: [%s -> %s] vs [%s -> %s]",
			ErrTypeMismatch, dk.Name(), dv.Name(), otherK.Name(), otherV.Name())
	}
	a, err := d.storeOrEmpty().Realize()
	if err != nil {
		return false, err
	}
	b, bIdx, err := other.realize()
	if err != nil {
		return false, err
	}
	if len(a) != len(b) {
		return false, nil
	}
	for _, e := range a {
		j := other.find(b, bIdx, e.Key)
		if j < 0 || !dv.Equal(e.Value, b[j].Value) {
			return false, nil
		}
	}
	return true, nil
}

func (d Dict[K, V]) derive(op func([]Entry[K, V]) ([]Entry[K, V], error)) Dict[K, V] {
	return Dict[K, V]{
		keyType: d.keyTypeOrAny(),
		valType: d.valTypeOrAny(),
		store:   backing.Derive(d.storeOrEmpty(), op),
		idx:     &index{},
	}
}
