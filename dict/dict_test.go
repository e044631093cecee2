package dict_test

import (
	"errors"
	"iter"
	"slices"
	"testing"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nclsHart/Immutable/dict"
	"github.com/nclsHart/Immutable/types"
)

func TestOf_LastValueWinsAtFirstPosition(t *testing.T) {
	d, err := dict.Of(types.String(), types.Int(),
		dict.Entry[string, int]{Key: "a", Value: 1},
		dict.Entry[string, int]{Key: "b", Value: 2},
		dict.Entry[string, int]{Key: "a", Value: 3},
	)
	require.NoError(t, err)

	keys, err := d.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	v, err := d.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestOf_ValidatesBothSidesWithEntryPositions(t *testing.T) {
	_, err := dict.Of(types.String(), types.Int(),
		dict.Entry[string, any]{Key: "a", Value: 1},
		dict.Entry[string, any]{Key: "b", Value: "two"},
	)
	var typeErr *types.TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, 2, typeErr.Position)
	assert.Equal(t, "int", typeErr.Expected)
}

func TestPut_CopyOnWrite(t *testing.T) {
	base, err := dict.Of(types.String(), types.Int(),
		dict.Entry[string, int]{Key: "a", Value: 1},
	)
	require.NoError(t, err)

	grown, err := base.Put("b", 2)
	require.NoError(t, err)

	n, err := base.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, n, "receiver untouched")

	has, err := grown.Has("b")
	require.NoError(t, err)
	assert.True(t, has)

	// replacing keeps the key's original position
	replaced, err := grown.Put("a", 99)
	require.NoError(t, err)
	keys, err := replaced.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
	v, err := replaced.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 99, v)
}

func TestPut_ValidatesKeyAndValue(t *testing.T) {
	d := dict.Empty[any, any](types.String(), types.Int())

	_, err := d.Put(42, 1)
	var typeErr *types.TypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "string", typeErr.Expected)

	_, err = d.Put("k", "not an int")
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "int", typeErr.Expected)
}

func TestGet_MissNamesTheKey(t *testing.T) {
	d := dict.Empty[string, int](types.String(), types.Int())

	_, err := d.Get("missing")
	assert.ErrorIs(t, err, dict.ErrKeyNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestDelete_AbsentKeyIsNoOp(t *testing.T) {
	d, err := dict.Of(types.String(), types.Int(),
		dict.Entry[string, int]{Key: "a", Value: 1},
		dict.Entry[string, int]{Key: "b", Value: 2},
	)
	require.NoError(t, err)

	smaller := d.Delete("a")
	keys, err := smaller.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)

	same := d.Delete("zzz")
	n, err := same.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = d.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, n, "receiver untouched")
}

func TestDeferred_DrainsOnceAndCollapsesDuplicates(t *testing.T) {
	drains := 0
	src := func(yield func(dict.Entry[string, int]) bool) {
		drains++
		for _, e := range []dict.Entry[string, int]{
			{Key: "x", Value: 1},
			{Key: "y", Value: 2},
			{Key: "x", Value: 3},
		} {
			if !yield(e) {
				return
			}
		}
	}

	d := dict.Deferred(types.String(), types.Int(), src)
	assert.Equal(t, 0, drains)

	n, err := d.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, drains)

	v, err := d.Get("x")
	require.NoError(t, err)
	assert.Equal(t, 3, v, "last value won")
	assert.Equal(t, 1, drains)
}

func TestRelazy_ObservesSourceChanges(t *testing.T) {
	entries := []dict.Entry[string, int]{{Key: "a", Value: 1}}
	d := dict.Relazy(types.String(), types.Int(), func() iter.Seq[dict.Entry[string, int]] {
		return slices.Values(slices.Clone(entries))
	})

	n, err := d.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	entries = append(entries, dict.Entry[string, int]{Key: "b", Value: 2})

	v, err := d.Get("b")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestEqual_OrderInsensitive(t *testing.T) {
	d1, err := dict.Of(types.String(), types.Int(),
		dict.Entry[string, int]{Key: "a", Value: 1},
		dict.Entry[string, int]{Key: "b", Value: 2},
	)
	require.NoError(t, err)

	d2, err := dict.Of(types.String(), types.Int(),
		dict.Entry[string, int]{Key: "b", Value: 2},
		dict.Entry[string, int]{Key: "a", Value: 1},
	)
	require.NoError(t, err)

	eq, err := d1.Equal(d2)
	require.NoError(t, err)
	assert.True(t, eq)

	d3, err := dict.Of(types.String(), types.Int(),
		dict.Entry[string, int]{Key: "a", Value: 1},
		dict.Entry[string, int]{Key: "b", Value: 3},
	)
	require.NoError(t, err)

	eq, err = d1.Equal(d3)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestEqual_RejectsDifferingDeclaredTypes(t *testing.T) {
	d1 := dict.Empty[string, any](types.String(), types.Int())
	d2 := dict.Empty[string, any](types.String(), types.String())

	_, err := d1.Equal(d2)
	assert.ErrorIs(t, err, dict.ErrTypeMismatch)
}

func TestLookup_CoarseKeyEqualityStillHits(t *testing.T) {
	// 1.50 and 1.5 hash to different canonical forms but are one decimal;
	// the scan fallback must find the entry anyway.
	d := dict.Empty[decimal.Decimal, string](types.Decimal(), types.String())

	d, err := d.Put(decimal.MustParse("1.50"), "gauge")
	require.NoError(t, err)

	v, err := d.Get(decimal.MustParse("1.5"))
	require.NoError(t, err)
	assert.Equal(t, "gauge", v)

	has, err := d.Has(decimal.MustParse("1.500"))
	require.NoError(t, err)
	assert.True(t, has)
}

func TestLookup_NilKeyUnderAnyDescriptor(t *testing.T) {
	d := dict.Empty[any, string](types.Any(), types.String())

	d, err := d.Put(nil, "none")
	require.NoError(t, err)

	v, err := d.Get(nil)
	require.NoError(t, err)
	assert.Equal(t, "none", v)

	has, err := d.Has(nil)
	require.NoError(t, err)
	assert.True(t, has)

	// a nil key coexists with ordinary keys
	d, err = d.Put("k", "some")
	require.NoError(t, err)
	keys, err := d.Keys()
	require.NoError(t, err)
	assert.Equal(t, []any{nil, "k"}, keys)
}

func TestEach_CallbackErrorStopsUnchanged(t *testing.T) {
	d, err := dict.Of(types.String(), types.Int(),
		dict.Entry[string, int]{Key: "a", Value: 1},
		dict.Entry[string, int]{Key: "b", Value: 2},
		dict.Entry[string, int]{Key: "c", Value: 3},
	)
	require.NoError(t, err)

	errStop := errors.New("enough")
	var seen []string
	err = d.Each(func(k string, _ int) error {
		if k == "b" {
			return errStop
		}
		seen = append(seen, k)
		return nil
	})
	assert.ErrorIs(t, err, errStop)
	assert.Equal(t, []string{"a"}, seen)
}

func TestValuesEntries_InsertionOrder(t *testing.T) {
	d, err := dict.Of(types.String(), types.Int(),
		dict.Entry[string, int]{Key: "one", Value: 1},
		dict.Entry[string, int]{Key: "two", Value: 2},
	)
	require.NoError(t, err)

	vals, err := d.Values()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, vals)

	entries, err := d.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "one", entries[0].Key)

	// the returned slice is the caller's
	entries[0].Value = 99
	v, err := d.Get("one")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestZeroValue_BehavesAsEmptyAnyDict(t *testing.T) {
	var d dict.Dict[string, int]

	n, err := d.Size()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	has, err := d.Has("x")
	require.NoError(t, err)
	assert.False(t, has)

	grown, err := d.Put("x", 1)
	require.NoError(t, err)
	n, err = grown.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
