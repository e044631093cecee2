package dict_test

import (
	"fmt"
	"testing"

	"github.com/nclsHart/Immutable/dict"
	"github.com/nclsHart/Immutable/sequence"
	"github.com/nclsHart/Immutable/types"
)

func benchKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
	}
	return keys
}

func BenchmarkNaiveSequenceLookup(b *testing.B) {
	sizes := []int{64, 256, 1024}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("Size_%d", size), func(b *testing.B) {
			s, err := sequence.Of(types.String(), benchKeys(size)...)
			if err != nil {
				b.Fatal(err)
			}
			target := fmt.Sprintf("key-%d", size-1)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := s.Find(func(v string) bool { return v == target }); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkIndexedDictLookup(b *testing.B) {
	sizes := []int{64, 256, 1024}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("Size_%d", size), func(b *testing.B) {
			d := dict.Empty[string, int](types.String(), types.Int())
			var err error
			for i, k := range benchKeys(size) {
				d, err = d.Put(k, i)
				if err != nil {
					b.Fatal(err)
				}
			}
			target := fmt.Sprintf("key-%d", size-1)
			if _, err := d.Get(target); err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := d.Get(target); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
