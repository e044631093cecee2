// Package keyhash maps arbitrary key values to hash buckets for the
// associative structure. Hashing only narrows the candidate set; callers
// confirm every candidate with the declared key equality relation, so
// canonical-form collisions cost a comparison, never a wrong answer.
package keyhash

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Canonical returns a type-qualified textual form of key. Values with the
// same dynamic type and the same printed form share a bucket. A fmt.Stringer
// supplies its own form.
func Canonical(key any) string {
	if key == nil {
		return "nil"
	}
	if s, ok := key.(fmt.Stringer); ok {
		return fmt.Sprintf("%T\x1f%s", key, s.String())
	}
	return fmt.Sprintf("%T\x1f%v", key, key)
}

// Sum hashes the canonical form of key.
func Sum(key any) uint64 {
	return xxhash.Sum64String(Canonical(key))
}
