// Package text provides an immutable, rune-aware string wrapper that bridges
// into the sequence engine: positions, lengths and windows count runes, not
// bytes, and splitting produces a typed sequence of string elements.
package text

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/nclsHart/Immutable/sequence"
	"github.com/nclsHart/Immutable/types"
)

// ErrOutOfBounds reports a rune index outside [0, Len).
var ErrOutOfBounds = errors.New("rune index out of bounds")

// Str is an immutable string with rune-positional semantics. The zero value
// is the empty string. Str implements types.Value with string elements, so
// it can live inside containers typed sequence[string].
type Str struct {
	s string
}

// New wraps a string.
func New(s string) Str { return Str{s: s} }

func (s Str) String() string { return s.s }

// Len counts runes, not bytes.
func (s Str) Len() int { return utf8.RuneCountInString(s.s) }

// At returns the rune at position i as a string.
func (s Str) At(i int) (string, error) {
	if i >= 0 {
		pos := 0
		for _, r := range s.s {
			if pos == i {
				return string(r), nil
			}
			pos++
		}
	}
	return "", fmt.Errorf("%w: index %d, length %d", ErrOutOfBounds, i, s.Len())
}

// Slice returns the half-open rune window [from, until), bounds clamped the
// same way sequence windows are.
func (s Str) Slice(from, until int) Str {
	runes := []rune(s.s)
	lo, hi := clampWindow(from, until, len(runes))
	return Str{s: string(runes[lo:hi])}
}

// Take returns the first n runes.
func (s Str) Take(n int) Str { return s.Slice(0, n) }

// Drop returns everything after the first n runes.
func (s Str) Drop(n int) Str { return s.Slice(n, s.Len()) }

func clampWindow(from, until, size int) (int, int) {
	if from < 0 {
		from = 0
	}
	if from > size {
		from = size
	}
	if until < from {
		until = from
	}
	if until > size {
		until = size
	}
	return from, until
}

// Upper returns the upper-cased text.
func (s Str) Upper() Str { return Str{s: strings.ToUpper(s.s)} }

// Lower returns the lower-cased text.
func (s Str) Lower() Str { return Str{s: strings.ToLower(s.s)} }

// TrimSpace returns the text without leading and trailing whitespace.
func (s Str) TrimSpace() Str { return Str{s: strings.TrimSpace(s.s)} }

// Contains reports whether sub occurs in the text.
func (s Str) Contains(sub Str) bool { return strings.Contains(s.s, sub.s) }

// HasPrefix reports whether the text starts with prefix.
func (s Str) HasPrefix(prefix Str) bool { return strings.HasPrefix(s.s, prefix.s) }

// HasSuffix reports whether the text ends with suffix.
func (s Str) HasSuffix(suffix Str) bool { return strings.HasSuffix(s.s, suffix.s) }

// Concat returns the receiver followed by other.
func (s Str) Concat(other Str) Str { return Str{s: s.s + other.s} }

// Reverse returns the runes in the opposite order.
func (s Str) Reverse() Str {
	runes := []rune(s.s)
	slices.Reverse(runes)
	return Str{s: string(runes)}
}

// Split cuts the text around every occurrence of sep into an eager sequence
// of string elements, following the strings.Split contract for empty
// separators and empty receivers.
func (s Str) Split(sep string) (sequence.Sequence[string], error) {
	return sequence.Of(types.String(), strings.Split(s.s, sep)...)
}

// Chars returns the runes as an eager sequence of one-rune strings.
func (s Str) Chars() (sequence.Sequence[string], error) {
	parts := make([]string, 0, s.Len())
	for _, r := range s.s {
		parts = append(parts, string(r))
	}
	return sequence.Of(types.String(), parts...)
}

// Equal reports exact equality of the underlying strings.
func (s Str) Equal(other Str) bool { return s.s == other.s }

// ElementType implements types.Value: a Str is a value with string elements.
func (s Str) ElementType() types.Type { return types.String() }

// EqualAny implements types.Value.
func (s Str) EqualAny(other any) bool {
	o, ok := other.(Str)
	return ok && s.s == o.s
}
