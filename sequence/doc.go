// Package sequence provides a runtime-typed, immutable sequence of elements
// with copy-on-write functional operations.
//
// Every Sequence declares an element type descriptor (see the types package)
// and owns one of three interchangeable evaluation strategies. Operations
// never mutate the receiver: each transformation builds a new strategy first
// and wraps it in a fresh value, so no reference ever observes a change made
// through a derivative.
//
// # Evaluation strategies
//
// Callers cannot observe which strategy backs a value except through cost
// and repeatability:
//
//   - Of / Empty build eager sequences: elements live in an owned buffer,
//     fully realized, Size is O(1).
//   - Deferred wraps a one-shot producer. The producer is drained exactly
//     once, on the first access from any sequence in the derivation tree,
//     and the result is cached for all of them. Sequences derived before
//     that first access share the materialization; sequences derived after
//     it start from the realized buffer.
//   - Relazy wraps a factory that recreates its producer on demand. Every
//     access re-invokes the factory, so consecutive calls may observe a
//     changing external source. No consistency is guaranteed between two
//     accesses; that is the point.
//
// Structural transformations (Map, Filter, Sort, Slice, Take, Drop,
// Reverse, Distinct, Append, Concat, Diff, Intersect, MapTo) preserve the
// receiver's laziness: deriving from an unmaterialized Deferred or from a
// Relazy sequence does not touch the source; only accessors (Size, Get,
// Each, Collect, Reduce, Find, Equal, grouping) force evaluation. TryMap
// and TryReduce run fallible callbacks, so they force evaluation and
// return their error immediately. Binary operations (Concat, Diff,
// Intersect) realize their argument when the result does.
//
// # Type checking
//
// Element types are checked at runtime, at every insertion boundary: Of and
// Append validate immediately, a Deferred drain validates during
// materialization, a Relazy source is validated on every access, and MapTo
// validates each output against the target descriptor. Elements transported
// unchanged between sequences are trusted and not re-validated. A violation
// surfaces as a *types.TypeError carrying the expected type, the actual
// type, and the 1-based position of the offending value.
//
// # Errors
//
// All failures are synchronous return values; a failing operation has no
// visible effect on the receiver and never yields a partially built result.
// Errors raised by caller-supplied callbacks propagate unchanged. Sentinel
// errors (ErrOutOfBounds, ErrTypeMismatch, ErrNotFound, ErrEmptySequence)
// are matched with errors.Is; *types.TypeError with errors.As.
//
// # Concurrency
//
// Semantics are single-threaded and synchronous: everything runs to
// completion on the calling goroutine. Values are nevertheless safe to read
// from multiple goroutines, because realized buffers are never written and
// the Deferred materialization transition is guarded by a once-gate, so two
// readers cannot double-drain a producer. A Relazy factory is invoked once
// per access with no locking around it; its safety is the caller's contract.
package sequence
