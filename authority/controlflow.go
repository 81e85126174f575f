// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: original_source/crates/server/src/authority/authority_object.rs
// and original_source/crates/server/src/authority/mod.rs's LookupControlFlow,
// rendered as a Go generic sum type since Go has no enum-with-payload.
//

package authority

// flowKind distinguishes the three control-flow outcomes a lookup can
// produce, mirroring the Rust `LookupControlFlow<T, E>` enum's three
// variants (`Continue`, `Break`, `Skip`).
type flowKind int

const (
	flowContinue flowKind = iota
	flowBreak
	flowSkip
)

// LookupControlFlow is the result of a single step in an authority's
// lookup chain: it tells the caller whether to keep trying other
// authorities ([Continue]), stop and use this result ([Break]), or that
// this authority has nothing to say about the query at all ([Skip]).
//
// The zero value is not meaningful; build one with [Continue], [Break], or
// [Skip].
type LookupControlFlow[T any] struct {
	kind  flowKind
	value T
	err   error
}

// Continue wraps value/err as a "keep going" outcome: callers should
// consult err and, if nil, may still try another authority for additional
// data (e.g. a chain of zones).
func Continue[T any](value T, err error) LookupControlFlow[T] {
	return LookupControlFlow[T]{kind: flowContinue, value: value, err: err}
}

// Break wraps value/err as a terminal outcome: this is the final answer,
// successful or not, and no further authority should be consulted.
func Break[T any](value T, err error) LookupControlFlow[T] {
	return LookupControlFlow[T]{kind: flowBreak, value: value, err: err}
}

// Skip reports that this authority has no opinion on the query; the caller
// should move on to the next authority without treating this as an error.
func Skip[T any]() LookupControlFlow[T] {
	return LookupControlFlow[T]{kind: flowSkip}
}

// IsSkip reports whether the flow is [Skip].
func (f LookupControlFlow[T]) IsSkip() bool {
	return f.kind == flowSkip
}

// IsBreak reports whether the flow is [Break].
func (f LookupControlFlow[T]) IsBreak() bool {
	return f.kind == flowBreak
}

// Unwrap returns the carried value and error. Calling it on a [Skip] flow
// returns the zero value and a nil error; callers must check [LookupControlFlow.IsSkip]
// first if the distinction matters.
func (f LookupControlFlow[T]) Unwrap() (T, error) {
	return f.value, f.err
}

// MapDyn converts a concrete [LookupControlFlow] of type L into one boxed
// behind the [LookupObject] interface, preserving Continue/Break/Skip and
// any error. This is the Go rendering of the Rust `map_dyn` adapter that
// erases a zone backend's concrete lookup type before handing it to
// object-safe callers — in Go, every interface is already object-safe, so
// this function only needs to perform the boxing, not work around a
// dyn-safety restriction.
func MapDyn[L LookupObject](flow LookupControlFlow[L]) LookupControlFlow[LookupObject] {
	switch flow.kind {
	case flowSkip:
		return Skip[LookupObject]()
	case flowBreak:
		return LookupControlFlow[LookupObject]{kind: flowBreak, value: flow.value, err: flow.err}
	default:
		return LookupControlFlow[LookupObject]{kind: flowContinue, value: flow.value, err: flow.err}
	}
}
