// Package phase implements the Phase level used to tag bindings, imports,
// exports and environments: phase 0 is runtime, phase n+1 is "the world n
// levels of macro definitions above".
package phase

// Phase is a level distinguishing runtime (0) from compile time (1),
// compile-compile time (2), and so on. Phases are small non-negative
// integers in every case this module observes, but Shift is defined over a
// signed delta so a future negative shift (phase-crossing import forms the
// expander does not yet support) does not require changing the underlying
// type.
type Phase int

// Runtime is phase 0, the phase at which ordinary (non-macro) code runs.
const Runtime Phase = 0

// Shift returns p moved by delta levels. shift is additive: Shift(i,
// Shift(j, p)) == Shift(i+j, p) for any p, i, j.
func (p Phase) Shift(delta int) Phase { return p + Phase(delta) }

// Phased is implemented by anything tagged with a Phase that can be
// shifted as a whole: expander values and environments. A
// syntax object is deliberately not Phased: the Syntax triple
// (scope set, source location, payload) carries no phase field, so
// "shift phase" is implemented once here, generically, rather than as a
// second structural traversal over Syntax alongside AdjustScopes.
type Phased[T any] interface {
	ShiftPhase(delta int) T
}

// Shift is a free function wrapper around Phased.ShiftPhase, convenient at
// call sites that already have a delta and a Phased value in hand.
func Shift[T Phased[T]](delta int, v T) T {
	return v.ShiftPhase(delta)
}
