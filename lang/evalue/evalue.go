// Package evalue defines expansion-time values: what a binding means while
// expansion is in progress. An EValue is one of a
// primitive macro (built into the engine), a variable macro (a plain
// reference, carrying the core term that stands for it) or a user macro (a
// transformer supplied by the program being expanded, tagged with the
// syntactic category it is allowed to appear in).
package evalue

import (
	"github.com/thistle-lang/expander/lang/binding"
	"github.com/thistle-lang/expander/lang/phase"
)

// SyntacticCategory restricts where a user macro's expansion may be used,
// a macro bound to one category produces a WrongCategory
// error if invoked from a position of another.
type SyntacticCategory uint8

const (
	Module SyntacticCategory = iota
	Declaration
	Expression
)

// Permits reports whether a macro registered under category c may run at a
// use site requiring category want. Categories rank from the most
// restrictive (Module, usable only at a module's own top level) to the
// most permissive (Expression, embeddable anywhere a Declaration or Module
// form is accepted): c permits want whenever c's rank is at least want's.
func (c SyntacticCategory) Permits(want SyntacticCategory) bool {
	return c >= want
}

func (c SyntacticCategory) String() string {
	switch c {
	case Module:
		return "module"
	case Declaration:
		return "declaration"
	case Expression:
		return "expression"
	default:
		return "category(?)"
	}
}

// Kind discriminates the cases of EValue.
type Kind uint8

const (
	// PrimMacro is a special form built into the engine itself (quote,
	// lambda, #%app, let-syntax); the engine only ever dispatches to this
	// fixed set, never invents others. Literal forms have no head
	// identifier and are translated without any PrimMacro.
	PrimMacro Kind = iota
	// VarMacro is an ordinary variable reference: Core names the core term
	// this binding expands to.
	VarMacro
	// UserMacro is a transformer supplied by the program under expansion:
	// Category restricts its syntactic position and Value identifies the
	// transformer procedure in the reference evaluator's value space.
	UserMacro
)

// PrimHandler is the engine-side signature of a primitive macro: given the
// use-site syntax and an expansion-time callback surface, it returns either
// a further expansion step or fails. It is declared here, rather than in
// package engine, so that EValue need not import the engine to name the
// handler's type; engine supplies the actual closures at prim-registration
// time.
type PrimHandler func(env any, stx any) (any, error)

// EValue is an expansion-time value attached to a binding.
type EValue struct {
	kind Kind

	prim PrimHandler
	core any // the *core.Term this variable expands to, boxed to avoid an import cycle

	category SyntacticCategory
	value    any // the reference evaluator's representation of the transformer procedure
}

func NewPrimMacro(h PrimHandler) EValue { return EValue{kind: PrimMacro, prim: h} }
func NewVarMacro(core any) EValue       { return EValue{kind: VarMacro, core: core} }
func NewUserMacro(cat SyntacticCategory, value any) EValue {
	return EValue{kind: UserMacro, category: cat, value: value}
}

func (v EValue) Kind() Kind                      { return v.kind }
func (v EValue) Prim() PrimHandler                { return v.prim }
func (v EValue) Core() any                        { return v.core }
func (v EValue) Category() SyntacticCategory      { return v.category }
func (v EValue) TransformerValue() any            { return v.value }

// ShiftPhase implements phase.Phased: an EValue carries no phase-relative
// state of its own (a VarMacro's Core term and a UserMacro's transformer
// value are phase-independent once resolved), so shifting returns v
// unchanged. It exists so Environment, which is keyed by phase, can still be
// expressed generically in terms of phase.Phased.
func (v EValue) ShiftPhase(delta int) EValue { return v }

// Environment is a phase-indexed map from binding to expansion-time value,
// Phase 0 holds run-time bindings; phase 1 holds bindings
// usable only while expanding transformer expressions (the right-hand side
// of let-syntax), and so on.
type Environment struct {
	byPhase map[phase.Phase]map[binding.ID]EValue
}

// NewEnvironment returns an empty, phase-indexed expansion environment.
func NewEnvironment() *Environment {
	return &Environment{byPhase: make(map[phase.Phase]map[binding.ID]EValue)}
}

// Bind records that id means v at phase p.
func (e *Environment) Bind(p phase.Phase, id binding.ID, v EValue) {
	m, ok := e.byPhase[p]
	if !ok {
		m = make(map[binding.ID]EValue)
		e.byPhase[p] = m
	}
	m[id] = v
}

// Lookup returns the value bound to id at phase p, if any. Built-in special
// forms (PrimMacro) are registered once, at phase Runtime, but are part of
// the kernel rather than ordinary phase-0 bindings: they must resolve at
// every phase a transformer-expr might run at, so a miss at p falls back to
// phase Runtime and accepts the match only if it is a PrimMacro. Ordinary
// VarMacro and UserMacro bindings never cross this fallback.
func (e *Environment) Lookup(p phase.Phase, id binding.ID) (EValue, bool) {
	if m, ok := e.byPhase[p]; ok {
		if v, ok := m[id]; ok {
			return v, true
		}
	}
	if p == phase.Runtime {
		return EValue{}, false
	}
	if m, ok := e.byPhase[phase.Runtime]; ok {
		if v, ok := m[id]; ok && v.Kind() == PrimMacro {
			return v, true
		}
	}
	return EValue{}, false
}

// ShiftPhase returns a new Environment with every binding's phase-slot
// shifted by delta; a binding recorded at phase p is recorded at phase
// p.Shift(delta) in the result. This implements phase.Phased so that
// let-syntax's "expand the transformer at phase+1" rule can
// reuse the generic phase.Shift helper instead of a bespoke method.
func (e *Environment) ShiftPhase(delta int) *Environment {
	out := NewEnvironment()
	for p, m := range e.byPhase {
		for id, v := range m {
			out.Bind(p.Shift(delta), id, phase.Shift(delta, v))
		}
	}
	return out
}

var (
	_ phase.Phased[EValue]       = EValue{}
	_ phase.Phased[*Environment] = (*Environment)(nil)
)
