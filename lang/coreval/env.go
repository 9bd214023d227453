package coreval

import "github.com/thistle-lang/expander/lang/binding"

// Env is a runtime environment: a chain of frames from a binding.ID to the
// Value currently bound to it. It mirrors the expansion environment's
// phase-indexed lookup one level down: by the time a core graph is run,
// every reference has already been resolved to a concrete binding.ID, so
// the runtime side only ever needs a flat map plus a parent link for
// lexical scoping (closure capture, lambda parameter frames).
type Env struct {
	parent *Env
	vars   map[binding.ID]Value
}

// newEnv returns a fresh, empty frame chained onto parent (nil for the
// top-level environment).
func newEnv(parent *Env) *Env {
	return &Env{parent: parent, vars: make(map[binding.ID]Value)}
}

func (e *Env) bind(id binding.ID, v Value) { e.vars[id] = v }

func (e *Env) lookup(id binding.ID) (Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[id]; ok {
			return v, true
		}
	}
	return nil, false
}
