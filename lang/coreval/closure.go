package coreval

import (
	"fmt"

	"github.com/thistle-lang/expander/lang/binding"
	"github.com/thistle-lang/expander/lang/core"
)

// Closure is the runtime value a lambda core term evaluates to: its
// parameter bindings, its (possibly still-being-expanded, but by the time
// it is applied always fully known) body node, the graph it lives in, and
// the environment captured at definition time.
type Closure struct {
	Params []binding.ID
	Body   core.NodeId
	Graph  *core.Graph
	Env    *Env
}

func (c *Closure) String() string { return "#<closure>" }
func (c *Closure) Type() string   { return "closure" }
func (c *Closure) Truth() bool    { return true }

// apply binds args to c's parameters in a fresh frame over c's captured
// environment and evaluates the body in it. ctx carries the suspension
// surface a nested await-signal call uses to block this goroutine without
// blocking the engine driving the expansion.
func (c *Closure) apply(args []Value, ctx *evalCtx) (Value, error) {
	if len(args) != len(c.Params) {
		return nil, fmt.Errorf("coreval: closure expects %d argument(s), got %d", len(c.Params), len(args))
	}
	env := newEnv(c.Env)
	for i, p := range c.Params {
		env.bind(p, args[i])
	}
	return evalNode(c.Graph, c.Body, env, ctx)
}

// PrimitiveFunc is the Go-backed implementation of a built-in procedure.
type PrimitiveFunc func(args []Value, ctx *evalCtx) (Value, error)

// Primitive is a runtime procedure implemented directly in Go rather than
// as a closure over a core term: cons, car, cdr, list, eq? and
// await-signal.
type Primitive struct {
	Name string
	Fn   PrimitiveFunc
}

func (p *Primitive) String() string { return fmt.Sprintf("#<primitive:%s>", p.Name) }
func (p *Primitive) Type() string   { return "primitive" }
func (p *Primitive) Truth() bool    { return true }

var (
	_ Value = (*Closure)(nil)
	_ Value = (*Primitive)(nil)
)

// apply dispatches a call to whichever of the two callable value kinds fn
// is; any other value kind cannot be applied.
func apply(fn Value, args []Value, ctx *evalCtx) (Value, error) {
	switch f := fn.(type) {
	case *Closure:
		return f.apply(args, ctx)
	case *Primitive:
		return f.Fn(args, ctx)
	default:
		return nil, fmt.Errorf("coreval: value of type %s is not callable", fn.Type())
	}
}
