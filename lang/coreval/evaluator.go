package coreval

import (
	"fmt"

	"github.com/thistle-lang/expander/lang/binding"
	"github.com/thistle-lang/expander/lang/core"
	"github.com/thistle-lang/expander/lang/engine"
	"github.com/thistle-lang/expander/lang/phase"
	"github.com/thistle-lang/expander/lang/syntax"
)

// Evaluator implements engine.Evaluator. It represents a suspended macro
// invocation as a goroutine parked on a channel receive rather than as a
// persistent, serializable continuation: Invoke starts the macro's body
// running in its own goroutine and communicates with it over an outcome
// channel, so a nested await-signal call blocks only that goroutine, never
// the engine's own driving goroutine.
type Evaluator struct {
	base *Env
}

// NewEvaluator returns an evaluator with an empty top-level environment.
// Call Install to give it the engine's runtime primitive bindings before
// running any expansion.
func NewEvaluator() *Evaluator {
	return &Evaluator{base: newEnv(nil)}
}

// BindGlobal installs v as the runtime value of the variable the engine
// allocated id for; see Install.
func (ev *Evaluator) BindGlobal(id binding.ID, v Value) {
	ev.base.bind(id, v)
}

// Install registers every runtime primitive this evaluator exposes (see
// globals) as an ordinary variable on eng, and binds each one's runtime
// value into ev's own base environment under the same binding.ID the
// engine allocated for it. Call this once, after constructing both eng
// and ev, before expanding anything.
func Install(eng *engine.Engine, ev *Evaluator) {
	for name, prim := range globals() {
		id := eng.BindGlobal(name)
		ev.BindGlobal(id, prim)
	}
}

// EvalCore runs the finished core graph rooted at root to completion in
// ev's base environment. It never suspends: a let-syntax transformer-expr
// is expected to evaluate to a callable value (typically a lambda), not to
// invoke await-signal directly, so no suspension surface is threaded
// through this call.
func (ev *Evaluator) EvalCore(graph *core.Graph, root core.NodeId, _ phase.Phase) (any, error) {
	return evalNode(graph, root, ev.base, nil)
}

// outcome is one message an in-flight macro invocation's goroutine sends
// back to the goroutine driving expansion: either a final value/error, or
// a request to block on a signal along with the channel that resumes it.
type outcome struct {
	value Value
	err   error

	blockedSignal uint64
	resume        chan uint64
}

// Invoke runs macroValue (expected to be a callable *Closure or
// *Primitive) over stx, converted to a SyntaxVal, in a fresh goroutine.
func (ev *Evaluator) Invoke(macroValue any, stx *syntax.Syntax) (engine.Result, error) {
	fn, ok := macroValue.(Value)
	if !ok {
		return engine.Result{}, fmt.Errorf("coreval: macro value %v is not a runtime value", macroValue)
	}

	outcomeCh := make(chan outcome)
	ctx := &evalCtx{awaitSignal: func(sig uint64) uint64 {
		resume := make(chan uint64)
		outcomeCh <- outcome{blockedSignal: sig, resume: resume}
		return <-resume
	}}

	go func() {
		v, err := apply(fn, []Value{NewSyntaxVal(stx)}, ctx)
		outcomeCh <- outcome{value: v, err: err}
	}()

	return ev.await(outcomeCh)
}

// await reads the next message on outcomeCh and translates it to an
// engine.Result: a blocked message becomes a Blocked result whose
// Continuation resumes the waiting goroutine and recurses to await its
// next message; a final message becomes Done (after converting the
// macro's return value back to syntax) or the propagated error.
func (ev *Evaluator) await(outcomeCh chan outcome) (engine.Result, error) {
	out := <-outcomeCh
	if out.resume != nil {
		resume := out.resume
		return engine.Result{
			Status: engine.Blocked,
			Signal: out.blockedSignal,
			Cont: func(signal uint64) (engine.Result, error) {
				resume <- signal
				return ev.await(outcomeCh)
			},
		}, nil
	}
	if out.err != nil {
		return engine.Result{}, out.err
	}
	resultStx, err := valueToSyntax(out.value)
	if err != nil {
		return engine.Result{}, err
	}
	return engine.Result{Status: engine.Done, Stx: resultStx}, nil
}

var _ engine.Evaluator = (*Evaluator)(nil)
