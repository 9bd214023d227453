package engine

import (
	"github.com/thistle-lang/expander/lang/core"
	"github.com/thistle-lang/expander/lang/phase"
	"github.com/thistle-lang/expander/lang/syntax"
)

// Status discriminates the two shapes an Evaluator call can return.
type Status uint8

const (
	// Done means the macro invocation finished and produced a replacement
	// syntax object.
	Done Status = iota
	// Blocked means the macro needs to wait for a signal before it can
	// produce a result.
	Blocked
)

// Continuation is handed back by an Evaluator alongside a Blocked result.
// Calling it with the delivered signal resumes the suspended macro and
// yields its next Result (itself possibly Blocked again, on a different
// signal).
type Continuation func(signal uint64) (Result, error)

// Result is the outcome of one Evaluator.Invoke or Continuation call.
type Result struct {
	Status Status

	// Stx is populated when Status is Done: the macro's expansion.
	Stx *syntax.Syntax

	// Signal and Cont are populated when Status is Blocked.
	Signal uint64
	Cont   Continuation
}

// Evaluator is the external collaborator that runs user-defined macro
// functions. It must be re-entrant: the engine may hold several suspended
// continuations from it at once.
type Evaluator interface {
	// Invoke runs macroValue, a first-class macro function produced by the
	// evaluator's own value space, over the use-site syntax stx.
	Invoke(macroValue any, stx *syntax.Syntax) (Result, error)

	// EvalCore runs the finished core graph rooted at root (everything
	// reachable from it must already be present in graph) at phase ph and
	// returns the evaluator's own runtime value. This is how let-syntax
	// turns a transformer-expr's expansion into a callable macro function
	// without the engine needing to know how core terms execute.
	EvalCore(graph *core.Graph, root core.NodeId, ph phase.Phase) (any, error)
}
