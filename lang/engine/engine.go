// Package engine implements the expansion engine: the scheduler that
// drives syntax through head resolution, dispatches to primitive and
// user-defined macros, and assembles a partial core graph.
package engine

import (
	"sync"

	"github.com/thistle-lang/expander/lang/binding"
	"github.com/thistle-lang/expander/lang/core"
	"github.com/thistle-lang/expander/lang/evalue"
	"github.com/thistle-lang/expander/lang/experr"
	"github.com/thistle-lang/expander/lang/phase"
	"github.com/thistle-lang/expander/lang/scope"
	"github.com/thistle-lang/expander/lang/syntax"
)

// Engine holds the mutable state of one expansion: the scope counter, the
// binding table, the phase-indexed expansion environment, the partial core
// graph under construction, and its task list. An Engine is
// owned exclusively, start to finish, by the goroutine driving it; the only
// concurrency it supports is receiving SendSignal calls from a second
// goroutine while a call to one of the Expand* entry points is in flight.
type Engine struct {
	scopes       scope.Counter
	bindings     *binding.Table
	bindingAlloc binding.Allocator
	nodeAlloc    core.Allocator
	graph        *core.Graph
	env          *evalue.Environment
	evaluator    Evaluator

	taskSeq uint64

	// signals is the set of received signals, matching a persistent-set
	// record; a signal, once received, stays received for the rest of the
	// expansion, so a SendSignal that arrives before the matching task has
	// even blocked yet is not lost. signalsMu guards it, since SendSignal is
	// the one call an Engine accepts from a goroutine other than the one
	// driving expansion.
	signalsMu sync.Mutex
	signals   map[uint64]bool

	// q is the single active top-level queue; resumeCh wakes a drive loop
	// parked on it after SendSignal records a new signal.
	q        *queue
	resumeCh chan struct{}
}

// New returns a fresh engine, ready to expand, delegating user macro
// invocations to ev.
func New(ev Evaluator) *Engine {
	e := &Engine{
		bindings:  binding.NewTable(),
		graph:     core.NewGraph(),
		env:       evalue.NewEnvironment(),
		evaluator: ev,
		signals:   make(map[uint64]bool),
		q:         &queue{},
		resumeCh:  make(chan struct{}, 1),
	}
	e.registerPrimitives()
	return e
}

func (e *Engine) freshTaskID() TaskId {
	e.taskSeq++
	return TaskId(e.taskSeq)
}

// Graph returns the engine's partial core graph, as built so far.
func (e *Engine) Graph() *core.Graph { return e.graph }

// BindGlobal registers name as an ordinary variable, resolvable both at
// runtime (phase 0) and while expanding a transformer-expr (phase 1), and
// returns the fresh binding it allocated. Unlike a built-in special form,
// an ordinary global is only visible at the phases it is explicitly bound
// at; a reference evaluator that wants its runtime procedures (cons, car,
// await-signal, ...) callable from macro bodies calls this once per name
// and binds the returned ID to the matching runtime value in its own base
// environment.
func (e *Engine) BindGlobal(name string) binding.ID {
	id := e.bindingAlloc.Fresh()
	e.bindings.Add(name, scope.Empty, id)
	ref := evalue.NewVarMacro(&core.Term{Kind: core.KindRef, RefBinding: id})
	e.env.Bind(phase.Runtime, id, ref)
	e.env.Bind(phase.Runtime.Shift(1), id, ref)
	return id
}

// registerPrimitives binds the built-in special forms (lambda, application,
// let-syntax, quote) under an empty scope set at phase 0, so they resolve
// for any identifier occurrence unless shadowed by a more specific binding.
func (e *Engine) registerPrimitives() {
	prims := map[string]primHandler{
		"quote":      primQuote,
		"lambda":     primLambda,
		"#%app":      primApp,
		"let-syntax": primLetSyntax,
	}
	for name, h := range prims {
		id := e.bindingAlloc.Fresh()
		e.bindings.Add(name, scope.Empty, id)
		e.env.Bind(phase.Runtime, id, evalue.NewPrimMacro(adaptPrim(h)))
	}
}

// primCtx is what a primitive macro handler sees: the use-site syntax, its
// phase and syntactic-category context.
type primCtx struct {
	Stx   *syntax.Syntax
	Phase phase.Phase
	Cat   evalue.SyntacticCategory
}

// primHandler is the engine's own concrete primitive-macro signature.
type primHandler func(eng *Engine, ctx *primCtx) (*core.Term, error)

// adaptPrim boxes a primHandler as the any/any evalue.PrimHandler shape, so
// it can be stored as an EValue without evalue needing to import engine.
func adaptPrim(h primHandler) evalue.PrimHandler {
	return func(engAny any, ctxAny any) (any, error) {
		return h(engAny.(*Engine), ctxAny.(*primCtx))
	}
}

// mustBeIdent returns stx's identifier text, or fails with NotIdentifier.
func (e *Engine) mustBeIdent(stx *syntax.Syntax) (string, error) {
	if !stx.IsIdent() {
		return "", experr.NotIdentifier(stx)
	}
	return stx.Text, nil
}

// mustBeEmpty requires stx to be an empty list.
func (e *Engine) mustBeEmpty(stx *syntax.Syntax) error {
	if !stx.IsEmptyList() {
		return experr.NotEmpty(stx)
	}
	return nil
}

// mustBeCons requires stx to be a non-empty list, returning its head and
// the remaining elements.
func (e *Engine) mustBeCons(stx *syntax.Syntax) (*syntax.Syntax, []*syntax.Syntax, error) {
	if !stx.IsList() || len(stx.Children) == 0 {
		return nil, nil, experr.NotCons(stx)
	}
	return stx.Children[0], stx.Children[1:], nil
}

// mustBeVec requires stx to be a vector of exactly n elements.
func (e *Engine) mustBeVec(n int, stx *syntax.Syntax) ([]*syntax.Syntax, error) {
	if stx.Kind != syntax.Vec || len(stx.Children) != n {
		return nil, experr.NotRightLength(n, stx)
	}
	return stx.Children, nil
}

// ExpandExpression is the main entry point: expand stx as an expression,
// gating which user macros may run to those whose category is Expression
// or broader (only Expression itself, since nothing is broader). Returns
// the finished partial core graph, or a fatal ExpansionErr.
func (e *Engine) ExpandExpression(stx *syntax.Syntax) (*core.Graph, error) {
	return e.expandRoot(stx, evalue.Expression)
}

// ExpandDeclaration expands stx as a declaration, gating which user macros
// may run to those whose category is Declaration or broader (Declaration or
// Expression).
func (e *Engine) ExpandDeclaration(stx *syntax.Syntax) (*core.Graph, error) {
	return e.expandRoot(stx, evalue.Declaration)
}

// ExpandModuleBody expands a sequence of top-level forms as one module,
// sharing a single root sequence node. Each top-level form runs at Module
// category, so any user macro category (Module, Declaration or Expression)
// is permitted there.
func (e *Engine) ExpandModuleBody(stxs []*syntax.Syntax) (*core.Graph, error) {
	root := e.nodeAlloc.Fresh()
	e.graph.Root = root
	t := &task{id: e.freshTaskID(), target: root, ph: phase.Runtime, cat: evalue.Module}
	// A module body has no single input syntax of its own; it completes
	// directly as a known Seq node whose children are the given top-level
	// forms, each spawned as an ordinary Module-category child task.
	term := &core.Term{Kind: core.KindSeq, ChildrenKnown: make([]*core.Term, len(stxs)), ChildrenPending: stxs}
	e.complete(e.q, t, term)
	if err := e.drive(e.q, true); err != nil {
		return nil, err
	}
	return e.graph, nil
}

func (e *Engine) expandRoot(stx *syntax.Syntax, cat evalue.SyntacticCategory) (*core.Graph, error) {
	root := e.nodeAlloc.Fresh()
	e.graph.Root = root
	t := &task{id: e.freshTaskID(), target: root, ph: phase.Runtime, cat: cat, stx: stx}
	e.q.pushReady(t)
	if err := e.drive(e.q, true); err != nil {
		return nil, err
	}
	return e.graph, nil
}

// SendSignal marks sig as received. The effect is only
// observable at the scheduler's next step: a drive loop currently parked
// waiting for external progress is nudged to re-check its blocked tasks,
// and since received signals are recorded permanently, a SendSignal that
// arrives before the matching task has even blocked yet is not lost.
func (e *Engine) SendSignal(sig uint64) error {
	e.signalsMu.Lock()
	e.signals[sig] = true
	e.signalsMu.Unlock()
	select {
	case e.resumeCh <- struct{}{}:
	default:
	}
	return nil
}

// signalReceived reports whether sig has been recorded by SendSignal. It is
// the only way the drive loop reads e.signals, so every read goes through
// the same lock SendSignal writes under.
func (e *Engine) signalReceived(sig uint64) bool {
	e.signalsMu.Lock()
	defer e.signalsMu.Unlock()
	return e.signals[sig]
}

// drive runs q's scheduler loop to a fixed point: either every task has
// completed (ready and blocked both empty) or a fatal error occurred. If
// waitForExternalSignals is true and the queue stalls with blocked tasks
// remaining, drive parks on resumeCh rather than failing immediately,
// since a concurrent SendSignal call may still unstick it while expanding
// top-level forms. Nested sub-expansions (let-syntax's transformer-expr) pass
// false: they run to completion synchronously within one primitive's step
// and have no externally reachable signal source of their own.
func (e *Engine) drive(q *queue, waitForExternalSignals bool) error {
	for {
		t, ok := q.popReady()
		if !ok {
			if woken, found := q.takeBlockedWithReceivedSignal(e.signalReceived); found {
				res, err := woken.cont(woken.signal)
				if err != nil {
					return err
				}
				if res.Status == Done {
					woken.stx = res.Stx
					q.pushReady(woken)
				} else {
					q.pushBlocked(woken, res.Signal, res.Cont)
				}
				continue
			}
			if len(q.blocked) == 0 {
				return nil
			}
			if !waitForExternalSignals {
				return experr.StuckExpansion(uint64(q.blocked[0].id))
			}
			<-e.resumeCh
			continue
		}
		if err := e.step(q, t); err != nil {
			return err
		}
	}
}

// step runs one scheduling step for t.
func (e *Engine) step(q *queue, t *task) error {
	stx := t.stx
	head, headed := headOf(stx)
	if head == nil {
		e.complete(q, t, &core.Term{Kind: core.KindLit, Datum: stx})
		return nil
	}

	id, err := e.bindings.Resolve(head)
	if err != nil {
		return err
	}
	ev, ok := e.env.Lookup(t.ph, id)
	if !ok {
		return experr.Unknown(head.Text, head)
	}

	switch ev.Kind() {
	case evalue.PrimMacro:
		ctx := &primCtx{Stx: stx, Phase: t.ph, Cat: t.cat}
		result, err := ev.Prim()(e, ctx)
		if err != nil {
			return err
		}
		e.complete(q, t, result.(*core.Term))
		return nil

	case evalue.VarMacro:
		ref := ev.Core().(*core.Term)
		if !headed {
			e.complete(q, t, ref)
			return nil
		}
		_, rest, err := e.mustBeCons(stx)
		if err != nil {
			return err
		}
		app := &core.Term{
			Kind:            core.KindApp,
			ChildrenKnown:   make([]*core.Term, len(rest)+1),
			ChildrenPending: append([]*syntax.Syntax{nil}, rest...),
		}
		app.ChildrenKnown[0] = ref
		e.complete(q, t, app)
		return nil

	case evalue.UserMacro:
		if !ev.Category().Permits(t.cat) {
			return experr.WrongCategory(t.cat.String(), ev.Category().String(), stx)
		}
		s := e.scopes.Fresh()
		in := syntax.WithFlippedScope(stx, s)
		res, err := e.evaluator.Invoke(ev.TransformerValue(), in)
		if err != nil {
			return err
		}
		switch res.Status {
		case Done:
			t.stx = syntax.WithFlippedScope(res.Stx, s)
			q.pushReady(t)
		case Blocked:
			// the result of a resumed continuation gets the same flip as a
			// Done result above, however many times the macro blocks.
			var wrap func(Continuation) Continuation
			wrap = func(k Continuation) Continuation {
				return func(sig uint64) (Result, error) {
					r, err := k(sig)
					if err == nil && r.Status == Done {
						r.Stx = syntax.WithFlippedScope(r.Stx, s)
					} else if err == nil && r.Status == Blocked {
						r.Cont = wrap(r.Cont)
					}
					return r, err
				}
			}
			q.pushBlocked(t, res.Signal, wrap(res.Cont))
		}
		return nil
	}
	return experr.Unknown(head.Text, head)
}

// complete assembles term into t.target and spawns one child task per
// pending position it discovers, sharing t's phase and category.
func (e *Engine) complete(q *queue, t *task, term *core.Term) {
	pendings := core.UnzonkInto(e.graph, &e.nodeAlloc, t.target, term)
	for _, p := range pendings {
		child := &task{id: e.freshTaskID(), target: p.Node, ph: t.ph, cat: t.cat, stx: p.Stx}
		q.pushReady(child)
	}
}

// headOf identifies the head of stx: the whole
// syntax object if it is itself an identifier (a bare variable reference,
// "headed" false), or the leading identifier of a list/vector ("headed"
// true, with everything else left to the caller). A list/vector with no
// leading identifier, or any other payload, has no head: the form is a
// literal.
func headOf(stx *syntax.Syntax) (*syntax.Syntax, bool) {
	switch stx.Kind {
	case syntax.Ident:
		return stx, false
	case syntax.List, syntax.Vec:
		if len(stx.Children) > 0 && stx.Children[0].Kind == syntax.Ident {
			return stx.Children[0], true
		}
	}
	return nil, false
}
