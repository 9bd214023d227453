package engine

import (
	"github.com/thistle-lang/expander/lang/core"
	"github.com/thistle-lang/expander/lang/evalue"
	"github.com/thistle-lang/expander/lang/experr"
	"github.com/thistle-lang/expander/lang/phase"
	"github.com/thistle-lang/expander/lang/syntax"
)

// primQuote implements (quote datum): one sub-form, translated directly to
// a core quote node without ever being expanded.
func primQuote(eng *Engine, ctx *primCtx) (*core.Term, error) {
	_, rest, err := eng.mustBeCons(ctx.Stx)
	if err != nil {
		return nil, err
	}
	if len(rest) != 1 {
		return nil, experr.NotCons(ctx.Stx)
	}
	return &core.Term{Kind: core.KindQuote, Datum: rest[0]}, nil
}

// primApp implements (#%app fn arg...): an explicit application whose every
// position, callee included, is expanded as an ordinary child task.
func primApp(eng *Engine, ctx *primCtx) (*core.Term, error) {
	_, rest, err := eng.mustBeCons(ctx.Stx)
	if err != nil {
		return nil, err
	}
	if len(rest) == 0 {
		return nil, experr.NotCons(ctx.Stx)
	}
	return &core.Term{
		Kind:            core.KindApp,
		ChildrenKnown:   make([]*core.Term, len(rest)),
		ChildrenPending: rest,
	}, nil
}

// primLambda implements (lambda [params...] body...): the
// hygiene rule applied to a binding form rather than a macro invocation,
// a fresh scope is inserted (not flipped) into every parameter and body
// form, and each parameter is bound to a VarMacro whose core term is a
// reference to that parameter's own binding.
func primLambda(eng *Engine, ctx *primCtx) (*core.Term, error) {
	_, rest, err := eng.mustBeCons(ctx.Stx)
	if err != nil {
		return nil, err
	}
	if len(rest) < 1 {
		return nil, experr.NotCons(ctx.Stx)
	}
	paramsStx, bodyForms := rest[0], rest[1:]
	if len(bodyForms) == 0 {
		return nil, experr.NotCons(ctx.Stx)
	}
	if paramsStx.Kind != syntax.Vec {
		return nil, experr.NotRightLength(len(paramsStx.Children), paramsStx)
	}

	s := eng.scopes.Fresh()
	scopedParams := syntax.WithInsertedScope(paramsStx, s)

	var paramIDs []any
	for _, p := range scopedParams.Children {
		text, err := eng.mustBeIdent(p)
		if err != nil {
			return nil, err
		}
		bID := eng.bindingAlloc.Fresh()
		eng.bindings.Add(text, p.Scopes, bID)
		eng.env.Bind(ctx.Phase, bID, evalue.NewVarMacro(&core.Term{Kind: core.KindRef, RefBinding: bID}))
		paramIDs = append(paramIDs, bID)
	}

	scopedBody := make([]*syntax.Syntax, len(bodyForms))
	for i, b := range bodyForms {
		scopedBody[i] = syntax.WithInsertedScope(b, s)
	}

	term := &core.Term{Kind: core.KindLambda, Params: paramIDs}
	if len(scopedBody) == 1 {
		term.BodyPending = scopedBody[0]
	} else {
		term.BodyKnown = &core.Term{
			Kind:            core.KindSeq,
			ChildrenKnown:   make([]*core.Term, len(scopedBody)),
			ChildrenPending: scopedBody,
		}
	}
	return term, nil
}

// primLetSyntax implements (let-syntax [name transformer-expr] body...):
// transformer-expr is expanded and evaluated at phase+1 to obtain a
// first-class macro function, name is bound to it as a UserMacro in the
// current phase (scoped per the hygiene-rule's insert-a-fresh-scope
// pattern for binding forms), and body is expanded as an implicit
// sequence.
func primLetSyntax(eng *Engine, ctx *primCtx) (*core.Term, error) {
	_, rest, err := eng.mustBeCons(ctx.Stx)
	if err != nil {
		return nil, err
	}
	if len(rest) < 1 {
		return nil, experr.NotCons(ctx.Stx)
	}
	bindingVec, bodyForms := rest[0], rest[1:]
	if len(bodyForms) == 0 {
		return nil, experr.NotCons(ctx.Stx)
	}

	pair, err := eng.mustBeVec(2, bindingVec)
	if err != nil {
		return nil, err
	}
	nameStx, transformerStx := pair[0], pair[1]
	name, err := eng.mustBeIdent(nameStx)
	if err != nil {
		return nil, err
	}

	macroVal, err := eng.evalTransformer(transformerStx, ctx.Phase)
	if err != nil {
		return nil, err
	}

	s := eng.scopes.Fresh()
	scopedName := syntax.WithInsertedScope(nameStx, s)
	mID := eng.bindingAlloc.Fresh()
	eng.bindings.Add(name, scopedName.Scopes, mID)
	eng.env.Bind(ctx.Phase, mID, evalue.NewUserMacro(evalue.Expression, macroVal))

	scopedBody := make([]*syntax.Syntax, len(bodyForms))
	for i, b := range bodyForms {
		scopedBody[i] = syntax.WithInsertedScope(b, s)
	}

	return &core.Term{
		Kind:            core.KindSeq,
		ChildrenKnown:   make([]*core.Term, len(scopedBody)),
		ChildrenPending: scopedBody,
	}, nil
}

// evalTransformer expands transformerStx as an ordinary expression at
// phase+1, in a private queue local to this call, then hands the finished
// fragment to the evaluator to obtain a runtime macro function value. The
// private queue does not participate in the top-level FIFO order and does
// not wait on externally-delivered signals: a transformer-expr that itself
// blocks fails the whole let-syntax form with a stuck-expansion diagnostic,
// a documented limitation (no test here exercises a
// blocking transformer-expr).
func (e *Engine) evalTransformer(transformerStx *syntax.Syntax, outerPhase phase.Phase) (any, error) {
	target := e.nodeAlloc.Fresh()
	sub := &queue{}
	sub.pushReady(&task{
		id:     e.freshTaskID(),
		target: target,
		ph:     outerPhase.Shift(1),
		cat:    evalue.Expression,
		stx:    transformerStx,
	})
	if err := e.drive(sub, false); err != nil {
		return nil, err
	}
	return e.evaluator.EvalCore(e.graph, target, outerPhase.Shift(1))
}
