package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thistle-lang/expander/lang/core"
	"github.com/thistle-lang/expander/lang/phase"
	"github.com/thistle-lang/expander/lang/syntax"
)

// fakeEvaluator is a test double for the external macro-invocation
// collaborator; it never needs to run real core terms, only to exercise
// the engine's own dispatch and suspension bookkeeping.
type fakeEvaluator struct {
	invoke   func(macroValue any, stx *syntax.Syntax) (Result, error)
	evalCore func(graph *core.Graph, root core.NodeId, ph phase.Phase) (any, error)
}

func (f *fakeEvaluator) Invoke(macroValue any, stx *syntax.Syntax) (Result, error) {
	return f.invoke(macroValue, stx)
}

func (f *fakeEvaluator) EvalCore(graph *core.Graph, root core.NodeId, ph phase.Phase) (any, error) {
	return f.evalCore(graph, root, ph)
}

func loc() syntax.SrcLoc { return syntax.SrcLoc{} }

func TestLiteralExpandsDirectly(t *testing.T) {
	eng := New(&fakeEvaluator{})
	g, err := eng.ExpandExpression(syntax.NewSignal(42, loc()))
	require.NoError(t, err)

	root, ok := g.Nodes.Get(g.Root)
	require.True(t, ok)
	assert.Equal(t, core.KindLit, root.Kind)
	assert.Equal(t, uint64(42), root.Datum.Signal)
}

func TestLambdaBindsParamAndReferencesIt(t *testing.T) {
	eng := New(&fakeEvaluator{})

	// (lambda [x] x)
	x := syntax.NewIdent("x", loc())
	form := syntax.NewList([]*syntax.Syntax{
		syntax.NewIdent("lambda", loc()),
		syntax.NewVec([]*syntax.Syntax{x}, loc()),
		syntax.NewIdent("x", loc()),
	}, loc())

	g, err := eng.ExpandExpression(form)
	require.NoError(t, err)

	root, ok := g.Nodes.Get(g.Root)
	require.True(t, ok)
	require.Equal(t, core.KindLambda, root.Kind)
	require.Len(t, root.Params, 1)

	body, ok := g.Nodes.Get(root.Body)
	require.True(t, ok)
	assert.Equal(t, core.KindRef, body.Kind)
	assert.Equal(t, root.Params[0], body.RefBinding)
}

func TestUnboundIdentifierFails(t *testing.T) {
	eng := New(&fakeEvaluator{})
	form := syntax.NewList([]*syntax.Syntax{syntax.NewIdent("foo", loc())}, loc())

	_, err := eng.ExpandExpression(form)
	assert.Error(t, err)
}

func TestUserMacroHygieneCancelsOnRewrite(t *testing.T) {
	// A user macro bound via let-syntax whose transformer rewrites only
	// the head identifier to "lambda" and passes its remaining sub-forms
	// through unchanged must expand (m [x] x) to the same core shape as a
	// bare (lambda [x] x): the fresh scope the engine flips in before
	// invocation and again after the macro returns cancels out, so it
	// never shadows the parameter x.
	eng := New(&fakeEvaluator{
		evalCore: func(g *core.Graph, root core.NodeId, ph phase.Phase) (any, error) {
			return "rewrite-to-lambda", nil
		},
		invoke: func(macroValue any, stx *syntax.Syntax) (Result, error) {
			rest := stx.Children[1:]
			rewritten := syntax.NewList(append([]*syntax.Syntax{syntax.NewIdent("lambda", loc())}, rest...), loc())
			return Result{Status: Done, Stx: rewritten}, nil
		},
	})

	// (let-syntax [m (lambda [stx] stx)] (m [x] x)); the fake evaluator
	// performs the (cons (quote lambda) (cdr stx)) rewrite itself.
	x := syntax.NewIdent("x", loc())
	mUse := syntax.NewList([]*syntax.Syntax{
		syntax.NewIdent("m", loc()),
		syntax.NewVec([]*syntax.Syntax{x}, loc()),
		syntax.NewIdent("x", loc()),
	}, loc())
	transformer := syntax.NewList([]*syntax.Syntax{
		syntax.NewIdent("lambda", loc()),
		syntax.NewVec([]*syntax.Syntax{syntax.NewIdent("stx", loc())}, loc()),
		syntax.NewIdent("stx", loc()),
	}, loc())
	letSyntax := syntax.NewList([]*syntax.Syntax{
		syntax.NewIdent("let-syntax", loc()),
		syntax.NewVec([]*syntax.Syntax{syntax.NewIdent("m", loc()), transformer}, loc()),
		mUse,
	}, loc())

	g, err := eng.ExpandExpression(letSyntax)
	require.NoError(t, err)

	root, ok := g.Nodes.Get(g.Root)
	require.True(t, ok)
	require.Equal(t, core.KindSeq, root.Kind)
	require.Len(t, root.Children, 1)

	lam, ok := g.Nodes.Get(root.Children[0])
	require.True(t, ok)
	require.Equal(t, core.KindLambda, lam.Kind)
	require.Len(t, lam.Params, 1)

	body, ok := g.Nodes.Get(lam.Body)
	require.True(t, ok)
	assert.Equal(t, core.KindRef, body.Kind)
	assert.Equal(t, lam.Params[0], body.RefBinding)
}

func TestLetSyntaxMacroUsableAtModuleTopLevel(t *testing.T) {
	// let-syntax always registers its macro as Expression category
	// (prims.go's primLetSyntax), but ExpandModuleBody runs top-level forms
	// at Module category; an Expression macro must still be usable there,
	// since Expression is the broadest category there is.
	eng := New(&fakeEvaluator{
		evalCore: func(g *core.Graph, root core.NodeId, ph phase.Phase) (any, error) {
			return "rewrite-to-lambda", nil
		},
		invoke: func(macroValue any, stx *syntax.Syntax) (Result, error) {
			rest := stx.Children[1:]
			rewritten := syntax.NewList(append([]*syntax.Syntax{syntax.NewIdent("lambda", loc())}, rest...), loc())
			return Result{Status: Done, Stx: rewritten}, nil
		},
	})

	// (let-syntax [m (lambda [stx] stx)] (m [x] x)), with the fake evaluator
	// performing the (cons (quote lambda) (cdr stx)) rewrite, used as a
	// top-level module form, not nested inside an expression.
	x := syntax.NewIdent("x", loc())
	mUse := syntax.NewList([]*syntax.Syntax{
		syntax.NewIdent("m", loc()),
		syntax.NewVec([]*syntax.Syntax{x}, loc()),
		syntax.NewIdent("x", loc()),
	}, loc())
	transformer := syntax.NewList([]*syntax.Syntax{
		syntax.NewIdent("lambda", loc()),
		syntax.NewVec([]*syntax.Syntax{syntax.NewIdent("stx", loc())}, loc()),
		syntax.NewIdent("stx", loc()),
	}, loc())
	letSyntax := syntax.NewList([]*syntax.Syntax{
		syntax.NewIdent("let-syntax", loc()),
		syntax.NewVec([]*syntax.Syntax{syntax.NewIdent("m", loc()), transformer}, loc()),
		mUse,
	}, loc())

	g, err := eng.ExpandModuleBody([]*syntax.Syntax{letSyntax})
	require.NoError(t, err)

	root, ok := g.Nodes.Get(g.Root)
	require.True(t, ok)
	require.Equal(t, core.KindSeq, root.Kind)
	require.Len(t, root.Children, 1)

	letBody, ok := g.Nodes.Get(root.Children[0])
	require.True(t, ok)
	require.Equal(t, core.KindSeq, letBody.Kind)
	require.Len(t, letBody.Children, 1)

	lam, ok := g.Nodes.Get(letBody.Children[0])
	require.True(t, ok)
	require.Equal(t, core.KindLambda, lam.Kind)
	require.Len(t, lam.Params, 1)

	body, ok := g.Nodes.Get(lam.Body)
	require.True(t, ok)
	assert.Equal(t, core.KindRef, body.Kind)
	assert.Equal(t, lam.Params[0], body.RefBinding)
}

func TestBlockedTaskResumesAfterSendSignal(t *testing.T) {
	const signal = uint64(7)
	resultStx := syntax.NewSignal(1, loc())

	eng := New(&fakeEvaluator{
		evalCore: func(g *core.Graph, root core.NodeId, ph phase.Phase) (any, error) {
			return "blocking-macro", nil
		},
		invoke: func(macroValue any, stx *syntax.Syntax) (Result, error) {
			return Result{
				Status: Blocked,
				Signal: signal,
				Cont: func(sig uint64) (Result, error) {
					return Result{Status: Done, Stx: resultStx}, nil
				},
			}, nil
		},
	})

	form := syntax.NewList([]*syntax.Syntax{
		syntax.NewIdent("let-syntax", loc()),
		syntax.NewVec([]*syntax.Syntax{
			syntax.NewIdent("m", loc()),
			syntax.NewList([]*syntax.Syntax{
				syntax.NewIdent("lambda", loc()),
				syntax.NewVec([]*syntax.Syntax{syntax.NewIdent("stx", loc())}, loc()),
				syntax.NewIdent("stx", loc()),
			}, loc()),
		}, loc()),
		syntax.NewList([]*syntax.Syntax{syntax.NewIdent("m", loc()), syntax.NewSignal(1, loc())}, loc()),
	}, loc())

	done := make(chan struct{})
	var g *core.Graph
	var expandErr error
	go func() {
		g, expandErr = eng.ExpandExpression(form)
		close(done)
	}()

	require.NoError(t, eng.SendSignal(signal))
	<-done

	require.NoError(t, expandErr)
	root, ok := g.Nodes.Get(g.Root)
	require.True(t, ok)
	assert.Equal(t, core.KindSeq, root.Kind)
}
