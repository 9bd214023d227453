package coreval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thistle-lang/expander/lang/core"
	"github.com/thistle-lang/expander/lang/coreval"
	"github.com/thistle-lang/expander/lang/engine"
	"github.com/thistle-lang/expander/lang/phase"
	"github.com/thistle-lang/expander/lang/syntax"
)

func loc() syntax.SrcLoc { return syntax.SrcLoc{} }

func TestEndToEndLambdaApplication(t *testing.T) {
	ev := coreval.NewEvaluator()
	eng := engine.New(ev)
	coreval.Install(eng, ev)

	// (#%app (lambda [x] x) 42)
	form := syntax.NewList([]*syntax.Syntax{
		syntax.NewIdent("#%app", loc()),
		syntax.NewList([]*syntax.Syntax{
			syntax.NewIdent("lambda", loc()),
			syntax.NewVec([]*syntax.Syntax{syntax.NewIdent("x", loc())}, loc()),
			syntax.NewIdent("x", loc()),
		}, loc()),
		syntax.NewSignal(42, loc()),
	}, loc())

	g, err := eng.ExpandExpression(form)
	require.NoError(t, err)

	v, err := ev.EvalCore(g, g.Root, phase.Runtime)
	require.NoError(t, err)
	assert.Equal(t, coreval.Int(42), v)
}

func TestEndToEndLetSyntaxHygienicRewrite(t *testing.T) {
	ev := coreval.NewEvaluator()
	eng := engine.New(ev)
	coreval.Install(eng, ev)

	// (let-syntax [m (lambda [stx] (cons (quote lambda) (cdr stx)))]
	//   (m [x] x))
	transformer := syntax.NewList([]*syntax.Syntax{
		syntax.NewIdent("lambda", loc()),
		syntax.NewVec([]*syntax.Syntax{syntax.NewIdent("stx", loc())}, loc()),
		syntax.NewList([]*syntax.Syntax{
			syntax.NewIdent("cons", loc()),
			syntax.NewList([]*syntax.Syntax{syntax.NewIdent("quote", loc()), syntax.NewIdent("lambda", loc())}, loc()),
			syntax.NewList([]*syntax.Syntax{syntax.NewIdent("cdr", loc()), syntax.NewIdent("stx", loc())}, loc()),
		}, loc()),
	}, loc())

	mUse := syntax.NewList([]*syntax.Syntax{
		syntax.NewIdent("m", loc()),
		syntax.NewVec([]*syntax.Syntax{syntax.NewIdent("x", loc())}, loc()),
		syntax.NewIdent("x", loc()),
	}, loc())

	form := syntax.NewList([]*syntax.Syntax{
		syntax.NewIdent("let-syntax", loc()),
		syntax.NewVec([]*syntax.Syntax{syntax.NewIdent("m", loc()), transformer}, loc()),
		mUse,
	}, loc())

	g, err := eng.ExpandExpression(form)
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

func TestEndToEndAwaitSignalBlocksAndResumes(t *testing.T) {
	ev := coreval.NewEvaluator()
	eng := engine.New(ev)
	coreval.Install(eng, ev)

	// (let-syntax [m (lambda [stx] (cons (quote await-signal) (list (await-signal 7))))]
	//   (m))
	//
	// m's transformer calls await-signal itself, so the macro function
	// blocks on signal 7 before it can decide what to return. Once resumed
	// it returns the syntax (await-signal 7), which then expands as an
	// ordinary application.
	transformer := syntax.NewList([]*syntax.Syntax{
		syntax.NewIdent("lambda", loc()),
		syntax.NewVec([]*syntax.Syntax{syntax.NewIdent("stx", loc())}, loc()),
		syntax.NewList([]*syntax.Syntax{
			syntax.NewIdent("cons", loc()),
			syntax.NewList([]*syntax.Syntax{syntax.NewIdent("quote", loc()), syntax.NewIdent("await-signal", loc())}, loc()),
			syntax.NewList([]*syntax.Syntax{
				syntax.NewIdent("list", loc()),
				syntax.NewList([]*syntax.Syntax{syntax.NewIdent("await-signal", loc()), syntax.NewSignal(7, loc())}, loc()),
			}, loc()),
		}, loc()),
	}, loc())

	mUse := syntax.NewList([]*syntax.Syntax{syntax.NewIdent("m", loc())}, loc())

	form := syntax.NewList([]*syntax.Syntax{
		syntax.NewIdent("let-syntax", loc()),
		syntax.NewVec([]*syntax.Syntax{syntax.NewIdent("m", loc()), transformer}, loc()),
		mUse,
	}, loc())

	done := make(chan struct{})
	var g *core.Graph
	var expandErr error
	go func() {
		g, expandErr = eng.ExpandExpression(form)
		close(done)
	}()

	require.NoError(t, eng.SendSignal(7))
	<-done

	require.NoError(t, expandErr)
	root, ok := g.Nodes.Get(g.Root)
	require.True(t, ok)
	assert.Equal(t, core.KindSeq, root.Kind)
}
