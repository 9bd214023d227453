package coreval_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thistle-lang/expander/lang/binding"
	"github.com/thistle-lang/expander/lang/core"
	"github.com/thistle-lang/expander/lang/coreval"
	"github.com/thistle-lang/expander/lang/phase"
	"github.com/thistle-lang/expander/lang/syntax"
)

func TestEvalCoreLiteral(t *testing.T) {
	g := core.NewGraph()
	g.Root = 1
	g.Nodes.Put(g.Root, core.Shape{Kind: core.KindLit, Datum: syntax.NewSignal(42, syntax.SrcLoc{})})

	ev := coreval.NewEvaluator()
	v, err := ev.EvalCore(g, g.Root, phase.Runtime)
	require.NoError(t, err)
	assert.Equal(t, coreval.Int(42), v)
}

func TestEvalCoreQuoteProducesSyntaxVal(t *testing.T) {
	datum := syntax.NewIdent("lambda", syntax.SrcLoc{})
	g := core.NewGraph()
	g.Root = 1
	g.Nodes.Put(g.Root, core.Shape{Kind: core.KindQuote, Datum: datum})

	ev := coreval.NewEvaluator()
	v, err := ev.EvalCore(g, g.Root, phase.Runtime)
	require.NoError(t, err)
	sv, ok := v.(coreval.SyntaxVal)
	require.True(t, ok)
	assert.True(t, syntax.Equal(datum, sv.Stx))
}

func TestEvalCoreLambdaApplication(t *testing.T) {
	// Built directly at the core-term level, without the reader or the
	// engine: (lambda [x] x) applied to the literal 42.
	var alloc core.Allocator
	var balloc binding.Allocator
	g := core.NewGraph()

	paramID := balloc.Fresh()
	bodyID := alloc.Fresh()
	g.Nodes.Put(bodyID, core.Shape{Kind: core.KindRef, RefBinding: paramID})

	lambdaID := alloc.Fresh()
	g.Nodes.Put(lambdaID, core.Shape{Kind: core.KindLambda, Params: []any{paramID}, Body: bodyID})

	argID := alloc.Fresh()
	g.Nodes.Put(argID, core.Shape{Kind: core.KindLit, Datum: syntax.NewSignal(42, syntax.SrcLoc{})})

	appID := alloc.Fresh()
	g.Nodes.Put(appID, core.Shape{Kind: core.KindApp, Children: []core.NodeId{lambdaID, argID}})
	g.Root = appID

	ev := coreval.NewEvaluator()
	v, err := ev.EvalCore(g, g.Root, phase.Runtime)
	require.NoError(t, err)
	assert.Equal(t, coreval.Int(42), v)
}

func TestEvalCoreUnboundReferenceFails(t *testing.T) {
	g := core.NewGraph()
	g.Root = 1
	g.Nodes.Put(g.Root, core.Shape{Kind: core.KindRef, RefBinding: binding.ID(999)})

	ev := coreval.NewEvaluator()
	_, err := ev.EvalCore(g, g.Root, phase.Runtime)
	assert.Error(t, err)
}
