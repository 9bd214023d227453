package coreval

import (
	"fmt"

	"github.com/thistle-lang/expander/lang/binding"
	"github.com/thistle-lang/expander/lang/core"
	"github.com/thistle-lang/expander/lang/syntax"
)

// evalCtx threads the suspension surface through a single evaluation:
// calling awaitSignal blocks the calling goroutine (not the engine driving
// the expansion) until the engine later delivers a matching signal. It is
// nil when evaluating a context that must not suspend (EvalCore), in which
// case await-signal fails outright rather than hanging forever.
type evalCtx struct {
	awaitSignal func(sig uint64) uint64
}

// evalNode tree-walks the finished shape at id within graph, under env.
func evalNode(graph *core.Graph, id core.NodeId, env *Env, ctx *evalCtx) (Value, error) {
	shape, ok := graph.Nodes.Get(id)
	if !ok {
		return nil, fmt.Errorf("coreval: node %s has no shape (still pending)", id)
	}

	switch shape.Kind {
	case core.KindLit:
		return literalValue(shape.Datum), nil

	case core.KindQuote:
		return NewSyntaxVal(shape.Datum), nil

	case core.KindRef:
		id := shape.RefBinding.(binding.ID)
		v, ok := env.lookup(id)
		if !ok {
			return nil, fmt.Errorf("coreval: unbound reference %s at run time", id)
		}
		return v, nil

	case core.KindLambda:
		params := make([]binding.ID, len(shape.Params))
		for i, p := range shape.Params {
			params[i] = p.(binding.ID)
		}
		return &Closure{Params: params, Body: shape.Body, Graph: graph, Env: env}, nil

	case core.KindApp:
		if len(shape.Children) == 0 {
			return nil, fmt.Errorf("coreval: application with no function position")
		}
		fn, err := evalNode(graph, shape.Children[0], env, ctx)
		if err != nil {
			return nil, err
		}
		args := make([]Value, len(shape.Children)-1)
		for i, child := range shape.Children[1:] {
			v, err := evalNode(graph, child, env, ctx)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return apply(fn, args, ctx)

	case core.KindSeq:
		var last Value
		for _, child := range shape.Children {
			v, err := evalNode(graph, child, env, ctx)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil

	default:
		return nil, fmt.Errorf("coreval: unhandled core node kind %s", shape.Kind)
	}
}

// literalValue converts a literal datum's syntax payload to a runtime
// value. A datum shaped as a list or vector (quote's argument, say, never
// reaches here: it is stored as KindQuote, not KindLit) falls back to a
// SyntaxVal so no literal datum is ever silently dropped.
func literalValue(stx *syntax.Syntax) Value {
	switch stx.Kind {
	case syntax.Signal:
		return Int(stx.Signal)
	case syntax.Bool:
		return Bool(stx.BoolVal)
	case syntax.Str:
		return Str(stx.Text)
	default:
		return NewSyntaxVal(stx)
	}
}
