package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thistle-lang/expander/lang/syntax"
)

func TestStringRendersLitAndApp(t *testing.T) {
	g := NewGraph()
	g.Nodes.Put(1, Shape{Kind: KindLit, Datum: syntax.NewSignal(42, syntax.SrcLoc{})})
	assert.Equal(t, "(lit 42)", String(g, 1))

	g.Nodes.Put(2, Shape{Kind: KindApp, Children: []NodeId{1, 1}})
	assert.Equal(t, "(app (lit 42) (lit 42))", String(g, 2))
}

func TestStringRendersPendingHoleAsPlaceholder(t *testing.T) {
	g := NewGraph()
	assert.Equal(t, "<pending>", String(g, 99))
}
