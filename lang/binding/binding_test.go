package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thistle-lang/expander/lang/scope"
	"github.com/thistle-lang/expander/lang/syntax"
)

func TestResolveUnknown(t *testing.T) {
	tbl := NewTable()
	id := syntax.NewIdent("x", syntax.SrcLoc{})
	_, err := tbl.Resolve(id)
	assert.Error(t, err)
}

func TestResolveNotIdentifier(t *testing.T) {
	tbl := NewTable()
	lit := syntax.NewSignal(1, syntax.SrcLoc{})
	_, err := tbl.Resolve(lit)
	assert.Error(t, err)
}

func TestResolveUniqueMatch(t *testing.T) {
	var sc scope.Counter
	var alloc Allocator
	s1 := sc.Fresh()

	tbl := NewTable()
	b1 := alloc.Fresh()
	tbl.Add("x", scope.Empty.Insert(s1), b1)

	id := syntax.NewIdent("x", syntax.SrcLoc{})
	id = id.WithScopes(scope.Empty.Insert(s1))

	got, err := tbl.Resolve(id)
	assert.NoError(t, err)
	assert.Equal(t, b1, got)
}

func TestResolveLargestScopeSetWins(t *testing.T) {
	var sc scope.Counter
	var alloc Allocator
	s1, s2 := sc.Fresh(), sc.Fresh()

	tbl := NewTable()
	outer := alloc.Fresh()
	inner := alloc.Fresh()
	tbl.Add("x", scope.Empty.Insert(s1), outer)
	tbl.Add("x", scope.Empty.Insert(s1).Insert(s2), inner)

	use := syntax.NewIdent("x", syntax.SrcLoc{}).WithScopes(scope.Empty.Insert(s1).Insert(s2))
	got, err := tbl.Resolve(use)
	assert.NoError(t, err)
	assert.Equal(t, inner, got)
}

func TestResolveAmbiguousOnTie(t *testing.T) {
	var sc scope.Counter
	var alloc Allocator
	s1, s2 := sc.Fresh(), sc.Fresh()

	tbl := NewTable()
	b1, b2 := alloc.Fresh(), alloc.Fresh()
	// two distinct candidates, each of size 1, neither a subset of the other
	tbl.Add("x", scope.Empty.Insert(s1), b1)
	tbl.Add("x", scope.Empty.Insert(s2), b2)

	use := syntax.NewIdent("x", syntax.SrcLoc{}).WithScopes(scope.Empty.Insert(s1).Insert(s2))
	_, err := tbl.Resolve(use)
	assert.Error(t, err)
}

func TestAllMatching(t *testing.T) {
	var sc scope.Counter
	var alloc Allocator
	s1 := sc.Fresh()

	tbl := NewTable()
	b1 := alloc.Fresh()
	tbl.Add("x", scope.Empty.Insert(s1), b1)
	tbl.Add("y", scope.Empty.Insert(s1), alloc.Fresh())

	matches := tbl.AllMatching("x", scope.Empty.Insert(s1))
	assert.Len(t, matches, 1)
	assert.Equal(t, b1, matches[0].ID)
}
