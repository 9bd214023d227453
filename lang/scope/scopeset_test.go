package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeSetAlgebra(t *testing.T) {
	var c Counter
	s1, s2, s3 := c.Fresh(), c.Fresh(), c.Fresh()

	empty := Empty
	assert.Equal(t, 0, empty.Size())

	a := empty.Insert(s1).Insert(s2)
	assert.Equal(t, 2, a.Size())
	assert.True(t, a.IsSubsetOf(a))
	assert.False(t, a.IsSubsetOf(empty))

	b := empty.Insert(s2)
	assert.True(t, b.IsSubsetOf(a))
	assert.False(t, a.IsSubsetOf(b))

	u := a.Union(empty.Insert(s3))
	assert.Equal(t, 3, u.Size())
	assert.True(t, a.IsSubsetOf(u))

	i := a.Intersection(b)
	assert.True(t, i.Equal(b))

	removed := a.Remove(s1)
	assert.True(t, removed.Equal(b))
}

func TestScopeSetFlipCancels(t *testing.T) {
	var c Counter
	s1 := c.Fresh()

	a := Empty.Insert(s1)
	flippedTwice := a.Flip(s1).Flip(s1)
	assert.True(t, a.Equal(flippedTwice))

	flippedOnce := a.Flip(s1)
	assert.True(t, flippedOnce.Equal(Empty))
}

func TestScopeSetDistinctSameSize(t *testing.T) {
	// the resolver depends on two distinct scope sets being allowed to share
	// a size; this is not a degenerate or forbidden case.
	var c Counter
	s1, s2, s3 := c.Fresh(), c.Fresh(), c.Fresh()

	a := Empty.Insert(s1).Insert(s2)
	b := Empty.Insert(s1).Insert(s3)
	assert.Equal(t, a.Size(), b.Size())
	assert.False(t, a.Equal(b))
}

func TestScopeSetStructuralEquality(t *testing.T) {
	var c Counter
	s1, s2 := c.Fresh(), c.Fresh()

	a := Empty.Insert(s1).Insert(s2)
	b := Empty.Insert(s2).Insert(s1) // different insertion order
	assert.True(t, a.Equal(b))
}

func TestFromScopes(t *testing.T) {
	var c Counter
	s1, s2 := c.Fresh(), c.Fresh()
	assert.True(t, FromScopes(s1, s2).Equal(Empty.Insert(s1).Insert(s2)))
}
