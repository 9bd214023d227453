package evalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thistle-lang/expander/lang/phase"
)

func TestEnvironmentLookupMiss(t *testing.T) {
	env := NewEnvironment()
	_, ok := env.Lookup(phase.Runtime, 1)
	assert.False(t, ok)
}

func TestEnvironmentBindAndLookup(t *testing.T) {
	env := NewEnvironment()
	v := NewVarMacro(42)
	env.Bind(phase.Runtime, 7, v)

	got, ok := env.Lookup(phase.Runtime, 7)
	assert.True(t, ok)
	assert.Equal(t, VarMacro, got.Kind())
	assert.Equal(t, 42, got.Core())
}

func TestEnvironmentShiftPhase(t *testing.T) {
	env := NewEnvironment()
	env.Bind(phase.Runtime, 1, NewUserMacro(Expression, "transformer"))

	shifted := phase.Shift(1, env)
	_, ok := shifted.Lookup(phase.Runtime, 1)
	assert.False(t, ok)

	got, ok := shifted.Lookup(phase.Runtime.Shift(1), 1)
	assert.True(t, ok)
	assert.Equal(t, UserMacro, got.Kind())
	assert.Equal(t, Expression, got.Category())

	// original environment untouched
	_, stillThere := env.Lookup(phase.Runtime, 1)
	assert.True(t, stillThere)
}
