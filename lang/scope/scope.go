// Package scope implements the Scope and ScopeSet algebra: the atoms and
// sets of them that tag every identifier occurrence produced by the reader
// and rewritten by the expander.
package scope

import "fmt"

// Scope is an opaque token with only equality and total ordering. Scopes are
// allocated by a Counter and are never equal to any other scope, including
// ones allocated by a different Counter. Comparing scopes minted by two
// different expansions is a programming error the caller must avoid.
type Scope uint64

// String renders the scope for diagnostics, e.g. in printed syntax or error
// messages; it carries no meaning beyond identity.
func (s Scope) String() string { return fmt.Sprintf("scope#%d", uint64(s)) }

// Less gives Scope its total ordering. It exists mainly so scopes can be
// used as map keys or sorted deterministically in tests; the resolver itself
// never depends on the relative order of two scopes, only on set membership
// and set size (see ScopeSet).
func (s Scope) Less(o Scope) bool { return s < o }

// Counter mints fresh scopes. The zero Counter is ready to use and starts
// handing out scope 1 (0 is reserved so that a zero-valued Scope is never
// confused with a real one).
type Counter struct {
	next uint64
}

// Fresh allocates and returns a new Scope, guaranteed distinct from every
// scope previously returned by this Counter.
func (c *Counter) Fresh() Scope {
	c.next++
	return Scope(c.next)
}
