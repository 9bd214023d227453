// Package binding implements the binding table and the resolver: a global
// (per expansion) map from identifier text to a list of (scope set,
// binding token) pairs, resolved by a best-match rule over scope-set
// subset and size.
package binding

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/thistle-lang/expander/lang/experr"
	"github.com/thistle-lang/expander/lang/scope"
	"github.com/thistle-lang/expander/lang/syntax"
)

// ID is an opaque token identifying a binding, globally unique within one
// expansion. It carries no data of its own; what a binding means is
// recorded separately, in the phase-indexed expansion environment (package
// evalue), keyed by this ID.
type ID uint64

func (id ID) String() string { return fmt.Sprintf("binding#%d", uint64(id)) }

// Allocator mints fresh, globally-unique binding tokens for one expansion.
type Allocator struct {
	next uint64
}

// Fresh allocates a new binding token.
func (a *Allocator) Fresh() ID {
	a.next++
	return ID(a.next)
}

type candidate struct {
	scopes scope.Set
	id     ID
}

// Table is the binding table: identifier text to an ordered list of
// (ScopeSet, ID) candidates. It only ever grows during one expansion; no
// operation removes an entry. The candidate lists are backed by a
// swiss.Map, the same third-party hash map the partial core graph uses
// for its own node arena.
type Table struct {
	m *swiss.Map[string, []candidate]
}

// NewTable returns an empty binding table.
func NewTable() *Table {
	return &Table{m: swiss.NewMap[string, []candidate](64)}
}

// Add prepends a new (scopes, id) candidate for the identifier text. A
// later Add shadows earlier ones only via the resolver's scope-size
// comparison, never by removing prior entries: prepending merely keeps the
// most-recently-added candidate first among ties, which does not affect
// resolution since the winner is chosen purely by scope-set size.
func (t *Table) Add(text string, scs scope.Set, id ID) {
	cands, _ := t.m.Get(text)
	cands = append([]candidate{{scopes: scs, id: id}}, cands...)
	t.m.Put(text, cands)
}

// AllMatching returns, in table order, every (scope set, id) candidate
// registered for text whose scope set is a subset of scs. It is exposed
// directly (distinct from Resolve) because primitive macros occasionally
// need the full candidate set rather than the single best match, e.g. to
// detect a pending ambiguity before committing to a rewrite.
func (t *Table) AllMatching(text string, scs scope.Set) []struct {
	Scopes scope.Set
	ID     ID
} {
	cands, _ := t.m.Get(text)
	var out []struct {
		Scopes scope.Set
		ID     ID
	}
	for _, c := range cands {
		if c.scopes.IsSubsetOf(scs) {
			out = append(out, struct {
				Scopes scope.Set
				ID     ID
			}{c.scopes, c.id})
		}
	}
	return out
}

// Resolve takes an identifier syntax object and returns the binding with
// the largest scope set among those that are a subset of the identifier's
// own scope set. An empty candidate set fails with Unknown; a tie for the
// largest size fails with Ambiguous; a non-identifier payload fails with
// NotIdentifier.
func (t *Table) Resolve(stx *syntax.Syntax) (ID, error) {
	if !stx.IsIdent() {
		return 0, experr.NotIdentifier(stx)
	}

	cands, _ := t.m.Get(stx.Text)
	var (
		bestSize  = -1
		bestID    ID
		bestFound bool
		tied      bool
	)
	for _, c := range cands {
		if !c.scopes.IsSubsetOf(stx.Scopes) {
			continue
		}
		sz := c.scopes.Size()
		switch {
		case sz > bestSize:
			bestSize, bestID, bestFound, tied = sz, c.id, true, false
		case sz == bestSize:
			tied = true
		}
	}

	if !bestFound {
		return 0, experr.Unknown(stx.Text, stx)
	}
	if tied {
		return 0, experr.Ambiguous(stx.Text, stx)
	}
	return bestID, nil
}
