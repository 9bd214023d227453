package scope

import (
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Set is a finite, immutable set of scopes. The zero Set is the empty set
// and is ready to use. Every operation returns a new Set; none of them
// mutate the receiver, matching the data model's "ScopeSets are
// value-typed; all operations are pure."
//
// Scopes are dense, small, non-negative integers handed out by a single
// Counter per expansion, so membership is stored in a bitset rather than a
// hash set: union, intersection and subset tests run in O(words), and Size
// is an exact popcount rather than a map length.
type Set struct {
	bits *bitset.BitSet
}

// Empty is the empty ScopeSet.
var Empty = Set{}

func (s Set) clone() *bitset.BitSet {
	if s.bits == nil {
		return bitset.New(0)
	}
	return s.bits.Clone()
}

// Insert returns a new set with sc added.
func (s Set) Insert(sc Scope) Set {
	b := s.clone()
	b.Set(uint(sc))
	return Set{bits: b}
}

// Remove returns a new set with sc removed, if present.
func (s Set) Remove(sc Scope) Set {
	b := s.clone()
	b.Clear(uint(sc))
	return Set{bits: b}
}

// Flip returns a new set with sc's membership toggled: present scopes are
// removed, absent scopes are added. This is the primitive the hygienic
// macro-introduction rule uses to add a fresh scope to a macro's input
// before expansion and to the same scope in its output afterward, so that
// scopes introduced only by the macro's own template survive while ones
// present on both sides cancel out.
func (s Set) Flip(sc Scope) Set {
	b := s.clone()
	b.Flip(uint(sc))
	return Set{bits: b}
}

// Union returns the set union of s and o.
func (s Set) Union(o Set) Set {
	if s.bits == nil {
		return Set{bits: o.clone()}
	}
	return Set{bits: s.bits.Union(o.clone())}
}

// Intersection returns the set intersection of s and o.
func (s Set) Intersection(o Set) Set {
	if s.bits == nil || o.bits == nil {
		return Empty
	}
	return Set{bits: s.bits.Intersection(o.bits)}
}

// IsSubsetOf reports whether every scope in s is also in o.
func (s Set) IsSubsetOf(o Set) bool {
	if s.bits == nil {
		return true
	}
	if o.bits == nil {
		return s.bits.None()
	}
	return o.bits.IsSuperSet(s.bits)
}

// Size returns the cardinality of the set.
func (s Set) Size() int {
	if s.bits == nil {
		return 0
	}
	return int(s.bits.Count())
}

// Equal reports whether s and o contain exactly the same scopes. This is
// structural equality, as required by the data model: two distinct Set
// values with the same members compare equal.
func (s Set) Equal(o Set) bool {
	switch {
	case s.bits == nil && o.bits == nil:
		return true
	case s.bits == nil:
		return o.bits.None()
	case o.bits == nil:
		return s.bits.None()
	default:
		return s.bits.Equal(o.bits)
	}
}

// Scopes returns the members of s in increasing order. The returned slice is
// owned by the caller.
func (s Set) Scopes() []Scope {
	if s.bits == nil {
		return nil
	}
	out := make([]Scope, 0, s.bits.Count())
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		out = append(out, Scope(i))
	}
	return out
}

// String renders the set for diagnostics as e.g. "{scope#1,scope#3}".
func (s Set) String() string {
	scs := s.Scopes()
	parts := make([]string, len(scs))
	for i, sc := range scs {
		parts[i] = sc.String()
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}

// FromScopes builds a Set containing exactly the given scopes.
func FromScopes(scs ...Scope) Set {
	s := Empty
	for _, sc := range scs {
		s = s.Insert(sc)
	}
	return s
}
