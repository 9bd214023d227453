// Package syntax defines the immutable syntax objects produced by the
// reader and consumed by the expander: a tree of nodes, each carrying a
// scope set, a source location and a payload.
package syntax

import (
	"fmt"

	"github.com/thistle-lang/expander/lang/scope"
	"github.com/thistle-lang/expander/lang/token"
)

// SrcLoc is a file name plus a start and end (line, column), carried for
// diagnostics only. It never participates in the equality of a syntax
// object: two syntax trees that differ only in SrcLoc are the same syntax
// as far as the expander is concerned.
type SrcLoc struct {
	File                string
	StartLine, StartCol int
	EndLine, EndCol     int
}

// String renders the location as "file:line:col".
func (l SrcLoc) String() string {
	if l.File == "" && l.StartLine == 0 {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Position converts the start of l to a go/token.Position, for handing to
// go/scanner.ErrorList-based diagnostics.
func (l SrcLoc) Position() token.Position {
	return token.Position{Filename: l.File, Line: l.StartLine, Column: l.StartCol}
}

// Kind identifies a Syntax node's payload.
type Kind uint8

const (
	// Ident is an identifier: Syntax.Text holds its name.
	Ident Kind = iota
	// Signal is a natural-number literal: Syntax.Signal holds its value.
	Signal
	// Bool is a boolean literal: Syntax.BoolVal holds its value.
	Bool
	// Str is a string literal: Syntax.Text holds its (already-unescaped)
	// value.
	Str
	// List is a parenthesized sequence: Syntax.Children holds its elements.
	List
	// Vec is a bracketed sequence: Syntax.Children holds its elements.
	Vec
)

func (k Kind) String() string {
	switch k {
	case Ident:
		return "ident"
	case Signal:
		return "signal"
	case Bool:
		return "bool"
	case Str:
		return "string"
	case List:
		return "list"
	case Vec:
		return "vec"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// Syntax is an immutable syntax object: a (scope set, source location,
// payload) triple. Every field is read-only after
// construction; the structural operations below (AdjustScopes) build and
// return new trees rather than mutating in place, though they are free to
// share unmodified subtrees.
type Syntax struct {
	Scopes scope.Set
	Loc    SrcLoc
	Kind   Kind

	Text     string  // Ident, Str
	Signal   uint64  // Signal
	BoolVal  bool    // Bool
	Children []*Syntax // List, Vec
}

// IsIdent reports whether stx's payload is Ident.
func (stx *Syntax) IsIdent() bool { return stx.Kind == Ident }

// IsList reports whether stx's payload is a parenthesized List.
func (stx *Syntax) IsList() bool { return stx.Kind == List }

// IsEmptyList reports whether stx is a List with no children, i.e. "()".
func (stx *Syntax) IsEmptyList() bool { return stx.Kind == List && len(stx.Children) == 0 }

// Span implements token.Spanner so syntax nodes can be compared for
// containment with PosInside.
func (stx *Syntax) Span() (start, end token.Pos) {
	return token.MakePos(stx.Loc.StartLine, stx.Loc.StartCol), token.MakePos(stx.Loc.EndLine, stx.Loc.EndCol)
}

// WithScopes returns a shallow copy of stx with its top-level scope set
// replaced by scs; children are untouched (shared, not copied).
func (stx *Syntax) WithScopes(scs scope.Set) *Syntax {
	cp := *stx
	cp.Scopes = scs
	return &cp
}

// AdjustScopes returns a new tree identical to stx except that every node's
// scope set has been replaced by transform(node.Scopes), applied
// structurally (i.e. recursively to every child). This is the primitive
// used both for the hygienic hygiene-flip (transform = Flip(freshScope))
// and for binding forms that insert a fresh scope into bound identifiers.
func AdjustScopes(stx *Syntax, transform func(scope.Set) scope.Set) *Syntax {
	if stx == nil {
		return nil
	}
	cp := *stx
	cp.Scopes = transform(stx.Scopes)
	if len(stx.Children) > 0 {
		cp.Children = make([]*Syntax, len(stx.Children))
		for i, c := range stx.Children {
			cp.Children[i] = AdjustScopes(c, transform)
		}
	}
	return &cp
}

// Equal reports whether a and b denote the same syntax, ignoring source
// location (which is excluded from syntax equality) but comparing
// scope sets and payload structurally.
func Equal(a, b *Syntax) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || !a.Scopes.Equal(b.Scopes) {
		return false
	}
	switch a.Kind {
	case Ident, Str:
		return a.Text == b.Text
	case Signal:
		return a.Signal == b.Signal
	case Bool:
		return a.BoolVal == b.BoolVal
	case List, Vec:
		if len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !Equal(a.Children[i], b.Children[i]) {
				return false
			}
		}
		return true
	}
	return false
}
