package syntax

import "github.com/thistle-lang/expander/lang/scope"

// NewIdent returns a fresh identifier syntax object with an empty scope set.
func NewIdent(text string, loc SrcLoc) *Syntax {
	return &Syntax{Kind: Ident, Text: text, Loc: loc}
}

// NewSignal returns a fresh natural-number literal syntax object.
func NewSignal(n uint64, loc SrcLoc) *Syntax {
	return &Syntax{Kind: Signal, Signal: n, Loc: loc}
}

// NewBool returns a fresh boolean literal syntax object.
func NewBool(b bool, loc SrcLoc) *Syntax {
	return &Syntax{Kind: Bool, BoolVal: b, Loc: loc}
}

// NewStr returns a fresh string literal syntax object.
func NewStr(s string, loc SrcLoc) *Syntax {
	return &Syntax{Kind: Str, Text: s, Loc: loc}
}

// NewList returns a fresh parenthesized-list syntax object.
func NewList(children []*Syntax, loc SrcLoc) *Syntax {
	return &Syntax{Kind: List, Children: children, Loc: loc}
}

// NewVec returns a fresh bracketed-vector syntax object.
func NewVec(children []*Syntax, loc SrcLoc) *Syntax {
	return &Syntax{Kind: Vec, Children: children, Loc: loc}
}

// WithInsertedScope is a convenience for the common hygiene operation of
// inserting a single fresh scope into every node of a tree.
func WithInsertedScope(stx *Syntax, sc scope.Scope) *Syntax {
	return AdjustScopes(stx, func(s scope.Set) scope.Set { return s.Insert(sc) })
}

// WithFlippedScope toggles a single scope across every node of a tree; see
// AdjustScopes and the hygiene rule applied during macro expansion.
func WithFlippedScope(stx *Syntax, sc scope.Scope) *Syntax {
	return AdjustScopes(stx, func(s scope.Set) scope.Set { return s.Flip(sc) })
}
