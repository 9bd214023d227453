// Package coreval is the reference evaluator: a small tree-walking
// interpreter that runs a finished (or finishable) partial core graph and
// implements package engine's Evaluator interface, so a let-syntax
// transformer-expr can be turned into a callable macro function and a user
// macro's body can actually execute.
package coreval

import (
	"strconv"

	"github.com/thistle-lang/expander/lang/syntax"
)

// Value is the trimmed value contract every runtime value implements: just
// enough to print, name and branch on a value, without the full numeric
// tower, ordering or attribute protocol a general-purpose language needs
// and this one does not.
type Value interface {
	String() string
	Type() string
	Truth() bool
}

// Int is a signal literal's runtime value.
type Int uint64

func (i Int) String() string { return strconv.FormatUint(uint64(i), 10) }
func (i Int) Type() string   { return "int" }
func (i Int) Truth() bool    { return i != 0 }

// Bool is a boolean literal's runtime value.
type Bool bool

func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b Bool) Type() string { return "bool" }
func (b Bool) Truth() bool  { return bool(b) }

// Str is a string literal's runtime value.
type Str string

func (s Str) String() string { return strconv.Quote(string(s)) }
func (s Str) Type() string   { return "string" }
func (s Str) Truth() bool    { return len(s) > 0 }

// SyntaxVal wraps a syntax object as a runtime value: this is how quote
// hands a macro its literal datum, and how a macro manipulates code as
// data via cons/car/cdr/list before handing the result back to the
// engine. Source syntax that already has children (List, Vec) doubles as
// the language's only list representation: there is no separate pair
// type, since the core grammar never needs dotted pairs.
type SyntaxVal struct {
	Stx *syntax.Syntax
}

func NewSyntaxVal(stx *syntax.Syntax) SyntaxVal { return SyntaxVal{Stx: stx} }

func (s SyntaxVal) String() string { return s.Stx.Loc.String() }
func (s SyntaxVal) Type() string   { return "syntax" }
func (s SyntaxVal) Truth() bool    { return true }

var (
	_ Value = Int(0)
	_ Value = Bool(false)
	_ Value = Str("")
	_ Value = SyntaxVal{}
)
