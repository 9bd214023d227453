// Package experr defines the expansion engine's error taxonomy
// (ExpansionErr) and re-exports the ErrorList aggregator the reader and
// scanner also use, so every stage shares one vocabulary for
// position-tagged diagnostics.
package experr

import (
	"fmt"
	goscanner "go/scanner"
	gotoken "go/token"

	"github.com/thistle-lang/expander/lang/syntax"
)

// ErrorList aggregates zero or more positioned errors, e.g. from the
// scanner or reader, which may legitimately want to report more than one
// syntax mistake per run. The expansion engine itself never uses this type:
// every expansion failure is fatal and there is no local
// retry, so the engine always returns at most one ExpansionErr.
type (
	Error     = goscanner.Error
	ErrorList = goscanner.ErrorList
)

// PrintError is a convenience re-export, matching the scanner and reader
// packages' own PrintError helpers.
var PrintError = goscanner.PrintError

// Kind enumerates the ExpansionErr cases.
type Kind uint8

const (
	KindAmbiguous Kind = iota
	KindUnknown
	KindNotIdentifier
	KindNotEmpty
	KindNotCons
	KindNotRightLength
	KindWrongCategory
	KindStuckExpansion
)

func (k Kind) String() string {
	switch k {
	case KindAmbiguous:
		return "ambiguous"
	case KindUnknown:
		return "unknown"
	case KindNotIdentifier:
		return "not-identifier"
	case KindNotEmpty:
		return "not-empty"
	case KindNotCons:
		return "not-cons"
	case KindNotRightLength:
		return "not-right-length"
	case KindWrongCategory:
		return "wrong-category"
	case KindStuckExpansion:
		return "stuck-expansion"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// ExpansionErr is the single fatal error returned by a failed expansion
// call. It pairs a Kind with whatever detail that kind carries and, when
// available, the offending syntax's source location.
type ExpansionErr struct {
	Kind Kind

	Text string // Ambiguous, Unknown: the identifier's text
	N    int    // NotRightLength: the expected vector length

	WantCategory, GotCategory string // WrongCategory

	Task uint64 // StuckExpansion: a representative blocked task id

	Stx *syntax.Syntax // the offending syntax object, if any
}

func (e *ExpansionErr) Error() string {
	loc := "<unknown>"
	if e.Stx != nil {
		loc = e.Stx.Loc.String()
	}
	switch e.Kind {
	case KindAmbiguous:
		return fmt.Sprintf("%s: ambiguous binding for %q", loc, e.Text)
	case KindUnknown:
		return fmt.Sprintf("%s: unbound identifier %q", loc, e.Text)
	case KindNotIdentifier:
		return fmt.Sprintf("%s: expected an identifier", loc)
	case KindNotEmpty:
		return fmt.Sprintf("%s: expected an empty list", loc)
	case KindNotCons:
		return fmt.Sprintf("%s: expected a non-empty list", loc)
	case KindNotRightLength:
		return fmt.Sprintf("%s: expected a vector of length %d", loc, e.N)
	case KindWrongCategory:
		return fmt.Sprintf("%s: macro used as %s but only valid as %s", loc, e.WantCategory, e.GotCategory)
	case KindStuckExpansion:
		return fmt.Sprintf("stuck expansion: task %d is blocked and no task can make progress", e.Task)
	default:
		return fmt.Sprintf("%s: expansion error (%s)", loc, e.Kind)
	}
}

// Position renders the offending syntax's location as a go/token.Position,
// suitable for handing to an ErrorList-based printer alongside reader
// errors.
func (e *ExpansionErr) Position() gotoken.Position {
	if e.Stx == nil {
		return gotoken.Position{}
	}
	return e.Stx.Loc.Position()
}

func Ambiguous(text string, stx *syntax.Syntax) error {
	return &ExpansionErr{Kind: KindAmbiguous, Text: text, Stx: stx}
}

func Unknown(text string, stx *syntax.Syntax) error {
	return &ExpansionErr{Kind: KindUnknown, Text: text, Stx: stx}
}

func NotIdentifier(stx *syntax.Syntax) error {
	return &ExpansionErr{Kind: KindNotIdentifier, Stx: stx}
}

func NotEmpty(stx *syntax.Syntax) error {
	return &ExpansionErr{Kind: KindNotEmpty, Stx: stx}
}

func NotCons(stx *syntax.Syntax) error {
	return &ExpansionErr{Kind: KindNotCons, Stx: stx}
}

func NotRightLength(n int, stx *syntax.Syntax) error {
	return &ExpansionErr{Kind: KindNotRightLength, N: n, Stx: stx}
}

func WrongCategory(want, got string, stx *syntax.Syntax) error {
	return &ExpansionErr{Kind: KindWrongCategory, WantCategory: want, GotCategory: got, Stx: stx}
}

func StuckExpansion(task uint64) error {
	return &ExpansionErr{Kind: KindStuckExpansion, Task: task}
}
