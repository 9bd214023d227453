// Package reader implements a recursive-descent parser, with one token of
// lookahead, that turns the tokens scanner.Scanner produces into
// lang/syntax.Syntax trees: parenthesized lists, bracketed vectors,
// identifiers and literals, each carrying an empty initial scope set and a
// populated source location. It never inspects or rewrites a form's head
// identifier; the expander's own head-dispatch rule (see lang/engine)
// resolves applications, so the reader's only job is to turn concrete
// syntax into the corresponding Syntax shape.
package reader

import (
	goscanner "go/scanner"

	"github.com/thistle-lang/expander/lang/scanner"
	"github.com/thistle-lang/expander/lang/syntax"
	"github.com/thistle-lang/expander/lang/token"
)

// Reader parses a single source file.
type Reader struct {
	scanner scanner.Scanner
	errors  goscanner.ErrorList
	file    *token.File
	name    string

	tok token.Token
	val token.Value
}

// NewReader returns a Reader positioned at the first token of src, which is
// registered in fset under name.
func NewReader(fset *token.FileSet, name string, src []byte) *Reader {
	r := &Reader{name: name}
	r.file = fset.AddFile(name, -1, len(src))
	r.scanner.Init(r.file, src, r.errors.Add)
	r.advance()
	return r
}

func (r *Reader) advance() {
	r.tok = r.scanner.Scan(&r.val)
}

func (r *Reader) loc(start token.Pos, end token.Pos) syntax.SrcLoc {
	sl, sc := start.LineCol()
	el, ec := end.LineCol()
	return syntax.SrcLoc{File: r.name, StartLine: sl, StartCol: sc, EndLine: el, EndCol: ec}
}

// atomEnd returns the position immediately after a single-line token
// starting at pos with the given raw text.
func atomEnd(pos token.Pos, raw string) token.Pos {
	line, col := pos.LineCol()
	return token.MakePos(line, col+len([]rune(raw)))
}

// ReadForm reads and returns the next top-level form, or nil, nil at EOF.
func (r *Reader) ReadForm() (*syntax.Syntax, error) {
	if r.tok == token.EOF {
		return nil, r.errors.Err()
	}
	stx, err := r.form()
	if err != nil {
		return nil, err
	}
	return stx, r.errors.Err()
}

// ReadAll reads every top-level form in the file. The returned error, if
// non-nil, is a go/scanner.ErrorList aggregating every scan and parse error
// encountered, not just the first.
func (r *Reader) ReadAll() ([]*syntax.Syntax, error) {
	var forms []*syntax.Syntax
	for r.tok != token.EOF {
		stx, err := r.form()
		if err != nil {
			// the error is already recorded in r.errors; keep trying to parse
			// the remaining forms so a single mistake doesn't stop the reader
			// from reporting the rest.
			continue
		}
		forms = append(forms, stx)
	}
	r.errors.Sort()
	return forms, r.errors.Err()
}

// form parses one form: a list, a vector, or an atom.
func (r *Reader) form() (*syntax.Syntax, error) {
	switch r.tok {
	case token.LPAREN:
		return r.list()
	case token.LBRACK:
		return r.vec()
	case token.IDENT:
		stx := syntax.NewIdent(r.val.Raw, r.loc(r.val.Pos, atomEnd(r.val.Pos, r.val.Raw)))
		r.advance()
		return stx, nil
	case token.SIGNAL:
		stx := syntax.NewSignal(r.val.Signal, r.loc(r.val.Pos, atomEnd(r.val.Pos, r.val.Raw)))
		r.advance()
		return stx, nil
	case token.BOOL:
		stx := syntax.NewBool(r.val.Bool, r.loc(r.val.Pos, atomEnd(r.val.Pos, r.val.Raw)))
		r.advance()
		return stx, nil
	case token.STRING:
		stx := syntax.NewStr(r.val.Str, r.loc(r.val.Pos, atomEnd(r.val.Pos, r.val.Raw)))
		r.advance()
		return stx, nil
	case token.RPAREN, token.RBRACK:
		r.errors.Add(r.file.Position(r.val.Pos), "unexpected "+r.tok.String())
		r.advance()
		return nil, r.errors.Err()
	default:
		r.errors.Add(r.file.Position(r.val.Pos), "unexpected "+r.tok.String())
		r.advance()
		return nil, r.errors.Err()
	}
}

// list parses a parenthesized list; the opening '(' is the current token.
func (r *Reader) list() (*syntax.Syntax, error) {
	start := r.val.Pos
	r.advance() // consume '('

	var children []*syntax.Syntax
	for r.tok != token.RPAREN && r.tok != token.EOF {
		child, err := r.form()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if r.tok != token.RPAREN {
		r.errors.Add(r.file.Position(r.val.Pos), "list not terminated, expected ')'")
		return nil, r.errors.Err()
	}
	end := atomEnd(r.val.Pos, ")")
	r.advance() // consume ')'
	return syntax.NewList(children, r.loc(start, end)), nil
}

// vec parses a bracketed vector; the opening '[' is the current token.
func (r *Reader) vec() (*syntax.Syntax, error) {
	start := r.val.Pos
	r.advance() // consume '['

	var children []*syntax.Syntax
	for r.tok != token.RBRACK && r.tok != token.EOF {
		child, err := r.form()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if r.tok != token.RBRACK {
		r.errors.Add(r.file.Position(r.val.Pos), "vector not terminated, expected ']'")
		return nil, r.errors.Err()
	}
	end := atomEnd(r.val.Pos, "]")
	r.advance() // consume ']'
	return syntax.NewVec(children, r.loc(start, end)), nil
}
