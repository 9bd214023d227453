// Package scanner tokenizes the concrete S-expression syntax this front end
// reads: parenthesized lists, bracketed vectors, identifiers, booleans,
// decimal signal literals and strings. It follows the same go/scanner-style
// tokenizer shape used elsewhere in this family of languages, trimmed to
// this language's much smaller token set.
package scanner

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/thistle-lang/expander/lang/token"
)

// Scanner tokenizes a single source file for the reader to consume.
type Scanner struct {
	// immutable state after Init
	file *token.File
	src  []byte
	err  func(pos token.Position, msg string)

	// mutable scanning state
	sb               strings.Builder
	pendingSurrogate rune
	cur              rune
	off              int
	roff             int
}

// Init initializes the scanner to tokenize a new file. It panics if the
// file's recorded size does not match len(src).
func (s *Scanner) Init(file *token.File, src []byte, errHandler func(token.Position, string)) {
	if file.Size() != len(src) {
		panic(fmt.Sprintf("scanner: file size (%d) does not match src len (%d)", file.Size(), len(src)))
	}
	s.file = file
	s.src = src
	s.err = errHandler
	s.sb.Reset()
	s.pendingSurrogate = 0
	s.cur = ' '
	s.off = 0
	s.roff = 0
	s.advance()
}

func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		if s.cur == '\n' {
			s.file.AddLine(s.off)
		}
		s.cur = -1
		return
	}
	s.off = s.roff
	if s.cur == '\n' {
		s.file.AddLine(s.off)
	}
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.off, "illegal UTF-8 encoding")
		}
	}
	s.roff += w
	s.cur = r
}

func (s *Scanner) error(off int, msg string) {
	if s.err != nil {
		s.err(s.file.Position(s.file.Pos(off)), msg)
	}
}

func (s *Scanner) errorf(off int, format string, args ...any) {
	s.error(off, fmt.Sprintf(format, args...))
}

func (s *Scanner) advanceIf(matches ...byte) bool {
	if bytes.ContainsRune(matches, s.cur) {
		s.advance()
		return true
	}
	return false
}

// Scan returns the next token in the source file, filling tokVal with its
// payload.
func (s *Scanner) Scan(tokVal *token.Value) token.Token {
	s.skipWhitespaceAndComments()

	pos := s.file.Pos(s.off)
	start := s.off

	switch cur := s.cur; {
	case cur == '#':
		return s.hash(pos, start, tokVal)

	case isIdentStart(cur):
		lit := s.ident()
		*tokVal = token.Value{Raw: lit, Pos: pos}
		return token.IDENT

	case isDecimal(cur):
		lit := s.digits()
		*tokVal = token.Value{Raw: lit, Pos: pos}
		n, err := strconv.ParseUint(lit, 10, 64)
		if err != nil {
			s.error(start, "signal literal out of range")
		}
		tokVal.Signal = n
		return token.SIGNAL

	case cur == '"':
		s.advance()
		lit, val := s.shortString()
		*tokVal = token.Value{Raw: lit, Pos: pos, Str: val}
		return token.STRING

	case cur == '(':
		s.advance()
		*tokVal = token.Value{Raw: "(", Pos: pos}
		return token.LPAREN

	case cur == ')':
		s.advance()
		*tokVal = token.Value{Raw: ")", Pos: pos}
		return token.RPAREN

	case cur == '[':
		s.advance()
		*tokVal = token.Value{Raw: "[", Pos: pos}
		return token.LBRACK

	case cur == ']':
		s.advance()
		*tokVal = token.Value{Raw: "]", Pos: pos}
		return token.RBRACK

	case cur == -1:
		*tokVal = token.Value{Raw: "", Pos: pos}
		return token.EOF

	default:
		s.advance()
		s.errorf(start, "illegal character %#U", cur)
		*tokVal = token.Value{Raw: string(cur), Pos: pos}
		return token.ILLEGAL
	}
}

// hash scans a token starting with '#': a boolean literal (#t, #true, #f,
// #false) or an identifier that happens to begin with '#' (#%app,
// #%module).
func (s *Scanner) hash(pos token.Pos, start int, tokVal *token.Value) token.Token {
	lit := s.ident()
	switch lit {
	case "#t", "#true":
		*tokVal = token.Value{Raw: lit, Pos: pos, Bool: true}
		return token.BOOL
	case "#f", "#false":
		*tokVal = token.Value{Raw: lit, Pos: pos, Bool: false}
		return token.BOOL
	}
	if lit == "#" {
		s.errorf(start, "illegal character %#U", '#')
		*tokVal = token.Value{Raw: lit, Pos: pos}
		return token.ILLEGAL
	}
	*tokVal = token.Value{Raw: lit, Pos: pos}
	return token.IDENT
}

// ident scans the longest run of identifier characters starting at the
// current position, which must itself be an identifier character.
func (s *Scanner) ident() string {
	start := s.off
	for isIdentStart(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) digits() string {
	start := s.off
	for isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch {
		case isWhitespace(s.cur):
			s.advance()
		case s.cur == ';':
			for s.cur != '\n' && s.cur != -1 {
				s.advance()
			}
		default:
			return
		}
	}
}

var simpleEscapes = map[rune]rune{
	'a': '\a', 'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t', 'v': '\v',
	'\\': '\\', '"': '"', '\'': '\'',
}

// shortString scans a double-quoted string literal; the opening '"' has
// already been consumed. It supports the usual single-letter escapes plus
// \uhhhh for a Unicode code point.
func (s *Scanner) shortString() (lit, decoded string) {
	startOff := s.off - 1
	s.sb.Reset()
	for {
		cur := s.cur
		if cur == '\n' || cur < 0 {
			s.error(startOff, "string literal not terminated")
			break
		}
		s.advance()
		if cur == '"' {
			break
		}
		if cur == '\\' {
			s.escape()
			continue
		}
		s.sb.WriteRune(cur)
	}
	return string(s.src[startOff:s.off]), s.sb.String()
}

// escape parses one escape sequence; the leading backslash has already been
// consumed.
func (s *Scanner) escape() {
	startOff := s.off - 1
	if r, ok := simpleEscapes[s.cur]; ok {
		s.sb.WriteRune(r)
		s.advance()
		return
	}
	if s.cur == 'u' {
		s.advance()
		var v uint32
		for i := 0; i < 4; i++ {
			if !isHexadecimal(s.cur) {
				s.error(startOff, "escape sequence not terminated")
				return
			}
			v = v*16 + uint32(digitVal(s.cur))
			s.advance()
		}
		s.sb.WriteRune(rune(v))
		return
	}
	s.errorf(startOff, "unknown escape sequence %q", s.cur)
}

func digitVal(rn rune) int {
	switch {
	case '0' <= rn && rn <= '9':
		return int(rn - '0')
	case 'a' <= rn && rn <= 'f':
		return int(rn - 'a' + 10)
	case 'A' <= rn && rn <= 'F':
		return int(rn - 'A' + 10)
	}
	return 16
}

func isWhitespace(rn rune) bool {
	return rn == ' ' || rn == '\t' || rn == '\n' || rn == '\r'
}

func isDecimal(rn rune) bool { return '0' <= rn && rn <= '9' }

func isHexadecimal(rn rune) bool {
	return isDecimal(rn) || 'a' <= rn && rn <= 'f' || 'A' <= rn && rn <= 'F'
}

func isDigit(rn rune) bool {
	return isDecimal(rn) || rn >= utf8.RuneSelf && unicode.IsDigit(rn)
}

// isIdentStart reports whether rn can begin (or continue) an identifier.
// Besides letters, this language's identifiers commonly use the punctuation
// Scheme-family identifiers rely on: eq?, let-syntax, #%app, await-signal.
func isIdentStart(rn rune) bool {
	switch rn {
	case '+', '-', '*', '/', '!', '?', '<', '>', '=', ':', '$', '%', '&', '_', '~', '#', '.':
		return true
	}
	return 'a' <= rn && rn <= 'z' || 'A' <= rn && rn <= 'Z' ||
		rn >= utf8.RuneSelf && unicode.IsLetter(rn)
}
