package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Write renders stx as S-expression text to w, one line, with every
// identifier tagged by its scope set in curly braces so that the scope
// bookkeeping an expansion performs is visible in tool output (the "read"
// and "expand" commands both use this).
func Write(w io.Writer, stx *Syntax) {
	var sb strings.Builder
	write(&sb, stx)
	fmt.Fprintln(w, sb.String())
}

// String is a convenience wrapper around Write for tests and error
// messages.
func String(stx *Syntax) string {
	var sb strings.Builder
	write(&sb, stx)
	return sb.String()
}

func write(sb *strings.Builder, stx *Syntax) {
	if stx == nil {
		sb.WriteString("<nil>")
		return
	}
	switch stx.Kind {
	case Ident:
		sb.WriteString(stx.Text)
		writeScopes(sb, stx)
	case Signal:
		fmt.Fprintf(sb, "%d", stx.Signal)
	case Bool:
		if stx.BoolVal {
			sb.WriteString("#t")
		} else {
			sb.WriteString("#f")
		}
	case Str:
		fmt.Fprintf(sb, "%q", stx.Text)
	case List:
		writeSeq(sb, '(', ')', stx.Children)
	case Vec:
		writeSeq(sb, '[', ']', stx.Children)
	}
}

func writeSeq(sb *strings.Builder, open, close byte, children []*Syntax) {
	sb.WriteByte(open)
	for i, c := range children {
		if i > 0 {
			sb.WriteByte(' ')
		}
		write(sb, c)
	}
	sb.WriteByte(close)
}

func writeScopes(sb *strings.Builder, stx *Syntax) {
	if stx.Scopes.Size() == 0 {
		return
	}
	fmt.Fprintf(sb, "{%s}", stx.Scopes.String())
}
