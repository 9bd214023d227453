package core

import (
	"fmt"
	"io"
	"strings"

	"github.com/thistle-lang/expander/lang/syntax"
)

// Write renders the node at id, and everything reachable from it, as
// S-expression-like text to w. A node id with no entry in graph.Nodes (a
// hole the expansion never reached) is rendered as "<pending>".
func Write(w io.Writer, graph *Graph, id NodeId) {
	var sb strings.Builder
	write(&sb, graph, id)
	fmt.Fprintln(w, sb.String())
}

// String is a convenience wrapper around Write for tests and error
// messages.
func String(graph *Graph, id NodeId) string {
	var sb strings.Builder
	write(&sb, graph, id)
	return sb.String()
}

func write(sb *strings.Builder, graph *Graph, id NodeId) {
	shape, ok := graph.Nodes.Get(id)
	if !ok {
		sb.WriteString("<pending>")
		return
	}

	switch shape.Kind {
	case KindLit:
		fmt.Fprintf(sb, "(lit %s)", syntax.String(shape.Datum))
	case KindQuote:
		fmt.Fprintf(sb, "(quote %s)", syntax.String(shape.Datum))
	case KindRef:
		fmt.Fprintf(sb, "(ref %v)", shape.RefBinding)
	case KindLambda:
		sb.WriteString("(lambda (")
		for i, p := range shape.Params {
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(sb, "%v", p)
		}
		sb.WriteString(") ")
		write(sb, graph, shape.Body)
		sb.WriteByte(')')
	case KindApp:
		sb.WriteString("(app")
		for _, c := range shape.Children {
			sb.WriteByte(' ')
			write(sb, graph, c)
		}
		sb.WriteByte(')')
	case KindSeq:
		sb.WriteString("(seq")
		for _, c := range shape.Children {
			sb.WriteByte(' ')
			write(sb, graph, c)
		}
		sb.WriteByte(')')
	}
}
