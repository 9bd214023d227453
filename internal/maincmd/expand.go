package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/thistle-lang/expander/lang/core"
	"github.com/thistle-lang/expander/lang/coreval"
	"github.com/thistle-lang/expander/lang/engine"
	"github.com/thistle-lang/expander/lang/reader"
)

func (c *Cmd) Expand(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ExpandFiles(stdio, args...)
}

// ExpandFiles reads each file as one module body, expands it against a
// fresh engine wired to the reference evaluator, and prints the resulting
// core term graph.
func ExpandFiles(stdio mainer.Stdio, files ...string) error {
	_, formsByFile, rerr := reader.ReadFiles(files...)
	if rerr != nil {
		reader.PrintError(stdio.Stderr, rerr)
		return rerr
	}

	for i, forms := range formsByFile {
		ev := coreval.NewEvaluator()
		eng := engine.New(ev)
		coreval.Install(eng, ev)

		g, err := eng.ExpandModuleBody(forms)
		if err != nil {
			fmt.Fprintf(stdio.Stderr, "%s: %s\n", files[i], err)
			return err
		}
		core.Write(stdio.Stdout, g, g.Root)
	}
	return nil
}
