package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/thistle-lang/expander/lang/scanner"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(stdio, args...)
}

// TokenizeFiles scans files and prints one line per token: its position,
// kind, and raw text.
func TokenizeFiles(stdio mainer.Stdio, files ...string) error {
	fs, toksByFile, err := scanner.ScanFiles(files...)
	for i, toks := range toksByFile {
		f := fs.File(files[i])
		for _, tv := range toks {
			pos := f.Position(tv.Value.Pos)
			fmt.Fprintf(stdio.Stdout, "%s: %s", pos, tv.Token)
			if tv.Value.Raw != "" {
				fmt.Fprintf(stdio.Stdout, " %q", tv.Value.Raw)
			}
			fmt.Fprintln(stdio.Stdout)
		}
	}
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
	}
	return err
}
