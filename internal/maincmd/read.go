package maincmd

import (
	"context"

	"github.com/mna/mainer"
	"github.com/thistle-lang/expander/lang/reader"
	"github.com/thistle-lang/expander/lang/syntax"
)

func (c *Cmd) Read(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ReadFiles(stdio, args...)
}

// ReadFiles reads files and prints the syntax tree read from each top-level
// form, one per line.
func ReadFiles(stdio mainer.Stdio, files ...string) error {
	_, formsByFile, err := reader.ReadFiles(files...)
	for _, forms := range formsByFile {
		for _, stx := range forms {
			syntax.Write(stdio.Stdout, stx)
		}
	}
	if err != nil {
		reader.PrintError(stdio.Stderr, err)
	}
	return err
}
