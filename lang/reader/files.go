package reader

import (
	goscanner "go/scanner"
	"os"

	"github.com/thistle-lang/expander/lang/syntax"
	"github.com/thistle-lang/expander/lang/token"
)

// ErrorList and PrintError mirror scanner's own re-export of go/scanner's
// error aggregation, so callers of ReadFiles never need to import
// go/scanner directly.
type ErrorList = goscanner.ErrorList

var PrintError = goscanner.PrintError

// ReadFiles parses every form in each of files in turn and returns the
// fileset used for position tracking, the forms read from each file
// (grouped by file, in the same order as files), and any error
// encountered. The error, if non-nil, is an ErrorList aggregating every
// scan and parse mistake across every file, not just the first.
func ReadFiles(files ...string) (*token.FileSet, [][]*syntax.Syntax, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	var el ErrorList
	fs := token.NewFileSet()
	formsByFile := make([][]*syntax.Syntax, len(files))
	for i, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			el.Add(token.Position{Filename: file}, err.Error())
			continue
		}
		r := NewReader(fs, file, b)
		forms, ferr := r.ReadAll()
		formsByFile[i] = forms
		if ferr != nil {
			if list, ok := ferr.(ErrorList); ok {
				el = append(el, list...)
			} else {
				el.Add(token.Position{Filename: file}, ferr.Error())
			}
		}
	}
	el.Sort()
	return fs, formsByFile, el.Err()
}
