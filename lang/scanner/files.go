package scanner

import (
	"go/scanner"
	"os"

	"github.com/thistle-lang/expander/lang/token"
)

// ErrorList and PrintError are re-exported so that callers never need to
// import go/scanner directly.
type ErrorList = scanner.ErrorList

var PrintError = scanner.PrintError

// TokenAndValue pairs a scanned token with its payload.
type TokenAndValue struct {
	Token token.Token
	Value token.Value
}

// ScanFiles tokenizes each of files in turn and returns the fileset used for
// position tracking, the tokens read from each file (grouped by file, in
// the same order as files), and any error encountered. The error, if
// non-nil, is a go/scanner.ErrorList aggregating every mistake across every
// file, not just the first.
func ScanFiles(files ...string) (*token.FileSet, [][]TokenAndValue, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	var (
		s  Scanner
		el ErrorList
	)

	fs := token.NewFileSet()
	tokensByFile := make([][]TokenAndValue, len(files))
	for i, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			el.Add(token.Position{Filename: file}, err.Error())
			continue
		}

		f := fs.AddFile(file, -1, len(b))
		s.Init(f, b, el.Add)
		var tv token.Value
		for {
			tok := s.Scan(&tv)
			tokensByFile[i] = append(tokensByFile[i], TokenAndValue{Token: tok, Value: tv})
			if tok == token.EOF {
				break
			}
		}
	}
	el.Sort()
	return fs, tokensByFile, el.Err()
}
