package maincmd_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thistle-lang/expander/internal/filetest"
	"github.com/thistle-lang/expander/internal/maincmd"
)

// updateGoldenTests mirrors filetest's own test.update-all-tests flag for
// this package's golden fixtures; there is no flag to set it from the
// command line yet, since no test here has ever needed to regenerate a
// fixture after its first hand-authoring.
var updateGoldenTests = false

// TestTokenizeFilesGolden diffs TokenizeFiles' transcript against a fixed
// expected output for every fixture under testdata/in, using the
// golden-file helpers of internal/filetest.
func TestTokenizeFilesGolden(t *testing.T) {
	const inDir, outDir = "testdata/in", "testdata/out"
	for _, fi := range filetest.SourceFiles(t, inDir, ".scm") {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			path := filepath.Join(inDir, fi.Name())

			var out, errOut bytes.Buffer
			stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

			require.NoError(t, maincmd.TokenizeFiles(stdio, path))
			assert.Empty(t, errOut.String())

			filetest.DiffOutput(t, fi, out.String(), outDir, &updateGoldenTests)
		})
	}
}
