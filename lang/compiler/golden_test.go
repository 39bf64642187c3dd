package compiler_test

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sorthlang/gosorth/internal/filetest"
	"github.com/sorthlang/gosorth/lang/compiler"
	"github.com/sorthlang/gosorth/lang/dictionary"
	"github.com/sorthlang/gosorth/lang/scanner"
	"github.com/sorthlang/gosorth/lang/token"
)

var testUpdateCompilerTests = flag.Bool("test.update-compiler-tests", false,
	"If set, replace expected compiler golden-file results with actual results.")

// goldenDictionary holds the Normal words exercised by testdata/in fixtures.
// None of them are Immediate, so the golden fixtures never need a live
// interp.Machine to drive compilation.
func goldenDictionary() *dictionary.Dictionary {
	dict := dictionary.New()
	dict.Insert("add", dictionary.WordInfo{Name: "add", Runtime: dictionary.Normal})
	return dict
}

// TestCompileGoldenFiles compiles every testdata/in/*.srt fixture against
// goldenDictionary and diffs a plain "<index> <op> <operand>" dump of the
// resulting bytecode against the matching testdata/out/*.srt.want file.
func TestCompileGoldenFiles(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")
	dict := goldenDictionary()

	noImmediate := func(c *compiler.Compiler, loc token.Location, info dictionary.WordInfo) error {
		return fmt.Errorf("unexpected immediate word %q in golden fixture", info.Name)
	}

	for _, fi := range filetest.SourceFiles(t, srcDir, ".srt") {
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(srcDir, fi.Name()))
			if err != nil {
				t.Fatal(err)
			}

			tokens, err := scanner.Tokenize(fi.Name(), src)
			if err != nil {
				t.Fatal(err)
			}

			code, err := compiler.Compile(tokens, dict, noImmediate)
			if err != nil {
				t.Fatal(err)
			}

			var sb strings.Builder
			for i := 0; i < code.Len(); i++ {
				in := code.At(i)
				operand := ""
				if in.Operand != nil {
					operand = in.Operand.String()
				}
				fmt.Fprintf(&sb, "%d %s %s\n", i, in.Op, operand)
			}

			filetest.DiffOutput(t, fi, sb.String(), resultDir, testUpdateCompilerTests)
		})
	}
}
