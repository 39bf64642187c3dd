package interp

import (
	"github.com/sorthlang/gosorth/lang/compiler"
	"github.com/sorthlang/gosorth/lang/dictionary"
	"github.com/sorthlang/gosorth/lang/scanner"
	"github.com/sorthlang/gosorth/lang/token"
)

// Compile drives the outer compile loop (compiler.Compile) over tokens,
// dispatching every Immediate word it encounters against this machine: the
// handler runs now, with m.Comp pointed at the very Compiler instance
// driving the loop, so things like `if`/`:`/`begin` can read further tokens
// or push/pop construction blocks exactly as if they were any other word
// call. m.Comp is restored to whatever it was (nil, at the top level) once
// compilation finishes, so a compile started while already compiling
// something else (as when `code.execute_source` runs inside an immediate
// word) nests correctly.
func (m *Machine) Compile(tokens []token.Token) (*compiler.Bytecode, error) {
	prev := m.Comp
	defer func() { m.Comp = prev }()

	return compiler.Compile(tokens, m.Dictionary, m.runImmediateWord)
}

func (m *Machine) runImmediateWord(c *compiler.Compiler, loc token.Location, info dictionary.WordInfo) error {
	m.Comp = c
	return m.executeWord(loc, info)
}

// CompileUntilWords compiles further tokens from the active compilation
// (m.Comp, which must already be set — this is only meaningful called from
// within a word that is itself running at compile time) until one of words
// is seen, consuming and returning it. See compiler.CompileUntilWords.
func (m *Machine) CompileUntilWords(words ...string) (string, error) {
	if m.Comp == nil {
		return "", m.scriptErr("compile_until_words called outside of compilation")
	}
	return compiler.CompileUntilWords(m.Comp, m.Dictionary, m.runImmediateWord, words...)
}

// Eval tokenizes src, compiles it, and runs the resulting byte code to
// completion: the whole source -> token list -> bytecode -> execution
// pipeline in one call, for embedding hosts and tests that just want to
// run a script and don't need the intermediate stages.
func (m *Machine) Eval(path string, src []byte) error {
	tokens, err := scanner.Tokenize(path, src)
	if err != nil {
		return err
	}
	code, err := m.Compile(tokens)
	if err != nil {
		return err
	}
	return m.ExecuteCode(path, code)
}
