package compiler

import (
	"fmt"
	"strings"

	"github.com/sorthlang/gosorth/lang/dictionary"
	"github.com/sorthlang/gosorth/lang/scanner"
	"github.com/sorthlang/gosorth/lang/token"
	"github.com/sorthlang/gosorth/lang/value"
)

// ImmediateRunner executes an Immediate word's native handler now, against
// the live interpreter, as Compile walks the token stream (§4.F). c is the
// same *Compiler Compile is driving, so the handler's own calls to
// c.NextToken/c.Emit/c.NewBlock etc. observe and advance the one shared
// cursor and construction stack. Implemented by lang/interp.Machine, which
// this package cannot import directly (interp already imports compiler).
type ImmediateRunner func(c *Compiler, loc token.Location, info dictionary.WordInfo) error

// Compile drives the outer compiler loop described in §4.F over the full
// token list: Number and String tokens emit PushConstantValue; a Word
// resolved in dict is either run now (Immediate) or compiled as
// Execute(name) (Normal); a Word not found in dict falls back to a
// constant if its text re-parses as a number, otherwise to a
// forward-referenced Execute(name), resolved by name lookup when the
// resulting code actually runs.
//
// The returned Bytecode is the single top-level construction's code with
// every jump label already resolved; Compile errors (rather than return
// partial code) if runImmediate leaves the construction stack anything
// other than exactly one block deep, the compile-time equivalent of an
// unbalanced `:`/`;` or `if`/`then`.
func Compile(tokens []token.Token, dict *dictionary.Dictionary, runImmediate ImmediateRunner) (*Bytecode, error) {
	c := New(tokens)

	for {
		tok, ok := c.NextToken()
		if !ok {
			break
		}
		if err := compileToken(c, dict, runImmediate, tok); err != nil {
			return nil, err
		}
	}

	if len(c.stack) != 1 {
		return nil, fmt.Errorf("compiler: unbalanced construction stack at end of input (depth %d)", len(c.stack))
	}

	top, err := c.Top()
	if err != nil {
		return nil, err
	}
	if err := c.ResolveJumps(); err != nil {
		return nil, err
	}
	return top.Code, nil
}

func compileToken(c *Compiler, dict *dictionary.Dictionary, runImmediate ImmediateRunner, tok token.Token) error {
	switch tok.Kind {
	case token.Number, token.String:
		return c.PushInstruction(NewInstruction(tok.Loc, PushConstantValue, value.FromToken(tok)))

	case token.Word:
		return compileWord(c, dict, runImmediate, tok)

	default:
		return fmt.Errorf("compiler: %s: unrecognized token kind %s", tok.Loc, tok.Kind)
	}
}

func compileWord(c *Compiler, dict *dictionary.Dictionary, runImmediate ImmediateRunner, tok token.Token) error {
	if info, found := dict.Find(tok.Text); found {
		if info.Runtime == dictionary.Immediate {
			return runImmediate(c, tok.Loc, info)
		}
		return c.PushInstruction(NewInstruction(tok.Loc, Execute, value.StringValue(tok.Text)))
	}

	if n, ok := scanner.ParseNumber(tok.Text); ok {
		return c.PushInstruction(NewInstruction(tok.Loc, PushConstantValue, value.FromToken(token.NewNumber(tok.Loc, n))))
	}

	// Forward reference: not yet defined, resolved by name at execute time.
	return c.PushInstruction(NewInstruction(tok.Loc, Execute, value.StringValue(tok.Text)))
}

// CompileUntilWords compiles tokens from c's stream — dispatching each one
// through compileToken exactly as Compile's own loop does — until a Word
// token matching one of words is seen (§4.F's compile_until_words). The
// matching word is consumed and its text returned. Running off the end of
// the stream without a match is a compile error naming every word that was
// being waited for.
func CompileUntilWords(c *Compiler, dict *dictionary.Dictionary, runImmediate ImmediateRunner, words ...string) (string, error) {
	for {
		tok, ok := c.NextToken()
		if !ok {
			return "", fmt.Errorf("compiler: reached end of input, expected one of: %s", strings.Join(words, ", "))
		}

		if tok.Kind == token.Word {
			for _, w := range words {
				if tok.Text == w {
					return tok.Text, nil
				}
			}
		}

		if err := compileToken(c, dict, runImmediate, tok); err != nil {
			return "", err
		}
	}
}
