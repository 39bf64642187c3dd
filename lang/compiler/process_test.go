package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sorthlang/gosorth/lang/compiler"
	"github.com/sorthlang/gosorth/lang/dictionary"
	"github.com/sorthlang/gosorth/lang/token"
	"github.com/sorthlang/gosorth/lang/value"
)

func tokNum(n int64) token.Token {
	return token.NewNumber(token.Location{}, token.NumberValue{Kind: token.IntNumber, Int: n})
}

func tokWord(text string) token.Token { return token.NewWord(token.Location{}, text) }
func tokStr(text string) token.Token  { return token.NewString(token.Location{}, text) }

// noImmediate fails the test if Compile ever calls it: used by cases where
// every word token is expected to resolve as Normal or go unresolved.
func noImmediate(t *testing.T) compiler.ImmediateRunner {
	return func(c *compiler.Compiler, loc token.Location, info dictionary.WordInfo) error {
		t.Fatalf("unexpected immediate dispatch of %q", info.Name)
		return nil
	}
}

func TestCompileEmitsPushConstantValueForLiterals(t *testing.T) {
	dict := dictionary.New()
	code, err := compiler.Compile([]token.Token{tokNum(1), tokStr("hi")}, dict, noImmediate(t))
	require.NoError(t, err)

	require.Equal(t, 2, code.Len())
	require.Equal(t, compiler.PushConstantValue, code.At(0).Op)
	require.Equal(t, value.IntValue(1), code.At(0).Operand)
	require.Equal(t, compiler.PushConstantValue, code.At(1).Op)
	require.Equal(t, value.StringValue("hi"), code.At(1).Operand)
}

func TestCompileEmitsExecuteForNormalWord(t *testing.T) {
	dict := dictionary.New()
	dict.Insert("foo", dictionary.WordInfo{Name: "foo", Runtime: dictionary.Normal})

	code, err := compiler.Compile([]token.Token{tokWord("foo")}, dict, noImmediate(t))
	require.NoError(t, err)

	require.Equal(t, 1, code.Len())
	require.Equal(t, compiler.Execute, code.At(0).Op)
	require.Equal(t, value.StringValue("foo"), code.At(0).Operand)
}

func TestCompileRunsImmediateWordHandlerNow(t *testing.T) {
	dict := dictionary.New()
	dict.Insert("bar", dictionary.WordInfo{Name: "bar", Runtime: dictionary.Immediate})

	ran := false
	runImmediate := func(c *compiler.Compiler, loc token.Location, info dictionary.WordInfo) error {
		ran = true
		require.Equal(t, "bar", info.Name)
		// An immediate handler emits directly into the construction the
		// outer Compile loop is driving, rather than an Execute call.
		return c.Emit(compiler.MarkContext, nil)
	}

	code, err := compiler.Compile([]token.Token{tokWord("bar")}, dict, runImmediate)
	require.NoError(t, err)

	require.True(t, ran)
	require.Equal(t, 1, code.Len())
	require.Equal(t, compiler.MarkContext, code.At(0).Op)
}

func TestCompileFallsBackToForwardReferencedExecute(t *testing.T) {
	dict := dictionary.New()
	code, err := compiler.Compile([]token.Token{tokWord("not-yet-defined")}, dict, noImmediate(t))
	require.NoError(t, err)

	require.Equal(t, 1, code.Len())
	require.Equal(t, compiler.Execute, code.At(0).Op)
	require.Equal(t, value.StringValue("not-yet-defined"), code.At(0).Operand)
}

func TestCompileReparsesUnresolvedWordTextAsNumber(t *testing.T) {
	dict := dictionary.New()
	// A Word token whose text happens to parse as a number (as if produced
	// by something other than the scanner, which would have tagged this
	// Number itself) falls back to a constant instead of Execute.
	code, err := compiler.Compile([]token.Token{tokWord("42")}, dict, noImmediate(t))
	require.NoError(t, err)

	require.Equal(t, 1, code.Len())
	require.Equal(t, compiler.PushConstantValue, code.At(0).Op)
	require.Equal(t, value.IntValue(42), code.At(0).Operand)
}

func TestCompileErrorsOnUnbalancedConstructionStack(t *testing.T) {
	dict := dictionary.New()
	dict.Insert("open", dictionary.WordInfo{Name: "open", Runtime: dictionary.Immediate})

	runImmediate := func(c *compiler.Compiler, loc token.Location, info dictionary.WordInfo) error {
		c.NewBlock() // never merged or popped back
		return nil
	}

	_, err := compiler.Compile([]token.Token{tokWord("open")}, dict, runImmediate)
	require.Error(t, err)
}

func TestCompileUntilWordsConsumesThroughMatchAndLeavesCursorAfter(t *testing.T) {
	dict := dictionary.New()
	c := compiler.New([]token.Token{tokNum(1), tokNum(2), tokWord("endword"), tokNum(3)})

	found, err := compiler.CompileUntilWords(c, dict, noImmediate(t), "endword")
	require.NoError(t, err)
	require.Equal(t, "endword", found)

	top, err := c.Top()
	require.NoError(t, err)
	require.Equal(t, 2, top.Code.Len())
	require.Equal(t, value.IntValue(1), top.Code.At(0).Operand)
	require.Equal(t, value.IntValue(2), top.Code.At(1).Operand)

	rest, ok := c.NextToken()
	require.True(t, ok)
	require.Equal(t, int64(3), rest.Number.Int)
}

func TestCompileUntilWordsErrorsNamingEveryExpectedWord(t *testing.T) {
	dict := dictionary.New()
	c := compiler.New([]token.Token{tokNum(1), tokNum(2)})

	_, err := compiler.CompileUntilWords(c, dict, noImmediate(t), "then", "else")
	require.Error(t, err)
	require.Contains(t, err.Error(), "then")
	require.Contains(t, err.Error(), "else")
}
