package builtins_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sorthlang/gosorth/lang/compiler"
	"github.com/sorthlang/gosorth/lang/token"
	"github.com/sorthlang/gosorth/lang/value"
)

func TestWordPushesNextToken(t *testing.T) {
	m := newMachine()
	m.Comp = compiler.New([]token.Token{token.NewWord(token.Location{}, "dup")})

	require.NoError(t, m.ExecuteWordNamed(token.Location{}, "word"))
	top, err := m.Pop()
	require.NoError(t, err)

	tv, ok := top.(value.TokenValue)
	require.True(t, ok)
	require.Equal(t, "dup", tv.Token.Text)
}

func TestExecuteByName(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.Push(value.IntValue(3)))
	require.NoError(t, m.Push(value.IntValue(4)))
	require.NoError(t, m.Push(value.StringValue("+")))
	require.NoError(t, m.ExecuteCode("test", block(call("execute"))))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.IntValue(7), top)
}

func TestDefinedPredicate(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.ExecuteCode("test", block(push(value.StringValue("+")), call("defined?"))))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.BoolValue(true), top)

	require.NoError(t, m.ExecuteCode("test", block(push(value.StringValue("nonexistent-word")), call("defined?"))))
	top, err = m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.BoolValue(false), top)
}

func TestDefinedImmediate(t *testing.T) {
	m := newMachine()
	m.Comp = compiler.New([]token.Token{token.NewWord(token.Location{}, "+")})

	require.NoError(t, m.ExecuteWordNamed(token.Location{}, "[defined?]"))
	top, err := m.Comp.Top()
	require.NoError(t, err)
	require.Equal(t, 1, top.Code.Len())
	require.Equal(t, compiler.PushConstantValue, top.Code.At(0).Op)
	require.Equal(t, value.BoolValue(true), top.Code.At(0).Operand)
}

func TestUndefinedImmediate(t *testing.T) {
	m := newMachine()
	m.Comp = compiler.New([]token.Token{token.NewWord(token.Location{}, "nonexistent-word")})

	require.NoError(t, m.ExecuteWordNamed(token.Location{}, "[undefined?]"))
	top, err := m.Comp.Top()
	require.NoError(t, err)
	require.Equal(t, value.BoolValue(true), top.Code.At(0).Operand)
}

func TestBacktickEmitsHandlerIndex(t *testing.T) {
	m := newMachine()
	info, ok := m.Dictionary.Find("swap")
	require.True(t, ok)

	m.Comp = compiler.New([]token.Token{token.NewWord(token.Location{}, "swap")})
	require.NoError(t, m.ExecuteWordNamed(token.Location{}, "`"))

	top, err := m.Comp.Top()
	require.NoError(t, err)
	require.Equal(t, compiler.PushConstantValue, top.Code.At(0).Op)
	require.Equal(t, value.IntValue(info.HandlerIndex), top.Code.At(0).Operand)
}

func TestWordsGetTableContainsKnownWord(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.ExecuteCode("test", block(call("words.get{}"))))
	top, err := m.Pop()
	require.NoError(t, err)

	table, ok := top.(*value.HashMap)
	require.True(t, ok)

	sig, found := table.Get(value.StringValue("swap"))
	require.True(t, found)
	require.Equal(t, value.StringValue("a b -- b a"), sig)
}
