package builtins_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sorthlang/gosorth/lang/compiler"
	"github.com/sorthlang/gosorth/lang/token"
	"github.com/sorthlang/gosorth/lang/value"
)

func TestControlIfThenTrueBranch(t *testing.T) {
	m := newMachine()
	m.Comp = compiler.New(nil)

	require.NoError(t, m.Comp.Emit(compiler.PushConstantValue, value.BoolValue(true)))
	require.NoError(t, m.ExecuteWordNamed(token.Location{}, "if"))
	require.NoError(t, m.Comp.Emit(compiler.PushConstantValue, value.IntValue(1)))
	require.NoError(t, m.ExecuteWordNamed(token.Location{}, "then"))
	require.NoError(t, m.Comp.ResolveJumps())

	top, err := m.Comp.Top()
	require.NoError(t, err)
	require.NoError(t, m.ExecuteCode("test", top.Code))

	v, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.IntValue(1), v)
}

func TestControlIfElseThenFalseBranch(t *testing.T) {
	m := newMachine()
	m.Comp = compiler.New(nil)

	require.NoError(t, m.Comp.Emit(compiler.PushConstantValue, value.BoolValue(false)))
	require.NoError(t, m.ExecuteWordNamed(token.Location{}, "if"))
	require.NoError(t, m.Comp.Emit(compiler.PushConstantValue, value.IntValue(1)))
	require.NoError(t, m.ExecuteWordNamed(token.Location{}, "else"))
	require.NoError(t, m.Comp.Emit(compiler.PushConstantValue, value.IntValue(2)))
	require.NoError(t, m.ExecuteWordNamed(token.Location{}, "then"))
	require.NoError(t, m.Comp.ResolveJumps())

	top, err := m.Comp.Top()
	require.NoError(t, err)
	require.NoError(t, m.ExecuteCode("test", top.Code))

	v, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.IntValue(2), v)
}

func TestControlBeginUntilLoopsUntilTrue(t *testing.T) {
	m := newMachine()
	m.Comp = compiler.New(nil)

	require.NoError(t, m.ExecuteWordNamed(token.Location{}, "begin"))
	require.NoError(t, m.Comp.Emit(compiler.PushConstantValue, value.IntValue(1)))
	require.NoError(t, m.Comp.Emit(compiler.Execute, value.StringValue("depth")))
	require.NoError(t, m.Comp.Emit(compiler.PushConstantValue, value.IntValue(3)))
	require.NoError(t, m.Comp.Emit(compiler.Execute, value.StringValue(">=")))
	require.NoError(t, m.ExecuteWordNamed(token.Location{}, "until"))
	require.NoError(t, m.Comp.ResolveJumps())

	top, err := m.Comp.Top()
	require.NoError(t, err)
	require.NoError(t, m.ExecuteCode("test", top.Code))
	require.Equal(t, 3, m.StackDepth())
}

func TestControlDoLoopPushesIndices(t *testing.T) {
	m := newMachine()
	m.Comp = compiler.New(nil)

	require.NoError(t, m.Comp.Emit(compiler.PushConstantValue, value.IntValue(3))) // limit
	require.NoError(t, m.Comp.Emit(compiler.PushConstantValue, value.IntValue(0))) // start
	require.NoError(t, m.ExecuteWordNamed(token.Location{}, "do"))
	require.NoError(t, m.ExecuteWordNamed(token.Location{}, "i"))
	require.NoError(t, m.ExecuteWordNamed(token.Location{}, "loop"))
	require.NoError(t, m.Comp.ResolveJumps())

	top, err := m.Comp.Top()
	require.NoError(t, err)
	require.NoError(t, m.ExecuteCode("test", top.Code))

	results := popAll(t, m, 3)
	require.Equal(t, value.IntValue(0), results[0])
	require.Equal(t, value.IntValue(1), results[1])
	require.Equal(t, value.IntValue(2), results[2])
}

func TestControlBracketIfSkipsFalseBranch(t *testing.T) {
	m := newMachine()
	m.Comp = compiler.New([]token.Token{
		token.NewWord(token.Location{}, "garbage"),
		token.NewWord(token.Location{}, "[then]"),
	})

	require.NoError(t, m.Push(value.BoolValue(false)))
	require.NoError(t, m.ExecuteWordNamed(token.Location{}, "[if]"))

	// [if]'s handler should have consumed both tokens without compiling
	// "garbage", and emitted nothing.
	require.True(t, m.Comp.AtEOF())
	top, err := m.Comp.Top()
	require.NoError(t, err)
	require.Equal(t, 0, top.Code.Len())
}
