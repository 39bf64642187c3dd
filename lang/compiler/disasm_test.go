package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sorthlang/gosorth/lang/compiler"
	"github.com/sorthlang/gosorth/lang/token"
	"github.com/sorthlang/gosorth/lang/value"
)

func TestTextAnnotatesResolvedJumpWithAbsoluteTarget(t *testing.T) {
	c := compiler.New(nil)
	require.NoError(t, c.Emit(compiler.JumpTarget, value.StringValue("loop.start")))
	require.NoError(t, c.Emit(compiler.PushConstantValue, value.IntValue(0)))
	require.NoError(t, c.Emit(compiler.Jump, value.StringValue("loop.start")))
	require.NoError(t, c.ResolveJumps())

	top, err := c.Top()
	require.NoError(t, err)

	out := compiler.Text(top.Code)
	require.Contains(t, out, "2: Jump")
	require.Contains(t, out, "-> 0")
}

func TestTextLeavesNonJumpInstructionsUnannotated(t *testing.T) {
	code := compiler.NewBytecode()
	code.PushBack(compiler.NewInstruction(token.Location{}, compiler.PushConstantValue, value.IntValue(7)))

	out := compiler.Text(code)
	require.NotContains(t, out, "->")
}

func TestBytecodeStringMatchesText(t *testing.T) {
	code := compiler.NewBytecode()
	code.PushBack(compiler.NewInstruction(token.Location{}, compiler.PushConstantValue, value.IntValue(1)))

	require.Equal(t, compiler.Text(code), code.String())
	require.Equal(t, code.String(), code.Disassemble())
}
