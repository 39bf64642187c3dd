package builtins_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sorthlang/gosorth/lang/builtins"
	"github.com/sorthlang/gosorth/lang/compiler"
	"github.com/sorthlang/gosorth/lang/interp"
	"github.com/sorthlang/gosorth/lang/value"
)

func newMachine() *interp.Machine {
	m := interp.New()
	builtins.Register(m)
	return m
}

func block(instrs ...compiler.Instruction) *compiler.Bytecode {
	code := compiler.NewBytecode()
	for _, in := range instrs {
		code.PushBack(in)
	}
	return code
}

func push(v value.Value) compiler.Instruction {
	return compiler.Instruction{Op: compiler.PushConstantValue, Operand: v}
}

func call(name string) compiler.Instruction {
	return compiler.Instruction{Op: compiler.Execute, Operand: value.StringValue(name)}
}

func popAll(t *testing.T, m *interp.Machine, n int) []value.Value {
	t.Helper()
	out := make([]value.Value, n)
	for i := n - 1; i >= 0; i-- {
		v, err := m.Pop()
		require.NoError(t, err)
		out[i] = v
	}
	return out
}

func TestArithmeticAdd(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.ExecuteCode("test", block(push(value.IntValue(2)), push(value.IntValue(3)), call("+"))))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.IntValue(5), top)
}

func TestArithmeticAddConcatenatesStrings(t *testing.T) {
	m := newMachine()
	code := block(push(value.StringValue("foo")), push(value.StringValue("bar")), call("+"))
	require.NoError(t, m.ExecuteCode("test", code))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.StringValue("foobar"), top)
}

func TestArithmeticPromotesToFloat(t *testing.T) {
	m := newMachine()
	code := block(push(value.IntValue(1)), push(value.FloatValue(0.5)), call("+"))
	require.NoError(t, m.ExecuteCode("test", code))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.FloatValue(1.5), top)
}

func TestArithmeticDivMod(t *testing.T) {
	m := newMachine()
	code := block(push(value.IntValue(7)), push(value.IntValue(2)), call("/mod"))
	require.NoError(t, m.ExecuteCode("test", code))
	results := popAll(t, m, 2)
	require.Equal(t, value.IntValue(1), results[0])
	require.Equal(t, value.IntValue(3), results[1])
}

func TestArithmeticBitwise(t *testing.T) {
	m := newMachine()
	code := block(push(value.IntValue(0b1010)), push(value.IntValue(0b0110)), call("&"))
	require.NoError(t, m.ExecuteCode("test", code))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.IntValue(0b0010), top)
}

func TestArithmeticShift(t *testing.T) {
	m := newMachine()
	code := block(push(value.IntValue(1)), push(value.IntValue(4)), call("<<"))
	require.NoError(t, m.ExecuteCode("test", code))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.IntValue(16), top)
}

func TestArithmeticLogicAliases(t *testing.T) {
	m := newMachine()
	code := block(push(value.IntValue(5)), push(value.IntValue(3)), call("xor"))
	require.NoError(t, m.ExecuteCode("test", code))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.IntValue(6), top)
}

func TestArithmeticNegateAndAbs(t *testing.T) {
	m := newMachine()
	code := block(push(value.IntValue(5)), call("negate"), call("abs"))
	require.NoError(t, m.ExecuteCode("test", code))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.IntValue(5), top)
}

func TestArithmeticDivideByZeroIsScriptError(t *testing.T) {
	m := newMachine()
	code := block(push(value.IntValue(1)), push(value.IntValue(0)), call("/"))
	err := m.ExecuteCode("test", code)
	require.Error(t, err)

	var se *interp.ScriptError
	require.ErrorAs(t, err, &se)
}
