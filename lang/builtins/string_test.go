package builtins_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sorthlang/gosorth/lang/value"
)

func TestStringSize(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.ExecuteCode("test", block(push(value.StringValue("hello")), call("string.size@"))))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.IntValue(5), top)
}

func TestStringInsert(t *testing.T) {
	m := newMachine()
	// string.[]! signature: sub-string index string -- updated-string.
	require.NoError(t, m.ExecuteCode("test", block(
		push(value.StringValue("bar")),
		push(value.IntValue(2)),
		push(value.StringValue("fo-o")),
		call("string.[]!"),
	)))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.StringValue("fobar-o"), top)
}

func TestStringFind(t *testing.T) {
	m := newMachine()
	// string.find signature: search-string string -- result.
	require.NoError(t, m.ExecuteCode("test", block(
		push(value.StringValue("world")),
		push(value.StringValue("hello world")),
		call("string.find"),
	)))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.IntValue(6), top)
}

func TestStringFindMissingReturnsNpos(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.ExecuteCode("test", block(
		push(value.StringValue("zzz")),
		push(value.StringValue("hello world")),
		call("string.find"),
	)))
	found, err := m.Pop()
	require.NoError(t, err)

	require.NoError(t, m.ExecuteCode("test", block(call("string.npos"))))
	npos, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, npos, found)
}

func TestStringIndexRead(t *testing.T) {
	m := newMachine()
	// string.[]@ signature: index string -- character.
	require.NoError(t, m.ExecuteCode("test", block(
		push(value.IntValue(1)),
		push(value.StringValue("abc")),
		call("string.[]@"),
	)))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.StringValue("b"), top)
}

func TestStringToNumber(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.ExecuteCode("test", block(push(value.StringValue("42")), call("string.to_number"))))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.IntValue(42), top)

	require.NoError(t, m.ExecuteCode("test", block(push(value.StringValue("3.5")), call("string.to_number"))))
	top, err = m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.FloatValue(3.5), top)
}

func TestToStringAndHex(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.ExecuteCode("test", block(push(value.IntValue(255)), call("to_string"))))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.StringValue("255"), top)

	require.NoError(t, m.ExecuteCode("test", block(push(value.IntValue(255)), call("hex"))))
	top, err = m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.StringValue("ff"), top)
}

func TestUniqueStrReturnsDistinctValues(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.ExecuteCode("test", block(call("unique_str"))))
	first, err := m.Pop()
	require.NoError(t, err)

	require.NoError(t, m.ExecuteCode("test", block(call("unique_str"))))
	second, err := m.Pop()
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}
