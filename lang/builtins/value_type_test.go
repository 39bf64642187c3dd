package builtins_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sorthlang/gosorth/lang/value"
)

func TestValueTypePredicates(t *testing.T) {
	cases := []struct {
		word  string
		value value.Value
		want  bool
	}{
		{"value.is-none?", value.None, true},
		{"value.is-none?", value.IntValue(1), false},
		{"value.is-number?", value.IntValue(1), true},
		{"value.is-number?", value.FloatValue(1.5), true},
		{"value.is-number?", value.StringValue("x"), false},
		{"value.is-boolean?", value.BoolValue(true), true},
		{"value.is-string?", value.StringValue("x"), true},
		{"value.is-string?", value.IntValue(1), false},
	}

	for _, tc := range cases {
		m := newMachine()
		require.NoError(t, m.ExecuteCode("test", block(push(tc.value), call(tc.word))))
		top, err := m.Pop()
		require.NoError(t, err)
		require.Equal(t, value.BoolValue(tc.want), top, "%s on %v", tc.word, tc.value)
	}
}

func TestValueTypePredicatesOnContainers(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.ExecuteCode("test", block(push(value.IntValue(0)), call("[].new"))))
	vec, err := m.Pop()
	require.NoError(t, err)

	require.NoError(t, m.Push(vec))
	require.NoError(t, m.ExecuteCode("test", block(call("value.is-array?"))))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.BoolValue(true), top)

	require.NoError(t, m.ExecuteCode("test", block(call("{}.new"))))
	table, err := m.Pop()
	require.NoError(t, err)

	require.NoError(t, m.Push(table))
	require.NoError(t, m.ExecuteCode("test", block(call("value.is-hash-table?"))))
	top, err = m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.BoolValue(true), top)

	require.NoError(t, m.ExecuteCode("test", block(push(value.IntValue(4)), call("buffer.new"))))
	buf, err := m.Pop()
	require.NoError(t, err)

	require.NoError(t, m.Push(buf))
	require.NoError(t, m.ExecuteCode("test", block(call("value.is-buffer?"))))
	top, err = m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.BoolValue(true), top)
}
