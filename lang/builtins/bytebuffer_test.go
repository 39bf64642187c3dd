package builtins_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sorthlang/gosorth/lang/value"
)

func TestBufferNewAndSize(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.ExecuteCode("test", block(push(value.IntValue(8)), call("buffer.new"), call("buffer.size@"))))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.IntValue(8), top)
}

func TestBufferResizeGrows(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.ExecuteCode("test", block(push(value.IntValue(4)), call("buffer.new"))))
	buf, err := m.Pop()
	require.NoError(t, err)

	// buffer.size! signature: buffer size -- . Push buffer, then size, last.
	require.NoError(t, m.Push(buf))
	require.NoError(t, m.Push(value.IntValue(10)))
	require.NoError(t, m.ExecuteCode("test", block(call("buffer.size!"))))

	require.NoError(t, m.Push(buf))
	require.NoError(t, m.ExecuteCode("test", block(call("buffer.size@"))))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.IntValue(10), top)
}

func TestBufferIntRoundTrip(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.ExecuteCode("test", block(push(value.IntValue(8)), call("buffer.new"))))
	buf, err := m.Pop()
	require.NoError(t, err)

	// buffer.int! signature: value buffer byte-size -- . Push value, buffer, byte-size, in that order.
	require.NoError(t, m.Push(value.IntValue(-7)))
	require.NoError(t, m.Push(buf))
	require.NoError(t, m.Push(value.IntValue(4)))
	require.NoError(t, m.ExecuteCode("test", block(call("buffer.int!"))))

	// buffer.int@ signature: buffer byte-size is-signed -- value.
	require.NoError(t, m.Push(buf))
	require.NoError(t, m.Push(value.IntValue(4)))
	require.NoError(t, m.Push(value.BoolValue(true)))
	require.NoError(t, m.ExecuteCode("test", block(call("buffer.int@"))))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.IntValue(-7), top)
}

func TestBufferFloatRoundTrip(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.ExecuteCode("test", block(push(value.IntValue(8)), call("buffer.new"))))
	buf, err := m.Pop()
	require.NoError(t, err)

	require.NoError(t, m.Push(value.FloatValue(3.5)))
	require.NoError(t, m.Push(buf))
	require.NoError(t, m.Push(value.IntValue(8)))
	require.NoError(t, m.ExecuteCode("test", block(call("buffer.float!"))))

	require.NoError(t, m.Push(buf))
	require.NoError(t, m.Push(value.IntValue(8)))
	require.NoError(t, m.ExecuteCode("test", block(call("buffer.float@"))))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.FloatValue(3.5), top)
}

func TestBufferStringRoundTrip(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.ExecuteCode("test", block(push(value.IntValue(16)), call("buffer.new"))))
	buf, err := m.Pop()
	require.NoError(t, err)

	// buffer.string! signature: value buffer size -- .
	require.NoError(t, m.Push(value.StringValue("hi")))
	require.NoError(t, m.Push(buf))
	require.NoError(t, m.Push(value.IntValue(8)))
	require.NoError(t, m.ExecuteCode("test", block(call("buffer.string!"))))

	// buffer.string@ signature: buffer byte-size -- value.
	require.NoError(t, m.Push(buf))
	require.NoError(t, m.Push(value.IntValue(8)))
	require.NoError(t, m.ExecuteCode("test", block(call("buffer.string@"))))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.StringValue("hi"), top)
}

func TestBufferPositionSetAndGet(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.ExecuteCode("test", block(push(value.IntValue(16)), call("buffer.new"))))
	buf, err := m.Pop()
	require.NoError(t, err)

	// buffer.position! signature: position buffer -- .
	require.NoError(t, m.Push(value.IntValue(4)))
	require.NoError(t, m.Push(buf))
	require.NoError(t, m.ExecuteCode("test", block(call("buffer.position!"))))

	require.NoError(t, m.Push(buf))
	require.NoError(t, m.ExecuteCode("test", block(call("buffer.position@"))))
	top, err := m.Pop()
	require.NoError(t, err)
	require.Equal(t, value.IntValue(4), top)
}

func TestBufferIntInvalidByteSizeIsScriptError(t *testing.T) {
	m := newMachine()
	require.NoError(t, m.ExecuteCode("test", block(push(value.IntValue(8)), call("buffer.new"))))
	buf, err := m.Pop()
	require.NoError(t, err)

	require.NoError(t, m.Push(value.IntValue(1)))
	require.NoError(t, m.Push(buf))
	require.NoError(t, m.Push(value.IntValue(3)))
	err = m.ExecuteCode("test", block(call("buffer.int!")))
	require.Error(t, err)
}
