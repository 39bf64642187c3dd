package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sorthlang/gosorth/lang/token"
	"github.com/sorthlang/gosorth/lang/value"
)

func TestCoercionTable(t *testing.T) {
	i, err := value.ToInt(value.None)
	require.NoError(t, err)
	require.Equal(t, int64(0), i)

	f, err := value.ToFloat(value.None)
	require.NoError(t, err)
	require.Equal(t, 0.0, f)

	b, err := value.ToBool(value.BoolValue(true))
	require.NoError(t, err)
	require.True(t, b)

	i, err = value.ToInt(value.BoolValue(true))
	require.NoError(t, err)
	require.Equal(t, int64(1), i)

	s, err := value.ToStringVal(value.IntValue(42))
	require.NoError(t, err)
	require.Equal(t, "42", s)

	_, err = value.ToInt(value.NewVector(0))
	require.Error(t, err)
}

func TestEqualityCoercesNumerics(t *testing.T) {
	require.True(t, value.Equal(value.IntValue(1), value.FloatValue(1.0)))
	require.True(t, value.Equal(value.IntValue(1), value.BoolValue(true)))
	require.False(t, value.Equal(value.IntValue(0), value.BoolValue(true)))
}

func TestEqualityCoercesStringables(t *testing.T) {
	require.True(t, value.Equal(value.StringValue("abc"), value.StringValue("abc")))
	require.False(t, value.Equal(value.StringValue("abc"), value.IntValue(1)))
}

func TestDeepCloneIsolatesVector(t *testing.T) {
	v := value.NewVector(0)
	v.PushBack(value.IntValue(1))
	v.PushBack(value.IntValue(2))
	v.PushBack(value.IntValue(3))

	clone := value.DeepClone(v).(*value.Vector)
	clone.PushBack(value.IntValue(0))

	require.Equal(t, 3, v.Len())
	require.Equal(t, 4, clone.Len())
	require.True(t, value.Equal(v, v))
}

func TestDeepCloneIsIdentityUnderEquality(t *testing.T) {
	v := value.NewVector(0)
	v.PushBack(value.StringValue("a"))
	clone := value.DeepClone(v)
	require.True(t, value.Equal(v, clone))
}

func TestVectorResizeGrowsWithNoneAndShrinks(t *testing.T) {
	v := value.NewVector(0)
	v.PushBack(value.IntValue(1))

	v.Resize(3)
	require.Equal(t, 3, v.Len())
	got, err := v.At(1)
	require.NoError(t, err)
	require.Equal(t, value.None, got)

	v.Resize(1)
	require.Equal(t, 1, v.Len())
	got, err = v.At(0)
	require.NoError(t, err)
	require.Equal(t, value.IntValue(1), got)
}

func TestHashMapRejectsFloatKeys(t *testing.T) {
	m := value.NewHashMap(0)
	err := m.Set(value.FloatValue(1.5), value.IntValue(1))
	require.Error(t, err)

	require.NoError(t, m.Set(value.IntValue(1), value.StringValue("one")))
	got, ok := m.Get(value.IntValue(1))
	require.True(t, ok)
	require.Equal(t, value.StringValue("one"), got)
}

func TestDataObjectNewClonesDefaults(t *testing.T) {
	def, err := value.NewDataObjectDefinition(
		token.Location{Path: "t", Line: 1, Column: 1}, "Point",
		[]string{"x", "y"},
		[]value.Value{value.IntValue(0), value.IntValue(0)},
		value.Visible,
	)
	require.NoError(t, err)

	a := def.New()
	b := def.New()
	require.NoError(t, a.Set(0, value.IntValue(5)))

	got, err := b.Get(0)
	require.NoError(t, err)
	require.Equal(t, value.IntValue(0), got)
}

func TestByteBufferWriteReadString(t *testing.T) {
	buf := value.NewByteBuffer(16)
	require.NoError(t, buf.WriteString(8, "hi"))
	require.NoError(t, buf.SetPosition(0))
	s, err := buf.ReadString(8)
	require.NoError(t, err)
	require.Equal(t, "hi", s)
}

func TestByteBufferIntRoundTrip(t *testing.T) {
	buf := value.NewByteBuffer(8)
	require.NoError(t, buf.WriteInt(4, -7))
	require.NoError(t, buf.SetPosition(0))
	got, err := buf.ReadInt(4, true)
	require.NoError(t, err)
	require.Equal(t, int64(-7), got)
}

func TestSubBufferSharesParentStorage(t *testing.T) {
	parent := value.NewByteBuffer(16)
	sub, err := value.NewSubBuffer(parent, 4, 12)
	require.NoError(t, err)

	require.NoError(t, sub.WriteInt(4, 99))
	require.NoError(t, parent.SetPosition(4))
	got, err := parent.ReadInt(4, true)
	require.NoError(t, err)
	require.Equal(t, int64(99), got)
}
