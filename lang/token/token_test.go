package token_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sorthlang/gosorth/lang/token"
)

func TestLocationString(t *testing.T) {
	cases := []struct {
		desc string
		loc  token.Location
		want string
	}{
		{"unknown", token.Location{}, "<unknown>"},
		{"full", token.Location{Path: "foo.sorth", Line: 3, Column: 7}, "foo.sorth:3:7"},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			require.Equal(t, c.want, c.loc.String())
		})
	}
}

func TestTokenString(t *testing.T) {
	loc := token.Location{Path: "f", Line: 1, Column: 1}

	num := token.NewNumber(loc, token.NumberValue{Kind: token.IntNumber, Int: 42})
	require.Equal(t, "42", num.String())
	require.True(t, num.IsNumber())
	require.False(t, num.IsTextual())

	str := token.NewString(loc, "hello")
	require.Equal(t, "hello", str.String())
	require.True(t, str.IsString())
	require.True(t, str.IsTextual())

	word := token.NewWord(loc, "dup")
	require.Equal(t, "dup", word.String())
	require.True(t, word.IsWord())
}
