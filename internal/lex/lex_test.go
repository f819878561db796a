package lex

import (
	"testing"

	"github.com/dekarrin/lumex/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_KeywordsShadowIdentifier(t *testing.T) {
	stream, err := Tokenize("addfdtd addfdtdx")
	require.NoError(t, err)

	first := stream.Next()
	assert.Equal(t, token.KwAddFDTD.ID(), first.Kind.ID())
	assert.Equal(t, "addfdtd", first.Lexeme)

	second := stream.Next()
	assert.Equal(t, token.Identifier.ID(), second.Kind.ID())
	assert.Equal(t, "addfdtdx", second.Lexeme)
}

func TestLexer_LongestMatchWins(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{"eq not assign assign", "==", []string{token.OpEq.ID()}},
		{"gte not gt eq", ">=", []string{token.OpGTE.ID()}},
		{"float not int dot int", "3.14", []string{token.Float.ID()}},
		{"and keyword not identifier", "and", []string{token.OpAnd.ID()}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			stream, err := Tokenize(c.src)
			require.NoError(t, err)

			var got []string
			for stream.HasNext() {
				got = append(got, stream.Next().Kind.ID())
			}
			assert.Equal(t, c.want, got)
		})
	}
}

func TestLexer_WhitespaceAndNewlinesDropped(t *testing.T) {
	stream, err := Tokenize("x = 1;\ny = 2;")
	require.NoError(t, err)

	var kinds []string
	for stream.HasNext() {
		kinds = append(kinds, stream.Next().Kind.ID())
	}

	for _, k := range kinds {
		assert.NotEqual(t, token.Whitespace.ID(), k)
		assert.NotEqual(t, token.Newline.ID(), k)
	}
}

func TestLexer_EmptyInputYieldsOnlyEOF(t *testing.T) {
	stream, err := Tokenize("")
	require.NoError(t, err)

	assert.False(t, stream.HasNext())
	assert.Equal(t, token.EndOfFile.ID(), stream.Peek().Kind.ID())
	// idempotent terminator
	assert.Equal(t, token.EndOfFile.ID(), stream.Next().Kind.ID())
	assert.Equal(t, token.EndOfFile.ID(), stream.Next().Kind.ID())
}

func TestLexer_RestartableFromZero(t *testing.T) {
	stream, err := Tokenize("x = 1;")
	require.NoError(t, err)

	first := stream.Next()
	stream.Reset()
	again := stream.Next()
	assert.Equal(t, first, again)
}

func TestLexer_LexicalErrorOnUnmatchedInput(t *testing.T) {
	_, err := Tokenize("x = 1 # comment")
	require.Error(t, err)
	var lexErr *Error
	assert.ErrorAs(t, err, &lexErr)
}

func TestLexer_StringLiteralEscapes(t *testing.T) {
	stream, err := Tokenize(`"a\"b"`)
	require.NoError(t, err)

	tok := stream.Next()
	assert.Equal(t, token.String.ID(), tok.Kind.ID())
	assert.Equal(t, `"a\"b"`, tok.Lexeme)
}
