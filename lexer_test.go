package lyn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLexerScansKeywordsAndIdentifiers(t *testing.T) {
	lex := NewLexer([]byte("func x print end"))

	tok, err := lex.NextToken()
	require.NoError(t, err)
	require.Equal(t, TokFunc, tok.Kind)

	tok, err = lex.NextToken()
	require.NoError(t, err)
	require.Equal(t, TokIdentifier, tok.Kind)
	require.Equal(t, "x", tok.Lexeme)

	tok, err = lex.NextToken()
	require.NoError(t, err)
	require.Equal(t, TokPrint, tok.Kind)

	tok, err = lex.NextToken()
	require.NoError(t, err)
	require.Equal(t, TokEnd, tok.Kind)
}

func TestLexerScansNumbersAndStrings(t *testing.T) {
	lex := NewLexer([]byte(`3.14 "hello world"`))

	tok, err := lex.NextToken()
	require.NoError(t, err)
	require.Equal(t, TokNumber, tok.Kind)
	require.Equal(t, "3.14", tok.Lexeme)

	tok, err = lex.NextToken()
	require.NoError(t, err)
	require.Equal(t, TokString, tok.Kind)
	require.Equal(t, "hello world", tok.Lexeme)
}

func TestLexerScansTwoCharacterOperators(t *testing.T) {
	cases := []struct {
		source string
		kind   TokenKind
	}{
		{"->", TokArrow},
		{"=>", TokFatArrow},
		{">=", TokGTE},
		{"<=", TokLTE},
		{"==", TokEQ},
		{"!=", TokNEQ},
		{">", TokGT},
		{"<", TokLT},
		{"=", TokAssign},
	}
	for _, c := range cases {
		lex := NewLexer([]byte(c.source))
		tok, err := lex.NextToken()
		require.NoError(t, err)
		require.Equalf(t, c.kind, tok.Kind, "source %q", c.source)
	}
}

func TestLexerBareBangIsAnError(t *testing.T) {
	lex := NewLexer([]byte("!"))
	_, err := lex.NextToken()
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, LexError, ce.Kind)
}

func TestLexerSkipsLineAndBlockComments(t *testing.T) {
	lex := NewLexer([]byte("x // trailing comment\n/* block\ncomment */ y"))

	tok, err := lex.NextToken()
	require.NoError(t, err)
	require.Equal(t, "x", tok.Lexeme)

	tok, err = lex.NextToken()
	require.NoError(t, err)
	require.Equal(t, "y", tok.Lexeme)
}

func TestLexerUnterminatedBlockCommentIsFatal(t *testing.T) {
	lex := NewLexer([]byte("/* never closes"))
	_, err := lex.NextToken()
	require.Error(t, err)
}

func TestLexerUnterminatedStringIsFatal(t *testing.T) {
	lex := NewLexer([]byte(`"never closes`))
	_, err := lex.NextToken()
	require.Error(t, err)
}

// TestLexerSaveRestoreRoundTrips exercises the checkpoint contract: after
// Restore(s), the next NextToken call must return exactly what it would
// have returned right after Save(), no matter how far the lexer moved
// between the two.
func TestLexerSaveRestoreRoundTrips(t *testing.T) {
	lex := NewLexer([]byte("alpha beta gamma delta"))

	first, err := lex.NextToken()
	require.NoError(t, err)
	require.Equal(t, "alpha", first.Lexeme)

	checkpoint := lex.Save()
	expected, err := lex.NextToken()
	require.NoError(t, err)
	require.Equal(t, "beta", expected.Lexeme)

	// Move the lexer far past the checkpoint.
	_, err = lex.NextToken()
	require.NoError(t, err)
	_, err = lex.NextToken()
	require.NoError(t, err)

	lex.Restore(checkpoint)
	actual, err := lex.NextToken()
	require.NoError(t, err)
	require.Equal(t, expected, actual)
}
