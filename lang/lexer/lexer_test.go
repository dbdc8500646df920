package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warplang/warp/lang/lexer"
	"github.com/warplang/warp/lang/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	var errs []string
	var l lexer.Lexer
	l.Init([]byte(src), func(line int, msg string, warn bool) {
		errs = append(errs, msg)
	})
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	require.Empty(t, errs)
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestKeywordsAndIdents(t *testing.T) {
	toks := scanAll(t, "var x = nil while true end")
	assert.Equal(t, []token.Kind{
		token.VAR, token.IDENT, token.EQ, token.NIL, token.WHILE, token.TRUE, token.END, token.EOF,
	}, kinds(toks))
}

func TestCompoundOperators(t *testing.T) {
	toks := scanAll(t, "+ += - -= -> * *= / /= ! != = == < <= > >= && ||")
	assert.Equal(t, []token.Kind{
		token.PLUS, token.PLUS_EQ, token.MINUS, token.MINUS_EQ, token.ARROW,
		token.STAR, token.STAR_EQ, token.SLASH, token.SLASH_EQ,
		token.BANG, token.BANG_EQ, token.EQ, token.EQ_EQ,
		token.LT, token.LT_EQ, token.GT, token.GT_EQ,
		token.AND_AND, token.OR_OR, token.EOF,
	}, kinds(toks))
}

func TestNumberLiteral(t *testing.T) {
	toks := scanAll(t, "3.5 42")
	require.Len(t, toks, 3)
	assert.Equal(t, 3.5, toks[0].Number)
	assert.Equal(t, float64(42), toks[1].Number)
}

func TestStringEscapes(t *testing.T) {
	toks := scanAll(t, `"a\nb\tc\"d"`)
	require.Len(t, toks, 2)
	assert.Equal(t, "a\nb\tc\"d", toks[0].Str)
}

func TestStartOfLineFlag(t *testing.T) {
	toks := scanAll(t, "var x = 1\nvar y = 2")
	require.True(t, len(toks) > 6)
	assert.False(t, toks[0].StartOfLine) // first token of file: not considered a continuation
	// the "var" on the second line must be flagged
	var found bool
	for _, tk := range toks {
		if tk.Kind == token.VAR && tk.Line == 2 {
			found = true
			assert.True(t, tk.StartOfLine)
		}
	}
	assert.True(t, found)
}

func TestLineComment(t *testing.T) {
	toks := scanAll(t, "1 // trailing comment\n2")
	assert.Equal(t, []token.Kind{token.NUMBER, token.NUMBER, token.EOF}, kinds(toks))
}

func TestUnknownEscapeWarns(t *testing.T) {
	var warned []string
	var l lexer.Lexer
	l.Init([]byte(`"a\qb"`), func(line int, msg string, warn bool) {
		if warn {
			warned = append(warned, msg)
		}
	})
	tok := l.Next()
	assert.Equal(t, "ab", tok.Str)
	assert.NotEmpty(t, warned)
}
