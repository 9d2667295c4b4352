package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dust-lang/dust/lang/scanner"
	dtoken "github.com/dust-lang/dust/lang/token"
)

func scan(t *testing.T, src string) []scanner.TokenAndValue {
	t.Helper()

	var el scanner.ErrorList
	fs := dtoken.NewFileSet()
	toks := scanner.ScanSource(fs, "test.ds", []byte(src), &el)
	require.NoError(t, el.Err())
	return toks
}

func kinds(toks []scanner.TokenAndValue) []dtoken.Kind {
	out := make([]dtoken.Kind, len(toks))
	for i, tv := range toks {
		out[i] = tv.Kind
	}
	return out
}

func TestScanSourceKeywordsAndPunctuation(t *testing.T) {
	toks := scan(t, `fn main() { 1 + 2 }`)
	require.Equal(t, []dtoken.Kind{
		dtoken.FN, dtoken.IDENT, dtoken.LPAREN, dtoken.RPAREN,
		dtoken.LBRACE, dtoken.INT, dtoken.PLUS, dtoken.INT, dtoken.RBRACE,
		dtoken.EOF,
	}, kinds(toks))
}

func TestScanSourceDecodesIntegerLiteral(t *testing.T) {
	toks := scan(t, `123`)
	require.Len(t, toks, 2)
	require.Equal(t, dtoken.INT, toks[0].Kind)
	require.Equal(t, int64(123), toks[0].Value.Int)
}

func TestScanSourceDecodesFloatLiteral(t *testing.T) {
	toks := scan(t, `3.5`)
	require.Equal(t, dtoken.FLOAT, toks[0].Kind)
	require.Equal(t, 3.5, toks[0].Value.Float)
}

func TestScanSourceDecodesStringLiteral(t *testing.T) {
	toks := scan(t, `"hello"`)
	require.Equal(t, dtoken.STRING, toks[0].Kind)
	require.Equal(t, "hello", toks[0].Value.String)
}

func TestScanSourceDecodesCharLiteral(t *testing.T) {
	toks := scan(t, `'x'`)
	require.Equal(t, dtoken.CHAR, toks[0].Kind)
	require.Equal(t, 'x', toks[0].Value.Char)
}

func TestScanSourceTwoCharOperators(t *testing.T) {
	toks := scan(t, `== != <= >=`)
	require.Equal(t, []dtoken.Kind{
		dtoken.EQEQ, dtoken.BANGEQ, dtoken.LE, dtoken.GE, dtoken.EOF,
	}, kinds(toks))
}

func TestScanSourceLookupIdentRecognizesKeywords(t *testing.T) {
	require.Equal(t, dtoken.LET, dtoken.LookupIdent("let"))
	require.Equal(t, dtoken.FN, dtoken.LookupIdent("fn"))
	require.Equal(t, dtoken.IDENT, dtoken.LookupIdent("not_a_keyword"))
}

func TestScanSourceReportsIllegalCharacter(t *testing.T) {
	var el scanner.ErrorList
	fs := dtoken.NewFileSet()
	scanner.ScanSource(fs, "test.ds", []byte("`"), &el)
	require.Error(t, el.Err())
}
