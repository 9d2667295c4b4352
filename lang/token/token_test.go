package token_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dust-lang/dust/lang/token"
)

func TestLookupIdentRecognizesKeywordsOnly(t *testing.T) {
	require.Equal(t, token.FN, token.LookupIdent("fn"))
	require.Equal(t, token.LET, token.LookupIdent("let"))
	require.Equal(t, token.IF, token.LookupIdent("if"))
	require.Equal(t, token.IDENT, token.LookupIdent("whatever"))
}

func TestKindStringIsHumanReadable(t *testing.T) {
	require.Equal(t, "(", token.LPAREN.String())
	require.NotEmpty(t, token.EOF.String())
}

func TestKindGoStringQuotesPunctuationAndKeywords(t *testing.T) {
	require.Equal(t, "'fn'", token.FN.GoString())
	require.Equal(t, "'+'", token.PLUS.GoString())
}

func TestNewFileSetAddsFilesWithPositions(t *testing.T) {
	fset := token.NewFileSet()
	f := fset.AddFile("test.ds", -1, 10)
	require.Equal(t, "test.ds", f.Name())
}
