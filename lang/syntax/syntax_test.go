package syntax_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dust-lang/dust/lang/parser"
	"github.com/dust-lang/dust/lang/syntax"
	"github.com/dust-lang/dust/lang/token"
)

func TestTreePushListRoundTrips(t *testing.T) {
	tree := syntax.NewTree()
	a := tree.Push(syntax.Node{Kind: syntax.KindIntegerLiteral})
	b := tree.Push(syntax.Node{Kind: syntax.KindIntegerLiteral})

	start, count := tree.PushList([]syntax.SyntaxId{a, b})
	require.Equal(t, []syntax.SyntaxId{a, b}, tree.List(start, count))
}

func TestTreePushNameRoundTrips(t *testing.T) {
	tree := syntax.NewTree()
	idx := tree.PushName("hello")
	require.Equal(t, "hello", tree.Name(idx))
}

func TestEncodeDecodeIntegerFloatCharacterByteBool(t *testing.T) {
	require.Equal(t, int64(-42), syntax.DecodeInteger(syntax.EncodeInteger(-42)))
	require.Equal(t, 2.5, syntax.DecodeFloat(syntax.EncodeFloat(2.5)))
	require.Equal(t, 'z', syntax.DecodeCharacter(syntax.EncodeCharacter('z')))
	require.Equal(t, byte(9), syntax.DecodeByte(syntax.EncodeByte(9)))
	require.True(t, syntax.DecodeBool(syntax.EncodeBool(true)))
	require.False(t, syntax.DecodeBool(syntax.EncodeBool(false)))
}

func TestSyntaxKindStringNamesKnownKinds(t *testing.T) {
	require.Equal(t, "function_item", syntax.KindFunctionItem.String())
	require.Equal(t, "if_expr", syntax.KindIfExpr.String())
}

func TestPrinterPrintListsEveryNodeInInsertionOrder(t *testing.T) {
	fset := token.NewFileSet()
	tree, err := parser.ParseFile(context.Background(), fset, "test.ds", []byte(`fn main() { 1 + 2 }`))
	require.NoError(t, err)

	var out strings.Builder
	printer := syntax.Printer{Output: &out}
	require.NoError(t, printer.Print(tree, nil))

	require.Contains(t, out.String(), "function_item")
	require.Contains(t, out.String(), "binary_expr")
	require.Contains(t, out.String(), "file")
}
