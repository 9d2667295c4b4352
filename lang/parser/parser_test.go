package parser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dust-lang/dust/lang/parser"
	"github.com/dust-lang/dust/lang/syntax"
	"github.com/dust-lang/dust/lang/token"
)

func parse(t *testing.T, src string) *syntax.Tree {
	t.Helper()
	fset := token.NewFileSet()
	tree, err := parser.ParseFile(context.Background(), fset, "test.ds", []byte(src))
	require.NoError(t, err)
	return tree
}

func TestParseFileProducesFileRoot(t *testing.T) {
	tree := parse(t, `fn main() { 1 }`)
	root := tree.Node(tree.Root())
	require.Equal(t, syntax.KindFile, root.Kind)
}

func TestParseFileSingleFunctionItem(t *testing.T) {
	tree := parse(t, `fn main() { 1 }`)
	root := tree.Node(tree.Root())

	start, count := root.Children[0], root.Children[1]
	items := tree.List(start, count)
	require.Len(t, items, 1)
	require.Equal(t, syntax.KindFunctionItem, tree.Node(items[0]).Kind)
}

func TestParseFileBinaryExpr(t *testing.T) {
	tree := parse(t, `fn main() { 1 + 2 }`)
	root := tree.Node(tree.Root())
	start, count := root.Children[0], root.Children[1]
	fnItem := tree.Node(tree.List(start, count)[0])

	fnStart, fnCount := fnItem.Children[0], fnItem.Children[1]
	fnChildren := tree.List(fnStart, fnCount)
	bodyID := fnChildren[2]

	body := tree.Node(bodyID)
	require.Equal(t, syntax.KindBlockExpr, body.Kind)

	bodyStart, bodyCount := body.Children[0], body.Children[1]
	stmts := tree.List(bodyStart, bodyCount)
	require.Len(t, stmts, 1)

	exprStmt := tree.Node(stmts[0])
	require.Equal(t, syntax.KindExprStatement, exprStmt.Kind)

	binary := tree.Node(exprStmt.Single())
	require.Equal(t, syntax.KindBinaryExpr, binary.Kind)
}

func TestParseFileListLiteralAndIndexExpr(t *testing.T) {
	tree := parse(t, `fn main() { let xs = [1, 2, 3]; xs[0] }`)
	root := tree.Node(tree.Root())
	start, count := root.Children[0], root.Children[1]
	fnItem := tree.Node(tree.List(start, count)[0])

	fnStart, fnCount := fnItem.Children[0], fnItem.Children[1]
	body := tree.Node(tree.List(fnStart, fnCount)[2])

	bodyStart, bodyCount := body.Children[0], body.Children[1]
	stmts := tree.List(bodyStart, bodyCount)
	require.Len(t, stmts, 2)

	require.Equal(t, syntax.KindLetStatement, tree.Node(stmts[0]).Kind)

	indexStmt := tree.Node(stmts[1])
	require.Equal(t, syntax.KindExprStatement, indexStmt.Kind)
	require.Equal(t, syntax.KindIndexExpr, tree.Node(indexStmt.Single()).Kind)
}

func TestParseFileIfElseExpr(t *testing.T) {
	tree := parse(t, `fn main() { if 1 > 0 { 1 } else { 0 } }`)
	root := tree.Node(tree.Root())
	start, count := root.Children[0], root.Children[1]
	fnItem := tree.Node(tree.List(start, count)[0])

	fnStart, fnCount := fnItem.Children[0], fnItem.Children[1]
	body := tree.Node(tree.List(fnStart, fnCount)[2])

	bodyStart, bodyCount := body.Children[0], body.Children[1]
	stmts := tree.List(bodyStart, bodyCount)
	require.Len(t, stmts, 1)

	ifExpr := tree.Node(tree.Node(stmts[0]).Single())
	require.Equal(t, syntax.KindIfExpr, ifExpr.Kind)
}

func TestParseFileMissingClosingBraceIsAnError(t *testing.T) {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(context.Background(), fset, "test.ds", []byte(`fn main() { 1`))
	require.Error(t, err)
}
