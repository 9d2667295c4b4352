package binder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dust-lang/dust/lang/binder"
	"github.com/dust-lang/dust/lang/parser"
	"github.com/dust-lang/dust/lang/resolver"
	"github.com/dust-lang/dust/lang/token"
)

func parseAndBind(t *testing.T, src string) (*resolver.Resolver, []error) {
	t.Helper()

	fset := token.NewFileSet()
	tree, err := parser.ParseFile(context.Background(), fset, "test.ds", []byte(src))
	require.NoError(t, err)

	res := resolver.New()
	b := binder.New(0, tree, res, resolver.ScopeMain)
	return res, b.BindFile(tree.Root())
}

func TestBindFileDeclaresTopLevelFunctions(t *testing.T) {
	res, errs := parseAndBind(t, `
		fn helper(n: int) -> int { n }
		fn main() { helper(1) }
	`)
	require.Empty(t, errs)

	_, decl, ok := res.FindDeclarationInScope("helper", resolver.ScopeMain)
	require.True(t, ok)
	require.Equal(t, resolver.DeclFunction, decl.Kind)

	_, decl, ok = res.FindDeclarationInScope("main", resolver.ScopeMain)
	require.True(t, ok)
	require.Equal(t, resolver.DeclFunction, decl.Kind)
}

func TestBindFileResolvesParameterAndReturnTypes(t *testing.T) {
	res, errs := parseAndBind(t, `
		fn add(a: int, b: int) -> int { a + b }
		fn main() { add(1, 2) }
	`)
	require.Empty(t, errs)

	_, decl, ok := res.FindDeclarationInScope("add", resolver.ScopeMain)
	require.True(t, ok)

	params := res.Parameters(decl.Function.ParametersStart, decl.Function.ParametersCount)
	require.Len(t, params, 2)
	for _, paramID := range params {
		require.Equal(t, resolver.TypeInteger, res.Declaration(paramID).TypeID)
	}
}

func TestBindFileUndeclaredImportIsAnError(t *testing.T) {
	_, errs := parseAndBind(t, `
		use nonexistent::thing;
		fn main() { 1 }
	`)
	require.NotEmpty(t, errs)
	require.Contains(t, errs[0].Error(), "undeclared name")
}

func TestBindFileNestedModuleDeclaresItsOwnScope(t *testing.T) {
	res, errs := parseAndBind(t, `
		mod util {
			fn helper() -> int { 1 }
		}
		fn main() { 1 }
	`)
	require.Empty(t, errs)

	_, decl, ok := res.FindDeclarationInScope("util", resolver.ScopeMain)
	require.True(t, ok)
	require.Equal(t, resolver.DeclModule, decl.Kind)

	_, helperDecl, ok := res.FindDeclarationInScope("helper", decl.ModuleScope)
	require.True(t, ok)
	require.Equal(t, resolver.DeclFunction, helperDecl.Kind)
}

func TestBindFileUseResolvesThroughModule(t *testing.T) {
	_, errs := parseAndBind(t, `
		mod util {
			fn helper() -> int { 1 }
		}
		use util::helper;
		fn main() { 1 }
	`)
	require.Empty(t, errs)
}
