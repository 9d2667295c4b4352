package jit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dust-lang/dust/lang/binder"
	"github.com/dust-lang/dust/lang/compiler"
	"github.com/dust-lang/dust/lang/jit"
	"github.com/dust-lang/dust/lang/parser"
	"github.com/dust-lang/dust/lang/resolver"
	"github.com/dust-lang/dust/lang/token"
)

func compileSource(t *testing.T, src string) *compiler.Program {
	t.Helper()

	fset := token.NewFileSet()
	tree, err := parser.ParseFile(context.Background(), fset, "test.ds", []byte(src))
	require.NoError(t, err)

	res := resolver.New()
	b := binder.New(0, tree, res, resolver.ScopeMain)
	require.Empty(t, b.BindFile(tree.Root()))

	program, errs := compiler.CompileProgram(tree, res, tree.Root())
	require.Empty(t, errs)
	return program
}

func TestBaselineCallMatchesInterpretedResult(t *testing.T) {
	program := compileSource(t, `
		fn double(n: int) -> int { n * 2 }
		fn main() { double(21) }
	`)

	var doubleIndex uint32
	for _, proto := range program.Prototypes {
		if proto.Name == "double" {
			doubleIndex = proto.Index
		}
	}

	var backend jit.Backend = jit.Baseline{}
	fn, err := backend.Compile(program, doubleIndex)
	require.NoError(t, err)

	result, err := fn.Call(context.Background(), 21)
	require.NoError(t, err)
	require.Equal(t, int64(42), result)
}

func TestBaselineCompileRejectsOutOfRangePrototype(t *testing.T) {
	program := compileSource(t, `fn main() { 1 }`)

	_, err := jit.Baseline{}.Compile(program, uint32(len(program.Prototypes)+5))
	require.Error(t, err)
}
