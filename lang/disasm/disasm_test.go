package disasm_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dust-lang/dust/lang/binder"
	"github.com/dust-lang/dust/lang/compiler"
	"github.com/dust-lang/dust/lang/disasm"
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

func TestDisassembleContainsOpcodeAndPrototypeName(t *testing.T) {
	program := compileSource(t, `
		fn add(a: int, b: int) -> int { a + b }
		fn main() { add(1, 2) }
	`)

	out := disasm.New(program).Disassemble()
	require.Contains(t, out, "add")
	require.Contains(t, out, "main")
	require.Contains(t, out, "return")
}

func TestDisassembleStyledDoesNotPanic(t *testing.T) {
	program := compileSource(t, `fn main() { 1 + 2 }`)
	require.NotPanics(t, func() {
		disasm.New(program).Styled(true).Disassemble()
	})
}
