package compiler_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dust-lang/dust/lang/binder"
	"github.com/dust-lang/dust/lang/compiler"
	"github.com/dust-lang/dust/lang/parser"
	"github.com/dust-lang/dust/lang/resolver"
	"github.com/dust-lang/dust/lang/token"
)

func compileSource(t *testing.T, src string) (*compiler.Program, []error) {
	t.Helper()

	fset := token.NewFileSet()
	tree, err := parser.ParseFile(context.Background(), fset, "test.ds", []byte(src))
	require.NoError(t, err)

	res := resolver.New()
	b := binder.New(0, tree, res, resolver.ScopeMain)
	if errs := b.BindFile(tree.Root()); len(errs) > 0 {
		return nil, errs
	}

	return compiler.CompileProgram(tree, res, tree.Root())
}

func TestCompileProgram_ConstantFoldedLiteral(t *testing.T) {
	program, errs := compileSource(t, `fn main() { 1 + 2 }`)
	require.Empty(t, errs)
	require.Len(t, program.Prototypes, 1)

	main := program.Main()
	require.Len(t, main.Instructions, 1)

	ret := main.Instructions[0]
	require.Equal(t, compiler.RETURN, ret.Operation)
	require.True(t, ret.ShouldReturnValue)
	require.Equal(t, compiler.OperandInteger, ret.OperandType)
	require.Equal(t, compiler.AddressConstant, ret.Left.Kind)

	constant := program.Constants[ret.Left.Index]
	require.Equal(t, int64(3), constant.Int)
}

func TestCompileProgram_DivisionByZeroIsACompileError(t *testing.T) {
	program, errs := compileSource(t, `fn main() { 1 / 0 }`)
	require.NotEmpty(t, errs)
	require.Contains(t, errs[0].Error(), "division by zero")
	_ = program
}

func TestCompileProgram_ModuloByZeroIsACompileError(t *testing.T) {
	_, errs := compileSource(t, `fn main() { 1 % 0 }`)
	require.NotEmpty(t, errs)
	require.Contains(t, errs[0].Error(), "modulo by zero")
}

func TestCompileProgram_RequiresMain(t *testing.T) {
	_, errs := compileSource(t, `fn helper() { 1 }`)
	require.NotEmpty(t, errs)
	require.Contains(t, errs[0].Error(), "no `fn main` found")
}

func TestCompileProgram_NonLiteralBinaryEmitsArithmeticInstruction(t *testing.T) {
	program, errs := compileSource(t, `
		fn add(a: int, b: int) -> int { a + b }
		fn main() { add(1, 2) }
	`)
	require.Empty(t, errs)
	require.Len(t, program.Prototypes, 2)

	var add *compiler.Prototype
	for _, proto := range program.Prototypes {
		if proto.Name == "add" {
			add = proto
		}
	}
	require.NotNil(t, add)

	var sawAdd bool
	for _, instr := range add.Instructions {
		if instr.Operation == compiler.ADD {
			sawAdd = true
			require.Equal(t, compiler.AddressRegister, instr.Left.Kind)
			require.Equal(t, compiler.AddressRegister, instr.Right.Kind)
		}
	}
	require.True(t, sawAdd, "expected an ADD instruction operating on registers")
}

func TestCompileProgram_MutuallyRecursiveFunctionsResolve(t *testing.T) {
	program, errs := compileSource(t, `
		fn is_even(n: int) -> bool { if n == 0 { true } else { is_odd(n - 1) } }
		fn is_odd(n: int) -> bool { if n == 0 { false } else { is_even(n - 1) } }
		fn main() { is_even(4) }
	`)
	require.Empty(t, errs)
	require.Len(t, program.Prototypes, 3)
	require.Equal(t, "main", program.Main().Name)
}
