package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dust-lang/dust/lang/binder"
	"github.com/dust-lang/dust/lang/compiler"
	"github.com/dust-lang/dust/lang/engine"
	"github.com/dust-lang/dust/lang/parser"
	"github.com/dust-lang/dust/lang/resolver"
	"github.com/dust-lang/dust/lang/token"
	"github.com/dust-lang/dust/lang/value"
)

func run(t *testing.T, src string) (value.Value, error) {
	t.Helper()

	fset := token.NewFileSet()
	tree, err := parser.ParseFile(context.Background(), fset, "test.ds", []byte(src))
	require.NoError(t, err)

	res := resolver.New()
	b := binder.New(0, tree, res, resolver.ScopeMain)
	require.Empty(t, b.BindFile(tree.Root()))

	program, errs := compiler.CompileProgram(tree, res, tree.Root())
	require.Empty(t, errs)

	return engine.Run(context.Background(), program, 0, nil)
}

func TestRunLiteralReturn(t *testing.T) {
	result, err := run(t, `fn main() { 42 }`)
	require.NoError(t, err)
	require.Equal(t, value.KindInteger, result.Kind)
	require.Equal(t, int64(42), result.AsInteger())
}

func TestRunArithmeticOnLocals(t *testing.T) {
	result, err := run(t, `
		fn main() {
			let a = 10;
			let b = 3;
			a - b
		}
	`)
	require.NoError(t, err)
	require.Equal(t, int64(7), result.AsInteger())
}

func TestRunStringConcatenation(t *testing.T) {
	result, err := run(t, `
		fn main() {
			let a = "foo";
			let b = "bar";
			a + b
		}
	`)
	require.NoError(t, err)
	require.Equal(t, value.KindString, result.Kind)
	require.Equal(t, "foobar", result.AsString())
}

func TestRunListIndex(t *testing.T) {
	result, err := run(t, `
		fn main() {
			let xs = [10, 20, 30];
			xs[1]
		}
	`)
	require.NoError(t, err)
	require.Equal(t, int64(20), result.AsInteger())
}

func TestRunListIndexOutOfBoundsIsARuntimeError(t *testing.T) {
	_, err := run(t, `
		fn main() {
			let xs = [1, 2];
			xs[5]
		}
	`)
	require.Error(t, err)
	var rerr *engine.RuntimeError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, engine.StatusErrorIndexOutOfBounds, rerr.Status)
}

func TestRunIfElse(t *testing.T) {
	result, err := run(t, `
		fn main() {
			let n = 5;
			if n > 3 { 1 } else { 0 }
		}
	`)
	require.NoError(t, err)
	require.Equal(t, int64(1), result.AsInteger())
}

func TestRunFunctionCall(t *testing.T) {
	result, err := run(t, `
		fn double(n: int) -> int { n * 2 }
		fn main() { double(21) }
	`)
	require.NoError(t, err)
	require.Equal(t, int64(42), result.AsInteger())
}

func TestRunLessThanOrdersNegativeIntegersCorrectly(t *testing.T) {
	result, err := run(t, `fn main() -> bool { 0 - 1 < 5 }`)
	require.NoError(t, err)
	require.Equal(t, value.KindBoolean, result.Kind)
	require.True(t, result.AsBool())
}

func TestRunExceedsStepLimit(t *testing.T) {
	prev := engine.DefaultConfig
	engine.DefaultConfig.MaxSteps = 10
	defer func() { engine.DefaultConfig = prev }()

	_, err := run(t, `
		fn main() {
			let n = 0;
			while true {
				n = n + 1;
			}
		}
	`)
	require.Error(t, err)
	var rerr *engine.RuntimeError
	require.ErrorAs(t, err, &rerr)
	require.Equal(t, engine.StatusErrorStepLimitExceeded, rerr.Status)
}
