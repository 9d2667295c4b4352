package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dust-lang/dust/lang/binder"
	"github.com/dust-lang/dust/lang/compiler"
	"github.com/dust-lang/dust/lang/parser"
	"github.com/dust-lang/dust/lang/resolver"
	"github.com/dust-lang/dust/lang/syntax"
	"github.com/dust-lang/dust/lang/token"
)

// buildProgram runs one source file through every front-end phase —
// scan, parse, bind, compile — stopping at the first phase that reports
// an error. Only a single file is supported: spec.md's Non-goals put the
// command-line front end out of scope, so this glue exists only far
// enough to exercise the pipeline end to end, not to be a real build
// system for multi-file Dust programs.
func buildProgram(ctx context.Context, file string) (*compiler.Program, *token.FileSet, *syntax.Tree, error) {
	fset := token.NewFileSet()
	src, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, nil, err
	}

	tree, err := parser.ParseFile(ctx, fset, file, src)
	if err != nil {
		return nil, fset, tree, err
	}

	res := resolver.New()
	b := binder.New(0, tree, res, resolver.ScopeMain)
	if errs := b.BindFile(tree.Root()); len(errs) > 0 {
		return nil, fset, tree, errs[0]
	}

	program, errs := compiler.CompileProgram(tree, res, tree.Root())
	if len(errs) > 0 {
		return nil, fset, tree, errs[0]
	}
	return program, fset, tree, nil
}

func firstFile(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("at least one file must be provided")
	}
	return args[0], nil
}
