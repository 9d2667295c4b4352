package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/dust-lang/dust/lang/binder"
	"github.com/dust-lang/dust/lang/parser"
	"github.com/dust-lang/dust/lang/resolver"
	"github.com/dust-lang/dust/lang/scanner"
	"github.com/dust-lang/dust/lang/syntax"
)

func (c *Cmd) Resolve(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ResolveFiles(ctx, stdio, args...)
}

// ResolveFiles parses each file into its own syntax tree, binds every
// tree's items into a shared Resolver, then prints every tree to stdout and
// any binder errors to stderr. Multiple files share one Resolver
// so a function in one file can call a function declared in another — the
// same cross-file sharing CompileProgram itself assumes of its resolver
// argument.
func ResolveFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	printer := syntax.Printer{Output: stdio.Stdout, ShowSpan: true}

	fs, trees, perr := parser.ParseFiles(ctx, files...)
	if perr != nil {
		scanner.PrintError(stdio.Stderr, perr)
		return perr
	}

	res := resolver.New()
	var berrs []error
	for i, tree := range trees {
		b := binder.New(syntax.SourceFileId(i), tree, res, resolver.ScopeMain)
		berrs = append(berrs, b.BindFile(tree.Root())...)
	}

	for _, tree := range trees {
		file := fs.File(tree.Node(tree.Root()).Span.Start)
		if err := printer.Print(tree, file); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}

	if len(berrs) > 0 {
		for _, err := range berrs {
			fmt.Fprintln(stdio.Stderr, err)
		}
		return berrs[0]
	}
	return nil
}
