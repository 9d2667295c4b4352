package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/dust-lang/dust/lang/parser"
	"github.com/dust-lang/dust/lang/scanner"
	"github.com/dust-lang/dust/lang/syntax"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(ctx, stdio, args...)
}

func ParseFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	printer := syntax.Printer{Output: stdio.Stdout, ShowSpan: true}

	fs, trees, err := parser.ParseFiles(ctx, files...)
	for _, tree := range trees {
		file := fs.File(tree.Node(tree.Root()).Span.Start)
		if perr := printer.Print(tree, file); perr != nil {
			fmt.Fprintln(stdio.Stderr, perr)
			return perr
		}
	}
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
	}
	return err
}
