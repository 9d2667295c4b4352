package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/dust-lang/dust/lang/scanner"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(ctx, stdio, args...)
}

func TokenizeFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	fs, toksByFile, err := scanner.ScanFiles(ctx, files...)
	for _, toks := range toksByFile {
		for _, tv := range toks {
			fmt.Fprintf(stdio.Stdout, "%s: %s", fs.Position(tv.Value.Pos), tv.Kind)
			if raw := tv.Value.Raw; raw != "" {
				fmt.Fprintf(stdio.Stdout, " %s", raw)
			}
			fmt.Fprintln(stdio.Stdout)
		}
	}
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
	}
	return err
}
