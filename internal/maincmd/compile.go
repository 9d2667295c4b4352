package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/dust-lang/dust/lang/disasm"
)

func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	file, err := firstFile(args)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	program, _, _, err := buildProgram(ctx, file)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	out := disasm.New(program).Styled(c.Colorize).Disassemble()
	fmt.Fprint(stdio.Stdout, out)
	return nil
}
