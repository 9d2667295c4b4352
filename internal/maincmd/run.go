package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/dust-lang/dust/lang/engine"
	"github.com/dust-lang/dust/lang/value"
	"github.com/dust-lang/dust/lang/workerpool"
)

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
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

	pool := workerpool.New(program, engine.Run)
	defer pool.Shutdown()

	pool.Spawn(ctx, 0, nil)
	msg := <-pool.Receiver()
	if msg.Err != nil {
		fmt.Fprintln(stdio.Stderr, msg.Err)
		return msg.Err
	}

	if msg.Result.Kind != value.KindNone {
		fmt.Fprintln(stdio.Stdout, msg.Result)
	}
	return nil
}
