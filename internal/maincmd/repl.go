package maincmd

import (
	"context"

	"github.com/mna/mainer"

	"github.com/dust-lang/dust/internal/replui"
)

func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return replui.Start(replui.Options{NoColor: !c.Colorize})
}
