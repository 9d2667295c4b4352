package syntax

import (
	"fmt"
	"io"
	"strings"

	"github.com/dust-lang/dust/lang/token"
)

// Printer renders a Tree's flat node buffer for inspection, grounded on the
// teacher's lang/ast.Printer: one line per node, with an optional
// "[start:end] " position-bracket prefix. The teacher's printer walks a
// pointer tree with a Visitor and indents by nesting depth; a flat,
// kind-polymorphic buffer has no single generic walk that knows how to
// recurse through every Kind's reinterpreted Children, so this one
// linearly dumps every node in insertion order instead — still one line
// per node, just without the recursive indent a pointer tree's
// Visit(enter)/Visit(exit) pair would produce.
type Printer struct {
	Output   io.Writer
	ShowSpan bool
}

// Print writes one line per node in t, in insertion order.
func (p *Printer) Print(t *Tree, file *token.File) error {
	for id := SyntaxId(1); int(id) < t.Len(); id++ {
		n := t.Node(id)

		var b strings.Builder
		fmt.Fprintf(&b, "%-5d %-18s", id, n.Kind)
		if p.ShowSpan && file != nil {
			fmt.Fprintf(&b, " [%s:%s]", file.Position(n.Span.Start), file.Position(n.Span.End))
		}
		fmt.Fprintf(&b, " children=(%d, %d)\n", n.Children[0], n.Children[1])

		if _, err := io.WriteString(p.Output, b.String()); err != nil {
			return err
		}
	}
	return nil
}
