package parser

import (
	"github.com/dust-lang/dust/lang/syntax"
	"github.com/dust-lang/dust/lang/token"
)

// parseType parses a type annotation: a bare name (`int`, `MyType`), a list
// type (`[int]`), a function type (`fn(int, int) -> int`), or the inferred
// placeholder `_`.
func (p *parser) parseType() syntax.SyntaxId {
	start := p.pos()
	switch p.tok {
	case token.LBRACK:
		p.advance()
		elem := p.parseType()
		p.expect(token.RBRACK)
		return p.tree.Push(syntax.Node{
			Kind:     syntax.KindListType,
			Children: [2]uint32{uint32(elem), 0},
			Span:     p.span(start),
		})

	case token.FN:
		p.advance()
		p.expect(token.LPAREN)
		var params []syntax.SyntaxId
		for p.tok != token.RPAREN {
			params = append(params, p.parseType())
			if p.tok != token.COMMA {
				break
			}
			p.advance()
		}
		p.expect(token.RPAREN)
		var ret syntax.SyntaxId
		if p.tok == token.ARROW {
			p.advance()
			ret = p.parseType()
		}
		children, count := p.tree.PushList(append([]syntax.SyntaxId{ret}, params...))
		return p.tree.Push(syntax.Node{
			Kind:     syntax.KindFunctionType,
			Children: [2]uint32{children, count},
			Span:     p.span(start),
		})

	case token.IDENT:
		if p.val.Raw == "_" {
			p.advance()
			return p.tree.Push(syntax.Node{Kind: syntax.KindInferredType, Span: p.span(start)})
		}
		raw := p.val.Raw
		p.advance()
		nameIdx := p.tree.PushName(raw)
		return p.tree.Push(syntax.Node{
			Kind:     syntax.KindTypeName,
			Children: [2]uint32{nameIdx, 0},
			Span:     p.span(start),
		})

	default:
		p.errorExpected(start, "type")
		panic(errPanicMode)
	}
}
