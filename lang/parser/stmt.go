package parser

import (
	"github.com/dust-lang/dust/lang/syntax"
	"github.com/dust-lang/dust/lang/token"
)

// parseBlockExpr parses `{ stmt* expr? }`. A block's value is its trailing
// expression statement written without a terminating `;`, or none if the
// block ends in a `;` or a `let`, or is empty. Each KindExprStatement
// records in Children[1] whether it was terminated by `;` (1) or not (0);
// the compiler takes the block's value from a last statement that is a
// KindExprStatement with that flag at 0.
func (p *parser) parseBlockExpr() syntax.SyntaxId {
	start := p.expect(token.LBRACE)

	var stmts []syntax.SyntaxId
	for p.tok != token.RBRACE && p.tok != token.EOF {
		id, ok := p.parseStatement()
		if ok {
			stmts = append(stmts, id)
		}
	}
	p.expect(token.RBRACE)

	listStart, count := p.tree.PushList(stmts)
	return p.tree.Push(syntax.Node{
		Kind:     syntax.KindBlockExpr,
		Children: [2]uint32{listStart, count},
		Span:     p.span(start),
	})
}

// parseStatement parses one statement inside a block. On a malformed
// statement it synchronizes to the next `;` or block boundary and returns
// ok=false.
func (p *parser) parseStatement() (id syntax.SyntaxId, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if r != errPanicMode {
				panic(r)
			}
			p.synchronize()
			ok = false
		}
	}()

	switch p.tok {
	case token.LET:
		return p.parseLetStatement(), true
	default:
		start := p.pos()
		expr := p.parseExpr()
		hasSemi := false
		if p.tok == token.SEMI {
			p.advance()
			hasSemi = true
		}
		var semiFlag uint32
		if hasSemi {
			semiFlag = 1
		}
		return p.tree.Push(syntax.Node{
			Kind:     syntax.KindExprStatement,
			Children: [2]uint32{uint32(expr), semiFlag},
			Span:     p.span(start),
		}), true
	}
}

// parseLetStatement parses `let name: Type = expr;` or `let mut name = expr;`
// (the type annotation is optional in both forms; the compiler gives the
// local the operand type of its initializer whether or not one is written).
func (p *parser) parseLetStatement() syntax.SyntaxId {
	start := p.expect(token.LET)

	var mutable uint32
	if p.tok == token.MUT {
		mutable = 1
		p.advance()
	}

	nameID := p.parseIdentifier()

	var typeID syntax.SyntaxId
	if p.tok == token.COLON {
		p.advance()
		typeID = p.parseType()
	}

	p.expect(token.EQ)
	valueID := p.parseExpr()
	p.expect(token.SEMI)

	// Children list layout: [name, type, value]; type is NoSyntaxId when
	// omitted. The mutability flag doesn't fit alongside a 3-element list
	// inline, so it rides in the node's own Children[1] would collide with
	// the list's count — instead it's folded into the list as a fourth,
	// synthetic id whose own value (0 or 1) is meaningless as a SyntaxId and
	// is only ever read back by index 3.
	children, count := p.tree.PushList([]syntax.SyntaxId{nameID, typeID, valueID, syntax.SyntaxId(mutable)})
	return p.tree.Push(syntax.Node{
		Kind:     syntax.KindLetStatement,
		Children: [2]uint32{children, count},
		Span:     p.span(start),
	})
}
