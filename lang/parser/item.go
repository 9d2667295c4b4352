package parser

import (
	"github.com/dust-lang/dust/lang/syntax"
	"github.com/dust-lang/dust/lang/token"
)

// parseFile parses a whole source file: a sequence of items (functions,
// use-imports, nested modules), wrapped in a KindFile node.
func (p *parser) parseFile() *syntax.Tree {
	start := p.pos()
	var items []syntax.SyntaxId

	for p.tok != token.EOF {
		id, ok := p.parseItem()
		if ok {
			items = append(items, id)
		}
	}

	listStart, count := p.tree.PushList(items)
	p.tree.Push(syntax.Node{
		Kind:     syntax.KindFile,
		Children: [2]uint32{listStart, count},
		Span:     p.span(start),
	})
	return p.tree
}

// parseItem parses a single top-level or module-level item. On a malformed
// item it synchronizes to the next plausible item boundary and returns
// ok=false so the caller skips it rather than aborting the whole file.
func (p *parser) parseItem() (id syntax.SyntaxId, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			if r != errPanicMode {
				panic(r)
			}
			p.synchronize()
			ok = false
		}
	}()

	// `pub` is accepted as a visibility marker but not yet represented in the
	// tree distinctly from its un-prefixed form: Dust has no cross-module
	// privacy enforcement in this implementation.
	if p.tok == token.PUB {
		p.advance()
	}

	switch p.tok {
	case token.FN:
		return p.parseFunctionItem(), true
	case token.USE:
		return p.parseUseItem(), true
	case token.MOD:
		return p.parseModuleItem(), true
	default:
		p.errorExpected(p.pos(), kindList(token.FN, token.USE, token.MOD))
		panic(errPanicMode)
	}
}

// parseFunctionItem parses `fn name(params) -> RetType { body }` (the return
// type is optional; a missing one means the function returns none).
func (p *parser) parseFunctionItem() syntax.SyntaxId {
	start := p.expect(token.FN)
	nameID := p.parseIdentifier()

	p.expect(token.LPAREN)
	var params []syntax.SyntaxId
	for p.tok != token.RPAREN {
		params = append(params, p.parseParameter())
		if p.tok != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.RPAREN)

	var retType syntax.SyntaxId
	if p.tok == token.ARROW {
		p.advance()
		retType = p.parseType()
	}

	bodyID := p.parseBlockExpr()

	// Children list layout: [name, retType, body, params...]; retType is
	// NoSyntaxId when the function was written without a `-> Type` clause.
	all := make([]syntax.SyntaxId, 0, 3+len(params))
	all = append(all, nameID, retType, bodyID)
	all = append(all, params...)
	children, count := p.tree.PushList(all)
	return p.tree.Push(syntax.Node{
		Kind:     syntax.KindFunctionItem,
		Children: [2]uint32{children, count},
		Span:     p.span(start),
	})
}

// parseParameter parses `name: Type`.
func (p *parser) parseParameter() syntax.SyntaxId {
	start := p.pos()
	nameID := p.parseIdentifier()
	p.expect(token.COLON)
	typeID := p.parseType()
	return p.tree.Push(syntax.Node{
		Kind:     syntax.KindParameter,
		Children: [2]uint32{uint32(nameID), uint32(typeID)},
		Span:     p.span(start),
	})
}

// parseUseItem parses `use a::b::c;`.
func (p *parser) parseUseItem() syntax.SyntaxId {
	start := p.expect(token.USE)
	var segs []syntax.SyntaxId
	segs = append(segs, p.parseIdentifier())
	for p.tok == token.COLONCOLON {
		p.advance()
		segs = append(segs, p.parseIdentifier())
	}
	p.expect(token.SEMI)
	listStart, count := p.tree.PushList(segs)
	return p.tree.Push(syntax.Node{
		Kind:     syntax.KindUseItem,
		Children: [2]uint32{listStart, count},
		Span:     p.span(start),
	})
}

// parseModuleItem parses `mod name { items... }`.
func (p *parser) parseModuleItem() syntax.SyntaxId {
	start := p.expect(token.MOD)
	nameID := p.parseIdentifier()
	p.expect(token.LBRACE)

	var items []syntax.SyntaxId
	for p.tok != token.RBRACE && p.tok != token.EOF {
		id, ok := p.parseItem()
		if ok {
			items = append(items, id)
		}
	}
	p.expect(token.RBRACE)

	children, count := p.tree.PushList(append([]syntax.SyntaxId{nameID}, items...))
	return p.tree.Push(syntax.Node{
		Kind:     syntax.KindModuleItem,
		Children: [2]uint32{children, count},
		Span:     p.span(start),
	})
}

func (p *parser) parseIdentifier() syntax.SyntaxId {
	start := p.pos()
	if p.tok != token.IDENT {
		p.errorExpected(start, token.IDENT.GoString())
		panic(errPanicMode)
	}
	raw := p.val.Raw
	p.advance()
	nameIdx := p.tree.PushName(raw)
	return p.tree.Push(syntax.Node{
		Kind:     syntax.KindIdentifier,
		Children: [2]uint32{nameIdx, 0},
		Span:     syntax.Span{Start: start, End: start},
	})
}
