package parser

import (
	"github.com/dust-lang/dust/lang/syntax"
	"github.com/dust-lang/dust/lang/token"
)

// BinaryOp identifies a binary operator, stored in Children[1] of a
// KindBinaryExpr node. The left and right operands don't fit alongside it
// in the two-uint32 Children array, so they go in a two-entry side list
// [lhs, rhs] whose start is stored in Children[0]. A KindUnaryExpr node
// needs no side list: Children holds [operand, op] directly.
type BinaryOp uint32

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpEq
	OpNotEq
	OpLt
	OpLe
	OpGt
	OpGe
)

type UnaryOp uint32

const (
	OpNeg UnaryOp = iota
	OpNot
	OpBitNot
)

// precedence levels, higher binds tighter.
const (
	precNone = iota
	precOr
	precAnd
	precEquality
	precComparison
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdditive
	precMultiplicative
)

var binaryOps = map[token.Kind]struct {
	op   BinaryOp
	prec int
}{
	token.OR:      {OpOr, precOr},
	token.AND:     {OpAnd, precAnd},
	token.EQEQ:    {OpEq, precEquality},
	token.BANGEQ:  {OpNotEq, precEquality},
	token.LT:      {OpLt, precComparison},
	token.LE:      {OpLe, precComparison},
	token.GT:      {OpGt, precComparison},
	token.GE:      {OpGe, precComparison},
	token.PIPE:    {OpBitOr, precBitOr},
	token.CARET:   {OpBitXor, precBitXor},
	token.AMP:     {OpBitAnd, precBitAnd},
	token.LTLT:    {OpShl, precShift},
	token.GTGT:    {OpShr, precShift},
	token.PLUS:    {OpAdd, precAdditive},
	token.MINUS:   {OpSub, precAdditive},
	token.STAR:    {OpMul, precMultiplicative},
	token.SLASH:   {OpDiv, precMultiplicative},
	token.PERCENT: {OpRem, precMultiplicative},
}

// parseExpr parses a full expression, including low-precedence assignment.
func (p *parser) parseExpr() syntax.SyntaxId {
	return p.parseAssign()
}

// parseAssign parses `place = expr`, right-associatively, falling through
// to binary-expression parsing when no `=` follows.
func (p *parser) parseAssign() syntax.SyntaxId {
	start := p.pos()
	lhs := p.parseBinary(precNone)
	if p.tok == token.EQ {
		p.advance()
		rhs := p.parseAssign()
		return p.tree.Push(syntax.Node{
			Kind:     syntax.KindAssignExpr,
			Children: [2]uint32{uint32(lhs), uint32(rhs)},
			Span:     p.span(start),
		})
	}
	return lhs
}

// parseBinary implements precedence climbing over binaryOps.
func (p *parser) parseBinary(minPrec int) syntax.SyntaxId {
	start := p.pos()
	lhs := p.parseUnary()

	for {
		info, ok := binaryOps[p.tok]
		if !ok || info.prec <= minPrec {
			return lhs
		}
		p.advance()
		rhs := p.parseBinary(info.prec)

		listStart, _ := p.tree.PushList([]syntax.SyntaxId{lhs, rhs})
		lhs = p.tree.Push(syntax.Node{
			Kind:     syntax.KindBinaryExpr,
			Children: [2]uint32{listStart, uint32(info.op)},
			Span:     p.span(start),
		})
	}
}

// parseUnary parses `-x`, `not x`, `~x`, falling through to postfix parsing.
func (p *parser) parseUnary() syntax.SyntaxId {
	start := p.pos()
	var op UnaryOp
	switch p.tok {
	case token.MINUS:
		op = OpNeg
	case token.NOT, token.BANG:
		op = OpNot
	case token.TILDE:
		op = OpBitNot
	default:
		return p.parsePostfix()
	}
	p.advance()
	operand := p.parseUnary()
	return p.tree.Push(syntax.Node{
		Kind:     syntax.KindUnaryExpr,
		Children: [2]uint32{uint32(operand), uint32(op)},
		Span:     p.span(start),
	})
}

// parsePostfix parses call and index suffixes chained onto a primary
// expression: `f(a, b)`, `xs[i]`, `f(a)[0](b)`.
func (p *parser) parsePostfix() syntax.SyntaxId {
	start := p.pos()
	expr := p.parsePrimary()

	for {
		switch p.tok {
		case token.LPAREN:
			p.advance()
			var args []syntax.SyntaxId
			for p.tok != token.RPAREN {
				args = append(args, p.parseExpr())
				if p.tok != token.COMMA {
					break
				}
				p.advance()
			}
			p.expect(token.RPAREN)
			children, count := p.tree.PushList(append([]syntax.SyntaxId{expr}, args...))
			expr = p.tree.Push(syntax.Node{
				Kind:     syntax.KindCallExpr,
				Children: [2]uint32{children, count},
				Span:     p.span(start),
			})

		case token.LBRACK:
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBRACK)
			expr = p.tree.Push(syntax.Node{
				Kind:     syntax.KindIndexExpr,
				Children: [2]uint32{uint32(expr), uint32(idx)},
				Span:     p.span(start),
			})

		default:
			return expr
		}
	}
}

// parsePrimary parses literals, identifiers, grouped expressions, list
// literals, if-expressions, while-expressions and block expressions.
func (p *parser) parsePrimary() syntax.SyntaxId {
	start := p.pos()
	switch p.tok {
	case token.INT:
		v := p.val.Int
		p.advance()
		c := syntax.EncodeInteger(v)
		return p.tree.Push(syntax.Node{Kind: syntax.KindIntegerLiteral, Children: c, Span: p.span(start)})

	case token.FLOAT:
		v := p.val.Float
		p.advance()
		c := syntax.EncodeFloat(v)
		return p.tree.Push(syntax.Node{Kind: syntax.KindFloatLiteral, Children: c, Span: p.span(start)})

	case token.BYTE:
		v := byte(p.val.Int)
		p.advance()
		c := syntax.EncodeByte(v)
		return p.tree.Push(syntax.Node{Kind: syntax.KindByteLiteral, Children: c, Span: p.span(start)})

	case token.CHAR:
		v := p.val.Char
		p.advance()
		c := syntax.EncodeCharacter(v)
		return p.tree.Push(syntax.Node{Kind: syntax.KindCharacterLiteral, Children: c, Span: p.span(start)})

	case token.STRING:
		v := p.val.String
		p.advance()
		nameIdx := p.tree.PushName(v)
		return p.tree.Push(syntax.Node{
			Kind:     syntax.KindStringLiteral,
			Children: [2]uint32{nameIdx, 0},
			Span:     p.span(start),
		})

	case token.TRUE, token.FALSE:
		v := p.tok == token.TRUE
		p.advance()
		c := syntax.EncodeBool(v)
		return p.tree.Push(syntax.Node{Kind: syntax.KindBooleanLiteral, Children: c, Span: p.span(start)})

	case token.NONE:
		p.advance()
		return p.tree.Push(syntax.Node{Kind: syntax.KindNoneLiteral, Span: p.span(start)})

	case token.IDENT:
		return p.parseIdentifier()

	case token.LPAREN:
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RPAREN)
		return p.tree.Push(syntax.Node{
			Kind:     syntax.KindGroupExpr,
			Children: [2]uint32{uint32(inner), 0},
			Span:     p.span(start),
		})

	case token.LBRACK:
		p.advance()
		var elems []syntax.SyntaxId
		for p.tok != token.RBRACK {
			elems = append(elems, p.parseExpr())
			if p.tok != token.COMMA {
				break
			}
			p.advance()
		}
		p.expect(token.RBRACK)
		listStart, count := p.tree.PushList(elems)
		return p.tree.Push(syntax.Node{
			Kind:     syntax.KindListLiteral,
			Children: [2]uint32{listStart, count},
			Span:     p.span(start),
		})

	case token.LBRACE:
		return p.parseBlockExpr()

	case token.IF:
		return p.parseIfExpr()

	case token.WHILE:
		return p.parseWhileExpr()

	default:
		p.errorExpected(start, "expression")
		panic(errPanicMode)
	}
}

// parseIfExpr parses `if cond { then } else { else }` or
// `if cond { then } else if ... `. The else branch is optional; a missing
// one means the expression evaluates to none when the condition is false.
func (p *parser) parseIfExpr() syntax.SyntaxId {
	start := p.expect(token.IF)
	cond := p.parseExpr()
	then := p.parseBlockExpr()

	var elseBranch syntax.SyntaxId
	if p.tok == token.ELSE {
		p.advance()
		if p.tok == token.IF {
			elseBranch = p.parseIfExpr()
		} else {
			elseBranch = p.parseBlockExpr()
		}
	}

	children, count := p.tree.PushList([]syntax.SyntaxId{cond, then, elseBranch})
	return p.tree.Push(syntax.Node{
		Kind:     syntax.KindIfExpr,
		Children: [2]uint32{children, count},
		Span:     p.span(start),
	})
}

// parseWhileExpr parses `while cond { body }`.
func (p *parser) parseWhileExpr() syntax.SyntaxId {
	start := p.expect(token.WHILE)
	cond := p.parseExpr()
	body := p.parseBlockExpr()
	return p.tree.Push(syntax.Node{
		Kind:     syntax.KindWhileExpr,
		Children: [2]uint32{uint32(cond), uint32(body)},
		Span:     p.span(start),
	})
}
