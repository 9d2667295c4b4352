package compiler

import (
	"math"

	"github.com/dust-lang/dust/lang/parser"
	"github.com/dust-lang/dust/lang/syntax"
)

// foldLiteral reads id directly as a literal node, returning the Constant
// it denotes. ok is false for any other node kind.
func (c *Compiler) foldLiteral(id syntax.SyntaxId) (Constant, bool) {
	node := c.tree.Node(id)
	switch node.Kind {
	case syntax.KindIntegerLiteral:
		return Constant{Type: OperandInteger, Int: syntax.DecodeInteger(node.Children)}, true
	case syntax.KindFloatLiteral:
		return Constant{Type: OperandFloat, Float: syntax.DecodeFloat(node.Children)}, true
	case syntax.KindByteLiteral:
		return Constant{Type: OperandByte, Byte: syntax.DecodeByte(node.Children)}, true
	case syntax.KindCharacterLiteral:
		return Constant{Type: OperandCharacter, Char: syntax.DecodeCharacter(node.Children)}, true
	case syntax.KindBooleanLiteral:
		return Constant{Type: OperandBoolean, Bool: syntax.DecodeBool(node.Children)}, true
	case syntax.KindStringLiteral:
		return Constant{Type: OperandString, Str: c.tree.Name(node.Children[0])}, true
	default:
		return Constant{}, false
	}
}

// foldBinary attempts to evaluate a binary expression between two literal
// operands at compile time. It returns ok=false for anything it doesn't
// recognize (non-literal operands, list/string operators), in which case
// the caller falls back to emitting a runtime instruction. Integer
// arithmetic saturates at the int64 bounds rather than wrapping, per the
// distinction the specification draws between compile-time folding and the
// engine's wrapping runtime arithmetic; division and modulo by a literal
// zero are reported as a compile error rather than folded.
func (c *Compiler) foldBinary(op parser.BinaryOp, lhsID, rhsID syntax.SyntaxId, span syntax.Span) (Constant, bool, error) {
	lhs, ok := c.foldLiteral(lhsID)
	if !ok {
		return Constant{}, false, nil
	}
	rhs, ok := c.foldLiteral(rhsID)
	if !ok {
		return Constant{}, false, nil
	}
	if lhs.Type != rhs.Type {
		return Constant{}, false, nil
	}

	switch lhs.Type {
	case OperandInteger:
		return foldInteger(op, lhs.Int, rhs.Int, span)
	case OperandFloat:
		return foldFloat(op, lhs.Float, rhs.Float), true, nil
	case OperandBoolean:
		return foldBoolean(op, lhs.Bool, rhs.Bool)
	default:
		return Constant{}, false, nil
	}
}

func saturatingAdd(a, b int64) int64 {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		if b > 0 {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return sum
}

func saturatingSub(a, b int64) int64 {
	if b == math.MinInt64 {
		if a >= 0 {
			return math.MaxInt64
		}
		return saturatingAdd(a, math.MaxInt64)
	}
	return saturatingAdd(a, -b)
}

func saturatingMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	product := a * b
	if product/b != a {
		if (a > 0) == (b > 0) {
			return math.MaxInt64
		}
		return math.MinInt64
	}
	return product
}

func foldInteger(op parser.BinaryOp, a, b int64, span syntax.Span) (Constant, bool, error) {
	switch op {
	case parser.OpAdd:
		return Constant{Type: OperandInteger, Int: saturatingAdd(a, b)}, true, nil
	case parser.OpSub:
		return Constant{Type: OperandInteger, Int: saturatingSub(a, b)}, true, nil
	case parser.OpMul:
		return Constant{Type: OperandInteger, Int: saturatingMul(a, b)}, true, nil
	case parser.OpDiv:
		if b == 0 {
			return Constant{}, false, &Error{Span: span, Message: "compiler: division by zero"}
		}
		return Constant{Type: OperandInteger, Int: a / b}, true, nil
	case parser.OpRem:
		if b == 0 {
			return Constant{}, false, &Error{Span: span, Message: "compiler: modulo by zero"}
		}
		return Constant{Type: OperandInteger, Int: a % b}, true, nil
	case parser.OpEq:
		return Constant{Type: OperandBoolean, Bool: a == b}, true, nil
	case parser.OpNotEq:
		return Constant{Type: OperandBoolean, Bool: a != b}, true, nil
	case parser.OpLt:
		return Constant{Type: OperandBoolean, Bool: a < b}, true, nil
	case parser.OpLe:
		return Constant{Type: OperandBoolean, Bool: a <= b}, true, nil
	case parser.OpGt:
		return Constant{Type: OperandBoolean, Bool: a > b}, true, nil
	case parser.OpGe:
		return Constant{Type: OperandBoolean, Bool: a >= b}, true, nil
	default:
		return Constant{}, false, nil
	}
}

func foldFloat(op parser.BinaryOp, a, b float64) Constant {
	switch op {
	case parser.OpAdd:
		return Constant{Type: OperandFloat, Float: a + b}
	case parser.OpSub:
		return Constant{Type: OperandFloat, Float: a - b}
	case parser.OpMul:
		return Constant{Type: OperandFloat, Float: a * b}
	case parser.OpDiv:
		return Constant{Type: OperandFloat, Float: a / b}
	case parser.OpEq:
		return Constant{Type: OperandBoolean, Bool: a == b}
	case parser.OpNotEq:
		return Constant{Type: OperandBoolean, Bool: a != b}
	case parser.OpLt:
		return Constant{Type: OperandBoolean, Bool: a < b}
	case parser.OpLe:
		return Constant{Type: OperandBoolean, Bool: a <= b}
	case parser.OpGt:
		return Constant{Type: OperandBoolean, Bool: a > b}
	case parser.OpGe:
		return Constant{Type: OperandBoolean, Bool: a >= b}
	default:
		return Constant{Type: OperandFloat, Float: math.NaN()}
	}
}

func foldBoolean(op parser.BinaryOp, a, b bool) (Constant, bool, error) {
	switch op {
	case parser.OpAnd:
		return Constant{Type: OperandBoolean, Bool: a && b}, true, nil
	case parser.OpOr:
		return Constant{Type: OperandBoolean, Bool: a || b}, true, nil
	case parser.OpEq:
		return Constant{Type: OperandBoolean, Bool: a == b}, true, nil
	case parser.OpNotEq:
		return Constant{Type: OperandBoolean, Bool: a != b}, true, nil
	default:
		return Constant{}, false, nil
	}
}
