package engine

import (
	"github.com/dust-lang/dust/lang/compiler"
	"github.com/dust-lang/dust/lang/value"
)

// evalArithmetic performs ADD/SUBTRACT/MULTIPLY/DIVIDE/MODULO at runtime.
// Per spec.md §4.I, runtime integer arithmetic wraps on overflow rather
// than saturating the way the compiler's constant folding does — Go's
// native int64/byte arithmetic already wraps on overflow, so no manual
// wrap-around logic is needed here, only the division-by-zero check.
func evalArithmetic(op compiler.Opcode, typ compiler.OperandType, lhs, rhs value.Value) (v value.Value, divByZero bool) {
	switch typ {
	case compiler.OperandInteger:
		a, b := lhs.AsInteger(), rhs.AsInteger()
		switch op {
		case compiler.ADD:
			return value.Integer(a + b), false
		case compiler.SUBTRACT:
			return value.Integer(a - b), false
		case compiler.MULTIPLY:
			return value.Integer(a * b), false
		case compiler.DIVIDE:
			if b == 0 {
				return value.None(), true
			}
			return value.Integer(a / b), false
		case compiler.MODULO:
			if b == 0 {
				return value.None(), true
			}
			return value.Integer(a % b), false
		}

	case compiler.OperandByte:
		a, b := lhs.AsByte(), rhs.AsByte()
		switch op {
		case compiler.ADD:
			return value.Byte(a + b), false
		case compiler.SUBTRACT:
			return value.Byte(a - b), false
		case compiler.MULTIPLY:
			return value.Byte(a * b), false
		case compiler.DIVIDE:
			if b == 0 {
				return value.None(), true
			}
			return value.Byte(a / b), false
		case compiler.MODULO:
			if b == 0 {
				return value.None(), true
			}
			return value.Byte(a % b), false
		}

	case compiler.OperandFloat:
		a, b := lhs.AsFloat(), rhs.AsFloat()
		switch op {
		case compiler.ADD:
			return value.Float(a + b), false
		case compiler.SUBTRACT:
			return value.Float(a - b), false
		case compiler.MULTIPLY:
			return value.Float(a * b), false
		case compiler.DIVIDE:
			return value.Float(a / b), false
		case compiler.MODULO:
			return value.Float(float64(int64(a) % int64(b))), false
		}

	}
	return value.None(), false
}

func evalComparison(op compiler.Opcode, lhs, rhs value.Value) bool {
	switch op {
	case compiler.EQUAL:
		return value.Equal(lhs, rhs)
	case compiler.LESS:
		return value.Less(lhs, rhs)
	case compiler.LESS_EQUAL:
		return value.Less(lhs, rhs) || value.Equal(lhs, rhs)
	default:
		return false
	}
}

func evalNegate(v value.Value) value.Value {
	switch v.Kind {
	case value.KindInteger:
		return value.Integer(-v.AsInteger())
	case value.KindFloat:
		return value.Float(-v.AsFloat())
	case value.KindByte:
		return value.Byte(-v.AsByte())
	default:
		return v
	}
}
