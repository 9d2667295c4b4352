package compiler

import "github.com/dust-lang/dust/lang/resolver"

// operandTypeOf maps a resolved TypeId to the OperandType tag packed into
// instructions that read or write a value of that type. Compound types
// beyond one level of list nesting don't have a dedicated operand type (the
// specification's operand-type table stops at `list_list`), so they fall
// back to OperandListList; the engine always has the element's own runtime
// Kind available on the value itself to go further if it ever needs to.
func (c *Compiler) operandTypeOf(id resolver.TypeId) OperandType {
	switch id {
	case resolver.TypeBoolean:
		return OperandBoolean
	case resolver.TypeByte:
		return OperandByte
	case resolver.TypeCharacter:
		return OperandCharacter
	case resolver.TypeFloat:
		return OperandFloat
	case resolver.TypeInteger:
		return OperandInteger
	case resolver.TypeString:
		return OperandString
	case resolver.TypeNone:
		return OperandNone
	}

	node, ok := c.resolver.TypeNodeOf(id)
	if !ok {
		return OperandNone
	}
	switch node.Kind {
	case resolver.TypeNodeFunction:
		return OperandFunction
	case resolver.TypeNodeList:
		switch c.operandTypeOf(node.ListElement) {
		case OperandBoolean:
			return OperandListBoolean
		case OperandByte:
			return OperandListByte
		case OperandCharacter:
			return OperandListCharacter
		case OperandFloat:
			return OperandListFloat
		case OperandInteger:
			return OperandListInteger
		case OperandString:
			return OperandListString
		default:
			return OperandListList
		}
	default:
		// Inferred types left unresolved by the resolver are a binder/resolver
		// bug, not something the compiler can recover from sensibly; treat them
		// as none rather than panicking mid-compile.
		return OperandNone
	}
}
