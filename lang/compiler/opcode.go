// Package compiler lowers a bound lang/syntax.Tree into a Program of
// register-machine Prototypes: fixed-width Instruction words, a
// deduplicated constant pool, and the other immutable-after-compilation
// tables lang/engine executes.
package compiler

import "fmt"

// Increment this to force recompilation of saved bytecode files.
const Version = 0

// Opcode is the 6-bit operation tag packed into bits [0:6) of an
// Instruction word (see instruction.go).
type Opcode uint8

const ( //nolint:revive
	NO_OP Opcode = iota

	MOVE
	MOVE_WITH_JUMP
	LOAD
	LOAD_FUNCTION
	LOAD_LIST

	ADD
	SUBTRACT
	MULTIPLY
	DIVIDE
	MODULO

	EQUAL
	LESS
	LESS_EQUAL

	NEGATE
	NOT

	TEST
	JUMP

	CALL
	CALL_NATIVE

	INDEX

	RETURN
	DROP

	OpcodeMax = DROP
)

var opcodeNames = [...]string{
	NO_OP:          "no_op",
	MOVE:           "move",
	MOVE_WITH_JUMP: "move_with_jump",
	LOAD:           "load",
	LOAD_FUNCTION:  "load_function",
	LOAD_LIST:      "load_list",
	ADD:            "add",
	SUBTRACT:       "subtract",
	MULTIPLY:       "multiply",
	DIVIDE:         "divide",
	MODULO:         "modulo",
	EQUAL:          "equal",
	LESS:           "less",
	LESS_EQUAL:     "less_equal",
	NEGATE:         "negate",
	NOT:            "not",
	TEST:           "test",
	JUMP:           "jump",
	CALL:           "call",
	CALL_NATIVE:    "call_native",
	INDEX:          "index",
	RETURN:         "return",
	DROP:           "drop",
}

func (op Opcode) String() string {
	if op <= OpcodeMax {
		if name := opcodeNames[op]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("illegal op (%d)", op)
}

// OperandType is the 5-bit operand-type tag packed into every Instruction,
// naming the runtime representation its addresses read and its
// destination writes.
type OperandType uint8

const (
	OperandNone OperandType = iota
	OperandBoolean
	OperandByte
	OperandCharacter
	OperandFloat
	OperandInteger
	OperandString
	OperandListBoolean
	OperandListByte
	OperandListCharacter
	OperandListFloat
	OperandListInteger
	OperandListString
	OperandListList
	OperandFunction
)

func (t OperandType) String() string {
	names := [...]string{
		"none", "boolean", "byte", "character", "float", "integer", "string",
		"list_boolean", "list_byte", "list_character", "list_float",
		"list_integer", "list_string", "list_list", "function",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("operand_type(%d)", uint8(t))
}
