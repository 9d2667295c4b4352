package compiler

// AddressKind tags where an Address's index points.
type AddressKind uint8

const (
	AddressRegister AddressKind = iota
	AddressConstant
	AddressEncoded
)

// Address is a tagged reference to a register, a constant-pool slot, or an
// inline literal small enough to fit a uint16 (booleans, small bytes).
type Address struct {
	Kind  AddressKind
	Index uint16
}

func Register(index uint16) Address  { return Address{Kind: AddressRegister, Index: index} }
func ConstAddr(index uint16) Address { return Address{Kind: AddressConstant, Index: index} }
func Encoded(index uint16) Address   { return Address{Kind: AddressEncoded, Index: index} }

// Instruction is one 64-bit register-machine word. Field layout (bit
// offsets from the LSB) is declared in pack/unpack below; this struct is
// the unpacked, human/compiler-friendly view the rest of the package
// operates on, and Instruction.Word/DecodeWord convert to and from the
// packed form that lang/engine and the on-disk Program format actually
// use.
type Instruction struct {
	Operation   Opcode
	OperandType OperandType
	Destination Address
	Left        Address
	Right       Address

	// Comparator is read by EQUAL/LESS/LESS_EQUAL/TEST: the instruction
	// after this one is skipped when the comparison result equals
	// Comparator.
	Comparator bool
	// JumpPositive selects JUMP's direction: ip+offset+1 when true, ip-offset
	// when false. Offset is stored in Left.Index.
	JumpPositive bool
	// ShouldReturnValue is read by RETURN: when false, Left/OperandType are
	// ignored and the worker returns value.None().
	ShouldReturnValue bool
	// IsRecursive is read by CALL: reuse the current frame instead of
	// pushing a new one. The compiler only ever sets this for a call whose
	// callee is the function currently being compiled (see compileCall in
	// expr.go); any
	// other combination is a compiler bug, not a representable program, so
	// lang/engine need not re-check it at run time.
	IsRecursive bool
}

// Bit layout of the packed 64-bit word, LSB first: operation (6 bits),
// operand type (5 bits), three (kind:2, index:14) address fields, then
// four flag bits — 6+5+3*16+4 = 63 of the 64 available bits. The
// specification's illustrative field table uses a 16-bit index per
// address, which would overflow 64 bits once the operation, operand-type
// and flag bits are added; per §6 ("compilers and disassemblers may
// reorder bits so long as the packed value fits 64 bits and is
// bijective") this implementation narrows each address index to 14 bits
// (16384 registers/constants per prototype) to make the word fit.
const (
	shiftOperation   = 0
	shiftOperandType = shiftOperation + 6
	shiftDestKind    = shiftOperandType + 5
	shiftDestIndex   = shiftDestKind + 2
	shiftLeftKind    = shiftDestIndex + 14
	shiftLeftIndex   = shiftLeftKind + 2
	shiftRightKind   = shiftLeftIndex + 14
	shiftRightIndex  = shiftRightKind + 2

	shiftComparator  = shiftRightIndex + 14
	shiftJumpSign    = shiftComparator + 1
	shiftShouldValue = shiftJumpSign + 1
	shiftIsRecursive = shiftShouldValue + 1
)

const (
	maskOperation   = 0x3F   // 6 bits
	maskOperandType = 0x1F   // 5 bits
	maskKind        = 0x3    // 2 bits
	maskIndex       = 0x3FFF // 14 bits
)

// Word packs an Instruction into its 64-bit on-the-wire/register-machine
// representation.
func (i Instruction) Word() uint64 {
	var w uint64
	w |= uint64(i.Operation) & maskOperation << shiftOperation
	w |= uint64(i.OperandType) & maskOperandType << shiftOperandType
	w |= uint64(i.Destination.Kind) & maskKind << shiftDestKind
	w |= uint64(i.Destination.Index) & maskIndex << shiftDestIndex
	w |= uint64(i.Left.Kind) & maskKind << shiftLeftKind
	w |= uint64(i.Left.Index) & maskIndex << shiftLeftIndex
	w |= uint64(i.Right.Kind) & maskKind << shiftRightKind
	w |= uint64(i.Right.Index) & maskIndex << shiftRightIndex
	if i.Comparator {
		w |= 1 << shiftComparator
	}
	if i.JumpPositive {
		w |= 1 << shiftJumpSign
	}
	if i.ShouldReturnValue {
		w |= 1 << shiftShouldValue
	}
	if i.IsRecursive {
		w |= 1 << shiftIsRecursive
	}
	return w
}

// DecodeWord unpacks a 64-bit word produced by Word back into an
// Instruction.
func DecodeWord(w uint64) Instruction {
	return Instruction{
		Operation:   Opcode(w >> shiftOperation & maskOperation),
		OperandType: OperandType(w >> shiftOperandType & maskOperandType),
		Destination: Address{
			Kind:  AddressKind(w >> shiftDestKind & maskKind),
			Index: uint16(w >> shiftDestIndex & maskIndex),
		},
		Left: Address{
			Kind:  AddressKind(w >> shiftLeftKind & maskKind),
			Index: uint16(w >> shiftLeftIndex & maskIndex),
		},
		Right: Address{
			Kind:  AddressKind(w >> shiftRightKind & maskKind),
			Index: uint16(w >> shiftRightIndex & maskIndex),
		},
		Comparator:        w>>shiftComparator&1 != 0,
		JumpPositive:      w>>shiftJumpSign&1 != 0,
		ShouldReturnValue: w>>shiftShouldValue&1 != 0,
		IsRecursive:       w>>shiftIsRecursive&1 != 0,
	}
}
