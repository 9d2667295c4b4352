package compiler

import "github.com/dust-lang/dust/lang/token"

// Constant is one entry in a Program's deduplicated constant pool.
type Constant struct {
	Type  OperandType
	Bool  bool
	Byte  byte
	Char  rune
	Float float64
	Int   int64
	Str   string
}

// CallArgument is one entry in a Prototype's call_arguments table, read by
// CALL to materialize an argument into the callee's initial registers.
type CallArgument struct {
	Address     Address
	OperandType OperandType
}

// Prototype is one compiled function, immutable once the compiler finishes
// with it.
type Prototype struct {
	Index        uint32
	Name         string
	NamePosition token.Pos
	FunctionType uint32 // resolver.TypeId of this function's signature

	// ParameterCount is copied out of the resolver's FunctionInfo at compile
	// time so that lang/engine never needs the resolver's type table (which
	// is not part of the serialized Program) to know how many call_arguments
	// entries a CALL into this prototype should consume.
	ParameterCount uint16

	Instructions []Instruction

	// CallArguments, ListElements and DropLists are flat buffers referenced
	// by (start, count) ranges stored on the CALL/LOAD_LIST/DROP
	// instructions that consume them. A list literal's elements reuse the
	// CallArgument shape (address + operand type) since the two have
	// identical requirements: a position-ordered set of typed operands
	// gathered into one destination.
	CallArguments []CallArgument
	ListElements  []CallArgument
	DropLists     []uint16

	RegisterCount uint16
}

// Program is the output of compiling a whole source tree: every Prototype
// plus the constant pool they share. Prototype 0 is always the entry
// point (`main`). Immutable after compilation, and safe to share
// read-only across workers (see lang/workerpool).
type Program struct {
	Prototypes []*Prototype
	Constants  []Constant
}

func (p *Program) Main() *Prototype { return p.Prototypes[0] }
