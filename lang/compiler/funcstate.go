package compiler

import (
	"golang.org/x/exp/slices"

	"github.com/dust-lang/dust/lang/resolver"
)

// local is what a function-scoped name currently resolves to while
// compiling its body. Unlike item-level declarations, locals are never
// recorded in the Resolver: the compiler adds them to funcState.locals
// itself as it walks statements, and they stay there for the rest of the
// function body (see package binder's doc comment).
type local struct {
	register uint16
	typ      OperandType
	mutable  bool
}

// funcState is the compiler's working state for one Prototype. A new
// funcState is created per function item; nothing is shared between
// sibling functions except the Compiler's program-wide constant pool.
type funcState struct {
	c *Compiler

	// scope is the function's own scope (resolver.FunctionInfo.InnerScope),
	// consulted for names a local shadow doesn't cover: other functions
	// called by name, and (via its parent chain) outer modules.
	scope resolver.ScopeId

	selfName  string
	selfIndex uint32

	locals  map[string]local
	nextReg uint16
	freeReg []uint16
	maxReg  uint16

	instrs    []Instruction
	callArgs  []CallArgument
	listElems []CallArgument
	dropList  []uint16
}

func newFuncState(c *Compiler, scope resolver.ScopeId, name string, index uint32) *funcState {
	return &funcState{
		c:         c,
		scope:     scope,
		selfName:  name,
		selfIndex: index,
		locals:    make(map[string]local),
	}
}

// allocReg hands out the next free register, reusing one freed by
// freeReg when available so short-lived temporaries (operands of a binary
// expression, say) don't inflate a prototype's register count.
func (fs *funcState) allocReg() uint16 {
	var r uint16
	if n := len(fs.freeReg); n > 0 {
		r = fs.freeReg[n-1]
		fs.freeReg = slices.Delete(fs.freeReg, n-1, n)
	} else {
		r = fs.nextReg
		fs.nextReg++
	}
	if r+1 > fs.maxReg {
		fs.maxReg = r + 1
	}
	return r
}

// freeTemp returns r to the free list if it was a temporary, never one
// holding a live local's value, and never a register already on the free
// list (a double free would otherwise hand the same register out twice).
func (fs *funcState) freeTemp(a Address) {
	if a.Kind != AddressRegister {
		return
	}
	for _, l := range fs.locals {
		if l.register == a.Index {
			return
		}
	}
	if slices.Contains(fs.freeReg, a.Index) {
		return
	}
	fs.freeReg = append(fs.freeReg, a.Index)
}

func (fs *funcState) emit(instr Instruction) int {
	fs.instrs = append(fs.instrs, instr)
	return len(fs.instrs) - 1
}

// emitJump appends a placeholder JUMP and returns its index for a later
// patchForward call once the jump's target is known.
func (fs *funcState) emitJump() int {
	return fs.emit(Instruction{Operation: JUMP})
}

// patchForward fixes up a placeholder JUMP emitted by emitJump so that
// execution continues at the instruction at targetIndex.
func (fs *funcState) patchForward(at int, targetIndex int) {
	offset := targetIndex - at - 1
	fs.instrs[at].Left = Encoded(uint16(offset))
	fs.instrs[at].JumpPositive = true
}

// emitJumpBack appends an unconditional JUMP back to targetIndex, used to
// close a while loop.
func (fs *funcState) emitJumpBack(targetIndex int) {
	at := len(fs.instrs)
	offset := at - targetIndex
	fs.emit(Instruction{Operation: JUMP, Left: Encoded(uint16(offset)), JumpPositive: false})
}

func (fs *funcState) prototype(index uint32, name string) *Prototype {
	return &Prototype{
		Index:         index,
		Name:          name,
		Instructions:  fs.instrs,
		CallArguments: fs.callArgs,
		ListElements:  fs.listElems,
		DropLists:     fs.dropList,
		RegisterCount: fs.maxReg,
	}
}
