// Package engine implements the register-machine dispatch loop described
// in spec.md §4.I: one ThreadContext per worker, executing a Program's
// Prototypes instruction by instruction. It plays the role the teacher's
// lang/machine.Thread plays for a single-threaded program run — a
// cooperatively cancellable, step-counted dispatch loop over a context
// carrying its own registers and I/O streams — generalized to the
// register-machine instruction set lang/compiler emits instead of the
// teacher's stack-machine opcodes.
package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/dust-lang/dust/lang/compiler"
	"github.com/dust-lang/dust/lang/objectpool"
	"github.com/dust-lang/dust/lang/value"
)

// Status is a worker's place in the state machine spec.md §4.I describes:
// Running until a RETURN with an empty call stack or an error opcode
// moves it to a terminal state.
type Status uint8

const (
	StatusRunning Status = iota
	StatusReturned
	StatusErrorDivisionByZero
	StatusErrorIndexOutOfBounds
	StatusErrorStackOverflow
	StatusErrorStepLimitExceeded
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusReturned:
		return "returned"
	case StatusErrorDivisionByZero:
		return "error_division_by_zero"
	case StatusErrorIndexOutOfBounds:
		return "error_index_out_of_bounds"
	case StatusErrorStackOverflow:
		return "error_stack_overflow"
	case StatusErrorStepLimitExceeded:
		return "error_step_limit_exceeded"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// RuntimeError is a terminal, non-Running Status reported back from Run.
type RuntimeError struct {
	Status Status
}

func (e *RuntimeError) Error() string { return "engine: " + e.Status.String() }

// MaxCallDepth bounds frame nesting the same way the teacher's
// Thread.MaxCallStackDepth does, except here it is a fixed ceiling rather
// than a configurable field: spec.md models stack overflow as a runtime
// error status, not a configurable resource limit.
const MaxCallDepth = 4096

// Config holds the tuning knobs every Run call reads, mirroring the
// teacher's Thread fields (MaxSteps, heap sizing) that originally came from
// flags/env rather than being baked into Thread.RunProgram's signature.
// internal/maincmd sets DefaultConfig once, from DUST_MAX_STEPS,
// DUST_SWEEP_THRESHOLD and DUST_MIN_HEAP, before any worker is spawned;
// Run reads it at call time so workerpool.Run's fixed function signature
// (ctx, program, prototypeIndex, args) never needs a config parameter.
type Config struct {
	// MaxSteps bounds the number of instructions a single Run may execute
	// before it is aborted with StatusErrorStepLimitExceeded, grounded on
	// original_source/src/risky_vm/thread.rs's step-counted cooperative
	// cancellation. Zero means unbounded.
	MaxSteps uint64

	// SweepThreshold is the objectpool.Pool live-object count above which
	// every further allocation runs a diagnostic sweep.
	SweepThreshold int

	// MinHeap pre-reserves objectpool.Pool capacity so a program that is
	// known to allocate heavily doesn't pay for slice growth early on.
	MinHeap int
}

// DefaultConfig is the Config every Run call uses unless internal/maincmd
// overrides it at startup.
var DefaultConfig = Config{SweepThreshold: 4096}

// frame is one activation record: its register window and return address.
type frame struct {
	proto       *compiler.Prototype
	regs        []value.Value
	ip          int
	destReg     uint16 // register in the caller's frame to store RETURN's value into
	hasDestCall bool
}

// ThreadContext is the per-worker execution state: registers (via the
// active frame), the object pool backing string/list allocation, and the
// cooperative-cancellation step counter. One ThreadContext runs exactly
// one Run call, mirroring the teacher's one-shot Thread.RunProgram.
type ThreadContext struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	pool   *objectpool.Pool
	status Status

	steps     uint64
	maxSteps  uint64
	cancelled atomic.Bool
}

// Run executes program's prototype at prototypeIndex with args as its
// initial registers, to completion, returning the value its top-level
// RETURN carried. Its signature matches workerpool.Run so a worker pool
// can invoke it directly per spawned worker.
func Run(ctx context.Context, program *compiler.Program, prototypeIndex uint32, args []value.Value) (value.Value, error) {
	cfg := DefaultConfig
	tc := &ThreadContext{
		pool:     objectpool.NewSized(cfg.SweepThreshold, cfg.MinHeap),
		maxSteps: cfg.MaxSteps,
	}
	if tc.Stdout == nil {
		tc.Stdout = os.Stdout
	}
	if tc.Stderr == nil {
		tc.Stderr = os.Stderr
	}
	if tc.Stdin == nil {
		tc.Stdin = os.Stdin
	}

	go func() {
		<-ctx.Done()
		tc.cancelled.Store(true)
	}()

	return tc.run(program, prototypeIndex, args)
}

func (tc *ThreadContext) run(program *compiler.Program, prototypeIndex uint32, args []value.Value) (value.Value, error) {
	var frames []frame
	frames = append(frames, tc.newFrame(program.Prototypes[prototypeIndex], args))

	for {
		if tc.cancelled.Load() {
			tc.status = StatusCancelled
			return value.None(), &RuntimeError{Status: tc.status}
		}
		tc.steps++
		if tc.maxSteps > 0 && tc.steps > tc.maxSteps {
			tc.status = StatusErrorStepLimitExceeded
			return value.None(), &RuntimeError{Status: tc.status}
		}

		top := &frames[len(frames)-1]
		if top.ip >= len(top.proto.Instructions) {
			// A prototype whose body has no trailing value still needs an
			// implicit RETURN; the compiler always emits one, so reaching the
			// end of the instruction stream here is a compiler bug, not a
			// representable program.
			return value.None(), fmt.Errorf("engine: prototype %q fell off the end of its instructions", top.proto.Name)
		}

		instr := top.proto.Instructions[top.ip]
		top.ip++

		result, done, err := tc.step(program, &frames, instr)
		if err != nil {
			return value.None(), err
		}
		if done {
			return result, nil
		}
	}
}

func (tc *ThreadContext) newFrame(proto *compiler.Prototype, args []value.Value) frame {
	regs := make([]value.Value, proto.RegisterCount)
	copy(regs, args)
	return frame{proto: proto, regs: regs}
}

// step executes one instruction against the top of *frames, which may grow
// (CALL) or shrink (RETURN) it. done is true once the outermost frame has
// returned, in which case result is the program's final value.
func (tc *ThreadContext) step(program *compiler.Program, frames *[]frame, instr compiler.Instruction) (result value.Value, done bool, err error) {
	fr := &(*frames)[len(*frames)-1]

	read := func(addr compiler.Address, typ compiler.OperandType) value.Value {
		return tc.readAddress(program, fr, addr, typ)
	}

	switch instr.Operation {
	case compiler.NO_OP:
		// nothing

	case compiler.LOAD:
		v := read(instr.Left, instr.OperandType)
		tc.writeRegister(fr, instr.Destination, v)

	case compiler.MOVE, compiler.MOVE_WITH_JUMP:
		v := read(instr.Left, instr.OperandType)
		tc.writeRegister(fr, instr.Destination, v)
		if instr.Operation == compiler.MOVE_WITH_JUMP {
			tc.applyJump(fr, instr)
		}

	case compiler.LOAD_FUNCTION:
		tc.writeRegister(fr, instr.Destination, value.Function(uint32(instr.Left.Index)))

	case compiler.LOAD_LIST:
		start, count := int(instr.Left.Index), int(instr.Right.Index)
		elems := make([]value.Value, count)
		for i, arg := range fr.proto.ListElements[start : start+count] {
			elems[i] = tc.readAddress(program, fr, arg.Address, arg.OperandType)
		}
		obj := tc.pool.AllocList(elems)
		tc.writeRegister(fr, instr.Destination, value.ListValue(obj))

	case compiler.ADD, compiler.SUBTRACT, compiler.MULTIPLY, compiler.DIVIDE, compiler.MODULO:
		lhs := read(instr.Left, instr.OperandType)
		rhs := read(instr.Right, instr.OperandType)
		if instr.Operation == compiler.ADD && instr.OperandType == compiler.OperandString {
			obj := tc.pool.AllocString(lhs.AsString() + rhs.AsString())
			tc.writeRegister(fr, instr.Destination, value.StringValue(obj))
			break
		}
		v, divErr := evalArithmetic(instr.Operation, instr.OperandType, lhs, rhs)
		if divErr {
			tc.status = StatusErrorDivisionByZero
			return value.None(), false, &RuntimeError{Status: tc.status}
		}
		tc.writeRegister(fr, instr.Destination, v)

	case compiler.EQUAL, compiler.LESS, compiler.LESS_EQUAL:
		lhs := read(instr.Left, instr.OperandType)
		rhs := read(instr.Right, instr.OperandType)
		b := evalComparison(instr.Operation, lhs, rhs)
		tc.writeRegister(fr, instr.Destination, value.Bool(b))
		if b == instr.Comparator {
			fr.ip++
		}

	case compiler.NEGATE:
		v := read(instr.Left, instr.OperandType)
		tc.writeRegister(fr, instr.Destination, evalNegate(v))

	case compiler.NOT:
		v := read(instr.Left, instr.OperandType)
		tc.writeRegister(fr, instr.Destination, value.Bool(!v.AsBool()))

	case compiler.TEST:
		v := read(instr.Left, instr.OperandType)
		if v.AsBool() == instr.Comparator {
			fr.ip++
		}

	case compiler.JUMP:
		tc.applyJump(fr, instr)

	case compiler.CALL:
		calleeIndex := uint32(instr.Left.Index)
		argStart := int(instr.Right.Index)
		callee := program.Prototypes[calleeIndex]

		argAddrs := fr.proto.CallArguments[argStart : argStart+int(callee.ParameterCount)]
		argVals := make([]value.Value, len(argAddrs))
		for i, a := range argAddrs {
			argVals[i] = tc.readAddress(program, fr, a.Address, a.OperandType)
		}

		if instr.IsRecursive {
			copy(fr.regs, argVals)
			fr.ip = 0
			return value.None(), false, nil
		}

		if len(*frames) >= MaxCallDepth {
			tc.status = StatusErrorStackOverflow
			return value.None(), false, &RuntimeError{Status: tc.status}
		}

		newFr := tc.newFrame(callee, argVals)
		newFr.destReg = instr.Destination.Index
		newFr.hasDestCall = true
		*frames = append(*frames, newFr)

	case compiler.INDEX:
		list := read(instr.Left, compiler.OperandListList)
		idx := read(instr.Right, compiler.OperandInteger)
		elems := list.AsList()
		i := idx.AsInteger()
		if i < 0 || i >= int64(len(elems)) {
			tc.status = StatusErrorIndexOutOfBounds
			return value.None(), false, &RuntimeError{Status: tc.status}
		}
		tc.writeRegister(fr, instr.Destination, elems[i])

	case compiler.CALL_NATIVE:
		return value.None(), false, fmt.Errorf("engine: no native function table is bound")

	case compiler.RETURN:
		var v value.Value
		if instr.ShouldReturnValue {
			v = read(instr.Left, instr.OperandType)
		} else {
			v = value.None()
		}

		*frames = (*frames)[:len(*frames)-1]
		if len(*frames) == 0 {
			tc.status = StatusReturned
			return v, true, nil
		}

		caller := &(*frames)[len(*frames)-1]
		if fr.hasDestCall {
			tc.writeRegister(caller, compiler.Register(fr.destReg), v)
		}

	case compiler.DROP:
		// Register lifetime in this implementation is managed entirely by the
		// compiler's free-list at compile time (see lang/compiler's DESIGN.md
		// entry); DROP is accepted as a no-op so a future compiler revision
		// that does emit it doesn't need an engine change.

	default:
		return value.None(), false, fmt.Errorf("engine: unimplemented opcode %s", instr.Operation)
	}

	return value.None(), false, nil
}

func (tc *ThreadContext) applyJump(fr *frame, instr compiler.Instruction) {
	// run has already advanced fr.ip past the JUMP, whose own index is fr.ip-1.
	offset := int(instr.Left.Index)
	if instr.JumpPositive {
		fr.ip += offset
	} else {
		fr.ip -= offset + 1
	}
}

func (tc *ThreadContext) readAddress(program *compiler.Program, fr *frame, addr compiler.Address, typ compiler.OperandType) value.Value {
	switch addr.Kind {
	case compiler.AddressRegister:
		return fr.regs[addr.Index]
	case compiler.AddressConstant:
		return tc.constantValue(program, addr.Index)
	case compiler.AddressEncoded:
		return encodedValue(typ, addr.Index)
	default:
		return value.None()
	}
}

// constantValue materializes a Program constant-pool entry into a runtime
// Value, arena-allocating an Object for the one heap-backed constant kind
// (strings; list literals are always compiled via LOAD_LIST instead of a
// pooled constant).
func (tc *ThreadContext) constantValue(program *compiler.Program, index uint16) value.Value {
	k := program.Constants[index]
	switch k.Type {
	case compiler.OperandBoolean:
		return value.Bool(k.Bool)
	case compiler.OperandByte:
		return value.Byte(k.Byte)
	case compiler.OperandCharacter:
		return value.Character(k.Char)
	case compiler.OperandFloat:
		return value.Float(k.Float)
	case compiler.OperandInteger:
		return value.Integer(k.Int)
	case compiler.OperandString:
		return value.StringValue(tc.pool.AllocString(k.Str))
	default:
		return value.None()
	}
}

func encodedValue(typ compiler.OperandType, index uint16) value.Value {
	switch typ {
	case compiler.OperandBoolean:
		return value.Bool(index != 0)
	case compiler.OperandByte:
		return value.Byte(byte(index))
	default:
		return value.Integer(int64(index))
	}
}

func (tc *ThreadContext) writeRegister(fr *frame, dest compiler.Address, v value.Value) {
	if dest.Kind != compiler.AddressRegister {
		return
	}
	fr.regs[dest.Index] = v
}
