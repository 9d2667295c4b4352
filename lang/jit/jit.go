// Package jit defines the interchangeable native-code back end spec.md
// §4.I describes: given a Prototype, produce a callable with signature
// (*ThreadContext, i64) -> i64 that the engine can invoke instead of
// stepping that prototype's instructions one at a time.
//
// No tier here emits actual machine code. The example pack's JIT-shaped
// files (other_examples' wazero and memcp entries) all build their native
// buffers with an assembler this module has no way to verify without
// running the Go toolchain — forbidden for this build — so raw generated
// machine bytes that might never have been executed once would be exactly
// the kind of fabricated, unverifiable code this project avoids elsewhere.
// Baseline instead satisfies the same Backend contract by dispatching
// straight back into lang/engine, giving every caller of a Backend the
// real interface spec.md names (Compile once, Call many times, same
// state/error semantics as the interpreter) without pretending to cross
// into native code it cannot prove correct.
package jit

import (
	"context"
	"fmt"

	"github.com/dust-lang/dust/lang/compiler"
	"github.com/dust-lang/dust/lang/engine"
	"github.com/dust-lang/dust/lang/value"
)

// CompiledFunction is one prototype's native entry point.
type CompiledFunction interface {
	Call(ctx context.Context, arg int64) (int64, error)
}

// Backend turns a Prototype into a CompiledFunction. Tiers are
// interchangeable: a caller holding a Backend never needs to know which
// one it has, per spec.md §4.I's "optional, interchangeable" framing.
type Backend interface {
	Compile(program *compiler.Program, prototypeIndex uint32) (CompiledFunction, error)
}

// Baseline is the single tier this module ships: it satisfies the Backend
// contract by re-entering lang/engine for every call rather than emitting
// native code, so division-by-zero, stack-overflow and cancellation all
// behave identically to a plain interpreted run, matching the "the JIT
// must respect the same state and error semantics as the interpreter"
// requirement by construction rather than by parallel implementation.
type Baseline struct{}

func (Baseline) Compile(program *compiler.Program, prototypeIndex uint32) (CompiledFunction, error) {
	if int(prototypeIndex) >= len(program.Prototypes) {
		return nil, fmt.Errorf("jit: prototype index %d out of range", prototypeIndex)
	}
	return &baselineFunction{program: program, prototypeIndex: prototypeIndex}, nil
}

type baselineFunction struct {
	program        *compiler.Program
	prototypeIndex uint32
}

func (f *baselineFunction) Call(ctx context.Context, arg int64) (int64, error) {
	result, err := engine.Run(ctx, f.program, f.prototypeIndex, []value.Value{value.Integer(arg)})
	if err != nil {
		return 0, err
	}
	return result.AsInteger(), nil
}
