// Package workerpool implements the goroutine-based worker pool described
// in spec.md §4.H: one goroutine per spawned worker, each running a
// prototype to completion and reporting back on a shared channel. The
// teacher's lang/machine.Thread runs a single program on the calling
// goroutine; this package is the new concurrent layer the specification
// adds on top of that single-worker execution model (see lang/engine,
// which plays the role lang/machine.Thread.RunProgram plays for a single
// worker).
package workerpool

import (
	"context"
	"fmt"
	"sync"

	"github.com/dust-lang/dust/lang/compiler"
	"github.com/dust-lang/dust/lang/value"
)

// WorkerID identifies one spawned worker, assigned in spawn order.
type WorkerID uint64

// ThreadMessage is the only thing a worker ever sends to the pool: its
// own completion, successful or not.
type ThreadMessage struct {
	WorkerID       WorkerID
	PrototypeIndex uint32
	Result         value.Value
	Err            error
}

// Run executes one prototype to completion on the calling goroutine and
// returns its result. A Pool is given a Run function at construction time
// rather than importing lang/engine directly, so the two packages don't
// need to know about each other's internals — lang/engine's Run has
// exactly this shape.
type Run func(ctx context.Context, program *compiler.Program, prototypeIndex uint32, args []value.Value) (value.Value, error)

// Pool owns the shared, read-only Program every worker executes against,
// and the bookkeeping needed to spawn workers and collect their
// completions.
type Pool struct {
	program *compiler.Program
	run     Run

	mu      sync.Mutex
	nextID  WorkerID
	waiters map[WorkerID]context.CancelFunc

	messages chan ThreadMessage
	wg       sync.WaitGroup
}

// New returns a Pool bound to program, executing spawned workers with run.
func New(program *compiler.Program, run Run) *Pool {
	return &Pool{
		program:  program,
		run:      run,
		waiters:  make(map[WorkerID]context.CancelFunc),
		messages: make(chan ThreadMessage, 16),
	}
}

// Spawn starts a new worker running prototypeIndex and returns immediately;
// it does not wait for the worker to finish. The worker's completion is
// later observed on Receiver().
func (p *Pool) Spawn(ctx context.Context, prototypeIndex uint32, args []value.Value) WorkerID {
	return p.SpawnNamed(ctx, "", prototypeIndex, args)
}

// SpawnNamed is Spawn with a human-readable name attached for diagnostics;
// the name itself isn't threaded through ThreadMessage since the
// specification's completion message only names {worker_id, result,
// prototype_index} — callers that need the name back can keep their own
// WorkerID -> name table.
func (p *Pool) SpawnNamed(ctx context.Context, name string, prototypeIndex uint32, args []value.Value) WorkerID {
	workerCtx, cancel := context.WithCancel(ctx)

	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.waiters[id] = cancel
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			p.mu.Lock()
			delete(p.waiters, id)
			p.mu.Unlock()
		}()

		result, err := p.run(workerCtx, p.program, prototypeIndex, args)
		if name != "" && err != nil {
			err = fmt.Errorf("worker %q: %w", name, err)
		}
		p.messages <- ThreadMessage{WorkerID: id, PrototypeIndex: prototypeIndex, Result: result, Err: err}
	}()

	return id
}

// Receiver returns the channel every worker's ThreadMessage arrives on.
// It is safe to read from multiple goroutines; each message is delivered
// to exactly one reader.
func (p *Pool) Receiver() <-chan ThreadMessage {
	return p.messages
}

// Cancel requests cooperative cancellation of a running worker. The
// worker observes this at its next instruction boundary (see
// lang/engine), never mid-instruction.
func (p *Pool) Cancel(id WorkerID) {
	p.mu.Lock()
	cancel, ok := p.waiters[id]
	p.mu.Unlock()
	if ok {
		cancel()
	}
}

// Shutdown stops accepting new spawns' results being meaningful, drains
// outstanding workers, and closes the message channel — the three-step
// protocol spec.md §4.H calls for: stop spawning, drain, join.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	for _, cancel := range p.waiters {
		cancel()
	}
	p.mu.Unlock()

	p.wg.Wait()
	close(p.messages)
}
