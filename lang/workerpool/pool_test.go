package workerpool_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dust-lang/dust/lang/binder"
	"github.com/dust-lang/dust/lang/compiler"
	"github.com/dust-lang/dust/lang/engine"
	"github.com/dust-lang/dust/lang/parser"
	"github.com/dust-lang/dust/lang/resolver"
	"github.com/dust-lang/dust/lang/token"
	"github.com/dust-lang/dust/lang/value"
	"github.com/dust-lang/dust/lang/workerpool"
)

func compileSource(t *testing.T, src string) *compiler.Program {
	t.Helper()

	fset := token.NewFileSet()
	tree, err := parser.ParseFile(context.Background(), fset, "test.ds", []byte(src))
	require.NoError(t, err)

	res := resolver.New()
	b := binder.New(0, tree, res, resolver.ScopeMain)
	require.Empty(t, b.BindFile(tree.Root()))

	program, errs := compiler.CompileProgram(tree, res, tree.Root())
	require.Empty(t, errs)
	return program
}

func receive(t *testing.T, pool *workerpool.Pool) workerpool.ThreadMessage {
	t.Helper()
	select {
	case msg := <-pool.Receiver():
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for worker completion")
		return workerpool.ThreadMessage{}
	}
}

func TestSpawnDeliversResultOnReceiver(t *testing.T) {
	program := compileSource(t, `fn main() { 1 + 2 }`)
	pool := workerpool.New(program, engine.Run)
	defer pool.Shutdown()

	id := pool.Spawn(context.Background(), 0, nil)

	msg := receive(t, pool)
	require.Equal(t, id, msg.WorkerID)
	require.NoError(t, msg.Err)
	require.Equal(t, int64(3), msg.Result.AsInteger())
}

func TestSpawnNamedAssignsIncreasingWorkerIDs(t *testing.T) {
	program := compileSource(t, `fn main() { 42 }`)
	pool := workerpool.New(program, engine.Run)
	defer pool.Shutdown()

	first := pool.SpawnNamed(context.Background(), "one", 0, nil)
	second := pool.SpawnNamed(context.Background(), "two", 0, nil)
	require.Less(t, uint64(first), uint64(second))

	receive(t, pool)
	receive(t, pool)
}

func TestCancelStopsAWorkerBeforeCompletion(t *testing.T) {
	var slowRun workerpool.Run = func(ctx context.Context, program *compiler.Program, prototypeIndex uint32, args []value.Value) (value.Value, error) {
		<-ctx.Done()
		return value.None(), ctx.Err()
	}

	program := compileSource(t, `fn main() { 1 }`)
	pool := workerpool.New(program, slowRun)
	defer pool.Shutdown()

	id := pool.Spawn(context.Background(), 0, nil)
	pool.Cancel(id)

	msg := receive(t, pool)
	require.Equal(t, id, msg.WorkerID)
	require.Error(t, msg.Err)
}

func TestShutdownClosesTheReceiverChannel(t *testing.T) {
	program := compileSource(t, `fn main() { 1 }`)
	pool := workerpool.New(program, engine.Run)

	pool.Spawn(context.Background(), 0, nil)
	receive(t, pool)

	pool.Shutdown()

	_, ok := <-pool.Receiver()
	require.False(t, ok)
}
