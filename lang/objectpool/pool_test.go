package objectpool_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dust-lang/dust/lang/objectpool"
	"github.com/dust-lang/dust/lang/value"
)

func TestAllocStringAndList(t *testing.T) {
	pool := objectpool.New(0)

	str := pool.AllocString("hello")
	require.Equal(t, "hello", str.Str)
	require.Equal(t, value.ObjectString, str.Kind)

	list := pool.AllocList([]value.Value{value.Integer(1), value.Integer(2)})
	require.Equal(t, value.ObjectList, list.Kind)
	require.Len(t, list.List, 2)
}

func TestSweepMarksReachableObjectsOnly(t *testing.T) {
	pool := objectpool.New(0)

	reachable := pool.AllocString("kept")
	_ = pool.AllocString("orphaned")

	root := value.StringValue(reachable)
	stats := pool.Sweep([]value.Value{root})

	require.Equal(t, 2, stats.Live)
	require.Equal(t, 1, stats.Unmarked)
}

func TestSweepFollowsListElements(t *testing.T) {
	pool := objectpool.New(0)

	inner := pool.AllocString("nested")
	outer := pool.AllocList([]value.Value{value.StringValue(inner)})

	stats := pool.Sweep([]value.Value{value.ListValue(outer)})
	require.Equal(t, 2, stats.Live)
	require.Equal(t, 0, stats.Unmarked)
}

func TestResetDiscardsEveryObject(t *testing.T) {
	pool := objectpool.New(0)
	pool.AllocString("a")
	pool.AllocString("b")

	pool.Reset()
	stats := pool.Sweep(nil)
	require.Equal(t, 0, stats.Live)
}

func TestNewSizedPreReservesCapacityWithoutAddingLiveObjects(t *testing.T) {
	pool := objectpool.NewSized(0, 64)
	stats := pool.Sweep(nil)
	require.Equal(t, 0, stats.Live)

	pool.AllocString("a")
	stats = pool.Sweep(nil)
	require.Equal(t, 1, stats.Live)
}

func TestAllocPastThresholdTriggersAutomaticSweep(t *testing.T) {
	pool := objectpool.New(1)
	pool.AllocString("first")
	// Second allocation exceeds the threshold of 1 and triggers a sweep
	// with no roots, leaving every prior object unmarked but still live
	// per the package doc: sweeping never reclaims memory by itself.
	pool.AllocString("second")

	stats := pool.Sweep(nil)
	require.Equal(t, 2, stats.Live)
}
