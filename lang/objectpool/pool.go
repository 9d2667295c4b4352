// Package objectpool implements the per-worker bump arena described in
// spec.md §4.G: one ObjectPool owns every heap object (string, list) a
// single worker allocates while running a prototype, hands out raw
// pointers that are never moved, and never frees an individual object
// mid-execution — reclamation only happens wholesale, when the arena is
// reset between workers.
package objectpool

import "github.com/dust-lang/dust/lang/value"

// Stats summarizes one Sweep pass, for diagnostics only — sweeping never
// reclaims memory by itself (see the package doc).
type Stats struct {
	Live      int
	Unmarked  int
	Threshold int
}

// Pool is a bump arena of *value.Object plus the bookkeeping needed to run
// a mark sweep over it. It is not safe for concurrent use: each
// lang/engine worker owns exactly one Pool.
type Pool struct {
	objects   []*value.Object
	threshold int
}

// New returns a Pool that triggers a diagnostic sweep once more than
// sweepThreshold objects are live. A threshold <= 0 disables automatic
// sweeping; Sweep can still be called explicitly.
func New(sweepThreshold int) *Pool {
	return NewSized(sweepThreshold, 0)
}

// NewSized is New plus an initial capacity for the pool's backing slice,
// so a caller that knows a program allocates heavily (DUST_MIN_HEAP) can
// avoid repeated slice growth early in a run. initialCapacity <= 0 behaves
// exactly like New.
func NewSized(sweepThreshold, initialCapacity int) *Pool {
	p := &Pool{threshold: sweepThreshold}
	if initialCapacity > 0 {
		p.objects = make([]*value.Object, 0, initialCapacity)
	}
	return p
}

// AllocString arena-allocates a new string object and returns a pointer
// into the pool, stable for the pool's lifetime.
func (p *Pool) AllocString(s string) *value.Object {
	return p.alloc(&value.Object{Kind: value.ObjectString, Str: s})
}

// AllocList arena-allocates a new list object.
func (p *Pool) AllocList(elems []value.Value) *value.Object {
	return p.alloc(&value.Object{Kind: value.ObjectList, List: elems})
}

func (p *Pool) alloc(obj *value.Object) *value.Object {
	p.objects = append(p.objects, obj)
	if p.threshold > 0 && len(p.objects) > p.threshold {
		p.Sweep(nil)
	}
	return obj
}

// Sweep marks every object transitively reachable from roots (the live
// register values of the worker calling it) and returns statistics about
// what it found. Per §4.G this never reclaims memory itself — an
// unmarked object is only ever actually freed when the whole arena is
// discarded at the end of the worker's run — so Sweep's only effect
// besides the returned Stats is clearing and re-setting each object's
// Marked bit for the next pass.
func (p *Pool) Sweep(roots []value.Value) Stats {
	for _, obj := range p.objects {
		obj.Marked = false
	}

	var mark func(v value.Value)
	mark = func(v value.Value) {
		if v.Obj == nil || v.Obj.Marked {
			return
		}
		v.Obj.Marked = true
		if v.Obj.Kind == value.ObjectList {
			for _, elem := range v.Obj.List {
				mark(elem)
			}
		}
	}
	for _, root := range roots {
		mark(root)
	}

	stats := Stats{Live: len(p.objects), Threshold: p.threshold}
	for _, obj := range p.objects {
		if !obj.Marked {
			stats.Unmarked++
		}
	}
	return stats
}

// Reset discards every object the pool has allocated, matching the
// lifetime a worker's arena actually has: one function execution.
func (p *Pool) Reset() {
	p.objects = p.objects[:0]
}
