package workerpool

import (
	"runtime"
	"sync/atomic"
)

// workStealer implements the policy by which a dedicated worker selects
// its next task. It alternates precedence between the worker's own
// queue and the shared pool on every call via a private, per-worker
// boolean — deliberately unsynchronized, since the original design's
// intent is a weak round-robin rather than strict fairness (see
// spec.md §9's "static alternator flag" note).
//
// Grounded on original_source/quantum/impl/quantum_io_queue_impl.h's
// IoQueue::grabWorkItem / grabWorkItemFromAll / tryDequeueFromShared.
type workStealer struct {
	own    *TaskQueue
	idle   *atomic.Bool
	signal *EmptySignal
	shared []*TaskQueue

	alternate    bool
	sharedRotate int

	stealFromAllShared bool
}

func newWorkStealer(own *TaskQueue, idle *atomic.Bool, signal *EmptySignal, shared []*TaskQueue, stealFromAllShared bool) *workStealer {
	return &workStealer{own: own, idle: idle, signal: signal, shared: shared, stealFromAllShared: stealFromAllShared}
}

// GrabOne implements the non-load-balanced selection policy. When
// stealFromAllShared is false (the default, matching the original
// source's behavior of consulting only the primary shared queue) it
// alternates precedence between the own queue and shared[0]. When true,
// it degrades to the same full scan GrabOneFromAny uses, still only
// called from the blocking (EmptySignal) path.
func (w *workStealer) GrabOne() (Task, bool) {
	if len(w.shared) == 0 {
		t, ok := w.own.Dequeue(w.idle)
		if !ok {
			w.signal.SetEmpty(true)
		}
		return t, ok
	}

	if w.stealFromAllShared {
		if t, ok := w.TryDequeueFromShared(); ok {
			return t, true
		}
		t, ok := w.own.Dequeue(w.idle)
		if !ok {
			w.signal.SetEmpty(true)
		}
		return t, ok
	}

	primary := w.shared[0]
	w.alternate = !w.alternate

	first, second := w.own, primary
	if w.alternate {
		first, second = primary, w.own
	}

	if t, ok := first.Dequeue(w.idle); ok {
		return t, true
	}
	if t, ok := second.Dequeue(w.idle); ok {
		return t, true
	}
	w.signal.SetEmpty(true)
	return nil, false
}

// GrabOneFromAny implements the load-balanced selection policy: every
// call alternates precedence between scanning the full shared pool and
// the own queue.
func (w *workStealer) GrabOneFromAny() (Task, bool) {
	w.alternate = !w.alternate

	if w.alternate {
		if t, ok := w.TryDequeueFromShared(); ok {
			return t, true
		}
		return w.own.Dequeue(w.idle)
	}

	if t, ok := w.own.Dequeue(w.idle); ok {
		return t, true
	}
	return w.TryDequeueFromShared()
}

// TryDequeueFromShared scans the shared queue set starting at a
// per-worker rotating index, try-locking each in turn. If every attempt
// fails to acquire its lock but the accumulated size seen across queues
// was non-zero (contention, not emptiness), the scan retries from the
// top; a genuinely empty shared pool returns (nil, false) without
// spinning forever.
func (w *workStealer) TryDequeueFromShared() (Task, bool) {
	n := len(w.shared)
	if n == 0 {
		return nil, false
	}

	for {
		var sizeSeen int
		for i := 0; i < n; i++ {
			w.sharedRotate++
			q := w.shared[w.sharedRotate%n]
			sizeSeen += q.Len()
			if t, ok := q.TryDequeue(w.idle); ok {
				return t, true
			}
		}
		if sizeSeen == 0 {
			return nil, false
		}
		// All try-locks failed under genuine contention; yield once and retry.
		runtime.Gosched()
	}
}
