package workerpool

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// WorkerStats holds lock-free counters for a single worker. The pool
// never relies on these for correctness; they exist purely for
// observability, matching spec.md's "statistics transport is an external
// collaborator" stance — this module owns the counters themselves but
// assumes nothing about how a caller exports them.
//
// Counters are grouped with cache-line padding so a reader polling Stats
// from another goroutine does not false-share with a worker's own
// read-modify-write hot path, following the same concern the teacher's
// metrics.go addresses with manual byte padding and segmented_queue.go
// addresses with cpu.CacheLinePad.
type WorkerStats struct {
	posted atomic.Uint64
	_      cpu.CacheLinePad

	completed atomic.Uint64
	_         cpu.CacheLinePad

	errored atomic.Uint64
	_       cpu.CacheLinePad

	highPriority atomic.Uint64
	_            cpu.CacheLinePad

	sharedCompleted atomic.Uint64
	_               cpu.CacheLinePad

	sharedErrored atomic.Uint64
	_             cpu.CacheLinePad

	// numElements tracks the owning queue's current queued count,
	// mirrored from TaskQueue's enqueue/dequeue path via
	// TaskQueue.SetOwner; a task is no longer counted once dequeued, so
	// a task in flight is not included. It is signed to match the original's size()
	// accounting but is never observed negative.
	numElements atomic.Int64
	_           cpu.CacheLinePad
}

// WorkerStatsSnapshot is a point-in-time, non-atomic copy of WorkerStats
// suitable for logging or returning from Pool.Stats.
type WorkerStatsSnapshot struct {
	Posted          uint64
	Completed       uint64
	Errored         uint64
	HighPriority    uint64
	SharedCompleted uint64
	SharedErrored   uint64
	NumElements     int64
}

func (s *WorkerStats) incPosted()       { s.posted.Add(1) }
func (s *WorkerStats) incHighPriority() { s.highPriority.Add(1) }
func (s *WorkerStats) incElements()     { s.numElements.Add(1) }
func (s *WorkerStats) decElements()     { s.numElements.Add(-1) }

// recordCompletion updates the completed/errored counters for a task
// that finished with status rc, distinguishing shared-pool tasks (shared
// == true) from tasks that belong to this worker's own queue.
func (s *WorkerStats) recordCompletion(rc int32, shared bool) {
	if rc == StatusSuccess {
		if shared {
			s.sharedCompleted.Add(1)
		} else {
			s.completed.Add(1)
		}
		return
	}
	if shared {
		s.sharedErrored.Add(1)
	} else {
		s.errored.Add(1)
	}
}

// Snapshot returns a consistent-enough point-in-time copy of the
// counters. Individual fields may be read from slightly different
// instants relative to one another, which is acceptable for
// observability-only data.
func (s *WorkerStats) Snapshot() WorkerStatsSnapshot {
	return WorkerStatsSnapshot{
		Posted:          s.posted.Load(),
		Completed:       s.completed.Load(),
		Errored:         s.errored.Load(),
		HighPriority:    s.highPriority.Load(),
		SharedCompleted: s.sharedCompleted.Load(),
		SharedErrored:   s.sharedErrored.Load(),
		NumElements:     s.numElements.Load(),
	}
}
