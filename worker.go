package workerpool

import (
	"sync"
	"sync/atomic"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
	"go.uber.org/zap"
)

// Worker owns a TaskQueue, an EmptySignal, a WorkerStats, and (for
// dedicated workers) a goroutine running the loop in run(). A worker
// constructed with no shared-queue reference and no goroutine is a
// shared-only worker: it exists solely to host a queue that dedicated
// workers drain via WorkStealer, and is terminated by simply clearing
// its queue.
//
// Worker must be constructed via newWorker/newSharedWorker; it holds a
// mutex-backed EmptySignal, so copying a live Worker would duplicate
// state that must stay singular — no copy constructor is exposed,
// resolving spec.md §9's note about the original's surprising
// thread-duplicating copy constructor.
type Worker struct {
	id int

	queue  *TaskQueue
	signal *EmptySignal
	stats  WorkerStats
	idle   atomic.Bool

	stealer *workStealer
	backoff *BackoffTimer

	cfg Config

	interrupted atomic.Bool
	terminated  atomic.Bool

	dedicated bool
	wg        sync.WaitGroup

	// wake lists the EmptySignals of non-load-balanced dedicated
	// workers that steal from this worker's queue when it is used as a
	// shared (threadless) queue. A shared queue has no owning worker to
	// wake on the original design's terms, but without this, a task
	// submitted only to the shared pool would never wake a blocked
	// dedicated worker in non-load-balanced mode (see DESIGN.md).
	wake []*EmptySignal
}

func newWorker(id int, cfg Config, shared []*TaskQueue) *Worker {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	w := &Worker{
		id:        id,
		queue:     NewTaskQueue(),
		signal:    NewEmptySignal(),
		cfg:       cfg,
		dedicated: true,
	}
	w.queue.SetOwner(&w.stats)
	w.idle.Store(true)
	w.stealer = newWorkStealer(w.queue, &w.idle, w.signal, shared, cfg.StealFromAllShared)
	w.backoff = NewBackoffTimer(cfg.PollInterval, cfg.BackoffPolicy, cfg.MaxBackoffSteps)
	w.wg.Add(1)
	go w.run()
	return w
}

// newSharedWorker builds a shared-only worker: a queue with no thread,
// drained by dedicated workers via WorkStealer.
func newSharedWorker(id int) *Worker {
	w := &Worker{
		id:     id,
		queue:  NewTaskQueue(),
		signal: NewEmptySignal(),
	}
	w.queue.SetOwner(&w.stats)
	w.idle.Store(true)
	return w
}

// Queue exposes the worker's private TaskQueue, e.g. for Pool.Submit to
// enqueue directly into a specific dedicated worker's queue.
func (w *Worker) Queue() *TaskQueue { return w.queue }

// Stats returns a point-in-time snapshot of this worker's counters.
func (w *Worker) Stats() WorkerStatsSnapshot { return w.stats.Snapshot() }

// IsIdle reports whether the worker is between tasks (no Task.Run call
// currently in flight).
func (w *Worker) IsIdle() bool { return w.idle.Load() }

// Len reports the queue length plus one if a task is currently
// executing, matching the original IoQueue::size() "+1 for in-flight"
// accounting.
func (w *Worker) Len() int {
	n := w.queue.Len()
	if !w.idle.Load() {
		n++
	}
	return n
}

// Enqueue places t on this worker's own queue, waking it (and, for a
// shared queue, every subscribed dedicated worker) if it was blocked on
// an empty queue. It returns ErrQueueClosed if the worker has already
// been terminated. Pool rejects new submissions at the pool level
// (ErrPoolClosed) once Shutdown has begun, so through Pool.Submit this is
// only seen when a submission races with Shutdown: Submit passes its
// closed check just before Shutdown terminates the target worker.
func (w *Worker) Enqueue(t Task) error {
	if w.terminated.Load() {
		return ErrQueueClosed
	}
	if t.IsHighPriority() {
		w.stats.incHighPriority()
	}
	wasEmpty := w.queue.Enqueue(t)
	w.stats.incPosted()
	if wasEmpty {
		w.wakeWaiters()
	}
	return nil
}

// TryEnqueue is the non-blocking variant of Enqueue.
func (w *Worker) TryEnqueue(t Task) bool {
	if w.terminated.Load() {
		return false
	}
	wasEmpty, ok := w.queue.TryEnqueue(t)
	if !ok {
		return false
	}
	if t.IsHighPriority() {
		w.stats.incHighPriority()
	}
	w.stats.incPosted()
	if wasEmpty {
		w.wakeWaiters()
	}
	return true
}

func (w *Worker) wakeWaiters() {
	if !w.cfg.LoadBalanceShared {
		w.signal.SetEmpty(false)
	}
	for _, sub := range w.wake {
		sub.SetEmpty(false)
	}
}

// run is the dedicated worker's thread loop. See spec.md §4.5 for the
// pseudocode this mirrors exactly.
func (w *Worker) run() {
	defer w.wg.Done()

	if w.cfg.PinWorkers {
		if err := pinCurrentWorker(w.id, w.cfg.WorkerCPU); err != nil {
			if w.cfg.OnInternalError != nil {
				w.cfg.OnInternalError(err)
			}
		}
	}

	for {
		var task Task
		var ok bool

		if w.cfg.LoadBalanceShared {
			for !w.interrupted.Load() {
				task, ok = w.stealer.GrabOneFromAny()
				if ok {
					w.backoff.Reset()
					break
				}
				time.Sleep(w.backoff.NextInterval())
			}
		} else if w.signal.IsEmpty() {
			w.signal.WaitUntilNonEmptyOrInterrupted()
		}

		if w.interrupted.Load() {
			break
		}

		if !w.cfg.LoadBalanceShared {
			task, ok = w.stealer.GrabOne()
			if !ok {
				continue
			}
		}
		if !ok || task == nil {
			continue
		}

		w.runTask(task)
	}
}

// runTask executes one task to completion, isolating panics and
// recording stats. idle is set to false only while the task's Run is
// actually executing, so Worker.Len sees a consistent queued+in-flight
// count at every other instant.
func (w *Worker) runTask(task Task) {
	w.idle.Store(false)
	defer w.idle.Store(true)

	rc := StatusSuccess
	func() {
		defer func() {
			if r := recover(); r != nil {
				rc = StatusException
				w.cfg.Logger.Warn("task panicked; recovered",
					lg.Any("panic", r), lg.Int("worker", w.id))
			}
		}()
		rc = task.Run()
	}()

	w.stats.recordCompletion(rc, task.QueueID() == AnyQueue)
	if rc != StatusSuccess && rc != StatusException {
		w.cfg.Logger.Warn("task returned error status",
			lg.Int32("status", rc), lg.Int("worker", w.id))
	}
}

// Terminate stops the worker. For a dedicated worker it is idempotent
// via CAS: it sets interrupted under the EmptySignal's mutex, broadcasts,
// joins the goroutine, then clears the queue. A shared-only worker (no
// goroutine) is terminated by simply clearing its queue.
func (w *Worker) Terminate() {
	if !w.terminated.CompareAndSwap(false, true) {
		return
	}
	if w.dedicated {
		w.interrupted.Store(true)
		w.signal.Interrupt()
		w.wg.Wait()
	}
	w.clearQueue()
}

func (w *Worker) clearQueue() {
	idle := &w.idle
	for {
		if _, ok := w.queue.Dequeue(idle); !ok {
			break
		}
	}
}
