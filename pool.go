package workerpool

import (
	"context"
	"sync"
	"sync/atomic"

	lg "github.com/Andrej220/go-utils/zlog"
)

// Pool is the enclosing collaborator spec.md treats as external (a
// "Dispatcher" that constructs the pool and routes submissions). A
// complete, usable module needs a concrete minimal one so a caller does
// not have to write their own Worker/TaskQueue wiring from scratch; Pool
// owns the dedicated and shared workers and exposes the four operations
// a dispatcher would otherwise have to reimplement: Submit, TrySubmit,
// Shutdown, Stats.
type Pool struct {
	cfg Config

	dedicated []*Worker
	shared    []*Worker
	sharedQ   []*TaskQueue // convenience view shared with every dedicated worker's stealer

	sharedRR atomic.Uint64

	closed     atomic.Bool
	shutdownMu sync.Mutex
}

// NewPool constructs a Pool per cfg, launching one goroutine per
// dedicated worker immediately. Shared workers (if any) have no
// goroutine of their own; they are drained cooperatively by dedicated
// workers.
func NewPool(cfg Config) (*Pool, error) {
	cfg.FillDefaults()

	p := &Pool{cfg: cfg}

	p.shared = make([]*Worker, cfg.SharedWorkers)
	p.sharedQ = make([]*TaskQueue, cfg.SharedWorkers)
	for i := range p.shared {
		w := newSharedWorker(i)
		p.shared[i] = w
		p.sharedQ[i] = w.Queue()
	}

	p.dedicated = make([]*Worker, cfg.Workers)
	for i := range p.dedicated {
		p.dedicated[i] = newWorker(i, cfg, p.sharedQ)
	}

	// A shared queue has no owning thread, so it cannot wake itself the
	// way a dedicated worker's own Enqueue does. In non-load-balanced
	// mode, every blocked dedicated worker must still be woken when the
	// shared pool transitions from empty, or a submission that only
	// ever targets AnyQueue would never be observed; see Worker.wake.
	for _, sw := range p.shared {
		for _, dw := range p.dedicated {
			if !dw.cfg.LoadBalanceShared {
				sw.wake = append(sw.wake, dw.signal)
			}
		}
	}

	cfg.Logger.Info("workerpool started",
		lg.Int("workers", cfg.Workers), lg.Int("shared_workers", cfg.SharedWorkers))

	return p, nil
}

// workerFor resolves which worker should receive t, returning an error
// if t's QueueID names neither a dedicated worker nor AnyQueue.
func (p *Pool) workerFor(t Task) (*Worker, error) {
	id := t.QueueID()
	if id == AnyQueue {
		if len(p.shared) == 0 {
			// No shared pool configured: fall back to round-robin over
			// dedicated workers so AnyQueue submissions still land
			// somewhere runnable.
			if len(p.dedicated) == 0 {
				return nil, ErrInvalidQueueID
			}
			idx := p.sharedRR.Add(1) % uint64(len(p.dedicated))
			return p.dedicated[idx], nil
		}
		// In non-load-balanced mode with StealFromAllShared left at its
		// default false, GrabOne only ever drains shared[0] (see
		// stealer.go); routing AnyQueue submissions round-robin across
		// every shared worker would strand tasks on shared[1:] forever.
		// Restrict routing to shared[0] in that configuration so every
		// AnyQueue submission lands somewhere a worker will actually
		// look.
		if len(p.shared) > 1 && !p.cfg.StealFromAllShared && !p.cfg.LoadBalanceShared {
			return p.shared[0], nil
		}
		idx := p.sharedRR.Add(1) % uint64(len(p.shared))
		return p.shared[idx], nil
	}
	if id < 0 || int(id) >= len(p.dedicated) {
		return nil, ErrInvalidQueueID
	}
	return p.dedicated[id], nil
}

// Submit blocks only on the destination queue's spinlock, never on
// capacity: TaskQueue is an unbounded list, so enqueue always succeeds
// once a valid destination is resolved, matching spec.md §4.2.
func (p *Pool) Submit(t Task) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}
	if t == nil {
		return ErrNilTask
	}
	w, err := p.workerFor(t)
	if err != nil {
		return err
	}
	return w.Enqueue(t)
}

// TrySubmit is the non-blocking variant of Submit: it never waits on a
// contended spinlock, returning false instead.
func (p *Pool) TrySubmit(t Task) bool {
	if p.closed.Load() || t == nil {
		return false
	}
	w, err := p.workerFor(t)
	if err != nil {
		return false
	}
	return w.TryEnqueue(t)
}

// Shutdown terminates every dedicated worker (joining its goroutine) and
// clears every queue, dedicated and shared. It is idempotent. If ctx is
// done before all workers have joined, Shutdown returns ctx.Err() — the
// termination itself continues in the background and queues are still
// cleared once it completes.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.shutdownMu.Lock()
	defer p.shutdownMu.Unlock()

	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for _, w := range p.dedicated {
			wg.Add(1)
			go func(w *Worker) {
				defer wg.Done()
				w.Terminate()
			}(w)
		}
		wg.Wait()
		for _, w := range p.shared {
			w.Terminate()
		}
	}()

	select {
	case <-done:
		p.cfg.Logger.Info("workerpool shut down")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop is the blocking convenience form of Shutdown with no deadline.
func (p *Pool) Stop() { _ = p.Shutdown(context.Background()) }

// Stats returns a per-worker snapshot, dedicated workers first, followed
// by shared workers.
func (p *Pool) Stats() []WorkerStatsSnapshot {
	out := make([]WorkerStatsSnapshot, 0, len(p.dedicated)+len(p.shared))
	for _, w := range p.dedicated {
		out = append(out, w.Stats())
	}
	for _, w := range p.shared {
		out = append(out, w.Stats())
	}
	return out
}

// Len sums the queue length of every worker, dedicated and shared,
// including any task currently in flight.
func (p *Pool) Len() int {
	n := 0
	for _, w := range p.dedicated {
		n += w.Len()
	}
	for _, w := range p.shared {
		n += w.Len()
	}
	return n
}

// Workers returns the number of dedicated workers.
func (p *Pool) Workers() int { return len(p.dedicated) }

// SharedWorkers returns the number of shared queues.
func (p *Pool) SharedWorkers() int { return len(p.shared) }
