// Package workerpool provides a multi-queue worker pool for blocking or
// long-running IO tasks, combining a producer-consumer discipline with
// cross-worker work stealing.
//
// Design goals
//
// The package is designed around the following principles:
//
//   - Never lose a submitted task while the pool is running (tasks still
//     queued when Shutdown runs are discarded, not executed)
//   - Avoid busy-spinning when every queue is empty
//   - Keep queue critical sections O(1) so a spinlock beats a mutex
//   - Isolate task panics so one bad task never kills a worker
//
// Rather than optimizing for minimal latency of a single task,
// workerpool optimizes for predictable throughput on blocking work that
// would otherwise stall a goroutine scheduler, the same niche the
// original Bloomberg quantum library's IO queue fills for blocking
// callbacks alongside its coroutine scheduler.
//
// Architecture overview
//
// The pool is composed of four loosely coupled layers:
//
//  1. Queueing (TaskQueue)
//     A single FIFO with high-priority head insertion, protected by a
//     dedicated spinlock. Each dedicated worker owns exactly one;
//     shared queues are the same type with no owning thread.
//
//  2. Selection (WorkStealer)
//     Decides where a worker's next task comes from: its own queue, the
//     primary shared queue, or (in load-balanced mode) a scan of every
//     shared queue with try-lock and retry-on-contention.
//
//  3. Execution (Worker)
//     One goroutine per dedicated worker, blocking on an EmptySignal or
//     polling with a BackoffTimer, running exactly one task at a time to
//     completion.
//
//  4. Orchestration (Pool)
//     Owns the dedicated and shared workers, routes Submit/TrySubmit to
//     the right queue by Task.QueueID, and drives clean shutdown.
//
// Work selection
//
// A dedicated worker alternates precedence between its own queue and the
// shared pool on every dequeue attempt, using an unsynchronized
// per-worker boolean — a weak round-robin by design, not strict
// fairness. In load-balanced mode a worker never blocks: it polls with
// BackoffTimer between empty scans, ramping the sleep interval up
// (linearly or exponentially) the longer no work appears, and restarting
// the ramp from its first step the instant it finds a task.
//
// Error handling
//
// The pool distinguishes two classes of failure:
//
//   - Task failures: a non-zero status from Task.Run, or a panic
//     recovered and mapped to StatusException
//   - Internal errors: pool-level failures unrelated to any one task,
//     e.g. a worker failing to apply CPU affinity
//
// Task failures are counted in WorkerStats and never stop the pool.
// Internal errors are reported via Config.OnInternalError if set.
//
// CPU pinning
//
// On Linux, dedicated workers may optionally be pinned to specific CPUs
// via Config.PinWorkers and Config.WorkerCPU. This can improve cache
// locality for sustained blocking workloads but is not universally
// beneficial. Outside Linux no CPU is pinned; a requested pin is reported
// as an internal error instead.
//
// Intended use cases
//
// workerpool is well suited for:
//
//   - Blocking or long-running IO callbacks alongside a non-blocking
//     event loop or coroutine scheduler
//   - Workloads that need two priority classes but not full fairness
//   - Systems where cross-worker load balancing matters more than
//     per-worker throughput
//
// It is not intended for CPU-bound batch processing or as a general
// fan-out primitive for short-lived, non-blocking work.
package workerpool
