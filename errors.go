package workerpool

import "errors"

var (
	// ErrPoolClosed is returned by Submit once Shutdown has been called
	// (TrySubmit reports false instead).
	ErrPoolClosed = errors.New("workerpool: pool closed")

	// ErrQueueClosed is returned when an operation targets a queue
	// whose owning worker has already been terminated.
	ErrQueueClosed = errors.New("workerpool: queue closed")

	// ErrNilTask is returned when Submit is called with a nil Task
	// (TrySubmit reports false instead).
	ErrNilTask = errors.New("workerpool: task is nil")

	// ErrInvalidQueueID is returned when a task's QueueID does not
	// name a dedicated worker and is not AnyQueue.
	ErrInvalidQueueID = errors.New("workerpool: invalid queue id")
)
