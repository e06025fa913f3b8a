package workerpool

import (
	"sync/atomic"
	"testing"
)

type testTask struct {
	id      int32
	high    bool
	queueID int32
	ran     *int32
	status  int32
}

func (t testTask) Run() int32 {
	if t.ran != nil {
		atomic.AddInt32(t.ran, 1)
	}
	return t.status
}
func (t testTask) QueueID() int32       { return t.queueID }
func (t testTask) IsHighPriority() bool { return t.high }

func TestTaskQueueFIFOOrder(t *testing.T) {
	q := NewTaskQueue()
	var idle atomic.Bool

	q.Enqueue(testTask{id: 1})
	q.Enqueue(testTask{id: 2})
	q.Enqueue(testTask{id: 3})

	for _, want := range []int32{1, 2, 3} {
		task, ok := q.Dequeue(&idle)
		if !ok {
			t.Fatalf("expected task %d, got none", want)
		}
		if got := task.(testTask).id; got != want {
			t.Fatalf("FIFO order broken: got %d, want %d", got, want)
		}
	}
}

func TestTaskQueueHighPriorityHead(t *testing.T) {
	q := NewTaskQueue()
	var idle atomic.Bool

	q.Enqueue(testTask{id: 1})
	q.Enqueue(testTask{id: 2})
	q.Enqueue(testTask{id: 3, high: true})

	want := []int32{3, 1, 2}
	for _, w := range want {
		task, ok := q.Dequeue(&idle)
		if !ok || task.(testTask).id != w {
			t.Fatalf("priority order broken: want %d", w)
		}
	}
}

func TestTaskQueueEnqueueReportsWasEmpty(t *testing.T) {
	q := NewTaskQueue()
	var idle atomic.Bool

	if wasEmpty := q.Enqueue(testTask{id: 1}); !wasEmpty {
		t.Fatal("first enqueue should report wasEmpty=true")
	}
	if wasEmpty := q.Enqueue(testTask{id: 2}); wasEmpty {
		t.Fatal("second enqueue should report wasEmpty=false")
	}

	q.Dequeue(&idle)
	q.Dequeue(&idle)

	if wasEmpty := q.Enqueue(testTask{id: 3}); !wasEmpty {
		t.Fatal("enqueue after fully draining should report wasEmpty=true")
	}
}

func TestTaskQueueDequeueEmptyLeavesIdleTrue(t *testing.T) {
	q := NewTaskQueue()
	var idle atomic.Bool
	idle.Store(false)

	task, ok := q.Dequeue(&idle)
	if ok || task != nil {
		t.Fatal("dequeue on empty queue must return (nil, false)")
	}
	if !idle.Load() {
		t.Fatal("idle flag must be true after dequeuing an empty queue")
	}
}

func TestTaskQueueLenMonotonicBetweenEnqueueAndDequeue(t *testing.T) {
	q := NewTaskQueue()
	var idle atomic.Bool

	if q.Len() != 0 {
		t.Fatalf("initial len = %d; want 0", q.Len())
	}
	q.Enqueue(testTask{id: 1})
	if q.Len() != 1 {
		t.Fatalf("len after one enqueue = %d; want 1", q.Len())
	}
	q.Enqueue(testTask{id: 2})
	if q.Len() != 2 {
		t.Fatalf("len after two enqueues = %d; want 2", q.Len())
	}
	q.Dequeue(&idle)
	if q.Len() != 1 {
		t.Fatalf("len after one dequeue = %d; want 1", q.Len())
	}
}

func TestTaskQueueTryEnqueueTryDequeue(t *testing.T) {
	q := NewTaskQueue()
	var idle atomic.Bool

	wasEmpty, ok := q.TryEnqueue(testTask{id: 1})
	if !ok || !wasEmpty {
		t.Fatal("TryEnqueue on uncontended queue should succeed and report wasEmpty")
	}

	task, ok := q.TryDequeue(&idle)
	if !ok || task.(testTask).id != 1 {
		t.Fatal("TryDequeue on uncontended queue should succeed")
	}

	if _, ok := q.TryDequeue(&idle); ok {
		t.Fatal("TryDequeue on empty queue should fail")
	}
}

func TestTaskQueueNodeReuseDoesNotCorruptState(t *testing.T) {
	q := NewTaskQueue()
	var idle atomic.Bool

	for round := 0; round < 3; round++ {
		for i := int32(0); i < 10; i++ {
			q.Enqueue(testTask{id: i})
		}
		for i := int32(0); i < 10; i++ {
			task, ok := q.Dequeue(&idle)
			if !ok || task.(testTask).id != i {
				t.Fatalf("round %d: FIFO broken after node reuse at %d", round, i)
			}
		}
	}
	if !q.IsEmpty() {
		t.Fatal("queue should be empty after draining every round")
	}
}
