package aio

import (
	"container/heap"
	"time"
)

// scheduledTask is spec.md's "(due-time, one-shot callable)" pair, with a
// monotonically increasing sequence number added so equal due-times still
// have a well-defined, stable insertion order inside the heap.
type scheduledTask struct {
	due time.Time
	seq uint64
	fn  func()
}

// taskQueue is a container/heap ordered by (due, seq) ascending, grounded
// on the timer-heap pattern used elsewhere in the retrieved pack, pared
// down to this package's single-threaded model: no FD poller, nothing
// scheduled from another goroutine.
type taskQueue []*scheduledTask

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(*scheduledTask)) }

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// SynchronousEventLoop is a concrete, single-threaded EventLoop: tasks are
// drained one at a time in (due-time, insertion-order) order, sleeping the
// goroutine between tasks until the next one is due.
type SynchronousEventLoop struct {
	queue   taskQueue
	seq     uint64
	current *AsyncCoroutine
}

// Option configures a SynchronousEventLoop at construction. This is the
// functional-options idiom the retrieved pack's richer services use for
// build-time parameters (e.g. wippyai-wasm-runtime's runtime options), and
// is this module's stand-in for spec.md §6's "compile-time constant,
// exposed as a build parameter" language. There is no stack-size option:
// a goroutine's stack starts small and grows on demand, so unlike the
// fixed-size stack spec.md's Coroutine allocates, there is no fixed
// size for a build parameter to govern (see DESIGN.md's Open Question (a)).
type Option func(*SynchronousEventLoop)

// WithInitialQueueCapacity pre-allocates the task queue's backing array to
// hold n tasks, avoiding growth reallocations for a loop whose rough task
// volume is known up front. The default is Go's ordinary slice growth from
// a nil queue.
func WithInitialQueueCapacity(n int) Option {
	return func(l *SynchronousEventLoop) {
		if n > 0 {
			l.queue = make(taskQueue, 0, n)
		}
	}
}

// NewSynchronousEventLoop returns an empty, ready-to-run event loop.
func NewSynchronousEventLoop(opts ...Option) *SynchronousEventLoop {
	l := &SynchronousEventLoop{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddTaskAt enqueues fn to run at or after due.
func (l *SynchronousEventLoop) AddTaskAt(due time.Time, fn func()) {
	l.seq++
	heap.Push(&l.queue, &scheduledTask{due: due, seq: l.seq, fn: fn})
}

// AddTask is AddTaskAt(time.Now(), fn).
func (l *SynchronousEventLoop) AddTask(fn func()) {
	l.AddTaskAt(time.Now(), fn)
}

// SetCurrentCoroutine implements EventLoop.
func (l *SynchronousEventLoop) SetCurrentCoroutine(co *AsyncCoroutine) {
	l.current = co
}

// CurrentCoroutine implements EventLoop.
func (l *SynchronousEventLoop) CurrentCoroutine() *AsyncCoroutine {
	return l.current
}

// AddCoroutine schedules co's first step: a task that sets the
// current-coroutine slot, resumes co, then clears the slot.
func (l *SynchronousEventLoop) AddCoroutine(co *AsyncCoroutine) {
	l.AddTask(func() {
		l.SetCurrentCoroutine(co)
		co.Resume(struct{}{})
		l.SetCurrentCoroutine(nil)
	})
}

// Run drains the queue: while it is non-empty, sleep until the earliest
// due time, pop that one task, execute it, and continue. Equal
// due-times run in the order they were added.
func (l *SynchronousEventLoop) Run() {
	for l.queue.Len() > 0 {
		next := l.queue[0]
		if wait := time.Until(next.due); wait > 0 {
			time.Sleep(wait)
		}
		task := heap.Pop(&l.queue).(*scheduledTask)
		task.fn()
	}
}

// CreateAndRun is a one-shot convenience: build a loop (forwarding opts to
// NewSynchronousEventLoop), run fn(loop) as the body of a freshly scheduled
// coroutine, and drain the loop until empty.
func CreateAndRun(fn func(loop *SynchronousEventLoop), opts ...Option) {
	loop := NewSynchronousEventLoop(opts...)
	co := New(func(co *AsyncCoroutine, _ struct{}) struct{} {
		fn(loop)
		return struct{}{}
	})
	loop.AddCoroutine(co)
	loop.Run()
}
