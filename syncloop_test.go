package aio

import (
	"testing"
	"time"
)

func TestSynchronousEventLoopOrdersByDueTimeThenInsertion(t *testing.T) {
	loop := NewSynchronousEventLoop()
	now := time.Now()

	var order []string
	loop.AddTaskAt(now.Add(10*time.Millisecond), func() { order = append(order, "b1") })
	loop.AddTaskAt(now, func() { order = append(order, "a") })
	loop.AddTaskAt(now.Add(10*time.Millisecond), func() { order = append(order, "b2") })

	loop.Run()

	want := []string{"a", "b1", "b2"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestSynchronousEventLoopCurrentCoroutineScoping(t *testing.T) {
	loop := NewSynchronousEventLoop()
	if loop.CurrentCoroutine() != nil {
		t.Fatal("a fresh loop must have no current coroutine")
	}

	var sawSelf bool
	co := New(func(c *AsyncCoroutine, _ struct{}) struct{} {
		sawSelf = loop.CurrentCoroutine() == c
		return struct{}{}
	})
	loop.AddCoroutine(co)
	loop.Run()

	if !sawSelf {
		t.Fatal("current coroutine must be set while the coroutine's step runs")
	}
	if loop.CurrentCoroutine() != nil {
		t.Fatal("current coroutine must be cleared after the step returns")
	}
}

func TestWithInitialQueueCapacity(t *testing.T) {
	loop := NewSynchronousEventLoop(WithInitialQueueCapacity(4))
	if cap(loop.queue) < 4 {
		t.Fatalf("got capacity %d, want at least 4", cap(loop.queue))
	}
	if len(loop.queue) != 0 {
		t.Fatalf("got length %d, want 0", len(loop.queue))
	}

	ran := false
	loop.AddTask(func() { ran = true })
	loop.Run()
	if !ran {
		t.Fatal("a loop built with options must still run tasks normally")
	}
}

func TestCreateAndRunTerminatesWithTransitiveWork(t *testing.T) {
	done := make(chan struct{})
	CreateAndRun(func(loop *SynchronousEventLoop) {
		mustAwaitLoop(loop, Sleep(loop, time.Millisecond))
		close(done)
	})

	select {
	case <-done:
	default:
		t.Fatal("CreateAndRun must not return before its coroutine finishes")
	}
}

func mustAwaitLoop[T any](loop *SynchronousEventLoop, f *Future[T]) T {
	v, err := f.Await()
	if err != nil {
		panic(err)
	}
	return v
}
