package aio

import (
	"runtime/debug"
	"time"
)

// AsyncCoroutine is the coroutine signature every EventLoop-managed
// coroutine step runs under: no meaningful argument, no meaningful result.
// Data flows between producer and consumer through a Future's bonded cell,
// not through the resume/yield channel, so every coroutine this package
// schedules directly is a Coroutine[struct{}, struct{}].
type AsyncCoroutine = Coroutine[struct{}, struct{}]

// EventLoop is the scheduling contract Future.Await relies on: a due-timed
// task queue plus a single slot for the coroutine currently executing a
// step, so an awaiting coroutine can suspend itself and be resumed later by
// a freshly scheduled task instead of a re-entrant switch.
type EventLoop interface {
	// AddTaskAt enqueues fn to run at or after due.
	AddTaskAt(due time.Time, fn func())
	// AddTask is AddTaskAt(time.Now(), fn).
	AddTask(fn func())

	// SetCurrentCoroutine and CurrentCoroutine implement the protocol
	// Future.Await uses to find which coroutine to suspend and later wake.
	// It is scoped around every task that represents a coroutine step: set
	// on entry, cleared on return.
	SetCurrentCoroutine(co *AsyncCoroutine)
	CurrentCoroutine() *AsyncCoroutine

	// AddCoroutine schedules the first step of co: a task that sets the
	// current-coroutine slot, resumes co, then clears the slot.
	AddCoroutine(co *AsyncCoroutine)
}

// callProducer runs fn and turns a panic into an error instead of letting
// it unwind the calling coroutine's trampoline, because a Future's error
// is delivered through its bond to a possibly different coroutine (the
// awaiter), not through the producer coroutine's own Resume return, which
// nothing reads.
//
// A kill signal is the one panic value this deliberately does not catch:
// it is not a producer error, it is this coroutine's own cancellation, and
// must keep unwinding to its trampoline like any other kill.
func callProducer[T any](fn func() T) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(killSignal); ok {
				panic(r)
			}
			err = &coroutinePanic{value: r, stack: debug.Stack()}
		}
	}()
	return fn(), nil
}

// AsyncCall packages fn as a Future[T]: it builds the future and its bonded
// Promise, then schedules a task that runs fn as the future's producer
// coroutine step.
func AsyncCall[T any](loop EventLoop, fn func() T) *Future[T] {
	fut, prom := newFuture[T](loop)
	fut.co = New(func(co *AsyncCoroutine, _ struct{}) struct{} {
		value, err := callProducer(fn)
		prom.fulfill(value, err)
		return struct{}{}
	})
	loop.AddCoroutine(fut.co)
	return fut
}

// Async returns a callable that, when invoked, calls AsyncCall with fn and
// the forwarded arguments. A convenience for turning an ordinary function
// into one that returns a Future every time it is called.
func Async[Arg, T any](loop EventLoop, fn func(Arg) T) func(Arg) *Future[T] {
	return func(arg Arg) *Future[T] {
		return AsyncCall(loop, func() T { return fn(arg) })
	}
}

// Async2 is Async for two-argument functions; spec.md's "async(+)(123, 321)"
// scenario needs it, and Go has no variadic generic parameter packs to
// collapse the arities the way the teacher's source language can.
func Async2[Arg1, Arg2, T any](loop EventLoop, fn func(Arg1, Arg2) T) func(Arg1, Arg2) *Future[T] {
	return func(a1 Arg1, a2 Arg2) *Future[T] {
		return AsyncCall(loop, func() T { return fn(a1, a2) })
	}
}

// Sleep returns a Future[struct{}] fulfilled by a task scheduled at
// now+d; awaiting it therefore resumes no earlier than d after the call.
func Sleep(loop EventLoop, d time.Duration) *Future[struct{}] {
	fut, prom := newFuture[struct{}](loop)
	fut.co = New(func(co *AsyncCoroutine, _ struct{}) struct{} {
		prom.fulfill(struct{}{}, nil)
		return struct{}{}
	})
	loop.AddTaskAt(time.Now().Add(d), func() {
		loop.SetCurrentCoroutine(fut.co)
		fut.co.Resume(struct{}{})
		loop.SetCurrentCoroutine(nil)
	})
	return fut
}
