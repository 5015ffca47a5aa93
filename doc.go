// Package aio implements a small asynchronous I/O core: a stackful
// coroutine primitive, a single-assignment Future/Promise pair bonded
// together, and a cooperative single-threaded event loop that schedules
// due-timed tasks and drives coroutines through it.
//
// A Coroutine is a dedicated goroutine parked on a channel handshake; New
// creates one, Resume transfers control in, and the body calls Yield to
// hand control back. AsyncCall schedules a function as a Future on an
// EventLoop; Future.Await suspends the calling coroutine until the result
// is ready. SynchronousEventLoop is the concrete, single-threaded loop
// that drives everything.
package aio
