package aio

// Future is a single-assignment asynchronous value. It owns the producer
// coroutine that computes its result and, through its bonded Promise,
// the slot that result is written into and the continuation that wakes
// whoever is awaiting it.
//
// A Future must be awaited exactly once; see Await.
type Future[T any] struct {
	bond Bond[T]
	loop EventLoop
	co   *AsyncCoroutine

	awaited bool
}

// Promise is the write-side handle Bond-peered to a Future[T]. AsyncCall
// constructs a Promise alongside its Future and closes over it in the
// producer coroutine's body, which calls fulfill exactly once to hand the
// result back across the bond.
type Promise[T any] struct {
	bond Bond[T]
}

// newFuture allocates a Future and its bonded Promise. The caller still
// has to set Future.co before scheduling it.
func newFuture[T any](loop EventLoop) (*Future[T], *Promise[T]) {
	a, b := bind[T]()
	return &Future[T]{bond: a, loop: loop}, &Promise[T]{bond: b}
}

// fulfill writes the producer's result into the shared cell and, if a
// consumer is already waiting, invokes the continuation it installed.
// Per spec.md §5 the library never switches directly into the consumer
// here — the continuation's job is to schedule a fresh task, so the wakeup
// happens on a later top-level iteration of the event loop.
func (p *Promise[T]) fulfill(value T, err error) {
	state := p.bond.state
	if state.produced {
		assertionFailed("promise fulfilled more than once")
	}
	state.value, state.err, state.produced = value, err, true
	if state.continuation != nil {
		cont := state.continuation
		state.continuation = nil
		cont()
	}
}

// Await suspends the calling coroutine until f's producer has run, then
// returns its result.
//
// Preconditions, both fatal assertions per spec.md §7: the call must be
// made from inside a coroutine the event loop knows about (CurrentCoroutine
// non-nil), and f must not have been awaited before.
func (f *Future[T]) Await() (T, error) {
	consumer := f.loop.CurrentCoroutine()
	if consumer == nil {
		assertionFailed("Await called outside a coroutine known to the event loop")
	}
	if f.awaited {
		assertionFailed(ErrAlreadyAwaited.Error())
	}
	f.awaited = true

	state := f.bond.state
	if !state.produced {
		loop := f.loop
		state.continuation = func() {
			loop.AddTask(func() {
				loop.SetCurrentCoroutine(consumer)
				consumer.Resume(struct{}{})
				loop.SetCurrentCoroutine(nil)
			})
		}
		consumer.Yield(struct{}{})
	}

	return state.value, state.err
}

// Then schedules, via f's event loop, a new Future whose body awaits f,
// feeds its result into fn, and awaits the Future fn returns. fn's Future
// is therefore awaited by a coroutine that itself is an ordinary consumer
// of f, so chains compose without any special-casing.
func Then[T, U any](f *Future[T], fn func(T) *Future[U]) *Future[U] {
	loop := f.loop
	chained, prom := newFuture[U](loop)
	chained.co = New(func(co *AsyncCoroutine, _ struct{}) struct{} {
		value, err := f.Await()
		if err != nil {
			var zero U
			prom.fulfill(zero, err)
			return struct{}{}
		}
		next, err := callProducer(func() *Future[U] { return fn(value) })
		if err != nil {
			var zero U
			prom.fulfill(zero, err)
			return struct{}{}
		}
		inner, ierr := next.Await()
		prom.fulfill(inner, ierr)
		return struct{}{}
	})
	loop.AddCoroutine(chained.co)
	return chained
}
