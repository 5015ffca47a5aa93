package aio

// WaitAll returns a Future that completes once every future in fs has
// completed, with results in fs order, or with the first error observed in
// await order.
//
// WaitAll runs as an ordinary coroutine that Awaits each future in fs in
// turn. This looks sequential, but it isn't a serialization of work: every
// future in fs was already scheduled as its own independent coroutine step
// before WaitAll ever ran, so by the time its body reaches f.Await() for
// an input that isn't ready yet, that Await's Yield hands control back to
// the event loop, which keeps driving every other pending producer
// (including the rest of fs) until this coroutine is woken again. The
// producers' wall-clock progress is therefore concurrent even though this
// function visits them one at a time.
//
// A real worker-pool fan-in (golang.org/x/sync/errgroup, a WaitGroup) is
// deliberately not used here: the only goroutine driving this EventLoop is
// the one running its Run loop, and that goroutine is synchronously
// blocked inside Resume for as long as the current coroutine step hasn't
// yielded. Blocking that same goroutine a second time on a WaitGroup or
// channel recv — rather than yielding through the coroutine itself — would
// deadlock, because nothing would be left to advance the very tasks being
// waited on. Yield is the event loop's only sound suspension point; that is
// exactly what this function uses.
func WaitAll[T any](loop EventLoop, fs []*Future[T]) *Future[[]T] {
	agg, prom := newFuture[[]T](loop)
	agg.co = New(func(co *AsyncCoroutine, _ struct{}) struct{} {
		results := make([]T, len(fs))
		for i, f := range fs {
			value, err := f.Await()
			if err != nil {
				prom.fulfill(nil, err)
				return struct{}{}
			}
			results[i] = value
		}
		prom.fulfill(results, nil)
		return struct{}{}
	})
	loop.AddCoroutine(agg.co)
	return agg
}

// WaitAny returns a Future that completes with the value of the first
// future in fs order that completes without error. It awaits the futures one
// at a time, in fs order, and stops at the first success; the futures after
// it are not awaited. If every future fails, it completes with the last
// error observed. An empty fs completes with the zero value and a nil error.
// See WaitAll for why this awaits sequentially rather than fanning out
// across goroutines.
func WaitAny[T any](loop EventLoop, fs []*Future[T]) *Future[T] {
	agg, prom := newFuture[T](loop)
	agg.co = New(func(co *AsyncCoroutine, _ struct{}) struct{} {
		var zero T
		if len(fs) == 0 {
			prom.fulfill(zero, nil)
			return struct{}{}
		}
		value, err := fs[0].Await()
		for _, f := range fs[1:] {
			if err == nil {
				break
			}
			value, err = f.Await()
		}
		prom.fulfill(value, err)
		return struct{}{}
	})
	loop.AddCoroutine(agg.co)
	return agg
}
