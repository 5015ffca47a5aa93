package aio

import (
	"errors"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
)

// Sentinel messages for the programming-error preconditions Future and
// Promise enforce. spec.md classes double-await and "never awaited a valid
// future" as fatal precondition violations, not recoverable errors, so
// these are never returned to a caller — they are the text assertionFailed
// reports, kept as values so tests can match on them.
var (
	// ErrAlreadyAwaited is reported when Await is called a second time on
	// the same Future.
	ErrAlreadyAwaited = errors.New("aio: future has already been awaited")

	// ErrNotAwaited documents spec.md's "destructor of a valid,
	// never-awaited future is a programming error": Go has no destructors,
	// so nothing in this package can detect or enforce this at the moment
	// a Future becomes unreachable. It is kept here only so the precondition
	// is named and discoverable, not because anything raises it; see
	// DESIGN.md for the reasoning.
	ErrNotAwaited = errors.New("aio: future was never awaited")
)

// AssertionLogger receives fatal precondition-violation reports before the
// process aborts. spec.md treats assertion-failure logging as an external
// collaborator rather than a feature of the library; this interface is the
// seam through which that collaborator is plugged in. The zero value of
// this package uses a production zap.Logger.
type AssertionLogger interface {
	Fatal(msg string, fields ...zap.Field)
}

var assertionLogger AssertionLogger = defaultAssertionLogger()

func defaultAssertionLogger() AssertionLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		// zap.NewProduction only fails to build its output sinks; fall
		// back to a logger that writes to standard output so a fatal assertion is
		// never silently lost.
		logger = zap.NewExample()
	}
	return logger
}

// SetAssertionLogger overrides the logger used to report fatal precondition
// violations. Intended for tests that want to observe, rather than actually
// abort the process for, an assertion failure.
func SetAssertionLogger(l AssertionLogger) {
	assertionLogger = l
}

// assertionFailed reports a violated precondition and aborts the process.
// Every caller of this function documents, in its own doc comment, which
// precondition it enforces; see the Coroutine, Future and EventLoop method
// docs.
func assertionFailed(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	assertionLogger.Fatal(msg,
		zap.String("stack", string(debug.Stack())),
	)
	// Fatal aborts the process. If a substituted logger does not (as in
	// tests), panicking here still stops the offending goroutine instead
	// of returning to code that assumed the assertion held.
	panic("aio: assertion failed: " + msg)
}

// killSignal is the sentinel panic value delivered to a coroutine body at
// its next Yield after Kill is called. It unwinds the coroutine's stack
// like any other panic, running deferred cleanups along the way, and must
// reach the coroutine's trampoline uncaught.
//
// Go has no destructor-based mechanism to force a re-panic when a broad
// recover() swallows this value the way spec.md's CoroutineKiller does in
// its source language, and no portable way to add one without misusing
// runtime finalizers (which run asynchronously, too late to matter here).
// A coroutine body that does `recover()` without checking IsKillSignal and
// re-panicking will swallow its own cancellation; this is a documented
// limitation shared by every goroutine-based coroutine library in this
// space, including this module's own model for the primitive.
type killSignal struct{}

func (killSignal) Error() string { return "aio: coroutine killed" }

// IsKillSignal reports whether a value recovered from a panic inside a
// coroutine body is the cancellation sentinel delivered by Kill. Code that
// intercepts panics with a broad recover() must check this and re-panic
// when it is true, or risk swallowing a kill request.
func IsKillSignal(v any) bool {
	_, ok := v.(killSignal)
	return ok
}

// EndGeneration is the sentinel panic value a coroutine body may raise (via
// panic(aio.EndGeneration{})) to signal, to a Generator built from it, that
// iteration has ended, as distinct from a normal return via FINISH.
type EndGeneration struct{}

func (EndGeneration) Error() string { return "aio: end of generation" }
