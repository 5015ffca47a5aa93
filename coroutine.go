package aio

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/go-aio/aio/internal/gls"
)

type coroutineState int32

const (
	stateRunning coroutineState = iota
	stateFinished
	stateError
)

// coroutineSend is what Resume and Kill hand across the argument channel.
// It doubles as the cancellation signal: a coroutine parked in Yield can't
// tell "here's your next argument" from "you've been killed" without an
// explicit tag, since Arg is caller-chosen and may not have a usable zero
// value to mean "killed".
type coroutineSend[Arg any] struct {
	value Arg
	kill  bool
}

// coroutineReply is what Yield, and the trampoline's final return, hand
// back across the result channel.
type coroutineReply[Ret any] struct {
	value Ret
	err   error
}

// coroutinePanic wraps a user panic value observed inside a coroutine body
// so it can be handed back to the matching Resume instead of re-panicking
// on a goroutine the caller doesn't control the stack of.
type coroutinePanic struct {
	value any
	stack []byte
}

func (p *coroutinePanic) Error() string {
	return fmt.Sprintf("aio: coroutine panicked: %v", p.value)
}

// Unwrap lets errors.As reach the original panic value when it was itself
// an error.
func (p *coroutinePanic) Unwrap() error {
	if err, ok := p.value.(error); ok {
		return err
	}
	return nil
}

// Coroutine is a stackful coroutine: a dedicated goroutine that exchanges
// exactly one value in each direction with whoever resumes it, and can be
// cancelled from outside.
//
// Arg is the type sent by Resume and received by Yield; Ret is the type
// sent by Yield (and by the body's return) and received by Resume.
// Instantiate either type parameter with struct{} to model an
// argument-less or result-less coroutine.
//
// A Coroutine value must not be copied; use the *Coroutine New returns. Its
// dedicated goroutine stores that pointer in its goroutine-local slot as soon
// as it starts, and a copy would not compare equal to it, so the "is this the
// current coroutine?" checks in Resume, Yield and Kill would misjudge it.
type Coroutine[Arg, Ret any] struct {
	body func(co *Coroutine[Arg, Ret], arg Arg) Ret

	argCh chan coroutineSend[Arg]
	retCh chan coroutineReply[Ret]

	state atomic.Int32
}

// New creates a coroutine bound to body. body receives the coroutine itself
// (so it can call Yield) and the first Resume argument, and its return
// value is delivered to the Resume call that observes the coroutine finish.
//
// The coroutine's dedicated goroutine is started immediately but does no
// work until the first Resume.
func New[Arg, Ret any](body func(co *Coroutine[Arg, Ret], arg Arg) Ret) *Coroutine[Arg, Ret] {
	if body == nil {
		panic("aio: New called with a nil body")
	}
	co := &Coroutine[Arg, Ret]{
		body:  body,
		argCh: make(chan coroutineSend[Arg]),
		retCh: make(chan coroutineReply[Ret]),
	}
	go co.trampoline()
	return co
}

// current returns the coroutine, if any, whose dedicated goroutine is
// executing the calling code.
func current[Arg, Ret any]() *Coroutine[Arg, Ret] {
	self, _ := gls.Current().Load().(*Coroutine[Arg, Ret])
	return self
}

func (co *Coroutine[Arg, Ret]) trampoline() {
	id := gls.Current()
	id.Store(co)
	defer id.Clear()

	send := <-co.argCh

	var (
		ret Ret
		err error
	)
	if send.kill {
		err = killSignal{}
	} else {
		err = co.runBody(send.value, &ret)
	}

	if err != nil {
		co.state.Store(int32(stateError))
	} else {
		co.state.Store(int32(stateFinished))
	}
	co.retCh <- coroutineReply[Ret]{value: ret, err: err}
}

func (co *Coroutine[Arg, Ret]) runBody(arg Arg, ret *Ret) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(killSignal); ok {
				err = killSignal{}
			} else {
				err = &coroutinePanic{value: r, stack: debug.Stack()}
			}
		}
	}()
	*ret = co.body(co, arg)
	return nil
}

// Resume transfers control into co with arg as either the coroutine's
// first argument or the value returned from its pending Yield, and blocks
// until co next yields or finishes.
//
// It is a programming error, reported through a fatal assertion, to Resume
// co from inside co itself, or to Resume a dead coroutine (Dead() true).
func (co *Coroutine[Arg, Ret]) Resume(arg Arg) (Ret, error) {
	if current[Arg, Ret]() == co {
		assertionFailed("attempt to resume the currently running coroutine")
	}
	if co.Dead() {
		assertionFailed("attempt to resume a dead coroutine")
	}

	co.argCh <- coroutineSend[Arg]{value: arg}
	reply := <-co.retCh
	return reply.value, reply.err
}

// Yield suspends co, handing ret to whoever is resuming it, and returns
// once resumed with the argument passed to that Resume.
//
// If co has been killed since it last ran, Yield instead panics with the
// library's cancellation sentinel; recovering it without re-panicking (see
// IsKillSignal) swallows the cancellation.
//
// It is a programming error, reported through a fatal assertion, to call
// Yield on any coroutine other than the one currently executing.
func (co *Coroutine[Arg, Ret]) Yield(ret Ret) Arg {
	if current[Arg, Ret]() != co {
		assertionFailed("attempt to yield a coroutine that is not currently running")
	}

	co.retCh <- coroutineReply[Ret]{value: ret}
	send := <-co.argCh
	if send.kill {
		panic(killSignal{})
	}
	return send.value
}

// Dead reports whether co has finished, either normally or with an error
// (including cancellation).
func (co *Coroutine[Arg, Ret]) Dead() bool {
	return coroutineState(co.state.Load()) != stateRunning
}

// Kill cancels a suspended co: its next Yield panics with the cancellation
// sentinel, unwinding co's stack through any deferred cleanups, and Kill
// does not return until that unwind reaches the trampoline.
//
// It is a programming error, reported through a fatal assertion, to Kill
// co from inside co itself, or to Kill a dead coroutine.
func (co *Coroutine[Arg, Ret]) Kill() {
	if current[Arg, Ret]() == co {
		assertionFailed("attempt to kill the currently running coroutine")
	}
	if co.Dead() {
		assertionFailed("attempt to kill a dead coroutine")
	}

	co.argCh <- coroutineSend[Arg]{kill: true}
	<-co.retCh
}
