package aio

import (
	"errors"
	"testing"
)

// fibonacci yields successive Fibonacci numbers forever, starting at 1.
func fibonacci(co *Coroutine[struct{}, int], _ struct{}) int {
	prev, cur := 0, 1
	for {
		co.Yield(cur)
		prev, cur = cur, prev+cur
	}
}

func TestCoroutineFibonacci(t *testing.T) {
	co := New(fibonacci)

	want := []int{1, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89, 144}
	for i, w := range want {
		got, err := co.Resume(struct{}{})
		if err != nil {
			t.Fatalf("resume %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Fatalf("resume %d: got %d, want %d", i, got, w)
		}
	}
	if co.Dead() {
		t.Fatal("fibonacci coroutine must never finish on its own")
	}
}

func TestCoroutineFinishReturnsResult(t *testing.T) {
	co := New(func(co *Coroutine[int, int], arg int) int {
		doubled := co.Yield(arg * 2)
		return doubled + 1
	})

	got, err := co.Resume(3)
	if err != nil || got != 6 {
		t.Fatalf("first resume: got (%d, %v), want (6, nil)", got, err)
	}
	if co.Dead() {
		t.Fatal("coroutine parked in Yield must not be dead")
	}

	got, err = co.Resume(10)
	if err != nil || got != 11 {
		t.Fatalf("second resume: got (%d, %v), want (11, nil)", got, err)
	}
	if !co.Dead() {
		t.Fatal("coroutine that returned must be dead")
	}
}

func TestCoroutinePanicPropagatesToResume(t *testing.T) {
	boom := errors.New("boom")
	co := New(func(co *Coroutine[struct{}, struct{}], _ struct{}) struct{} {
		panic(boom)
	})

	_, err := co.Resume(struct{}{})
	if err == nil {
		t.Fatal("expected an error from a panicking coroutine")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected error to wrap %v, got %v", boom, err)
	}
	if !co.Dead() {
		t.Fatal("a panicking coroutine must be dead")
	}
}

func TestCoroutineKillUnwindsAndReportsCancellation(t *testing.T) {
	cleaned := false
	co := New(func(co *Coroutine[struct{}, struct{}], _ struct{}) struct{} {
		defer func() { cleaned = true }()
		co.Yield(struct{}{})
		t.Fatal("unreachable: Yield should have panicked on kill")
		return struct{}{}
	})

	if _, err := co.Resume(struct{}{}); err != nil {
		t.Fatalf("first resume: unexpected error: %v", err)
	}

	co.Kill()

	if !cleaned {
		t.Fatal("kill must unwind through deferred cleanups")
	}
	if !co.Dead() {
		t.Fatal("a killed coroutine must be dead")
	}
}

func TestCoroutineNestedCurrentIdentity(t *testing.T) {
	var inner *Coroutine[struct{}, string]
	outer := New(func(co *Coroutine[struct{}, string], _ struct{}) string {
		inner = New(func(ic *Coroutine[struct{}, string], _ struct{}) string {
			return "inner done"
		})
		got, err := inner.Resume(struct{}{})
		if err != nil {
			t.Errorf("nested resume failed: %v", err)
		}
		return got
	})

	got, err := outer.Resume(struct{}{})
	if err != nil {
		t.Fatalf("outer resume: unexpected error: %v", err)
	}
	if got != "inner done" {
		t.Fatalf("got %q, want %q", got, "inner done")
	}
	if inner == nil || !inner.Dead() {
		t.Fatal("inner coroutine should have finished")
	}
	if !outer.Dead() {
		t.Fatal("outer coroutine should have finished")
	}
}

func TestCoroutineResumeCurrentIsFatal(t *testing.T) {
	rec := &recordingLogger{}
	prev := assertionLogger
	SetAssertionLogger(rec)
	defer SetAssertionLogger(prev)

	var co *Coroutine[struct{}, struct{}]
	co = New(func(c *Coroutine[struct{}, struct{}], _ struct{}) struct{} {
		defer func() { recover() }()
		co.Resume(struct{}{})
		return struct{}{}
	})

	co.Resume(struct{}{})

	if len(rec.messages) == 0 {
		t.Fatal("expected a fatal assertion when a coroutine resumes itself")
	}
}
