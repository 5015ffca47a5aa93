package aio

import "fmt"

func ExampleCoroutine_fibonacci() {
	co := New(fibonacci)
	for i := 0; i < 8; i++ {
		v, _ := co.Resume(struct{}{})
		fmt.Print(v, " ")
	}
	// Output: 1 1 2 3 5 8 13 21
}

func ExampleAsyncCall() {
	CreateAndRun(func(loop *SynchronousEventLoop) {
		add := Async2(loop, func(a, b int) int { return a + b })
		sum, _ := add(123, 321).Await()
		fmt.Println(sum)
	})
	// Output: 444
}

func ExampleCoroutine_kill() {
	acquired := false
	co := New(func(co *Coroutine[struct{}, struct{}], _ struct{}) struct{} {
		acquired = true
		defer func() {
			fmt.Println("resource released")
			acquired = false
		}()
		for {
			co.Yield(struct{}{})
		}
	})

	co.Resume(struct{}{})
	fmt.Println("acquired:", acquired)
	co.Kill()
	fmt.Println("acquired:", acquired)
	// Output:
	// acquired: true
	// resource released
	// acquired: false
}
