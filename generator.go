package aio

import "iter"

// Generate adapts co into a standard Go iter.Seq[T], usable directly with
// `for v := range Generate(co)`.
//
// The sequence is lazy — each value comes from a Resume only when the
// range loop asks for the next one — and single-pass, since co itself is:
// ranging over the same Generate(co) a second time continues from wherever
// co left off, and yields nothing once co is dead.
// Iteration ends when co reports Dead, or when co's body panics with
// EndGeneration; any other error from co is re-raised as a panic from
// inside the range loop, since iter.Seq's callback has no error return.
func Generate[T any](co *Coroutine[struct{}, T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for !co.Dead() {
			value, err := co.Resume(struct{}{})
			if err != nil {
				if p, ok := err.(*coroutinePanic); ok {
					if _, end := p.value.(EndGeneration); end {
						return
					}
				}
				panic(err)
			}
			if !yield(value) {
				return
			}
		}
	}
}
