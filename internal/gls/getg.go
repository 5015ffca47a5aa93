package gls

import "runtime"

// goroutineID extracts the numeric id the runtime assigns to the calling
// goroutine, by parsing the header line of runtime.Stack's output.
//
// Go gives no supported, assembly-free way to read the current goroutine's
// identity (the runtime.g pointer is a compiler intrinsic, not something
// user code can call). Parsing "goroutine N [running]:" is slower than an
// intrinsic, but it is portable across every platform this module targets
// and needs no linkname tricks or per-arch stubs.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		c := buf[i]
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
