// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

// Reader is the consuming side of a latest-value exchange.
//
// Read is a pure poll: it never blocks, in any variant. The "nothing
// new" outcome is reported through ErrWouldBlock and is the normal
// steady-state result when the reader polls faster than the writer
// publishes.
type Reader[T any] interface {
	// Read returns the newest published value not yet delivered.
	// Returns (zero-value, ErrWouldBlock) if no value was published
	// since the last successful Read. A delivered value is marked
	// consumed; two consecutive Reads never deliver the same write.
	//
	// Must be called from at most one goroutine at a time, and never
	// from the goroutine driving the paired Writer.
	Read() (T, error)
}

// Writer is the producing side of a latest-value exchange.
//
// Write always succeeds; a previously published, not-yet-read value is
// overwritten and permanently lost. Write never blocks in the WaitFree
// variant; it may spin briefly in the BoundedSpin variant and contend
// on the lock in the Mutex and Ticket variants.
type Writer[T any] interface {
	// Write publishes value as the newest value, discarding any
	// not-yet-read predecessor. The value is copied into shared
	// storage; the caller's copy may be reused afterwards.
	//
	// Must be called from at most one goroutine at a time, and never
	// from the goroutine driving the paired Reader.
	Write(value T)
}

// exchange is the internal contract every variant implements. Handles
// are the only way to reach it, so the cell-exclusivity protocol of
// the pool-rotation variants cannot be broken from outside the
// package.
type exchange[T any] interface {
	read() (T, error)
	write(value T)
}

// ReadHandle is the reader's handle to an exchange.
//
// Exactly one ReadHandle exists per exchange. It may be handed whole
// to another goroutine but must never be used from two goroutines
// concurrently. The zero value is not usable; obtain handles from a
// factory.
type ReadHandle[T any] struct {
	noCopy noCopy
	x      exchange[T]
}

// Read implements [Reader].
func (h *ReadHandle[T]) Read() (T, error) {
	return h.x.read()
}

// WriteHandle is the writer's handle to an exchange.
//
// Exactly one WriteHandle exists per exchange. It may be handed whole
// to another goroutine but must never be used from two goroutines
// concurrently. The zero value is not usable; obtain handles from a
// factory.
type WriteHandle[T any] struct {
	noCopy noCopy
	x      exchange[T]
}

// Write implements [Writer].
func (h *WriteHandle[T]) Write(value T) {
	h.x.write(value)
}

// handles links a reader and writer handle to the same exchange state.
func handles[T any](x exchange[T]) (*ReadHandle[T], *WriteHandle[T]) {
	return &ReadHandle[T]{x: x}, &WriteHandle[T]{x: x}
}

var (
	_ Reader[int] = (*ReadHandle[int])(nil)
	_ Writer[int] = (*WriteHandle[int])(nil)
)

// noCopy triggers go vet's copylocks check on by-value handle copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// pad is cache line padding to prevent false sharing.
type pad [64]byte
