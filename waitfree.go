// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"code.hybscloud.com/atomix"
)

// cellNone is the empty sentinel for the published index.
const cellNone = -1

// waitFreeCells is sized so a free cell always exists: at most one
// cell is mid-write and at most one is published, leaving at least one
// free out of three.
const waitFreeCells = 3

// waitFree is a 3-cell pool-rotation exchange.
//
// Cells rotate between three roles: being written, published, free.
// Acquisition always claims a cell currently flagged free, and a cell
// is only re-flagged free after it has been atomically replaced as
// published (write path) or atomically consumed from published (read
// path), so the roles never overlap. Both operations complete in a
// bounded number of steps regardless of the peer's scheduling.
//
// Memory: 3 value cells plus per-cell flag overhead
type waitFree[T any] struct {
	_         pad
	published atomix.Int64 // cellNone or index into cells
	_         pad
	free      [waitFreeCells]atomix.Bool
	_         pad
	cells     [waitFreeCells]T
}

// NewWaitFree creates a wait-free exchange seeded with initial and
// returns its linked handle pair.
//
// The initial value populates the cells but is not published: the
// first Read before any Write returns ErrWouldBlock.
func NewWaitFree[T any](initial T) (*ReadHandle[T], *WriteHandle[T]) {
	x := &waitFree[T]{}
	x.published.StoreRelaxed(cellNone)
	for i := range x.cells {
		x.free[i].StoreRelaxed(true)
		x.cells[i] = initial
	}
	return handles[T](x)
}

// write publishes value. Wait-free: acquisition scans at most three
// flags and never retries.
func (x *waitFree[T]) write(value T) {
	idx := x.acquire()
	// Only this goroutine references the claimed cell until the swap
	// below makes it visible.
	x.cells[idx] = value
	prev := x.published.SwapAcqRel(int64(idx))
	if prev != cellNone {
		x.release(int(prev))
	}
}

// read consumes the published value, if any. Wait-free.
func (x *waitFree[T]) read() (T, error) {
	idx := x.published.SwapAcqRel(cellNone)
	if idx == cellNone {
		var zero T
		return zero, ErrWouldBlock
	}
	// The AcqRel swap pairs with the writer's publish swap: observing
	// idx implies observing the writer's store into cells[idx].
	value := x.cells[idx]
	x.release(int(idx))
	return value, nil
}

// acquire claims the first free cell. The pool sizing guarantees one
// exists; a failed scan means the exclusivity invariant was broken
// (two goroutines driving one handle) and must not silently corrupt a
// cell in use.
func (x *waitFree[T]) acquire() int {
	for i := range x.free {
		if x.free[i].CompareAndSwapAcqRel(true, false) {
			return i
		}
	}
	panic("spsc: no free cell; write handle driven concurrently?")
}

// release returns the cell to the pool. The release store pairs with
// the acquire claim so the next writer observes the completed read of
// prior contents.
func (x *waitFree[T]) release(idx int) {
	x.free[idx].StoreRelease(true)
}
