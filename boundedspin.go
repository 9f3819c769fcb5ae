// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"runtime"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// boundedSpinCells relaxes the wait-free sizing: both cells can be
// legitimately occupied at once (one published, one still being read),
// so the writer may have to wait for the reader to free one.
const boundedSpinCells = 2

// acquireSpinLimit is the number of busy retries before the writer
// starts yielding its scheduler slot between attempts.
const acquireSpinLimit = 20

// boundedSpin is a 2-cell pool-rotation exchange.
//
// The read path and the publish protocol are identical to the
// wait-free variant; only acquisition differs. With two cells a free
// cell is not guaranteed on the first scan, so write retries until the
// reader frees one, trading the writer's wait-freedom for a smaller
// footprint. Read remains wait-free.
type boundedSpin[T any] struct {
	_         pad
	published atomix.Int64 // cellNone or index into cells
	_         pad
	free      [boundedSpinCells]atomix.Bool
	_         pad
	cells     [boundedSpinCells]T
}

// NewBoundedSpin creates a bounded-spin exchange seeded with initial
// and returns its linked handle pair.
//
// The initial value populates the cells but is not published: the
// first Read before any Write returns ErrWouldBlock.
func NewBoundedSpin[T any](initial T) (*ReadHandle[T], *WriteHandle[T]) {
	x := &boundedSpin[T]{}
	x.published.StoreRelaxed(cellNone)
	for i := range x.cells {
		x.free[i].StoreRelaxed(true)
		x.cells[i] = initial
	}
	return handles[T](x)
}

// write publishes value, spinning until a cell frees up. Writer
// latency depends on reader progress.
func (x *boundedSpin[T]) write(value T) {
	var idx int
	sw := spin.Wait{}
	for i := 0; ; i++ {
		if idx = x.acquire(); idx != cellNone {
			break
		}
		if i < acquireSpinLimit {
			sw.Once()
		} else {
			runtime.Gosched()
		}
	}
	x.cells[idx] = value
	prev := x.published.SwapAcqRel(int64(idx))
	if prev != cellNone {
		x.release(int(prev))
	}
}

// read consumes the published value, if any. Wait-free.
func (x *boundedSpin[T]) read() (T, error) {
	idx := x.published.SwapAcqRel(cellNone)
	if idx == cellNone {
		var zero T
		return zero, ErrWouldBlock
	}
	value := x.cells[idx]
	x.release(int(idx))
	return value, nil
}

// acquire claims the first free cell, or reports cellNone when both
// are occupied.
func (x *boundedSpin[T]) acquire() int {
	for i := range x.free {
		if x.free[i].CompareAndSwapAcqRel(true, false) {
			return i
		}
	}
	return cellNone
}

func (x *boundedSpin[T]) release(idx int) {
	x.free[idx].StoreRelease(true)
}
