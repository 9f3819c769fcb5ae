// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import "testing"

// checkPartition asserts the wait-free pool invariant between
// operations: free cells and the published cell are disjoint and,
// with no write in flight, cover the whole pool.
func checkPartition(t *testing.T, x *waitFree[int]) {
	t.Helper()

	published := x.published.Load()
	covered := 0
	for i := range x.cells {
		free := x.free[i].Load()
		if free {
			covered++
		}
		if published == int64(i) {
			if free {
				t.Fatalf("cell %d both free and published", i)
			}
			covered++
		}
	}
	if covered != waitFreeCells {
		t.Fatalf("cells covered = %d, want %d (published=%d)", covered, waitFreeCells, published)
	}
}

// TestWaitFreePoolPartition steps the exchange through its states and
// checks the role partition at every quiescent point.
func TestWaitFreePoolPartition(t *testing.T) {
	r, w := NewWaitFree[int](0)
	x := r.x.(*waitFree[int])

	checkPartition(t, x)

	for i := range 10 {
		w.Write(i)
		checkPartition(t, x)
		w.Write(i * 2) // overwrite, recycling the published cell
		checkPartition(t, x)
		if _, err := r.Read(); err != nil {
			t.Fatalf("Read(%d): %v", i, err)
		}
		checkPartition(t, x)
		if _, err := r.Read(); err == nil {
			t.Fatalf("Read(%d) on empty: expected ErrWouldBlock", i)
		}
		checkPartition(t, x)
	}
}

// TestBoundedSpinPoolPartition mirrors the partition check for the
// 2-cell pool.
func TestBoundedSpinPoolPartition(t *testing.T) {
	r, w := NewBoundedSpin[int](0)
	x := r.x.(*boundedSpin[int])

	verify := func() {
		t.Helper()
		published := x.published.Load()
		covered := 0
		for i := range x.cells {
			free := x.free[i].Load()
			if free {
				covered++
			}
			if published == int64(i) {
				if free {
					t.Fatalf("cell %d both free and published", i)
				}
				covered++
			}
		}
		if covered != boundedSpinCells {
			t.Fatalf("cells covered = %d, want %d (published=%d)", covered, boundedSpinCells, published)
		}
	}

	verify()
	for i := range 10 {
		w.Write(i)
		verify()
		w.Write(i * 2)
		verify()
		if _, err := r.Read(); err != nil {
			t.Fatalf("Read(%d): %v", i, err)
		}
		verify()
	}
}
