// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"sync"

	"code.hybscloud.com/atomix"
)

// mutexExchange is a single buffer behind sync.Mutex plus an atomic
// unread flag.
//
// The flag tracks whether the buffered value has been delivered since
// its last write, and lets the reader's fast path skip the lock
// entirely: with nothing unread, Read never contends, so lock traffic
// is bounded by the writer's own usage pattern.
type mutexExchange[T any] struct {
	mu     sync.Mutex
	value  T
	unread atomix.Bool
}

// NewMutex creates a lock-based exchange seeded with initial and
// returns its linked handle pair.
//
// The initial value populates the buffer but is not published: the
// unread flag starts false and the first Read before any Write returns
// ErrWouldBlock.
func NewMutex[T any](initial T) (*ReadHandle[T], *WriteHandle[T]) {
	return handles[T](&mutexExchange[T]{value: initial})
}

func (x *mutexExchange[T]) write(value T) {
	x.mu.Lock()
	x.value = value
	x.unread.StoreRelease(true)
	x.mu.Unlock()
}

func (x *mutexExchange[T]) read() (T, error) {
	// Fast path: nothing unread, no lock taken.
	if !x.unread.LoadAcquire() {
		var zero T
		return zero, ErrWouldBlock
	}
	x.mu.Lock()
	value := x.value
	x.unread.StoreRelease(false)
	x.mu.Unlock()
	return value, nil
}
