// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// TicketLock is a fair, FIFO spin lock.
//
// Lock dispenses a ticket from a monotonic counter and spin-waits
// until nowServing reaches it; Unlock advances nowServing. Tickets are
// dispensed in increasing order with no gaps, waiters acquire the lock
// in the exact order they called Lock, and exactly one waiter is ever
// being served at a time. Unlike sync.Mutex, newcomers can never barge
// ahead of earlier waiters.
//
// TicketLock exists to characterize fairness and latency against the
// general-purpose lock; with a single reader and writer its FIFO
// property is not load-bearing for correctness. The zero value is an
// unlocked lock. Must not be copied after first use.
type TicketLock struct {
	noCopy     noCopy
	_          pad
	nextTicket atomix.Uint64
	_          pad
	nowServing atomix.Uint64
	_          pad
}

// Lock acquires the lock, spin-waiting until the caller's ticket is
// served. The dispensing fetch-add needs no ordering relative to
// serving; the acquire load pairs with Unlock's release store.
func (l *TicketLock) Lock() {
	ticket := l.nextTicket.Add(1) - 1
	sw := spin.Wait{}
	for l.nowServing.LoadAcquire() != ticket {
		sw.Once()
	}
}

// Unlock releases the lock, admitting the next ticket holder. Only the
// holder mutates nowServing, so a relaxed read of its own value
// suffices before the release store.
func (l *TicketLock) Unlock() {
	l.nowServing.StoreRelease(l.nowServing.LoadRelaxed() + 1)
}

// ticketExchange is the single-buffer exchange over a TicketLock
// instead of sync.Mutex.
//
// Unlike the mutex variant there is no lock-free fast path: every Read
// takes a ticket and re-checks the unread flag under the lock, so each
// poll exercises the lock's fairness behavior, which is what this
// variant is for.
type ticketExchange[T any] struct {
	lock   TicketLock
	value  T
	unread atomix.Bool
}

// NewTicket creates a ticket-lock exchange seeded with initial and
// returns its linked handle pair.
//
// The initial value populates the buffer but is not published: the
// unread flag starts false and the first Read before any Write returns
// ErrWouldBlock.
func NewTicket[T any](initial T) (*ReadHandle[T], *WriteHandle[T]) {
	return handles[T](&ticketExchange[T]{value: initial})
}

func (x *ticketExchange[T]) write(value T) {
	x.lock.Lock()
	x.value = value
	x.unread.StoreRelease(true)
	x.lock.Unlock()
}

func (x *ticketExchange[T]) read() (T, error) {
	x.lock.Lock()
	if !x.unread.LoadAcquire() {
		x.lock.Unlock()
		var zero T
		return zero, ErrWouldBlock
	}
	value := x.value
	x.unread.StoreRelease(false)
	x.lock.Unlock()
	return value, nil
}
