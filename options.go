// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

// Options configures exchange creation and variant selection.
type Options struct {
	variant variant
}

type variant uint8

const (
	variantWaitFree variant = iota
	variantBoundedSpin
	variantMutex
	variantTicket
)

// Builder creates exchanges with fluent configuration.
//
// The builder selects a concrete variant at construction time; the
// returned handle pair is identical in contract across variants.
//
// Example:
//
//	// Wait-free (default)
//	r, w := spsc.Build[Event](spsc.New(), Event{})
//
//	// Smaller footprint, writer may spin
//	r, w := spsc.Build[Event](spsc.New().BoundedSpin(), Event{})
type Builder struct {
	opts Options
}

// New creates an exchange builder. The default variant is WaitFree.
func New() *Builder {
	return &Builder{}
}

// WaitFree selects the 3-cell pool-rotation variant (the default).
// Both Read and Write are wait-free.
func (b *Builder) WaitFree() *Builder {
	b.opts.variant = variantWaitFree
	return b
}

// BoundedSpin selects the 2-cell pool-rotation variant. Read stays
// wait-free; Write spins, then yields, until the reader frees a cell.
func (b *Builder) BoundedSpin() *Builder {
	b.opts.variant = variantBoundedSpin
	return b
}

// Mutex selects the single-buffer variant over sync.Mutex with a
// lock-free nothing-new fast path on Read.
func (b *Builder) Mutex() *Builder {
	b.opts.variant = variantMutex
	return b
}

// Ticket selects the single-buffer variant over the fair [TicketLock];
// every Read exercises the lock.
func (b *Builder) Ticket() *Builder {
	b.opts.variant = variantTicket
	return b
}

// Build creates the configured exchange seeded with initial and
// returns its linked handle pair.
//
// Variant selection:
//
//	WaitFree (default) → 3-cell pool rotation, wait-free both sides
//	BoundedSpin        → 2-cell pool rotation, writer spins
//	Mutex              → single buffer + sync.Mutex
//	Ticket             → single buffer + TicketLock
func Build[T any](b *Builder, initial T) (*ReadHandle[T], *WriteHandle[T]) {
	switch b.opts.variant {
	case variantBoundedSpin:
		return NewBoundedSpin[T](initial)
	case variantMutex:
		return NewMutex[T](initial)
	case variantTicket:
		return NewTicket[T](initial)
	default:
		return NewWaitFree[T](initial)
	}
}
