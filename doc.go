// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package spsc provides single-producer single-consumer latest-value
// exchange primitives.
//
// An exchange connects exactly one writer goroutine to exactly one
// reader goroutine. The writer repeatedly publishes a value; the reader
// polls for the most recently published value and observes "nothing
// new" when no value was published since its last successful read.
// Unlike a queue, no history is kept: a value overwritten before being
// read is permanently lost (last-write-wins, no backpressure).
//
// # Quick Start
//
//	r, w := spsc.NewWaitFree[int](0)
//
//	// Writer goroutine
//	w.Write(42)
//
//	// Reader goroutine
//	v, err := r.Read()
//	if spsc.IsWouldBlock(err) {
//	    // Nothing published since the last read.
//	}
//
// Builder API selects a variant at construction time:
//
//	r, w := spsc.Build[Event](spsc.New().BoundedSpin(), Event{})  // 2-cell pool
//	r, w := spsc.Build[Event](spsc.New(), Event{})                // wait-free (default)
//
// # Variants
//
// Four variants share identical external semantics and trade off
// wait-freedom, fairness, and simplicity:
//
//   - WaitFree: 3-cell pool rotation. Both Read and Write complete in a
//     bounded number of steps regardless of the peer's scheduling.
//   - BoundedSpin: 2-cell pool rotation. Read stays wait-free; Write
//     busy-retries cell acquisition and yields the scheduler slot after
//     a spin threshold, so its latency depends on reader progress.
//   - Mutex: one buffer behind sync.Mutex plus an atomic unread flag.
//     Read skips the lock entirely when nothing is unread.
//   - Ticket: the same single-buffer design over a hand-rolled fair
//     [TicketLock], kept as a separately testable component because its
//     FIFO fairness is the point of the variant.
//
// # Pool Rotation
//
// The pool-rotation variants keep a fixed array of value cells, one
// atomic free flag per cell, and an atomic published index (-1 when
// empty). At every instant the cells partition into at most one cell
// being written, at most one published cell, and free cells; no two
// roles ever claim the same cell. Write claims a free cell, stores the
// value, exchanges the published index to the claimed cell, then frees
// the previously published cell. Read exchanges the published index to
// -1, copies the captured cell out, and frees it. Three cells make a
// free cell always available to the writer without retrying; two cells
// shrink the footprint at the cost of a possible brief writer stall.
//
// # Handles
//
// Each factory returns one [ReadHandle] and one [WriteHandle] sharing
// the exchange state. A handle must be driven by a single goroutine at
// a time: it may be handed whole to another goroutine, but must never
// be used from two goroutines concurrently, and the reader role and
// writer role must stay on separate goroutines. Violating these
// constraints causes undefined behavior including data corruption.
// The shared state is reclaimed by the garbage collector once both
// handles are unreachable.
//
// # Element Types
//
// Values are copied in and out of shared storage by assignment, so the
// writer's next overwrite cannot race with a value the reader already
// holds. T should therefore be a self-contained value: if T contains
// pointers, slices, or maps, reader and writer end up sharing the
// referenced memory and the exchange cannot protect it.
//
// # Nothing-New Results
//
// Read returns [ErrWouldBlock] when no value was published since the
// last successful read (or nothing was ever published). This is a
// control flow signal, not a failure; classify it with [IsWouldBlock]
// or [IsSemantic] rather than propagating it as an error. The initial
// value passed to a factory seeds the cells but does not count as
// published: the first Read before any Write reports nothing-new in
// every variant.
//
// # Failure Model
//
// Write always succeeds and Read never blocks; there are no other
// error conditions. Go locks do not poison: a goroutine that panics
// never leaves the exchange silently producing wrong data, the panic
// propagates and takes the run down, which is the required surfacing
// for abnormal termination in the lock-based variants.
//
// # Race Detection
//
// The pool-rotation variants establish happens-before through
// acquire/release orderings across separate atomic variables (free
// flags and the published index). Go's race detector cannot observe
// such pairings and reports false positives; concurrent tests for
// those variants are skipped when [RaceEnabled] is true. The
// lock-based variants are fully race-detector clean.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for the semantic
// nothing-new error, [code.hybscloud.com/atomix] for atomic primitives
// with explicit memory ordering, and [code.hybscloud.com/spin] for CPU
// pause instructions in spin loops.
package spsc
