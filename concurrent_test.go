// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc_test

import (
	"errors"
	"sync"
	"testing"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"

	spsc "github.com/dubvulture/rustedrazors"
)

// raceSensitive names the variants whose synchronization runs through
// acquire/release orderings across separate atomic variables, which
// the race detector cannot track.
var raceSensitive = map[string]bool{
	"WaitFree":    true,
	"BoundedSpin": true,
	"Ticket":      true,
}

// =============================================================================
// Concurrent Tests (1 Reader, 1 Writer)
// =============================================================================

// TestExchangeConcurrentSmoke drives both handles from dedicated
// goroutines with a fixed iteration count on each side; both must
// terminate normally regardless of interleaving.
func TestExchangeConcurrentSmoke(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			if spsc.RaceEnabled && raceSensitive[v.name] {
				t.Skip("skip: variant uses cross-variable memory ordering")
			}

			const iters = 1000
			r, w := v.new(0)

			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				for range iters {
					r.Read()
				}
			}()
			go func() {
				defer wg.Done()
				for i := range iters {
					w.Write(i)
				}
			}()
			wg.Wait()
		})
	}
}

// sealed is a payload whose integrity is checkable: every fill byte
// must match the low byte of seq. A torn exchange shows up as a
// mismatched byte or a non-increasing seq.
type sealed struct {
	seq  int64
	fill [120]byte
}

func makeSealed(seq int64) sealed {
	s := sealed{seq: seq}
	for i := range s.fill {
		s.fill[i] = byte(seq)
	}
	return s
}

// sealedVariants mirrors the variants table for the integrity payload.
var sealedVariants = []struct {
	name string
	new  func(sealed) (*spsc.ReadHandle[sealed], *spsc.WriteHandle[sealed])
}{
	{"WaitFree", spsc.NewWaitFree[sealed]},
	{"BoundedSpin", spsc.NewBoundedSpin[sealed]},
	{"Mutex", spsc.NewMutex[sealed]},
	{"Ticket", spsc.NewTicket[sealed]},
}

// TestExchangeConcurrentIntegrity verifies, under sustained concurrent
// traffic, that every delivered value was written in full (no torn
// values) and that successful reads observe strictly newer writes.
func TestExchangeConcurrentIntegrity(t *testing.T) {
	for _, v := range sealedVariants {
		t.Run(v.name, func(t *testing.T) {
			if spsc.RaceEnabled && raceSensitive[v.name] {
				t.Skip("skip: variant uses cross-variable memory ordering")
			}

			const writeCount = 100000
			r, w := v.new(makeSealed(0))

			var wg sync.WaitGroup
			var writerDone atomix.Bool
			var consumerErr error
			var delivered atomix.Int64

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer writerDone.Store(true)
				for i := int64(1); i <= writeCount; i++ {
					w.Write(makeSealed(i))
				}
			}()

			wg.Add(1)
			go func() {
				defer wg.Done()
				backoff := iox.Backoff{}
				var lastSeq int64
				for {
					val, err := r.Read()
					if err != nil {
						if writerDone.Load() {
							return
						}
						backoff.Wait()
						continue
					}
					backoff.Reset()
					delivered.Add(1)
					if val.seq <= lastSeq {
						consumerErr = errors.New("seq not strictly increasing")
						return
					}
					for _, b := range val.fill {
						if b != byte(val.seq) {
							consumerErr = errors.New("torn value delivered")
							return
						}
					}
					lastSeq = val.seq
				}
			}()

			wg.Wait()

			if consumerErr != nil {
				t.Fatalf("consumer error: %v", consumerErr)
			}
			if delivered.Load() == 0 {
				t.Fatal("no value delivered across 100000 writes")
			}
		})
	}
}

// TestExchangeHandlesMoveAcrossGoroutines verifies a handle can be
// transferred whole to another goroutine and used there.
func TestExchangeHandlesMoveAcrossGoroutines(t *testing.T) {
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			r, w := v.new(0)

			done := make(chan struct{})
			go func() {
				defer close(done)
				w.Write(11)
			}()
			<-done

			got := make(chan int, 1)
			go func() {
				val, err := r.Read()
				if err != nil {
					got <- -1
					return
				}
				got <- val
			}()
			if val := <-got; val != 11 {
				t.Fatalf("Read on moved handle: got %d, want 11", val)
			}
		})
	}
}
