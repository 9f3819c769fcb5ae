// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command razorbench measures per-operation latency of the exchange
// variants.
//
// For each variant it runs two passes over a fresh exchange: a read
// pass timing every Read on the reader thread while the writer
// publishes untimed, and a write pass timing every Write while the
// reader polls untimed. Raw nanosecond samples are appended to
// <variant>_success.txt, <variant>_failure.txt and <variant>_writes.txt
// in the output directory, and an aggregated JSON report is written
// alongside them.
//
// Reader and writer each run on their own locked OS thread and can be
// pinned to specific CPUs:
//
//	razorbench -iters 1000000 -out ./results -read-cpu 2 -write-cpu 4
package main

import (
	"flag"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/valyala/fastrand"

	spsc "github.com/dubvulture/rustedrazors"
	"github.com/dubvulture/rustedrazors/internal/latency"
)

// payloadSize matches the reference workload: a 1KiB opaque value,
// large enough that copying in and out of the exchange is measurable.
const payloadSize = 1024

// stopCheckInterval is how often the untimed side polls the stop
// channel; checking every iteration would perturb the timed side.
const stopCheckInterval = 64

type payload struct {
	p [payloadSize]byte
}

var variants = []struct {
	name string
	new  func(payload) (*spsc.ReadHandle[payload], *spsc.WriteHandle[payload])
}{
	{"waitfree", spsc.NewWaitFree[payload]},
	{"boundedspin", spsc.NewBoundedSpin[payload]},
	{"mutex", spsc.NewMutex[payload]},
	{"ticket", spsc.NewTicket[payload]},
}

type config struct {
	iters    int
	outDir   string
	readCPU  int
	writeCPU int
}

func main() {
	var cfg config
	flag.IntVar(&cfg.iters, "iters", 1_000_000, "timed operations per pass")
	flag.StringVar(&cfg.outDir, "out", ".", "output directory for sample files and report")
	flag.IntVar(&cfg.readCPU, "read-cpu", -1, "CPU to pin the reader thread to (-1: no pinning)")
	flag.IntVar(&cfg.writeCPU, "write-cpu", -1, "CPU to pin the writer thread to (-1: no pinning)")
	flag.Parse()

	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)),
		stumpy.L.WithLevel(logiface.LevelInformational),
	)

	if err := os.MkdirAll(cfg.outDir, 0o755); err != nil {
		logger.Err().Err(err).Log("creating output directory")
		os.Exit(1)
	}

	// One randomized payload shared by every pass; filled outside the
	// timed region.
	var value payload
	for i := range value.p {
		value.p[i] = byte(fastrand.Uint32())
	}

	reports := make([]latency.Report, 0, len(variants))
	for _, v := range variants {
		logger.Info().
			Str("variant", v.name).
			Int("iters", cfg.iters).
			Log("starting passes")

		success, failure := readPass(cfg, v.new, value)
		writes := writePass(cfg, v.new, value)

		for _, out := range []struct {
			rec  *latency.Recorder
			file string
		}{
			{success, v.name + "_success.txt"},
			{failure, v.name + "_failure.txt"},
			{writes, v.name + "_writes.txt"},
		} {
			if err := out.rec.AppendFile(cfg.outDir, out.file); err != nil {
				logger.Err().Err(err).Str("variant", v.name).Log("persisting samples")
				os.Exit(1)
			}
		}

		rep := latency.Report{
			Variant: v.name,
			Reads:   success.Summarize(),
			Misses:  failure.Summarize(),
			Writes:  writes.Summarize(),
		}
		reports = append(reports, rep)

		logger.Info().
			Str("variant", v.name).
			Int("reads", rep.Reads.Count).
			Int("misses", rep.Misses.Count).
			Int64("read_p50_ns", rep.Reads.P50Ns).
			Int64("read_p99_ns", rep.Reads.P99Ns).
			Int64("write_p50_ns", rep.Writes.P50Ns).
			Int64("write_p99_ns", rep.Writes.P99Ns).
			Log("variant done")
	}

	if err := latency.WriteReports(cfg.outDir, "report.json", reports); err != nil {
		logger.Err().Err(err).Log("writing report")
		os.Exit(1)
	}
	logger.Info().Str("dir", cfg.outDir).Log("benchmark complete")
}

// readPass times iters Read calls on the reader thread while the
// writer publishes continuously. Samples are split into successful
// deliveries and nothing-new misses.
func readPass(
	cfg config,
	newExchange func(payload) (*spsc.ReadHandle[payload], *spsc.WriteHandle[payload]),
	value payload,
) (success, failure *latency.Recorder) {
	r, w := newExchange(value)
	success = latency.NewRecorder(cfg.iters)
	failure = latency.NewRecorder(cfg.iters)

	start := newBarrier(2)
	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		bindThread(cfg.writeCPU)
		start.wait()
		for i := 0; ; i++ {
			w.Write(value)
			if i%stopCheckInterval == 0 {
				select {
				case <-stop:
					return
				default:
				}
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(stop)
		bindThread(cfg.readCPU)
		start.wait()
		for range cfg.iters {
			begin := time.Now()
			_, err := r.Read()
			elapsed := time.Since(begin)
			if err == nil {
				success.Record(elapsed)
			} else {
				failure.Record(elapsed)
			}
		}
	}()

	wg.Wait()
	return success, failure
}

// writePass times iters Write calls on the writer thread while the
// reader polls continuously.
func writePass(
	cfg config,
	newExchange func(payload) (*spsc.ReadHandle[payload], *spsc.WriteHandle[payload]),
	value payload,
) *latency.Recorder {
	r, w := newExchange(value)
	writes := latency.NewRecorder(cfg.iters)

	start := newBarrier(2)
	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		bindThread(cfg.readCPU)
		start.wait()
		for i := 0; ; i++ {
			r.Read()
			if i%stopCheckInterval == 0 {
				select {
				case <-stop:
					return
				default:
				}
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(stop)
		bindThread(cfg.writeCPU)
		start.wait()
		for range cfg.iters {
			begin := time.Now()
			w.Write(value)
			writes.Record(time.Since(begin))
		}
	}()

	wg.Wait()
	return writes
}

// bindThread locks the calling goroutine to its OS thread for the
// remainder of the pass and optionally pins that thread to a CPU.
// Pinning failure is not fatal; the pass still runs, unpinned.
func bindThread(cpu int) {
	runtime.LockOSThread()
	if cpu >= 0 {
		_ = pinThread(cpu)
	}
}

// barrier releases all waiters at once so both sides of a pass start
// together.
type barrier struct {
	ready   sync.WaitGroup
	release chan struct{}
	once    sync.Once
}

func newBarrier(n int) *barrier {
	b := &barrier{release: make(chan struct{})}
	b.ready.Add(n)
	return b
}

func (b *barrier) wait() {
	b.ready.Done()
	b.once.Do(func() {
		go func() {
			b.ready.Wait()
			close(b.release)
		}()
	})
	<-b.release
}
