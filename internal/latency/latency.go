// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package latency collects per-operation latency samples and persists
// them for offline analysis.
//
// Raw samples are appended to flat text files, one decimal nanosecond
// value per line, so existing plotting tooling can consume them
// directly. Aggregated summaries are serialized as JSON.
package latency

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// Recorder accumulates nanosecond samples for one operation kind.
// Not safe for concurrent use; each benchmark thread owns its own.
type Recorder struct {
	samples []int64
}

// NewRecorder creates a recorder with capacity preallocated, keeping
// appends off the timed path.
func NewRecorder(capacity int) *Recorder {
	return &Recorder{samples: make([]int64, 0, capacity)}
}

// Record appends one sample.
func (r *Recorder) Record(d time.Duration) {
	r.samples = append(r.samples, d.Nanoseconds())
}

// Len returns the number of recorded samples.
func (r *Recorder) Len() int {
	return len(r.samples)
}

// AppendFile appends the raw samples to name, one decimal nanosecond
// value per line, creating the file if needed.
func (r *Recorder) AppendFile(dir, name string) error {
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("latency: open %s: %w", name, err)
	}
	w := bufio.NewWriter(f)
	for _, ns := range r.samples {
		if _, err := fmt.Fprintln(w, ns); err != nil {
			f.Close()
			return fmt.Errorf("latency: write %s: %w", name, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("latency: flush %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("latency: close %s: %w", name, err)
	}
	return nil
}

// Summary is an aggregate view of one recorder's samples.
type Summary struct {
	Count  int     `json:"count"`
	MinNs  int64   `json:"min_ns"`
	P50Ns  int64   `json:"p50_ns"`
	P99Ns  int64   `json:"p99_ns"`
	MaxNs  int64   `json:"max_ns"`
	MeanNs float64 `json:"mean_ns"`
}

// Summarize computes the summary of the recorded samples. The zero
// Summary is returned for an empty recorder.
func (r *Recorder) Summarize() Summary {
	if len(r.samples) == 0 {
		return Summary{}
	}
	sorted := slices.Clone(r.samples)
	slices.Sort(sorted)

	var total int64
	for _, ns := range sorted {
		total += ns
	}
	return Summary{
		Count:  len(sorted),
		MinNs:  sorted[0],
		P50Ns:  sorted[percentileIndex(len(sorted), 50)],
		P99Ns:  sorted[percentileIndex(len(sorted), 99)],
		MaxNs:  sorted[len(sorted)-1],
		MeanNs: float64(total) / float64(len(sorted)),
	}
}

// percentileIndex maps a percentile to a (clamped) index into a sorted
// sample slice of length n.
func percentileIndex(n, pct int) int {
	idx := n * pct / 100
	if idx >= n {
		idx = n - 1
	}
	return idx
}
