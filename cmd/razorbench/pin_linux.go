// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package main

import "golang.org/x/sys/unix"

// pinThread pins the calling OS thread to the given logical CPU. The
// goroutine must already be locked to its thread.
func pinThread(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	return unix.SchedSetaffinity(0, &set)
}
