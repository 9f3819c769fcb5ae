// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package main

import "errors"

// pinThread reports that CPU pinning is unsupported on this platform.
func pinThread(cpu int) error {
	return errors.New("razorbench: CPU pinning not supported on this platform")
}
