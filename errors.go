// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import "code.hybscloud.com/iox"

// ErrWouldBlock indicates Read found nothing new.
//
// It is returned when no value has been published since the reader's
// last successful Read, or when nothing has been published at all.
// This is a control flow signal, not a failure: the expected
// steady-state outcome of polling faster than the writer publishes.
// The caller should poll again later rather than propagating the
// error.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
//
// Example:
//
//	v, err := r.Read()
//	if spsc.IsWouldBlock(err) {
//	    continue // nothing new, keep the previous value
//	}
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates a nothing-new result.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil or ErrWouldBlock.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
