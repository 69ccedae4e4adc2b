// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsbr

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrStartFailure is returned by Queue.Start when the queue's worker
// goroutine has already been started (this layer's form of spec §7's
// StartFailure); the call spawns nothing and the worker already running
// keeps driving the queue.
//
// AllocationFailure (spec §7's other error kind) deliberately has no
// corresponding value here: it is not recoverable at this layer, and in
// Go the idiomatic equivalent of "abort the host process" is to let the
// allocating make/append panic under genuine memory pressure rather than
// wrap it in an error that implies a caller could do something about it.
var ErrStartFailure = errors.New("qsbr: failed to start worker goroutine")

// errNotReady is returned internally by tryDispatch when a request's
// snapshot has not yet been fully retired by Verify. It is an alias of
// [iox.ErrWouldBlock]: "not ready yet, try again" is exactly the
// control-flow signal iox already models, and reusing it keeps this
// engine's internal retry plumbing consistent with the rest of the
// ecosystem's non-blocking operations.
var errNotReady = iox.ErrWouldBlock

// IsNotReady reports whether err is the "snapshot not yet empty" signal
// the dispatch path uses internally (any error matching
// iox.ErrWouldBlock). No exported function of this package returns that
// error; Step reports the not-ready case through its bool result.
func IsNotReady(err error) bool {
	return iox.IsWouldBlock(err)
}
