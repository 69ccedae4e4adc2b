// Copyright(c) 2006 to 2022 ZettaScale Technology and others
// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsbr

// Step drives a Queue without a dedicated Worker goroutine: it removes
// the head request, if any, and checks it against the domain's current
// vtimes. If the request's snapshot still has unretired entries, Step
// pushes the request back onto the head — rather than blocking the
// caller, as the inner retry loop of a Worker would — and returns true,
// since there is still work pending. If the snapshot has fully retired,
// its callback runs and Step returns whether the queue is non-empty
// afterward. Step returns false on an empty queue without invoking any
// callback. The callback itself runs with q.selfSlot marked awake in
// q.domain — see tryDispatch, the dispatch primitive Step shares with
// the Worker — since it may dereference entities owned by the domain.
//
// The not-ready case occurs whenever a thread captured in the head
// request's snapshot has not yet advanced, including a slot registered
// by the very goroutine calling Step; giving up immediately rather than
// blocking is what makes Step safe to call from such a caller's own
// event loop.
//
// Step is the right tool for callers that want to interleave
// reclamation work with their own event loop instead of dedicating a
// goroutine to it; it is safe to call concurrently with a running
// Worker, though doing so is unusual.
func (q *Queue) Step() bool {
	r, ok := q.tryDequeue()
	if !ok {
		return false
	}
	if err := q.tryDispatch(r); err != nil {
		q.metrics.observeNotReady()
		q.requeueFront(r)
		return true
	}
	return q.nonEmpty()
}
