// Copyright(c) 2006 to 2022 ZettaScale Technology and others
// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsbr

import (
	"time"

	"github.com/google/uuid"

	"code.hybscloud.com/qsbr/internal/threadstate"
)

// Callback is the domain logic invoked once a Request becomes eligible.
// It must either call Request.Requeue (possibly with a different
// callback, to run a further phase) or Request.Free before returning.
// Failing to do either leaks the Request and unbalances the queue's live
// count.
type Callback func(r *Request)

// Request pairs a callback with the vtime snapshot it must wait out
// before running. It exists from NewRequest until its callback returns
// without requeueing.
type Request struct {
	id        uuid.UUID
	next      *Request
	callback  Callback
	queue     *Queue
	arg       any
	snapshot  threadstate.Snapshot
	createdAt time.Time
}

// NewRequest allocates a Request targeting q's domain, capturing every
// thread currently awake in that domain. The request is not yet
// enqueued; call Request.Enqueue.
func NewRequest(q *Queue, cb Callback) *Request {
	r := &Request{
		id:        uuid.New(),
		callback:  cb,
		queue:     q,
		snapshot:  threadstate.Gather(q.domain, q.registry),
		createdAt: time.Now(),
	}
	q.mu.Lock()
	q.liveCount++
	q.metrics.setLive(q.liveCount)
	q.mu.Unlock()
	return r
}

// ID is a stable correlation id for this request, surfaced in trace logs.
func (r *Request) ID() uuid.UUID {
	return r.id
}

// SetArg stores an opaque value the callback chain can retrieve with Arg.
// The engine never inspects it.
func (r *Request) SetArg(arg any) {
	r.arg = arg
}

// Arg returns the value last stored with SetArg, or nil.
func (r *Request) Arg() any {
	return r.arg
}

// Enqueue appends r to its queue's tail and reports whether r became
// the new head — informational only, most callers ignore it. The
// first call on a fresh Request is the normal way to submit it for
// reclamation; a callback wanting a second phase should prefer
// Requeue, which also updates the callback.
func (r *Request) Enqueue() bool {
	return r.queue.enqueue(r)
}

// Requeue overwrites r's callback and appends it to the tail of its
// queue, for multi-phase deletion, reporting whether r became the new
// head (informational only). The original vtime snapshot is kept as-is
// — it is not refreshed.
//
// This is deliberate (spec's open question, resolved): a callback that
// reaches Requeue has typically just been dispatched because Verify
// found its snapshot empty, so the snapshot is already a trivial no-op
// for the next phase too. A callback that needs a fresh capture of
// currently-awake threads should allocate a new Request via NewRequest
// instead of calling Requeue.
func (r *Request) Requeue(cb Callback) bool {
	r.callback = cb
	return r.queue.enqueue(r)
}

// Free decrements the queue's live count and, once it drops to 1 or
// fewer, wakes any goroutine blocked in Drain or in the shutdown
// sequence. Free is the default terminator of a callback chain, and is
// itself commonly used as the callback of a no-op request (e.g. the
// shutdown sentinel).
func (r *Request) Free() {
	r.queue.free()
}
