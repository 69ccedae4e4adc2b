// Copyright(c) 2006 to 2022 ZettaScale Technology and others
// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsbr

import (
	"sync"
	"time"
)

// Queue is a FIFO of deferred reclamation requests gated on thread
// progress within a single Domain. Requests are appended by any number
// of goroutines and retired either by a dedicated Worker goroutine
// (Queue.Start) or by repeatedly calling Queue.Step from caller-owned
// goroutines. A Queue is safe for concurrent use.
//
// The zero value is not usable; construct one with NewQueue.
type Queue struct {
	id string

	mu   sync.Mutex
	cond *sync.Cond

	head, tail *Request
	liveCount  int
	terminate  bool

	domain   *Domain
	registry *Registry
	// selfSlot is this Queue's own registration, acquired once in
	// NewQueue. The Worker (and Step, via tryDispatch) straddle it
	// around the lease sweep and the callback invocation, since both
	// may dereference entities owned by domain and must be visible to
	// a concurrent Gather the same as any other goroutine's domain
	// work (spec §4.4, §6).
	selfSlot *Slot

	opts    Options
	metrics *metrics

	hasWorker  bool
	workerDone chan struct{}
}

// enqueue appends r to the tail and wakes every goroutine waiting on
// q.cond, so a worker blocked in dequeueWait is woken even while Drain
// or Free are waiting on the same cond. It reports whether r became the
// new head (spec's "isfirst"); purely informational, callers are not
// required to use it.
func (q *Queue) enqueue(r *Request) bool {
	q.mu.Lock()
	r.next = nil
	isFirst := q.tail == nil
	if isFirst {
		q.head = r
	} else {
		q.tail.next = r
	}
	q.tail = r
	q.cond.Broadcast()
	q.mu.Unlock()
	return isFirst
}

// requeueFront pushes r back onto the head, used by Step when it gives
// up on a request rather than blocking the caller's goroutine.
func (q *Queue) requeueFront(r *Request) {
	q.mu.Lock()
	r.next = q.head
	q.head = r
	if q.tail == nil {
		q.tail = r
	}
	q.mu.Unlock()
}

// tryDequeue removes and returns the head request without blocking.
func (q *Queue) tryDequeue() (*Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

// dequeueWait removes and returns the head request, blocking until one
// is appended, the queue is terminated, or timeout elapses. It waits on
// q.cond once, so any other broadcast on it (such as a Request being
// freed) also ends the wait. A returned (nil, false) with no terminate
// signal means the wait ended with the queue still empty; runWorker
// recomputes its wait timeout (from the lease sweep's most recent
// result) and calls again.
func (q *Queue) dequeueWait(timeout time.Duration) (*Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.head == nil && !q.terminate {
		timer := time.AfterFunc(timeout, func() {
			q.mu.Lock()
			q.cond.Broadcast()
			q.mu.Unlock()
		})
		q.cond.Wait()
		timer.Stop()
	}
	return q.popLocked()
}

// popLocked must be called with q.mu held.
func (q *Queue) popLocked() (*Request, bool) {
	if q.head == nil {
		return nil, false
	}
	r := q.head
	q.head = r.next
	if q.head == nil {
		q.tail = nil
	}
	r.next = nil
	return r, true
}

// nonEmpty reports whether the queue has a head request pending.
func (q *Queue) nonEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.head != nil
}

// terminated reports whether the shutdown sentinel has already run.
func (q *Queue) terminated() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.terminate
}

// free decrements the live request count and wakes Drain/Free waiters.
func (q *Queue) free() {
	q.mu.Lock()
	q.liveCount--
	q.metrics.setLive(q.liveCount)
	q.cond.Broadcast()
	q.mu.Unlock()
}

// tryDispatch verifies r's snapshot against the queue's domain and, if
// every recorded thread has since advanced past it, runs r's callback.
// It returns errNotReady (equal to iox.ErrWouldBlock) when the snapshot
// still has unretired entries. This is the one dispatch primitive
// shared by both the Worker and Step, so both brace the callback with
// q.selfSlot.Awake(q.domain)/Asleep here rather than duplicating it at
// each call site: a callback may itself dereference entities owned by
// q.domain, and per spec §4.4 that must be observable to a concurrent
// Gather the same as any other goroutine's domain work.
func (q *Queue) tryDispatch(r *Request) error {
	if !r.snapshot.Verify(q.domain) {
		return errNotReady
	}
	waited := time.Since(r.createdAt)
	q.selfSlot.Awake(q.domain)
	r.callback(r)
	q.selfSlot.Asleep()
	q.metrics.observeDispatch(waited)
	return nil
}

// Drain blocks until every outstanding Request has been freed. liveCount
// carries an implicit baseline of 1 for the Queue's own existence (set
// in NewQueue and never released, not even by Free), so "empty"
// is liveCount == 1, not 0. Drain does not stop the Worker or prevent
// new requests from being created concurrently; a racing NewRequest can
// make Drain observe a non-empty queue again after it would otherwise
// have returned.
func (q *Queue) Drain() {
	q.mu.Lock()
	for q.liveCount > 1 {
		q.cond.Wait()
	}
	q.mu.Unlock()
}
