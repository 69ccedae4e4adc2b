// Copyright(c) 2006 to 2022 ZettaScale Technology and others
// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsbr

import (
	"sync"

	"github.com/google/uuid"
)

// NewQueue creates a Queue that gates reclamation on progress observed
// within domain, using registry to enumerate threads. The Queue is
// inert until Start is called or Step is driven by the caller.
func NewQueue(domain *Domain, registry *Registry, opts Options) *Queue {
	id := uuid.New().String()
	q := &Queue{
		id:         id,
		domain:     domain,
		registry:   registry,
		selfSlot:   registry.Acquire(),
		opts:       opts,
		metrics:    newMetrics(opts.registerer, id),
		liveCount:  1, // baseline: the Queue's own existence; Free waits for it to be the only count left.
		workerDone: make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Start spawns the Queue's dedicated worker goroutine. It returns
// ErrStartFailure if a worker has already been started; unlike the
// thread creation this engine is descended from, spawning a goroutine
// itself essentially cannot fail, so that is the only failure mode
// Start has. A Queue with no worker remains fully usable by driving
// Step from caller-owned goroutines instead.
func (q *Queue) Start() error {
	q.mu.Lock()
	if q.hasWorker {
		q.mu.Unlock()
		return ErrStartFailure
	}
	q.hasWorker = true
	q.mu.Unlock()

	go q.runWorker()
	return nil
}

// Free runs the queue's shutdown dance: it waits for every Request
// created before the call to be freed, appends a sentinel request whose
// callback stops the worker loop, and waits for that to happen. After
// Free returns, the Queue must not be used again.
//
// If Start was never called, Free drives the sentinel
// through by calling Step itself rather than waiting on a worker
// goroutine that does not exist.
func (q *Queue) Free() {
	q.mu.Lock()
	for q.liveCount != 1 {
		q.cond.Wait()
	}
	hasWorker := q.hasWorker
	q.mu.Unlock()

	sentinel := NewRequest(q, func(r *Request) {
		q.mu.Lock()
		q.terminate = true
		q.cond.Broadcast()
		q.mu.Unlock()
		r.Free()
	})
	sentinel.Enqueue()

	if hasWorker {
		<-q.workerDone
		return
	}
	for !q.terminated() {
		q.Step()
	}
}
