// Copyright(c) 2006 to 2022 ZettaScale Technology and others
// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsbr

import (
	"runtime"
	"time"
)

// runWorker is the body of the dedicated goroutine started by
// Queue.Start: one consolidated loop that dequeues a request, verifies
// it, and invokes its callback once eligible, interleaving the
// lease-expiry sweep on every pass regardless of whether a request is
// currently being retried. Folding the sweep into every pass (rather
// than once per dequeue-dispatch cycle) matters: a request stuck
// waiting on a slow reader's vtime progress must not starve lease
// processing for the whole time it's stuck.
//
// The wait timeout used when the queue is empty is opts.maxDelay
// normally, or opts.deafMaxDelay while the domain is deaf (so the
// receive side still gets woken often enough to notice new readers),
// further shortened by whatever the lease-sweep callback most recently
// reported as its next expiry.
func (q *Queue) runWorker() {
	defer close(q.workerDone)

	var cpuStart time.Time
	if q.opts.cpuTrace {
		cpuStart = time.Now()
	}

	var current *Request
	var stuckSince time.Time
	traced := false
	delay := q.opts.maxDelay

	for {
		if current == nil {
			ceiling := q.opts.maxDelay
			if q.domain.Deaf() {
				ceiling = q.opts.deafMaxDelay
			}
			wait := delay
			if wait > ceiling {
				wait = ceiling
			}
			var ok bool
			if current, ok = q.dequeueWait(wait); ok {
				stuckSince = time.Now()
				traced = false
			} else if q.terminated() {
				return
			}
		}

		if q.opts.cpuTrace {
			q.opts.logger.Debugf("worker: wall time since start %s", time.Since(cpuStart))
		}

		q.selfSlot.Awake(q.domain)
		if q.opts.leaseSweep != nil {
			delay = q.opts.leaseSweep(q.domain, time.Now())
		} else {
			delay = q.opts.maxDelay
		}
		q.selfSlot.Asleep()

		if current != nil {
			switch err := q.tryDispatch(current); {
			case err == nil:
				current = nil
			case IsNotReady(err):
				q.metrics.observeNotReady()
				if waited := time.Since(stuckSince); waited > q.opts.shortSleep*1000 && !traced {
					q.opts.logger.Tracef("worker: request %s stuck for %s, %d goroutines running", current.id, waited, runtime.NumGoroutine())
					traced = true
				}
				time.Sleep(q.opts.shortSleep)
			default:
				current = nil
			}
		}

		if current == nil && q.terminated() {
			return
		}
	}
}
