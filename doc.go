// Copyright(c) 2006 to 2022 ZettaScale Technology and others
// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package qsbr is a quiescent-state-based reclamation (QSBR) engine for
// safely destroying shared entities — proxy participants, readers,
// writers, and other dynamically lifetime-managed objects in a
// publish/subscribe middleware — only after every thread that might still
// hold a transient reference to them has observably made forward
// progress.
//
// It couples three pieces: a lock-free progress-observation protocol over
// per-thread "visit time" counters (package threadstate), a FIFO queue of
// reclamation callbacks gated on that protocol (Queue), and a single
// dedicated worker goroutine that also interleaves a caller-supplied
// periodic lease-expiry sweep (Worker).
//
// # Quick Start
//
//	registry := qsbr.NewRegistry()
//	domain := qsbr.NewDomain()
//	opts := qsbr.New().
//		LeaseSweep(func(d *qsbr.Domain, now time.Time) time.Duration {
//			return leaseMgr.Sweep(d, now)
//		}).
//		Build()
//	q := qsbr.NewQueue(domain, registry, opts)
//	if err := q.Start(); err != nil {
//		// q still works via q.Step in a test harness
//	}
//
//	req := qsbr.NewRequest(q, func(r *qsbr.Request) {
//		deleteProxyParticipant(r.Arg())
//		r.Free()
//	})
//	req.Enqueue()
//
//	// later, at shutdown:
//	q.Free()
//
// # Worker threads
//
// Any goroutine that may dereference a shared entity must register once
// with the registry and straddle its access with Awake/Asleep:
//
//	slot := registry.Acquire()
//	slot.Awake(domain)
//	defer slot.Asleep()
//	// ... access entities owned by domain ...
//
// A Request created while a thread is awake in the target domain captures
// that thread in its snapshot; the request's callback will not run until
// every captured thread has advanced past that point (or left the
// domain).
//
// # Multi-phase deletion
//
// A callback may call Request.Requeue with a different callback instead
// of Request.Free, to run a second phase after being re-dispatched. The
// snapshot is not refreshed on Requeue — see Request.Requeue.
package qsbr
