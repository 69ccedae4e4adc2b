// Copyright(c) 2006 to 2022 ZettaScale Technology and others
// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsbr_test

import (
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/iox"

	"code.hybscloud.com/qsbr"
)

func retryWithTimeout(t *testing.T, timeout time.Duration, f func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	backoff := iox.Backoff{}
	for !f() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout after %v: %s", timeout, msg)
		}
		backoff.Wait()
	}
}

func newTestQueue(t *testing.T) (*qsbr.Queue, *qsbr.Domain, *qsbr.Registry) {
	t.Helper()
	registry := qsbr.NewRegistry()
	domain := qsbr.NewDomain()
	opts := qsbr.New().ShortSleep(time.Millisecond).Build()
	q := qsbr.NewQueue(domain, registry, opts)
	return q, domain, registry
}

func TestImmediateDispatchWithNoAwakeThreads(t *testing.T) {
	q, _, _ := newTestQueue(t)
	if err := q.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	done := make(chan struct{})
	req := qsbr.NewRequest(q, func(r *qsbr.Request) {
		close(done)
		r.Free()
	})
	req.Enqueue()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never ran; a request with an empty snapshot must dispatch immediately")
	}

	q.Free()
}

func TestProgressGating(t *testing.T) {
	q, domain, registry := newTestQueue(t)
	if err := q.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	slot := registry.Acquire()
	slot.Awake(domain)

	done := make(chan struct{})
	req := qsbr.NewRequest(q, func(r *qsbr.Request) {
		close(done)
		r.Free()
	})
	req.Enqueue()

	select {
	case <-done:
		t.Fatal("callback ran while the captured thread is still awake")
	case <-time.After(20 * time.Millisecond):
	}

	slot.Asleep()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never ran after the captured thread went quiet")
	}

	q.Free()
}

func TestFIFOOrderPreservedUnderPressure(t *testing.T) {
	q, domain, registry := newTestQueue(t)
	if err := q.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	slot := registry.Acquire()
	slot.Awake(domain)

	const n = 20
	var mu sync.Mutex
	var order []int

	for i := 0; i < n; i++ {
		i := i
		req := qsbr.NewRequest(q, func(r *qsbr.Request) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			r.Free()
		})
		req.Enqueue()
	}

	time.Sleep(20 * time.Millisecond)
	slot.Asleep()

	retryWithTimeout(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) == n
	}, "not all requests dispatched")

	mu.Lock()
	defer mu.Unlock()
	for i, v := range order {
		if v != i {
			t.Fatalf("order[%d] = %d, want %d — FIFO violated", i, v, i)
		}
	}

	q.Free()
}

func TestMultiPhaseRequeue(t *testing.T) {
	q, _, _ := newTestQueue(t)
	if err := q.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	var phase1Ran, phase2Ran bool
	done := make(chan struct{})

	var secondPhase qsbr.Callback
	secondPhase = func(r *qsbr.Request) {
		phase2Ran = true
		close(done)
		r.Free()
	}

	req := qsbr.NewRequest(q, func(r *qsbr.Request) {
		phase1Ran = true
		r.Requeue(secondPhase)
	})
	req.Enqueue()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second phase callback never ran")
	}

	if !phase1Ran || !phase2Ran {
		t.Fatalf("phase1Ran=%v phase2Ran=%v, want both true", phase1Ran, phase2Ran)
	}

	q.Free()
}

func TestArgRoundTrip(t *testing.T) {
	q, _, _ := newTestQueue(t)
	if err := q.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	type payload struct{ n int }
	done := make(chan payload, 1)

	req := qsbr.NewRequest(q, func(r *qsbr.Request) {
		done <- r.Arg().(payload)
		r.Free()
	})
	req.SetArg(payload{n: 42})
	req.Enqueue()

	select {
	case got := <-done:
		if got.n != 42 {
			t.Fatalf("Arg() = %+v, want {n:42}", got)
		}
	case <-time.After(time.Second):
		t.Fatal("callback never ran")
	}

	q.Free()
}

func TestShutdownWithInFlightChain(t *testing.T) {
	q, domain, registry := newTestQueue(t)
	if err := q.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	slot := registry.Acquire()
	slot.Awake(domain)

	done := make(chan struct{})
	req := qsbr.NewRequest(q, func(r *qsbr.Request) {
		close(done)
		r.Free()
	})
	req.Enqueue()

	freeReturned := make(chan struct{})
	go func() {
		q.Free()
		close(freeReturned)
	}()

	select {
	case <-freeReturned:
		t.Fatal("Free() returned before the in-flight request's snapshot retired")
	case <-time.After(20 * time.Millisecond):
	}

	slot.Asleep()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("in-flight callback never ran")
	}

	select {
	case <-freeReturned:
	case <-time.After(time.Second):
		t.Fatal("Free() never returned after the in-flight request drained")
	}
}

func TestStepperNotReadyPath(t *testing.T) {
	q, domain, registry := newTestQueue(t)
	// No Start: this queue is driven entirely by Step.

	slot := registry.Acquire()
	slot.Awake(domain)

	var ran bool
	req := qsbr.NewRequest(q, func(r *qsbr.Request) {
		ran = true
		r.Free()
	})
	req.Enqueue()

	if !q.Step() {
		t.Fatal("Step() = false, want true (not-ready, request pushed back to head, more work remains)")
	}
	if ran {
		t.Fatal("callback ran despite Step() reporting not-ready")
	}

	slot.Asleep()

	retryWithTimeout(t, time.Second, func() bool {
		return !q.Step()
	}, "Step() never drained once the captured thread went quiet")
	if !ran {
		t.Fatal("Step() drained the queue but the callback never ran")
	}

	q.Free()
}

func TestStepOnEmptyQueueReturnsFalse(t *testing.T) {
	q, _, _ := newTestQueue(t)
	if q.Step() {
		t.Fatal("Step() on an empty queue = true, want false")
	}
	q.Free()
}

func TestStepDispatchesEmptySnapshotImmediately(t *testing.T) {
	q, _, _ := newTestQueue(t)

	var ran bool
	req := qsbr.NewRequest(q, func(r *qsbr.Request) {
		ran = true
		r.Free()
	})
	req.Enqueue()

	if q.Step() {
		t.Fatal("Step() = true, want false (queue empty after dispatching the only request)")
	}
	if !ran {
		t.Fatal("Step() returned without running the callback of a request with an empty snapshot")
	}

	q.Free()
}

func TestDrainWaitsForOutstandingRequests(t *testing.T) {
	q, _, _ := newTestQueue(t)
	if err := q.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	release := make(chan struct{})
	req := qsbr.NewRequest(q, func(r *qsbr.Request) {
		<-release
		r.Free()
	})
	req.Enqueue()

	drained := make(chan struct{})
	go func() {
		q.Drain()
		close(drained)
	}()

	select {
	case <-drained:
		t.Fatal("Drain() returned before the outstanding request was freed")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)

	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("Drain() never returned after the request was freed")
	}

	q.Free()
}
