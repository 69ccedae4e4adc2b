// Copyright(c) 2006 to 2022 ZettaScale Technology and others
// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package threadstate

import "sync"

// batchSize is the number of slots per fixed allocation, mirroring the
// original's DDSI_THREAD_STATE_BATCH: the registry grows by appending a
// new batch rather than reallocating, so existing *Slot pointers are
// never invalidated.
const batchSize = 32

type batch = [batchSize]Slot

// Registry is the growable set of thread slots for a process. It is safe
// for concurrent use; Acquire is the only mutating operation.
type Registry struct {
	mu      sync.Mutex
	batches []*batch
	n       int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Acquire hands out a fresh, permanently-addressed Slot for a newly
// started thread. The returned pointer is stable for the registry's
// lifetime.
func (r *Registry) Acquire() *Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.n
	b := idx / batchSize
	i := idx % batchSize
	if b == len(r.batches) {
		r.batches = append(r.batches, new(batch))
	}
	r.n++
	return &r.batches[b][i]
}

// NThreads returns the total number of slots ever acquired, used only to
// pre-size a Gather snapshot's backing array.
func (r *Registry) NThreads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}

// forEach visits every acquired slot. It takes a stable, point-in-time
// snapshot of the batch list so it never holds the registry lock while
// calling visit.
func (r *Registry) forEach(visit func(*Slot)) {
	r.mu.Lock()
	batches := r.batches
	n := r.n
	r.mu.Unlock()

	seen := 0
	for _, b := range batches {
		for i := range b {
			if seen >= n {
				return
			}
			visit(&b[i])
			seen++
		}
	}
}
