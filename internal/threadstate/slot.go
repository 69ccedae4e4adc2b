// Copyright(c) 2006 to 2022 ZettaScale Technology and others
// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package threadstate

import "code.hybscloud.com/atomix"

// pad is cache line padding to prevent false sharing between adjacent
// slots in a batch.
type pad [64]byte

// vtime encodes an awake/asleep bit in its low-order bit: odd values are
// awake, even values are asleep. It strictly increases on every
// awake<->asleep transition, so one full asleep->awake->asleep cycle is
// always observable as a vtime increase of at least 2.
type vtime = uint32

func vtimeAwake(v vtime) bool {
	return v&1 == 1
}

// vtimeGreater reports whether a is strictly newer than b, tolerating
// uint32 wraparound via signed-difference comparison (the same trick used
// for TCP sequence numbers).
func vtimeGreater(a, b vtime) bool {
	return int32(a-b) > 0
}

// Slot is one thread's registration in the registry. It is never moved
// once returned by Registry.Acquire.
type Slot struct {
	_            pad
	vtimeField   atomix.Uint32
	_            pad
	domainField  atomix.Uint64
	_            pad
	nestedField  atomix.Uint64
	_            pad
}

// Awake marks the calling thread as awake in d, publishing d before
// raising the vtime awake bit so a concurrent Gather that observes the
// awake bit is guaranteed to see the correct domain (or a vtime that has
// since strictly advanced again, which Verify will detect).
func (s *Slot) Awake(d *Domain) {
	s.domainField.StoreRelease(d.id)
	s.vtimeField.StoreRelease(s.vtimeField.LoadAcquire() + 1)
}

// AwakeNested is Awake for a thread that also participates in a nested
// secondary domain (only meaningful in nesteddomain builds; see
// domain_nested.go / domain_flat.go).
func (s *Slot) AwakeNested(d, nested *Domain) {
	s.domainField.StoreRelease(d.id)
	if nested != nil {
		s.nestedField.StoreRelease(nested.id)
	} else {
		s.nestedField.StoreRelease(0)
	}
	s.vtimeField.StoreRelease(s.vtimeField.LoadAcquire() + 1)
}

// Asleep marks the calling thread as asleep, strictly advancing vtime.
// A sleeping thread cannot hold a transient reference into any domain, so
// Gather skips it entirely.
func (s *Slot) Asleep() {
	s.vtimeField.StoreRelease(s.vtimeField.LoadAcquire() + 1)
}

// loadVTime is the acquire-ordered read Gather/Verify use.
func (s *Slot) loadVTime() vtime {
	return s.vtimeField.LoadAcquire()
}

// loadDomain is the acquire-ordered read Gather/Verify use.
func (s *Slot) loadDomain() uint64 {
	return s.domainField.LoadAcquire()
}

func (s *Slot) loadNestedDomain() uint64 {
	return s.nestedField.LoadAcquire()
}
