// Copyright(c) 2006 to 2022 ZettaScale Technology and others
// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package threadstate

// Entry is one (slot, captured-vtime) pair of a Snapshot.
type Entry struct {
	Slot  *Slot
	VTime uint32
}

// Snapshot is the set of threads that might still be holding transient
// references into a domain, captured at one instant. Verify shrinks it in
// place as entries are retired.
type Snapshot []Entry

// Gather walks the registry and records (slot, vtime) for every thread
// currently awake in d. Sleeping threads are skipped entirely: a sleeping
// thread cannot be holding a transient reference.
//
// Load order is significant: vtime is read before domain, both with
// acquire semantics. If the thread is mid-transition (vtime already
// updated, domain not yet), the next Verify call will see a strictly
// greater vtime and retire the entry; it is never possible to observe a
// stale domain paired with a vtime that has already moved on without that
// being caught later.
func Gather(d *Domain, r *Registry) Snapshot {
	snap := make(Snapshot, 0, r.NThreads())
	r.forEach(func(s *Slot) {
		v := s.loadVTime()
		if !vtimeAwake(v) {
			return
		}
		if domainMatches(s, d) {
			snap = append(snap, Entry{Slot: s, VTime: v})
		}
	})
	return snap
}

// Verify removes every entry whose thread has since advanced its vtime or
// left the domain, using swap-with-last so it runs in place without
// reallocating. It reports whether the snapshot is now empty.
func (snap *Snapshot) Verify(d *Domain) bool {
	s := *snap
	i := 0
	for i < len(s) {
		cur := s[i].Slot.loadVTime()
		stillHere := domainMatches(s[i].Slot, d)
		if !vtimeGreater(cur, s[i].VTime) && stillHere {
			i++
			continue
		}
		last := len(s) - 1
		s[i] = s[last]
		s = s[:last]
	}
	*snap = s
	return len(s) == 0
}
