// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsbr

import "code.hybscloud.com/qsbr/internal/threadstate"

// Domain is a logical isolation boundary: worker threads belong to a
// domain, and a Request targets exactly one domain.
type Domain = threadstate.Domain

// NewDomain allocates a Domain with a fresh, process-unique id.
func NewDomain() *Domain {
	return threadstate.NewDomain()
}

// Registry is the process-wide (or test-wide) set of registered worker
// threads that the VTime Observer gathers snapshots from and verifies
// progress against. One Registry is normally shared by every Queue in a
// process, since any awake thread might hold a transient reference into
// any domain.
type Registry = threadstate.Registry

// NewRegistry returns an empty thread registry.
func NewRegistry() *Registry {
	return threadstate.NewRegistry()
}

// Slot is a single thread's registration, acquired once per thread via
// Registry.Acquire and straddled around any code that may dereference
// entities owned by a Domain via Slot.Awake/Slot.Asleep.
type Slot = threadstate.Slot
