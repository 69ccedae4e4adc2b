// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package threadstate

import "code.hybscloud.com/atomix"

var domainIDCounter atomix.Uint64

// Domain is a logical isolation boundary: worker threads belong to a
// domain, and a reclamation request targets exactly one domain (plus, in
// nested-domain builds, one secondary domain it also watches).
type Domain struct {
	id   uint64
	deaf atomix.Bool
}

// NewDomain allocates a Domain with a fresh, process-unique id.
func NewDomain() *Domain {
	return &Domain{id: domainIDCounter.AddAcqRel(1)}
}

// SetDeaf marks the domain as deprived of input on its receive path,
// which shortens the worker's idle wait so the receive machinery still
// gets periodic wake-ups (spec §4.4's "deaf mode").
func (d *Domain) SetDeaf(deaf bool) {
	d.deaf.StoreRelease(deaf)
}

// Deaf reports whether the domain is currently in deaf mode.
func (d *Domain) Deaf() bool {
	return d.deaf.LoadAcquire()
}
