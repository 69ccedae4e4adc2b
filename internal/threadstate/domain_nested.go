// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build nesteddomain

package threadstate

// domainMatches reports whether slot currently belongs to d, either as its
// primary or its nested secondary domain (spec §4.1's "nested-domain
// facility").
func domainMatches(s *Slot, d *Domain) bool {
	return s.loadDomain() == d.id || s.loadNestedDomain() == d.id
}
