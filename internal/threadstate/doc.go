// Copyright(c) 2006 to 2022 ZettaScale Technology and others
// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package threadstate is the read-only thread-progress registry consumed
// by the deferred-reclamation engine's VTime Observer.
//
// A Domain is a logical isolation boundary. Worker threads register a
// *Slot via Registry.Acquire and call Slot.Awake/Slot.Asleep as they cross
// into and out of code that may hold transient references to entities
// owned by a Domain. Awake publishes the owning Domain before raising the
// slot's vtime awake bit; Asleep retires it. Both transitions strictly
// advance vtime, so any full awake/asleep cycle is observable as a vtime
// increase.
//
// Slots never move once handed out: the registry grows by appending
// fixed-size batches, not by reallocating a single backing array, so a
// Gather snapshot may hold a *Slot across an arbitrary number of
// intervening Registry.Acquire calls.
package threadstate
