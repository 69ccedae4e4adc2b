// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package threadstate

// RaceEnabled is true when the race detector is active. Tests use it to
// skip assertions that depend on a concurrent goroutine making progress
// within a tight wall-clock budget, which the detector's instrumentation
// can push past.
const RaceEnabled = true
