// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsbr

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LeaseSweepFunc is the periodic lease-expiry sweep (spec §4.4/§6): a
// pure callback, from the engine's perspective, that converts expired
// liveness leases into further reclamation requests and returns the
// delay until the next expiry should be checked. It may itself call
// NewRequest/Request.Enqueue and is fully reentrant with respect to the
// Worker that calls it.
type LeaseSweepFunc func(domain *Domain, now time.Time) time.Duration

const (
	// defaultMaxDelay is the Worker's idle-wait ceiling outside deaf mode.
	defaultMaxDelay = 1000 * time.Second
	// deafMaxDelay is the Worker's idle-wait ceiling while the domain is
	// deaf, so the receive-side machinery still gets periodic wake-ups.
	deafMaxDelay = 100 * time.Millisecond
	// shortSleep is how long the Worker sleeps between verify retries on
	// a not-yet-eligible request.
	shortSleep = time.Millisecond
)

// Options configures a Queue. The zero value is not meaningful; build one
// with New().
type Options struct {
	maxDelay     time.Duration
	deafMaxDelay time.Duration
	shortSleep   time.Duration
	leaseSweep   LeaseSweepFunc
	logger       Logger
	registerer   prometheus.Registerer
	cpuTrace     bool
}

// Builder creates Options with fluent configuration, mirroring the
// package's queue-construction idiom elsewhere in this ecosystem.
type Builder struct {
	opts Options
}

// New creates an Options builder populated with spec-mandated defaults:
// a 1000s idle ceiling (100ms while deaf), and a 1ms verify-retry sleep.
func New() *Builder {
	return &Builder{opts: Options{
		maxDelay:     defaultMaxDelay,
		deafMaxDelay: deafMaxDelay,
		shortSleep:   shortSleep,
		logger:       NewNoOpLogger(),
	}}
}

// MaxDelay overrides the default (non-deaf) idle-wait ceiling.
func (b *Builder) MaxDelay(d time.Duration) *Builder {
	b.opts.maxDelay = d
	return b
}

// DeafMaxDelay overrides the deaf-mode idle-wait ceiling.
func (b *Builder) DeafMaxDelay(d time.Duration) *Builder {
	b.opts.deafMaxDelay = d
	return b
}

// ShortSleep overrides the verify-retry sleep duration.
func (b *Builder) ShortSleep(d time.Duration) *Builder {
	b.opts.shortSleep = d
	return b
}

// LeaseSweep installs the periodic lease-expiry callback. If unset, the
// Worker still runs but never shortens its wait for lease expiries.
func (b *Builder) LeaseSweep(fn LeaseSweepFunc) *Builder {
	b.opts.leaseSweep = fn
	return b
}

// Logger installs the diagnostic trace sink. If unset, a no-op logger is
// used.
func (b *Builder) Logger(l Logger) *Builder {
	b.opts.logger = l
	return b
}

// Metrics registers the Worker's Prometheus instrumentation against reg.
// If unset, no metrics are collected.
func (b *Builder) Metrics(reg prometheus.Registerer) *Builder {
	b.opts.registerer = reg
	return b
}

// CPUTrace enables a Debugf line per outer worker iteration carrying the
// wall-clock time elapsed since the worker started, in the place of the
// original's LOG_THREAD_CPUTIME hook. It does not measure CPU time.
// Off by default.
func (b *Builder) CPUTrace(enabled bool) *Builder {
	b.opts.cpuTrace = enabled
	return b
}

// Build finalizes the Options.
func (b *Builder) Build() Options {
	return b.opts
}
