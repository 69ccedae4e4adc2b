// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package qsbr

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics is the Worker's optional Prometheus instrumentation. A nil
// *metrics (the zero value produced when Options.registerer is unset)
// makes every method a no-op, so the hot dispatch path never has to
// branch on whether metrics are enabled.
type metrics struct {
	liveRequests   prometheus.Gauge
	dispatched     prometheus.Counter
	dispatchLatency prometheus.Histogram
	notReady       prometheus.Counter
}

func newMetrics(reg prometheus.Registerer, queueID string) *metrics {
	if reg == nil {
		return nil
	}
	labels := prometheus.Labels{"queue": queueID}
	m := &metrics{
		liveRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "qsbr",
			Name:        "live_requests",
			Help:        "Number of reclamation requests currently in existence for this queue.",
			ConstLabels: labels,
		}),
		dispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "qsbr",
			Name:        "dispatched_total",
			Help:        "Total number of reclamation callbacks invoked.",
			ConstLabels: labels,
		}),
		dispatchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "qsbr",
			Name:        "dispatch_wait_seconds",
			Help:        "Time a request spent waiting for vtime progress before its callback ran.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		notReady: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "qsbr",
			Name:        "verify_not_ready_total",
			Help:        "Total number of verify polls that found a request not yet eligible.",
			ConstLabels: labels,
		}),
	}
	reg.MustRegister(m.liveRequests, m.dispatched, m.dispatchLatency, m.notReady)
	return m
}

// setLive takes Queue.liveCount, which includes the Queue's own baseline
// of 1, and reports only the requests.
func (m *metrics) setLive(n int) {
	if m == nil {
		return
	}
	m.liveRequests.Set(float64(n - 1))
}

func (m *metrics) observeDispatch(waited time.Duration) {
	if m == nil {
		return
	}
	m.dispatched.Inc()
	m.dispatchLatency.Observe(waited.Seconds())
}

func (m *metrics) observeNotReady() {
	if m == nil {
		return
	}
	m.notReady.Inc()
}
