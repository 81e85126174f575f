// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/poyrazK-cloudDNS internal/infrastructure/metrics/metrics.go
// (CounterVec naming and "clouddns_" metric prefix convention), adapted to a
// per-instance registry since this package is a library, not a server binary.
//

package client

import "github.com/prometheus/client_golang/prometheus"

// dropReason labels why [*UdpClientStream] silently discarded a datagram,
// per the spoof-resistance filter order in spec.md §4.1.
type dropReason string

const (
	dropReasonWrongSource   dropReason = "wrong_source"
	dropReasonMalformed     dropReason = "malformed"
	dropReasonWrongID       dropReason = "wrong_id"
	dropReasonForgedQuestion dropReason = "forged_question"
)

// Metrics holds the Prometheus collectors for a [*UdpClientStream]. The zero
// value is not usable; construct with [NewMetrics].
type Metrics struct {
	sent     prometheus.Counter
	accepted prometheus.Counter
	dropped  *prometheus.CounterVec
}

// NewMetrics creates a [*Metrics] and registers its collectors with reg. A
// nil reg uses [prometheus.DefaultRegisterer].
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		sent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duskdns_client_queries_sent_total",
			Help: "Total number of DNS queries sent over UDP.",
		}),
		accepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "duskdns_client_responses_accepted_total",
			Help: "Total number of DNS responses accepted as genuine.",
		}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "duskdns_client_responses_dropped_total",
			Help: "Total number of UDP datagrams silently dropped by the spoof filter, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.sent, m.accepted, m.dropped)
	return m
}

func (m *Metrics) observeSent() {
	if m != nil {
		m.sent.Inc()
	}
}

func (m *Metrics) observeAccepted() {
	if m != nil {
		m.accepted.Inc()
	}
}

func (m *Metrics) observeDropped(reason dropReason) {
	if m != nil {
		m.dropped.WithLabelValues(string(reason)).Inc()
	}
}
