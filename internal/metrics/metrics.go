// Package metrics holds the Prometheus collectors of the server.
//
// A nil *Metrics is valid and records nothing, so services and tests can run
// without a registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "isplitapp"

type Metrics struct {
	rpcRequests         *prometheus.CounterVec
	rpcDuration         *prometheus.HistogramVec
	allocations         *prometheus.CounterVec
	shortfallUnits      prometheus.Counter
	settlementTransfers prometheus.Histogram
	unbalancedParties   prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocations_total",
			Help:      "Expense allocations computed, by split mode.",
		}, []string{"mode"}),
		shortfallUnits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "allocation_shortfall_units_total",
			Help:      "Minor units left unallocated by truncating percentage splits.",
		}),
		settlementTransfers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_plan_transfers",
			Help:      "Number of transfers in computed reimbursement plans.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		unbalancedParties: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unbalanced_parties_total",
			Help:      "Balance computations whose net positions did not sum to zero.",
		}),
	}

	reg.MustRegister(
		m.rpcRequests,
		m.rpcDuration,
		m.allocations,
		m.shortfallUnits,
		m.settlementTransfers,
		m.unbalancedParties,
	)
	return m
}

// ObserveRPC records one finished RPC. code is "ok" on success.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// ObserveAllocation records one allocation and the units it left unassigned.
func (m *Metrics) ObserveAllocation(mode string, shortfall int64) {
	if m == nil {
		return
	}
	m.allocations.WithLabelValues(mode).Inc()
	if shortfall > 0 {
		m.shortfallUnits.Add(float64(shortfall))
	}
}

// ObservePlan records the size of a reimbursement plan.
func (m *Metrics) ObservePlan(transfers int) {
	if m == nil {
		return
	}
	m.settlementTransfers.Observe(float64(transfers))
}

// IncUnbalanced counts a party whose balances could not be planned.
func (m *Metrics) IncUnbalanced() {
	if m == nil {
		return
	}
	m.unbalancedParties.Inc()
}
