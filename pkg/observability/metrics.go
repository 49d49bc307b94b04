// Package observability provides lightweight counters for pricing outcomes.
package observability

import "sync/atomic"

// Outcome is the terminal state of one pricing request.
type Outcome int

const (
	OutcomePriced Outcome = iota
	OutcomeCancelled
	OutcomeUnknownPlan
	OutcomeInvalid
)

func (o Outcome) String() string {
	switch o {
	case OutcomePriced:
		return "priced"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeUnknownPlan:
		return "unknown_plan"
	case OutcomeInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Metrics holds atomic counters for processed requests.
type Metrics struct {
	priced      atomic.Int64
	cancelled   atomic.Int64
	unknownPlan atomic.Int64
	invalid     atomic.Int64
	totalSum    atomic.Int64
}

// NewMetrics returns a zero-initialised Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Record counts one request. total is only added for priced requests.
func (m *Metrics) Record(o Outcome, total int) {
	switch o {
	case OutcomePriced:
		m.priced.Add(1)
		m.totalSum.Add(int64(total))
	case OutcomeCancelled:
		m.cancelled.Add(1)
	case OutcomeUnknownPlan:
		m.unknownPlan.Add(1)
	case OutcomeInvalid:
		m.invalid.Add(1)
	}
}

// Requests returns the number of requests recorded across all outcomes.
func (m *Metrics) Requests() int64 {
	return m.priced.Load() + m.cancelled.Load() + m.unknownPlan.Load() + m.invalid.Load()
}

// Snapshot returns a copy of the counters.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"priced_count":       m.priced.Load(),
		"cancelled_count":    m.cancelled.Load(),
		"unknown_plan_count": m.unknownPlan.Load(),
		"invalid_count":      m.invalid.Load(),
		"priced_total_sum":   m.totalSum.Load(),
	}
}
