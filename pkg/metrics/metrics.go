// Package metrics wires workflow and verification outcomes into Prometheus
// counters. The reference repository declares
// github.com/prometheus/client_golang as a direct dependency but never
// imports it; this package gives it a concrete, nil-safe home.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder records workflow and verification outcomes. A nil *Recorder is
// valid and every method on it is a no-op, so callers who don't want
// metrics can pass nil straight through.
type Recorder struct {
	calendarRequests *prometheus.CounterVec
	verifyOutcomes   *prometheus.CounterVec
}

// NewRecorder registers its counters on reg and returns a Recorder. A nil
// reg registers nothing and yields a no-op Recorder, matching the
// "nil-safe registry injection" contract described in SPEC_FULL.md.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		return nil
	}
	r := &Recorder{
		calendarRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ots_calendar_requests_total",
			Help: "Calendar HTTP requests issued by submit/upgrade workflows.",
		}, []string{"workflow", "calendar", "outcome"}),
		verifyOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ots_verify_total",
			Help: "Verifier invocations by outcome.",
		}, []string{"verifier", "outcome"}),
	}
	reg.MustRegister(r.calendarRequests, r.verifyOutcomes)
	return r
}

// CalendarRequest records one submit/upgrade fan-out leg against a single
// calendar, outcome being "success" or "error".
func (r *Recorder) CalendarRequest(workflow, calendar, outcome string) {
	if r == nil {
		return
	}
	r.calendarRequests.WithLabelValues(workflow, calendar, outcome).Inc()
}

// VerifyOutcome records one verifier invocation, outcome being
// "confirmed", "unsupported", or "error".
func (r *Recorder) VerifyOutcome(verifier, outcome string) {
	if r == nil {
		return
	}
	r.verifyOutcomes.WithLabelValues(verifier, outcome).Inc()
}
