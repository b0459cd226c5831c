// Package metrics records pipeline counters in Prometheus form.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rcliao/notesuggest/internal/model"
)

// Metrics holds the generator's Prometheus collectors.
//
// Metrics:
//   - notesuggest_runs_total - generation runs
//   - notesuggest_suggestions_total{type,clarification} - emitted suggestions
//   - notesuggest_drops_total{stage,reason} - dropped candidates and sections
//   - notesuggest_llm_fallbacks_total - intent provider fallbacks
//   - notesuggest_overall_score - overall score of emitted suggestions
//   - notesuggest_run_duration_seconds - generation latency
type Metrics struct {
	Runs         prometheus.Counter
	Suggestions  *prometheus.CounterVec
	Drops        *prometheus.CounterVec
	LLMFallbacks prometheus.Counter
	Overall      prometheus.Histogram
	Duration     prometheus.Histogram
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Runs: f.NewCounter(prometheus.CounterOpts{
			Namespace: "notesuggest",
			Name:      "runs_total",
			Help:      "Total suggestion generation runs.",
		}),
		Suggestions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notesuggest",
			Name:      "suggestions_total",
			Help:      "Emitted suggestions by type and clarification state.",
		}, []string{"type", "clarification"}),
		Drops: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notesuggest",
			Name:      "drops_total",
			Help:      "Dropped candidates and sections by stage and reason.",
		}, []string{"stage", "reason"}),
		LLMFallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: "notesuggest",
			Name:      "llm_fallbacks_total",
			Help:      "Intent provider calls that fell back to rule scores.",
		}),
		Overall: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "notesuggest",
			Name:      "overall_score",
			Help:      "Overall score of emitted suggestions.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "notesuggest",
			Name:      "run_duration_seconds",
			Help:      "Suggestion generation duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// ObserveRun records one generation run. It is safe to call on a nil
// receiver.
func (m *Metrics) ObserveRun(suggestions []model.Suggestion, debug *model.GeneratorDebugInfo, d time.Duration) {
	if m == nil {
		return
	}
	m.Runs.Inc()
	m.Duration.Observe(d.Seconds())
	for _, s := range suggestions {
		clar := "false"
		if s.NeedsClarification {
			clar = "true"
		}
		m.Suggestions.WithLabelValues(string(s.Type), clar).Inc()
		m.Overall.Observe(s.Scores.Overall)
	}
	if debug == nil {
		return
	}
	for _, dr := range debug.Drops {
		m.Drops.WithLabelValues(string(dr.Stage), string(dr.Reason)).Inc()
	}
	m.LLMFallbacks.Add(float64(debug.LLMFallbacks))
}
