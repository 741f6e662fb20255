// Package metrics exposes Prometheus counters for engine activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Commit modes.
const (
	ModeAuto   = "auto"
	ModeManual = "manual"
)

// Navigation directions.
const (
	DirectionBack    = "back"
	DirectionForward = "forward"
)

// Recorder counts engine operations. A nil *Recorder records nothing, so
// callers never need to check before use.
type Recorder struct {
	commits     *prometheus.CounterVec
	archives    prometheus.Counter
	navigations *prometheus.CounterVec
	trimmed     prometheus.Counter
	noops       prometheus.Counter
	resets      prometheus.Counter
}

// New creates a Recorder and registers its collectors with reg.
// Pass prometheus.DefaultRegisterer to expose them on the default registry.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		commits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rewind_commits_total",
			Help: "Edits recorded in the history, by archive mode",
		}, []string{"mode"}),
		archives: factory.NewCounter(prometheus.CounterOpts{
			Name: "rewind_archives_total",
			Help: "Pending batches consolidated into one history entry",
		}),
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rewind_navigations_total",
			Help: "Position changes through go/back/forward, by direction",
		}, []string{"direction"}),
		trimmed: factory.NewCounter(prometheus.CounterOpts{
			Name: "rewind_trimmed_entries_total",
			Help: "History entries discarded by the capacity bound",
		}),
		noops: factory.NewCounter(prometheus.CounterOpts{
			Name: "rewind_noop_edits_total",
			Help: "Edits that produced no change and were ignored",
		}),
		resets: factory.NewCounter(prometheus.CounterOpts{
			Name: "rewind_resets_total",
			Help: "Resets to the initial snapshot",
		}),
	}
}

// Commit records one edit entering the history.
func (r *Recorder) Commit(mode string) {
	if r == nil {
		return
	}
	r.commits.WithLabelValues(mode).Inc()
}

// Archive records one batch consolidation.
func (r *Recorder) Archive() {
	if r == nil {
		return
	}
	r.archives.Inc()
}

// Navigate records one position change.
func (r *Recorder) Navigate(direction string) {
	if r == nil {
		return
	}
	r.navigations.WithLabelValues(direction).Inc()
}

// Trim records n entries removed by the capacity bound.
func (r *Recorder) Trim(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.trimmed.Add(float64(n))
}

// Noop records an ignored edit.
func (r *Recorder) Noop() {
	if r == nil {
		return
	}
	r.noops.Inc()
}

// Reset records a reset.
func (r *Recorder) Reset() {
	if r == nil {
		return
	}
	r.resets.Inc()
}
