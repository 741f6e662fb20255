package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.Commit(ModeAuto)
	r.Commit(ModeAuto)
	r.Commit(ModeManual)
	r.Archive()
	r.Navigate(DirectionBack)
	r.Trim(3)
	r.Trim(0)
	r.Noop()
	r.Reset()

	if got := testutil.ToFloat64(r.commits.WithLabelValues(ModeAuto)); got != 2 {
		t.Errorf("auto commits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.commits.WithLabelValues(ModeManual)); got != 1 {
		t.Errorf("manual commits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.trimmed); got != 3 {
		t.Errorf("trimmed = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.navigations.WithLabelValues(DirectionBack)); got != 1 {
		t.Errorf("back navigations = %v, want 1", got)
	}

	count, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count == 0 {
		t.Error("no metrics registered")
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.Commit(ModeAuto)
	r.Archive()
	r.Navigate(DirectionForward)
	r.Trim(1)
	r.Noop()
	r.Reset()
}
