package history

import (
	"reflect"
	"testing"

	"github.com/dshills/rewind/internal/engine/patch"
)

// step builds the forward/inverse sets for a numeric root moving from a to b.
func step(a, b float64) (patch.PatchSet, patch.PatchSet) {
	return patch.Diff(a, b)
}

// countingApplier wraps the JSON engine and counts Apply calls.
type countingApplier struct {
	calls int
}

func (c *countingApplier) Apply(base any, ps patch.PatchSet, inPlace bool) (any, error) {
	c.calls++
	return patch.Apply(base, ps, inPlace)
}

// Log Tests

func TestNewLogMismatched(t *testing.T) {
	f1, i1 := step(0, 1)
	f2, _ := step(1, 2)

	log, ok := NewLog(Patches{
		Forward: []patch.PatchSet{f1, f2},
		Inverse: []patch.PatchSet{i1},
	})
	if ok {
		t.Error("expected mismatch to be reported")
	}
	if log.Len() != 1 {
		t.Errorf("Len() = %d, want 1", log.Len())
	}
}

func TestLogDoesNotAliasInput(t *testing.T) {
	f1, i1 := step(0, 1)
	f2, i2 := step(1, 2)
	in := Patches{
		Forward: make([]patch.PatchSet, 1, 4),
		Inverse: make([]patch.PatchSet, 1, 4),
	}
	in.Forward[0], in.Inverse[0] = f1, i1

	log, _ := NewLog(in)
	log.Append(f2, i2)

	extended := in.Forward[:2]
	if extended[1] != nil {
		t.Error("Append wrote into the caller's backing array")
	}
}

func TestLogTruncate(t *testing.T) {
	log, _ := NewLog(Patches{})
	for i := 0; i < 5; i++ {
		log.Append(step(float64(i), float64(i+1)))
	}

	log.Truncate(2)
	if log.Len() != 2 {
		t.Errorf("Len() = %d, want 2", log.Len())
	}

	log.Truncate(10)
	if log.Len() != 2 {
		t.Errorf("Truncate beyond length changed Len() to %d", log.Len())
	}

	log.Truncate(-1)
	if log.Len() != 0 {
		t.Errorf("Truncate(-1) left %d entries", log.Len())
	}
}

func TestLogTrim(t *testing.T) {
	tests := []struct {
		name      string
		entries   int
		capacity  int
		wantLen   int
		wantTrims int
	}{
		{"under capacity", 3, 10, 3, 0},
		{"at capacity", 3, 3, 3, 0},
		{"over capacity", 5, 3, 3, 2},
		{"zero capacity", 4, 0, 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, _ := NewLog(Patches{})
			for i := 0; i < tt.entries; i++ {
				log.Append(step(float64(i), float64(i+1)))
			}
			if got := log.Trim(tt.capacity); got != tt.wantTrims {
				t.Errorf("Trim() = %d, want %d", got, tt.wantTrims)
			}
			if log.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", log.Len(), tt.wantLen)
			}
		})
	}
}

func TestLogTrimKeepsNewest(t *testing.T) {
	log, _ := NewLog(Patches{})
	for i := 0; i < 5; i++ {
		log.Append(step(float64(i), float64(i+1)))
	}
	log.Trim(2)

	// Entry 0 should now move 3 -> 4.
	got, err := patch.Apply(3.0, log.Forward(0), false)
	if err != nil {
		t.Fatal(err)
	}
	if got != 4.0 {
		t.Errorf("oldest retained entry yields %v, want 4", got)
	}
}

func TestLogPatchesIsCopy(t *testing.T) {
	log, _ := NewLog(Patches{})
	log.Append(step(0, 1))
	p := log.Patches()
	log.Truncate(0)
	if p.Len() != 1 || p.Forward[0] == nil {
		t.Error("Patches() shares storage with the log")
	}
}

// Batch Tests

func TestBatchConsolidate(t *testing.T) {
	states := []any{
		map[string]any{"a": 1.0},
		map[string]any{"a": 2.0, "b": "x"},
		map[string]any{"a": 3.0},
		map[string]any{"a": 3.0, "c": []any{1.0}},
	}

	var b Batch
	if !b.Empty() {
		t.Fatal("zero batch should be empty")
	}
	for i := 0; i+1 < len(states); i++ {
		b.Add(patch.Diff(states[i], states[i+1]))
	}
	if b.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", b.Len())
	}

	fwd, inv := b.Consolidate()
	after, err := patch.Apply(states[0], fwd, false)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(after, states[3]) {
		t.Errorf("consolidated forward = %#v, want %#v", after, states[3])
	}
	before, err := patch.Apply(after, inv, false)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(before, states[0]) {
		t.Errorf("consolidated inverse = %#v, want %#v", before, states[0])
	}

	b.Clear()
	if !b.Empty() {
		t.Error("Clear() left entries")
	}
}

func TestVisible(t *testing.T) {
	log, _ := NewLog(Patches{})
	log.Append(step(0, 1))

	var b Batch
	if got := Visible(log, &b).Len(); got != 1 {
		t.Errorf("Visible with empty batch = %d entries, want 1", got)
	}

	b.Add(step(1, 2))
	b.Add(step(2, 3))
	v := Visible(log, &b)
	if v.Len() != 2 {
		t.Fatalf("Visible = %d entries, want 2", v.Len())
	}
	got, err := patch.Apply(1.0, v.Forward[1], false)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3.0 {
		t.Errorf("virtual entry yields %v, want 3", got)
	}
	if log.Len() != 1 {
		t.Error("Visible modified the log")
	}
}

// Replayer Tests

func TestReplayerWindow(t *testing.T) {
	log, _ := NewLog(Patches{})
	for i := 0; i < 5; i++ {
		log.Append(step(float64(i), float64(i+1)))
	}
	log.Trim(3)

	var r Replayer
	got, err := r.States(5.0, log.Patches(), 3, 3, &countingApplier{})
	if err != nil {
		t.Fatal(err)
	}
	want := []any{2.0, 3.0, 4.0, 5.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("States() = %v, want %v", got, want)
	}
}

func TestReplayerPastAndFuture(t *testing.T) {
	log, _ := NewLog(Patches{})
	for i := 0; i < 4; i++ {
		log.Append(step(float64(i), float64(i+1)))
	}

	var r Replayer
	got, err := r.States(2.0, log.Patches(), 2, 10, &countingApplier{})
	if err != nil {
		t.Fatal(err)
	}
	want := []any{0.0, 1.0, 2.0, 3.0, 4.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("States() = %v, want %v", got, want)
	}
}

func TestReplayerOverCapacityWithPending(t *testing.T) {
	log, _ := NewLog(Patches{})
	for i := 0; i < 3; i++ {
		log.Append(step(float64(i), float64(i+1)))
	}
	var b Batch
	b.Add(step(3, 4))

	var r Replayer
	got, err := r.States(4.0, Visible(log, &b), 4, 3, &countingApplier{})
	if err != nil {
		t.Fatal(err)
	}
	want := []any{1.0, 2.0, 3.0, 4.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("States() = %v, want %v", got, want)
	}
}

func TestReplayerCache(t *testing.T) {
	log, _ := NewLog(Patches{})
	log.Append(step(0, 1))
	applier := &countingApplier{}

	var r Replayer
	first, _ := r.States(1.0, log.Patches(), 1, 10, applier)
	calls := applier.calls
	second, _ := r.States(1.0, log.Patches(), 1, 10, applier)
	if applier.calls != calls {
		t.Error("cached States() replayed patches again")
	}
	if &first[0] != &second[0] {
		t.Error("cached States() returned a different slice")
	}

	r.Invalidate()
	if _, err := r.States(1.0, log.Patches(), 1, 10, applier); err != nil {
		t.Fatal(err)
	}
	if applier.calls == calls {
		t.Error("Invalidate() did not drop the cache")
	}
}

func TestReplayerError(t *testing.T) {
	bad := Patches{
		Forward: []patch.PatchSet{{{Op: patch.OpReplace, Path: patch.Path{"missing"}, Value: 1.0}}},
		Inverse: []patch.PatchSet{{{Op: patch.OpReplace, Path: patch.Path{"missing"}, Value: 0.0}}},
	}
	var r Replayer
	if _, err := r.States(map[string]any{}, bad, 1, 10, &countingApplier{}); err == nil {
		t.Error("expected replay error")
	}
}
