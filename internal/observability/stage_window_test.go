package observability

import (
	"testing"
	"time"
)

func TestStageWindowSnapshotStats(t *testing.T) {
	w := NewStageWindow(8)
	for _, ms := range []int{10, 20, 30, 40} {
		w.Observe("detect", time.Duration(ms)*time.Millisecond)
	}

	snap := w.Snapshot()
	if snap.WindowSize != 8 {
		t.Fatalf("WindowSize = %d, want 8", snap.WindowSize)
	}
	if len(snap.Stages) != 1 {
		t.Fatalf("len(Stages) = %d, want 1", len(snap.Stages))
	}
	s := snap.Stages[0]
	if s.Stage != "detect" || s.Samples != 4 {
		t.Fatalf("stage = %+v, want detect with 4 samples", s)
	}
	if s.LastMS != 40 {
		t.Fatalf("LastMS = %v, want 40", s.LastMS)
	}
	if s.AvgMS != 25 {
		t.Fatalf("AvgMS = %v, want 25", s.AvgMS)
	}
	if s.P50MS != 25 {
		t.Fatalf("P50MS = %v, want 25", s.P50MS)
	}
	if s.TargetP95MS != 50 {
		t.Fatalf("TargetP95MS = %v, want 50 for detect", s.TargetP95MS)
	}
}

func TestStageWindowRingOverwrite(t *testing.T) {
	w := NewStageWindow(2)
	w.Observe("generate", 100*time.Millisecond)
	w.Observe("generate", 200*time.Millisecond)
	w.Observe("generate", 300*time.Millisecond)

	snap := w.Snapshot()
	s := snap.Stages[0]
	if s.Samples != 2 {
		t.Fatalf("Samples = %d, want 2 after ring wrap", s.Samples)
	}
	if s.AvgMS != 250 {
		t.Fatalf("AvgMS = %v, want 250 (oldest sample evicted)", s.AvgMS)
	}
}

func TestStageWindowIndicators(t *testing.T) {
	w := NewStageWindow(4)
	w.ObserveIndicator("generation_degraded")
	w.ObserveIndicator("generation_degraded")
	w.ObserveIndicator(" ")

	snap := w.Snapshot()
	if len(snap.Indicators) != 1 {
		t.Fatalf("len(Indicators) = %d, want 1", len(snap.Indicators))
	}
	if snap.Indicators[0].Name != "generation_degraded" || snap.Indicators[0].Count != 2 {
		t.Fatalf("Indicators[0] = %+v, want generation_degraded x2", snap.Indicators[0])
	}
}

func TestStageWindowReset(t *testing.T) {
	w := NewStageWindow(4)
	w.Observe("speak", time.Millisecond)
	w.Reset()
	if snap := w.Snapshot(); len(snap.Stages) != 0 {
		t.Fatalf("Stages after Reset = %d, want 0", len(snap.Stages))
	}
}

func TestStageWindowNilSafe(t *testing.T) {
	var w *StageWindow
	w.Observe("detect", time.Millisecond)
	w.ObserveIndicator("x")
	w.Reset()
}
