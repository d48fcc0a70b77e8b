package smoother

import (
	"math"
	"testing"
)

func TestEmptyBeforeHistoryFull(t *testing.T) {
	s := New()
	for i := 0; i < HistorySize-1; i++ {
		note, _ := s.Push("A4", 440)
		if note != "" {
			t.Errorf("frame %d: note = %q, want empty before history full", i, note)
		}
	}
}

func TestStableAfterMajority(t *testing.T) {
	s := New()
	var note string
	for i := 0; i < HistorySize; i++ {
		note, _ = s.Push("A4", 440)
	}
	if note != "A4" {
		t.Errorf("note = %q, want A4", note)
	}
}

func TestStableRequiresMajorityNotPlurality(t *testing.T) {
	s := New()
	seq := []string{"A4", "A4", "B4", "C4", "D4"}
	var note string
	for _, n := range seq {
		note, _ = s.Push(n, 440)
	}
	if note != "" {
		t.Errorf("note = %q, want empty (no name reaches required consistency of 3)", note)
	}
}

func TestStableFrequencyIsMedian(t *testing.T) {
	s := New()
	freqs := []float64{440, 441, 439, 450, 430}
	var freq float64
	for _, f := range freqs {
		_, freq = s.Push("A4", f)
	}
	if math.Abs(freq-440) > 1e-9 {
		t.Errorf("stable frequency = %v, want 440 (median)", freq)
	}
}

func TestResetClearsHistory(t *testing.T) {
	s := New()
	for i := 0; i < HistorySize; i++ {
		s.Push("A4", 440)
	}
	s.Reset()
	note, _ := s.Push("A4", 440)
	if note != "" {
		t.Errorf("note after reset+1 push = %q, want empty", note)
	}
}
