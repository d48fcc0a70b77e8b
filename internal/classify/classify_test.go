package classify

import (
	"testing"

	"github.com/MrDoe/lyrehero/internal/notetable"
)

func baseInput() Input {
	f, _ := notetable.FrequencyOf("A4")
	return Input{
		Frequency:          f,
		Clarity:            0.9,
		RMS:                0.05,
		ZCR:                0.05,
		SpectralFlatness:   0.1,
		HarmonicPresent:    true,
		EffectiveThreshold: 5e-4,
		ClarityThreshold:   0.01,
	}
}

func TestAcceptsCleanA4(t *testing.T) {
	got := Note(baseInput())
	if got != "A4" {
		t.Errorf("Note() = %q, want A4", got)
	}
}

func TestRejectsBelowRMSGate(t *testing.T) {
	in := baseInput()
	in.RMS = 1e-5
	if got := Note(in); got != "" {
		t.Errorf("Note() = %q, want empty (below RMS gate)", got)
	}
}

func TestRejectsLowClarity(t *testing.T) {
	in := baseInput()
	in.Clarity = 0.001
	if got := Note(in); got != "" {
		t.Errorf("Note() = %q, want empty (low clarity)", got)
	}
}

func TestRejectsHighZCR(t *testing.T) {
	in := baseInput()
	in.ZCR = 0.5
	if got := Note(in); got != "" {
		t.Errorf("Note() = %q, want empty (broadband noise)", got)
	}
}

func TestRejectsOutOfBand(t *testing.T) {
	in := baseInput()
	in.Frequency = 1400
	if got := Note(in); got != "" {
		t.Errorf("Note() = %q, want empty (out of lyre band)", got)
	}
}

func TestRejectsNoisyAndNoHarmonic(t *testing.T) {
	in := baseInput()
	in.SpectralFlatness = 0.9
	in.HarmonicPresent = false
	if got := Note(in); got != "" {
		t.Errorf("Note() = %q, want empty (noise-like, no harmonic)", got)
	}
}

func TestAcceptsNoisyButHarmonicPresent(t *testing.T) {
	in := baseInput()
	in.SpectralFlatness = 0.9
	in.HarmonicPresent = true
	if got := Note(in); got != "A4" {
		t.Errorf("Note() = %q, want A4 (harmonic presence should override flatness)", got)
	}
}

func TestRejectsBeyondCentsTolerance(t *testing.T) {
	in := baseInput()
	// A quarter-tone sharp of A4 is ~50 cents; push it further out.
	in.Frequency = in.Frequency * 1.06 // ~100 cents sharp
	if got := Note(in); got != "" {
		t.Errorf("Note() = %q, want empty (beyond cents tolerance)", got)
	}
}

func TestNeverReturnsOutsideLyreSet(t *testing.T) {
	in := baseInput()
	got := Note(in)
	if got != "" && !notetable.IsLyreNote(got) {
		t.Errorf("Note() = %q, not a lyre note", got)
	}
}
