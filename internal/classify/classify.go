// Package classify fuses the pitch estimate and corroborating features into
// an accept/reject decision and, when accepted, maps the fundamental to the
// nearest lyre note.
package classify

import (
	"github.com/MrDoe/lyrehero/internal/features"
	"github.com/MrDoe/lyrehero/internal/notetable"
)

// CentsTolerance is the maximum cents distance from a lyre note's reference
// frequency that still counts as a match.
const CentsTolerance = 50.0

// MaxZCR rejects broadband noise: anything noisier than this fraction of
// adjacent-sample sign changes cannot be a plucked string note.
const MaxZCR = 0.3

// Input bundles everything the gate needs to make its decision for one
// frame.
type Input struct {
	Frequency          float64
	Clarity            float64
	RMS                float64
	ZCR                float64
	SpectralFlatness   float64
	HarmonicPresent    bool
	EffectiveThreshold float64
	ClarityThreshold   float64
}

// Note returns the classified note name for one frame, or "" if the frame
// fails any gate. The returned name, if non-empty, is always a member of
// notetable.LyreSet.
func Note(in Input) string {
	if in.RMS <= in.EffectiveThreshold {
		return ""
	}
	if in.Clarity <= in.ClarityThreshold {
		return ""
	}
	if in.ZCR > MaxZCR {
		return ""
	}
	if in.Frequency < features.FMinLyre || in.Frequency > features.FMaxLyre {
		return ""
	}
	if !(in.SpectralFlatness < 0.3 || in.HarmonicPresent) {
		return ""
	}

	name, cents := notetable.NearestLyreNote(in.Frequency)
	if cents > CentsTolerance {
		return ""
	}
	return name
}
