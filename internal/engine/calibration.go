package engine

import "math"

// noiseCalibrationSamples is how many DetectPitch frames the noise
// calibration wizard averages RMS over.
const noiseCalibrationSamples = 30

// noteCalibrationSamples is how many DetectPitch frames the note
// calibration wizard collects clarity samples over.
const noteCalibrationSamples = 30

// CalibrateNoise runs the ambient-noise wizard: the caller feeds
// noiseCalibrationSamples worth of DetectPitch frames captured while the
// player is silent, and CalibrateNoise sets RMSThreshold from their
// average RMS. sampleRMS is called once per frame the wizard wants; it
// exists so the host can drive the polling loop (tea.Tick, a plain loop,
// whatever) while this function stays free of any UI concern.
func (e *Engine) CalibrateNoise(sampleRMS func() float64) {
	var sum float64
	for i := 0; i < noiseCalibrationSamples; i++ {
		sum += sampleRMS()
	}
	avg := sum / noiseCalibrationSamples
	threshold := avg * 2.5
	if threshold < 3e-4 {
		threshold = 3e-4
	}
	e.RMSThreshold = threshold
}

// CalibrateNote runs the note-clarity wizard: while the player holds a
// clean note, the gates are temporarily dropped (rmsThreshold to 1e-4,
// clarityThreshold to 5e-3) so a weak note still registers, and sampleFrame
// is polled noteCalibrationSamples times. If any frame reported a stable
// note with clarity above 0.01, ClarityThreshold is set to
// clamp(0.5*bestClarity, 5e-3, 0.3). Otherwise both thresholds are restored
// unchanged and ErrCalibrationFailedNoNote is returned.
func (e *Engine) CalibrateNote(sampleFrame func() *DetectionFrame) error {
	priorRMS, priorClarity := e.RMSThreshold, e.ClarityThreshold
	e.RMSThreshold = 1e-4
	e.ClarityThreshold = 5e-3

	var bestClarity float64
	for i := 0; i < noteCalibrationSamples; i++ {
		frame := sampleFrame()
		if frame == nil || frame.Note == "" || frame.Clarity <= 0.01 {
			continue
		}
		if frame.Clarity > bestClarity {
			bestClarity = frame.Clarity
		}
	}

	if bestClarity <= 0 {
		e.RMSThreshold, e.ClarityThreshold = priorRMS, priorClarity
		return ErrCalibrationFailedNoNote
	}

	e.RMSThreshold = priorRMS
	threshold := 0.5 * bestClarity
	threshold = math.Max(threshold, 5e-3)
	threshold = math.Min(threshold, 0.3)
	e.ClarityThreshold = threshold
	return nil
}
