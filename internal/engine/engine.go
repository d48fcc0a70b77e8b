// Package engine wires the audio front-end, NSDF pitch estimator, feature
// gate, adaptive noise floor, and temporal smoother into the single
// DetectPitch call the host driver polls once per display frame.
package engine

import (
	"context"
	"errors"

	"github.com/MrDoe/lyrehero/internal/audio"
	"github.com/MrDoe/lyrehero/internal/classify"
	"github.com/MrDoe/lyrehero/internal/features"
	"github.com/MrDoe/lyrehero/internal/noisefloor"
	"github.com/MrDoe/lyrehero/internal/pitch"
	"github.com/MrDoe/lyrehero/internal/smoother"
)

// ErrCaptureUnavailable is returned by Start when the audio front-end could
// not open an input device.
var ErrCaptureUnavailable = audio.ErrCaptureUnavailable

// ErrConfigLoadFailed is returned by config stores on a non-fatal load
// failure; the engine falls back to DefaultConfig in that case.
var ErrConfigLoadFailed = errors.New("engine: config load failed")

// ErrCalibrationFailedNoNote is returned by CalibrateNote when no
// sufficiently clear note was held during the calibration window.
var ErrCalibrationFailedNoNote = errors.New("engine: calibration found no clear note")

// Config holds the tunable thresholds and knobs a session may persist.
type Config struct {
	RMSThreshold     float64 `json:"rmsThreshold"`
	ClarityThreshold float64 `json:"clarityThreshold"`
	HoldDurationMs   int     `json:"holdDurationMs"`
	Gain             float64 `json:"gain"`
}

// DefaultConfig is used whenever no persisted config is available.
func DefaultConfig() Config {
	return Config{
		RMSThreshold:     5e-4,
		ClarityThreshold: 0.01,
		HoldDurationMs:   100,
		Gain:             1.5,
	}
}

// DetectionFrame is one frame of the engine's output: the smoothed note
// name (empty if nothing stable was detected) and the diagnostic values
// behind it, useful for the host's live display and calibration wizards.
type DetectionFrame struct {
	Note             string
	Frequency        float64
	Clarity          float64
	RMS              float64
	EffectiveRMSGate float64
}

// frontEnd is the subset of *audio.Capture the pipeline depends on. Tests
// substitute a synthetic implementation so DetectPitch can be exercised
// with sine/noise fixtures instead of a real microphone.
type frontEnd interface {
	Start() error
	Stop()
	SetGain(x float64)
	TimeWindow() []float64
	MagnitudeSpectrumDB() []float64
	BinWidthHz() float64
}

// Engine is the top-level detection pipeline. RMSThreshold and
// ClarityThreshold are exported so calibration and config loading can
// adjust them directly.
type Engine struct {
	capture frontEnd

	sampleRate float64

	RMSThreshold     float64
	ClarityThreshold float64

	noiseFloor *noisefloor.Tracker
	smoother   *smoother.Smoother

	running bool
}

// New creates an Engine over a capture device configured by captureCfg,
// applying cfg's thresholds and gain.
func New(captureCfg audio.CaptureConfig, cfg Config) *Engine {
	e := &Engine{
		capture:          audio.New(captureCfg),
		sampleRate:       captureCfg.SampleRate,
		RMSThreshold:     cfg.RMSThreshold,
		ClarityThreshold: cfg.ClarityThreshold,
		noiseFloor:       noisefloor.New(),
		smoother:         smoother.New(),
	}
	e.capture.SetGain(cfg.Gain)
	return e
}

// Start opens the audio front-end. ctx is honored for cancellation of any
// setup performed before the stream is running; the stream itself keeps
// delivering callbacks until Stop is called.
func (e *Engine) Start(ctx context.Context) error {
	if e.running {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.capture.Start(); err != nil {
		return err
	}
	e.running = true
	return nil
}

// Stop closes the audio front-end and resets the noise floor and smoother
// history to their startup state. It is idempotent.
func (e *Engine) Stop() {
	if !e.running {
		return
	}
	e.capture.Stop()
	e.noiseFloor.Reset()
	e.smoother.Reset()
	e.running = false
}

// SetGain forwards to the audio front-end, clamping to [0.5, 5.0].
func (e *Engine) SetGain(x float64) {
	e.capture.SetGain(x)
}

// DetectPitch runs one full pass of the pipeline over the current capture
// window: NSDF pitch estimate, feature extraction, adaptive-floor gating,
// classification, and temporal smoothing. It returns nil only when the
// engine is not running.
func (e *Engine) DetectPitch() *DetectionFrame {
	if !e.running {
		return nil
	}

	timeWindow := e.capture.TimeWindow()
	spectrumDB := e.capture.MagnitudeSpectrumDB()
	binWidth := e.capture.BinWidthHz()

	est := pitch.Detect(timeWindow, e.sampleRate)
	feat := features.Compute(timeWindow, spectrumDB, binWidth, est.Frequency)

	// effectiveGate reads the floor before this frame's RMS is folded in, so
	// the gate trails the floor by one frame. Once the tracker has seen 10
	// frames, loud frames are excluded from the floor (see noisefloor);
	// during the first 10 frames every RMS, loud or not, enters the floor.
	effectiveGate := e.noiseFloor.EffectiveThreshold(e.RMSThreshold)
	e.noiseFloor.Update(feat.RMS)

	rawNote := classify.Note(classify.Input{
		Frequency:          est.Frequency,
		Clarity:            est.Clarity,
		RMS:                feat.RMS,
		ZCR:                feat.ZCR,
		SpectralFlatness:   feat.SpectralFlatness,
		HarmonicPresent:    feat.HarmonicPresent,
		EffectiveThreshold: effectiveGate,
		ClarityThreshold:   e.ClarityThreshold,
	})

	stableNote, stableFreq := e.smoother.Push(rawNote, est.Frequency)

	return &DetectionFrame{
		Note:             stableNote,
		Frequency:        stableFreq,
		Clarity:          est.Clarity,
		RMS:              feat.RMS,
		EffectiveRMSGate: effectiveGate,
	}
}

// SpectrumSnapshot is one magnitude-spectrum reading for the host's live
// display: the dB-scaled FFT bins and the frequency spacing between them.
type SpectrumSnapshot struct {
	Bins       []float64
	BinWidthHz float64
}

// SpectrumSnapshot returns the current magnitude spectrum in dB and its bin
// width in Hz, for the host's live display.
func (e *Engine) SpectrumSnapshot() SpectrumSnapshot {
	return SpectrumSnapshot{
		Bins:       e.capture.MagnitudeSpectrumDB(),
		BinWidthHz: e.capture.BinWidthHz(),
	}
}
