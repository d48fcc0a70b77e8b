package engine

import (
	"context"
	"math"
	"testing"

	"github.com/MrDoe/lyrehero/internal/noisefloor"
	"github.com/MrDoe/lyrehero/internal/smoother"
)

const testSampleRate = 44100.0

// fakeFrontEnd feeds a fixed time-domain window and spectrum to the
// pipeline, standing in for real PortAudio capture in tests.
type fakeFrontEnd struct {
	samples    []float64
	binWidthHz float64
	started    bool
}

func (f *fakeFrontEnd) Start() error   { f.started = true; return nil }
func (f *fakeFrontEnd) Stop()          { f.started = false }
func (f *fakeFrontEnd) SetGain(x float64) {}
func (f *fakeFrontEnd) TimeWindow() []float64 { return f.samples }
func (f *fakeFrontEnd) BinWidthHz() float64   { return f.binWidthHz }

// MagnitudeSpectrumDB computes a real spectrum from samples so
// SpectralFlatness/HarmonicPresence see realistic data.
func (f *fakeFrontEnd) MagnitudeSpectrumDB() []float64 {
	n := len(f.samples)
	out := make([]float64, n/2+1)
	for k := range out {
		var re, im float64
		for i, s := range f.samples {
			angle := -2 * math.Pi * float64(k) * float64(i) / float64(n)
			re += s * math.Cos(angle)
			im += s * math.Sin(angle)
		}
		mag := math.Hypot(re, im)
		out[k] = 20 * math.Log10(mag+1e-12)
	}
	return out
}

func sineWindow(freq float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / testSampleRate)
	}
	return out
}

func silenceWindow(n int) []float64 {
	return make([]float64, n)
}

func newTestEngine(samples []float64) (*Engine, *fakeFrontEnd) {
	fe := &fakeFrontEnd{samples: samples, binWidthHz: testSampleRate / float64(len(samples))}
	e := &Engine{
		capture:          fe,
		sampleRate:       testSampleRate,
		RMSThreshold:     DefaultConfig().RMSThreshold,
		ClarityThreshold: DefaultConfig().ClarityThreshold,
		noiseFloor:       noisefloor.New(),
		smoother:         smoother.New(),
	}
	return e, fe
}

func TestDetectPitchNilWhenNotRunning(t *testing.T) {
	e, _ := newTestEngine(sineWindow(440, 2048))
	if got := e.DetectPitch(); got != nil {
		t.Fatalf("DetectPitch() = %+v, want nil before Start", got)
	}
}

func TestDetectPitchSilenceYieldsEmptyNote(t *testing.T) {
	e, _ := newTestEngine(silenceWindow(2048))
	e.running = true
	frame := e.DetectPitch()
	if frame == nil {
		t.Fatal("DetectPitch() = nil while running")
	}
	if frame.Note != "" {
		t.Errorf("Note = %q on silence, want empty", frame.Note)
	}
}

func TestDetectPitchPureA4YieldsA4(t *testing.T) {
	e, _ := newTestEngine(sineWindow(440, 4096))
	e.running = true
	var frame *DetectionFrame
	for i := 0; i < 5; i++ {
		frame = e.DetectPitch()
	}
	if frame.Note != "A4" {
		t.Errorf("Note = %q, want A4 (stable freq %.2f)", frame.Note, frame.Frequency)
	}
}

func TestDetectPitchStartStopIdempotent(t *testing.T) {
	e, fe := newTestEngine(sineWindow(440, 2048))

	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := e.Start(context.Background()); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if !fe.started {
		t.Error("front end never started")
	}

	e.Stop()
	e.Stop()
	if fe.started {
		t.Error("front end still marked started after Stop")
	}
	if e.DetectPitch() != nil {
		t.Error("DetectPitch after Stop should be nil")
	}
}

func TestStartRejectsCanceledContext(t *testing.T) {
	e, _ := newTestEngine(sineWindow(440, 2048))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := e.Start(ctx); err == nil {
		t.Error("Start with canceled context should fail")
	}
}

func TestDetectPitchOutOfBandRejected(t *testing.T) {
	// 60Hz hum sits well below FMinLyre/pitch.FMin: the classifier must
	// reject it even though the NSDF may still find a period.
	e, _ := newTestEngine(sineWindow(60, 4096))
	e.running = true
	var frame *DetectionFrame
	for i := 0; i < 5; i++ {
		frame = e.DetectPitch()
	}
	if frame.Note != "" {
		t.Errorf("Note = %q for 60Hz hum, want empty", frame.Note)
	}
}

