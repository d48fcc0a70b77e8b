// Package audio wraps PortAudio input capture with the RBJ biquad
// conditioning cascade and FFT magnitude spectrum the pitch and feature
// stages are built on.
package audio

import (
	"errors"
	"math"
	"math/cmplx"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// ErrCaptureUnavailable is returned by Start when no input device can be
// opened. TimeWindow and MagnitudeSpectrumDB return no error; before a
// successful Start they read an all-zero window.
var ErrCaptureUnavailable = errors.New("audio: capture device unavailable")

const (
	// WindowSize is the length, in samples, of the sliding time-domain
	// window exposed to the pitch and feature stages.
	WindowSize = 8192

	highPassHz = 150.0
	lowPassHz  = 1200.0
	filterQ    = 0.7
	minGain    = 0.5
	maxGain    = 5.0
)

// CaptureConfig bundles the parameters needed to construct a Capture:
// sample rate, channel count, FFT size, and the allowed gain range and
// startup gain. FFTSize is expected to equal WindowSize (8192); it is
// carried on the config rather than hard-coded so CaptureConfig fully
// describes the front-end the way spec.md §3 documents it.
type CaptureConfig struct {
	SampleRate  float64
	Channels    int
	FFTSize     int
	MinGain     float64
	MaxGain     float64
	DefaultGain float64
}

// DefaultCaptureConfig returns the standard 48kHz mono configuration.
func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		SampleRate:  48000.0,
		Channels:    1,
		FFTSize:     WindowSize,
		MinGain:     minGain,
		MaxGain:     maxGain,
		DefaultGain: 1.5,
	}
}

// Capture owns one PortAudio input stream, conditions every incoming
// sample through a high-pass/low-pass biquad cascade and gain stage, and
// exposes the result as a sliding time window and FFT magnitude spectrum.
type Capture struct {
	cfg CaptureConfig

	mu       sync.Mutex
	gain     float64
	minGain  float64
	maxGain  float64
	highpass *biquad
	lowpass  *biquad

	window *ring

	stream  *portaudio.Stream
	running bool
}

// New creates a Capture from cfg. It does not open any device until Start
// is called.
func New(cfg CaptureConfig) *Capture {
	fftSize := cfg.FFTSize
	if fftSize <= 0 {
		fftSize = WindowSize
	}
	return &Capture{
		cfg:      cfg,
		gain:     cfg.DefaultGain,
		minGain:  cfg.MinGain,
		maxGain:  cfg.MaxGain,
		highpass: newHighPass(highPassHz, filterQ, cfg.SampleRate),
		lowpass:  newLowPass(lowPassHz, filterQ, cfg.SampleRate),
		window:   newRing(fftSize),
	}
}

// SetGain clamps x to the configured gain range and applies it to every
// sample processed from this point on.
func (c *Capture) SetGain(x float64) {
	if x < c.minGain {
		x = c.minGain
	}
	if x > c.maxGain {
		x = c.maxGain
	}
	c.mu.Lock()
	c.gain = x
	c.mu.Unlock()
}

// Start opens the default input device and begins filling the time window.
// It is idempotent: calling Start while already running is a no-op.
func (c *Capture) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return ErrCaptureUnavailable
	}
	framesPerBuffer := c.window.capacity() / 8
	stream, err := portaudio.OpenDefaultStream(
		c.cfg.Channels, 0, c.cfg.SampleRate, framesPerBuffer, c.onAudio,
	)
	if err != nil {
		portaudio.Terminate()
		return ErrCaptureUnavailable
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return ErrCaptureUnavailable
	}
	c.stream = stream
	c.running = true
	return nil
}

// Stop closes the stream. It is idempotent.
func (c *Capture) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.stream.Stop()
	c.stream.Close()
	portaudio.Terminate()
	c.stream = nil
	c.running = false
	c.highpass.reset()
	c.lowpass.reset()
	c.window.reset()
}

// onAudio is the PortAudio callback. It downmixes multi-channel input to
// mono, runs the conditioning cascade, and appends into the sliding window.
func (c *Capture) onAudio(in, _ []float32) {
	c.mu.Lock()
	gain := c.gain
	c.mu.Unlock()

	channels := c.cfg.Channels
	mono := make([]float64, len(in)/channels)
	for i := range mono {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += float64(in[i*channels+ch])
		}
		x := (sum / float64(channels)) * gain
		x = c.highpass.process(x)
		x = c.lowpass.process(x)
		mono[i] = x
	}
	c.window.write(mono)
}

// TimeWindow returns a copy of the most recent WindowSize samples, oldest
// first.
func (c *Capture) TimeWindow() []float64 {
	return c.window.snapshot()
}

// MagnitudeSpectrumDB returns the Hann-windowed FFT magnitude spectrum of
// the current time window, in dB, covering bins 0..WindowSize/2-1 (the
// Nyquist bin itself is dropped, so the spectrum length is exactly half
// the time window).
func (c *Capture) MagnitudeSpectrumDB() []float64 {
	samples := c.window.snapshot()
	window.Apply(samples, window.Hann)
	spectrum := fft.FFTReal(samples)
	n := len(spectrum) / 2
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		mag := cmplx.Abs(spectrum[i])
		out[i] = 20 * math.Log10(mag+1e-12)
	}
	return out
}

// BinWidthHz returns the frequency spacing between adjacent bins of
// MagnitudeSpectrumDB.
func (c *Capture) BinWidthHz() float64 {
	return c.cfg.SampleRate / float64(c.window.capacity())
}

// SampleRate returns the configured capture sample rate.
func (c *Capture) SampleRate() float64 { return c.cfg.SampleRate }
