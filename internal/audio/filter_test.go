package audio

import (
	"math"
	"testing"
)

func TestHighPassAttenuatesDC(t *testing.T) {
	f := newHighPass(150, 0.7, 48000)
	var last float64
	for i := 0; i < 2000; i++ {
		last = f.process(1.0)
	}
	if math.Abs(last) > 0.01 {
		t.Errorf("steady DC input leaked through high-pass: %v", last)
	}
}

func TestLowPassAttenuatesHighFrequency(t *testing.T) {
	f := newLowPass(1200, 0.7, 48000)
	sampleRate := 48000.0
	freq := 8000.0
	var maxOut float64
	for i := 0; i < 4000; i++ {
		x := math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
		y := f.process(x)
		if i > 1000 && math.Abs(y) > maxOut {
			maxOut = math.Abs(y)
		}
	}
	if maxOut > 0.2 {
		t.Errorf("8kHz tone insufficiently attenuated by 1200Hz low-pass: peak %v", maxOut)
	}
}

func TestLowPassPassesLowFrequencyMostly(t *testing.T) {
	f := newLowPass(1200, 0.7, 48000)
	sampleRate := 48000.0
	freq := 220.0
	var maxOut float64
	for i := 0; i < 4000; i++ {
		x := math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
		y := f.process(x)
		if i > 1000 && math.Abs(y) > maxOut {
			maxOut = math.Abs(y)
		}
	}
	if maxOut < 0.7 {
		t.Errorf("220Hz tone excessively attenuated by 1200Hz low-pass: peak %v", maxOut)
	}
}
