// Package features computes the per-frame corroborating signals — RMS,
// zero-crossing rate, spectral flatness, and harmonic presence — that the
// gating stage fuses to reject non-musical input.
package features

import "math"

const (
	// FMinLyre and FMaxLyre bound the band spectral flatness is measured
	// over; it matches the classifier's accepted frequency band.
	FMinLyre = 165.0
	FMaxLyre = 1100.0

	zcrWindowSamples = 2048
)

// Frame bundles the per-frame corroborating features alongside the pitch
// estimate they were computed against.
type Frame struct {
	RMS              float64
	ZCR              float64
	SpectralFlatness float64
	HarmonicPresent  bool
}

// RMS computes the root-mean-square amplitude over the whole window.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sumSquares float64
	for _, s := range x {
		sumSquares += s * s
	}
	return math.Sqrt(sumSquares / float64(len(x)))
}

// ZCR computes the zero-crossing rate over the first 2048 samples of x (or
// the whole window if shorter).
func ZCR(x []float64) float64 {
	n := len(x)
	if n > zcrWindowSamples {
		n = zcrWindowSamples
	}
	if n < 2 {
		return 0
	}
	crossings := 0
	for i := 1; i < n; i++ {
		if (x[i-1] >= 0) != (x[i] >= 0) {
			crossings++
		}
	}
	return float64(crossings) / float64(n)
}

// SpectralFlatness computes the Wiener entropy (geometric mean / arithmetic
// mean of linear power) over the spectrum bins that fall inside
// [FMinLyre, FMaxLyre], given a magnitude spectrum in dB and the frequency
// resolution binWidthHz of that spectrum.
func SpectralFlatness(spectrumDB []float64, binWidthHz float64) float64 {
	if binWidthHz <= 0 {
		return 1.0
	}
	var (
		sumLog    float64
		sumLinear float64
		count     int
	)
	for i, db := range spectrumDB {
		freq := float64(i) * binWidthHz
		if freq < FMinLyre || freq > FMaxLyre {
			continue
		}
		p := math.Pow(10, db/10)
		sumLog += math.Log(p + 1e-10)
		sumLinear += p
		count++
	}
	if count == 0 {
		return 1.0
	}
	arithMean := sumLinear / float64(count)
	if arithMean <= 0 {
		return 1.0
	}
	geoMean := math.Exp(sumLog / float64(count))
	flatness := geoMean / arithMean
	if flatness < 0 {
		flatness = 0
	}
	if flatness > 1 {
		flatness = 1
	}
	return flatness
}

// HarmonicPresence checks whether at least one of the 2nd or 3rd harmonic
// of fundamental has a spectral peak within 25 dB of the fundamental's own
// magnitude.
func HarmonicPresence(spectrumDB []float64, binWidthHz, fundamental float64) bool {
	if binWidthHz <= 0 || fundamental <= 0 || len(spectrumDB) == 0 {
		return false
	}
	fundamentalBin := clampBin(int(math.Round(fundamental/binWidthHz)), len(spectrumDB))
	fundamentalMag := spectrumDB[fundamentalBin]

	present := 0
	for _, k := range []int{2, 3} {
		expectedBin := int(math.Round(float64(k) * fundamental / binWidthHz))
		halfWidth := int(math.Round(float64(k) * fundamental * 0.08 / binWidthHz))
		if halfWidth < 1 {
			halfWidth = 1
		}
		lo := clampBin(expectedBin-halfWidth, len(spectrumDB))
		hi := clampBin(expectedBin+halfWidth, len(spectrumDB))
		peak := math.Inf(-1)
		for i := lo; i <= hi; i++ {
			if spectrumDB[i] > peak {
				peak = spectrumDB[i]
			}
		}
		if math.Abs(peak-fundamentalMag) <= 25 {
			present++
		}
	}
	return present >= 1
}

func clampBin(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// Compute bundles all four features for one analysis frame.
func Compute(window []float64, spectrumDB []float64, binWidthHz, fundamental float64) Frame {
	return Frame{
		RMS:              RMS(window),
		ZCR:              ZCR(window),
		SpectralFlatness: SpectralFlatness(spectrumDB, binWidthHz),
		HarmonicPresent:  HarmonicPresence(spectrumDB, binWidthHz, fundamental),
	}
}
