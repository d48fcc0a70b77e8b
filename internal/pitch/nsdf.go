// Package pitch implements the normalized-square-difference-function (NSDF)
// fundamental frequency estimator described in the engine's DSP pipeline.
package pitch

const (
	// FMin and FMax bound the period search; anything outside this band is
	// not a candidate fundamental for the lyre.
	FMin = 100.0
	FMax = 1200.0

	// PeakThreshold is the minimum NSDF value a local maximum must clear to
	// be considered a candidate period.
	PeakThreshold = 0.2

	maxAnalysisLength = 2048
	maxCompareLength  = 512
)

// Estimate is the result of one NSDF pass: the fundamental frequency
// estimate in Hz and a clarity score in [0,1] (0 when nothing was found).
type Estimate struct {
	Frequency float64
	Clarity   float64
}

// Detect runs the NSDF pitch estimator over window x sampled at sampleRate
// Hz, following spec §4.2 exactly:
//  1. restrict the period search to [minTau, maxTau] derived from FMin/FMax
//  2. compute the normalized autocorrelation n(tau) over a capped compare
//     length
//  3. collect local maxima above PeakThreshold
//  4. parabolic-interpolate each maximum
//  5. apply the ascending-tau octave-safety rule to pick the fundamental
//     among near-equal peaks, preferring the one with the shortest period
func Detect(x []float64, sampleRate float64) Estimate {
	minTau := int(sampleRate / FMax)
	maxTau := int(sampleRate / FMin)
	if minTau < 1 {
		minTau = 1
	}
	if maxTau <= minTau {
		return Estimate{}
	}

	analysisLen := len(x)
	if analysisLen > maxAnalysisLength {
		analysisLen = maxAnalysisLength
	}
	if analysisLen <= maxTau {
		// Not enough samples to search the whole tau range; shrink maxTau
		// so the compare window still fits inside the analysis length.
		maxTau = analysisLen - 1
		if maxTau <= minTau {
			return Estimate{}
		}
	}
	window := x[:analysisLen]

	// nsdf[tau-minTau] holds n(tau) for tau in [minTau, maxTau].
	nsdf := make([]float64, maxTau-minTau+1)
	for tau := minTau; tau <= maxTau; tau++ {
		compareLen := analysisLen - tau
		if compareLen > maxCompareLength {
			compareLen = maxCompareLength
		}
		if compareLen <= 0 {
			nsdf[tau-minTau] = 0
			continue
		}
		var cross, energy float64
		for i := 0; i < compareLen; i++ {
			a := window[i]
			b := window[i+tau]
			cross += a * b
			energy += a*a + b*b
		}
		if energy <= 1e-7 {
			nsdf[tau-minTau] = 0
			continue
		}
		nsdf[tau-minTau] = 2 * cross / energy
	}

	type refinedPeak struct {
		period float64
		value  float64
	}
	var peaks []refinedPeak

	for k := 1; k < len(nsdf)-1; k++ {
		v := nsdf[k]
		if v <= PeakThreshold {
			continue
		}
		if v <= nsdf[k-1] || v <= nsdf[k+1] {
			continue
		}
		prev, cur, next := nsdf[k-1], nsdf[k], nsdf[k+1]
		denom := prev - 2*cur + next
		var delta float64
		if denom != 0 {
			delta = 0.5 * (prev - next) / denom
		}
		refinedPeriod := float64(minTau+k) + delta
		refinedValue := cur - 0.25*(prev-next)*delta
		peaks = append(peaks, refinedPeak{period: refinedPeriod, value: refinedValue})
	}

	if len(peaks) == 0 {
		return Estimate{}
	}

	maxValue := peaks[0].value
	for _, p := range peaks[1:] {
		if p.value > maxValue {
			maxValue = p.value
		}
	}

	// Octave-safety: peaks were appended in ascending tau (ascending
	// period, descending frequency) order already, so the first one that
	// clears 0.8*max is the shortest-period (highest-frequency) candidate
	// strong enough to be the fundamental; longer-period peaks at multiples
	// of it are subharmonics.
	chosen := peaks[0]
	for _, p := range peaks {
		if p.value >= 0.8*maxValue {
			chosen = p
			break
		}
	}

	if chosen.period <= 0 {
		return Estimate{}
	}
	freq := sampleRate / chosen.period
	if freq < FMin {
		freq = FMin
	}
	if freq > FMax {
		freq = FMax
	}
	clarity := chosen.value
	if clarity < 0 {
		clarity = 0
	}
	if clarity > 1 {
		clarity = 1
	}
	return Estimate{Frequency: freq, Clarity: clarity}
}
