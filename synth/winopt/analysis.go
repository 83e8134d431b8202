package winopt

import (
	"math"

	"github.com/nexussynth/nexussynth/measure/thd"
	"github.com/nexussynth/nexussynth/stats/frequency"
	timestats "github.com/nexussynth/nexussynth/stats/time"

	"github.com/nexussynth/nexussynth/dsp/fft"
	"github.com/nexussynth/nexussynth/dsp/spectrum"
)

// ContentAnalysis summarizes a frame's spectral content for window
// selection.
type ContentAnalysis struct {
	SpectralCentroidHz float64
	HarmonicRatio      float64 // 0..1, higher means more harmonic/periodic
	TransientFactor     float64 // 0..1, higher means more transient/percussive
	DynamicRangeDB      float64
	HasFormants         bool
}

// formantPeakSpan is the number of neighboring bins on either side of a
// candidate bin that must be lower for it to count as a formant peak.
const formantPeakSpan = 2

// Analyze computes a ContentAnalysis from a real time-domain frame and its
// sample rate. The frame is zero-padded to the next composite FFT size
// internally; the caller's slice is not modified.
func Analyze(frame []float64, sampleRate float64) ContentAnalysis {
	if len(frame) == 0 || sampleRate <= 0 {
		return ContentAnalysis{}
	}

	n := fft.NextCompositeSize(len(frame))
	padded := fft.ZeroPadReal(frame, n)

	m := fft.NewManager(fft.DefaultConfig())
	full, ok := m.ForwardReal(padded)
	if !ok {
		return ContentAnalysis{}
	}
	half := full[:n/2+1]
	magnitude := spectrum.Magnitude(half)

	freqStats := frequency.AnalyzeSpectrum(magnitude, sampleRate)
	timeStats := timestats.AnalyzeTimeDomain(frame)

	thdCfg := thd.Config{SampleRate: sampleRate, FFTSize: n}
	thdResult := thd.AnalyzeSignal(frame, thdCfg)
	harmonicRatio := 1 / (1 + thdResult.THD)
	if math.IsNaN(harmonicRatio) || math.IsInf(harmonicRatio, 0) {
		harmonicRatio = 0
	}

	// A sine wave has a crest factor of sqrt(2); normalize around that
	// baseline and clamp so broadband/transient content saturates at 1.
	transient := (timeStats.CrestFactor - math.Sqrt2) / math.Sqrt2
	transient = clamp01(transient)

	return ContentAnalysis{
		SpectralCentroidHz: freqStats.Centroid,
		HarmonicRatio:      clamp01(harmonicRatio),
		TransientFactor:     transient,
		DynamicRangeDB:      timeStats.Range_dB,
		HasFormants:         detectFormants(magnitude),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// detectFormants runs a 5-point local-peak test over the magnitude
// spectrum: a bin counts as a formant candidate when it exceeds both of
// its neighbors formantPeakSpan bins out on either side.
func detectFormants(magnitude []float64) bool {
	n := len(magnitude)
	if n < 2*formantPeakSpan+1 {
		return false
	}

	peakThreshold := 0.0
	for _, v := range magnitude {
		if v > peakThreshold {
			peakThreshold = v
		}
	}
	peakThreshold *= 0.1 // ignore peaks below 10% of the spectrum's max

	for i := formantPeakSpan; i < n-formantPeakSpan; i++ {
		center := magnitude[i]
		if center < peakThreshold {
			continue
		}
		isPeak := true
		for d := 1; d <= formantPeakSpan; d++ {
			if magnitude[i-d] >= center || magnitude[i+d] >= center {
				isPeak = false
				break
			}
		}
		if isPeak {
			return true
		}
	}
	return false
}
