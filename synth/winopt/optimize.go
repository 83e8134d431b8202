package winopt

import (
	"math"

	"github.com/nexussynth/nexussynth/dsp/window"
)

// Quality scores a candidate window for ranking across optimization
// passes: lower sidelobe level and narrower ENBW both raise the score.
type Quality struct {
	SidelobeDB float64
	ENBW       float64
	Score      float64
}

// ScoreQuality evaluates coeffs with dsp/window's numerical Analyze.
func ScoreQuality(coeffs []float64) Quality {
	a := window.Analyze(coeffs)
	return Quality{
		SidelobeDB: a.HighestSidelobedB,
		ENBW:       a.ENBW,
		Score:      -a.HighestSidelobedB - a.ENBW,
	}
}

// SuppressPreEcho tapers the leading tailFraction of coeffs with an
// additional quarter-cosine ramp from 0 to 1, curbing the pre-echo that a
// symmetric window otherwise lets leak ahead of a transient onset.
func SuppressPreEcho(coeffs []float64, tailFraction float64) []float64 {
	if tailFraction <= 0 || len(coeffs) == 0 {
		return coeffs
	}

	n := len(coeffs)
	tail := int(float64(n) * tailFraction)
	if tail < 1 {
		return coeffs
	}
	if tail > n {
		tail = n
	}

	out := append([]float64(nil), coeffs...)
	for i := 0; i < tail; i++ {
		ramp := 0.5 - 0.5*math.Cos(math.Pi*float64(i)/float64(tail))
		out[i] *= ramp
	}
	return out
}

// MinimizeSpectralLeakage searches a small set of alpha/beta candidates
// for a parametric window type and returns the coefficients with the
// lowest peak sidelobe level found by dsp/window's Analyze.
func MinimizeSpectralLeakage(t window.Type, length int, alphaCandidates []float64) []float64 {
	best := window.Generate(t, length)
	bestSidelobe := window.Analyze(best).HighestSidelobedB

	for _, alpha := range alphaCandidates {
		cand := window.Generate(t, length, window.WithAlpha(alpha))
		if len(cand) != length {
			continue
		}
		sidelobe := window.Analyze(cand).HighestSidelobedB
		if sidelobe < bestSidelobe {
			best = cand
			bestSidelobe = sidelobe
		}
	}

	return best
}

// CorrectForOverlapAdd rescales coeffs so the average per-phase sum of
// squared samples spaced hop apart approximates unity, correcting the
// amplitude modulation overlap-add reconstruction would otherwise leave
// in the resynthesized signal at this hop size.
func CorrectForOverlapAdd(coeffs []float64, hop int) []float64 {
	if hop <= 0 || len(coeffs) == 0 {
		return coeffs
	}

	phaseSumSq := make([]float64, hop)
	for i, v := range coeffs {
		phaseSumSq[i%hop] += v * v
	}

	mean := 0.0
	for _, s := range phaseSumSq {
		mean += s
	}
	mean /= float64(hop)
	if mean <= 0 {
		return coeffs
	}

	gain := 1 / math.Sqrt(mean)
	out := make([]float64, len(coeffs))
	for i, v := range coeffs {
		out[i] = v * gain
	}
	return out
}

// Optimize runs the full selection + optimization pipeline for a frame:
// content analysis picks the base window type, then pre-echo suppression,
// spectral-leakage minimization, and overlap-add correction are applied in
// that order. hop is the synthesis hop size in samples; alphaCandidates
// may be nil to skip the leakage-minimization search.
func Optimize(frame []float64, sampleRate float64, length, hop int, alphaCandidates []float64) ([]float64, Selection, Quality) {
	analysis := Analyze(frame, sampleRate)
	sel := SelectOptimalWindowType(analysis)

	coeffs := sel.Generate(length)

	if analysis.TransientFactor >= 0.5 {
		coeffs = SuppressPreEcho(coeffs, 0.125)
	}

	if len(alphaCandidates) > 0 {
		coeffs = MinimizeSpectralLeakage(sel.Type, length, alphaCandidates)
	}

	coeffs = CorrectForOverlapAdd(coeffs, hop)

	return coeffs, sel, ScoreQuality(coeffs)
}
