package augment

import (
	"math"
	"math/rand"

	"github.com/nexussynth/nexussynth/dsp/core"
	"github.com/nexussynth/nexussynth/dsp/interp"
	"github.com/nexussynth/nexussynth/param"
)

const logFloor = 1e-10

// Result is one augmented ParameterFrame tagged with its transform type
// and the parameters drawn to produce it.
type Result struct {
	Frame    *param.ParameterFrame
	Type     string
	Metadata map[string]float64
}

// Augmentor is the DataAugmentor: it draws random transform parameters
// from a single seeded PRNG and applies a quality gate against the
// untransformed original.
type Augmentor struct {
	cfg Config
	rng *rand.Rand
}

// NewAugmentor returns an Augmentor seeded per cfg.Seed.
func NewAugmentor(cfg Config) *Augmentor {
	return &Augmentor{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// SetSeed resets the PRNG, making subsequent draws reproducible from
// that point.
func (a *Augmentor) SetSeed(seed int64) {
	a.rng = rand.New(rand.NewSource(seed))
}

// Augment produces augmented variants of frame tagged by label, gated
// by quality checks against the original.
func (a *Augmentor) Augment(frame *param.ParameterFrame, label string) ([]Result, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}

	var results []Result

	if a.cfg.PreserveOriginal {
		results = append(results, Result{Frame: cloneFrame(frame, label), Type: "original"})
	}

	if a.cfg.EnablePitchShift {
		s := a.cfg.MinPitchShift + a.rng.Float64()*(a.cfg.MaxPitchShift-a.cfg.MinPitchShift)
		out := a.pitchShift(frame, label, s)
		if a.accept(frame, out) {
			results = append(results, Result{Frame: out, Type: "pitch_shift", Metadata: map[string]float64{"semitones": s}})
		}
	}

	if a.cfg.EnableTimeStretch {
		r := a.cfg.MinTimeStretch + a.rng.Float64()*(a.cfg.MaxTimeStretch-a.cfg.MinTimeStretch)
		out := a.timeStretch(frame, label, r)
		if a.accept(frame, out) {
			results = append(results, Result{Frame: out, Type: "time_stretch", Metadata: map[string]float64{"factor": r}})
		}
	}

	if a.cfg.EnableNoiseInjection && a.rng.Float64() < a.cfg.NoiseProbability {
		db := a.rng.NormFloat64()*5 + a.cfg.NoiseVarianceDB
		db = clamp(db, a.cfg.NoiseVarianceDB-10, a.cfg.NoiseVarianceDB+10)
		out, snrDB := a.injectNoise(frame, label, db)
		if snrDB >= a.cfg.MinSNRDB && a.accept(frame, out) {
			results = append(results, Result{Frame: out, Type: "noise", Metadata: map[string]float64{"noise_db": db, "snr_db": snrDB}})
		}
	}

	if a.cfg.EnableSpectralTilt {
		tiltDB := -a.cfg.SpectralTiltRange + a.rng.Float64()*(2*a.cfg.SpectralTiltRange)
		out := a.spectralTilt(frame, label, tiltDB)
		if a.accept(frame, out) {
			results = append(results, Result{Frame: out, Type: "spectral_tilt", Metadata: map[string]float64{"tilt_db": tiltDB}})
		}
	}

	return results, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func cloneFrame(f *param.ParameterFrame, label string) *param.ParameterFrame {
	out := &param.ParameterFrame{
		SampleRate:    f.SampleRate,
		FramePeriodMs: f.FramePeriodMs,
		FFTSize:       f.FFTSize,
		Length:        f.Length,
		F0:            append([]float64(nil), f.F0...),
		Spectrum:      make([][]float64, f.Length),
		Aperiodicity:  make([][]float64, f.Length),
		Label:         label,
	}
	for t := 0; t < f.Length; t++ {
		out.Spectrum[t] = append([]float64(nil), f.Spectrum[t]...)
		out.Aperiodicity[t] = append([]float64(nil), f.Aperiodicity[t]...)
	}
	return out
}

// pitchShift multiplies every voiced F0 by 2^(s/12), clamped to
// [50, 1000] Hz. Spectrum and aperiodicity are left untouched.
func (a *Augmentor) pitchShift(f *param.ParameterFrame, label string, semitones float64) *param.ParameterFrame {
	out := cloneFrame(f, label)
	ratio := math.Pow(2, semitones/12)
	for t := range out.F0 {
		if out.F0[t] > 0 {
			out.F0[t] = clamp(out.F0[t]*ratio, 50, 1000)
		}
	}
	return out
}

// timeStretch resamples the frame sequence to length floor(L/r) via
// linear interpolation in time, regenerating F0/Spectrum/Aperiodicity.
func (a *Augmentor) timeStretch(f *param.ParameterFrame, label string, r float64) *param.ParameterFrame {
	newLength := int(math.Floor(float64(f.Length) / r))
	if newLength < 1 {
		newLength = 1
	}

	lerp := interp.NewFrameResampler(1)
	bins := f.BinCount()

	out := &param.ParameterFrame{
		SampleRate:    f.SampleRate,
		FramePeriodMs: f.FramePeriodMs,
		FFTSize:       f.FFTSize,
		Length:        newLength,
		F0:            make([]float64, newLength),
		Spectrum:      make([][]float64, newLength),
		Aperiodicity:  make([][]float64, newLength),
		Label:         label,
	}

	for i := 0; i < newLength; i++ {
		srcPos := 0.0
		if newLength > 1 {
			srcPos = float64(i) * float64(f.Length-1) / float64(newLength-1)
		}
		lo := int(math.Floor(srcPos))
		if lo >= f.Length-1 {
			lo = f.Length - 2
			if lo < 0 {
				lo = 0
			}
		}
		frac := srcPos - float64(lo)
		hi := lo + 1
		if hi >= f.Length {
			hi = lo
		}

		out.F0[i] = lerp.Interpolate([]float64{f.F0[lo], f.F0[hi]}, frac)

		spec := make([]float64, bins)
		ap := make([]float64, bins)
		for k := 0; k < bins; k++ {
			spec[k] = lerp.Interpolate([]float64{f.Spectrum[lo][k], f.Spectrum[hi][k]}, frac)
			ap[k] = clamp(lerp.Interpolate([]float64{f.Aperiodicity[lo][k], f.Aperiodicity[hi][k]}, frac), 0, 1)
		}
		out.Spectrum[i] = spec
		out.Aperiodicity[i] = ap
	}

	return out
}

// injectNoise adds Gaussian noise of the given variance (10^(db/20),
// converting the dB level to a linear variance) in the log-spectrum
// domain, plus 0.1x that variance to aperiodicity. It also returns the
// realized spectral SNR in dB so callers can gate on MinSNRDB.
func (a *Augmentor) injectNoise(f *param.ParameterFrame, label string, db float64) (*param.ParameterFrame, float64) {
	out := cloneFrame(f, label)
	variance := core.DBToLinear(db)
	stddev := math.Sqrt(variance)
	apStddev := math.Sqrt(0.1 * variance)

	signalPower := 0.0
	noisePower := 0.0

	for t := range out.Spectrum {
		for k := range out.Spectrum[t] {
			orig := math.Max(out.Spectrum[t][k], logFloor)
			noise := a.rng.NormFloat64() * stddev
			out.Spectrum[t][k] = orig * math.Exp(noise)

			signalPower += orig * orig
			noisePower += (orig * (math.Exp(noise) - 1)) * (orig * (math.Exp(noise) - 1))
		}
		for k := range out.Aperiodicity[t] {
			out.Aperiodicity[t][k] = clamp(out.Aperiodicity[t][k]+a.rng.NormFloat64()*apStddev, 0, 1)
		}
	}

	snrDB := 100.0
	if noisePower > 0 {
		snrDB = core.LinearPowerToDB(signalPower / noisePower)
	}

	return out, snrDB
}

// spectralTilt adds t*(f/Nyquist) dB to each log-spectrum bin. When
// PreserveFormants is set, the tilt is halved at local spectral peaks.
func (a *Augmentor) spectralTilt(f *param.ParameterFrame, label string, tiltDB float64) *param.ParameterFrame {
	out := cloneFrame(f, label)
	bins := f.BinCount()

	for t := range out.Spectrum {
		spec := out.Spectrum[t]
		for k := 0; k < bins; k++ {
			binTilt := tiltDB * float64(k) / float64(bins-1)
			if a.cfg.PreserveFormants && isLocalPeak(spec, k) {
				binTilt *= 0.5
			}
			spec[k] = math.Max(spec[k], logFloor) * core.DBToLinear(binTilt)
		}
	}

	return out
}

func isLocalPeak(spec []float64, k int) bool {
	if k <= 1 || k >= len(spec)-2 {
		return false
	}
	for d := -2; d <= 2; d++ {
		if d != 0 && spec[k+d] > spec[k] {
			return false
		}
	}
	return true
}

// accept runs the three-part quality gate: accept iff spectral distortion
// < MaxSpectralDistortion, F0 continuity > MinF0Continuity, and dynamic
// range ratio falls within (MinDynamicRangeRatio, MaxDynamicRangeRatio).
func (a *Augmentor) accept(original, candidate *param.ParameterFrame) bool {
	distortion := spectralDistortion(original, candidate)
	continuity := f0Continuity(candidate)
	ratio := dynamicRangeRatio(original, candidate)

	return distortion < a.cfg.MaxSpectralDistortion &&
		continuity > a.cfg.MinF0Continuity &&
		ratio > a.cfg.MinDynamicRangeRatio && ratio < a.cfg.MaxDynamicRangeRatio
}

// spectralDistortion is the mean over paired frames of the RMS
// difference between original and candidate log-spectra. When lengths
// differ (time stretch), candidate frames are paired with the nearest
// original frame by proportional time position.
func spectralDistortion(original, candidate *param.ParameterFrame) float64 {
	if candidate.Length == 0 {
		return 0
	}

	sum := 0.0
	for t := 0; t < candidate.Length; t++ {
		ot := nearestIndex(t, candidate.Length, original.Length)
		bins := len(candidate.Spectrum[t])
		if len(original.Spectrum[ot]) < bins {
			bins = len(original.Spectrum[ot])
		}

		sq := 0.0
		for k := 0; k < bins; k++ {
			diff := math.Log(math.Max(candidate.Spectrum[t][k], logFloor)) - math.Log(math.Max(original.Spectrum[ot][k], logFloor))
			sq += diff * diff
		}
		if bins > 0 {
			sum += math.Sqrt(sq / float64(bins))
		}
	}

	return sum / float64(candidate.Length)
}

func nearestIndex(t, fromLen, toLen int) int {
	if fromLen <= 1 || toLen <= 1 {
		return 0
	}
	pos := int(math.Round(float64(t) * float64(toLen-1) / float64(fromLen-1)))
	if pos < 0 {
		return 0
	}
	if pos >= toLen {
		return toLen - 1
	}
	return pos
}

// f0Continuity is the fraction of adjacent voiced-voiced transitions
// whose ratio falls in [0.8, 1.25].
func f0Continuity(f *param.ParameterFrame) float64 {
	transitions := 0
	smooth := 0
	for t := 1; t < f.Length; t++ {
		if f.F0[t-1] > 0 && f.F0[t] > 0 {
			transitions++
			ratio := f.F0[t] / f.F0[t-1]
			if ratio >= 0.8 && ratio <= 1.25 {
				smooth++
			}
		}
	}
	if transitions == 0 {
		return 1
	}
	return float64(smooth) / float64(transitions)
}

// dynamicRangeRatio is candidate_range / original_range, where range is
// the dB spread between the loudest and quietest spectral bin across
// the whole sequence.
func dynamicRangeRatio(original, candidate *param.ParameterFrame) float64 {
	origRange := dynamicRangeDB(original)
	candRange := dynamicRangeDB(candidate)
	if origRange <= 0 {
		return 1
	}
	return candRange / origRange
}

func dynamicRangeDB(f *param.ParameterFrame) float64 {
	minV := math.Inf(1)
	maxV := 0.0
	for t := range f.Spectrum {
		for _, v := range f.Spectrum[t] {
			if v > maxV {
				maxV = v
			}
			if v < minV {
				minV = v
			}
		}
	}
	if minV <= 0 {
		minV = logFloor
	}
	if maxV <= 0 {
		return 0
	}
	return core.LinearToDB(maxV / minV)
}
