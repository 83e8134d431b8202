package pbp

import "math"

// overlapAdd writes pulse into buf at position pos using a raised-cosine
// crossfade against whatever the destination already holds: silent regions
// are overwritten by assignment, occupied regions are blended over the
// first overlapLen samples and summed beyond that.
func overlapAdd(buf, pulse []float64, pos, overlapLen int) {
	p := len(pulse)
	if p == 0 {
		return
	}

	start := pos
	if start < 0 {
		start = 0
	}
	end := pos + p
	if end > len(buf) {
		end = len(buf)
	}
	if end <= start {
		return
	}

	hasEnergy := false
	for i := start; i < end; i++ {
		if math.Abs(buf[i]) > 1e-10 {
			hasEnergy = true
			break
		}
	}

	if !hasEnergy {
		for i := start; i < end; i++ {
			buf[i] = pulse[i-pos]
		}
		return
	}

	l := overlapLen
	if l > p {
		l = p
	}
	if l > end-start {
		l = end - start
	}

	if l <= 0 {
		for i := start; i < end; i++ {
			buf[i] += pulse[i-pos]
		}
		return
	}

	for i := 0; i < l; i++ {
		idx := start + i
		var smooth float64
		if l == 1 {
			smooth = 1
		} else {
			smooth = 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(l-1)))
		}
		existing := buf[idx]
		newVal := pulse[idx-pos]
		buf[idx] = existing*(1-smooth) + newVal*smooth
	}

	for i := l; i < p; i++ {
		idx := pos + i
		if idx < 0 || idx >= len(buf) {
			continue
		}
		buf[idx] += pulse[i]
	}
}
