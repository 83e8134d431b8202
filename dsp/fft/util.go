package fft

import "sort"

// compositeSizes is a sorted table of powers of two and 3*2^k sizes the
// algo-fft backend handles efficiently, used by NextCompositeSize to avoid
// rounding small requests all the way up to the next power of two.
var compositeSizes = []int{
	1, 2, 4, 8, 16, 32, 48, 64, 96, 128, 192, 256, 384, 512, 768,
	1024, 1536, 2048, 3072, 4096, 6144, 8192, 12288, 16384,
	24576, 32768, 49152, 65536, 98304, 131072,
}

// IsPowerOf2 reports whether n is a positive power of two.
func IsPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOf2 returns the smallest power of two >= n. It returns 1 for
// n <= 1.
func NextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// NextCompositeSize returns the smallest size >= n from a table of highly
// composite FFT-friendly lengths, falling back to NextPowerOf2 once n
// exceeds the table.
func NextCompositeSize(n int) int {
	if n <= 1 {
		return 1
	}
	idx := sort.SearchInts(compositeSizes, n)
	if idx < len(compositeSizes) {
		return compositeSizes[idx]
	}
	return NextPowerOf2(n)
}

// ZeroPadReal returns in zero-padded (or truncated) to exactly n samples.
func ZeroPadReal(in []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, in)
	return out
}

// ZeroPadComplex returns in zero-padded (or truncated) to exactly n
// samples.
func ZeroPadComplex(in []complex128, n int) []complex128 {
	out := make([]complex128, n)
	copy(out, in)
	return out
}
