// Package buffer provides a reusable sample buffer and a sync.Pool-backed
// allocator for it. PbpSynthesisEngine draws noise-burst scratch space
// from a SampleBufferPool so unvoiced frames don't allocate a fresh
// []float64 on every render call.
package buffer

import "sync"

// SampleBuffer wraps a float64 slice with reuse-friendly semantics. DSP
// functions accept raw []float64; Samples() bridges to that world.
type SampleBuffer struct {
	samples []float64
}

// NewSampleBuffer returns a zero-filled SampleBuffer of the given length.
func NewSampleBuffer(length int) *SampleBuffer {
	if length < 0 {
		length = 0
	}
	return &SampleBuffer{samples: make([]float64, length)}
}

// WrapSlice wraps an existing slice without copying. Mutations to the
// slice are visible through the SampleBuffer and vice versa.
func WrapSlice(s []float64) *SampleBuffer {
	return &SampleBuffer{samples: s}
}

// Samples returns the underlying slice.
func (b *SampleBuffer) Samples() []float64 {
	return b.samples
}

// Len returns the current number of samples.
func (b *SampleBuffer) Len() int {
	return len(b.samples)
}

// Cap returns the current capacity of the backing slice.
func (b *SampleBuffer) Cap() int {
	return cap(b.samples)
}

// Grow ensures capacity is at least n, preserving existing data. A no-op
// when the current capacity already covers n.
func (b *SampleBuffer) Grow(n int) {
	if n <= cap(b.samples) {
		return
	}
	grown := make([]float64, len(b.samples), n)
	copy(grown, b.samples)
	b.samples = grown
}

// Resize sets the length to n, reusing existing capacity when possible.
// Elements beyond the previous length are zeroed so stale data from a
// prior pool checkout is never exposed.
func (b *SampleBuffer) Resize(n int) {
	if n < 0 {
		n = 0
	}
	oldLen := len(b.samples)
	if n <= cap(b.samples) {
		b.samples = b.samples[:n]
	} else {
		s := make([]float64, n)
		copy(s, b.samples)
		b.samples = s
	}
	for i := oldLen; i < n; i++ {
		b.samples[i] = 0
	}
}

// Zero sets all samples to 0.
func (b *SampleBuffer) Zero() {
	for i := range b.samples {
		b.samples[i] = 0
	}
}

// ZeroRange sets samples in [start, end) to 0, clamping indices to valid
// bounds.
func (b *SampleBuffer) ZeroRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(b.samples) {
		end = len(b.samples)
	}
	for i := start; i < end; i++ {
		b.samples[i] = 0
	}
}

// Copy returns a deep copy of the buffer.
func (b *SampleBuffer) Copy() *SampleBuffer {
	s := make([]float64, len(b.samples))
	copy(s, b.samples)
	return &SampleBuffer{samples: s}
}

// SampleBufferPool recycles SampleBuffers across render calls to reduce
// GC pressure in the pulse-by-pulse hot loop.
type SampleBufferPool struct {
	pool sync.Pool
}

// NewSampleBufferPool returns a pool ready for use.
func NewSampleBufferPool() *SampleBufferPool {
	return &SampleBufferPool{
		pool: sync.Pool{
			New: func() any {
				return &SampleBuffer{}
			},
		},
	}
}

// Get returns a zeroed SampleBuffer of the requested length. The caller
// must return it via Put once done.
func (p *SampleBufferPool) Get(length int) *SampleBuffer {
	b := p.pool.Get().(*SampleBuffer)
	b.Resize(length)
	b.Zero()
	return b
}

// Put returns a SampleBuffer to the pool. The caller must not use b after
// this call.
func (p *SampleBufferPool) Put(b *SampleBuffer) {
	if b == nil {
		return
	}
	p.pool.Put(b)
}
