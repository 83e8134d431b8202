package fft

import (
	"fmt"
	"sort"
	"sync"
	"time"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/nexussynth/nexussynth/internal/cpu"
)

// Direction identifies the transform direction for a cached plan.
type Direction int

const (
	DirectionForward Direction = iota
	DirectionInverse
)

func (d Direction) String() string {
	if d == DirectionInverse {
		return "inverse"
	}
	return "forward"
}

// Config configures a Manager.
type Config struct {
	Backend                string
	EnablePlanCaching      bool
	EnableMultithreading   bool
	MaxCacheSize           int
	PreferRealFFT          bool
	CacheCleanupThreshold  float64
	EnableSIMDOptimization bool
	ThreadCount            int
}

// DefaultConfig returns the manager defaults named in the synthesis
// configuration surface.
func DefaultConfig() Config {
	return Config{
		Backend:               "algo-fft",
		EnablePlanCaching:      true,
		EnableMultithreading:   false,
		MaxCacheSize:           32,
		PreferRealFFT:          true,
		CacheCleanupThreshold:  0.8,
		EnableSIMDOptimization: true,
		ThreadCount:            1,
	}
}

// Stats reports Manager usage and performance counters.
type Stats struct {
	TransformsPerformed   uint64
	CacheHits             uint64
	CacheMisses           uint64
	TotalTransformTime    time.Duration
	MemoryUsageBytes      int64
	PeakMemoryMB          float64
	BackendName           string
	MultithreadingActive  bool
}

// CacheHitRatio returns CacheHits / (CacheHits + CacheMisses), or 0 if no
// transform has been performed yet.
func (s Stats) CacheHitRatio() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

type planKey struct {
	size      int
	direction Direction
	real      bool
}

// cachedPlan is the FftTransformManager's plan cache entry. The plan is shared
// between the cache and any transform currently in flight: eviction only
// drops the cache's map entry, never the plan a caller is still holding a
// reference to, so an in-flight transform is never invalidated by a
// concurrent eviction.
type cachedPlan struct {
	key        planKey
	plan       *algofft.Plan[complex128]
	usageCount int64
	lastUsed   time.Time
}

// Manager is the FftTransformManager: forward/inverse FFTs over a cache of
// reused algo-fft plans, plus the synthesize-pulse-from-spectrum primitive
// used once per synthesized pulse.
type Manager struct {
	cfg Config

	mu    sync.Mutex
	cache map[planKey]*cachedPlan

	statsMu sync.Mutex
	stats   Stats
}

// NewManager returns a Manager ready for use.
func NewManager(cfg Config) *Manager {
	if cfg.MaxCacheSize <= 0 {
		cfg.MaxCacheSize = 32
	}
	if cfg.CacheCleanupThreshold <= 0 || cfg.CacheCleanupThreshold > 1 {
		cfg.CacheCleanupThreshold = 0.8
	}

	features := cpu.DetectFeatures()
	backendName := cfg.Backend
	if backendName == "" {
		backendName = "algo-fft"
	}

	m := &Manager{
		cfg:   cfg,
		cache: make(map[planKey]*cachedPlan),
	}
	m.stats.BackendName = backendName
	m.stats.MultithreadingActive = cfg.EnableMultithreading && cfg.ThreadCount > 1
	_ = features // capability detection only; no SIMD path is selected here.

	return m
}

// Stats returns a snapshot of the manager's usage counters.
func (m *Manager) Stats() Stats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

func (m *Manager) recordTransform(d time.Duration) {
	m.statsMu.Lock()
	m.stats.TransformsPerformed++
	m.stats.TotalTransformTime += d
	m.statsMu.Unlock()
}

// getPlan returns the cached plan for (size, direction, real), creating and
// caching it on a miss. A plan-creation failure from the backend is
// returned as a wrapped error; plan creation is not retried.
func (m *Manager) getPlan(size int, dir Direction, real bool) (*algofft.Plan[complex128], error) {
	if size <= 0 {
		return nil, fmt.Errorf("fft: size must be positive, got %d", size)
	}

	key := planKey{size: size, direction: dir, real: real}

	if m.cfg.EnablePlanCaching {
		m.mu.Lock()
		if cp, ok := m.cache[key]; ok {
			cp.usageCount++
			cp.lastUsed = time.Now()
			m.mu.Unlock()

			m.statsMu.Lock()
			m.stats.CacheHits++
			m.statsMu.Unlock()

			return cp.plan, nil
		}
		m.mu.Unlock()
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("fft: backend unavailable for size %d: %w", size, err)
	}

	m.statsMu.Lock()
	m.stats.CacheMisses++
	m.statsMu.Unlock()

	if m.cfg.EnablePlanCaching {
		m.mu.Lock()
		m.cache[key] = &cachedPlan{key: key, plan: plan, usageCount: 1, lastUsed: time.Now()}
		m.evictLocked()
		m.mu.Unlock()
	}

	return plan, nil
}

// evictLocked evicts least-recently-used plans down to
// MaxCacheSize*CacheCleanupThreshold once the cache is at capacity. Callers
// must hold m.mu.
func (m *Manager) evictLocked() {
	if len(m.cache) <= m.cfg.MaxCacheSize {
		return
	}

	target := int(float64(m.cfg.MaxCacheSize) * m.cfg.CacheCleanupThreshold)
	if target < 1 {
		target = 1
	}

	entries := make([]*cachedPlan, 0, len(m.cache))
	for _, cp := range m.cache {
		entries = append(entries, cp)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].lastUsed.Before(entries[j].lastUsed)
	})

	for _, cp := range entries {
		if len(m.cache) <= target {
			break
		}
		delete(m.cache, cp.key)
	}
}

// PrecomputePlans warms the plan cache for the given sizes, both forward
// and inverse, complex-input variant.
func (m *Manager) PrecomputePlans(sizes []int) {
	for _, size := range sizes {
		_, _ = m.getPlan(size, DirectionForward, false)
		_, _ = m.getPlan(size, DirectionInverse, false)
	}
}

// ForwardComplex computes the forward FFT of a complex input of length N,
// returning the full complex spectrum of length N.
func (m *Manager) ForwardComplex(in []complex128) ([]complex128, bool) {
	if len(in) == 0 {
		return nil, false
	}

	start := time.Now()
	plan, err := m.getPlan(len(in), DirectionForward, false)
	if err != nil {
		return nil, false
	}

	out := make([]complex128, len(in))
	if err := plan.Forward(out, in); err != nil {
		return nil, false
	}
	m.recordTransform(time.Since(start))

	return out, true
}

// ForwardReal computes the forward FFT of a real input of length N,
// returning the full complex spectrum of length N. Callers interpret the
// first N/2+1 entries as the positive-frequency half spectrum.
func (m *Manager) ForwardReal(in []float64) ([]complex128, bool) {
	if len(in) == 0 {
		return nil, false
	}

	cplx := make([]complex128, len(in))
	for i, v := range in {
		cplx[i] = complex(v, 0)
	}

	start := time.Now()
	plan, err := m.getPlan(len(in), DirectionForward, true)
	if err != nil {
		return nil, false
	}

	out := make([]complex128, len(in))
	if err := plan.Forward(out, cplx); err != nil {
		return nil, false
	}
	m.recordTransform(time.Since(start))

	return out, true
}

// InverseComplex computes the inverse FFT of a full complex spectrum of
// length N, returning the complex time-domain signal of length N.
func (m *Manager) InverseComplex(in []complex128) ([]complex128, bool) {
	if len(in) == 0 {
		return nil, false
	}

	start := time.Now()
	plan, err := m.getPlan(len(in), DirectionInverse, false)
	if err != nil {
		return nil, false
	}

	out := make([]complex128, len(in))
	if err := plan.Inverse(out, in); err != nil {
		return nil, false
	}
	m.recordTransform(time.Since(start))

	return out, true
}

// expandHalfSpectrum reconstructs a conjugate-symmetric full spectrum of
// length n from a half spectrum of length <= n/2+1. Index 0's imaginary
// part is forced to 0; if n is even, index n/2's imaginary part is forced
// to 0 as well. Any bin beyond the supplied half length is zero-filled,
// and indices beyond n/2 are the conjugates of their mirror bins.
func expandHalfSpectrum(half []complex128, n int) []complex128 {
	full := make([]complex128, n)

	half0 := real(half0Safe(half, 0))
	full[0] = complex(half0, 0)

	nyquist := n / 2
	for k := 1; k <= nyquist && k < n; k++ {
		var v complex128
		if k < len(half) {
			v = half[k]
		}
		if k == nyquist && n%2 == 0 {
			v = complex(real(v), 0)
		}
		full[k] = v
		mirror := n - k
		if mirror != k && mirror >= 0 && mirror < n {
			full[mirror] = complex(real(v), -imag(v))
		}
	}

	return full
}

func half0Safe(half []complex128, idx int) complex128 {
	if idx < len(half) {
		return half[idx]
	}
	return 0
}

// InverseHalfSpectrum reconstructs the conjugate-symmetric full spectrum
// from a half spectrum (length <= n/2+1) and computes the inverse FFT,
// returning the real part as a time-domain signal of length n.
func (m *Manager) InverseHalfSpectrum(half []complex128, n int) ([]float64, bool) {
	if n <= 0 || len(half) == 0 {
		return nil, false
	}

	full := expandHalfSpectrum(half, n)

	cplx, ok := m.InverseComplex(full)
	if !ok {
		return nil, false
	}

	out := make([]float64, n)
	for i, v := range cplx {
		out[i] = real(v)
	}
	return out, true
}

// SynthesizePulseFromSpectrum composes the conjugate-symmetric inverse real
// FFT with optional peak normalization: pulse *= 1/max|pulse| when the
// peak magnitude exceeds 1e-10.
func (m *Manager) SynthesizePulseFromSpectrum(half []complex128, n int, normalize bool) ([]float64, bool) {
	pulse, ok := m.InverseHalfSpectrum(half, n)
	if !ok {
		return nil, false
	}

	if normalize {
		peak := 0.0
		for _, v := range pulse {
			if a := absF64(v); a > peak {
				peak = a
			}
		}
		if peak > 1e-10 {
			inv := 1 / peak
			for i := range pulse {
				pulse[i] *= inv
			}
		}
	}

	return pulse, true
}

func absF64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
