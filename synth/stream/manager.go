package stream

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nexussynth/nexussynth/internal/ringbuffer"
	"github.com/nexussynth/nexussynth/param"
)

// SynthesizeFunc produces a pulse's worth of samples from one queued
// frame. Manager invokes it once per popped StreamingFrame.
type SynthesizeFunc func(param.StreamingFrame) []float64

const adaptiveWindowSize = 10
const minInputFrames = 256
const minOutputSamples = 1024

// Manager is the StreamingBufferManager.
type Manager struct {
	cfg        Config
	logger     *slog.Logger
	synthesize SynthesizeFunc

	inputRing  atomic.Pointer[ringbuffer.RingBuffer[param.StreamingFrame]]
	outputRing atomic.Pointer[ringbuffer.RingBuffer[float64]]
	resizeMu   sync.Mutex

	shutdown   atomic.Bool
	shutdownCh chan struct{}
	wake       chan struct{}
	wg         sync.WaitGroup

	statsMu sync.Mutex
	stats   Stats

	cycleMu    sync.Mutex
	cycleTimes []time.Duration
	lastAdapt  time.Time

	targetLatencyMu sync.RWMutex
	targetLatencyMs float64
}

// NewManager returns a Manager ready to accept queued frames. synthesize
// must not be nil; it is invoked once per frame popped off the input ring.
func NewManager(cfg Config, synthesize SynthesizeFunc) *Manager {
	m := &Manager{
		cfg:        cfg,
		logger:     cfg.logger(),
		synthesize: synthesize,
		shutdownCh: make(chan struct{}),
		wake:       make(chan struct{}, 1),
	}
	m.inputRing.Store(ringbuffer.New[param.StreamingFrame](cfg.InputBufferSize))
	m.outputRing.Store(ringbuffer.New[float64](cfg.OutputBufferSize))
	m.targetLatencyMs = cfg.TargetLatencyMs
	m.stats.SessionStartTime = time.Now()
	m.lastAdapt = time.Now()
	return m
}

// StartRealtimeStreaming launches the background worker if
// EnableBackgroundProcessing is set. Safe to call at most once.
func (m *Manager) StartRealtimeStreaming() {
	if !m.cfg.EnableBackgroundProcessing {
		return
	}
	m.wg.Add(1)
	go m.workerLoop()
}

// StopRealtimeStreaming is idempotent: it sets the shutdown flag, wakes
// the worker, and joins it. Already-synthesized output remains readable
// afterward.
func (m *Manager) StopRealtimeStreaming() {
	if !m.shutdown.CompareAndSwap(false, true) {
		return
	}
	close(m.shutdownCh)
	m.wg.Wait()
}

func (m *Manager) notifyWorker() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *Manager) workerLoop() {
	defer m.wg.Done()

	timer := time.NewTimer(100 * time.Microsecond)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-m.shutdownCh:
			return
		default:
		}

		if m.ProcessOne() {
			continue
		}

		timer.Reset(100 * time.Microsecond)
		select {
		case <-m.shutdownCh:
			timer.Stop()
			return
		case <-m.wake:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// ProcessOne pops one queued frame, synthesizes it, and pushes the
// samples to the output ring. It reports whether a frame was available.
// Callers driving processing themselves (EnableBackgroundProcessing ==
// false) call this directly instead of starting the worker.
func (m *Manager) ProcessOne() bool {
	frame, ok := m.inputRing.Load().Pop()
	if !ok {
		return false
	}

	cycleStart := time.Now()
	samples := m.synthesize(frame)

	pushed := m.outputRing.Load().PushN(samples)
	if pushed < len(samples) {
		dropped := len(samples) - pushed
		m.logger.Warn("streaming: output ring overflow, dropping samples", "dropped", dropped)
		m.statsMu.Lock()
		m.stats.BufferOverflows++
		m.statsMu.Unlock()
	}

	cycleTime := time.Since(cycleStart)
	m.recordCycle(cycleTime)

	m.statsMu.Lock()
	m.stats.FramesProcessed++
	m.stats.ProcessingTimeMs = float64(cycleTime.Microseconds()) / 1000
	m.stats.TotalProcessingTimeMs += m.stats.ProcessingTimeMs
	m.statsMu.Unlock()

	if m.cfg.EnableAdaptiveBuffering {
		m.maybeAdapt()
	}

	return true
}

// QueueWorldParameters drains a full parameter frame into the input ring
// as one StreamingFrame per sub-frame.
func (m *Manager) QueueWorldParameters(f *param.ParameterFrame) int {
	queued := 0
	for t := 0; t < f.Length; t++ {
		sf := param.StreamingFrame{
			F0:             f.F0[t],
			Spectrum:       f.Spectrum[t],
			Aperiodicity:   f.Aperiodicity[t],
			FrameIndex:     uint64(t),
			AmplitudeScale: 1,
			IsVoiced:       f.F0[t] > 0,
		}
		if !m.QueueStreamingFrame(sf) {
			break
		}
		queued++
	}
	return queued
}

// QueueStreamingFrame enqueues a single frame, applying overflow
// protection (drop-oldest + retry) when the ring is full and the policy
// is enabled. Returns false once streaming has been stopped.
func (m *Manager) QueueStreamingFrame(f param.StreamingFrame) bool {
	if m.shutdown.Load() {
		return false
	}

	ring := m.inputRing.Load()
	if ring.Push(f) {
		m.notifyWorker()
		return true
	}

	if m.cfg.EnableOverflowProtection {
		ring.DropOldest(1)
		m.statsMu.Lock()
		m.stats.BufferOverflows++
		m.statsMu.Unlock()
		m.logger.Warn("streaming: input ring overflow, dropped oldest frame")

		if ring.Push(f) {
			m.notifyWorker()
			return true
		}
	}

	return false
}

// ReadRealtimeAudio pops up to len(dst) samples into dst, applying
// underrun protection (zero-fill) and dropout detection/injection per
// configuration. It returns the number of samples actually produced
// (always len(dst) when underrun protection is enabled).
func (m *Manager) ReadRealtimeAudio(dst []float64) int {
	ring := m.outputRing.Load()

	if m.cfg.EnableDropoutDetection && ring.Len() < m.cfg.DropoutThresholdSamples {
		m.statsMu.Lock()
		m.stats.DropoutsDetected++
		m.statsMu.Unlock()
		zeros := make([]float64, m.cfg.DropoutThresholdSamples)
		ring.PushN(zeros)
	}

	n := ring.PopN(dst)
	if n < len(dst) {
		if m.cfg.EnableUnderrunProtection {
			for i := n; i < len(dst); i++ {
				dst[i] = 0
			}
			m.statsMu.Lock()
			m.stats.BufferUnderruns++
			m.statsMu.Unlock()
			n = len(dst)
		}
	}

	return n
}

// SetRealtimeLatencyTarget updates the target latency used by adaptive
// buffering.
func (m *Manager) SetRealtimeLatencyTarget(ms float64) {
	m.targetLatencyMu.Lock()
	m.targetLatencyMs = ms
	m.targetLatencyMu.Unlock()
}

func (m *Manager) targetLatency() float64 {
	m.targetLatencyMu.RLock()
	defer m.targetLatencyMu.RUnlock()
	return m.targetLatencyMs
}

func (m *Manager) recordCycle(d time.Duration) {
	m.cycleMu.Lock()
	m.cycleTimes = append(m.cycleTimes, d)
	if len(m.cycleTimes) > adaptiveWindowSize {
		m.cycleTimes = m.cycleTimes[len(m.cycleTimes)-adaptiveWindowSize:]
	}
	m.cycleMu.Unlock()
}

func (m *Manager) cycleStats() (mean, peak time.Duration) {
	m.cycleMu.Lock()
	defer m.cycleMu.Unlock()
	if len(m.cycleTimes) == 0 {
		return 0, 0
	}
	var sum time.Duration
	for _, d := range m.cycleTimes {
		sum += d
		if d > peak {
			peak = d
		}
	}
	mean = sum / time.Duration(len(m.cycleTimes))
	return mean, peak
}

// maybeAdapt grows or shrinks ring sizes once per second when adaptive
// buffering is enabled, based on observed latency/CPU thresholds.
func (m *Manager) maybeAdapt() {
	m.cycleMu.Lock()
	due := time.Since(m.lastAdapt) >= time.Second
	if due {
		m.lastAdapt = time.Now()
	}
	m.cycleMu.Unlock()
	if !due {
		return
	}

	mean, _ := m.cycleStats()
	meanMs := float64(mean.Microseconds()) / 1000
	cpu := m.cpuUsageEstimate(mean)
	target := m.targetLatency()

	grow := meanMs > target || cpu > m.cfg.CPUUsageThreshold
	shrink := meanMs < 0.5*target && cpu < 0.5

	if grow {
		m.resizeRings(1.25, minInputFrames, minOutputSamples)
	} else if shrink {
		m.resizeRings(0.9, minInputFrames, minOutputSamples)
	}
}

func (m *Manager) cpuUsageEstimate(meanCycle time.Duration) float64 {
	framePeriod := time.Duration(m.cfg.FramePeriodMs * float64(time.Millisecond))
	if framePeriod <= 0 {
		return 0
	}
	usage := float64(meanCycle) / float64(framePeriod)
	if usage < 0 {
		return 0
	}
	if usage > 1 {
		return 1
	}
	return usage
}

func (m *Manager) resizeRings(factor float64, floorInput, floorOutput int) {
	m.resizeMu.Lock()
	defer m.resizeMu.Unlock()

	oldIn := m.inputRing.Load()
	newInCap := int(float64(oldIn.Capacity()) * factor)
	if newInCap < floorInput {
		newInCap = floorInput
	}
	if newInCap != oldIn.Capacity() {
		newIn := ringbuffer.New[param.StreamingFrame](newInCap)
		for {
			v, ok := oldIn.Pop()
			if !ok {
				break
			}
			if !newIn.Push(v) {
				break
			}
		}
		m.inputRing.Store(newIn)
	}

	oldOut := m.outputRing.Load()
	newOutCap := int(float64(oldOut.Capacity()) * factor)
	if newOutCap < floorOutput {
		newOutCap = floorOutput
	}
	if newOutCap != oldOut.Capacity() {
		newOut := ringbuffer.New[float64](newOutCap)
		for {
			v, ok := oldOut.Pop()
			if !ok {
				break
			}
			if !newOut.Push(v) {
				break
			}
		}
		m.outputRing.Store(newOut)
	}
}

// GetStreamingStats returns a snapshot of the manager's statistics.
func (m *Manager) GetStreamingStats() Stats {
	mean, peak := m.cycleStats()

	m.statsMu.Lock()
	s := m.stats
	m.statsMu.Unlock()

	s.CurrentLatencyMs = float64(mean.Microseconds()) / 1000
	s.AverageLatencyMs = s.CurrentLatencyMs
	s.PeakLatencyMs = float64(peak.Microseconds()) / 1000
	s.CPUUsagePercent = m.cpuUsageEstimate(mean) * 100

	in := m.inputRing.Load()
	out := m.outputRing.Load()
	if cap := in.Capacity(); cap > 0 {
		s.InputBufferUtilization = float64(in.Len()) / float64(cap)
	}
	if cap := out.Capacity(); cap > 0 {
		s.OutputBufferUtilization = float64(out.Len()) / float64(cap)
	}

	return s
}
