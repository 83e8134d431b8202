package stream

import "log/slog"

// Config is the streaming configuration surface.
type Config struct {
	SampleRate                 float64
	FramePeriodMs              float64
	InputBufferSize            int
	OutputBufferSize           int
	RingBufferSize             int
	TargetLatencyMs            float64
	MaxLatencyMs               float64
	PrefillFrames              int
	EnableBackgroundProcessing bool
	ProcessingThreadPriority   int
	EnableAdaptiveBuffering    bool
	EnableUnderrunProtection   bool
	EnableOverflowProtection   bool
	CPUUsageThreshold          float64
	EnableJitterCompensation   bool
	EnableDropoutDetection     bool
	DropoutThresholdSamples    int

	// Logger receives the two warning-level events the manager logs:
	// input-ring overflow (dropped frames) and output-ring overflow
	// (dropped samples). Defaults to slog.Default() when nil.
	Logger *slog.Logger
}

// DefaultConfig returns streaming defaults targeting 50ms latency at
// 44.1kHz with a 5ms frame period.
func DefaultConfig() Config {
	return Config{
		SampleRate:                 44100,
		FramePeriodMs:              5,
		InputBufferSize:            256,
		OutputBufferSize:           1024,
		RingBufferSize:             1024,
		TargetLatencyMs:            50,
		MaxLatencyMs:               200,
		PrefillFrames:              4,
		EnableBackgroundProcessing: true,
		ProcessingThreadPriority:   0,
		EnableAdaptiveBuffering:    true,
		EnableUnderrunProtection:   true,
		EnableOverflowProtection:   true,
		CPUUsageThreshold:          0.8,
		EnableJitterCompensation:   false,
		EnableDropoutDetection:     true,
		DropoutThresholdSamples:    256,
	}
}

// SamplesPerFrame returns round(SampleRate * FramePeriodMs / 1000).
func (c Config) SamplesPerFrame() int {
	return int(c.SampleRate*c.FramePeriodMs/1000 + 0.5)
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
