package core

// SignalConfig holds the sample rate and block size a signal generator or
// offline renderer operates at.
type SignalConfig struct {
	SampleRate float64
	BlockSize  int
}

// SignalOption mutates a SignalConfig.
type SignalOption func(*SignalConfig)

// DefaultSignalConfig returns sensible defaults for offline test-signal
// generation (44.1 kHz, 1024-sample blocks).
func DefaultSignalConfig() SignalConfig {
	return SignalConfig{
		SampleRate: 44100,
		BlockSize:  1024,
	}
}

// WithSampleRate sets the sample rate; non-positive values are ignored.
func WithSampleRate(sampleRate float64) SignalOption {
	return func(cfg *SignalConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the block size; non-positive values are ignored.
func WithBlockSize(blockSize int) SignalOption {
	return func(cfg *SignalConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// ResolveSignalConfig starts from DefaultSignalConfig and applies opts in
// order, skipping nil options.
func ResolveSignalConfig(opts ...SignalOption) SignalConfig {
	cfg := DefaultSignalConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
