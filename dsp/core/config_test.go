package core

import "testing"

func TestResolveSignalConfig(t *testing.T) {
	cfg := ResolveSignalConfig(WithSampleRate(96000), WithBlockSize(2048))
	if cfg.SampleRate != 96000 {
		t.Fatalf("sample rate = %v, want 96000", cfg.SampleRate)
	}
	if cfg.BlockSize != 2048 {
		t.Fatalf("block size = %d, want 2048", cfg.BlockSize)
	}
}

func TestResolveSignalConfigIgnoresInvalidOptions(t *testing.T) {
	cfg := ResolveSignalConfig(WithSampleRate(0), WithBlockSize(-1))
	def := DefaultSignalConfig()
	if cfg != def {
		t.Fatalf("cfg = %#v, want %#v", cfg, def)
	}
}
