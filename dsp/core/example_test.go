package core_test

import (
	"fmt"

	"github.com/nexussynth/nexussynth/dsp/core"
)

func ExampleResolveSignalConfig() {
	cfg := core.ResolveSignalConfig(
		core.WithSampleRate(44100),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f blockSize=%d\n", cfg.SampleRate, cfg.BlockSize)

	// Output:
	// sampleRate=44100 blockSize=256
}
