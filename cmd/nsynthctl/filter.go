package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nexussynth/nexussynth/dsp/filter/biquad"
	"github.com/nexussynth/nexussynth/dsp/filter/design"
)

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	sampleRate := fs.Float64("rate", 44100, "sample rate in Hz")
	cutoffRatio := fs.Float64("cutoff-ratio", 0.45, "lowpass cutoff as a fraction of sample rate")
	_ = fs.Parse(args)

	cutoff := *cutoffRatio * (*sampleRate)
	coeffs := []biquad.Coefficients{
		design.Lowpass(cutoff, 0.541196, *sampleRate),
		design.Lowpass(cutoff, 1.306563, *sampleRate),
	}
	chain := biquad.NewChain(coeffs)

	if !chain.IsStable() {
		fmt.Fprintln(os.Stderr, "error: designed anti-aliasing chain is unstable")
		os.Exit(1)
	}

	nyquist := (*sampleRate) / 2
	fmt.Printf("order:                  %d\n", chain.Order())
	fmt.Printf("stable:                 %v\n", chain.IsStable())
	fmt.Printf("magnitude_at_1khz_db:   %.2f\n", chain.MagnitudeDB(1000, *sampleRate))
	fmt.Printf("magnitude_at_cutoff_db: %.2f\n", chain.MagnitudeDB(cutoff, *sampleRate))
	fmt.Printf("magnitude_at_nyquist_db: %.2f\n", chain.MagnitudeDB(nyquist*0.999, *sampleRate))

	ir := chain.ImpulseResponse(16)
	fmt.Printf("impulse_response_head:  %.4f\n", ir[:4])
}
