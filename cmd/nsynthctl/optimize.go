package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nexussynth/nexussynth/dsp/core"
	"github.com/nexussynth/nexussynth/dsp/signal"
	"github.com/nexussynth/nexussynth/synth/winopt"
)

func runOptimize(args []string) {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	sampleRate := fs.Float64("rate", 44100, "sample rate in Hz")
	f0 := fs.Float64("f0", 220, "fundamental frequency of the synthetic test tone")
	length := fs.Int("length", 1024, "frame length in samples")
	hop := fs.Int("hop", 256, "overlap-add hop size in samples")
	noise := fs.Float64("noise", 0.02, "amplitude of additive white noise mixed into the tone")
	_ = fs.Parse(args)

	gen := signal.NewGenerator(core.WithSampleRate(*sampleRate))
	tone, err := gen.Sine(*f0, 1.0, *length)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	noiseSignal, err := gen.WhiteNoise(*noise, *length)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	frame := make([]float64, *length)
	for i := range frame {
		frame[i] = tone[i] + noiseSignal[i]
	}

	coeffs, selection, quality := winopt.Optimize(frame, *sampleRate, *length, *hop, nil)

	fmt.Printf("selected_window:   %v\n", selection.Type)
	fmt.Printf("alpha:             %.4f\n", selection.Alpha)
	fmt.Printf("sidelobe_db:       %.2f\n", quality.SidelobeDB)
	fmt.Printf("enbw:              %.4f\n", quality.ENBW)
	fmt.Printf("score:             %.4f\n", quality.Score)
	fmt.Printf("coefficients_len:  %d\n", len(coeffs))
}
