// Command nsynthctl inspects the core's DSP building blocks: window
// function properties, FFT plan cache behavior, the window optimizer's
// per-signal selection, and the anti-aliasing filter's frequency response.
//
// Usage:
//
//	nsynthctl window [flags] [window-name ...]
//	nsynthctl fft [flags]
//	nsynthctl optimize [flags]
//	nsynthctl filter [flags]
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "window":
		runWindow(os.Args[2:])
	case "fft":
		runFFT(os.Args[2:])
	case "optimize":
		runOptimize(os.Args[2:])
	case "filter":
		runFilter(os.Args[2:])
	case "-h", "-help", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "nsynthctl: unknown subcommand %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: nsynthctl <command> [flags]

Commands:
  window    print spectral properties of DSP window functions
  fft       precompute FFT plans and report cache statistics
  optimize  report the window optimizer's choice for a synthetic tone
  filter    report the anti-aliasing filter's frequency response and stability

Run "nsynthctl <command> -h" for command-specific flags.
`)
}
