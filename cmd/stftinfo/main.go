// Command stftinfo prints STFT subgraph frame/hop/window statistics.
//
// Usage:
//
//	stftinfo [flags] [window-name ...]
//
// Without arguments it prints info for all six supported window families at
// the default frame size and hop.
//
// Examples:
//
//	stftinfo hann
//	stftinfo -size 2048 -hop 512 blackman nuttall
//	stftinfo -list
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-stft/dsp/stft"
)

var registry = map[string]stft.Window{
	"rectangular": stft.WindowRectangular,
	"hann":        stft.WindowHann,
	"hamming":     stft.WindowHamming,
	"blackman":    stft.WindowBlackman,
	"nuttall":     stft.WindowNuttall,
	"triangular":  stft.WindowTriangular,
}

func main() {
	size := flag.Int("size", 1024, "FFT frame size in samples (must be a power of two from 64 to 8192)")
	hop := flag.Int("hop", 0, "hop length in samples (defaults to size/4; must divide size evenly)")
	list := flag.Bool("list", false, "list supported window names and frame sizes")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: stftinfo [flags] [window-name ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints STFT overlap-add statistics for one or more window families.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints info for all six supported windows.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  stftinfo hann\n")
		fmt.Fprintf(os.Stderr, "  stftinfo -size 2048 -hop 512 blackman nuttall\n")
		fmt.Fprintf(os.Stderr, "  stftinfo -list\n")
	}
	flag.Parse()

	if *list {
		printList()
		return
	}

	if *hop == 0 {
		*hop = *size / 4
	}

	names := flag.Args()
	if len(names) == 0 {
		names = sortedNames()
	}

	windows := resolveWindows(names)
	if len(windows) == 0 {
		fmt.Fprintf(os.Stderr, "error: no matching window types\n")
		os.Exit(1)
	}

	printAnalysis(*size, *hop, windows)
}

func sortedNames() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func printList() {
	for _, n := range sortedNames() {
		fmt.Println(n)
	}
	fmt.Println()
	fmt.Println("frame sizes:")
	for _, n := range stft.FFTSizeLadder() {
		fmt.Println(n)
	}
}

type resolvedWindow struct {
	name string
	fam  stft.Window
}

func resolveWindows(names []string) []resolvedWindow {
	var result []resolvedWindow
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		fam, ok := registry[key]
		if !ok {
			fmt.Fprintf(os.Stderr, "warning: unknown window %q (use -list to see available)\n", name)
			continue
		}
		result = append(result, resolvedWindow{key, fam})
	}
	return result
}

func printAnalysis(size, hop int, windows []resolvedWindow) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Window\tSize\tHop\tOverlap\tBins\tSum(w^2)\tNorm Divisor\n"); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}
	if _, err := fmt.Fprintf(tw, "------\t----\t---\t-------\t----\t--------\t------------\n"); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	for _, w := range windows {
		sumSq, divisor, err := stft.COLAGain(size, hop, w.fam)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s at size=%d hop=%d: %v\n", w.name, size, hop, err)
			continue
		}

		overlap := float64(size) / float64(hop)
		bins := size/2 + 1

		if _, err := fmt.Fprintf(tw, "%s\t%d\t%d\t%.2fx\t%d\t%.6f\t%.6f\n",
			w.name, size, hop, overlap, bins, sumSq, divisor,
		); err != nil {
			fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return
		}
	}

	if err := tw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
