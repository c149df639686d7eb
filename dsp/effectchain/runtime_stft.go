package effectchain

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stft/dsp/stft"
)

// stftSubgraphRuntime drives a single-input, single-output stft.Graph one
// outer block at a time, making the STFT subgraph usable as an ordinary
// effectchain node. Parameters select the frame size, hop length, window
// family, and an optional bin-range gate applied in the frequency domain
// between the forward and inverse transform.
type stftSubgraphRuntime struct {
	graph        *stft.Graph
	sampleRate   float64
	maxBlockSize int
}

func buildSTFTGraph(fftSize, hop int, fam stft.Window, gateLow, gateHigh int) (*stft.Graph, error) {
	b, err := stft.NewBuilder(fftSize, hop, fam)
	if err != nil {
		return nil, fmt.Errorf("stft subgraph: %w", err)
	}

	in := b.AddAudioInput()
	out := b.AddAudioOutput()

	src := in.Output(0)
	if gateHigh > gateLow {
		gate := b.Node(stft.NewBinGate(fftSize, gateLow, gateHigh))
		if err := gate.Input(0).Connect(src); err != nil {
			return nil, fmt.Errorf("stft subgraph: wire gate input: %w", err)
		}
		src = gate.Output(0)
	}

	if err := out.Input(0).Connect(src); err != nil {
		return nil, fmt.Errorf("stft subgraph: wire output: %w", err)
	}

	return b.Graph(), nil
}

func (r *stftSubgraphRuntime) Configure(ctx Context, p Params) error {
	fftSize := normalizeSTFTFrameSize(int(math.Round(p.GetNum("fftSize", 1024))))
	hop := int(math.Round(p.GetNum("hop", float64(fftSize/4))))
	fam := normalizeSTFTWindow(p.Str["window"])
	lowBin := int(math.Round(p.GetNum("gateLowBin", 0)))
	highBin := int(math.Round(p.GetNum("gateHighBin", 0)))

	graph, err := buildSTFTGraph(fftSize, hop, fam, lowBin, highBin)
	if err != nil {
		return err
	}

	r.graph = graph
	r.sampleRate = ctx.SampleRate
	if r.sampleRate <= 0 {
		r.sampleRate = 48000
	}
	r.maxBlockSize = 0
	return nil
}

// Process runs one outer block through the subgraph in place. The first
// call (and any call with a larger block than previously seen) allocates
// the graph's ring buffers for the new maximum block size; every call
// after that is allocation-free.
func (r *stftSubgraphRuntime) Process(block []float64) {
	if r.graph == nil || len(block) == 0 {
		return
	}

	if len(block) > r.maxBlockSize {
		r.maxBlockSize = len(block)
		if err := r.graph.Allocate(r.sampleRate, r.maxBlockSize); err != nil {
			return
		}
	}

	in := [][]float64{block}
	out := [][]float64{block}
	_ = r.graph.Process(in, out)
}

func normalizeSTFTFrameSize(n int) int {
	sizes := [...]int{64, 128, 256, 512, 1024, 2048, 4096, 8192}
	best := sizes[0]
	bestDiff := math.MaxInt
	for _, s := range sizes {
		diff := s - n
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			bestDiff = diff
			best = s
		}
	}
	return best
}

func normalizeSTFTWindow(name string) stft.Window {
	switch name {
	case "rectangular":
		return stft.WindowRectangular
	case "hamming":
		return stft.WindowHamming
	case "blackman":
		return stft.WindowBlackman
	case "nuttall":
		return stft.WindowNuttall
	case "triangular":
		return stft.WindowTriangular
	default:
		return stft.WindowHann
	}
}
