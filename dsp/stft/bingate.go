package stft

// BinGate is a spectrum-to-spectrum processor that passes bins within
// [lowBin, highBin] through unchanged and zeroes everything outside it. It
// exists mainly to demonstrate how a user processor composes between
// RealFft and InverseRealFft; most real processors in this position would
// also read/write a running phase or magnitude history, which BinGate has
// no need for.
type BinGate struct {
	NoopLifecycle
	fftSize         int
	lowBin, highBin int
}

// NewBinGate returns a BinGate keeping bins [lowBin, highBin] of an
// fftSize-point real spectrum and zeroing the rest.
func NewBinGate(fftSize, lowBin, highBin int) *BinGate {
	return &BinGate{fftSize: fftSize, lowBin: lowBin, highBin: highBin}
}

func (g *BinGate) Name() string { return "BinGate" }

func (g *BinGate) InputSpec() []PortSpec {
	return []PortSpec{{Name: "input", Type: SignalTypeRealSpectrum}}
}

func (g *BinGate) OutputSpec() []PortSpec {
	return []PortSpec{{Name: "output", Type: SignalTypeRealSpectrum}}
}

func (g *BinGate) CreateOutputBuffers(int) []Buffer {
	return []Buffer{NewRealSpectrumBuffer(g.fftSize)}
}

func (g *BinGate) Process(_ ProcEnv, inputs []*Buffer, outputs []Buffer) error {
	out := outputs[0].Complexes
	in := inputs[0]
	if in == nil {
		clear(out)
		return nil
	}
	for i, v := range in.Complexes {
		if i >= g.lowBin && i <= g.highBin {
			out[i] = v
		} else {
			out[i] = 0
		}
	}
	return nil
}
