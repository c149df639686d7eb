package stft

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
)

// RealFft is the forward real-to-complex FFT bridge: one audio-block input
// of fftSize samples, one one-sided real-spectrum output of fftSize/2+1
// bins. Grounded on the real-plan usage in dsp/conv and in
// MeKo-Christian-pw_convoverb's convolution_stage.go, specialized to
// float64/complex128 to match the rest of this module.
type RealFft struct {
	fftSize int
	plan    *algofft.PlanRealT[float64, complex128]
	scratch []float64
}

// NewRealFft returns a RealFft bridge for the given frame size. Call
// Allocate before the first Process.
func NewRealFft(fftSize int) *RealFft {
	return &RealFft{fftSize: fftSize}
}

func (p *RealFft) Name() string { return "RealFft" }

func (p *RealFft) InputSpec() []PortSpec {
	return []PortSpec{{Name: "input", Type: SignalTypeAudioBlock}}
}

func (p *RealFft) OutputSpec() []PortSpec {
	return []PortSpec{{Name: "output", Type: SignalTypeRealSpectrum}}
}

func (p *RealFft) CreateOutputBuffers(int) []Buffer {
	return []Buffer{NewRealSpectrumBuffer(p.fftSize)}
}

func (p *RealFft) Allocate(float64) {
	plan, err := algofft.NewPlanReal64(p.fftSize)
	if err != nil {
		panic(fmt.Sprintf("stft: RealFft plan for size %d: %v", p.fftSize, err))
	}
	p.plan = plan
	p.scratch = make([]float64, p.fftSize)
}

func (p *RealFft) ResizeBuffers(float64) {}

func (p *RealFft) Process(_ ProcEnv, inputs []*Buffer, outputs []Buffer) error {
	in := inputs[0]
	if in == nil {
		return nil
	}
	copy(p.scratch, in.Reals)
	if err := p.plan.Forward(outputs[0].Complexes, p.scratch); err != nil {
		return err
	}
	// Zeroing our own staging buffer after use isn't observable downstream;
	// it mirrors the defensive scratch clear of the original transform.
	clear(p.scratch)
	return nil
}

// InverseRealFft is the inverse complex-to-real FFT bridge: one one-sided
// real-spectrum input, one audio-block output. DC and Nyquist bins are
// forced to zero imaginary part before the transform, since a real-valued
// time-domain signal requires both to be purely real; an upstream processor
// that leaves a residual imaginary component there would otherwise corrupt
// the reconstruction.
type InverseRealFft struct {
	fftSize int
	plan    *algofft.PlanRealT[float64, complex128]
	scratch []complex128
}

func NewInverseRealFft(fftSize int) *InverseRealFft {
	return &InverseRealFft{fftSize: fftSize}
}

func (p *InverseRealFft) Name() string { return "InverseRealFft" }

func (p *InverseRealFft) InputSpec() []PortSpec {
	return []PortSpec{{Name: "input", Type: SignalTypeRealSpectrum}}
}

func (p *InverseRealFft) OutputSpec() []PortSpec {
	return []PortSpec{{Name: "output", Type: SignalTypeAudioBlock}}
}

func (p *InverseRealFft) CreateOutputBuffers(int) []Buffer {
	return []Buffer{NewAudioBlockBuffer(p.fftSize)}
}

func (p *InverseRealFft) Allocate(float64) {
	plan, err := algofft.NewPlanReal64(p.fftSize)
	if err != nil {
		panic(fmt.Sprintf("stft: InverseRealFft plan for size %d: %v", p.fftSize, err))
	}
	p.plan = plan
	p.scratch = make([]complex128, realBins(p.fftSize))
}

func (p *InverseRealFft) ResizeBuffers(float64) {}

func (p *InverseRealFft) Process(_ ProcEnv, inputs []*Buffer, outputs []Buffer) error {
	in := inputs[0]
	if in == nil {
		return nil
	}
	copy(p.scratch, in.Complexes)
	p.scratch[0] = complex(real(p.scratch[0]), 0)
	last := len(p.scratch) - 1
	p.scratch[last] = complex(real(p.scratch[last]), 0)

	if err := p.plan.Inverse(outputs[0].Reals, p.scratch); err != nil {
		return err
	}
	clear(p.scratch)
	return nil
}
