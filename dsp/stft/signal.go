package stft

import "fmt"

// SignalType identifies the shape of data flowing across a port: a single
// real sample, a full-length real audio block, a real (one-sided) spectrum,
// or a full complex spectrum.
type SignalType int

const (
	// SignalTypeReal is a single real-valued sample.
	SignalTypeReal SignalType = iota
	// SignalTypeAudioBlock is an N-sample real-valued time-domain frame.
	SignalTypeAudioBlock
	// SignalTypeRealSpectrum is the one-sided N/2+1 bin spectrum of a real
	// signal, as produced by a forward real-to-complex FFT.
	SignalTypeRealSpectrum
	// SignalTypeComplexSpectrum is a full N-bin complex spectrum.
	SignalTypeComplexSpectrum
)

func (t SignalType) String() string {
	switch t {
	case SignalTypeReal:
		return "Real"
	case SignalTypeAudioBlock:
		return "AudioBlock"
	case SignalTypeRealSpectrum:
		return "RealSpectrum"
	case SignalTypeComplexSpectrum:
		return "ComplexSpectrum"
	default:
		return fmt.Sprintf("SignalType(%d)", int(t))
	}
}

// fftSizeLadder is the fixed set of frame sizes the subgraph supports,
// matching the power-of-two ladder used throughout the original frame
// family (64 through 8192 samples).
var fftSizeLadder = [...]int{64, 128, 256, 512, 1024, 2048, 4096, 8192}

func validFFTSize(n int) bool {
	for _, v := range fftSizeLadder {
		if v == n {
			return true
		}
	}
	return false
}

// FFTSizeLadder returns the supported power-of-two FFT frame sizes, smallest
// first.
func FFTSizeLadder() []int {
	return append([]int(nil), fftSizeLadder[:]...)
}

// realBins returns the number of one-sided spectrum bins (N/2+1) for an FFT
// of the given size.
func realBins(fftSize int) int {
	return fftSize/2 + 1
}

// PortSpec names and types one input or output port of a [Processor].
type PortSpec struct {
	Name string
	Type SignalType
}

// Buffer is a tagged-union frame buffer: exactly one of Reals or Complexes is
// populated, selected by Type. Construct one with the New*Buffer helpers
// rather than by hand, so its slices are sized consistently with Type.
type Buffer struct {
	Type      SignalType
	Reals     []float64
	Complexes []complex128
}

// NewRealBuffer returns a single-sample real buffer.
func NewRealBuffer() Buffer {
	return Buffer{Type: SignalTypeReal, Reals: make([]float64, 1)}
}

// NewAudioBlockBuffer returns an fftSize-sample real-valued frame buffer.
func NewAudioBlockBuffer(fftSize int) Buffer {
	return Buffer{Type: SignalTypeAudioBlock, Reals: make([]float64, fftSize)}
}

// NewRealSpectrumBuffer returns an (fftSize/2+1)-bin one-sided spectrum
// buffer, sized for the output of a real-to-complex FFT of size fftSize.
func NewRealSpectrumBuffer(fftSize int) Buffer {
	return Buffer{Type: SignalTypeRealSpectrum, Complexes: make([]complex128, realBins(fftSize))}
}

// NewComplexSpectrumBuffer returns a full fftSize-bin complex spectrum
// buffer.
func NewComplexSpectrumBuffer(fftSize int) Buffer {
	return Buffer{Type: SignalTypeComplexSpectrum, Complexes: make([]complex128, fftSize)}
}
