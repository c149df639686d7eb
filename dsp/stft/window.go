package stft

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-stft/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// Window selects one of the six analysis/synthesis window families the
// subgraph supports, a narrow subset of the much larger family table in
// dsp/window chosen for perfect-reconstruction overlap-add.
type Window int

const (
	WindowRectangular Window = iota
	WindowHann
	WindowHamming
	WindowBlackman
	WindowNuttall
	WindowTriangular
)

func (w Window) dspType() window.Type {
	switch w {
	case WindowRectangular:
		return window.TypeRectangular
	case WindowHann:
		return window.TypeHann
	case WindowHamming:
		return window.TypeHamming
	case WindowBlackman:
		return window.TypeBlackman
	case WindowNuttall:
		return window.TypeNuttallCTD
	case WindowTriangular:
		return window.TypeTriangle
	default:
		return window.TypeHann
	}
}

func (w Window) String() string {
	switch w {
	case WindowRectangular:
		return "Rectangular"
	case WindowHann:
		return "Hann"
	case WindowHamming:
		return "Hamming"
	case WindowBlackman:
		return "Blackman"
	case WindowNuttall:
		return "Nuttall"
	case WindowTriangular:
		return "Triangular"
	default:
		return "Unknown"
	}
}

// ErrZeroNormalization is returned when a window's constant-overlap-add
// normalization sum is zero (degenerate window, or hop that never overlaps).
var ErrZeroNormalization = errors.New("stft: window normalization sum is zero")

// buildCOLAWindow generates the fftSize-length window for fam, rotates it by
// fftSize/2 so sample 0 holds the window's center value, then scales every
// coefficient so the analysis/synthesis pair reconstructs a driven signal
// with unity gain at this hop size.
//
// The divisor is sum(w[i]^2)/hop, not the overlap-count * sum(w[i]^2) form
// used upstream of algo-fft's Inverse: that form assumes an unnormalized
// FFT/IFFT pair (round trip scales by fftSize), which is the convention of
// the Rust FFT crates this subgraph's algorithm was distilled from. algo-fft
// normalizes its own Inverse (dsp/conv's FFT round trips need no manual 1/N
// anywhere), so reusing the unnormalized-pair divisor here would leave every
// reconstructed sample too quiet by a factor of fftSize. Dividing by hop
// instead of multiplying by fftSize/hop cancels exactly that difference.
func buildCOLAWindow(fftSize, hop int, fam Window) ([]float64, error) {
	rotated, sumSq := rotatedWindowAndPower(fftSize, fam)

	total := sumSq / float64(hop)
	if total == 0 {
		return nil, ErrZeroNormalization
	}

	norm := math.Sqrt(total)
	for i := range rotated {
		rotated[i] /= norm
	}
	return rotated, nil
}

// rotatedWindowAndPower generates fam's fftSize-length window, rotates it by
// fftSize/2, and returns it alongside the sum of its squared coefficients
// (the window's power, used by buildCOLAWindow and by COLAGain).
func rotatedWindowAndPower(fftSize int, fam Window) ([]float64, float64) {
	w := window.Generate(fam.dspType(), fftSize)

	rotated := make([]float64, fftSize)
	shift := fftSize / 2
	for i, v := range w {
		rotated[(i+shift)%fftSize] = v
	}

	squared := make([]float64, fftSize)
	copy(squared, rotated)
	vecmath.MulBlockInPlace(squared, rotated)

	sumSq := 0.0
	for _, v := range squared {
		sumSq += v
	}
	return rotated, sumSq
}

// COLAGain reports the constant-overlap-add normalization statistics for a
// given (fftSize, hop, window) triple without building a Graph: the raw sum
// of squared window coefficients, and the per-sample divisor applied to the
// window before overlap-add reconstructs a driven signal at unity gain.
func COLAGain(fftSize, hop int, fam Window) (sumSquared, divisor float64, err error) {
	if !validFFTSize(fftSize) {
		return 0, 0, ErrInvalidFFTSize
	}
	if hop <= 0 || fftSize%hop != 0 {
		return 0, 0, ErrInvalidHop
	}

	_, sumSq := rotatedWindowAndPower(fftSize, fam)
	total := sumSq / float64(hop)
	if total == 0 {
		return sumSq, 0, ErrZeroNormalization
	}
	return sumSq, math.Sqrt(total), nil
}
