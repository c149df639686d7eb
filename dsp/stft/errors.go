package stft

import "errors"

var (
	// ErrInvalidFFTSize is returned when a requested frame size is not one
	// of the supported power-of-two sizes (64 through 8192).
	ErrInvalidFFTSize = errors.New("stft: invalid fft size")
	// ErrInvalidHop is returned when the hop length is non-positive or does
	// not evenly divide the frame size.
	ErrInvalidHop = errors.New("stft: hop length must evenly divide fft size")
	// ErrUnknownNode is returned when a NodeID outside the graph is used.
	ErrUnknownNode = errors.New("stft: unknown node")
	// ErrInvalidPort is returned when a port index is out of range for its
	// node's input or output spec.
	ErrInvalidPort = errors.New("stft: invalid port index")
	// ErrPortTypeMismatch is returned by Connect when the source output's
	// SignalType does not match the destination input's SignalType.
	ErrPortTypeMismatch = errors.New("stft: incompatible port signal types")
	// ErrCycle is returned when the graph's edges form a cycle and no valid
	// traversal order exists.
	ErrCycle = errors.New("stft: graph contains a cycle")
	// ErrNotAllocated is returned by Process if Allocate has not been called.
	ErrNotAllocated = errors.New("stft: graph not allocated")
)
