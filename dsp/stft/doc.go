// Package stft implements a short-time Fourier transform subgraph: a small
// frequency-domain processing network that slices continuous time-domain
// audio into overlapping frames, routes each frame through a DAG of spectral
// processors, and reconstructs a continuous signal by windowed overlap-add.
//
// A [Graph] owns one or more audio inputs and outputs, an internal DAG of
// [Processor] nodes wired together with [Graph.Connect], and the ring
// buffers and window table needed to convert between the outer block rate
// and the inner FFT frame rate. [Builder] is a thinner facade over the same
// graph for callers that prefer handle-based wiring.
//
// The built-in [RealFft] and [InverseRealFft] processors bridge audio blocks
// to and from real spectra; [Null] exposes an input's windowed frame to
// downstream nodes without processing it. User processors compose with these
// by implementing [Processor] and producing compatible [PortSpec] types.
package stft
