package stft

// ProcEnv carries the per-frame context a [Processor] needs but cannot
// derive from its own input buffers.
type ProcEnv struct {
	SampleRate float64
	BlockSize  int
}

// Processor is one node of the subgraph's inner DAG: it declares its input
// and output port shapes, gets a chance to allocate resources once the
// sample rate is known, and then runs once per FFT frame.
//
// Process must not allocate once Allocate has returned; implementations
// should pre-size all scratch state there. inputs[i] is nil when port i has
// no incoming connection; implementations decide what that means for their
// output (typically: hold the previous output, or write silence).
type Processor interface {
	Name() string
	InputSpec() []PortSpec
	OutputSpec() []PortSpec

	// CreateOutputBuffers returns one freshly allocated [Buffer] per output
	// port, shaped according to OutputSpec. size is the requested buffer
	// count hint and is 1 for every built-in processor; it exists so
	// processors with block-dependent output shapes have a hook to use it.
	CreateOutputBuffers(size int) []Buffer

	// Allocate is called once, after the graph's sample rate is known and
	// before the first Process call, so the processor can build FFT plans
	// and size scratch buffers.
	Allocate(sampleRate float64)

	// ResizeBuffers is called whenever the outer sample rate changes after
	// the initial Allocate. It must not allocate.
	ResizeBuffers(sampleRate float64)

	Process(env ProcEnv, inputs []*Buffer, outputs []Buffer) error
}

// NoopLifecycle implements Allocate and ResizeBuffers as no-ops. Embed it in
// processors that need no per-sample-rate setup.
type NoopLifecycle struct{}

// Allocate does nothing.
func (NoopLifecycle) Allocate(float64) {}

// ResizeBuffers does nothing.
func (NoopLifecycle) ResizeBuffers(float64) {}

// ProcessingError wraps an error raised by a [Processor]'s Process method
// with the name of the node that raised it.
type ProcessingError struct {
	Node  string
	Cause error
}

func (e *ProcessingError) Error() string {
	return "stft: processor " + e.Node + ": " + e.Cause.Error()
}

func (e *ProcessingError) Unwrap() error { return e.Cause }

// SubGraphError wraps a [ProcessingError] (or any node-traversal failure)
// encountered while running one frame through the subgraph.
type SubGraphError struct {
	Inner error
}

func (e *SubGraphError) Error() string {
	return "stft: subgraph: " + e.Inner.Error()
}

func (e *SubGraphError) Unwrap() error { return e.Inner }
