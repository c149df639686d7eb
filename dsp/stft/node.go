package stft

// node wraps a Processor with the graph-owned state needed to run it each
// frame: its realized output buffers and a reusable scratch slice of
// upstream input-buffer pointers, sized once so traversal never allocates.
type node struct {
	processor  Processor
	name       string
	inputSpec  []PortSpec
	outputSpec []PortSpec

	outputs  []Buffer
	inputBuf []*Buffer
}

func newNode(p Processor) *node {
	return &node{
		processor:  p,
		name:       p.Name(),
		inputSpec:  p.InputSpec(),
		outputSpec: p.OutputSpec(),
		inputBuf:   make([]*Buffer, len(p.InputSpec())),
	}
}

func (n *node) allocate(sampleRate float64, outputBufferCount int) {
	n.processor.Allocate(sampleRate)
	n.outputs = n.processor.CreateOutputBuffers(outputBufferCount)
}

func (n *node) resizeBuffers(sampleRate float64) {
	n.processor.ResizeBuffers(sampleRate)
}

func (n *node) process(env ProcEnv) error {
	if err := n.processor.Process(env, n.inputBuf, n.outputs); err != nil {
		return &ProcessingError{Node: n.name, Cause: err}
	}
	return nil
}
