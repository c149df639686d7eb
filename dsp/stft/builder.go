package stft

// Builder is a handle-based facade over a Graph: AddAudioInput,
// AddAudioOutput, and Node return [NodeHandle] values whose Input/Output
// methods produce [Port] values for wiring with Connect, instead of callers
// tracking raw [NodeID]s themselves.
type Builder struct {
	graph *Graph
}

// NewBuilder constructs a Graph and wraps it in a Builder.
func NewBuilder(fftSize, hop int, fam Window, opts ...Option) (*Builder, error) {
	g, err := New(fftSize, hop, fam, opts...)
	if err != nil {
		return nil, err
	}
	return &Builder{graph: g}, nil
}

// Graph returns the underlying Graph.
func (b *Builder) Graph() *Graph { return b.graph }

// NodeHandle identifies one node added through a Builder.
type NodeHandle struct {
	builder *Builder
	id      NodeID
}

// ID returns the underlying NodeID.
func (h NodeHandle) ID() NodeID { return h.id }

// Port is one input or output port of a node, identified for wiring.
type Port struct {
	handle NodeHandle
	index  int
}

// Input returns the handle's i'th input port.
func (h NodeHandle) Input(i int) Port { return Port{handle: h, index: i} }

// Output returns the handle's i'th output port.
func (h NodeHandle) Output(i int) Port { return Port{handle: h, index: i} }

// Connect wires src as the source of this (input) port.
func (p Port) Connect(src Port) error {
	return p.handle.builder.graph.Connect(src.handle.id, src.index, p.handle.id, p.index)
}

// AddAudioInput adds an audio input to the underlying graph.
func (b *Builder) AddAudioInput() NodeHandle {
	return NodeHandle{builder: b, id: b.graph.AddAudioInput()}
}

// AddAudioOutput adds an audio output to the underlying graph.
func (b *Builder) AddAudioOutput() NodeHandle {
	return NodeHandle{builder: b, id: b.graph.AddAudioOutput()}
}

// Node adds a user-supplied processor to the underlying graph.
func (b *Builder) Node(p Processor) NodeHandle {
	return NodeHandle{builder: b, id: b.graph.AddNode(p)}
}
