package stft

import (
	"fmt"
	"log/slog"
)

// NodeID identifies a node within a Graph.
type NodeID int

type portRef struct {
	node NodeID
	port int
}

type portRefOpt struct {
	valid bool
	ref   portRef
}

type edge struct {
	from portRef
	to   portRef
}

// fftInput holds the per-audio-input state the scheduler needs: the sample
// ring buffer accumulating outer-block input, keyed by the Null node that
// exposes its windowed frame to the rest of the graph.
type fftInput struct {
	ring ringBuffer
}

// fftOutput holds the per-audio-output state: the fixed-length overlap-add
// accumulator and the ring buffer of samples ready to be drained to the
// outer block, keyed by the InverseRealFft node that produces each frame.
type fftOutput struct {
	overlap []float64
	ring    ringBuffer
}

func (o *fftOutput) addWindowed(frame, window []float64) {
	for i, w := range window {
		o.overlap[i] += frame[i] * w
	}
}

func (o *fftOutput) hop(h int) {
	o.ring.push(o.overlap[:h])
	n := len(o.overlap)
	copy(o.overlap, o.overlap[h:])
	for i := n - h; i < n; i++ {
		o.overlap[i] = 0
	}
}

// Graph is the DAG of spectral nodes that makes up one STFT subgraph:
// windowing, ring buffers, and the overlap-add scheduler around a
// user-assembled network of [Processor] nodes. Grounded on the code-built
// Kahn's-algorithm topological sort in dsp/effectchain/graph.go, adapted
// from a JSON-described graph to one assembled directly through Go calls.
type Graph struct {
	fftSize int
	hop     int
	window  []float64
	logger  *slog.Logger

	nodes    []*node
	incoming map[NodeID][]portRefOpt
	outgoing map[NodeID][]edge

	order      []NodeID
	orderValid bool

	inputsByNode  map[NodeID]*fftInput
	inputOrder    []NodeID
	outputsByNode map[NodeID]*fftOutput
	outputOrder   []NodeID

	sampleRate float64
	blockSize  int
	allocated  bool
}

// New constructs a Graph for the given FFT size, hop length, and window
// family. hop must evenly divide fftSize. Call Allocate before Process.
func New(fftSize, hop int, fam Window, opts ...Option) (*Graph, error) {
	if !validFFTSize(fftSize) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}
	if hop <= 0 || fftSize%hop != 0 {
		return nil, fmt.Errorf("%w: fftSize=%d hop=%d", ErrInvalidHop, fftSize, hop)
	}

	win, err := buildCOLAWindow(fftSize, hop, fam)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}

	return &Graph{
		fftSize:       fftSize,
		hop:           hop,
		window:        win,
		logger:        cfg.logger,
		incoming:      make(map[NodeID][]portRefOpt),
		outgoing:      make(map[NodeID][]edge),
		inputsByNode:  make(map[NodeID]*fftInput),
		outputsByNode: make(map[NodeID]*fftOutput),
	}, nil
}

// FFTSize returns the frame size this graph was constructed with.
func (g *Graph) FFTSize() int { return g.fftSize }

// HopLength returns the hop length this graph was constructed with.
func (g *Graph) HopLength() int { return g.hop }

func (g *Graph) addNode(p Processor) NodeID {
	n := newNode(p)
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.incoming[id] = make([]portRefOpt, len(n.inputSpec))
	g.orderValid = false
	return id
}

// AddNode adds a user-supplied processor to the graph and returns its ID.
func (g *Graph) AddNode(p Processor) NodeID {
	return g.addNode(p)
}

// AddAudioInput wires a new (Null, RealFft) pair into the graph and
// registers the ring buffer that feeds it from the outer block. It returns
// the RealFft node's ID, since that is the node downstream processors
// connect to.
func (g *Graph) AddAudioInput() NodeID {
	nullID := g.addNode(NewNull(g.fftSize))
	fftID := g.addNode(NewRealFft(g.fftSize))
	_ = g.Connect(nullID, 0, fftID, 0)

	g.inputsByNode[nullID] = &fftInput{}
	g.inputOrder = append(g.inputOrder, nullID)
	return fftID
}

// AddAudioOutput adds an InverseRealFft node and registers the overlap-add
// state that drains it to the outer block. It returns the node's ID, which
// upstream processors connect their spectrum output into.
func (g *Graph) AddAudioOutput() NodeID {
	id := g.addNode(NewInverseRealFft(g.fftSize))

	g.outputsByNode[id] = &fftOutput{}
	g.outputOrder = append(g.outputOrder, id)
	return id
}

// Connect wires output port srcPort of src to input port dstPort of dst.
// Connecting to an input that already has an incoming edge replaces it.
func (g *Graph) Connect(src NodeID, srcPort int, dst NodeID, dstPort int) error {
	if int(src) < 0 || int(src) >= len(g.nodes) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, src)
	}
	if int(dst) < 0 || int(dst) >= len(g.nodes) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, dst)
	}

	srcNode, dstNode := g.nodes[src], g.nodes[dst]
	if srcPort < 0 || srcPort >= len(srcNode.outputSpec) {
		return fmt.Errorf("%w: output %d on %s", ErrInvalidPort, srcPort, srcNode.name)
	}
	if dstPort < 0 || dstPort >= len(dstNode.inputSpec) {
		return fmt.Errorf("%w: input %d on %s", ErrInvalidPort, dstPort, dstNode.name)
	}
	if srcNode.outputSpec[srcPort].Type != dstNode.inputSpec[dstPort].Type {
		return fmt.Errorf("%w: %s.%d (%v) -> %s.%d (%v)", ErrPortTypeMismatch,
			srcNode.name, srcPort, srcNode.outputSpec[srcPort].Type,
			dstNode.name, dstPort, dstNode.inputSpec[dstPort].Type)
	}

	if prev := g.incoming[dst][dstPort]; prev.valid {
		g.disconnect(prev.ref, portRef{dst, dstPort})
	}

	g.incoming[dst][dstPort] = portRefOpt{valid: true, ref: portRef{src, srcPort}}
	g.outgoing[src] = append(g.outgoing[src], edge{from: portRef{src, srcPort}, to: portRef{dst, dstPort}})
	g.orderValid = false
	return nil
}

func (g *Graph) disconnect(from, to portRef) {
	edges := g.outgoing[from.node]
	for i, e := range edges {
		if e.to == to {
			g.outgoing[from.node] = append(edges[:i], edges[i+1:]...)
			return
		}
	}
}

func (g *Graph) computeOrder() error {
	indegree := make([]int, len(g.nodes))
	for dst, refs := range g.incoming {
		for _, r := range refs {
			if r.valid {
				indegree[dst]++
			}
		}
	}

	queue := make([]NodeID, 0, len(g.nodes))
	for id, d := range indegree {
		if d == 0 {
			queue = append(queue, NodeID(id))
		}
	}

	order := make([]NodeID, 0, len(g.nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		for _, e := range g.outgoing[id] {
			indegree[e.to.node]--
			if indegree[e.to.node] == 0 {
				queue = append(queue, e.to.node)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return ErrCycle
	}

	g.order = order
	g.orderValid = true
	return nil
}
