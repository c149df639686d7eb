package stft

// Allocate resizes every node's output buffers for the given sample rate and
// reserves ring-buffer capacity for the largest block size the graph will
// ever see, then computes the node traversal order. It must be called
// before the first Process, and again whenever maxBlockSize grows.
func (g *Graph) Allocate(sampleRate float64, maxBlockSize int) error {
	g.sampleRate = sampleRate
	g.blockSize = maxBlockSize

	for _, n := range g.nodes {
		n.allocate(sampleRate, 1)
	}

	capacity := maxBlockSize + g.fftSize
	for _, id := range g.inputOrder {
		g.inputsByNode[id].ring.reserve(capacity)
	}
	for _, id := range g.outputOrder {
		out := g.outputsByNode[id]
		out.ring.reserve(capacity)
		if len(out.overlap) != g.fftSize {
			out.overlap = make([]float64, g.fftSize)
		}
	}

	if err := g.computeOrder(); err != nil {
		return err
	}
	g.allocated = true
	return nil
}

// BlockSize returns the block size set by the most recent Allocate or
// ResizeBuffers call.
func (g *Graph) BlockSize() int { return g.blockSize }

// ResizeBuffers updates the sample rate and current block size without
// allocating. blockSize must not exceed the maxBlockSize passed to Allocate.
func (g *Graph) ResizeBuffers(sampleRate float64, blockSize int) {
	g.sampleRate = sampleRate
	g.blockSize = blockSize
	for _, n := range g.nodes {
		n.resizeBuffers(sampleRate)
	}
}

func (g *Graph) processNode(id NodeID) error {
	n := g.nodes[id]

	for i := range n.inputBuf {
		n.inputBuf[i] = nil
	}
	for dstPort, ref := range g.incoming[id] {
		if ref.valid {
			src := g.nodes[ref.ref.node]
			n.inputBuf[dstPort] = &src.outputs[ref.ref.port]
		}
	}

	return n.process(ProcEnv{SampleRate: g.sampleRate, BlockSize: g.blockSize})
}

func (g *Graph) logUnderrun(outputIndex int) {
	if g.logger == nil {
		return
	}
	g.logger.Warn("stft: output underrun", "output", outputIndex)
}

// Process runs one outer block through the subgraph. Each outerInputs[k]
// and outerOutputs[k] must have at least BlockSize() samples; only the
// first BlockSize() samples of each are read or written.
//
// Internally this may run zero, one, or several FFT frames through the
// inner DAG depending on how many hop lengths' worth of input have
// accumulated since the previous call. If an output's ring buffer has not
// yet accumulated a full block (warm-up, or a never-driven graph), that
// output is left untouched and an underrun is logged.
func (g *Graph) Process(outerInputs, outerOutputs [][]float64) error {
	if !g.allocated {
		return ErrNotAllocated
	}
	if !g.orderValid {
		if err := g.computeOrder(); err != nil {
			return err
		}
	}
	if len(g.inputOrder) == 0 {
		return nil
	}

	blockSize := g.blockSize

	minLen := -1
	for k, id := range g.inputOrder {
		in := g.inputsByNode[id]
		in.ring.push(outerInputs[k][:blockSize])
		if l := in.ring.length(); minLen == -1 || l < minLen {
			minLen = l
		}
	}

	for minLen >= g.fftSize {
		for _, id := range g.inputOrder {
			in := g.inputsByNode[id]
			frame := in.ring.peek(g.fftSize)
			dst := g.nodes[id].outputs[0].Reals
			for i, w := range g.window {
				dst[i] = frame[i] * w
			}
			in.ring.drop(g.hop)
		}
		minLen -= g.hop

		for _, id := range g.order {
			if err := g.processNode(id); err != nil {
				return &SubGraphError{Inner: err}
			}
		}

		for _, id := range g.outputOrder {
			out := g.outputsByNode[id]
			frame := g.nodes[id].outputs[0].Reals
			out.addWindowed(frame, g.window)
			out.hop(g.hop)
		}
	}

	for k, id := range g.outputOrder {
		out := g.outputsByNode[id]
		if out.ring.length() < blockSize {
			g.logUnderrun(k)
			continue
		}
		out.ring.drainInto(outerOutputs[k][:blockSize])
	}
	return nil
}
