package stft

// Null exposes an audio input's windowed frame to downstream nodes. It has
// no inputs: the subgraph scheduler writes each frame directly into its
// output buffer before traversal, so Process is a pure no-op.
type Null struct {
	NoopLifecycle
	fftSize int
}

func NewNull(fftSize int) *Null {
	return &Null{fftSize: fftSize}
}

func (p *Null) Name() string { return "Null" }

func (p *Null) InputSpec() []PortSpec { return nil }

func (p *Null) OutputSpec() []PortSpec {
	return []PortSpec{{Name: "output", Type: SignalTypeAudioBlock}}
}

func (p *Null) CreateOutputBuffers(int) []Buffer {
	return []Buffer{NewAudioBlockBuffer(p.fftSize)}
}

func (p *Null) Process(ProcEnv, []*Buffer, []Buffer) error { return nil }
