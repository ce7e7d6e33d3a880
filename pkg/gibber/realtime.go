package gibber

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/spacebaboon/gibbering-mouther/pkg/config"
)

// LiveContext adapts the default audio output device to the graph's pull
// model: the portaudio callback asks the active graph for each block. The
// callback runs on portaudio's thread, so attaching and detaching graphs is
// guarded by a mutex; everything else touches the graph only from inside the
// callback.
type LiveContext struct {
	sampleRate int
	channels   int
	volume     float64
	stream     *portaudio.Stream

	mu      sync.Mutex
	graph   *Graph
	scratch [][]float64
	block   [][]float64 // per-callback views into scratch
}

// NewLiveContext opens and starts the default output stream. portaudio must
// already be initialized.
func NewLiveContext(cfg config.AudioConfig) (*LiveContext, error) {
	lc := &LiveContext{
		sampleRate: cfg.SampleRate,
		channels:   cfg.Channels,
		volume:     cfg.Volume,
	}

	stream, err := portaudio.OpenDefaultStream(0, cfg.Channels, float64(cfg.SampleRate), cfg.FramesPerBuffer, lc.callback)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio output: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("failed to start audio output: %w", err)
	}
	lc.stream = stream
	return lc, nil
}

// SampleRate returns the output device rate.
func (lc *LiveContext) SampleRate() int { return lc.sampleRate }

// NumChannels returns the output channel count.
func (lc *LiveContext) NumChannels() int { return lc.channels }

// SetGraph swaps the active graph. A nil graph silences the output.
func (lc *LiveContext) SetGraph(g *Graph) {
	lc.mu.Lock()
	lc.graph = g
	lc.mu.Unlock()
}

// Graph returns the currently attached graph, if any.
func (lc *LiveContext) Graph() *Graph {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.graph
}

// callback fills one output block from the active graph.
func (lc *LiveContext) callback(out []float32) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	for i := range out {
		out[i] = 0
	}
	if lc.graph == nil {
		return
	}

	frames := len(out) / lc.channels
	lc.ensureScratch(frames)
	for c := 0; c < lc.channels; c++ {
		lc.block[c] = lc.scratch[c][:frames]
	}
	lc.graph.Process(lc.block)

	// Interleave with the master volume, hard-clipped at the device edge.
	for i := 0; i < frames; i++ {
		for c := 0; c < lc.channels; c++ {
			s := lc.block[c][i] * lc.volume
			if s > 1 {
				s = 1
			} else if s < -1 {
				s = -1
			}
			out[i*lc.channels+c] = float32(s)
		}
	}
}

func (lc *LiveContext) ensureScratch(frames int) {
	if len(lc.scratch) == lc.channels && len(lc.scratch[0]) >= frames {
		return
	}
	lc.scratch = make([][]float64, lc.channels)
	lc.block = make([][]float64, lc.channels)
	for c := range lc.scratch {
		lc.scratch[c] = make([]float64, frames)
	}
}

// Close stops and closes the output stream.
func (lc *LiveContext) Close() error {
	if lc.stream == nil {
		return nil
	}
	if err := lc.stream.Stop(); err != nil {
		lc.stream.Close()
		return err
	}
	return lc.stream.Close()
}
