package gibber

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-dsp/dsp/effects/reverb"
)

// Partition order for the partitioned convolution stage.
const convPartitionOrder = 7

// Graph is the dry/wet mix bus: every voice fans out to a dry gain
// (1 - wetMix) feeding the sink directly, and a wet gain (wetMix) feeding a
// convolution reverb whose output also feeds the sink. One Graph is built per
// playback or render invocation; the live and offline execution contexts both
// drive it through Process, which is what keeps the two paths identical.
type Graph struct {
	sampleRate int
	channels   int
	dry        float64
	wet        float64
	conv       []*reverb.ConvolutionReverb // per channel; nil when wetMix == 0

	// The voice set is touched from two goroutines in the live path: the
	// portaudio callback (Process) and whichever goroutine calls Stop, so
	// it carries its own lock. order holds the ids ascending; the fixed
	// iteration order keeps the float mix sum reproducible between the
	// live and offline paths.
	mu     sync.Mutex
	voices map[int]*Voice
	order  []int
	nextID int
	frame  int

	voiceBuf [][]float64
	wetBuf   [][]float64
	mixView  [][]float64
}

// NewGraph wires a fresh bus for the given context shape. The impulse buffer
// must have been generated at sampleRate; it is only consulted when
// wetMix > 0, and a fully dry graph skips the convolution stage entirely so
// the dry path stays bit-exact.
func NewGraph(sampleRate, channels int, wetMix float64, impulse *Buffer) (*Graph, error) {
	g := &Graph{
		sampleRate: sampleRate,
		channels:   channels,
		dry:        1.0 - wetMix,
		wet:        wetMix,
		voices:     make(map[int]*Voice),
	}

	if wetMix > 0 {
		if impulse == nil || impulse.Frames() == 0 {
			return nil, fmt.Errorf("%w: wet graph needs an impulse response", ErrRender)
		}
		if impulse.SampleRate != sampleRate {
			return nil, fmt.Errorf("%w: impulse rate %d does not match context rate %d",
				ErrRender, impulse.SampleRate, sampleRate)
		}
		for c := 0; c < channels; c++ {
			plane := impulse.Channels[c%impulse.NumChannels()]
			kernel := make([]float64, len(plane))
			copy(kernel, plane)

			cr, err := reverb.NewConvolutionReverb(kernel, convPartitionOrder)
			if err != nil {
				return nil, fmt.Errorf("%w: build convolution stage: %v", ErrRender, err)
			}
			// The stage itself is fully wet; dry/wet blending is this
			// graph's job.
			cr.SetWetDry(1.0, 0.0)
			g.conv = append(g.conv, cr)
		}
	}
	return g, nil
}

// SampleRate returns the context rate the graph was built for.
func (g *Graph) SampleRate() int { return g.sampleRate }

// NumChannels returns the output channel count.
func (g *Graph) NumChannels() int { return g.channels }

// Frame returns how many frames the graph has produced so far.
func (g *Graph) Frame() int { return g.frame }

// AddVoice registers a voice and returns its identity.
func (g *Graph) AddVoice(v *Voice) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nextID
	g.nextID++
	g.voices[id] = v
	// Ids only ever grow, so appending keeps order sorted.
	g.order = append(g.order, id)
	return id
}

// ActiveVoices returns the number of voices still registered.
func (g *Graph) ActiveVoices() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.voices)
}

// StopAll forcibly ends every voice and clears the set. Voices that already
// ended naturally are simply gone; stopping an empty graph is a no-op, so the
// call is idempotent. Safe to call while Process is running on the callback
// thread.
func (g *Graph) StopAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for id := range g.voices {
		delete(g.voices, id)
	}
	g.order = g.order[:0]
}

// Process renders the next len(out[0]) frames into out, overwriting it.
// Voices that end during the block deregister themselves here. After the
// first block the steady state allocates nothing, so the live callback can
// call this directly.
func (g *Graph) Process(out [][]float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	frames := len(out[0])
	g.ensureScratch(frames)

	for c := 0; c < g.channels; c++ {
		plane := g.voiceBuf[c][:frames]
		for i := range plane {
			plane[i] = 0
		}
	}

	for c := 0; c < g.channels; c++ {
		g.mixView[c] = g.voiceBuf[c][:frames]
	}
	// Compact the ordered ids in place, keeping survivors.
	live := g.order[:0]
	for _, id := range g.order {
		if g.voices[id].mixInto(g.mixView, g.frame) {
			live = append(live, id)
		} else {
			delete(g.voices, id)
		}
	}
	g.order = live

	for c := 0; c < g.channels; c++ {
		dst := out[c][:frames]
		src := g.voiceBuf[c][:frames]
		if g.wet > 0 && g.conv != nil {
			wet := g.wetBuf[c][:frames]
			copy(wet, src)
			_ = g.conv[c].ProcessInPlace(wet)
			for i := range dst {
				dst[i] = src[i]*g.dry + wet[i]*g.wet
			}
		} else {
			for i := range dst {
				dst[i] = src[i] * g.dry
			}
		}
	}
	g.frame += frames
}

func (g *Graph) ensureScratch(frames int) {
	if len(g.voiceBuf) == g.channels && len(g.voiceBuf[0]) >= frames {
		return
	}
	g.voiceBuf = make([][]float64, g.channels)
	g.wetBuf = make([][]float64, g.channels)
	g.mixView = make([][]float64, g.channels)
	for c := 0; c < g.channels; c++ {
		g.voiceBuf[c] = make([]float64, frames)
		g.wetBuf[c] = make([]float64, frames)
	}
}
