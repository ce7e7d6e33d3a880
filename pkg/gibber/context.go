package gibber

import (
	"context"
	"fmt"
)

// Context is the execution environment a graph renders into: the live
// portaudio output or an offline render sized to a fixed duration. The graph
// and voice code is written once against the graph's pull model; a context
// only decides what drives Process and at which rate.
type Context interface {
	SampleRate() int
	NumChannels() int
}

const renderBlockFrames = 1024

// offlineContext renders a graph to a buffer faster than real time.
type offlineContext struct {
	sampleRate int
	channels   int
	frames     int
}

func (o *offlineContext) SampleRate() int  { return o.sampleRate }
func (o *offlineContext) NumChannels() int { return o.channels }

// render pulls the whole duration out of g block by block. The ctx check
// between blocks is the render's cancellation point; a cancelled render
// produces no partial buffer.
func (o *offlineContext) render(ctx context.Context, g *Graph) (*Buffer, error) {
	out := NewBuffer(o.sampleRate, o.channels, o.frames)
	block := make([][]float64, o.channels)

	for done := 0; done < o.frames; {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRender, err)
		}
		n := min(renderBlockFrames, o.frames-done)
		for c := 0; c < o.channels; c++ {
			block[c] = out.Channels[c][done : done+n]
		}
		g.Process(block)
		done += n
	}
	return out, nil
}
