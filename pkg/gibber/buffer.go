package gibber

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Buffer holds decoded PCM audio as one float64 plane per channel, with
// samples nominally in [-1, 1]. It is the common shape for recorded input,
// synthesized impulse responses and offline render output.
type Buffer struct {
	SampleRate int
	Channels   [][]float64
}

// NewBuffer allocates a silent buffer of the given shape.
func NewBuffer(sampleRate, channels, frames int) *Buffer {
	planes := make([][]float64, channels)
	for c := range planes {
		planes[c] = make([]float64, frames)
	}
	return &Buffer{SampleRate: sampleRate, Channels: planes}
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int {
	return len(b.Channels)
}

// Frames returns the per-channel sample count.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the playing time of the buffer at its own sample rate.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(b.Frames()) / float64(b.SampleRate) * float64(time.Second))
}

// LoadWAV reads a WAV file into a Buffer, normalizing integer PCM of any bit
// depth to [-1, 1].
func LoadWAV(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	if pcm == nil || pcm.Format == nil || len(pcm.Data) == 0 {
		return nil, fmt.Errorf("%w: %s: empty or headerless file", ErrDecode, path)
	}

	buf, err := fromPCM(pcm, int(dec.BitDepth))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, path, err)
	}
	return buf, nil
}

// fromPCM deinterleaves an integer PCM buffer into channel planes, scaling
// to [-1, 1] by the source bit depth.
func fromPCM(pcm *audio.IntBuffer, bitDepth int) (*Buffer, error) {
	channels := pcm.Format.NumChannels
	if channels <= 0 {
		return nil, fmt.Errorf("bad channel count %d", channels)
	}
	if bitDepth <= 0 {
		return nil, fmt.Errorf("bad bit depth %d", bitDepth)
	}
	frames := len(pcm.Data) / channels
	scale := 1.0 / math.Pow(2, float64(bitDepth)-1)

	buf := NewBuffer(pcm.Format.SampleRate, channels, frames)
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			buf.Channels[c][i] = float64(pcm.Data[i*channels+c]) * scale
		}
	}
	return buf, nil
}

// framesForMs converts a millisecond count to whole frames at the given rate.
// Live and offline paths share this quantization so renders line up with what
// the live graph would have played.
func framesForMs(ms int, sampleRate int) int {
	return int(math.Round(float64(ms) / 1000.0 * float64(sampleRate)))
}
