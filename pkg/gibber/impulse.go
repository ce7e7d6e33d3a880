package gibber

import (
	"math"
	"math/rand"
)

const (
	impulseSeconds  = 2
	impulseChannels = 2
)

// GenerateImpulse synthesizes the reverb convolution kernel: two seconds of
// exponentially decaying white noise per channel at the given sample rate.
// The channels are drawn independently on purpose; uncorrelated noise is what
// gives the stereo wash its width. Kernels are tied to a sample rate, so each
// execution context generates its own.
func GenerateImpulse(rng *rand.Rand, sampleRate int) *Buffer {
	frames := impulseSeconds * sampleRate
	decay := 0.5 * float64(sampleRate)

	buf := NewBuffer(sampleRate, impulseChannels, frames)
	for c := range buf.Channels {
		plane := buf.Channels[c]
		for i := range plane {
			plane[i] = (2.0*rng.Float64() - 1.0) * math.Exp(-float64(i)/decay)
		}
	}
	return buf
}
