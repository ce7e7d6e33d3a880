package gibber

const noStop = -1

// Voice is one scheduled playback instance of the recorded sample: its own
// pitch, gain, loop flag and start/stop frames on the owning graph's
// timeline. Voices are ephemeral; the graph drops them as soon as they end.
type Voice struct {
	buf        *Buffer
	pos        float64 // fractional read position in source frames
	step       float64 // source frames advanced per output frame
	gain       float64
	loop       bool
	startFrame int
	stopFrame  int // noStop for continuous voices
	done       bool
}

// newVoice builds a voice playing buf at p.Pitch into a context running at
// contextRate. A source recorded at a different rate is resampled implicitly:
// the position step is pitch scaled by the rate ratio, the same way a
// buffered source node tracks its context clock.
func newVoice(buf *Buffer, p VoiceParams, contextRate, startFrame, stopFrame int) *Voice {
	return &Voice{
		buf:        buf,
		step:       p.Pitch * float64(buf.SampleRate) / float64(contextRate),
		gain:       p.Gain,
		loop:       p.Loop,
		startFrame: startFrame,
		stopFrame:  stopFrame,
	}
}

// mixInto adds this voice's contribution for context frames
// [from, from+len(dst[0])) into dst. It returns false once the voice has
// ended (ran off the end of a non-looping source, or hit its stop frame) so
// the caller can deregister it.
func (v *Voice) mixInto(dst [][]float64, from int) bool {
	if v.done {
		return false
	}
	frames := len(dst[0])
	srcFrames := v.buf.Frames()
	if srcFrames == 0 {
		v.done = true
		return false
	}

	for i := 0; i < frames; i++ {
		frame := from + i
		if frame < v.startFrame {
			continue
		}
		if v.stopFrame != noStop && frame >= v.stopFrame {
			v.done = true
			return false
		}
		for v.pos >= float64(srcFrames) {
			if !v.loop {
				v.done = true
				return false
			}
			v.pos -= float64(srcFrames)
		}

		idx := int(v.pos)
		frac := v.pos - float64(idx)
		for c := range dst {
			src := v.buf.Channels[c%len(v.buf.Channels)]
			s := src[idx]
			if frac > 0 {
				next := idx + 1
				if next >= srcFrames {
					if v.loop {
						next = 0
					} else {
						next = idx
					}
				}
				s += (src[next] - s) * frac
			}
			dst[c][i] += s * v.gain
		}
		v.pos += v.step
	}
	return true
}
