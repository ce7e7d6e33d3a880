package gibber

import (
	"math"
	"math/rand"
	"testing"
)

func TestGenerateImpulseShape(t *testing.T) {
	for _, rate := range []int{8000, 44100, 48000} {
		buf := GenerateImpulse(rand.New(rand.NewSource(1)), rate)
		if buf.SampleRate != rate {
			t.Errorf("rate %d: SampleRate = %d", rate, buf.SampleRate)
		}
		if buf.NumChannels() != 2 {
			t.Errorf("rate %d: channels = %d, want 2", rate, buf.NumChannels())
		}
		if buf.Frames() != 2*rate {
			t.Errorf("rate %d: frames = %d, want %d", rate, buf.Frames(), 2*rate)
		}
	}
}

func TestGenerateImpulseEnvelope(t *testing.T) {
	rate := 8000
	buf := GenerateImpulse(rand.New(rand.NewSource(2)), rate)
	decay := 0.5 * float64(rate)

	for c, plane := range buf.Channels {
		for i, s := range plane {
			bound := math.Exp(-float64(i) / decay)
			if math.Abs(s) > bound {
				t.Fatalf("channel %d sample %d: |%v| exceeds envelope %v", c, i, s, bound)
			}
		}
	}

	// Tail must actually have decayed.
	last := buf.Channels[0][buf.Frames()-1]
	if math.Abs(last) > math.Exp(-2*float64(rate)/decay)+1e-12 {
		t.Errorf("tail sample %v has not decayed", last)
	}
}

func TestGenerateImpulseChannelsUncorrelated(t *testing.T) {
	buf := GenerateImpulse(rand.New(rand.NewSource(3)), 4000)

	same := true
	for i := range buf.Channels[0] {
		if buf.Channels[0][i] != buf.Channels[1][i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("left and right impulse channels are identical; they must be drawn independently")
	}
}
