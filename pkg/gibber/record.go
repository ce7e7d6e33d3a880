package gibber

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

const captureFramesPerBuffer = 1024

// capture records d of microphone input at the given shape into a new
// Buffer. portaudio must already be initialized. The call blocks until the
// requested duration has been captured or ctx is cancelled; cancellation
// returns whatever was captured so far, which lets a caller stop a recording
// early without losing it.
func capture(ctx context.Context, sampleRate, channels int, d time.Duration) (*Buffer, error) {
	target := int(float64(sampleRate)*d.Seconds()) * channels
	if target <= 0 {
		return nil, fmt.Errorf("%w: non-positive capture duration %v", ErrCaptureUnavailable, d)
	}

	var (
		mu   sync.Mutex
		rec  = make([]float32, 0, target)
		once sync.Once
		full = make(chan struct{})
	)

	stream, err := portaudio.OpenDefaultStream(channels, 0, float64(sampleRate), captureFramesPerBuffer,
		func(in []float32) {
			mu.Lock()
			defer mu.Unlock()
			if len(rec) >= target {
				return
			}
			rec = append(rec, in...)
			if len(rec) >= target {
				once.Do(func() { close(full) })
			}
		})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}

	select {
	case <-full:
	case <-ctx.Done():
	}
	if err := stream.Stop(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureUnavailable, err)
	}

	mu.Lock()
	samples := rec
	mu.Unlock()
	if len(samples) > target {
		samples = samples[:target]
	}
	if len(samples) < channels {
		return nil, fmt.Errorf("%w: no audio captured", ErrCaptureUnavailable)
	}

	frames := len(samples) / channels
	buf := NewBuffer(sampleRate, channels, frames)
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			buf.Channels[c][i] = float64(samples[i*channels+c])
		}
	}
	return buf, nil
}
