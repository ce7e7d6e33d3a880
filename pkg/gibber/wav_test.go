package gibber

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"math/rand"
	"testing"
)

func TestEncodeWAVHeaderRoundTrip(t *testing.T) {
	const (
		frames   = 100
		channels = 2
		rate     = 8000
	)
	buf := NewBuffer(rate, channels, frames)

	var out bytes.Buffer
	if err := EncodeWAV(context.Background(), &out, buf, nil); err != nil {
		t.Fatal(err)
	}

	b := out.Bytes()
	if want := 44 + frames*channels*2; len(b) != want {
		t.Fatalf("stream length = %d, want %d", len(b), want)
	}

	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE markers")
	}
	if got := binary.LittleEndian.Uint32(b[4:8]); got != uint32(36+frames*channels*2) {
		t.Errorf("RIFF chunk size = %d", got)
	}
	if string(b[12:16]) != "fmt " {
		t.Fatal("missing fmt subchunk")
	}
	if got := binary.LittleEndian.Uint16(b[20:22]); got != 1 {
		t.Errorf("format tag = %d, want 1 (PCM)", got)
	}
	if got := binary.LittleEndian.Uint16(b[22:24]); got != channels {
		t.Errorf("channel count = %d, want %d", got, channels)
	}
	if got := binary.LittleEndian.Uint32(b[24:28]); got != rate {
		t.Errorf("sample rate = %d, want %d", got, rate)
	}
	if got := binary.LittleEndian.Uint32(b[28:32]); got != rate*channels*2 {
		t.Errorf("byte rate = %d, want %d", got, rate*channels*2)
	}
	if got := binary.LittleEndian.Uint16(b[32:34]); got != channels*2 {
		t.Errorf("block align = %d, want %d", got, channels*2)
	}
	if got := binary.LittleEndian.Uint16(b[34:36]); got != 16 {
		t.Errorf("bits per sample = %d, want 16", got)
	}
	if string(b[36:40]) != "data" {
		t.Fatal("missing data subchunk")
	}
	if got := binary.LittleEndian.Uint32(b[40:44]); got != uint32(frames*channels*2) {
		t.Errorf("data size = %d, want %d", got, frames*channels*2)
	}

	// All-zero input stays all-zero.
	for i := 44; i < len(b); i++ {
		if b[i] != 0 {
			t.Fatalf("byte %d = %#x, want 0", i, b[i])
		}
	}
}

func TestPCMSampleClamping(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{0, 0},
		{1.0, 32767},
		{1.5, 32767},  // over-range clamps to the same value as 1.0
		{-1.0, -32767},
		{-2.0, -32767}, // symmetric rule: -1.0 never reaches -32768
		{0.25, 8192},
		{-0.25, -8192},
		{0.5, 16384},
	}
	for _, tt := range tests {
		if got := pcmSample(tt.in); got != tt.want {
			t.Errorf("pcmSample(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEncodeWAVSampleBytes(t *testing.T) {
	buf := NewBuffer(8000, 1, 3)
	buf.Channels[0][0] = 1.5
	buf.Channels[0][1] = -2.0
	buf.Channels[0][2] = 0.5

	var out bytes.Buffer
	if err := EncodeWAV(context.Background(), &out, buf, nil); err != nil {
		t.Fatal(err)
	}

	data := out.Bytes()[44:]
	want := []int16{32767, -32767, 16384}
	for i, w := range want {
		got := int16(binary.LittleEndian.Uint16(data[i*2:]))
		if got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestEncodeWAVChunkingInvariant(t *testing.T) {
	// More frames than one encoder chunk, stereo, random content. The
	// chunked output must match a straight sample-by-sample encode.
	rng := rand.New(rand.NewSource(1))
	frames := encodeChunkFrames + 37
	buf := NewBuffer(8000, 2, frames)
	for c := range buf.Channels {
		for i := range buf.Channels[c] {
			buf.Channels[c][i] = 2*rng.Float64() - 1
		}
	}

	var out bytes.Buffer
	if err := EncodeWAV(context.Background(), &out, buf, nil); err != nil {
		t.Fatal(err)
	}
	data := out.Bytes()[44:]

	for i := 0; i < frames; i++ {
		for c := 0; c < 2; c++ {
			want := int16(math.Round(buf.Channels[c][i] * 32767))
			got := int16(binary.LittleEndian.Uint16(data[(i*2+c)*2:]))
			if got != want {
				t.Fatalf("frame %d channel %d: got %d, want %d", i, c, got, want)
			}
		}
	}
}

func TestEncodeWAVProgress(t *testing.T) {
	frames := encodeChunkFrames*2 + 100
	buf := NewBuffer(8000, 1, frames)

	var calls []int
	err := EncodeWAV(context.Background(), &bytes.Buffer{}, buf, func(done, total int) {
		if total != frames {
			t.Errorf("progress total = %d, want %d", total, frames)
		}
		calls = append(calls, done)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(calls) != 3 {
		t.Fatalf("progress called %d times, want 3", len(calls))
	}
	for i := 1; i < len(calls); i++ {
		if calls[i] <= calls[i-1] {
			t.Fatal("progress not monotonic")
		}
	}
	if calls[len(calls)-1] != frames {
		t.Errorf("final progress = %d, want %d", calls[len(calls)-1], frames)
	}
}

func TestEncodeWAVCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buf := NewBuffer(8000, 1, 10)
	if err := EncodeWAV(ctx, &bytes.Buffer{}, buf, nil); err == nil {
		t.Fatal("expected error from cancelled encode")
	}
}
