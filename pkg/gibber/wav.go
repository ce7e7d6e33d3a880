package gibber

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
)

// Canonical WAVE PCM layout: 44-byte header, then interleaved little-endian
// 16-bit samples.
const (
	wavHeaderLen      = 44
	wavBitsPerSample  = 16
	encodeChunkFrames = 32768
)

// MimeTypeWAV is the content type of encoder output.
const MimeTypeWAV = "audio/wav"

// DefaultRenderFilename is the suggested name for saved renders.
const DefaultRenderFilename = "gibbering_mouther.wav"

// EncodeWAV serializes buf as a canonical 16-bit PCM WAV stream into w. The
// buffer is processed in fixed-size frame chunks with a cancellation check
// and an optional progress callback between chunks; chunk boundaries never
// change the output bytes, they only bound how long the encoder runs without
// yielding. The progress callback may be nil.
func EncodeWAV(ctx context.Context, w io.Writer, buf *Buffer, progress func(framesDone, framesTotal int)) error {
	channels := buf.NumChannels()
	frames := buf.Frames()
	if channels == 0 {
		return fmt.Errorf("encode wav: buffer has no channels")
	}

	blockAlign := channels * wavBitsPerSample / 8
	dataSize := frames * blockAlign

	hdr := make([]byte, wavHeaderLen)
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(36+dataSize))
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16) // fmt subchunk size
	binary.LittleEndian.PutUint16(hdr[20:22], 1)  // PCM format tag
	binary.LittleEndian.PutUint16(hdr[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(buf.SampleRate))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(buf.SampleRate*blockAlign))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(hdr[34:36], wavBitsPerSample)
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(dataSize))
	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("encode wav: write header: %w", err)
	}

	chunk := make([]byte, encodeChunkFrames*blockAlign)
	for start := 0; start < frames; start += encodeChunkFrames {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("encode wav: %w", err)
		}
		n := min(encodeChunkFrames, frames-start)
		for i := 0; i < n; i++ {
			for c := 0; c < channels; c++ {
				v := pcmSample(buf.Channels[c][start+i])
				binary.LittleEndian.PutUint16(chunk[(i*channels+c)*2:], uint16(v))
			}
		}
		if _, err := w.Write(chunk[:n*blockAlign]); err != nil {
			return fmt.Errorf("encode wav: write data: %w", err)
		}
		if progress != nil {
			progress(start+n, frames)
		}
	}
	return nil
}

// pcmSample quantizes one float sample to int16. The mapping is symmetric:
// samples clamp to [-1, 1] and scale by 32767, so exactly -1.0 encodes to
// -32767 (never -32768).
func pcmSample(s float64) int16 {
	return int16(math.Round(core.Clamp(s, -1, 1) * 32767))
}
