package gibber

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/spacebaboon/gibbering-mouther/internal/logger"
	"github.com/spacebaboon/gibbering-mouther/pkg/config"
)

// Session owns the audio subsystem for one interactive run: the portaudio
// lifecycle, the live output context, the orchestrator and the single
// in-memory recorded sample. A new recording replaces the old one outright;
// nothing persists across sessions.
type Session struct {
	cfg      *config.Config
	log      *logger.Logger
	live     *LiveContext
	orch     *Orchestrator
	recorded *Buffer
}

// NewSession initializes portaudio and opens the live output.
func NewSession(cfg *config.Config, log *logger.Logger) (*Session, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	live, err := NewLiveContext(cfg.Audio)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	return &Session{
		cfg:  cfg,
		log:  log,
		live: live,
		orch: NewOrchestrator(cfg.Effect.Seed, log),
	}, nil
}

// Config exposes the live configuration for the UI layer to mutate between
// invocations. The core itself only ever reads snapshots of it.
func (s *Session) Config() *config.Config { return s.cfg }

// HasRecording reports whether a sample is loaded.
func (s *Session) HasRecording() bool { return s.recorded != nil }

// Recorded returns the current sample, or nil.
func (s *Session) Recorded() *Buffer { return s.recorded }

// Record captures d of microphone input and makes it the session sample.
// On failure the previous sample, if any, is kept.
func (s *Session) Record(ctx context.Context, d time.Duration) error {
	s.log.Infof("recording %v of input...", d)
	buf, err := capture(ctx, s.cfg.Audio.SampleRate, s.cfg.Audio.Channels, d)
	if err != nil {
		return err
	}
	s.recorded = buf
	s.log.Infof("recorded %v (%d frames)", buf.Duration().Round(time.Millisecond), buf.Frames())
	return nil
}

// LoadSample reads a WAV file and makes it the session sample.
func (s *Session) LoadSample(path string) error {
	buf, err := LoadWAV(path)
	if err != nil {
		return err
	}
	s.recorded = buf
	s.log.Infof("loaded %s: %dHz, %d channels, %v",
		path, buf.SampleRate, buf.NumChannels(), buf.Duration().Round(time.Millisecond))
	return nil
}

// PlayContinuous starts looping live playback until Stop.
func (s *Session) PlayContinuous() error {
	return s.orch.PlayLive(s.live, s.recorded, s.cfg.Effect, ModeContinuous)
}

// PlayTimed starts live playback whose voices stop themselves after the
// configured effect duration.
func (s *Session) PlayTimed() error {
	return s.orch.PlayLive(s.live, s.recorded, s.cfg.Effect, ModeTimed)
}

// Stop silences the active voice set. Safe to call repeatedly or with
// nothing playing.
func (s *Session) Stop() {
	s.orch.Stop(s.live)
}

// Render runs the timed effect offline at the output rate and returns the
// rendered buffer.
func (s *Session) Render(ctx context.Context) (*Buffer, error) {
	return s.orch.Render(ctx, s.recorded, s.cfg.Effect, s.cfg.Audio.SampleRate, s.cfg.Audio.Channels)
}

// RenderToFile renders offline and encodes the result to path as 16-bit PCM
// WAV. No file is produced when the render fails.
func (s *Session) RenderToFile(ctx context.Context, path string) error {
	if path == "" {
		path = DefaultRenderFilename
	}

	out, err := s.Render(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := EncodeWAV(ctx, f, out, nil); err != nil {
		return err
	}
	s.log.Infof("wrote %s (%v, %s)", path, out.Duration().Round(time.Millisecond), MimeTypeWAV)
	return nil
}

// Close stops playback and tears down the audio subsystem.
func (s *Session) Close() {
	s.Stop()
	if s.live != nil {
		if err := s.live.Close(); err != nil {
			s.log.Warnf("closing output stream: %v", err)
		}
	}
	portaudio.Terminate()
}
