package gibber

import "errors"

// Failure categories. Every failure is terminal for its invocation; callers
// report it and keep whatever state they already had (a previously recorded
// buffer survives a failed re-record).
var (
	// ErrCaptureUnavailable means the microphone could not be opened.
	ErrCaptureUnavailable = errors.New("audio capture unavailable")

	// ErrDecode means captured or loaded bytes could not be decoded as audio.
	ErrDecode = errors.New("cannot decode audio")

	// ErrRender means an offline render did not run to completion.
	ErrRender = errors.New("render failed")

	// ErrNoRecording means playback or render was requested before any
	// sample was recorded or loaded.
	ErrNoRecording = errors.New("no recorded sample")
)
