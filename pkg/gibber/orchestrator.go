package gibber

import (
	"context"
	"fmt"
	"math"

	"github.com/spacebaboon/gibbering-mouther/internal/logger"
	"github.com/spacebaboon/gibbering-mouther/pkg/config"
)

// Mode selects how spawned voices live and die.
type Mode int

const (
	// ModeContinuous loops every voice until an explicit Stop.
	ModeContinuous Mode = iota
	// ModeTimed lets each voice loop with the configured probability and
	// stops it EffectDurationMs after its own staggered start.
	ModeTimed
)

// Orchestrator turns one recorded buffer plus one configuration snapshot
// into a populated effect graph: VoiceCount voices with independently drawn
// pitch, gain and stagger, on either the live output or an offline render.
type Orchestrator struct {
	sampler *Sampler
	log     *logger.Logger
}

// NewOrchestrator creates an orchestrator with its own random stream. A zero
// seed picks a time-based one.
func NewOrchestrator(seed int64, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		sampler: NewSampler(seed),
		log:     log,
	}
}

// spawn draws and schedules exactly cfg.VoiceCount voices onto g. Stagger
// delays quantize to whole frames at the graph rate; the offsets are graph
// time, not wall clock, which is what lets an offline render replay the same
// schedule.
func (o *Orchestrator) spawn(g *Graph, buf *Buffer, cfg config.EffectConfig, mode Mode) {
	durFrames := framesForMs(cfg.EffectDurationMs, g.SampleRate())

	for i := 0; i < cfg.VoiceCount; i++ {
		p := o.sampler.Draw(cfg)
		delayFrames := int(math.Round(p.DelayMs / 1000.0 * float64(g.SampleRate())))
		start := g.Frame() + delayFrames

		stop := noStop
		switch mode {
		case ModeContinuous:
			p.Loop = true
		case ModeTimed:
			stop = start + durFrames
		}

		g.AddVoice(newVoice(buf, p, g.SampleRate(), start, stop))
		o.log.Debugf("voice %d: pitch=%.3f gain=%.3f delay=%.0fms loop=%v",
			i, p.Pitch, p.Gain, p.DelayMs, p.Loop)
	}
}

// PlayLive silences any previous voice set on lc, builds a fresh graph at the
// live rate and attaches it populated. Continuous mode returns immediately
// and plays until Stop; timed mode lets the voices stop themselves.
func (o *Orchestrator) PlayLive(lc *LiveContext, buf *Buffer, cfg config.EffectConfig, mode Mode) error {
	if buf == nil {
		return ErrNoRecording
	}
	o.Stop(lc)

	impulse := GenerateImpulse(o.sampler.rng, lc.SampleRate())
	g, err := NewGraph(lc.SampleRate(), lc.NumChannels(), cfg.ReverbWetMix, impulse)
	if err != nil {
		return err
	}
	o.spawn(g, buf, cfg, mode)
	lc.SetGraph(g)

	o.log.Infof("playing %d voices (mode=%d, wet=%.2f)", cfg.VoiceCount, mode, cfg.ReverbWetMix)
	return nil
}

// Stop forcibly ends the active voice set on lc. Voices that already ended
// are silently tolerated, and calling with no active set at all is a no-op.
// The graph stays attached so the reverb tail rings out.
func (o *Orchestrator) Stop(lc *LiveContext) {
	if lc == nil {
		return
	}
	if g := lc.Graph(); g != nil {
		g.StopAll()
	}
}

// Render runs the timed effect into an offline context of exactly
// cfg.EffectDurationMs at the given rate and returns the rendered buffer.
// The call blocks until the render completes or ctx is cancelled.
func (o *Orchestrator) Render(ctx context.Context, buf *Buffer, cfg config.EffectConfig, sampleRate, channels int) (*Buffer, error) {
	if buf == nil {
		return nil, ErrNoRecording
	}

	oc := &offlineContext{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     framesForMs(cfg.EffectDurationMs, sampleRate),
	}
	if oc.frames <= 0 {
		return nil, fmt.Errorf("%w: non-positive duration %dms", ErrRender, cfg.EffectDurationMs)
	}

	impulse := GenerateImpulse(o.sampler.rng, sampleRate)
	g, err := NewGraph(sampleRate, channels, cfg.ReverbWetMix, impulse)
	if err != nil {
		return nil, err
	}
	o.spawn(g, buf, cfg, ModeTimed)

	o.log.Infof("rendering %dms at %dHz (%d voices)", cfg.EffectDurationMs, sampleRate, cfg.VoiceCount)
	return oc.render(ctx, g)
}
