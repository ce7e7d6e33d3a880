package gibber

import (
	"math/rand"
	"time"

	"github.com/spacebaboon/gibbering-mouther/pkg/config"
)

// VoiceParams is one independent random draw of per-voice playback
// parameters.
type VoiceParams struct {
	Pitch   float64 // playback rate multiplier
	Gain    float64 // per-voice amplitude
	DelayMs float64 // start stagger, milliseconds
	Loop    bool    // only honored in timed mode; continuous voices always loop
}

// Sampler draws voice parameters from an effect configuration. It has no
// state beyond its random source, so equal bounds always produce the bound
// value itself.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler. A zero seed picks a time-based one.
func NewSampler(seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// Draw samples one voice's parameters from cfg.
func (s *Sampler) Draw(cfg config.EffectConfig) VoiceParams {
	delay := s.rng.Float64() * float64(cfg.StaggerMaxMs)
	if delay < 0 {
		delay = 0
	}
	return VoiceParams{
		Pitch:   cfg.PitchMin + s.rng.Float64()*(cfg.PitchMax-cfg.PitchMin),
		Gain:    cfg.GainMin + s.rng.Float64()*(cfg.GainMax-cfg.GainMin),
		DelayMs: delay,
		Loop:    s.rng.Float64() < cfg.LoopProbability,
	}
}
