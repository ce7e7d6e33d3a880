package gibber

import (
	"testing"

	"github.com/spacebaboon/gibbering-mouther/pkg/config"
)

func testEffectConfig() config.EffectConfig {
	return config.EffectConfig{
		VoiceCount:       8,
		PitchMin:         0.6,
		PitchMax:         1.5,
		StaggerMaxMs:     400,
		GainMin:          0.4,
		GainMax:          1.0,
		EffectDurationMs: 5000,
		ReverbWetMix:     0.3,
		LoopProbability:  0.5,
	}
}

func TestDrawBounds(t *testing.T) {
	cfg := testEffectConfig()
	s := NewSampler(1)

	for i := 0; i < 1000; i++ {
		p := s.Draw(cfg)
		if p.Pitch < cfg.PitchMin || p.Pitch > cfg.PitchMax {
			t.Fatalf("draw %d: pitch %v outside [%v, %v]", i, p.Pitch, cfg.PitchMin, cfg.PitchMax)
		}
		if p.Gain < cfg.GainMin || p.Gain > cfg.GainMax {
			t.Fatalf("draw %d: gain %v outside [%v, %v]", i, p.Gain, cfg.GainMin, cfg.GainMax)
		}
		if p.DelayMs < 0 || p.DelayMs > float64(cfg.StaggerMaxMs) {
			t.Fatalf("draw %d: delay %v outside [0, %d]", i, p.DelayMs, cfg.StaggerMaxMs)
		}
	}
}

func TestDrawEqualBoundsDeterministic(t *testing.T) {
	cfg := testEffectConfig()
	cfg.PitchMin, cfg.PitchMax = 1.25, 1.25
	cfg.GainMin, cfg.GainMax = 0.75, 0.75
	s := NewSampler(2)

	for i := 0; i < 100; i++ {
		p := s.Draw(cfg)
		if p.Pitch != 1.25 {
			t.Fatalf("draw %d: pitch = %v, want exactly 1.25", i, p.Pitch)
		}
		if p.Gain != 0.75 {
			t.Fatalf("draw %d: gain = %v, want exactly 0.75", i, p.Gain)
		}
	}
}

func TestDrawZeroStagger(t *testing.T) {
	cfg := testEffectConfig()
	cfg.StaggerMaxMs = 0
	s := NewSampler(3)

	for i := 0; i < 100; i++ {
		if p := s.Draw(cfg); p.DelayMs != 0 {
			t.Fatalf("draw %d: delay = %v, want 0", i, p.DelayMs)
		}
	}
}

func TestDrawLoopProbabilityExtremes(t *testing.T) {
	s := NewSampler(4)

	cfg := testEffectConfig()
	cfg.LoopProbability = 0
	for i := 0; i < 200; i++ {
		if s.Draw(cfg).Loop {
			t.Fatal("loop drawn true with probability 0")
		}
	}

	cfg.LoopProbability = 1
	for i := 0; i < 200; i++ {
		if !s.Draw(cfg).Loop {
			t.Fatal("loop drawn false with probability 1")
		}
	}
}

func TestSamplerSeedReproducible(t *testing.T) {
	cfg := testEffectConfig()
	a, b := NewSampler(42), NewSampler(42)
	for i := 0; i < 50; i++ {
		if a.Draw(cfg) != b.Draw(cfg) {
			t.Fatalf("draw %d: equal seeds diverged", i)
		}
	}
}
