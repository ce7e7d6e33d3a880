package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestEffectValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EffectConfig)
	}{
		{"zero voices", func(c *EffectConfig) { c.VoiceCount = 0 }},
		{"negative voices", func(c *EffectConfig) { c.VoiceCount = -3 }},
		{"zero pitch min", func(c *EffectConfig) { c.PitchMin = 0 }},
		{"inverted pitch bounds", func(c *EffectConfig) { c.PitchMin = 2; c.PitchMax = 1 }},
		{"negative stagger", func(c *EffectConfig) { c.StaggerMaxMs = -1 }},
		{"negative gain", func(c *EffectConfig) { c.GainMin = -0.1 }},
		{"inverted gain bounds", func(c *EffectConfig) { c.GainMin = 1; c.GainMax = 0.5 }},
		{"zero duration", func(c *EffectConfig) { c.EffectDurationMs = 0 }},
		{"wet mix above one", func(c *EffectConfig) { c.ReverbWetMix = 1.1 }},
		{"negative wet mix", func(c *EffectConfig) { c.ReverbWetMix = -0.1 }},
		{"loop probability above one", func(c *EffectConfig) { c.LoopProbability = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig().Effect
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestEffectValidationBoundaries(t *testing.T) {
	// Equal bounds and the extremes of the unit-interval parameters are
	// all legal.
	cfg := DefaultConfig().Effect
	cfg.PitchMin, cfg.PitchMax = 1, 1
	cfg.GainMin, cfg.GainMax = 0, 0
	cfg.StaggerMaxMs = 0
	cfg.ReverbWetMix = 1
	cfg.LoopProbability = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("boundary values rejected: %v", err)
	}
}

func TestAudioValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AudioConfig)
	}{
		{"zero sample rate", func(c *AudioConfig) { c.SampleRate = 0 }},
		{"zero frames per buffer", func(c *AudioConfig) { c.FramesPerBuffer = 0 }},
		{"zero channels", func(c *AudioConfig) { c.Channels = 0 }},
		{"negative volume", func(c *AudioConfig) { c.Volume = -0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig().Audio
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	original := DefaultConfig()
	original.Effect.VoiceCount = 12
	original.Effect.ReverbWetMix = 0.65
	original.Effect.Seed = 99
	original.Audio.SampleRate = 48000

	if err := SaveConfig(original, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	if *loaded != *original {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *loaded, *original)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected an error for a missing file")
	}
	if cfg == nil {
		t.Fatal("expected defaults, got nil")
	}
	if *cfg != *DefaultConfig() {
		t.Error("missing file should yield the defaults")
	}
}
