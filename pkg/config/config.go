package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config represents the main configuration
type Config struct {
	Audio  AudioConfig  `yaml:"audio"`
	Effect EffectConfig `yaml:"effect"`
}

// AudioConfig describes the output device and capture shape
type AudioConfig struct {
	SampleRate      int     `yaml:"sample_rate"`
	FramesPerBuffer int     `yaml:"frames_per_buffer"`
	Channels        int     `yaml:"channels"`
	Volume          float64 `yaml:"volume"`
}

// EffectConfig holds the gibbering effect parameters. The running core only
// ever sees value copies of this struct, snapshotted at the start of each
// play or render invocation.
type EffectConfig struct {
	VoiceCount       int     `yaml:"voice_count"`
	PitchMin         float64 `yaml:"pitch_min"`
	PitchMax         float64 `yaml:"pitch_max"`
	StaggerMaxMs     int     `yaml:"stagger_max_ms"`
	GainMin          float64 `yaml:"gain_min"`
	GainMax          float64 `yaml:"gain_max"`
	EffectDurationMs int     `yaml:"effect_duration_ms"`
	ReverbWetMix     float64 `yaml:"reverb_wet_mix"`
	LoopProbability  float64 `yaml:"loop_probability"`
	Seed             int64   `yaml:"seed"` // 0 means random
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate:      44100,
			FramesPerBuffer: 1024,
			Channels:        2,
			Volume:          0.8,
		},
		Effect: EffectConfig{
			VoiceCount:       8,
			PitchMin:         0.6,
			PitchMax:         1.5,
			StaggerMaxMs:     400,
			GainMin:          0.4,
			GainMax:          1.0,
			EffectDurationMs: 5000,
			ReverbWetMix:     0.3,
			LoopProbability:  0.5,
			Seed:             0,
		},
	}
}

// LoadConfig loads the configuration from a file. A missing or unreadable
// file yields the defaults together with the error, so the caller can choose
// to continue.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %v", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return config, fmt.Errorf("error parsing config: %v", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %v", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %v", err)
	}

	return nil
}

// Validate checks the device parameters.
func (c AudioConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("audio: sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.FramesPerBuffer <= 0 {
		return fmt.Errorf("audio: frames_per_buffer must be positive, got %d", c.FramesPerBuffer)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("audio: channels must be positive, got %d", c.Channels)
	}
	if c.Volume < 0 {
		return fmt.Errorf("audio: volume must not be negative, got %v", c.Volume)
	}
	return nil
}

// Validate checks the effect parameters against their allowed ranges.
func (c EffectConfig) Validate() error {
	if c.VoiceCount <= 0 {
		return fmt.Errorf("effect: voice_count must be positive, got %d", c.VoiceCount)
	}
	if c.PitchMin <= 0 || c.PitchMax <= 0 {
		return fmt.Errorf("effect: pitch bounds must be positive, got [%v, %v]", c.PitchMin, c.PitchMax)
	}
	if c.PitchMin > c.PitchMax {
		return fmt.Errorf("effect: pitch_min %v exceeds pitch_max %v", c.PitchMin, c.PitchMax)
	}
	if c.StaggerMaxMs < 0 {
		return fmt.Errorf("effect: stagger_max_ms must not be negative, got %d", c.StaggerMaxMs)
	}
	if c.GainMin < 0 || c.GainMax < 0 {
		return fmt.Errorf("effect: gain bounds must not be negative, got [%v, %v]", c.GainMin, c.GainMax)
	}
	if c.GainMin > c.GainMax {
		return fmt.Errorf("effect: gain_min %v exceeds gain_max %v", c.GainMin, c.GainMax)
	}
	if c.EffectDurationMs <= 0 {
		return fmt.Errorf("effect: effect_duration_ms must be positive, got %d", c.EffectDurationMs)
	}
	if c.ReverbWetMix < 0 || c.ReverbWetMix > 1 {
		return fmt.Errorf("effect: reverb_wet_mix must be in [0, 1], got %v", c.ReverbWetMix)
	}
	if c.LoopProbability < 0 || c.LoopProbability > 1 {
		return fmt.Errorf("effect: loop_probability must be in [0, 1], got %v", c.LoopProbability)
	}
	return nil
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.Audio.Validate(); err != nil {
		return err
	}
	return c.Effect.Validate()
}
