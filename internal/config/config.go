// Package config provides environment-variable defaults for the CLI.
// Flags always win; the environment only moves the defaults.
package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"

	"github.com/speechsplit/speechsplit/internal/vad"
)

// Options holds the tunable defaults. The detection parameters mirror the
// original pipeline's constants: 0.025 threshold, 512/256 frame/hop at
// 16 kHz, 0.3 s minimum speech, 0.5 s minimum silence.
type Options struct {
	OutputDir    string `env:"SPEECHSPLIT_OUTPUT_DIR, default=segments"`
	ManifestPath string `env:"SPEECHSPLIT_MANIFEST, default=speech_segments.json"`
	DebugLogPath string `env:"SPEECHSPLIT_DEBUG_LOG, default=speechsplit-debug.log"`

	SampleRate         int     `env:"SPEECHSPLIT_SAMPLE_RATE, default=16000"`
	EnergyThreshold    float64 `env:"SPEECHSPLIT_ENERGY_THRESHOLD, default=0.025"`
	FrameLength        int     `env:"SPEECHSPLIT_FRAME_LENGTH, default=512"`
	HopLength          int     `env:"SPEECHSPLIT_HOP_LENGTH, default=256"`
	MinSpeechDuration  float64 `env:"SPEECHSPLIT_MIN_SPEECH, default=0.3"`
	MinSilenceDuration float64 `env:"SPEECHSPLIT_MIN_SILENCE, default=0.5"`
}

// Load reads Options from the environment.
func Load(ctx context.Context) (*Options, error) {
	opts := &Options{}
	if err := envconfig.Process(ctx, opts); err != nil {
		return nil, fmt.Errorf("failed to load environment configuration: %w", err)
	}
	return opts, nil
}

// DetectionConfig assembles the core configuration from the loaded
// defaults. The result still goes through vad.Config.Validate before use.
func (o *Options) DetectionConfig() vad.Config {
	return vad.Config{
		EnergyThreshold:    o.EnergyThreshold,
		FrameLength:        o.FrameLength,
		HopLength:          o.HopLength,
		MinSpeechDuration:  o.MinSpeechDuration,
		MinSilenceDuration: o.MinSilenceDuration,
		SampleRate:         o.SampleRate,
	}
}
