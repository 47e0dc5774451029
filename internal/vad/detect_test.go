package vad

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestDetectEmptyInput(t *testing.T) {
	intervals, err := Detect(nil, testConfig())
	if err != nil {
		t.Fatalf("Detect(empty) error: %v", err)
	}
	if len(intervals) != 0 {
		t.Fatalf("Detect(empty) returned %d intervals, want 0", len(intervals))
	}
}

func TestDetectRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero threshold", func(c *Config) { c.EnergyThreshold = 0 }},
		{"negative threshold", func(c *Config) { c.EnergyThreshold = -0.1 }},
		{"zero frame length", func(c *Config) { c.FrameLength = 0 }},
		{"zero hop length", func(c *Config) { c.HopLength = 0 }},
		{"hop exceeds frame", func(c *Config) { c.HopLength = c.FrameLength + 1 }},
		{"negative min speech", func(c *Config) { c.MinSpeechDuration = -1 }},
		{"negative min silence", func(c *Config) { c.MinSilenceDuration = -0.5 }},
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			_, err := Detect(make([]float64, 16000), cfg)
			if err == nil {
				t.Fatal("Detect() accepted invalid configuration")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestDetectHopEqualFrameLengthValid(t *testing.T) {
	cfg := testConfig()
	cfg.HopLength = cfg.FrameLength
	if _, err := Detect(make([]float64, 16000), cfg); err != nil {
		t.Fatalf("hop == frame length should be valid, got %v", err)
	}
}

func TestDetectDeterministic(t *testing.T) {
	cfg := testConfig()
	samples := append(
		makeNoise(t, cfg.SampleRate, 1.0, 0.02),
		makeSignal(t, cfg.SampleRate,
			signalSpan{Duration: 1.5, Amplitude: 0.5},
			signalSpan{Duration: 0.8, Amplitude: 0},
			signalSpan{Duration: 0.6, Amplitude: 0.4},
		)...,
	)

	first, err := Detect(samples, cfg)
	if err != nil {
		t.Fatalf("Detect() error: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := Detect(samples, cfg)
		if err != nil {
			t.Fatalf("run %d: Detect() error: %v", run, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced different intervals:\nfirst: %+v\nagain: %+v", run, first, again)
		}
	}
}

func TestDetectParallelMatchesDetect(t *testing.T) {
	cfg := testConfig()
	samples := makeSignal(t, cfg.SampleRate,
		signalSpan{Duration: 1.0, Amplitude: 0},
		signalSpan{Duration: 2.0, Amplitude: 0.5},
		signalSpan{Duration: 1.0, Amplitude: 0},
		signalSpan{Duration: 1.0, Amplitude: 0.3},
	)

	want, err := Detect(samples, cfg)
	if err != nil {
		t.Fatalf("Detect() error: %v", err)
	}
	got, err := DetectParallel(context.Background(), samples, cfg, 4)
	if err != nil {
		t.Fatalf("DetectParallel() error: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("parallel result differs:\nsequential: %+v\nparallel:   %+v", want, got)
	}
}
