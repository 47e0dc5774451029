package audio

import (
	"math"
	"path/filepath"
	"testing"
)

func TestWriteReadWAVRoundTrip(t *testing.T) {
	const sampleRate = 16000
	path := filepath.Join(t.TempDir(), "clip.wav")

	// Half a second of a 440 Hz tone at 0.5 amplitude.
	n := sampleRate / 2
	samples := make([]float64, n)
	for i := range samples {
		ts := float64(i) / float64(sampleRate)
		samples[i] = 0.5 * math.Sin(2.0*math.Pi*440.0*ts)
	}

	if err := WriteWAV(path, samples, sampleRate); err != nil {
		t.Fatalf("WriteWAV() error: %v", err)
	}

	stream, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV() error: %v", err)
	}
	if stream.SampleRate != sampleRate {
		t.Errorf("sample rate = %d, want %d", stream.SampleRate, sampleRate)
	}
	if len(stream.Samples) != n {
		t.Fatalf("sample count = %d, want %d", len(stream.Samples), n)
	}

	// 16-bit quantization bounds the round-trip error.
	const tolerance = 1.0 / 32768.0 * 2
	for i := 0; i < n; i += 997 {
		if diff := math.Abs(stream.Samples[i] - samples[i]); diff > tolerance {
			t.Fatalf("sample %d round-trip error %v exceeds %v", i, diff, tolerance)
		}
	}
}

func TestWriteWAVClampsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hot.wav")
	samples := []float64{2.0, -3.0, 0.0, 1.0, -1.0}

	if err := WriteWAV(path, samples, 16000); err != nil {
		t.Fatalf("WriteWAV() error: %v", err)
	}

	stream, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV() error: %v", err)
	}
	for i, s := range stream.Samples {
		if s > 1.0 || s < -1.0-1.0/32768.0 {
			t.Errorf("sample %d = %v escaped clamping", i, s)
		}
	}
}

func TestReadWAVMissingFile(t *testing.T) {
	if _, err := ReadWAV(filepath.Join(t.TempDir(), "absent.wav")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestStreamDuration(t *testing.T) {
	s := &Stream{Samples: make([]float64, 24000), SampleRate: 16000}
	if d := s.Duration(); d != 1.5 {
		t.Errorf("Duration() = %v, want 1.5", d)
	}
}
