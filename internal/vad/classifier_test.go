package vad

import (
	"math"
	"testing"
)

func TestClassifyStrictThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.EnergyThreshold = 0.5

	frames := []Frame{
		{Index: 0, Start: 0, Energy: 0.49},
		{Index: 1, Start: 256, Energy: 0.5}, // exactly at threshold: not speech
		{Index: 2, Start: 512, Energy: 0.51},
	}
	mask := Classify(frames, cfg)

	want := []bool{false, false, true}
	for i, m := range mask {
		if m.IsSpeech != want[i] {
			t.Errorf("frame %d: isSpeech = %v, want %v (energy %v)", i, m.IsSpeech, want[i], frames[i].Energy)
		}
		if m.FrameIndex != i {
			t.Errorf("frame %d: mask index = %d", i, m.FrameIndex)
		}
	}
}

func TestClassifyConfidenceClamped(t *testing.T) {
	cfg := testConfig()
	cfg.EnergyThreshold = 0.1

	frames := []Frame{
		{Energy: 0},    // silent: confidence 0
		{Energy: 0.05}, // half the threshold
		{Energy: 10.0}, // far above: clamps at 1
	}
	mask := Classify(frames, cfg)

	if mask[0].Confidence != 0 {
		t.Errorf("silent frame confidence = %v, want 0", mask[0].Confidence)
	}
	if math.Abs(mask[1].Confidence-0.5) > 1e-6 {
		t.Errorf("sub-threshold confidence = %v, want ~0.5", mask[1].Confidence)
	}
	if mask[2].Confidence != 1.0 {
		t.Errorf("loud frame confidence = %v, want 1.0", mask[2].Confidence)
	}
	for i, m := range mask {
		if m.Confidence < 0 || m.Confidence > 1 {
			t.Errorf("frame %d: confidence %v outside [0,1]", i, m.Confidence)
		}
	}
}

func TestClassifyAllZeroStream(t *testing.T) {
	cfg := testConfig()
	samples := make([]float64, 5*cfg.SampleRate) // 5 s of digital silence

	frames := Analyze(samples, cfg)
	mask := Classify(frames, cfg)
	for i, m := range mask {
		if m.IsSpeech {
			t.Fatalf("frame %d of silent stream classified as speech", i)
		}
	}

	if got := BuildRegions(frames, mask, cfg); len(got) != 0 {
		t.Fatalf("silent stream produced %d intervals, want 0", len(got))
	}
}
