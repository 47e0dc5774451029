package vad

import (
	"math"
	"testing"
)

// testConfig returns the detection parameters used by most tests:
// 16 kHz, 512-sample frames with a 256-sample hop, matching a 32 ms window
// and 16 ms hop. Threshold sits well below the 0.5-amplitude bursts the
// signal helpers generate.
func testConfig() Config {
	return Config{
		EnergyThreshold:    0.025,
		FrameLength:        512,
		HopLength:          256,
		MinSpeechDuration:  0.3,
		MinSilenceDuration: 0.5,
		SampleRate:         16000,
	}
}

// signalSpan describes one stretch of a synthetic test signal.
type signalSpan struct {
	Duration  float64 // seconds
	Amplitude float64 // 0 for silence; sine peak amplitude otherwise
	ToneFreq  float64 // Hz; defaults to 440 when a span has amplitude
}

// makeSignal builds a mono stream from consecutive spans. Speech-like spans
// are sine tones, whose RMS is amplitude/sqrt(2) — handy for choosing
// thresholds with a known margin.
func makeSignal(t *testing.T, sampleRate int, spans ...signalSpan) []float64 {
	t.Helper()

	total := 0
	for _, sp := range spans {
		total += int(sp.Duration * float64(sampleRate))
	}

	samples := make([]float64, 0, total)
	for _, sp := range spans {
		n := int(sp.Duration * float64(sampleRate))
		freq := sp.ToneFreq
		if freq == 0 {
			freq = 440.0
		}
		for i := 0; i < n; i++ {
			if sp.Amplitude == 0 {
				samples = append(samples, 0)
				continue
			}
			ts := float64(i) / float64(sampleRate)
			samples = append(samples, sp.Amplitude*math.Sin(2.0*math.Pi*freq*ts))
		}
	}
	return samples
}

// makeNoise produces deterministic white noise at the given peak amplitude
// using a small LCG, avoiding math/rand seeding concerns.
func makeNoise(t *testing.T, sampleRate int, duration, amplitude float64) []float64 {
	t.Helper()

	rngState := uint32(12345)
	next := func() float64 {
		rngState = rngState*1664525 + 1013904223
		return (float64(rngState)/float64(0xFFFFFFFF))*2.0 - 1.0
	}

	n := int(duration * float64(sampleRate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amplitude * next()
	}
	return samples
}

// assertOrdered fails if intervals overlap, run backwards, or carry
// out-of-sequence ids.
func assertOrdered(t *testing.T, intervals []Interval) {
	t.Helper()
	for i, iv := range intervals {
		if iv.ID != i+1 {
			t.Errorf("interval %d: id = %d, want %d", i, iv.ID, i+1)
		}
		if iv.End <= iv.Start {
			t.Errorf("interval %d: end %.3f <= start %.3f", i, iv.End, iv.Start)
		}
		if i > 0 && iv.Start < intervals[i-1].End {
			t.Errorf("interval %d overlaps previous: start %.3f < previous end %.3f",
				i, iv.Start, intervals[i-1].End)
		}
	}
}
