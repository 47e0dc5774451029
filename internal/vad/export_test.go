package vad

import "testing"

func TestSliceExactBounds(t *testing.T) {
	iv := Interval{ID: 1, Start: 1.25, End: 3.5}
	r := Slice(iv, 160000, 16000)

	if r.SegmentID != 1 {
		t.Errorf("segment id = %d, want 1", r.SegmentID)
	}
	if r.Start != 20000 {
		t.Errorf("start sample = %d, want 20000", r.Start)
	}
	if r.End != 56000 {
		t.Errorf("end sample = %d, want 56000", r.End)
	}
}

func TestSliceClampsToStreamLength(t *testing.T) {
	// The region builder extends the last frame by one hop, which can round
	// past the end of a stream that stops mid-frame.
	iv := Interval{ID: 3, Start: 0.9, End: 1.02}
	r := Slice(iv, 16000, 16000)

	if r.End != 16000 {
		t.Errorf("end sample = %d, want clamped to 16000", r.End)
	}
	if r.Start != 14400 {
		t.Errorf("start sample = %d, want 14400", r.Start)
	}
	if r.End-r.Start <= 0 {
		t.Errorf("clamped range [%d, %d) is empty", r.Start, r.End)
	}
}

func TestSliceRounding(t *testing.T) {
	// 0.00003 s at 16 kHz is 0.48 samples; rounding, not truncation.
	iv := Interval{ID: 1, Start: 0.000031, End: 1.0}
	r := Slice(iv, 16000, 16000)
	if r.Start != 0 {
		t.Errorf("start sample = %d, want 0 (rounded down)", r.Start)
	}

	iv = Interval{ID: 1, Start: 0.0001, End: 1.0} // 1.6 samples -> 2
	r = Slice(iv, 16000, 16000)
	if r.Start != 2 {
		t.Errorf("start sample = %d, want 2 (rounded up)", r.Start)
	}
}

func TestExtractViewsOriginal(t *testing.T) {
	cfg := testConfig()
	samples := makeSignal(t, cfg.SampleRate,
		signalSpan{Duration: 0.5, Amplitude: 0},
		signalSpan{Duration: 1.0, Amplitude: 0.5},
		signalSpan{Duration: 0.5, Amplitude: 0},
	)

	intervals, err := Detect(samples, cfg)
	if err != nil {
		t.Fatalf("Detect() error: %v", err)
	}
	if len(intervals) != 1 {
		t.Fatalf("got %d intervals, want 1", len(intervals))
	}

	r, clip := Extract(samples, intervals[0], cfg.SampleRate)
	if len(clip) != r.End-r.Start {
		t.Fatalf("clip length %d does not match range [%d, %d)", len(clip), r.Start, r.End)
	}
	if len(clip) == 0 {
		t.Fatal("clip is empty")
	}
	// The view aliases the source stream.
	if &clip[0] != &samples[r.Start] {
		t.Error("Extract() copied instead of viewing the original stream")
	}
}
