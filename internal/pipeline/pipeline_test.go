package pipeline

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/speechsplit/speechsplit/internal/audio"
	"github.com/speechsplit/speechsplit/internal/manifest"
	"github.com/speechsplit/speechsplit/internal/vad"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testDetection() vad.Config {
	return vad.Config{
		EnergyThreshold:    0.025,
		FrameLength:        512,
		HopLength:          256,
		MinSpeechDuration:  0.3,
		MinSilenceDuration: 0.5,
		SampleRate:         16000,
	}
}

// burstStream builds 1 s silence, 2 s of 440 Hz tone, 1 s silence.
func burstStream(sampleRate int) *audio.Stream {
	n := 4 * sampleRate
	samples := make([]float64, n)
	for i := sampleRate; i < 3*sampleRate; i++ {
		ts := float64(i) / float64(sampleRate)
		samples[i] = 0.5 * math.Sin(2.0*math.Pi*440.0*ts)
	}
	return &audio.Stream{Samples: samples, SampleRate: sampleRate}
}

func TestProcessExportsClipsAndManifest(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		Detection:    testDetection(),
		OutputDir:    filepath.Join(dir, "segments"),
		ManifestPath: filepath.Join(dir, "speech_segments.json"),
		Log:          quietLogger(),
	}

	stream := burstStream(16000)
	res, err := Process(context.Background(), "synthetic.wav", stream, opts)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if len(res.Segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(res.Segments))
	}
	seg := res.Segments[0]
	if math.Abs(seg.Start-1.0) > 0.1 || math.Abs(seg.End-3.0) > 0.1 {
		t.Errorf("segment bounds [%.2f, %.2f], want ~[1.0, 3.0]", seg.Start, seg.End)
	}

	if len(res.ClipPaths) != 1 {
		t.Fatalf("got %d clips, want 1", len(res.ClipPaths))
	}
	clip, err := audio.ReadWAV(res.ClipPaths[0])
	if err != nil {
		t.Fatalf("exported clip unreadable: %v", err)
	}
	wantSamples := int(math.Round(seg.Duration * 16000))
	if diff := clip.Samples; math.Abs(float64(len(diff)-wantSamples)) > 16000*0.05 {
		t.Errorf("clip has %d samples, want ~%d", len(diff), wantSamples)
	}

	m, err := manifest.Read(res.ManifestPath)
	if err != nil {
		t.Fatalf("manifest unreadable: %v", err)
	}
	if m.RunID == "" {
		t.Error("manifest missing run id")
	}
	if len(m.Segments) != 1 || m.Segments[0] != seg {
		t.Errorf("manifest segments %+v do not match result %+v", m.Segments, seg)
	}
}

func TestProcessSilentStream(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		Detection:    testDetection(),
		OutputDir:    filepath.Join(dir, "segments"),
		ManifestPath: filepath.Join(dir, "speech_segments.json"),
		Log:          quietLogger(),
	}

	stream := &audio.Stream{Samples: make([]float64, 5*16000), SampleRate: 16000}
	res, err := Process(context.Background(), "silence.wav", stream, opts)
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if len(res.Segments) != 0 {
		t.Errorf("got %d segments from silence, want 0", len(res.Segments))
	}
	if len(res.ClipPaths) != 0 {
		t.Errorf("got %d clips from silence, want 0", len(res.ClipPaths))
	}
	// Output dir is not created when there is nothing to export.
	if _, err := os.Stat(opts.OutputDir); !os.IsNotExist(err) {
		t.Errorf("output dir created for empty result (stat err: %v)", err)
	}
	// The manifest still records the empty run.
	m, err := manifest.Read(res.ManifestPath)
	if err != nil {
		t.Fatalf("manifest for empty run unreadable: %v", err)
	}
	if m.RunID == "" || len(m.Segments) != 0 {
		t.Errorf("empty-run manifest = %+v, want run id and zero segments", m)
	}
}

func TestProcessRejectsInvalidConfig(t *testing.T) {
	opts := Options{Detection: vad.Config{}, Log: quietLogger()}
	if _, err := Process(context.Background(), "x", &audio.Stream{SampleRate: 16000}, opts); err == nil {
		t.Fatal("Process() accepted zero-value configuration")
	}
}

func TestProcessCancelledBeforeExport(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		Detection: testDetection(),
		OutputDir: filepath.Join(dir, "segments"),
		Log:       quietLogger(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Process(ctx, "synthetic.wav", burstStream(16000), opts)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestProcessProgressPhases(t *testing.T) {
	dir := t.TempDir()
	seen := map[int]bool{}
	opts := Options{
		Detection:    testDetection(),
		OutputDir:    filepath.Join(dir, "segments"),
		ManifestPath: filepath.Join(dir, "m.json"),
		Log:          quietLogger(),
		Progress: func(phase int, name string, progress float64, segments int) {
			seen[phase] = true
			if name == "" {
				t.Errorf("phase %d reported without a name", phase)
			}
			if progress < 0 || progress > 1 {
				t.Errorf("phase %d progress %v outside [0,1]", phase, progress)
			}
		},
	}

	if _, err := Process(context.Background(), "synthetic.wav", burstStream(16000), opts); err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	for _, phase := range []int{PhaseDetect, PhaseExport} {
		if !seen[phase] {
			t.Errorf("phase %d never reported", phase)
		}
	}
}
