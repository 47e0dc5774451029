// Package pipeline orchestrates one run of the speechsplit stages:
// decode the source media, detect speech intervals, export clips, and
// persist the timestamp manifest. Stages hand data in memory; files are
// touched only at the edges.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/speechsplit/speechsplit/internal/audio"
	"github.com/speechsplit/speechsplit/internal/manifest"
	"github.com/speechsplit/speechsplit/internal/vad"
)

// Phase numbers reported through ProgressFunc.
const (
	PhaseExtract = 1
	PhaseDetect  = 2
	PhaseExport  = 3
)

// phaseNames maps phase numbers to their display names.
var phaseNames = map[int]string{
	PhaseExtract: "Extracting",
	PhaseDetect:  "Detecting",
	PhaseExport:  "Exporting",
}

// ProgressFunc receives progress updates. segments carries the running
// segment count once detection has finished, 0 before that.
type ProgressFunc func(phase int, phaseName string, progress float64, segments int)

// Options configures a pipeline run.
type Options struct {
	// Detection holds the core parameters; validated before any decoding.
	Detection vad.Config

	// OutputDir receives one WAV clip per accepted interval.
	OutputDir string

	// ManifestPath is where the timestamp manifest is written.
	ManifestPath string

	// Workers bounds the parallel frame analysis; <= 0 uses GOMAXPROCS.
	Workers int

	// Progress, if non-nil, receives phase updates for the UI.
	Progress ProgressFunc

	// Log receives structured diagnostics; nil means the logrus standard
	// logger.
	Log *logrus.Logger
}

// Result summarizes a completed run.
type Result struct {
	Source       string
	SampleCount  int
	Segments     []vad.Record
	ClipPaths    []string
	ManifestPath string

	ExtractTime time.Duration
	DetectTime  time.Duration
	ExportTime  time.Duration
}

// SpeechDuration returns the total speech found, in seconds.
func (r *Result) SpeechDuration() float64 {
	var total float64
	for _, s := range r.Segments {
		total += s.Duration
	}
	return total
}

// Run executes the full pipeline for one media file.
func Run(ctx context.Context, inputPath string, opts Options) (*Result, error) {
	if err := opts.Detection.Validate(); err != nil {
		return nil, err
	}
	log := opts.logger()

	report := func(phase int, progress float64, segments int) {
		if opts.Progress != nil {
			opts.Progress(phase, phaseNames[phase], progress, segments)
		}
	}

	// Phase 1: decode to a mono stream at the detection sample rate.
	report(PhaseExtract, 0.0, 0)
	extractStart := time.Now()
	stream, err := audio.DecodeSamples(inputPath, opts.Detection.SampleRate, func(p float64) {
		report(PhaseExtract, p, 0)
	})
	if err != nil {
		return nil, fmt.Errorf("extract failed: %w", err)
	}
	extractTime := time.Since(extractStart)
	report(PhaseExtract, 1.0, 0)

	log.WithFields(logrus.Fields{
		"input":       inputPath,
		"samples":     len(stream.Samples),
		"sample_rate": stream.SampleRate,
		"duration":    stream.Duration(),
	}).Info("audio extracted")

	res, err := Process(ctx, inputPath, stream, opts)
	if err != nil {
		return nil, err
	}
	res.ExtractTime = extractTime
	return res, nil
}

// Process runs detection and export on an already materialized stream.
// Split out from Run so callers with their own decode path (WAV input,
// tests) can reuse the back half of the pipeline.
func Process(ctx context.Context, source string, stream *audio.Stream, opts Options) (*Result, error) {
	cfg := opts.Detection
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.logger()

	report := func(phase int, progress float64, segments int) {
		if opts.Progress != nil {
			opts.Progress(phase, phaseNames[phase], progress, segments)
		}
	}

	// Phase 2: detection is one atomic unit of work; cancellation applies
	// between stages and between clip writes, not inside the core.
	report(PhaseDetect, 0.0, 0)
	detectStart := time.Now()
	intervals, err := vad.DetectParallel(ctx, stream.Samples, cfg, opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("detect failed: %w", err)
	}
	detectTime := time.Since(detectStart)
	records := vad.Serialize(intervals)
	report(PhaseDetect, 1.0, len(intervals))

	log.WithFields(logrus.Fields{
		"input":    source,
		"segments": len(intervals),
	}).Info("speech detection completed")

	// Phase 3: export clips and write the manifest. No speech found is a
	// legitimate outcome; the manifest is still written so the caller can
	// tell "ran and found nothing" from "never ran".
	exportStart := time.Now()
	clipPaths, err := exportClips(ctx, stream, intervals, opts, report)
	if err != nil {
		return nil, err
	}

	manifestPath := opts.ManifestPath
	if manifestPath != "" {
		m := manifest.New(source, cfg, records)
		if err := m.Write(manifestPath); err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"manifest": manifestPath,
			"run_id":   m.RunID,
		}).Info("manifest written")
	}
	exportTime := time.Since(exportStart)
	report(PhaseExport, 1.0, len(intervals))

	return &Result{
		Source:       source,
		SampleCount:  len(stream.Samples),
		Segments:     records,
		ClipPaths:    clipPaths,
		ManifestPath: manifestPath,
		DetectTime:   detectTime,
		ExportTime:   exportTime,
	}, nil
}

// exportClips writes one WAV file per interval into opts.OutputDir.
// Clip samples are copied out of the stream by the WAV encoder, so the
// exporter's zero-copy views never escape.
func exportClips(ctx context.Context, stream *audio.Stream, intervals []vad.Interval, opts Options, report func(int, float64, int)) ([]string, error) {
	if opts.OutputDir == "" || len(intervals) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	log := opts.logger()
	paths := make([]string, 0, len(intervals))
	for i, iv := range intervals {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		r, clip := vad.Extract(stream.Samples, iv, stream.SampleRate)
		path := filepath.Join(opts.OutputDir, fmt.Sprintf("segment_%02d.wav", iv.ID))
		if err := audio.WriteWAV(path, clip, stream.SampleRate); err != nil {
			return nil, fmt.Errorf("failed to export segment %d: %w", iv.ID, err)
		}
		paths = append(paths, path)

		log.WithFields(logrus.Fields{
			"segment":      iv.ID,
			"start_sample": r.Start,
			"end_sample":   r.End,
			"clip":         path,
		}).Debug("segment exported")

		report(PhaseExport, float64(i+1)/float64(len(intervals)), len(intervals))
	}
	return paths, nil
}

func (o Options) logger() *logrus.Logger {
	if o.Log != nil {
		return o.Log
	}
	return logrus.StandardLogger()
}
