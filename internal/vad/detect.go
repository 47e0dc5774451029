package vad

import "context"

// Detect runs the full segmentation pipeline on a mono sample stream:
// frame energy analysis, threshold classification, and region building.
// The configuration is validated before any work happens.
//
// An empty stream or a stream with no surviving speech both return an empty
// interval list and a nil error; the two cases are distinguishable only by
// input length.
func Detect(samples []float64, cfg Config) ([]Interval, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	frames := Analyze(samples, cfg)
	mask := Classify(frames, cfg)
	return BuildRegions(frames, mask, cfg), nil
}

// DetectParallel is Detect with the analyzer spread across a worker pool.
// The region builder is inherently sequential (its merge scans forward over
// the ordered mask), so it runs only after every frame is classified. The
// result is byte-identical to Detect.
func DetectParallel(ctx context.Context, samples []float64, cfg Config, workers int) ([]Interval, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	frames, err := AnalyzeParallel(ctx, samples, cfg, workers)
	if err != nil {
		return nil, err
	}
	mask := Classify(frames, cfg)
	return BuildRegions(frames, mask, cfg), nil
}
