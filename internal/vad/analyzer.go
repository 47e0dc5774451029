package vad

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Frame is one analysis window of the sample stream.
// Frames are identified by their index in the analyzer output; Start is the
// offset of the window's first sample in the original stream.
type Frame struct {
	Index  int
	Start  int     // start sample index
	Energy float64 // RMS amplitude, always >= 0
}

// frameCount returns how many full frames fit in n samples.
// A trailing window with fewer than FrameLength samples is dropped rather
// than zero-padded: padding would attenuate the measured energy and could
// flip a genuine speech tail below the threshold.
func frameCount(n, frameLength, hopLength int) int {
	if n < frameLength {
		return 0
	}
	return (n-frameLength)/hopLength + 1
}

// Analyze slices samples into overlapping windows at offsets 0, H, 2H, ...
// and computes the RMS energy of each. Pure function of its input: no
// randomness, plain left-to-right summation, deterministic for identical
// input.
func Analyze(samples []float64, cfg Config) []Frame {
	n := frameCount(len(samples), cfg.FrameLength, cfg.HopLength)
	frames := make([]Frame, n)
	for i := 0; i < n; i++ {
		start := i * cfg.HopLength
		frames[i] = Frame{
			Index:  i,
			Start:  start,
			Energy: rms(samples[start : start+cfg.FrameLength]),
		}
	}
	return frames
}

// AnalyzeParallel computes the same frame sequence as Analyze using a
// bounded worker pool. Each frame is independent given fixed frame/hop
// lengths, so the stream is sharded into contiguous runs of frame indices
// and reassembled in order. The output is identical to Analyze; only
// throughput differs.
//
// workers <= 0 selects GOMAXPROCS.
func AnalyzeParallel(ctx context.Context, samples []float64, cfg Config, workers int) ([]Frame, error) {
	n := frameCount(len(samples), cfg.FrameLength, cfg.HopLength)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		return Analyze(samples, cfg), nil
	}

	frames := make([]Frame, n)
	g, ctx := errgroup.WithContext(ctx)

	// Contiguous shards keep each worker walking forward through memory.
	per := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * per
		hi := lo + per
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				start := i * cfg.HopLength
				frames[i] = Frame{
					Index:  i,
					Start:  start,
					Energy: rms(samples[start : start+cfg.FrameLength]),
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}

// rms computes the root-mean-square amplitude of one window.
func rms(window []float64) float64 {
	var sumSquares float64
	for _, s := range window {
		sumSquares += s * s
	}
	return math.Sqrt(sumSquares / float64(len(window)))
}
