package vad

import "math"

// SampleRange is the half-open sample index range [Start, End) of one
// interval within the original stream, tagged with the interval's id so the
// caller can persist each clip independently.
type SampleRange struct {
	SegmentID int
	Start     int
	End       int
}

// Slice maps an interval's time bounds to exact sample indices. Rounding
// that pushes the end past the stream length is clamped rather than failing;
// the range length stays positive because accepted intervals have positive
// duration.
func Slice(iv Interval, totalSamples int, sampleRate int) SampleRange {
	start := int(math.Round(iv.Start * float64(sampleRate)))
	end := int(math.Round(iv.End * float64(sampleRate)))
	if end > totalSamples {
		end = totalSamples
	}
	if start > end {
		start = end
	}
	return SampleRange{SegmentID: iv.ID, Start: start, End: end}
}

// Extract returns the sample sub-range for an interval as a view into the
// original stream. The view aliases the input; callers that need an
// independent buffer (e.g. before encoding) must copy.
func Extract(samples []float64, iv Interval, sampleRate int) (SampleRange, []float64) {
	r := Slice(iv, len(samples), sampleRate)
	return r, samples[r.Start:r.End]
}
