package vad

// Interval is one accepted speech region. Intervals are created by
// BuildRegions and immutable thereafter. Within one result they are
// non-overlapping and strictly ordered by start time.
type Interval struct {
	ID         int     // 1-based, assigned in chronological order
	Start      float64 // seconds
	End        float64 // seconds, > Start
	Confidence float64 // duration-weighted mean of constituent frame confidences
}

// Duration returns the interval length in seconds.
func (iv Interval) Duration() float64 {
	return iv.End - iv.Start
}

// BuildRegions converts the per-frame mask into the final interval list:
//
//  1. Maximal runs of consecutive speech frames become raw candidates. A
//     candidate spans from its first frame's start sample to its last
//     frame's start plus one hop, so the last frame's span is included.
//  2. Candidates separated by a silence gap strictly shorter than
//     MinSilenceDuration are merged. A single forward pass suffices: merging
//     only removes gaps, it never creates new ones.
//  3. Candidates shorter than MinSpeechDuration are discarded. An interval
//     exactly MinSpeechDuration long survives.
//  4. Survivors get 1-based ids in ascending start order.
//
// No speech surviving is a legitimate outcome: the result is empty, never
// an error.
func BuildRegions(frames []Frame, mask []MaskEntry, cfg Config) []Interval {
	raw := collectRuns(frames, mask, cfg)
	merged := mergeGaps(raw, cfg.MinSilenceDuration)

	var out []Interval
	for _, iv := range merged {
		if iv.Duration() < cfg.MinSpeechDuration {
			continue
		}
		iv.ID = len(out) + 1
		out = append(out, iv)
	}
	return out
}

// collectRuns groups consecutive speech frames into raw candidate intervals.
// Confidence starts as the plain mean over the run's frames; a run that is
// still open at the end of the stream is closed at the last frame's span.
func collectRuns(frames []Frame, mask []MaskEntry, cfg Config) []Interval {
	sr := float64(cfg.SampleRate)
	hop := float64(cfg.HopLength)

	var runs []Interval
	var confSum float64
	runStart := -1 // first frame index of the open run, -1 when closed

	flush := func(endIdx int) {
		n := endIdx - runStart
		runs = append(runs, Interval{
			Start:      float64(frames[runStart].Start) / sr,
			End:        (float64(frames[endIdx-1].Start) + hop) / sr,
			Confidence: confSum / float64(n),
		})
		runStart = -1
		confSum = 0
	}

	for i, m := range mask {
		if m.IsSpeech {
			if runStart < 0 {
				runStart = i
			}
			confSum += m.Confidence
		} else if runStart >= 0 {
			flush(i)
		}
	}
	if runStart >= 0 {
		flush(len(mask))
	}
	return runs
}

// mergeGaps performs the forward-scanning gap merge. Idempotent: applying it
// to its own output changes nothing, because every surviving gap is already
// >= minSilence.
func mergeGaps(raw []Interval, minSilence float64) []Interval {
	if len(raw) == 0 {
		return nil
	}

	merged := make([]Interval, 0, len(raw))
	cur := raw[0]
	for _, next := range raw[1:] {
		gap := next.Start - cur.End
		if gap < minSilence {
			// Length-weighted mean keeps confidence proportional to how
			// much of the merged span each side contributes.
			dCur, dNext := cur.Duration(), next.Duration()
			cur.Confidence = (cur.Confidence*dCur + next.Confidence*dNext) / (dCur + dNext)
			cur.End = next.End
			continue
		}
		merged = append(merged, cur)
		cur = next
	}
	return append(merged, cur)
}
