package vad

// confidenceEpsilon guards the confidence division against a zero threshold
// denominator. Validation already rejects non-positive thresholds, so this
// only matters for values near the float64 floor.
const confidenceEpsilon = 1e-10

// MaskEntry is the classification of a single frame.
// Confidence is the frame energy normalized against the threshold scale and
// clamped to [0, 1]. It is a proxy score, not a calibrated probability; for
// non-speech frames it is kept for diagnostics only.
type MaskEntry struct {
	FrameIndex int
	IsSpeech   bool
	Confidence float64
}

// Classify labels each frame as speech or silence by strict comparison
// against the configured threshold. A frame with energy exactly equal to
// the threshold is NOT speech. No hysteresis is applied here; temporal
// smoothing belongs entirely to the region builder.
//
// An all-zero (or empty) stream yields an all-false mask, which the region
// builder turns into zero intervals rather than an error.
func Classify(frames []Frame, cfg Config) []MaskEntry {
	mask := make([]MaskEntry, len(frames))
	for i, f := range frames {
		conf := f.Energy / (cfg.EnergyThreshold + confidenceEpsilon)
		if conf > 1.0 {
			conf = 1.0
		}
		mask[i] = MaskEntry{
			FrameIndex: f.Index,
			IsSpeech:   f.Energy > cfg.EnergyThreshold,
			Confidence: conf,
		}
	}
	return mask
}
