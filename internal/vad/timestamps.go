package vad

import "math"

// Record is the external representation of one interval. All numeric fields
// are rounded to two decimal places so the serialized output is stable
// across platforms and float formatting quirks.
type Record struct {
	SegmentID  int     `json:"segment_id"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Duration   float64 `json:"duration"`
	Confidence float64 `json:"confidence"`
}

// Serialize assembles the ordered record sequence for an interval list.
// Pure function; the input intervals are not modified.
func Serialize(intervals []Interval) []Record {
	records := make([]Record, len(intervals))
	for i, iv := range intervals {
		records[i] = Record{
			SegmentID:  iv.ID,
			Start:      round2(iv.Start),
			End:        round2(iv.End),
			Duration:   round2(iv.Duration()),
			Confidence: round2(iv.Confidence),
		}
	}
	return records
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
