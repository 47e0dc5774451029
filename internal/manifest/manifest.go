// Package manifest persists detection results as JSON so segment export can
// run from a previous detection pass.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/speechsplit/speechsplit/internal/vad"
)

// DetectionConfig echoes the parameters a manifest was produced with, so a
// later export (or a human) can tell runs apart.
type DetectionConfig struct {
	EnergyThreshold    float64 `json:"energy_threshold"`
	FrameLength        int     `json:"frame_length"`
	HopLength          int     `json:"hop_length"`
	MinSpeechDuration  float64 `json:"min_speech_duration"`
	MinSilenceDuration float64 `json:"min_silence_duration"`
	SampleRate         int     `json:"sample_rate"`
}

// Manifest is the on-disk record of one detection run.
type Manifest struct {
	RunID       string          `json:"run_id"`
	Source      string          `json:"source"`
	CreatedAt   time.Time       `json:"created_at"`
	Config      DetectionConfig `json:"config"`
	TotalSpeech float64         `json:"total_speech_duration"`
	Segments    []vad.Record    `json:"segments"`
}

// New builds a manifest for a completed detection run. The run id is a
// fresh UUID; total speech duration is the sum of the rounded segment
// durations so it matches what the records say.
func New(source string, cfg vad.Config, segments []vad.Record) *Manifest {
	var total float64
	for _, s := range segments {
		total += s.Duration
	}
	return &Manifest{
		RunID:     uuid.NewString(),
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Config: DetectionConfig{
			EnergyThreshold:    cfg.EnergyThreshold,
			FrameLength:        cfg.FrameLength,
			HopLength:          cfg.HopLength,
			MinSpeechDuration:  cfg.MinSpeechDuration,
			MinSilenceDuration: cfg.MinSilenceDuration,
			SampleRate:         cfg.SampleRate,
		},
		TotalSpeech: total,
		Segments:    segments,
	}
}

// Write stores the manifest as pretty-printed JSON.
func (m *Manifest) Write(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Read loads a manifest written by Write. It also accepts a bare segment
// array for compatibility with externally produced timestamp files.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	// A manifest written by Write is a JSON object; unmarshalling it into a
	// record slice fails, and vice versa, so the two forms cannot be
	// confused. An empty run still carries its RunID.
	var m Manifest
	if err := json.Unmarshal(data, &m); err == nil && (m.RunID != "" || m.Segments != nil) {
		return &m, nil
	}

	// Bare array fallback: [{"segment_id": ..., ...}, ...]
	var segments []vad.Record
	if err := json.Unmarshal(data, &segments); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	for _, s := range segments {
		m.TotalSpeech += s.Duration
	}
	m.Segments = segments
	return &m, nil
}

// Intervals reconstructs the interval list from the stored records, for
// feeding the exporter without re-running detection.
func (m *Manifest) Intervals() []vad.Interval {
	out := make([]vad.Interval, len(m.Segments))
	for i, s := range m.Segments {
		out[i] = vad.Interval{
			ID:         s.SegmentID,
			Start:      s.Start,
			End:        s.End,
			Confidence: s.Confidence,
		}
	}
	return out
}
