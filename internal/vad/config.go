// Package vad implements energy-based voice activity detection over a
// fully materialized mono sample stream. The pipeline is
// Analyze → Classify → BuildRegions, with slicing and timestamp
// serialization as pure consumers of the resulting intervals.
package vad

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig wraps all configuration constraint violations.
// Detected eagerly before any analysis begins; never retried.
var ErrInvalidConfig = errors.New("vad: invalid configuration")

// Config holds the detection parameters for one invocation.
// Every component receives it explicitly; there is no package-level state,
// so concurrent invocations with different settings do not interfere.
type Config struct {
	// EnergyThreshold is the RMS level above which a frame counts as speech.
	// Samples are normalized amplitudes in [-1, 1], so the threshold is
	// linear, not dB.
	EnergyThreshold float64 `validate:"gt=0"`

	// FrameLength is the analysis window size in samples.
	FrameLength int `validate:"gt=0"`

	// HopLength is the step between consecutive windows in samples.
	// Must not exceed FrameLength (windows may overlap, never skip).
	HopLength int `validate:"gt=0,ltefield=FrameLength"`

	// MinSpeechDuration is the shortest interval kept, in seconds.
	// An interval exactly this long is kept.
	MinSpeechDuration float64 `validate:"gte=0"`

	// MinSilenceDuration is the longest gap merged away, in seconds.
	// A gap exactly this long is NOT merged.
	MinSilenceDuration float64 `validate:"gte=0"`

	// SampleRate of the input stream in Hz.
	SampleRate int `validate:"gt=0"`
}

// use a single validator instance; it caches struct metadata
var validate = validator.New()

// Validate checks every constraint and reports all violations at once.
// The returned error wraps ErrInvalidConfig.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeViolation(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// describeViolation converts a validator field error into the descriptive
// fault surfaced to the caller.
func describeViolation(fe validator.FieldError) string {
	switch fe.Field() {
	case "EnergyThreshold":
		return fmt.Sprintf("EnergyThreshold must be > 0 (got %v)", fe.Value())
	case "FrameLength":
		return fmt.Sprintf("FrameLength must be > 0 samples (got %v)", fe.Value())
	case "HopLength":
		if fe.Tag() == "ltefield" {
			return fmt.Sprintf("HopLength must not exceed FrameLength (got %v)", fe.Value())
		}
		return fmt.Sprintf("HopLength must be > 0 samples (got %v)", fe.Value())
	case "MinSpeechDuration":
		return fmt.Sprintf("MinSpeechDuration must be >= 0 seconds (got %v)", fe.Value())
	case "MinSilenceDuration":
		return fmt.Sprintf("MinSilenceDuration must be >= 0 seconds (got %v)", fe.Value())
	case "SampleRate":
		return fmt.Sprintf("SampleRate must be > 0 Hz (got %v)", fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}
