// Package logging handles generation of analysis reports for detection runs.

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/speechsplit/speechsplit/internal/vad"
)

// ReportData contains all the information needed to generate a detection report.
type ReportData struct {
	InputPath    string
	OutputDir    string
	ManifestPath string
	StartTime    time.Time
	EndTime      time.Time
	ExtractTime  time.Duration
	DetectTime   time.Duration
	ExportTime   time.Duration
	Config       vad.Config
	Segments     []vad.Record
	SampleCount  int
	DurationSecs float64
}

// GenerateReport creates a detailed detection report and saves it alongside the
// manifest. The report filename will be <input>-segments.log
//
// Report structure:
// 1. Header - file info and timestamp
// 2. Processing Summary - phase timings
// 3. Detection Parameters - threshold and frame geometry
// 4. Speech Segments - per-segment table
// 5. Totals - counts, speech time, speech ratio
func GenerateReport(data ReportData) error {
	logPath := strings.TrimSuffix(data.InputPath, filepath.Ext(data.InputPath)) + "-segments.log"

	f, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer f.Close()

	writeReportHeader(f, data)
	writeProcessingSummary(f, data)
	writeDetectionParameters(f, data)
	writeSegmentTable(f, data)
	writeTotals(f, data)

	return nil
}

// writeSection writes a section header with title and dashed underline.
// The underline length matches the title length.
func writeSection(f *os.File, title string) {
	fmt.Fprintln(f, title)
	fmt.Fprintln(f, strings.Repeat("-", len(title)))
}

// writeReportHeader outputs the report header with file info and timestamp.
func writeReportHeader(f *os.File, data ReportData) {
	fmt.Fprintln(f, "Speechsplit Detection Report")
	fmt.Fprintln(f, "============================")
	fmt.Fprintf(f, "File: %s\n", filepath.Base(data.InputPath))
	fmt.Fprintf(f, "Processed: %s\n", data.EndTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(f, "Duration: %s (%d samples at %d Hz)\n",
		formatDuration(time.Duration(data.DurationSecs*float64(time.Second))),
		data.SampleCount, data.Config.SampleRate)
	if data.ManifestPath != "" {
		fmt.Fprintf(f, "Manifest: %s\n", data.ManifestPath)
	}
	if data.OutputDir != "" {
		fmt.Fprintf(f, "Clips: %s\n", data.OutputDir)
	}
	fmt.Fprintln(f, "")
}

// writeProcessingSummary outputs the processing time summary for all phases.
func writeProcessingSummary(f *os.File, data ReportData) {
	writeSection(f, "Processing Summary")

	fmt.Fprintf(f, "Phase 1 (Extracting): %s\n", formatDuration(data.ExtractTime))
	fmt.Fprintf(f, "Phase 2 (Detecting):  %s\n", formatDuration(data.DetectTime))
	fmt.Fprintf(f, "Phase 3 (Exporting):  %s\n", formatDuration(data.ExportTime))

	totalTime := data.EndTime.Sub(data.StartTime)
	fmt.Fprintf(f, "Total:                %s", formatDuration(totalTime))

	if data.DurationSecs > 0 && totalTime > 0 {
		audioDuration := time.Duration(data.DurationSecs * float64(time.Second))
		rtf := float64(audioDuration) / float64(totalTime)
		fmt.Fprintf(f, " (%.0fx real-time)", rtf)
	}
	fmt.Fprintln(f, "")
	fmt.Fprintln(f, "")
}

// writeDetectionParameters outputs the detection configuration the run used.
func writeDetectionParameters(f *os.File, data ReportData) {
	writeSection(f, "Detection Parameters")

	cfg := data.Config
	frameMs := float64(cfg.FrameLength) / float64(cfg.SampleRate) * 1000
	hopMs := float64(cfg.HopLength) / float64(cfg.SampleRate) * 1000

	fmt.Fprintf(f, "Energy threshold: %.4f RMS\n", cfg.EnergyThreshold)
	fmt.Fprintf(f, "Frame length:     %d samples (%.1fms)\n", cfg.FrameLength, frameMs)
	fmt.Fprintf(f, "Hop length:       %d samples (%.1fms)\n", cfg.HopLength, hopMs)
	fmt.Fprintf(f, "Min speech:       %.2fs\n", cfg.MinSpeechDuration)
	fmt.Fprintf(f, "Min silence:      %.2fs\n", cfg.MinSilenceDuration)
	fmt.Fprintln(f, "")
}

// writeSegmentTable outputs the per-segment table with timing and confidence.
func writeSegmentTable(f *os.File, data ReportData) {
	writeSection(f, "Speech Segments")

	if len(data.Segments) == 0 {
		fmt.Fprintln(f, "No speech detected")
		fmt.Fprintln(f, "")
		return
	}

	table := Table{Headers: []string{"Segment", "Start", "End", "Duration", "Confidence"}}
	for _, seg := range data.Segments {
		table.AddRow(
			fmt.Sprintf("%d", seg.SegmentID),
			fmt.Sprintf("%.2fs", seg.Start),
			fmt.Sprintf("%.2fs", seg.End),
			fmt.Sprintf("%.2fs", seg.Duration),
			fmt.Sprintf("%.2f", seg.Confidence),
		)
	}
	fmt.Fprint(f, table.String())
	fmt.Fprintln(f, "")
}

// writeTotals outputs segment counts and speech coverage.
func writeTotals(f *os.File, data ReportData) {
	writeSection(f, "Totals")

	var speech float64
	for _, seg := range data.Segments {
		speech += seg.Duration
	}

	fmt.Fprintf(f, "Segments:     %d\n", len(data.Segments))
	fmt.Fprintf(f, "Speech time:  %s\n", formatDuration(time.Duration(speech*float64(time.Second))))
	if data.DurationSecs > 0 {
		fmt.Fprintf(f, "Speech ratio: %.0f%%\n", speech/data.DurationSecs*100)
	}
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
