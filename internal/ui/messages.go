package ui

// ProgressMsg represents a progress update from the detection pipeline
type ProgressMsg struct {
	Phase     int     // 1 extract, 2 detect, 3 export
	PhaseName string  // "Extracting", "Detecting" or "Exporting"
	Progress  float64 // 0.0 to 1.0
	Segments  int     // Segments found so far (0 until detection completes)
}

// FileStartMsg indicates a new file has started processing
type FileStartMsg struct {
	FileIndex int
	FileName  string
}

// FileCompleteMsg indicates a file has finished processing
type FileCompleteMsg struct {
	FileIndex      int
	Segments       int
	SpeechDuration float64 // Total speech time in seconds
	AudioDuration  float64 // Total audio time in seconds
	ManifestPath   string
	ClipCount      int
	Error          error
}

// AllCompleteMsg indicates all files have been processed
type AllCompleteMsg struct{}
