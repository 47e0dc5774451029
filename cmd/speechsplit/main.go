package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	ffmpeg "github.com/csnewman/ffmpeg-go"
	"github.com/sirupsen/logrus"

	"github.com/speechsplit/speechsplit/internal/cli"
	"github.com/speechsplit/speechsplit/internal/config"
	"github.com/speechsplit/speechsplit/internal/logging"
	"github.com/speechsplit/speechsplit/internal/pipeline"
	"github.com/speechsplit/speechsplit/internal/ui"
	"github.com/speechsplit/speechsplit/internal/vad"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface. Defaults are resolved from the
// environment via internal/config before kong parses the flags.
type CLI struct {
	Version    bool     `short:"v" help:"Show version information"`
	Threshold  float64  `help:"RMS energy threshold for speech" default:"${threshold}"`
	Frame      int      `help:"Analysis frame length in samples" default:"${frame}"`
	Hop        int      `help:"Hop length between frames in samples" default:"${hop}"`
	MinSpeech  float64  `help:"Minimum speech region duration in seconds" default:"${min_speech}"`
	MinSilence float64  `help:"Maximum silence gap to bridge in seconds" default:"${min_silence}"`
	SampleRate int      `help:"Sample rate audio is resampled to" default:"${sample_rate}"`
	OutputDir  string   `short:"o" help:"Directory for exported segment clips" default:"${output_dir}"`
	Manifest   string   `short:"m" help:"Path for the JSON segment manifest" default:"${manifest}"`
	JSON       bool     `help:"Print segment records as JSON instead of running the TUI"`
	Logs       bool     `help:"Save detailed detection reports"`
	Files      []string `arg:"" name:"files" help:"Audio files to segment" type:"existingfile" optional:""`
}

func main() {
	// Suppress FFmpeg info/verbose logging to keep console clean
	ffmpeg.AVLogSetLevel(ffmpeg.AVLogError)

	opts, err := config.Load(context.Background())
	if err != nil {
		cli.PrintError(fmt.Sprintf("Failed to load environment config: %v", err))
		os.Exit(1)
	}

	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("speechsplit"),
		kong.Description("Energy-based speech segmentation for audio recordings"),
		kong.UsageOnError(),
		kong.Vars{
			"version":     version,
			"threshold":   fmt.Sprintf("%g", opts.EnergyThreshold),
			"frame":       fmt.Sprintf("%d", opts.FrameLength),
			"hop":         fmt.Sprintf("%d", opts.HopLength),
			"min_speech":  fmt.Sprintf("%g", opts.MinSpeechDuration),
			"min_silence": fmt.Sprintf("%g", opts.MinSilenceDuration),
			"sample_rate": fmt.Sprintf("%d", opts.SampleRate),
			"output_dir":  opts.OutputDir,
			"manifest":    opts.ManifestPath,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	// Validate input
	if len(cliArgs.Files) == 0 {
		cli.PrintError("No input files specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	detection := vad.Config{
		EnergyThreshold:    cliArgs.Threshold,
		FrameLength:        cliArgs.Frame,
		HopLength:          cliArgs.Hop,
		MinSpeechDuration:  cliArgs.MinSpeech,
		MinSilenceDuration: cliArgs.MinSilence,
		SampleRate:         cliArgs.SampleRate,
	}
	if err := detection.Validate(); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	log := newLogger(opts.DebugLogPath)

	if cliArgs.JSON {
		if err := runJSON(cliArgs, detection, log); err != nil {
			cli.PrintError(err.Error())
			os.Exit(1)
		}
		return
	}

	runTUI(cliArgs, detection, log)
}

// newLogger builds the debug logger. Output goes to a log file so it never
// fights the TUI for the terminal.
func newLogger(path string) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	f, err := os.Create(path)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.WithError(err).Warn("failed to create debug log file")
		return log
	}
	log.SetOutput(f)
	return log
}

// runJSON processes each file without the TUI and prints manifest records
// to stdout.
func runJSON(cliArgs *CLI, detection vad.Config, log *logrus.Logger) error {
	for _, inputPath := range cliArgs.Files {
		outputDir, manifestPath := outputPathsFor(inputPath, len(cliArgs.Files), cliArgs)

		result, err := pipeline.Run(context.Background(), inputPath, pipeline.Options{
			Detection:    detection,
			OutputDir:    outputDir,
			ManifestPath: manifestPath,
			Workers:      runtime.NumCPU(),
			Log:          log,
		})
		if err != nil {
			return fmt.Errorf("failed to process %s: %w", inputPath, err)
		}

		raw, err := json.MarshalIndent(result.Segments, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode segments: %w", err)
		}
		fmt.Println(string(raw))

		if cliArgs.Logs {
			writeReport(inputPath, outputDir, manifestPath, detection, result, log)
		}
	}
	return nil
}

// runTUI drives the Bubbletea interface with processing in a background
// goroutine, mirroring the file queue the UI renders.
func runTUI(cliArgs *CLI, detection vad.Config, log *logrus.Logger) {
	model := ui.NewModel(cliArgs.Files)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		for i, inputPath := range cliArgs.Files {
			log.WithField("file", inputPath).Debug("starting file")
			p.Send(ui.FileStartMsg{
				FileIndex: i,
				FileName:  inputPath,
			})

			outputDir, manifestPath := outputPathsFor(inputPath, len(cliArgs.Files), cliArgs)

			ph := &progressHandler{p: p}
			result, err := pipeline.Run(context.Background(), inputPath, pipeline.Options{
				Detection:    detection,
				OutputDir:    outputDir,
				ManifestPath: manifestPath,
				Workers:      runtime.NumCPU(),
				Progress:     ph.callback,
				Log:          log,
			})
			if err != nil {
				log.WithError(err).Error("processing failed")
				p.Send(ui.FileCompleteMsg{
					FileIndex: i,
					Error:     err,
				})
				continue
			}

			if cliArgs.Logs {
				writeReport(inputPath, outputDir, manifestPath, detection, result, log)
			}

			audioDuration := float64(result.SampleCount) / float64(detection.SampleRate)
			p.Send(ui.FileCompleteMsg{
				FileIndex:      i,
				Segments:       len(result.Segments),
				SpeechDuration: result.SpeechDuration(),
				AudioDuration:  audioDuration,
				ManifestPath:   result.ManifestPath,
				ClipCount:      len(result.ClipPaths),
			})
		}

		p.Send(ui.AllCompleteMsg{})
	}()

	if _, err := p.Run(); err != nil {
		cli.PrintError(fmt.Sprintf("UI error: %v", err))
		os.Exit(1)
	}
}

// outputPathsFor derives per-file output locations. A single input uses the
// configured paths as-is; multiple inputs get the input stem prefixed so the
// runs do not overwrite each other.
func outputPathsFor(inputPath string, fileCount int, cliArgs *CLI) (outputDir, manifestPath string) {
	if fileCount <= 1 {
		return cliArgs.OutputDir, cliArgs.Manifest
	}

	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputDir = filepath.Join(filepath.Dir(cliArgs.OutputDir), stem+"-"+filepath.Base(cliArgs.OutputDir))
	manifestPath = filepath.Join(filepath.Dir(cliArgs.Manifest), stem+"-"+filepath.Base(cliArgs.Manifest))
	return outputDir, manifestPath
}

// writeReport generates the detection report for a completed run.
func writeReport(inputPath, outputDir, manifestPath string, detection vad.Config, result *pipeline.Result, log *logrus.Logger) {
	end := time.Now()
	data := logging.ReportData{
		InputPath:    inputPath,
		OutputDir:    outputDir,
		ManifestPath: manifestPath,
		StartTime:    end.Add(-(result.ExtractTime + result.DetectTime + result.ExportTime)),
		EndTime:      end,
		ExtractTime:  result.ExtractTime,
		DetectTime:   result.DetectTime,
		ExportTime:   result.ExportTime,
		Config:       detection,
		Segments:     result.Segments,
		SampleCount:  result.SampleCount,
		DurationSecs: float64(result.SampleCount) / float64(detection.SampleRate),
	}
	if err := logging.GenerateReport(data); err != nil {
		log.WithError(err).Warn("failed to generate report")
	}
}

// progressHandler forwards pipeline progress updates to the TUI.
type progressHandler struct {
	p *tea.Program
}

func (ph *progressHandler) callback(phase int, phaseName string, progress float64, segments int) {
	ph.p.Send(ui.ProgressMsg{
		Phase:     phase,
		PhaseName: phaseName,
		Progress:  progress,
		Segments:  segments,
	})
}
