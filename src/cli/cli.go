package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/executor"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/transcription"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
)

// ErrInputMissing exits the command with status 1 after the result is printed
var ErrInputMissing = errors.New("Input file doesn't exist")

func main() {
	// stdout carries the JSON result only
	log.SetHandler(text.New(os.Stderr))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "transcriber",
	Short: "Transcribe audio into multi-track MIDI",
	Long: `transcriber turns an audio file into MIDI, one track for the original
mix and one for each instrument stem worth transcribing.

Pipeline: audio → stem separation → silence filter → MIDI transcription`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var processCmd = &cobra.Command{
	Use:   "process <input> <output_dir>",
	Short: "Separate and transcribe an audio file",
	Long: `Run the whole pipeline on one file and print the result as JSON.

Examples:
  transcriber process song.mp3 ./out
  transcriber process song.wav ./out --separation=false --max-duration 60`,
	Args: cobra.ExactArgs(2),
	RunE: runProcess,
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <input> <output_dir>",
	Short: "Transcribe an audio file without separating it",
	Long: `Transcribe one file into <output_dir>/<name>_transcribed.mid and print
the notes as JSON.

Example:
  transcriber transcribe melody.wav ./out --onset-threshold 0.6 --no-melodia-trick`,
	Args: cobra.ExactArgs(2),
	RunE: runTranscribe,
}

var (
	useSeparation bool
	maxDuration   float64
	workers       int

	onsetThreshold float64
	frameThreshold float64
	minNoteLength  float64
	minFreq        float64
	maxFreq        float64
	noMelodiaTrick bool
)

func init() {
	defaults := transcription.DefaultParams()

	processCmd.Flags().BoolVar(&useSeparation, "separation", true, "Separate the input into stems before transcribing")
	processCmd.Flags().Float64Var(&maxDuration, "max-duration", transcriptionentity.DefaultMaxDuration, "Only the first seconds of the input are processed")
	processCmd.Flags().IntVar(&workers, "workers", 0, "Stems transcribed at once (default from TRANSCRIBER_TRANSCRIBE_WORKERS)")

	transcribeCmd.Flags().Float64Var(&maxDuration, "max-duration", transcriptionentity.DefaultMaxDuration, "Only the first seconds of the input are transcribed")
	transcribeCmd.Flags().Float64Var(&onsetThreshold, "onset-threshold", defaults.OnsetThreshold, "Lower reports new notes more readily")
	transcribeCmd.Flags().Float64Var(&frameThreshold, "frame-threshold", defaults.FrameThreshold, "Lower keeps sustained pitches more readily")
	transcribeCmd.Flags().Float64Var(&minNoteLength, "min-note-len", defaults.MinNoteLength, "Shortest note kept, in seconds")
	transcribeCmd.Flags().Float64Var(&minFreq, "min-freq", 0, "Lowest frequency transcribed in Hz (0 for no limit)")
	transcribeCmd.Flags().Float64Var(&maxFreq, "max-freq", 0, "Highest frequency transcribed in Hz (0 for no limit)")
	transcribeCmd.Flags().BoolVar(&noMelodiaTrick, "no-melodia-trick", !defaults.MelodiaTrick, "Turn off the single melody line heuristic")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(transcribeCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	inputPath, outputDir := args[0], args[1]

	if !fileExists(inputPath) {
		result := transcriptionentity.FailedResult("Input file not found: " + inputPath)
		if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}

		return cerr.Field("input_path", inputPath).Wrap(ErrInputMissing).Error("Can't process")
	}

	cfg, err := config.LoadPipeline()
	if err != nil {
		return err
	}

	if workers > 0 {
		cfg.TranscribeWorkers = workers
	}

	components, err := pipeline.Build(cfg, executor.BinaryFileExecutor{}, nil)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	result := components.Orchestrator.Process(ctx, pipeline.Request{
		InputPath:     inputPath,
		OutputDir:     outputDir,
		UseSeparation: useSeparation,
		MaxDuration:   maxDuration,
	})

	return writeJSON(cmd.OutOrStdout(), result)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	inputPath, outputDir := args[0], args[1]

	params := paramsFromFlags()
	if err := params.Validate(); err != nil {
		return err
	}

	if !fileExists(inputPath) {
		result := transcription.StandaloneResult{
			Success:  false,
			Filename: transcription.StandaloneFilename(inputPath),
			Notes:    []transcriptionentity.Note{},
			Error:    "Input file not found: " + inputPath,
		}
		if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}

		return cerr.Field("input_path", inputPath).Wrap(ErrInputMissing).Error("Can't transcribe")
	}

	cfg, err := config.LoadPipeline()
	if err != nil {
		return err
	}

	components, err := pipeline.Build(cfg, executor.BinaryFileExecutor{}, nil)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	result := components.Transcriber.Standalone(ctx, inputPath, outputDir, params, maxDuration)
	return writeJSON(cmd.OutOrStdout(), result)
}

func paramsFromFlags() transcription.Params {
	params := transcription.Params{
		OnsetThreshold: onsetThreshold,
		FrameThreshold: frameThreshold,
		MinNoteLength:  minNoteLength,
		MelodiaTrick:   !noMelodiaTrick,
	}

	if minFreq > 0 {
		value := minFreq
		params.MinFreq = &value
	}

	if maxFreq > 0 {
		value := maxFreq
		params.MaxFreq = &value
	}

	return params
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(value); err != nil {
		return errors.Wrap(err, "Failed to write the result")
	}

	return nil
}
