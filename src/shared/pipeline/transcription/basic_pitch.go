package transcription

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/executor"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/midifile"
)

const (
	basicPitchSuffix = "_basic_pitch"
	csvVelocityScale = 127.0
)

var _ Model = BasicPitchModel{}

// BasicPitchModel runs the basic-pitch command line tool
type BasicPitchModel struct {
	binPath    string
	scratchDir string
	executor   executor.Executor
}

func NewBasicPitchModel(binPath string, scratchDir string, executor executor.Executor) BasicPitchModel {
	return BasicPitchModel{
		binPath:    binPath,
		scratchDir: scratchDir,
		executor:   executor,
	}
}

func (b BasicPitchModel) Transcribe(ctx context.Context, audioPath string, params Params) (Output, error) {
	errctx := cerr.Field("audio_path", audioPath)

	// transcription is a lengthy process, if we want to halt now is the time
	if ctx.Err() != nil {
		return Output{}, errctx.Wrap(ctx.Err()).Error("Context cancelled before transcription could happen")
	}

	outputDir, err := os.MkdirTemp(b.scratchDir, "basic-pitch-*")
	if err != nil {
		return Output{}, errctx.Wrap(err).Error("Failed to create basic-pitch output dir")
	}
	defer os.RemoveAll(outputDir)

	args := basicPitchArgs(outputDir, audioPath, params)
	errctx = errctx.Field("basic_pitch_bin_path", b.binPath).Field("basic_pitch_args", args)

	logger := log.WithFields(log.Fields{
		"audioPath": audioPath,
		"outputDir": outputDir,
	})
	logger.Info("Running basic-pitch command")

	cmd := b.executor.Command(b.binPath, args...)
	cmd.SetDir(outputDir)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return Output{}, errctx.Field("basic_pitch_output", string(output)).
			Wrap(err).Error("Error occurred while running basic-pitch")
	}

	logger.Debug(string(output))
	logger.Info("Finished basic-pitch command")

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath)) + basicPitchSuffix
	result := Output{}

	midiBytes, err := os.ReadFile(filepath.Join(outputDir, base+".mid"))
	switch {
	case err == nil:
		result.MIDI = midiBytes
	case !os.IsNotExist(err):
		return Output{}, errctx.Wrap(err).Error("Failed to read basic-pitch MIDI output")
	}

	csvBytes, err := os.ReadFile(filepath.Join(outputDir, base+".csv"))
	switch {
	case err == nil:
		events, err := parseNoteEventsCSV(csvBytes)
		if err != nil {
			return Output{}, errctx.Wrap(err).Error("Failed to parse basic-pitch note events")
		}
		result.Events = events
	case !os.IsNotExist(err):
		return Output{}, errctx.Wrap(err).Error("Failed to read basic-pitch note events")
	}

	if result.MIDI == nil && result.Events == nil {
		return Output{}, errctx.Error("basic-pitch produced neither MIDI nor note events")
	}

	return result, nil
}

func basicPitchArgs(outputDir string, audioPath string, params Params) []string {
	formatFloat := func(value float64) string {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}

	args := []string{
		outputDir,
		audioPath,
		"--save-midi",
		"--save-note-events",
		"--onset-threshold", formatFloat(params.OnsetThreshold),
		"--frame-threshold", formatFloat(params.FrameThreshold),
		// the CLI takes milliseconds
		"--minimum-note-length", formatFloat(params.MinNoteLength * 1000),
	}

	if params.MinFreq != nil {
		args = append(args, "--minimum-frequency", formatFloat(*params.MinFreq))
	}

	if params.MaxFreq != nil {
		args = append(args, "--maximum-frequency", formatFloat(*params.MaxFreq))
	}

	if !params.MelodiaTrick {
		args = append(args, "--no-melodia")
	}

	return args
}

// parseNoteEventsCSV reads rows of start_time_s,end_time_s,pitch_midi,
// velocity[,pitch_bend...]. Velocity is on the MIDI 0-127 scale.
func parseNoteEventsCSV(data []byte) ([]midifile.NoteEvent, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	events := []midifile.NoteEvent{}
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, cerr.Field("line", line).Wrap(err).Error("Malformed CSV")
		}

		if len(record) < 4 {
			return nil, cerr.Field("line", line).Error("Note event row has too few columns")
		}

		start, startErr := strconv.ParseFloat(record[0], 64)
		if startErr != nil && line == 1 {
			// header row
			continue
		}

		end, endErr := strconv.ParseFloat(record[1], 64)
		pitch, pitchErr := strconv.ParseFloat(record[2], 64)
		velocity, velocityErr := strconv.ParseFloat(record[3], 64)
		if startErr != nil || endErr != nil || pitchErr != nil || velocityErr != nil {
			return nil, cerr.Field("line", line).Field("record", record).Error("Note event row is not numeric")
		}

		events = append(events, midifile.NoteEvent{
			Start:     start,
			End:       end,
			Pitch:     int(math.Round(pitch)),
			Amplitude: velocity / csvVelocityScale,
		})
	}

	return events, nil
}
