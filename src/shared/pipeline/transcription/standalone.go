package transcription

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
)

const standaloneSuffix = "_transcribed.mid"

// StandaloneResult is the transcription-only response, without stems
type StandaloneResult struct {
	Success   bool                       `json:"success"`
	Filename  string                     `json:"filename"`
	MIDIPath  string                     `json:"midi_path"`
	NoteCount int                        `json:"note_count"`
	Duration  float64                    `json:"duration"`
	Notes     []transcriptionentity.Note `json:"notes"`
	Error     string                     `json:"error,omitempty"`
}

func StandaloneFilename(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + standaloneSuffix
}

// Standalone transcribes one file into <outputDir>/<name>_transcribed.mid
func (a Adapter) Standalone(ctx context.Context, inputPath string, outputDir string, params Params, maxDuration float64) StandaloneResult {
	filename := StandaloneFilename(inputPath)

	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		err = cerr.Field("output_dir", outputDir).Wrap(err).Error("Failed to create output dir")
		return StandaloneResult{Success: false, Filename: filename, Notes: []transcriptionentity.Note{}, Error: err.Error()}
	}

	result := a.Transcribe(ctx, Request{
		AudioPath:   inputPath,
		MIDIPath:    filepath.Join(outputDir, filename),
		Instrument:  "transcribed",
		Params:      params,
		MaxDuration: maxDuration,
	})

	if !result.Success {
		return StandaloneResult{
			Success:  false,
			Filename: filename,
			Notes:    []transcriptionentity.Note{},
			Error:    result.ErrorMessage(),
		}
	}

	return StandaloneResult{
		Success:   true,
		Filename:  filename,
		MIDIPath:  result.MIDIPath,
		NoteCount: len(result.Notes),
		Duration:  result.EndTime(),
		Notes:     result.Notes,
	}
}
