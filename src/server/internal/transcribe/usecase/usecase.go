package transcribeusecase

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/errors/api"
	"github.com/veedubyou/chord-paper-transcriber/src/server/internal/transcribe/errors"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/transcription"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
)

const (
	RunsDirName    = "runs"
	MIDIDirName    = "midi"
	uploadsDirName = "uploads"
	inputBaseName  = "input"

	RunsRoute = "/runs"
)

type StandaloneTranscriber interface {
	Standalone(ctx context.Context, inputPath string, outputDir string, params transcription.Params, maxDuration float64) transcription.StandaloneResult
}

type Processor interface {
	Process(ctx context.Context, request pipeline.Request) transcriptionentity.ProcessingResult
}

// Upload is an audio file received from a client
type Upload struct {
	Filename string
	Content  io.Reader
}

type ProcessOptions struct {
	UseSeparation bool
	MaxDuration   float64
}

func NewUsecase(transcriber StandaloneTranscriber, processor Processor, outputRoot string, maxDuration float64) Usecase {
	if absRoot, err := filepath.Abs(outputRoot); err == nil {
		outputRoot = absRoot
	}

	return Usecase{
		transcriber: transcriber,
		processor:   processor,
		outputRoot:  outputRoot,
		maxDuration: maxDuration,
	}
}

type Usecase struct {
	transcriber StandaloneTranscriber
	processor   Processor
	outputRoot  string
	maxDuration float64
}

func (u Usecase) Transcribe(ctx context.Context, upload Upload, params transcription.Params) (transcription.StandaloneResult, *api.Error) {
	if err := params.Validate(); err != nil {
		return transcription.StandaloneResult{}, api.CommitError(err,
			transcribeerrors.BadParamsCode,
			"The transcription parameters are out of range")
	}

	uploadsDir := u.uploadsDir()
	if err := os.MkdirAll(uploadsDir, os.ModePerm); err != nil {
		return transcription.StandaloneResult{}, defaultError(cerr.Field("uploads_dir", uploadsDir).Wrap(err).Error("Failed to create uploads dir"))
	}

	uploadDir, err := os.MkdirTemp(uploadsDir, "upload-*")
	if err != nil {
		return transcription.StandaloneResult{}, defaultError(cerr.Wrap(err).Error("Failed to create upload dir"))
	}

	// the uploaded audio is only needed while transcribing
	defer os.RemoveAll(uploadDir)

	inputPath, apiErr := saveUpload(upload, uploadDir, cleanFilename(upload.Filename))
	if apiErr != nil {
		return transcription.StandaloneResult{}, apiErr
	}

	result := u.transcriber.Standalone(ctx, inputPath, u.midiDir(), params, u.maxDuration)
	if !result.Success {
		err := cerr.Field("filename", upload.Filename).Error(result.Error)
		return transcription.StandaloneResult{}, api.CommitError(err,
			transcribeerrors.TranscriptionFailedCode,
			"Failed to transcribe the uploaded audio")
	}

	log.WithFields(log.Fields{
		"filename":  result.Filename,
		"noteCount": result.NoteCount,
	}).Info("Transcription complete")

	result.MIDIPath = "/" + MIDIDirName + "/" + result.Filename
	return result, nil
}

// Process runs the full pipeline on an upload. Everything the run writes
// stays under its own run directory and is served from RunsRoute.
func (u Usecase) Process(ctx context.Context, upload Upload, options ProcessOptions) (transcriptionentity.ProcessingResult, string, *api.Error) {
	if options.MaxDuration < 0 {
		err := cerr.Field("max_duration", options.MaxDuration).Error("Max duration can't be negative")
		return transcriptionentity.ProcessingResult{}, "", api.CommitError(err,
			transcribeerrors.BadParamsCode,
			"The max duration must be a positive number of seconds")
	}

	if options.MaxDuration == 0 {
		options.MaxDuration = u.maxDuration
	}

	runID := uuid.New().String()
	runDir := filepath.Join(u.runsDir(), runID)

	if err := os.MkdirAll(runDir, os.ModePerm); err != nil {
		return transcriptionentity.ProcessingResult{}, "", defaultError(cerr.Wrap(err).Error("Failed to create run dir"))
	}

	inputName := inputBaseName + strings.ToLower(filepath.Ext(cleanFilename(upload.Filename)))
	inputPath, apiErr := saveUpload(upload, runDir, inputName)
	if apiErr != nil {
		return transcriptionentity.ProcessingResult{}, "", apiErr
	}

	result := u.processor.Process(ctx, pipeline.Request{
		InputPath:     inputPath,
		OutputDir:     runDir,
		UseSeparation: options.UseSeparation,
		MaxDuration:   options.MaxDuration,
	})

	return servedResult(result, runID, runDir), runID, nil
}

// RunArtifact resolves a file written by a run. Only plain file names
// directly inside a run directory resolve.
func (u Usecase) RunArtifact(runID string, filename string) (string, *api.Error) {
	if _, err := uuid.Parse(runID); err != nil {
		return "", artifactNotFound(cerr.Field("run_id", runID).Wrap(err).Error("Run ID is malformed"))
	}

	return existingFile(filepath.Join(u.runsDir(), runID), filename)
}

// MIDIFile resolves a MIDI file written by a standalone transcription
func (u Usecase) MIDIFile(filename string) (string, *api.Error) {
	return existingFile(u.midiDir(), filename)
}

func (u Usecase) runsDir() string {
	return filepath.Join(u.outputRoot, RunsDirName)
}

func (u Usecase) midiDir() string {
	return filepath.Join(u.outputRoot, MIDIDirName)
}

func (u Usecase) uploadsDir() string {
	return filepath.Join(u.outputRoot, uploadsDirName)
}

func existingFile(dir string, filename string) (string, *api.Error) {
	errctx := cerr.Field("filename", filename)

	if !isPlainFilename(filename) {
		return "", artifactNotFound(errctx.Error("Filename is not a plain file name"))
	}

	filePath := filepath.Join(dir, filename)
	info, err := os.Stat(filePath)
	if err != nil {
		return "", artifactNotFound(errctx.Wrap(err).Error("File doesn't exist"))
	}

	if info.IsDir() {
		return "", artifactNotFound(errctx.Error("File is a directory"))
	}

	return filePath, nil
}

func isPlainFilename(filename string) bool {
	if filename == "" || filename == "." || filename == ".." {
		return false
	}

	return !strings.ContainsAny(filename, `/\`) && filepath.Base(filename) == filename
}

// cleanFilename keeps a client supplied name from escaping the upload dir
func cleanFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if !isPlainFilename(base) {
		return "upload"
	}

	return base
}

func saveUpload(upload Upload, dir string, filename string) (string, *api.Error) {
	if upload.Content == nil {
		return "", api.CommitError(errors.New("No file content"),
			transcribeerrors.MissingFileCode,
			"No file provided")
	}

	filePath := filepath.Join(dir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return "", defaultError(cerr.Field("file_path", filePath).Wrap(err).Error("Failed to create upload file"))
	}

	defer file.Close()

	if _, err := io.Copy(file, upload.Content); err != nil {
		return "", defaultError(cerr.Field("file_path", filePath).Wrap(err).Error("Failed to save upload"))
	}

	return filePath, nil
}

// servedResult swaps local paths under the run dir for their URL paths
func servedResult(result transcriptionentity.ProcessingResult, runID string, runDir string) transcriptionentity.ProcessingResult {
	toRoute := func(localPath string) string {
		if localPath == "" || filepath.Dir(localPath) != runDir {
			return localPath
		}

		return RunsRoute + "/" + runID + "/" + filepath.Base(localPath)
	}

	tracks := make([]transcriptionentity.Track, 0, len(result.Tracks))
	for _, track := range result.Tracks {
		track.AudioPath = toRoute(track.AudioPath)
		track.MIDIPath = toRoute(track.MIDIPath)
		tracks = append(tracks, track)
	}

	result.Tracks = tracks
	return result
}

func artifactNotFound(err error) *api.Error {
	return api.CommitError(err, transcribeerrors.ArtifactNotFoundCode, "The requested file doesn't exist")
}

func defaultError(err error) *api.Error {
	return api.CommitError(err, api.DefaultErrorCode, "Something went wrong, please try again")
}
