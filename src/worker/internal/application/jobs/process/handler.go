package process

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
	cloudstorage "github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/cloud_storage/entity"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/job_message"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/process/download"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/lib/storagepath"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/lib/working_dir"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

const JobType string = "process_audio"
const ErrorMessage string = "Failed to transcribe the audio"

const (
	inputBaseName = "input"
	outputDirName = "output"
)

//counterfeiter:generate . ProcessJobHandler
type ProcessJobHandler interface {
	HandleProcessJob(ctx context.Context, message []byte) (JobParams, transcriptionentity.ProcessingResult, error)
}

// Processor is the pipeline run for one input file
type Processor interface {
	Process(ctx context.Context, request pipeline.Request) transcriptionentity.ProcessingResult
}

type JobParams struct {
	job_message.JobIdentifier
}

var _ ProcessJobHandler = JobHandler{}

func NewJobHandler(
	jobStore transcriptionentity.JobStore,
	downloader download.Downloader,
	processor Processor,
	fileStore cloudstorage.FileStore,
	pathGenerator storagepath.Generator,
	workingDirStr string,
) (JobHandler, error) {
	workingDir, err := working_dir.NewWorkingDir(workingDirStr)
	if err != nil {
		return JobHandler{}, cerr.Field("working_dir_str", workingDirStr).Wrap(err).Error("Failed to create working dir")
	}

	return JobHandler{
		jobStore:      jobStore,
		downloader:    downloader,
		processor:     processor,
		fileStore:     fileStore,
		pathGenerator: pathGenerator,
		workingDir:    workingDir,
	}, nil
}

type JobHandler struct {
	jobStore      transcriptionentity.JobStore
	downloader    download.Downloader
	processor     Processor
	fileStore     cloudstorage.FileStore
	pathGenerator storagepath.Generator
	workingDir    working_dir.WorkingDir
}

func (j JobHandler) HandleProcessJob(ctx context.Context, message []byte) (JobParams, transcriptionentity.ProcessingResult, error) {
	params := JobParams{}
	if err := json.Unmarshal(message, &params); err != nil {
		return JobParams{}, transcriptionentity.ProcessingResult{}, cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	if params.JobID == "" {
		return JobParams{}, transcriptionentity.ProcessingResult{}, cerr.Error("Missing job ID")
	}

	result, err := j.process(ctx, params.JobID)
	if err != nil {
		return JobParams{}, transcriptionentity.ProcessingResult{}, err
	}

	return params, result, nil
}

func (j JobHandler) process(ctx context.Context, jobID string) (transcriptionentity.ProcessingResult, error) {
	errctx := cerr.Field("job_id", jobID)
	logger := log.WithField("job_id", jobID)

	job, err := j.jobStore.GetJob(ctx, jobID)
	if err != nil {
		return transcriptionentity.ProcessingResult{}, errctx.Wrap(err).Error("Failed to get job")
	}

	if job.Status != transcriptionentity.ProcessingStatus {
		return transcriptionentity.ProcessingResult{}, errctx.Field("job_status", job.Status).
			Error("Job is not in processing status")
	}

	jobDir, cleanUp, err := j.workingDir.JobDir(jobID)
	if err != nil {
		return transcriptionentity.ProcessingResult{}, errctx.Wrap(err).Error("Failed to make a job dir")
	}

	defer cleanUp()

	inputPath := filepath.Join(jobDir, inputBaseName+inputExtension(job.InputURL))
	if err := j.downloader.Download(ctx, job.InputURL, inputPath); err != nil {
		return transcriptionentity.ProcessingResult{}, errctx.Field("input_url", job.InputURL).
			Wrap(err).Error("Failed to download the input")
	}

	logger.Info("Running the transcription pipeline")
	result := j.processor.Process(ctx, pipeline.Request{
		InputPath:     inputPath,
		OutputDir:     filepath.Join(jobDir, outputDirName),
		UseSeparation: job.UseSeparation,
		MaxDuration:   job.MaxDuration,
	})

	logger.WithFields(log.Fields{
		"success":    result.Success,
		"trackCount": len(result.Tracks),
	}).Info("Pipeline finished, uploading artifacts")

	uploaded, err := j.uploadArtifacts(ctx, jobID, result)
	if err != nil {
		return transcriptionentity.ProcessingResult{}, errctx.Wrap(err).Error("Failed to upload the artifacts")
	}

	return uploaded, nil
}

// uploadArtifacts copies every file a track points at to the file store and
// points the track at the uploaded copy instead
func (j JobHandler) uploadArtifacts(ctx context.Context, jobID string, result transcriptionentity.ProcessingResult) (transcriptionentity.ProcessingResult, error) {
	uploadedURLs := map[string]string{}

	upload := func(localPath string) (string, error) {
		if localPath == "" {
			return "", nil
		}

		if fileURL, ok := uploadedURLs[localPath]; ok {
			return fileURL, nil
		}

		errctx := cerr.Field("local_path", localPath)

		contents, err := os.ReadFile(localPath)
		if err != nil {
			return "", errctx.Wrap(err).Error("Failed to read artifact")
		}

		fileURL := j.pathGenerator.GeneratePath(jobID, filepath.Base(localPath))
		if err := j.fileStore.WriteFile(ctx, fileURL, contents); err != nil {
			return "", errctx.Field("file_url", fileURL).Wrap(err).Error("Failed to write artifact to the file store")
		}

		uploadedURLs[localPath] = fileURL
		return fileURL, nil
	}

	tracks := make([]transcriptionentity.Track, 0, len(result.Tracks))
	for _, track := range result.Tracks {
		audioURL, err := upload(track.AudioPath)
		if err != nil {
			return transcriptionentity.ProcessingResult{}, err
		}

		midiURL, err := upload(track.MIDIPath)
		if err != nil {
			return transcriptionentity.ProcessingResult{}, err
		}

		track.AudioPath = audioURL
		track.MIDIPath = midiURL
		tracks = append(tracks, track)
	}

	result.Tracks = tracks
	return result, nil
}

// inputExtension keeps the source extension so the loader can pick a
// decoder for it
func inputExtension(inputURL string) string {
	parsed, err := url.Parse(inputURL)
	if err != nil {
		return ""
	}

	ext := strings.ToLower(path.Ext(parsed.Path))
	if len(ext) < 2 || strings.ContainsAny(ext, `\/`) {
		return ""
	}

	return ext
}
