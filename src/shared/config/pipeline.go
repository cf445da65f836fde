package config

import (
	"github.com/cockroachdb/errors"
	"github.com/kelseyhightower/envconfig"
)

const pipelineEnvPrefix = "transcriber"

const DefaultWorkingDirPath = "wd"

// Pipeline holds the tunables of a processing run. Every field can be
// overridden with TRANSCRIBER_<ENVCONFIG TAG>.
type Pipeline struct {
	FFmpegBinPath     string  `envconfig:"FFMPEG_BIN_PATH" default:"ffmpeg"`
	FFprobeBinPath    string  `envconfig:"FFPROBE_BIN_PATH" default:"ffprobe"`
	DemucsBinPath     string  `envconfig:"DEMUCS_BIN_PATH" default:"demucs"`
	DemucsModel       string  `envconfig:"DEMUCS_MODEL" default:"htdemucs"`
	BasicPitchBinPath string  `envconfig:"BASIC_PITCH_BIN_PATH" default:"basic-pitch"`
	WorkingDirPath    string  `envconfig:"WORKING_DIR_PATH" default:"wd"`
	MaxDuration       float64 `envconfig:"MAX_DURATION_SECONDS" default:"300"`
	TranscribeWorkers int     `envconfig:"TRANSCRIBE_WORKERS" default:"1"`

	OnsetThreshold float64 `envconfig:"ONSET_THRESHOLD" default:"0.5"`
	FrameThreshold float64 `envconfig:"FRAME_THRESHOLD" default:"0.3"`
	MinNoteLength  float64 `envconfig:"MIN_NOTE_LENGTH" default:"0.127"`
	MelodiaTrick   bool    `envconfig:"MELODIA_TRICK" default:"true"`
}

func LoadPipeline() (Pipeline, error) {
	cfg := Pipeline{}
	if err := envconfig.Process(pipelineEnvPrefix, &cfg); err != nil {
		return Pipeline{}, errors.Wrap(err, "Failed to process pipeline config from env")
	}

	if cfg.MaxDuration <= 0 {
		return Pipeline{}, errors.Newf("Max duration must be positive, got %v", cfg.MaxDuration)
	}

	if cfg.TranscribeWorkers < 1 {
		cfg.TranscribeWorkers = 1
	}

	return cfg, nil
}
