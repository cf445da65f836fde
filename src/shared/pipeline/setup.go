package pipeline

import (
	"os"

	"github.com/apex/log"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/audio"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/executor"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/classify"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/separation"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/silence"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/transcription"
)

// Components are the pieces an entry point needs, built from one config
type Components struct {
	Orchestrator Orchestrator
	Transcriber  transcription.Adapter
	Separator    separation.Separator
	Loader       audio.Loader
}

func ParamsFromConfig(cfg config.Pipeline) transcription.Params {
	params := transcription.DefaultParams()
	params.OnsetThreshold = cfg.OnsetThreshold
	params.FrameThreshold = cfg.FrameThreshold
	params.MinNoteLength = cfg.MinNoteLength
	params.MelodiaTrick = cfg.MelodiaTrick
	return params
}

func Build(cfg config.Pipeline, executor executor.Executor, tracer Tracer) (Components, error) {
	errctx := cerr.Field("working_dir", cfg.WorkingDirPath)

	if err := os.MkdirAll(cfg.WorkingDirPath, os.ModePerm); err != nil {
		return Components{}, errctx.Wrap(err).Error("Failed to create working dir")
	}

	basicPitchBinPath, ok := config.LookupBin(cfg.BasicPitchBinPath)
	if !ok {
		return Components{}, errctx.Field("basic_pitch_bin_path", cfg.BasicPitchBinPath).
			Error("basic-pitch binary not found")
	}

	var ffmpegLoader audio.Loader
	ffmpegBinPath, ffmpegFound := config.LookupBin(cfg.FFmpegBinPath)
	ffprobeBinPath, ffprobeFound := config.LookupBin(cfg.FFprobeBinPath)
	if ffmpegFound && ffprobeFound {
		ffmpegLoader = audio.NewFFmpegLoader(ffmpegBinPath, ffprobeBinPath, executor)
	} else {
		log.WithField("ffmpegBinPath", cfg.FFmpegBinPath).Warn("ffmpeg not found, only WAV input can be decoded")
	}

	loader := audio.NewSelectLoader(audio.WAVLoader{}, ffmpegLoader)

	transcriber := transcription.NewAdapter(
		transcription.NewBasicPitchModel(basicPitchBinPath, cfg.WorkingDirPath, executor),
		loader,
		cfg.WorkingDirPath,
	)

	separator := separation.Open(separation.DemucsConfig{
		BinPath:    cfg.DemucsBinPath,
		ModelName:  cfg.DemucsModel,
		ScratchDir: cfg.WorkingDirPath,
	}, loader, executor)

	orchestrator := NewOrchestrator(
		transcriber,
		separator,
		silence.NewFilter(loader),
		classify.NewClassifier(loader),
		tracer,
		Options{
			Params:      ParamsFromConfig(cfg),
			StemWorkers: cfg.TranscribeWorkers,
		},
	)

	return Components{
		Orchestrator: orchestrator,
		Transcriber:  transcriber,
		Separator:    separator,
		Loader:       loader,
	}, nil
}
