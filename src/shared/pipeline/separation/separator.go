package separation

import (
	"context"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/audio"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/executor"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/perr"
)

const DefaultMaxDuration = 300.0

type Stem struct {
	Name string
	Path string
}

// Separator is what Open hands out: an *Adapter when the model can run,
// Unavailable otherwise
type Separator interface {
	StemNames() []string
	Separate(ctx context.Context, inputPath string, outputDir string, maxDuration float64) ([]Stem, error)
}

var _ Separator = Unavailable{}

type Unavailable struct {
	Reason string
}

func (u Unavailable) StemNames() []string {
	return nil
}

func (u Unavailable) Separate(_ context.Context, _ string, _ string, _ float64) ([]Stem, error) {
	return nil, u.Err()
}

func (u Unavailable) Err() error {
	return errors.Mark(errors.Newf("Stem separation is unavailable: %s", u.Reason), perr.SeparationUnavailable)
}

func IsAvailable(separator Separator) bool {
	if separator == nil {
		return false
	}

	_, unavailable := separator.(Unavailable)
	return !unavailable
}

type DemucsConfig struct {
	BinPath    string
	ModelName  string
	ScratchDir string
}

// Open checks that demucs can be run and returns a Separator built on it
func Open(cfg DemucsConfig, loader audio.Loader, executor executor.Executor) Separator {
	binPath, ok := config.LookupBin(cfg.BinPath)
	if !ok {
		log.WithField("demucsBinPath", cfg.BinPath).Warn("Demucs binary not found, separation disabled")
		return Unavailable{Reason: "demucs binary not found at " + cfg.BinPath}
	}

	model, err := NewDemucsModel(binPath, cfg.ModelName, cfg.ScratchDir, executor)
	if err != nil {
		return Unavailable{Reason: err.Error()}
	}

	return NewAdapter(model, loader, cfg.ScratchDir)
}

var _ Separator = &Adapter{}

type Adapter struct {
	model      Model
	loader     audio.Loader
	scratchDir string
}

func NewAdapter(model Model, loader audio.Loader, scratchDir string) *Adapter {
	return &Adapter{
		model:      model,
		loader:     loader,
		scratchDir: scratchDir,
	}
}

func (a *Adapter) StemNames() []string {
	return a.model.StemNames()
}

// Separate returns every declared stem in declared order, or an error and
// no stems at all
func (a *Adapter) Separate(ctx context.Context, inputPath string, outputDir string, maxDuration float64) ([]Stem, error) {
	stems, err := a.separate(ctx, inputPath, outputDir, maxDuration)
	if err != nil {
		return nil, errors.Mark(err, perr.SeparationFailed)
	}

	return stems, nil
}

func (a *Adapter) separate(ctx context.Context, inputPath string, outputDir string, maxDuration float64) ([]Stem, error) {
	errctx := cerr.Fields(cerr.F{
		"input_path": inputPath,
		"output_dir": outputDir,
		"model":      a.model.Name(),
	})

	if maxDuration <= 0 {
		maxDuration = DefaultMaxDuration
	}

	buffer, err := a.loader.Load(ctx, inputPath, audio.LoadOptions{
		SampleRate:  a.model.SampleRate(),
		MaxDuration: maxDuration,
	})
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to load audio for separation")
	}

	if buffer.Channels == 1 {
		log.WithField("inputPath", inputPath).Info("Duplicating mono input to stereo for separation")
	}
	buffer = buffer.ToStereo()

	scratchDir, err := os.MkdirTemp(a.scratchDir, "separate-*")
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to create scratch dir")
	}
	defer os.RemoveAll(scratchDir)

	normalizedPath := filepath.Join(scratchDir, "input.wav")
	if err := audio.WriteWAV(normalizedPath, buffer); err != nil {
		return nil, errctx.Wrap(err).Error("Failed to write normalized input")
	}

	stemPaths, err := a.model.Separate(ctx, normalizedPath, outputDir)
	if err != nil {
		return nil, errctx.Wrap(err).Error("Separation model failed")
	}

	stems := []Stem{}
	for _, name := range a.model.StemNames() {
		path, ok := stemPaths[name]
		if !ok {
			return nil, errctx.Field("stem", name).Error("Separation model did not produce a declared stem")
		}

		if _, err := os.Stat(path); err != nil {
			return nil, errctx.Field("stem", name).Field("stem_path", path).
				Wrap(err).Error("Stem file is missing")
		}

		stems = append(stems, Stem{Name: name, Path: path})
	}

	return stems, nil
}
