package separation

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/executor"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
)

const (
	DefaultDemucsModel = "htdemucs"
	demucsSampleRate   = 44100
)

var demucsStems = map[string][]string{
	"htdemucs":    {"drums", "bass", "other", "vocals"},
	"htdemucs_ft": {"drums", "bass", "other", "vocals"},
	"mdx_extra":   {"drums", "bass", "other", "vocals"},
	"htdemucs_6s": {"drums", "bass", "other", "vocals", "guitar", "piano"},
}

var _ Model = DemucsModel{}

type DemucsModel struct {
	binPath    string
	modelName  string
	scratchDir string
	executor   executor.Executor
}

func NewDemucsModel(binPath string, modelName string, scratchDir string, executor executor.Executor) (DemucsModel, error) {
	if modelName == "" {
		modelName = DefaultDemucsModel
	}

	if _, ok := demucsStems[modelName]; !ok {
		return DemucsModel{}, cerr.Field("model", modelName).Error("Unknown demucs model")
	}

	return DemucsModel{
		binPath:    binPath,
		modelName:  modelName,
		scratchDir: scratchDir,
		executor:   executor,
	}, nil
}

func (d DemucsModel) Name() string {
	return d.modelName
}

func (d DemucsModel) SampleRate() int {
	return demucsSampleRate
}

func (d DemucsModel) StemNames() []string {
	return demucsStems[d.modelName]
}

func (d DemucsModel) Separate(ctx context.Context, inputPath string, outputDir string) (map[string]string, error) {
	errctx := cerr.Field("input_path", inputPath).Field("output_dir", outputDir)

	// splitting is a lengthy process, if we want to halt now is the time
	if ctx.Err() != nil {
		return nil, errctx.Wrap(ctx.Err()).Error("Context cancelled before splitting could happen")
	}

	scratchDir, err := os.MkdirTemp(d.scratchDir, "demucs-*")
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to create demucs output dir")
	}
	defer os.RemoveAll(scratchDir)

	if err := d.run(inputPath, scratchDir); err != nil {
		return nil, errctx.Wrap(err).Error("Failed to execute demucs")
	}

	// demucs nests its output under the model name
	producedDir := filepath.Join(scratchDir, d.modelName)
	stemPaths := map[string]string{}

	for _, stem := range d.StemNames() {
		src := filepath.Join(producedDir, stem+".wav")
		dst := filepath.Join(outputDir, stem+".wav")

		if err := moveFile(src, dst); err != nil {
			return nil, errctx.Field("stem", stem).Wrap(err).Error("Failed to move stem into output dir")
		}

		absDst, err := filepath.Abs(dst)
		if err != nil {
			return nil, errctx.Field("stem_path", dst).
				Wrap(err).Error("Failed to convert stem path to absolute format")
		}

		stemPaths[stem] = absDst
	}

	return stemPaths, nil
}

func (d DemucsModel) run(sourcePath string, destPath string) error {
	logger := log.WithFields(log.Fields{
		"sourcePath": sourcePath,
		"destPath":   destPath,
		"model":      d.modelName,
	})

	logger.Info("Running demucs command")

	args := []string{"-n", d.modelName, "-o", destPath, "-d", "cpu", "--filename", "{stem}.{ext}", sourcePath}

	errctx := cerr.Field("demucs_bin_path", d.binPath).Field("demucs_args", args)

	cmd := d.executor.Command(d.binPath, args...)
	cmd.SetDir(destPath)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return errctx.Field("demucs_output", string(output)).
			Wrap(err).
			Error(fmt.Sprintf("Error occurred while running demucs: %s", string(output)))
	}

	logger.Debug(string(output))
	logger.Info("Finished demucs command")

	return nil
}

func moveFile(src string, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	// rename fails across devices, fall back to copying
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	if err := out.Close(); err != nil {
		return err
	}

	return os.Remove(src)
}
