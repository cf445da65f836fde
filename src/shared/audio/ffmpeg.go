package audio

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/executor"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
)

var _ Loader = FFmpegLoader{}

// FFmpegLoader decodes any container ffmpeg understands into 32 bit float
// PCM over a pipe
type FFmpegLoader struct {
	ffmpegBinPath  string
	ffprobeBinPath string
	executor       executor.Executor
}

func NewFFmpegLoader(ffmpegBinPath string, ffprobeBinPath string, executor executor.Executor) FFmpegLoader {
	return FFmpegLoader{
		ffmpegBinPath:  ffmpegBinPath,
		ffprobeBinPath: ffprobeBinPath,
		executor:       executor,
	}
}

type streamInfo struct {
	sampleRate int
	channels   int
}

func (f FFmpegLoader) Load(ctx context.Context, path string, opts LoadOptions) (Buffer, error) {
	errctx := cerr.Field("path", path)

	if ctx.Err() != nil {
		return Buffer{}, errctx.Wrap(ctx.Err()).Error("Context cancelled before decoding")
	}

	info, err := f.probe(path)
	if err != nil {
		return Buffer{}, errctx.Wrap(err).Error("Failed to probe audio stream")
	}

	channels := opts.Channels
	if channels == 0 {
		channels = int(math.Min(float64(info.channels), 2))
	}

	sampleRate := opts.SampleRate
	if sampleRate == 0 {
		sampleRate = info.sampleRate
	}

	args := []string{"-hide_banner", "-v", "error", "-i", path}
	if opts.MaxDuration > 0 {
		args = append(args, "-t", strconv.FormatFloat(opts.MaxDuration, 'f', -1, 64))
	}
	args = append(args,
		"-ac", strconv.Itoa(channels),
		"-ar", strconv.Itoa(sampleRate),
		"-f", "f32le",
		"pipe:1",
	)

	errctx = errctx.Field("ffmpeg_args", args)
	log.WithFields(log.Fields{
		"path":        path,
		"channels":    channels,
		"sampleRate":  sampleRate,
		"maxDuration": opts.MaxDuration,
	}).Debug("Decoding audio with ffmpeg")

	output, err := f.executor.Command(f.ffmpegBinPath, args...).Output()
	if err != nil {
		return Buffer{}, errctx.Field("ffmpeg_stderr", executor.Stderr(err)).
			Wrap(err).Error("Failed to decode audio with ffmpeg")
	}

	if len(output)%4 != 0 {
		return Buffer{}, errctx.Field("byte_length", len(output)).
			Error("ffmpeg returned a partial sample")
	}

	samples := make([]float32, len(output)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(output[i*4:]))
	}
	samples = samples[:len(samples)-len(samples)%channels]

	return Buffer{
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    samples,
	}, nil
}

func (f FFmpegLoader) probe(path string) (streamInfo, error) {
	args := []string{
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=sample_rate,channels",
		"-of", "default=noprint_wrappers=1",
		path,
	}

	errctx := cerr.Field("ffprobe_args", args)

	output, err := f.executor.Command(f.ffprobeBinPath, args...).Output()
	if err != nil {
		return streamInfo{}, errctx.Field("ffprobe_stderr", executor.Stderr(err)).
			Wrap(err).Error("ffprobe failed")
	}

	info := streamInfo{}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		key, value, found := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !found {
			continue
		}

		number, err := strconv.Atoi(value)
		if err != nil {
			continue
		}

		switch key {
		case "sample_rate":
			info.sampleRate = number
		case "channels":
			info.channels = number
		}
	}

	if info.sampleRate <= 0 || info.channels <= 0 {
		return streamInfo{}, errctx.Field("ffprobe_output", string(output)).
			Error("No audio stream found")
	}

	return info, nil
}
