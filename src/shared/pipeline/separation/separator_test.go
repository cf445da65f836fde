package separation_test

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/audio"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/executor/dummy"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/perr"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/separation"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/separation/separationfakes"
	. "github.com/veedubyou/chord-paper-transcriber/src/shared/testing"
)

var stemNames = []string{"drums", "bass", "other", "vocals"}

// writeStems plays the model: every declared stem lands in the output dir
func writeStems(names []string) func(context.Context, string, string) (map[string]string, error) {
	return func(_ context.Context, _ string, outputDir string) (map[string]string, error) {
		paths := map[string]string{}
		for _, name := range names {
			paths[name] = WriteFixture(outputDir, name+".wav", Tone(220, 0.5, 0.3, 2))
		}
		return paths, nil
	}
}

var _ = Describe("Separator", func() {
	var (
		dir       string
		outputDir string
		inputPath string
		model     *separationfakes.FakeModel
		adapter   *separation.Adapter
	)

	BeforeEach(func() {
		dir = TempDir()
		outputDir = filepath.Join(dir, "out")
		Expect(os.MkdirAll(outputDir, os.ModePerm)).To(Succeed())

		inputPath = WriteFixture(dir, "song.wav", Tone(440, 2, 0.5, 1))

		model = &separationfakes.FakeModel{}
		model.NameReturns("fake")
		model.SampleRateReturns(44100)
		model.StemNamesReturns(stemNames)
		model.SeparateStub = writeStems(stemNames)

		adapter = separation.NewAdapter(model, audio.WAVLoader{}, dir)
	})

	It("returns the stems in declared order", func() {
		stems, err := adapter.Separate(context.Background(), inputPath, outputDir, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(stems).To(HaveLen(4))

		for i, stem := range stems {
			Expect(stem.Name).To(Equal(stemNames[i]))
			Expect(stem.Path).To(Equal(filepath.Join(outputDir, stemNames[i]+".wav")))
		}
	})

	It("feeds the model stereo audio at its own rate", func() {
		var received audio.Buffer
		model.SeparateStub = func(ctx context.Context, inputPath string, outputDir string) (map[string]string, error) {
			received = ExpectSuccess(audio.WAVLoader{}.Load(ctx, inputPath, audio.LoadOptions{}))
			return writeStems(stemNames)(ctx, inputPath, outputDir)
		}

		_, err := adapter.Separate(context.Background(), inputPath, outputDir, 0)
		Expect(err).NotTo(HaveOccurred())

		By("duplicating the mono input onto both channels")
		Expect(received.Channels).To(Equal(2))
		for i := 0; i < received.Frames(); i += 1000 {
			Expect(received.Samples[2*i]).To(Equal(received.Samples[2*i+1]))
		}

		By("resampling to the model rate")
		Expect(received.SampleRate).To(Equal(44100))
		Expect(received.Duration()).To(BeNumerically("~", 2, 0.01))
	})

	It("only loads up to the duration cap", func() {
		var duration float64
		model.SeparateStub = func(ctx context.Context, inputPath string, outputDir string) (map[string]string, error) {
			duration = ExpectSuccess(audio.WAVLoader{}.Load(ctx, inputPath, audio.LoadOptions{})).Duration()
			return writeStems(stemNames)(ctx, inputPath, outputDir)
		}

		_, err := adapter.Separate(context.Background(), inputPath, outputDir, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(duration).To(BeNumerically("~", 1, 0.01))
	})

	Describe("failures", func() {
		expectFailure := func(stems []separation.Stem, err error) {
			ExpectWithOffset(1, err).To(HaveOccurred())
			ExpectWithOffset(1, stems).To(BeNil())
			ExpectWithOffset(1, errors.Is(err, perr.SeparationFailed)).To(BeTrue())
			ExpectWithOffset(1, perr.IsFatal(err)).To(BeTrue())
		}

		It("fails when the model fails", func() {
			model.SeparateStub = nil
			model.SeparateReturns(nil, errors.New("out of memory"))

			stems, err := adapter.Separate(context.Background(), inputPath, outputDir, 0)
			expectFailure(stems, err)
			Expect(err.Error()).To(ContainSubstring("out of memory"))
		})

		It("fails without partial stems when a declared stem is missing", func() {
			model.SeparateStub = writeStems([]string{"drums", "bass", "other"})
			expectFailure(adapter.Separate(context.Background(), inputPath, outputDir, 0))
		})

		It("fails when a reported stem file doesn't exist", func() {
			model.SeparateStub = nil
			model.SeparateReturns(map[string]string{
				"drums":  filepath.Join(outputDir, "drums.wav"),
				"bass":   filepath.Join(outputDir, "bass.wav"),
				"other":  filepath.Join(outputDir, "other.wav"),
				"vocals": filepath.Join(outputDir, "vocals.wav"),
			}, nil)
			expectFailure(adapter.Separate(context.Background(), inputPath, outputDir, 0))
		})

		It("fails when the input can't be read", func() {
			expectFailure(adapter.Separate(context.Background(), filepath.Join(dir, "missing.wav"), outputDir, 0))
			Expect(model.SeparateCallCount()).To(Equal(0))
		})
	})

	Describe("Unavailable", func() {
		It("fails every separation with an unavailability error", func() {
			var separator separation.Separator = separation.Unavailable{Reason: "demucs binary not found"}

			stems, err := separator.Separate(context.Background(), inputPath, outputDir, 0)
			Expect(stems).To(BeNil())
			Expect(errors.Is(err, perr.SeparationUnavailable)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("separation"))
			Expect(err.Error()).To(ContainSubstring("demucs binary not found"))

			Expect(separation.IsAvailable(separator)).To(BeFalse())
			Expect(separation.IsAvailable(adapter)).To(BeTrue())
		})
	})

	Describe("Open", func() {
		It("is unavailable when demucs can't be found", func() {
			separator := separation.Open(separation.DemucsConfig{
				BinPath:    filepath.Join(dir, "no-such-demucs"),
				ModelName:  "htdemucs",
				ScratchDir: dir,
			}, audio.WAVLoader{}, dummy.NewExecutor(nil))

			Expect(separator).To(BeAssignableToTypeOf(separation.Unavailable{}))
			Expect(separation.IsAvailable(separator)).To(BeFalse())
		})
	})
})
