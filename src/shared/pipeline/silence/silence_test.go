package silence_test

import (
	"context"
	"math"

	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/audio"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/perr"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/silence"
)

type stubLoader struct {
	buffer   audio.Buffer
	err      error
	lastOpts audio.LoadOptions
}

func (s *stubLoader) Load(_ context.Context, _ string, opts audio.LoadOptions) (audio.Buffer, error) {
	s.lastOpts = opts
	return s.buffer, s.err
}

func constant(value float32, seconds float64) audio.Buffer {
	samples := make([]float32, int(seconds*silence.AnalysisSampleRate))
	for i := range samples {
		samples[i] = value
	}

	return audio.Buffer{SampleRate: silence.AnalysisSampleRate, Channels: 1, Samples: samples}
}

var _ = Describe("Silence", func() {
	Describe("Check", func() {
		It("reports digital silence as silent", func() {
			decision := silence.Check(constant(0, 1))
			Expect(decision.Silent).To(BeTrue())
			Expect(decision.Peak).To(BeZero())
			Expect(decision.RMS).To(BeZero())
		})

		It("reports a peak just under the threshold as silent", func() {
			decision := silence.Check(constant(0.0009, 1))
			Expect(decision.Silent).To(BeTrue())
		})

		It("keeps a quiet but real signal", func() {
			decision := silence.Check(constant(-0.002, 1))
			Expect(decision.Silent).To(BeFalse())
			Expect(decision.Peak).To(BeNumerically("~", 0.002, 1e-6))
			Expect(decision.RMS).To(BeNumerically("~", 0.002, 1e-6))
		})

		It("uses the peak rather than the RMS", func() {
			buffer := constant(0, 1)
			buffer.Samples[100] = 0.01

			decision := silence.Check(buffer)
			Expect(decision.Silent).To(BeFalse())
			Expect(decision.Peak).To(BeNumerically("~", 0.01, 1e-6))
			Expect(decision.RMS).To(BeNumerically("<", silence.Threshold))
		})

		It("treats an empty buffer as silent", func() {
			decision := silence.Check(audio.Buffer{SampleRate: 22050, Channels: 1})
			Expect(decision.Silent).To(BeTrue())
			Expect(math.IsNaN(decision.RMS)).To(BeFalse())
		})
	})

	Describe("Filter", func() {
		var (
			loader *stubLoader
			filter silence.Filter
		)

		BeforeEach(func() {
			loader = &stubLoader{}
			filter = silence.NewFilter(loader)
		})

		It("only asks for the first five seconds", func() {
			loader.buffer = constant(0, 5)
			Expect(filter.IsSilent(context.Background(), "vocals.wav")).To(BeTrue())
			Expect(loader.lastOpts.MaxDuration).To(Equal(silence.Window))
		})

		It("ignores signal past the window", func() {
			buffer := constant(0, 8)
			buffer.Samples[len(buffer.Samples)-1] = 1

			loader.buffer = buffer
			Expect(filter.IsSilent(context.Background(), "vocals.wav")).To(BeTrue())
		})

		Context("when the stem can't be read", func() {
			BeforeEach(func() {
				loader.err = errors.New("corrupt file")
			})

			It("keeps the stem", func() {
				Expect(filter.IsSilent(context.Background(), "vocals.wav")).To(BeFalse())
			})

			It("marks the inspection error", func() {
				_, err := filter.Inspect(context.Background(), "vocals.wav")
				Expect(err).To(HaveOccurred())
				Expect(errors.Is(err, perr.SilenceCheckError)).To(BeTrue())
				Expect(perr.IsFatal(err)).To(BeFalse())
			})
		})
	})
})
