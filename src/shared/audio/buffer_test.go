package audio_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/audio"
)

var _ = Describe("Buffer", func() {
	stereo := audio.Buffer{
		SampleRate: 4,
		Channels:   2,
		Samples:    []float32{0, 1, 0.5, 0.5, 1, 0, -1, 1},
	}

	It("measures frames and duration", func() {
		Expect(stereo.Frames()).To(Equal(4))
		Expect(stereo.Duration()).To(Equal(1.0))
	})

	It("validates its shape", func() {
		Expect(stereo.Validate()).To(Succeed())
		Expect(audio.Buffer{SampleRate: 0, Channels: 1}.Validate()).NotTo(Succeed())
		Expect(audio.Buffer{SampleRate: 10, Channels: 3}.Validate()).NotTo(Succeed())
		Expect(audio.Buffer{SampleRate: 10, Channels: 2, Samples: []float32{1}}.Validate()).NotTo(Succeed())
	})

	Describe("Head", func() {
		It("keeps the first seconds", func() {
			head := stereo.Head(0.5)
			Expect(head.Frames()).To(Equal(2))
			Expect(head.Samples).To(Equal([]float32{0, 1, 0.5, 0.5}))
		})

		It("keeps everything when the cap is longer", func() {
			Expect(stereo.Head(10).Frames()).To(Equal(4))
			Expect(stereo.Head(0).Frames()).To(Equal(4))
		})
	})

	It("averages channels into mono", func() {
		Expect(stereo.Mono()).To(Equal([]float64{0.5, 0.5, 0.5, 0}))

		mono := stereo.ToMono()
		Expect(mono.Channels).To(Equal(1))
		Expect(mono.Samples).To(Equal([]float32{0.5, 0.5, 0.5, 0}))
	})

	It("duplicates mono onto two channels", func() {
		mono := audio.Buffer{SampleRate: 4, Channels: 1, Samples: []float32{0.25, -0.25}}

		widened := mono.ToStereo()
		Expect(widened.Channels).To(Equal(2))
		Expect(widened.Samples).To(Equal([]float32{0.25, 0.25, -0.25, -0.25}))
		Expect(stereo.ToStereo()).To(Equal(stereo))
	})

	Describe("Resample", func() {
		It("halves the frame count when halving the rate", func() {
			mono := audio.Buffer{SampleRate: 8, Channels: 1, Samples: []float32{0, 1, 2, 3, 4, 5, 6, 7}}

			resampled := mono.Resample(4)
			Expect(resampled.SampleRate).To(Equal(4))
			Expect(resampled.Samples).To(Equal([]float32{0, 2, 4, 6}))
		})

		It("interpolates when raising the rate", func() {
			mono := audio.Buffer{SampleRate: 2, Channels: 1, Samples: []float32{0, 1}}

			resampled := mono.Resample(4)
			Expect(resampled.Samples).To(Equal([]float32{0, 0.5, 1, 1}))
		})

		It("leaves the buffer alone at the same rate", func() {
			Expect(stereo.Resample(4)).To(Equal(stereo))
		})
	})
})
