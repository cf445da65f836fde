package pipeline_test

import (
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/pipeline/transcription"
	transcriptionentity "github.com/veedubyou/chord-paper-transcriber/src/shared/transcription/entity"
)

func succeeded(stem string, instrument string, notes ...transcriptionentity.Note) pipeline.Outcome {
	return pipeline.Outcome{
		Stem:      stem,
		AudioPath: stem + ".wav",
		Result: transcription.Result{
			Success:    true,
			Instrument: instrument,
			MIDIPath:   stem + ".mid",
			Notes:      notes,
		},
	}
}

func failed(stem string) pipeline.Outcome {
	return pipeline.Outcome{
		Stem:   stem,
		Result: transcription.Result{Success: false, Instrument: stem, Err: errors.New("boom")},
	}
}

var _ = Describe("Aggregate", func() {
	It("puts the original first and keeps the stem order", func() {
		original := succeeded("original", "transcribed")
		result := pipeline.Aggregate(&original, []pipeline.Outcome{
			succeeded("vocals", "vocals"),
			succeeded("drums", "drums"),
		})

		Expect(result.Success).To(BeTrue())
		Expect(result.Error).To(BeNil())
		Expect(stemOrder(result)).To(Equal([]string{"original", "vocals", "drums"}))
	})

	It("leaves out failed outcomes", func() {
		original := failed("original")
		result := pipeline.Aggregate(&original, []pipeline.Outcome{
			failed("drums"),
			succeeded("bass", "bass"),
		})

		Expect(stemOrder(result)).To(Equal([]string{"bass"}))
	})

	It("counts notes and never reports nil notes", func() {
		note := transcriptionentity.Note{Pitch: 40, Start: 0, Duration: 1, Velocity: 0.3}
		result := pipeline.Aggregate(nil, []pipeline.Outcome{
			succeeded("bass", "bass", note, note),
			succeeded("drums", "drums"),
		})

		Expect(result.Tracks[0].NoteCount).To(Equal(2))
		Expect(result.Tracks[1].Notes).NotTo(BeNil())
		Expect(result.Tracks[1].NoteCount).To(Equal(0))
	})

	It("is unsuccessful with no tracks but not an error", func() {
		result := pipeline.Aggregate(nil, nil)
		Expect(result.Success).To(BeFalse())
		Expect(result.Tracks).To(BeEmpty())
		Expect(result.Error).To(BeNil())
	})
})

var _ = Describe("InstrumentFor", func() {
	It("relabels the residual stem only", func() {
		Expect(pipeline.InstrumentFor("other")).To(Equal("transcribed"))
		Expect(pipeline.InstrumentFor("vocals")).To(Equal("vocals"))
		Expect(pipeline.InstrumentFor("guitar")).To(Equal("guitar"))
	})
})
