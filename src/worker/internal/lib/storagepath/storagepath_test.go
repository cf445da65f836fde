package storagepath_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/lib/storagepath"
)

var _ = Describe("Generator", func() {
	generator := storagepath.Generator{Host: "https://storage.googleapis.com/", Bucket: "bucket-head"}

	It("nests artifacts under the job", func() {
		Expect(generator.GeneratePath("job-1", "vocals.mid")).
			To(Equal("https://storage.googleapis.com/bucket-head/job-1/vocals.mid"))
	})

	It("owns only its own bucket", func() {
		Expect(generator.Owns("https://storage.googleapis.com/bucket-head/job-1/vocals.mid")).To(BeTrue())
		Expect(generator.Owns("https://storage.googleapis.com/bucket-headless/x.mid")).To(BeFalse())
		Expect(generator.Owns("https://example.com/song.mp3")).To(BeFalse())
	})
})
