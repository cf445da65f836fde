package download_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/config/prod"
	. "github.com/veedubyou/chord-paper-transcriber/src/shared/testing"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/integration_test/dummy"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/jobs/process/download"
	"github.com/veedubyou/chord-paper-transcriber/src/worker/internal/lib/storagepath"
)

var _ = Describe("Download", func() {
	var (
		server        *httptest.Server
		fileStore     *dummy.FileStore
		pathGenerator storagepath.Generator
		selectDLer    download.SelectDLer
		outFilePath   string
	)

	BeforeEach(func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/song.mp3" {
				w.WriteHeader(http.StatusNotFound)
				return
			}

			_, _ = w.Write([]byte("from-the-web"))
		}))

		fileStore = dummy.NewDummyFileStore()
		pathGenerator = storagepath.Generator{Host: prod.GOOGLE_STORAGE_HOST, Bucket: "bucket-head"}
		selectDLer = download.NewSelectDLer(
			pathGenerator,
			download.NewFileStoreDLer(fileStore),
			download.NewGenericDLer(server.Client()),
		)

		outFilePath = filepath.Join(TempDir(), "input.mp3")
	})

	AfterEach(func() {
		server.Close()
	})

	It("downloads other URLs over HTTP", func() {
		Expect(selectDLer.Download(context.Background(), server.URL+"/song.mp3", outFilePath)).To(Succeed())

		contents, err := os.ReadFile(outFilePath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(contents)).To(Equal("from-the-web"))
	})

	It("fails on a non-OK response", func() {
		err := selectDLer.Download(context.Background(), server.URL+"/missing.mp3", outFilePath)
		Expect(err).To(HaveOccurred())
	})

	It("reads our own URLs from the file store", func() {
		fileURL := pathGenerator.GeneratePath("uploads", "song.mp3")
		Expect(fileStore.WriteFile(context.Background(), fileURL, []byte("from-the-bucket"))).To(Succeed())

		Expect(selectDLer.Download(context.Background(), fileURL, outFilePath)).To(Succeed())

		contents, err := os.ReadFile(outFilePath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(contents)).To(Equal("from-the-bucket"))
	})

	It("fails when the file store is down", func() {
		fileStore.Unavailable = true
		fileURL := pathGenerator.GeneratePath("uploads", "song.mp3")

		Expect(selectDLer.Download(context.Background(), fileURL, outFilePath)).NotTo(Succeed())
	})
})
