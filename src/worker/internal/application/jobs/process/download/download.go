package download

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/apex/log"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	cloudstorage "github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/cloud_storage/entity"
)

type Downloader interface {
	Download(ctx context.Context, sourceURL string, outFilePath string) error
}

var _ Downloader = FileStoreDLer{}

func NewFileStoreDLer(fileStore cloudstorage.FileStore) FileStoreDLer {
	return FileStoreDLer{fileStore: fileStore}
}

// FileStoreDLer fetches inputs that were uploaded to our own bucket
type FileStoreDLer struct {
	fileStore cloudstorage.FileStore
}

func (f FileStoreDLer) Download(ctx context.Context, sourceURL string, outFilePath string) error {
	errctx := cerr.Field("source_url", sourceURL)

	log.WithField("source_url", sourceURL).Info("Fetching input from file store")
	contents, err := f.fileStore.GetFile(ctx, sourceURL)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to get file from file store")
	}

	if err := os.WriteFile(outFilePath, contents, 0644); err != nil {
		return errctx.Field("out_file_path", outFilePath).Wrap(err).Error("Failed to write downloaded file")
	}

	return nil
}

var _ Downloader = GenericDLer{}

func NewGenericDLer(client *http.Client) GenericDLer {
	if client == nil {
		client = http.DefaultClient
	}

	return GenericDLer{client: client}
}

type GenericDLer struct {
	client *http.Client
}

func (g GenericDLer) Download(ctx context.Context, sourceURL string, outFilePath string) error {
	errctx := cerr.Field("source_url", sourceURL)

	log.WithField("source_url", sourceURL).Info("Downloading input over HTTP")
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to build download request")
	}

	response, err := g.client.Do(request)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to download file")
	}

	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return errctx.Field("status_code", response.StatusCode).Error("Download responded with a non-OK status")
	}

	outFile, err := os.Create(outFilePath)
	if err != nil {
		return errctx.Field("out_file_path", outFilePath).Wrap(err).Error("Failed to create output file")
	}

	defer outFile.Close()

	if _, err = io.Copy(outFile, response.Body); err != nil {
		return errctx.Wrap(err).Error("Failed to write response body to file")
	}

	return nil
}

var _ Downloader = SelectDLer{}

// Owner tells whether a URL lives in our own file store
type Owner interface {
	Owns(fileURL string) bool
}

func NewSelectDLer(owner Owner, fileStoreDLer FileStoreDLer, genericDLer GenericDLer) SelectDLer {
	return SelectDLer{
		owner:         owner,
		fileStoreDLer: fileStoreDLer,
		genericDLer:   genericDLer,
	}
}

type SelectDLer struct {
	owner         Owner
	fileStoreDLer FileStoreDLer
	genericDLer   GenericDLer
}

func (s SelectDLer) Download(ctx context.Context, sourceURL string, outFilePath string) error {
	if s.owner.Owns(sourceURL) {
		return s.fileStoreDLer.Download(ctx, sourceURL, outFilePath)
	}

	return s.genericDLer.Download(ctx, sourceURL, outFilePath)
}
