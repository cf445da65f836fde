package store

import (
	"context"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	cloudstorage "github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/cloud_storage/entity"
	"google.golang.org/api/option"
)

var _ cloudstorage.FileStore = GoogleFileStore{}

func NewGoogleFileStore(storageHost string, options ...option.ClientOption) (GoogleFileStore, error) {
	client, err := storage.NewClient(context.Background(), options...)
	if err != nil {
		return GoogleFileStore{}, cerr.Wrap(err).Error("Failed to create cloud storage client")
	}

	return GoogleFileStore{
		storageHost: strings.TrimSuffix(storageHost, "/"),
		client:      client,
	}, nil
}

type GoogleFileStore struct {
	storageHost string
	client      *storage.Client
}

type objectLocation struct {
	bucket string
	object string
}

// ParseURL splits <host>/<bucket>/<object path> into its bucket and object
func ParseURL(storageHost string, fileURL string) (bucket string, object string, err error) {
	errctx := cerr.Field("file_url", fileURL).Field("storage_host", storageHost)

	prefix := strings.TrimSuffix(storageHost, "/") + "/"
	if !strings.HasPrefix(fileURL, prefix) {
		return "", "", errctx.Error("URL is not on the storage host")
	}

	bucketAndObject := strings.TrimPrefix(fileURL, prefix)
	bucket, object, found := strings.Cut(bucketAndObject, "/")
	if !found || bucket == "" || object == "" {
		return "", "", errctx.Error("URL is missing a bucket or object path")
	}

	return bucket, object, nil
}

func (g GoogleFileStore) locate(fileURL string) (objectLocation, error) {
	bucket, object, err := ParseURL(g.storageHost, fileURL)
	if err != nil {
		return objectLocation{}, err
	}

	return objectLocation{bucket: bucket, object: object}, nil
}

func (g GoogleFileStore) GetFile(ctx context.Context, fileURL string) ([]byte, error) {
	errctx := cerr.Field("file_url", fileURL)

	location, err := g.locate(fileURL)
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to locate file")
	}

	reader, err := g.client.Bucket(location.bucket).Object(location.object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			err = errors.Mark(err, cloudstorage.ErrFileNotFound)
		}

		return nil, errctx.Wrap(err).Error("Failed to open file for reading")
	}

	defer reader.Close()

	contents, err := io.ReadAll(reader)
	if err != nil {
		return nil, errctx.Wrap(err).Error("Failed to read file")
	}

	return contents, nil
}

func (g GoogleFileStore) WriteFile(ctx context.Context, fileURL string, fileContent []byte) error {
	errctx := cerr.Field("file_url", fileURL)

	location, err := g.locate(fileURL)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to locate file")
	}

	log.WithFields(log.Fields{
		"bucket": location.bucket,
		"object": location.object,
		"bytes":  len(fileContent),
	}).Debug("Writing file to cloud storage")

	writer := g.client.Bucket(location.bucket).Object(location.object).NewWriter(ctx)

	if _, err = writer.Write(fileContent); err != nil {
		_ = writer.Close()
		return errctx.Wrap(err).Error("Failed to write file")
	}

	if err = writer.Close(); err != nil {
		return errctx.Wrap(err).Error("Failed to finalize file")
	}

	return nil
}
