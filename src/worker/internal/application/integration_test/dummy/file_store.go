package dummy

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
	cloudstorage "github.com/veedubyou/chord-paper-transcriber/src/worker/internal/application/cloud_storage/entity"
)

var NetworkFailure = errors.New("Dummy network failure")

var _ cloudstorage.FileStore = &FileStore{}

func NewDummyFileStore() *FileStore {
	return &FileStore{
		Unavailable: false,
		Files:       make(map[string][]byte),
	}
}

type FileStore struct {
	Unavailable bool
	Files       map[string][]byte
	mutex       sync.RWMutex
}

func (f *FileStore) GetFile(_ context.Context, fileURL string) ([]byte, error) {
	if f.Unavailable {
		return nil, NetworkFailure
	}

	f.mutex.RLock()
	defer f.mutex.RUnlock()

	contents, ok := f.Files[fileURL]
	if !ok {
		return nil, cerr.Field("file_url", fileURL).Wrap(cloudstorage.ErrFileNotFound).Error("File is not found")
	}

	return contents, nil
}

func (f *FileStore) WriteFile(_ context.Context, fileURL string, fileContent []byte) error {
	if f.Unavailable {
		return NetworkFailure
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.Files[fileURL] = append([]byte(nil), fileContent...)
	return nil
}

func (f *FileStore) URLs() []string {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	urls := []string{}
	for url := range f.Files {
		urls = append(urls, url)
	}

	return urls
}
