package cloudstorage

import (
	"context"

	"github.com/cockroachdb/errors"
)

var ErrFileNotFound = errors.New("File is not found")

// FileStore reads and writes whole objects addressed by their public URL
type FileStore interface {
	GetFile(ctx context.Context, fileURL string) ([]byte, error)
	WriteFile(ctx context.Context, fileURL string, fileContent []byte) error
}
