// Package perr holds the failure taxonomy of a processing run. Errors are
// attached with errors.Mark and recognized with errors.Is.
package perr

import "github.com/cockroachdb/errors"

var (
	// fatal
	InputNotFound         = errors.New("input file not found")
	OutputDirUnusable     = errors.New("output directory cannot be created")
	SeparationUnavailable = errors.New("stem separation is unavailable")
	SeparationFailed      = errors.New("stem separation failed")

	// recorded and skipped
	TranscriptionFailed = errors.New("transcription failed")
	ClassificationError = errors.New("instrument classification failed")
	SilenceCheckError   = errors.New("silence check failed")
)

func IsFatal(err error) bool {
	return errors.IsAny(err, InputNotFound, OutputDirUnusable, SeparationUnavailable, SeparationFailed)
}
