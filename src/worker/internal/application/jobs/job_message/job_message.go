package job_message

import (
	"encoding/json"

	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
)

type JobIdentifier struct {
	JobID string `json:"job_id"`
}

// ParseJobIdentifier reads just the job ID out of any job message
func ParseJobIdentifier(message []byte) (JobIdentifier, error) {
	identifier := JobIdentifier{}
	if err := json.Unmarshal(message, &identifier); err != nil {
		return JobIdentifier{}, cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	if identifier.JobID == "" {
		return JobIdentifier{}, cerr.Error("Missing job ID")
	}

	return identifier, nil
}
