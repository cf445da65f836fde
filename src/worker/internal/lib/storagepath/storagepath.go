package storagepath

import (
	"fmt"
	"strings"
)

type Generator struct {
	Host   string
	Bucket string
}

// GeneratePath is the public URL of a job artifact:
// <host>/<bucket>/<jobID>/<leafPath>
func (g Generator) GeneratePath(jobID string, leafPath string) string {
	return fmt.Sprintf("%s/%s/%s/%s", strings.TrimSuffix(g.Host, "/"), g.Bucket, jobID, strings.TrimPrefix(leafPath, "/"))
}

// Owns reports whether a URL lives in this generator's bucket
func (g Generator) Owns(fileURL string) bool {
	return strings.HasPrefix(fileURL, fmt.Sprintf("%s/%s/", strings.TrimSuffix(g.Host, "/"), g.Bucket))
}
