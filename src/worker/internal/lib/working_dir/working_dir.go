package working_dir

import (
	"os"
	"path/filepath"

	"github.com/veedubyou/chord-paper-transcriber/src/shared/lib/cerr"
)

const tempDirName = "tmp"

func NewWorkingDir(root string) (WorkingDir, error) {
	errctx := cerr.Field("root", root)

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return WorkingDir{}, errctx.Wrap(err).Error("Failed to resolve working dir")
	}

	workingDir := WorkingDir{root: absRoot}
	if err := os.MkdirAll(workingDir.TempDir(), os.ModePerm); err != nil {
		return WorkingDir{}, errctx.Wrap(err).Error("Failed to create temp dir")
	}

	return workingDir, nil
}

type WorkingDir struct {
	root string
}

func (w WorkingDir) Root() string {
	return w.root
}

func (w WorkingDir) TempDir() string {
	return filepath.Join(w.root, tempDirName)
}

// JobDir makes a fresh directory for one job run. The returned func removes
// it along with everything the run wrote.
func (w WorkingDir) JobDir(jobID string) (string, func(), error) {
	dir, err := os.MkdirTemp(w.TempDir(), jobID+"-*")
	if err != nil {
		return "", nil, cerr.Field("job_id", jobID).Field("temp_dir", w.TempDir()).
			Wrap(err).Error("Failed to create job dir")
	}

	return dir, func() { _ = os.RemoveAll(dir) }, nil
}
