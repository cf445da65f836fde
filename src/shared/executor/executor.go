package executor

import (
	"os/exec"
)

type Executor interface {
	Command(name string, args ...string) Cmd
}

type Cmd interface {
	SetDir(dir string)
	CombinedOutput() ([]byte, error)
	Output() ([]byte, error)
}

var _ Executor = BinaryFileExecutor{}

type BinaryFileExecutor struct{}

func (BinaryFileExecutor) Command(name string, args ...string) Cmd {
	return &binaryCmd{cmd: exec.Command(name, args...)}
}

type binaryCmd struct {
	cmd *exec.Cmd
}

func (b *binaryCmd) SetDir(dir string) {
	b.cmd.Dir = dir
}

func (b *binaryCmd) CombinedOutput() ([]byte, error) {
	return b.cmd.CombinedOutput()
}

// Output returns stdout only. On failure the stderr of the process is
// reachable through the returned *exec.ExitError.
func (b *binaryCmd) Output() ([]byte, error) {
	return b.cmd.Output()
}

// Stderr extracts what a failed command wrote to stderr, if anything
func Stderr(err error) string {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return string(exitErr.Stderr)
	}

	return ""
}
