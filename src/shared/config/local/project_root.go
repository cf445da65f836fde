package local

import (
	"path"
	"runtime"
	"strings"
)

const thisFile = "/src/shared/config/local/project_root.go"

func ProjectRoot() string {
	_, filePath, _, ok := runtime.Caller(0)

	if !ok {
		panic("Failed to call runtime.Caller")
	}

	if !strings.HasSuffix(filePath, thisFile) {
		panic("project_root.go has moved, update thisFile")
	}

	return strings.TrimSuffix(filePath, thisFile)
}

// WorkingDir is where a local process keeps scratch files for a component,
// e.g. WorkingDir("worker") -> <root>/src/worker/wd
func WorkingDir(component string) string {
	return path.Join(ProjectRoot(), "src", component, "wd")
}

// OutputRoot is where a local process keeps what it serves back,
// e.g. OutputRoot("server") -> <root>/src/server/output
func OutputRoot(component string) string {
	return path.Join(ProjectRoot(), "src", component, "output")
}
