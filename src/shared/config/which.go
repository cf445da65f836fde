package config

import "os/exec"

// LookupBin resolves an optional binary. Callers decide what a missing
// binary means for them.
func LookupBin(bin string) (string, bool) {
	if bin == "" {
		return "", false
	}

	binPath, err := exec.LookPath(bin)
	if err != nil {
		return "", false
	}

	return binPath, true
}
