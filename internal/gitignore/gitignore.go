// Package gitignore asks git whether a file is ignored.
package gitignore

import (
	"bytes"
	"os/exec"
)

// IsIgnored reports whether git ignores the given file. It shells out to
// `git check-ignore`, which exits 0 only for ignored files, 1 for tracked
// or unignored files, and 128 outside a repository. Any failure, including
// a missing git binary or output on stderr, counts as not ignored.
func IsIgnored(path string) bool {
	cmd := exec.Command("git", "check-ignore", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if len(bytes.TrimSpace(stderr.Bytes())) > 0 {
		return false
	}
	return err == nil
}
