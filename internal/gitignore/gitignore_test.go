package gitignore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsIgnoredOutsideRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.jpg")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if IsIgnored(path) {
		t.Error("file outside a repository reported as ignored")
	}
}

func TestIsIgnoredMissingFile(t *testing.T) {
	if IsIgnored(filepath.Join(t.TempDir(), "gone.jpg")) {
		t.Error("missing file reported as ignored")
	}
}
