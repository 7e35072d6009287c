package exiftool

import (
	"path/filepath"
	"testing"
)

func TestReadMissingFile(t *testing.T) {
	tags := Read(filepath.Join(t.TempDir(), "gone.jpg"))
	if tags == nil {
		t.Fatal("Read returned nil map")
	}
	if len(tags) != 0 {
		t.Errorf("tags = %v, want empty map", tags)
	}
}
