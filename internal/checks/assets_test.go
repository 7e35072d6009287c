package checks

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeAsset(t *testing.T, dir, name string, size int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}
	return path
}

func bundleDoc(t *testing.T, dir string) *Document {
	t.Helper()
	content := posting("title: t", "body\n")
	path := filepath.Join(dir, "index.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write posting: %v", err)
	}
	doc := newDoc(t, content)
	doc.Path = path
	return doc
}

func neverIgnored(string) bool { return false }

func TestImageSize(t *testing.T) {
	dir := t.TempDir()
	doc := bundleDoc(t, dir)
	big := writeAsset(t, dir, "big.jpg", 2048)
	writeAsset(t, dir, "small.jpg", 16)

	rep := &Report{}
	c := ImageSize{MaxBytes: 1024, Ignored: neverIgnored}
	if _, err := c.Apply(doc, rep); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	lines := rep.Lines()
	if len(lines) != 3 {
		t.Fatalf("diagnostics = %v", lines)
	}
	if lines[0] != "Found large images, either resize them or:" {
		t.Errorf("message = %q", lines[0])
	}
	if lines[1] != "  Use 'skip_image_size' to suppress this warning" {
		t.Errorf("hint = %q", lines[1])
	}
	if lines[2] != "  Large file: "+big {
		t.Errorf("file line = %q", lines[2])
	}
}

func TestImageSizeIgnoredFiles(t *testing.T) {
	dir := t.TempDir()
	doc := bundleDoc(t, dir)
	writeAsset(t, dir, "big.jpg", 2048)

	rep := &Report{}
	c := ImageSize{MaxBytes: 1024, Ignored: func(string) bool { return true }}
	if _, err := c.Apply(doc, rep); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !rep.Empty() {
		t.Errorf("ignored file flagged: %v", rep.Lines())
	}
}

func TestImageExifTagsForbidden(t *testing.T) {
	dir := t.TempDir()
	doc := bundleDoc(t, dir)
	photo := writeAsset(t, dir, "photo.jpg", 16)
	writeAsset(t, dir, "notes.txt", 16)

	readExif := func(path string) map[string]any {
		if path == photo {
			return map[string]any{"GPSLatitude": "1.0", "GPSLongitude": "2.0", "Model": "cam"}
		}
		t.Errorf("exif read for non-image file: %s", path)
		return map[string]any{}
	}

	rep := &Report{}
	c := ImageExifTagsForbidden{
		ForbiddenTags: []string{"GPSLatitude", "GPSLongitude", "SerialNumber"},
		Ignored:       neverIgnored,
		ReadExif:      readExif,
	}
	if _, err := c.Apply(doc, rep); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	lines := rep.Lines()
	if len(lines) != 4 {
		t.Fatalf("diagnostics = %v", lines)
	}
	if lines[0] != "Found forbidden EXIF tags in images, either remove them or:" {
		t.Errorf("message = %q", lines[0])
	}
	if lines[2] != "  Image file: "+photo {
		t.Errorf("file line = %q", lines[2])
	}
	if lines[3] != "  EXIF tags: GPSLatitude, GPSLongitude" {
		t.Errorf("tags line = %q", lines[3])
	}
}

func TestImageExifTagsClean(t *testing.T) {
	dir := t.TempDir()
	doc := bundleDoc(t, dir)
	writeAsset(t, dir, "photo.jpg", 16)

	rep := &Report{}
	c := ImageExifTagsForbidden{
		ForbiddenTags: []string{"GPSLatitude"},
		Ignored:       neverIgnored,
		ReadExif:      func(string) map[string]any { return map[string]any{"Model": "cam"} },
	}
	if _, err := c.Apply(doc, rep); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !rep.Empty() {
		t.Errorf("clean image flagged: %v", rep.Lines())
	}
}
