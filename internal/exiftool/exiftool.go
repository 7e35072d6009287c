// Package exiftool reads image metadata via the exiftool binary.
package exiftool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Read returns all EXIF tags of the image at path. It runs
// `exiftool -json` and decodes the first element of the returned array.
// Any failure is logged and yields an empty map, so a missing exiftool
// binary degrades the check instead of aborting the run.
func Read(path string) map[string]any {
	cmd := exec.Command("exiftool", "-json", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		slog.Error("error running exiftool", slog.String("image", path), slog.String("error", msg))
		return map[string]any{}
	}

	var tags []map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &tags); err != nil {
		slog.Error("error decoding exiftool output", slog.String("image", path), slog.String("error", fmt.Sprintf("%v", err)))
		return map[string]any{}
	}
	if len(tags) == 0 {
		return map[string]any{}
	}
	return tags[0]
}
