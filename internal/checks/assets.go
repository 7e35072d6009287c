package checks

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Asset checks only look at files directly beside the posting. That is the
// page-bundle convention: the posting's directory holds its images.

// ImageSize flags sibling files larger than the configured byte threshold.
// Files ignored by the VCS do not count, they are never published.
type ImageSize struct {
	MaxBytes int64
	Ignored  IgnorePredicate
}

func (ImageSize) Name() string { return "check_image_size" }

func (c ImageSize) Apply(doc *Document, rep *Report) (string, error) {
	if skip, err := doc.SkipAll("skip_image_size"); err != nil || skip {
		return doc.Content, err
	}

	var largeFiles []string
	for _, path := range siblingFiles(doc.Path) {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.Size() > c.MaxBytes && !c.Ignored(path) {
			largeFiles = append(largeFiles, path)
		}
	}

	if len(largeFiles) > 0 {
		rep.Warnf("Found large images, either resize them or:")
		rep.Warnf("  Use 'skip_image_size' to suppress this warning")
		for _, path := range largeFiles {
			rep.Warnf("  Large file: %s", path)
		}
	}

	return doc.Content, nil
}

// ImageExifTagsForbidden flags sibling images carrying configured EXIF tags.
type ImageExifTagsForbidden struct {
	ForbiddenTags []string
	Ignored       IgnorePredicate
	ReadExif      ExifReader
}

func (ImageExifTagsForbidden) Name() string { return "check_image_exif_tags_forbidden" }

func (c ImageExifTagsForbidden) Apply(doc *Document, rep *Report) (string, error) {
	if skip, err := doc.SkipAll("skip_image_exif_tags_forbidden"); err != nil || skip {
		return doc.Content, err
	}

	var imageFiles []string
	for _, path := range siblingFiles(doc.Path) {
		if !isImageFile(path) {
			continue
		}
		if !c.Ignored(path) {
			imageFiles = append(imageFiles, path)
		}
	}

	var flaggedImages []string
	foundTags := make(map[string]struct{})
	for _, path := range imageFiles {
		exifTags := c.ReadExif(path)
		flagged := false
		for _, tag := range c.ForbiddenTags {
			if _, ok := exifTags[tag]; ok {
				flagged = true
				foundTags[tag] = struct{}{}
			}
		}
		if flagged {
			flaggedImages = append(flaggedImages, path)
		}
	}

	if len(flaggedImages) > 0 {
		rep.Warnf("Found forbidden EXIF tags in images, either remove them or:")
		rep.Warnf("  Use 'skip_image_exif_tags_forbidden' to suppress this warning")
		for _, path := range flaggedImages {
			rep.Warnf("  Image file: %s", path)
		}
		tags := make([]string, 0, len(foundTags))
		for tag := range foundTags {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		rep.Warnf("  EXIF tags: %s", strings.Join(tags, ", "))
	}

	return doc.Content, nil
}

// siblingFiles lists regular files in the posting's directory, sorted.
// It does not descend into subdirectories.
func siblingFiles(postingPath string) []string {
	dir := filepath.Dir(postingPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		out = append(out, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(out)
	return out
}

func isImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}
