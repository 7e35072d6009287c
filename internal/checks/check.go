// Package checks contains the catalog of posting checks.
//
// Every check implements the same contract: it receives the working copy of
// the posting, may append diagnostics to the report, and returns the
// (possibly rewritten) content. Only the two fix checks ever return something
// different from their input. Checks re-split the content themselves because
// an earlier check may already have rewritten it; the initial frontmatter is
// only used for the coarse whole-check skip gate.
package checks

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/andreasscherbaum/check-markdown-files/internal/document"
)

// Document is the per-file state threaded through the catalog.
type Document struct {
	// Path of the posting on disk.
	Path string
	// Content is the working copy, updated after every check.
	Content string
	// InitFrontmatter is the frontmatter extracted before any check ran.
	// It gates whole-check skips; per-diagnostic suppression re-splits.
	InitFrontmatter string
}

// Split re-derives frontmatter and body from the current working content.
func (d *Document) Split() (frontmatter, body string, err error) {
	return document.Split(d.Content)
}

// SkipAll reports whether the whole check is suppressed via the initial
// frontmatter.
func (d *Document) SkipAll(token string) (bool, error) {
	return document.Suppressed(d.InitFrontmatter, token)
}

// Report is the ordered diagnostic log for one file. The runner owns it and
// resets it before each file; checks only append.
type Report struct {
	lines []string
}

// Warnf appends a diagnostic line.
func (r *Report) Warnf(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

// Hint appends the standard suppression hint for a warning token.
func (r *Report) Hint(token string) {
	r.lines = append(r.lines, fmt.Sprintf("  Use '%s' in 'suppresswarnings' to silence this warning", token))
}

// Lines returns the accumulated diagnostic lines.
func (r *Report) Lines() []string { return r.lines }

// Empty reports whether no diagnostics were logged.
func (r *Report) Empty() bool { return len(r.lines) == 0 }

// Reset clears the report for the next file.
func (r *Report) Reset() { r.lines = nil }

// Check is one rule-evaluation (or rule-and-fix) unit in the catalog.
type Check interface {
	// Name returns the configuration key enabling the check.
	Name() string
	// Apply inspects doc.Content, may log diagnostics, and returns the
	// content subsequent checks must observe. A non-nil error is fatal.
	Apply(doc *Document, rep *Report) (string, error)
}

// IgnorePredicate reports whether the VCS ignores a file. Used by the asset
// checks to leave generated or private files alone.
type IgnorePredicate func(path string) bool

// ExifReader returns the EXIF tag map of an image file.
type ExifReader func(path string) map[string]any

// WordTag pairs a trigger word with the tag it implies.
type WordTag struct {
	Word string `yaml:"word"`
	Tag  string `yaml:"tag"`
}

// TagPair holds two tags for the tag-implication checks.
type TagPair struct {
	Tag1 string `yaml:"tag1"`
	Tag2 string `yaml:"tag2"`
}

// LinkRule maps a broken bare hostname to its replacement URL.
type LinkRule struct {
	Orig    string `yaml:"orig"`
	Replace string `yaml:"replace"`
}

// FieldLength requires a frontmatter field to have a minimum length.
// In the configuration each entry is a single-pair mapping (field: length).
type FieldLength struct {
	Field     string
	MinLength int
}

// UnmarshalYAML decodes the single-pair mapping form.
func (f *FieldLength) UnmarshalYAML(value *yaml.Node) error {
	var m map[string]int
	if err := value.Decode(&m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("header field entry must contain exactly one field, got %d", len(m))
	}
	for field, length := range m {
		f.Field = field
		f.MinLength = length
	}
	return nil
}
