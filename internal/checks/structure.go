package checks

import (
	"strings"

	"github.com/andreasscherbaum/check-markdown-files/internal/document"
)

// CodeBlocks verifies that every fenced code block declares a language:
// the number of opening fences with a language must match the number of bare
// closing fences.
type CodeBlocks struct{}

func (CodeBlocks) Name() string { return "check_code_blocks" }

func (CodeBlocks) Apply(doc *Document, rep *Report) (string, error) {
	if skip, err := doc.SkipAll("skip_unmatching_code_blocks"); err != nil || skip {
		return doc.Content, err
	}

	_, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}

	opening := 0
	closing := 0
	for _, line := range document.Lines(body) {
		if strings.HasPrefix(line, "```") && len(line) > 3 {
			opening++
		}
		if line == "```" {
			closing++
		}
	}

	if (opening > 0 || closing > 0) && opening != closing {
		rep.Warnf("Found ummatching fenced code blocks")
		rep.Hint("skip_unmatching_code_blocks")
		rep.Warnf("  Language list: https://gohugo.io/content-management/syntax-highlighting/")
	}

	return doc.Content, nil
}

// PsqlCodeBlocks flags the deprecated psql fence language.
type PsqlCodeBlocks struct{}

func (PsqlCodeBlocks) Name() string { return "check_psql_code_blocks" }

func (PsqlCodeBlocks) Apply(doc *Document, rep *Report) (string, error) {
	if skip, err := doc.SkipAll("skip_psql_code"); err != nil || skip {
		return doc.Content, err
	}

	_, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}

	count := 0
	for _, line := range document.Lines(body) {
		if line == "```psql" || line == "````psql" {
			count++
		}
	}

	if count > 0 {
		rep.Warnf("Found 'psql' code blocks, use 'postgresql' instead")
		rep.Hint("skip_psql_code")
	}

	return doc.Content, nil
}

// ImageInsidePreview flags images in the preview portion of the posting.
// Without a preview separator the whole posting counts as preview.
type ImageInsidePreview struct{}

func (ImageInsidePreview) Name() string { return "check_image_inside_preview" }

func (ImageInsidePreview) Apply(doc *Document, rep *Report) (string, error) {
	if skip, err := doc.SkipAll("skip_image_inside_preview"); err != nil || skip {
		return doc.Content, err
	}

	_, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}

	if !strings.Contains(doc.Content, MoreSeparator) {
		if strings.Contains(doc.Content, "![") {
			rep.Warnf("Found image in preview, but no preview separator")
			rep.Hint("skip_image_inside_preview")
		}
	} else {
		preview, _, _ := strings.Cut(body, MoreSeparator)
		if strings.Contains(preview, "![") {
			rep.Warnf("Found image in preview, move it further down")
			rep.Hint("skip_image_inside_preview")
		}
	}

	return doc.Content, nil
}

// EmptyLineAfterHeader requires a blank line after every heading. Content
// inside fenced code blocks is exempt.
type EmptyLineAfterHeader struct{}

func (EmptyLineAfterHeader) Name() string { return "check_empty_line_after_header" }

func (EmptyLineAfterHeader) Apply(doc *Document, rep *Report) (string, error) {
	if skip, err := doc.SkipAll("skip_empty_line_after_header"); err != nil || skip {
		return doc.Content, err
	}

	_, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}

	lastLineIsHeader := false
	lastHeaderLine := ""
	inCodeBlock := false

	for _, line := range document.Lines(body) {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}

		if len(line) == 0 {
			lastLineIsHeader = false
			lastHeaderLine = ""
		} else if !strings.HasPrefix(line, "#") && lastLineIsHeader {
			rep.Warnf("Missing empty line after header")
			rep.Hint("skip_empty_line_after_header")
			rep.Warnf("  Header: %s", lastHeaderLine)
		}

		if strings.HasPrefix(line, "#") {
			lastLineIsHeader = true
			lastHeaderLine = line
		}
	}

	return doc.Content, nil
}

// EmptyLineAfterList requires a blank line after every list.
type EmptyLineAfterList struct{}

func (EmptyLineAfterList) Name() string { return "check_empty_line_after_list" }

func (EmptyLineAfterList) Apply(doc *Document, rep *Report) (string, error) {
	if skip, err := doc.SkipAll("skip_empty_line_after_list"); err != nil || skip {
		return doc.Content, err
	}

	_, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}

	lastLineIsList := false
	inCodeBlock := false

	for _, line := range document.Lines(body) {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}

		if len(line) == 0 {
			lastLineIsList = false
		} else if !document.IsListLine(line) && lastLineIsList {
			rep.Warnf("Missing empty line after list")
			rep.Hint("skip_empty_line_after_list")
		}

		if document.IsListLine(line) {
			lastLineIsList = true
		}
	}

	return doc.Content, nil
}

// EmptyLineAfterCode requires a blank line after every closing code fence.
type EmptyLineAfterCode struct{}

func (EmptyLineAfterCode) Name() string { return "check_empty_line_after_code" }

func (EmptyLineAfterCode) Apply(doc *Document, rep *Report) (string, error) {
	if skip, err := doc.SkipAll("skip_empty_line_after_code"); err != nil || skip {
		return doc.Content, err
	}

	_, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}

	inCodeBlock := false
	lastLineEndsCodeBlock := false

	for _, line := range document.Lines(body) {
		if lastLineEndsCodeBlock && len(line) > 0 {
			rep.Warnf("Missing empty line after code block")
			rep.Hint("skip_empty_line_after_code")
		}

		if strings.HasPrefix(line, "```") && !inCodeBlock {
			inCodeBlock = true
			continue
		}
		if line == "```" && inCodeBlock {
			inCodeBlock = false
			lastLineEndsCodeBlock = true
			continue
		}

		lastLineEndsCodeBlock = false
	}

	return doc.Content, nil
}
