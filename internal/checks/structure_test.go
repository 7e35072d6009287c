package checks

import "testing"

func TestCodeBlocksMatched(t *testing.T) {
	body := "```bash\necho hi\n```\n\ntext\n"
	if lines := apply(t, CodeBlocks{}, posting("title: t", body)); len(lines) != 0 {
		t.Errorf("matched fences flagged: %v", lines)
	}
}

func TestCodeBlocksUnmatched(t *testing.T) {
	// Opening fence without a language only counts as closing.
	body := "```\necho hi\n```\n"
	lines := apply(t, CodeBlocks{}, posting("title: t", body))
	if len(lines) != 3 {
		t.Fatalf("diagnostics = %v", lines)
	}
	if lines[0] != "Found ummatching fenced code blocks" {
		t.Errorf("message = %q", lines[0])
	}
	if lines[2] != "  Language list: https://gohugo.io/content-management/syntax-highlighting/" {
		t.Errorf("language hint = %q", lines[2])
	}
}

func TestPsqlCodeBlocks(t *testing.T) {
	body := "```psql\nselect 1;\n```\n"
	lines := apply(t, PsqlCodeBlocks{}, posting("title: t", body))
	if len(lines) != 2 || lines[0] != "Found 'psql' code blocks, use 'postgresql' instead" {
		t.Fatalf("diagnostics = %v", lines)
	}

	body = "```postgresql\nselect 1;\n```\n"
	if lines := apply(t, PsqlCodeBlocks{}, posting("title: t", body)); len(lines) != 0 {
		t.Errorf("postgresql fence flagged: %v", lines)
	}
}

func TestImageInsidePreview(t *testing.T) {
	body := "![pic](x.png)\n\n<!--more-->\n\nrest\n"
	lines := apply(t, ImageInsidePreview{}, posting("title: t", body))
	if len(lines) != 2 || lines[0] != "Found image in preview, move it further down" {
		t.Fatalf("diagnostics = %v", lines)
	}

	body = "preview\n\n<!--more-->\n\n![pic](x.png)\n"
	if lines := apply(t, ImageInsidePreview{}, posting("title: t", body)); len(lines) != 0 {
		t.Errorf("image below separator flagged: %v", lines)
	}
}

func TestImageInsidePreviewNoSeparator(t *testing.T) {
	body := "![pic](x.png)\n"
	lines := apply(t, ImageInsidePreview{}, posting("title: t", body))
	if len(lines) != 2 || lines[0] != "Found image in preview, but no preview separator" {
		t.Fatalf("diagnostics = %v", lines)
	}
}

func TestEmptyLineAfterHeader(t *testing.T) {
	body := "## Header\ntext directly after\n"
	lines := apply(t, EmptyLineAfterHeader{}, posting("title: t", body))
	if len(lines) != 3 {
		t.Fatalf("diagnostics = %v", lines)
	}
	if lines[0] != "Missing empty line after header" {
		t.Errorf("message = %q", lines[0])
	}
	if lines[2] != "  Header: ## Header" {
		t.Errorf("header line = %q", lines[2])
	}

	body = "## Header\n\ntext after blank line\n"
	if lines := apply(t, EmptyLineAfterHeader{}, posting("title: t", body)); len(lines) != 0 {
		t.Errorf("correct spacing flagged: %v", lines)
	}
}

func TestEmptyLineAfterHeaderRepeats(t *testing.T) {
	// The warning repeats for every following non-blank line until a blank
	// line resets the state.
	body := "## Header\nfirst\nsecond\n"
	lines := apply(t, EmptyLineAfterHeader{}, posting("title: t", body))
	if len(lines) != 6 {
		t.Errorf("got %d diagnostic lines, want 6: %v", len(lines), lines)
	}
}

func TestEmptyLineAfterHeaderSkipsCode(t *testing.T) {
	body := "```bash\n# not a header\necho hi\n```\n\ntext\n"
	if lines := apply(t, EmptyLineAfterHeader{}, posting("title: t", body)); len(lines) != 0 {
		t.Errorf("code comment treated as header: %v", lines)
	}
}

func TestEmptyLineAfterList(t *testing.T) {
	body := "- one\n- two\ntext directly after\n"
	lines := apply(t, EmptyLineAfterList{}, posting("title: t", body))
	if len(lines) != 2 || lines[0] != "Missing empty line after list" {
		t.Fatalf("diagnostics = %v", lines)
	}

	body = "- one\n- two\n\ntext after blank line\n"
	if lines := apply(t, EmptyLineAfterList{}, posting("title: t", body)); len(lines) != 0 {
		t.Errorf("correct spacing flagged: %v", lines)
	}
}

func TestEmptyLineAfterCode(t *testing.T) {
	body := "```bash\necho hi\n```\ntext directly after\n"
	lines := apply(t, EmptyLineAfterCode{}, posting("title: t", body))
	if len(lines) != 2 || lines[0] != "Missing empty line after code block" {
		t.Fatalf("diagnostics = %v", lines)
	}

	body = "```bash\necho hi\n```\n\ntext after blank line\n"
	if lines := apply(t, EmptyLineAfterCode{}, posting("title: t", body)); len(lines) != 0 {
		t.Errorf("correct spacing flagged: %v", lines)
	}
}
