package runner

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andreasscherbaum/check-markdown-files/internal/apperr"
	"github.com/andreasscherbaum/check-markdown-files/internal/checks"
	"github.com/andreasscherbaum/check-markdown-files/internal/storage"
)

const cleanPosting = "---\ntitle: Test\n---\nBody text\n"

func TestRunWhitespaceDiagnostics(t *testing.T) {
	r := New([]checks.Check{checks.WhitespacesAtEnd{}})
	content := "---\ntitle: Test\n---\nline one  \nline two\t\nline three \nclean\n"
	res, err := r.Run("post.md", content)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Diagnostics) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(res.Diagnostics), res.Diagnostics)
	}
	if res.Diagnostics[0] != "Found 3 lines with whitespaces at the end" {
		t.Errorf("diagnostic = %q", res.Diagnostics[0])
	}
	if res.Changed {
		t.Error("check-only run must not change content")
	}
	if !res.Flagged() {
		t.Error("diagnostics must flag the posting")
	}
}

func TestRunFixChangesContent(t *testing.T) {
	r := New([]checks.Check{checks.RemoveWhitespacesAtEnd{}})
	content := "---\ntitle: Test\n---\nline one  \n"
	res, err := r.Run("post.md", content)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Changed {
		t.Fatal("expected content change")
	}
	if res.Output != "---\ntitle: Test\n---\nline one\n" {
		t.Errorf("output = %q", res.Output)
	}
}

func TestRunFixIdempotent(t *testing.T) {
	r := New([]checks.Check{checks.RemoveWhitespacesAtEnd{}})
	content := "---\ntitle: Test\n---\nline one  \n"
	first, err := r.Run("post.md", content)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := r.Run("post.md", first.Output)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if second.Changed {
		t.Errorf("second run changed content: %q", second.Output)
	}
}

func TestRunMalformedDocument(t *testing.T) {
	r := New(nil)
	if _, err := r.Run("post.md", "no frontmatter here\n"); !errors.Is(err, apperr.ErrMalformedDocument) {
		t.Errorf("err = %v, want ErrMalformedDocument", err)
	}
	if _, err := r.Run("post.md", "---\ntitle: open\n"); !errors.Is(err, apperr.ErrMalformedDocument) {
		t.Errorf("missing closing delimiter: err = %v, want ErrMalformedDocument", err)
	}
}

func TestRunSuppressedCheck(t *testing.T) {
	r := New([]checks.Check{checks.WhitespacesAtEnd{}})
	content := "---\ntitle: Test\nsuppresswarnings:\n  - skip_whitespaces_at_end\n---\ntrailing  \n"
	res, err := r.Run("post.md", content)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("suppressed check still logged: %v", res.Diagnostics)
	}
}

func TestProcessorPrintsReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.md")
	content := "---\ntitle: Test\n---\ntrailing  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	p := NewProcessor(storage.NewFS(), New([]checks.Check{checks.WhitespacesAtEnd{}}))
	var buf bytes.Buffer
	p.Stdout = &buf

	res, err := p.Process(path)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !res.Flagged() {
		t.Error("expected flagged result")
	}
	out := buf.String()
	if !strings.HasPrefix(out, "File: ") {
		t.Errorf("report must start with the file header: %q", out)
	}
	if !strings.Contains(out, "Found 1 line with whitespaces at the end") {
		t.Errorf("missing diagnostic in report: %q", out)
	}
	if !strings.Contains(out, "Use 'skip_whitespaces_at_end' in 'suppresswarnings' to silence this warning") {
		t.Errorf("missing hint in report: %q", out)
	}
}

func TestProcessorWritesBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.md")
	content := "---\ntitle: Test\n---\ntrailing  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	p := NewProcessor(storage.NewFS(), New([]checks.Check{checks.RemoveWhitespacesAtEnd{}}))
	p.Stdout = &bytes.Buffer{}

	res, err := p.Process(path)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !res.Changed {
		t.Fatal("expected change")
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "---\ntitle: Test\n---\ntrailing\n" {
		t.Errorf("written content = %q", got)
	}
}

func TestProcessorDryRunKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.md")
	content := "---\ntitle: Test\n---\ntrailing  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	p := NewProcessor(storage.NewFS(), New([]checks.Check{checks.RemoveWhitespacesAtEnd{}}))
	p.Stdout = &bytes.Buffer{}
	p.DryRun = true

	if _, err := p.Process(path); err != nil {
		t.Fatalf("Process: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != content {
		t.Errorf("dry run rewrote file: %q", got)
	}
}

func TestProcessorDryRunPrintsOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.md")
	content := "---\ntitle: Test\n---\ntrailing  \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	p := NewProcessor(storage.NewFS(), New([]checks.Check{checks.RemoveWhitespacesAtEnd{}}))
	var buf bytes.Buffer
	p.Stdout = &buf
	p.DryRun = true
	p.PrintDry = true

	if _, err := p.Process(path); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !strings.Contains(buf.String(), "---\ntitle: Test\n---\ntrailing\n") {
		t.Errorf("expected rewritten content on stdout: %q", buf.String())
	}
}

func TestProcessorCleanFileSilent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "post.md")
	if err := os.WriteFile(path, []byte(cleanPosting), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	p := NewProcessor(storage.NewFS(), New([]checks.Check{checks.WhitespacesAtEnd{}, checks.RemoveWhitespacesAtEnd{}}))
	var buf bytes.Buffer
	p.Stdout = &buf

	res, err := p.Process(path)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Flagged() {
		t.Error("clean posting must not be flagged")
	}
	if buf.Len() != 0 {
		t.Errorf("clean posting produced output: %q", buf.String())
	}
}
