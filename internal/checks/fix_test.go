package checks

import (
	"strings"
	"testing"
)

func TestRemoveWhitespacesAtEnd(t *testing.T) {
	content := posting("title: t", "plain   \n> quoted   \nclean\n")
	doc := newDoc(t, content)
	rep := &Report{}
	out, err := RemoveWhitespacesAtEnd{}.Apply(doc, rep)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if strings.Contains(out, "plain   ") {
		t.Errorf("trailing whitespace survived: %q", out)
	}
	if !strings.Contains(out, "> quoted   \n") {
		t.Errorf("quote line must keep its trailing whitespace: %q", out)
	}
	lines := rep.Lines()
	if len(lines) != 1 || lines[0] != "Removing whitespaces at end of lines" {
		t.Errorf("diagnostics = %v", lines)
	}
}

func TestRemoveWhitespacesAtEndClean(t *testing.T) {
	content := posting("title: t", "clean\n")
	doc := newDoc(t, content)
	rep := &Report{}
	out, err := RemoveWhitespacesAtEnd{}.Apply(doc, rep)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out != content || !rep.Empty() {
		t.Errorf("clean posting reported as changed")
	}
}

func TestReplaceBrokenLinks(t *testing.T) {
	c := ReplaceBrokenLinks{Rules: []LinkRule{{Orig: "dead.example", Replace: "https://alive.example/"}}}

	content := posting("title: t",
		"a https://dead.example/page b http://dead.example c https://dead.example end\n")
	doc := newDoc(t, content)
	rep := &Report{}
	out, err := c.Apply(doc, rep)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if strings.Contains(out, "dead.example") {
		t.Errorf("broken link left in output: %q", out)
	}
	if !strings.Contains(out, "https://alive.example/page") {
		t.Errorf("trailing-slash variant not replaced correctly: %q", out)
	}
	lines := rep.Lines()
	if len(lines) != 1 || lines[0] != "Replacing broken links" {
		t.Errorf("diagnostics = %v", lines)
	}
}

func TestReplaceBrokenLinksNoMatch(t *testing.T) {
	c := ReplaceBrokenLinks{Rules: []LinkRule{{Orig: "dead.example", Replace: "https://alive.example/"}}}
	content := posting("title: t", "nothing to do\n")
	doc := newDoc(t, content)
	rep := &Report{}
	out, err := c.Apply(doc, rep)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out != content || !rep.Empty() {
		t.Errorf("unchanged content reported as changed")
	}
}

func TestReplaceBrokenLinksSuppressed(t *testing.T) {
	c := ReplaceBrokenLinks{Rules: []LinkRule{{Orig: "dead.example", Replace: "https://alive.example/"}}}
	content := posting("title: t\nsuppresswarnings:\n  - skip_do_replace_broken_links",
		"see https://dead.example/page\n")
	doc := newDoc(t, content)
	rep := &Report{}
	out, err := c.Apply(doc, rep)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out != content || !rep.Empty() {
		t.Errorf("suppressed fix still rewrote the posting")
	}
}
