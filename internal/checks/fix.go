package checks

import (
	"strings"

	"github.com/andreasscherbaum/check-markdown-files/internal/document"
)

// RemoveWhitespacesAtEnd rewrites the posting with trailing whitespace
// stripped from every non-quote line and a trailing newline appended.
type RemoveWhitespacesAtEnd struct{}

func (RemoveWhitespacesAtEnd) Name() string { return "do_remove_whitespaces_at_end" }

func (RemoveWhitespacesAtEnd) Apply(doc *Document, rep *Report) (string, error) {
	if skip, err := doc.SkipAll("skip_do_remove_whitespaces_at_end"); err != nil || skip {
		return doc.Content, err
	}

	lines := document.Lines(doc.Content)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 || line[0] == '>' {
			out = append(out, line)
			continue
		}
		out = append(out, rstrip(line))
	}
	output := strings.Join(out, "\n") + "\n"

	if output != doc.Content {
		rep.Warnf("Removing whitespaces at end of lines")
	}

	return output, nil
}

// ReplaceBrokenLinks rewrites links to configured dead hostnames. The most
// specific URL variant is replaced first so the bare-host variant cannot eat
// the trailing slash form.
type ReplaceBrokenLinks struct {
	Rules []LinkRule
}

func (ReplaceBrokenLinks) Name() string { return "do_replace_broken_links" }

func (c ReplaceBrokenLinks) Apply(doc *Document, rep *Report) (string, error) {
	if skip, err := doc.SkipAll("skip_do_replace_broken_links"); err != nil || skip {
		return doc.Content, err
	}

	output := doc.Content
	for _, rule := range c.Rules {
		output = strings.ReplaceAll(output, "https://"+rule.Orig+"/", rule.Replace)
		output = strings.ReplaceAll(output, "https://"+rule.Orig, rule.Replace)
		output = strings.ReplaceAll(output, "http://"+rule.Orig+"/", rule.Replace)
		output = strings.ReplaceAll(output, "http://"+rule.Orig, rule.Replace)
	}

	if output != doc.Content {
		rep.Warnf("Replacing broken links")
	}

	return output, nil
}
