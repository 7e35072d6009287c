package checks

import (
	"strings"
	"unicode"

	"github.com/andreasscherbaum/check-markdown-files/internal/document"
)

// MoreSeparator is the marker ending the preview portion of a posting.
const MoreSeparator = "<!--more-->"

func rstrip(line string) string {
	return strings.TrimRightFunc(line, unicode.IsSpace)
}

// WhitespacesAtEnd counts lines ending in whitespace. Quote lines (starting
// with ">") keep their trailing spaces, Markdown gives them meaning there.
type WhitespacesAtEnd struct{}

func (WhitespacesAtEnd) Name() string { return "check_whitespaces_at_end" }

func (WhitespacesAtEnd) Apply(doc *Document, rep *Report) (string, error) {
	if skip, err := doc.SkipAll("skip_whitespaces_at_end"); err != nil || skip {
		return doc.Content, err
	}

	found := 0
	for _, line := range document.Lines(doc.Content) {
		if len(line) == 0 || line[0] == '>' {
			continue
		}
		if line != rstrip(line) {
			found++
		}
	}

	if found > 1 {
		rep.Warnf("Found %d lines with whitespaces at the end", found)
		rep.Hint("skip_whitespaces_at_end")
	} else if found == 1 {
		rep.Warnf("Found 1 line with whitespaces at the end")
		rep.Hint("skip_whitespaces_at_end")
	}

	return doc.Content, nil
}

// FindMoreSeparator requires the preview separator in the body.
type FindMoreSeparator struct{}

func (FindMoreSeparator) Name() string { return "check_find_more_separator" }

func (FindMoreSeparator) Apply(doc *Document, rep *Report) (string, error) {
	if skip, err := doc.SkipAll("skip_more_separator"); err != nil || skip {
		return doc.Content, err
	}

	frontmatter, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}

	if !strings.Contains(body, MoreSeparator) {
		suppressed, err := document.Suppressed(frontmatter, "more_separator")
		if err != nil {
			return doc.Content, err
		}
		if !suppressed {
			rep.Warnf("Missing '%s' separator in Markdown!", MoreSeparator)
			rep.Hint("skip_more_separator")
		}
	}

	return doc.Content, nil
}

// FindHeadline flags headings of a given level anywhere in the content.
type FindHeadline struct {
	Level int
}

func (c FindHeadline) Name() string {
	switch c.Level {
	case 3:
		return "check_find_3_headline"
	case 4:
		return "check_find_4_headline"
	default:
		return "check_find_5_headline"
	}
}

func (c FindHeadline) Apply(doc *Document, rep *Report) (string, error) {
	token := map[int]string{3: "headline3", 4: "headline4", 5: "headline5"}[c.Level]

	if skip, err := doc.SkipAll("skip_" + token); err != nil || skip {
		return doc.Content, err
	}

	frontmatter, _, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}

	marker := strings.Repeat("#", c.Level) + " "
	if strings.Contains(doc.Content, marker) {
		suppressed, err := document.Suppressed(frontmatter, token)
		if err != nil {
			return doc.Content, err
		}
		if !suppressed {
			rep.Warnf("Headline %d in Markdown!", c.Level)
			rep.Hint("skip_" + token)
		}
	}

	return doc.Content, nil
}

// MissingCursive flags configured words appearing as bare tokens. Headings,
// quotes, and image lines are exempt.
type MissingCursive struct {
	Words []string
}

func (MissingCursive) Name() string { return "check_missing_cursive" }

func (c MissingCursive) Apply(doc *Document, rep *Report) (string, error) {
	frontmatter, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}

	var kept []string
	for _, line := range document.Lines(body) {
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, ">") || strings.HasPrefix(line, "!") {
			continue
		}
		kept = append(kept, line)
	}
	tokens := document.UniqueTokens(strings.Join(kept, "\n"))

	for _, word := range c.Words {
		if _, ok := tokens[word]; !ok {
			continue
		}
		suppressed, err := document.Suppressed(frontmatter, "skip_missing_cursive_"+word)
		if err != nil {
			return doc.Content, err
		}
		if !suppressed {
			rep.Warnf("Found non-cursive token: %s", word)
			rep.Hint("skip_missing_cursive_" + word)
		}
	}

	return doc.Content, nil
}

// HTTPLink flags plain http:// links, postings should use https.
type HTTPLink struct{}

func (HTTPLink) Name() string { return "check_http_link" }

func (HTTPLink) Apply(doc *Document, rep *Report) (string, error) {
	if skip, err := doc.SkipAll("skip_httplink"); err != nil || skip {
		return doc.Content, err
	}

	_, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}

	if strings.Contains(body, "http://") {
		rep.Warnf("Found 'http://' link")
		rep.Hint("skip_httplink")
	}

	return doc.Content, nil
}

// HugoLocalhost flags leftover Hugo preview links.
type HugoLocalhost struct{}

func (HugoLocalhost) Name() string { return "check_hugo_localhost" }

func (HugoLocalhost) Apply(doc *Document, rep *Report) (string, error) {
	if skip, err := doc.SkipAll("skip_hugo_localhost"); err != nil || skip {
		return doc.Content, err
	}

	_, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}

	if strings.Contains(body, "http://localhost:1313/") {
		rep.Warnf("Found Hugo preview link")
		rep.Hint("skip_hugo_localhost")
	}

	return doc.Content, nil
}

// IIAm flags lowercase "i" and "i'm" in running text.
type IIAm struct{}

func (IIAm) Name() string { return "check_i_i_am" }

func (IIAm) Apply(doc *Document, rep *Report) (string, error) {
	skipI, err := doc.SkipAll("skip_i_in_text")
	if err != nil {
		return doc.Content, err
	}
	skipIAm, err := doc.SkipAll("skip_i_am_in_text")
	if err != nil {
		return doc.Content, err
	}
	if skipI && skipIAm {
		return doc.Content, nil
	}

	frontmatter, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}

	flat := strings.ReplaceAll(body, "\n", " ")
	if strings.Contains(flat, " i ") {
		suppressed, err := document.Suppressed(frontmatter, "skip_i_in_text")
		if err != nil {
			return doc.Content, err
		}
		if !suppressed {
			rep.Warnf("Found lowercase 'i' in text")
			rep.Hint("skip_i_in_text")
		}
	}
	if strings.Contains(flat, " i'm ") {
		suppressed, err := document.Suppressed(frontmatter, "skip_i_am_in_text")
		if err != nil {
			return doc.Content, err
		}
		if !suppressed {
			rep.Warnf("Found lowercase 'i'm' in text")
			rep.Hint("skip_i_am_in_text")
		}
	}

	return doc.Content, nil
}

// Dass flags the deprecated German spelling "daß".
type Dass struct{}

func (Dass) Name() string { return "check_dass" }

func (Dass) Apply(doc *Document, rep *Report) (string, error) {
	if skip, err := doc.SkipAll("skip_dass"); err != nil || skip {
		return doc.Content, err
	}

	_, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}

	if strings.Contains(body, "daß") {
		rep.Warnf("Found 'daß' in text")
		rep.Hint("skip_dass")
	}

	return doc.Content, nil
}

// ForbiddenWords flags configured words anywhere in the body.
type ForbiddenWords struct {
	Words []string
}

func (ForbiddenWords) Name() string { return "check_forbidden_words" }

func (c ForbiddenWords) Apply(doc *Document, rep *Report) (string, error) {
	frontmatter, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}

	for _, word := range c.Words {
		if !strings.Contains(body, word) {
			continue
		}
		suppressed, err := document.Suppressed(frontmatter, "skip_forbidden_words_"+word)
		if err != nil {
			return doc.Content, err
		}
		if !suppressed {
			rep.Warnf("Found forbidden word: %s", word)
			rep.Hint("skip_forbidden_words_" + word)
		}
	}

	return doc.Content, nil
}

// ForbiddenWebsites flags links to configured hostnames. Each bare hostname
// is checked as four explicit URL-prefix variants.
type ForbiddenWebsites struct {
	Hosts []string
}

func (ForbiddenWebsites) Name() string { return "check_forbidden_websites" }

func (c ForbiddenWebsites) Apply(doc *Document, rep *Report) (string, error) {
	frontmatter, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}

	for _, host := range c.Hosts {
		found := strings.Contains(body, "https://"+host+"/") ||
			strings.Contains(body, "https://"+host) ||
			strings.Contains(body, "http://"+host+"/") ||
			strings.Contains(body, "http://"+host)
		if !found {
			continue
		}
		suppressed, err := document.Suppressed(frontmatter, "skip_forbidden_websites_"+host)
		if err != nil {
			return doc.Content, err
		}
		if !suppressed {
			rep.Warnf("Found forbidden website: %s", host)
			rep.Hint("skip_forbidden_websites_" + host)
		}
	}

	return doc.Content, nil
}

// DoubleBrackets flags doubled parentheses outside fenced code.
type DoubleBrackets struct{}

func (DoubleBrackets) Name() string { return "check_double_brackets" }

func (DoubleBrackets) Apply(doc *Document, rep *Report) (string, error) {
	skipOpening, err := doc.SkipAll("skip_double_brackets_opening")
	if err != nil {
		return doc.Content, err
	}
	skipClosing, err := doc.SkipAll("skip_double_brackets_closing")
	if err != nil {
		return doc.Content, err
	}
	if skipOpening && skipClosing {
		return doc.Content, nil
	}

	frontmatter, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}

	inCode := false
	var kept []string
	for _, line := range document.Lines(body) {
		if strings.HasPrefix(line, "```") {
			inCode = !inCode
		}
		if inCode {
			continue
		}
		kept = append(kept, line)
	}
	flat := strings.Join(kept, "")

	if strings.Contains(flat, "((") {
		suppressed, err := document.Suppressed(frontmatter, "skip_double_brackets_opening")
		if err != nil {
			return doc.Content, err
		}
		if !suppressed {
			rep.Warnf("Found opening double brackets!")
			rep.Hint("skip_double_brackets_opening")
		}
	}
	if strings.Contains(flat, "))") {
		suppressed, err := document.Suppressed(frontmatter, "skip_double_brackets_closing")
		if err != nil {
			return doc.Content, err
		}
		if !suppressed {
			rep.Warnf("Found closing double brackets!")
			rep.Hint("skip_double_brackets_closing")
		}
	}

	return doc.Content, nil
}

// Fixme flags FIXME markers, case-insensitive.
type Fixme struct{}

func (Fixme) Name() string { return "check_fixme" }

func (Fixme) Apply(doc *Document, rep *Report) (string, error) {
	if skip, err := doc.SkipAll("skip_fixme"); err != nil || skip {
		return doc.Content, err
	}

	_, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}

	if strings.Contains(strings.ToLower(body), "fixme") {
		rep.Warnf("Found FIXME in text!")
		rep.Hint("skip_fixme")
	}

	return doc.Content, nil
}
