// Package document splits blog postings into frontmatter and body and
// answers suppression lookups against the frontmatter metadata.
package document

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andreasscherbaum/check-markdown-files/internal/apperr"
)

const delim = "---\n"

// closing delimiter of the frontmatter block, searched non-greedily.
const closing = "\n---\n"

// Split separates a posting into frontmatter and body.
//
// The content must start with the exact "---" delimiter line and contain a
// closing delimiter line; anything else is a malformed document. Both halves
// are returned trimmed. Split is repeated by many checks on the same content
// and must stay free of side effects.
func Split(content string) (frontmatter, body string, err error) {
	if !strings.HasPrefix(content, delim) {
		return "", "", fmt.Errorf("%w: content does not start with frontmatter", apperr.ErrMalformedDocument)
	}
	rest := content[len(delim):]
	idx := strings.Index(rest, closing)
	if idx < 0 {
		return "", "", fmt.Errorf("%w: can't extract frontmatter", apperr.ErrMalformedDocument)
	}
	frontmatter = strings.TrimSpace(rest[:idx])
	body = strings.TrimSpace(rest[idx+len(closing):])
	return frontmatter, body, nil
}

// Metadata parses a frontmatter block into a key/value mapping.
func Metadata(frontmatter string) (map[string]any, error) {
	var m map[string]any
	if err := yaml.Unmarshal([]byte(frontmatter), &m); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidMetadata, err)
	}
	return m, nil
}

// Suppressed reports whether the warning token is listed in the
// "suppresswarnings" frontmatter key. A missing or empty key suppresses
// nothing. A frontmatter parse failure is fatal for the whole file.
func Suppressed(frontmatter, token string) (bool, error) {
	m, err := Metadata(frontmatter)
	if err != nil {
		return false, err
	}
	raw, ok := m["suppresswarnings"]
	if !ok || raw == nil {
		return false, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return false, nil
	}
	for _, entry := range list {
		if s, ok := entry.(string); ok && s == token {
			return true, nil
		}
	}
	return false, nil
}

// StringList extracts a frontmatter list value such as "tags" or
// "categories". found reports whether the key exists at all, isList whether
// its value is a sequence. Non-string entries are kept as their raw values
// so callers can decide how strict to be.
func StringList(m map[string]any, key string) (list []any, found, isList bool) {
	raw, ok := m[key]
	if !ok {
		return nil, false, false
	}
	entries, ok := raw.([]any)
	if !ok {
		return nil, true, false
	}
	return entries, true, true
}

// Contains reports whether the string s appears in a frontmatter list.
func Contains(list []any, s string) bool {
	for _, entry := range list {
		if v, ok := entry.(string); ok && v == s {
			return true
		}
	}
	return false
}

// Tokens splits text into word tokens: newlines, commas and dots become
// spaces, then the text is split on runs of whitespace.
func Tokens(text string) []string {
	r := strings.NewReplacer("\n", " ", ",", " ", ".", " ")
	return strings.Fields(r.Replace(text))
}

// UniqueTokens returns the set of distinct tokens in text.
func UniqueTokens(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokens(text) {
		set[tok] = struct{}{}
	}
	return set
}

// LowerTokens returns the set of distinct tokens lowercased, with emphasis
// markers ("*", "`") stripped from both ends of each token.
func LowerTokens(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokens(text) {
		tok = strings.ToLower(tok)
		tok = strings.Trim(tok, "*")
		tok = strings.Trim(tok, "`")
		set[tok] = struct{}{}
	}
	return set
}

// Lines splits text on newlines, without producing a phantom empty line
// for a trailing newline.
func Lines(text string) []string {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// listLineRe matches unsorted list items (-, *, +), sorted list items
// ("1.") and opening shortcodes, which can contain a list item.
var listLineRe = regexp.MustCompile(`^\s*([-*+]|\d+\.|\{\{%)\s+`)

// IsListLine reports whether the line is part of a Markdown list.
func IsListLine(line string) bool {
	return listLineRe.MatchString(line)
}
