package checks

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/andreasscherbaum/check-markdown-files/internal/document"
)

// tags and categories end up in URLs, so they are restricted to lowercase
// letters, digits, separators, and German umlauts.
var allowedTagRe = regexp.MustCompile(`[^a-z0-9\-._äöüß]`)

// MissingTags warns when a configured trigger word appears in the posting
// but the tag it implies is absent.
type MissingTags struct {
	Pairs []WordTag
}

func (MissingTags) Name() string { return "check_missing_tags" }

func (c MissingTags) Apply(doc *Document, rep *Report) (string, error) {
	frontmatter, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}
	tokens := document.LowerTokens(body)

	meta, err := document.Metadata(frontmatter)
	if err != nil {
		return doc.Content, err
	}
	tags, found, isList := document.StringList(meta, "tags")
	if !found {
		rep.Warnf("No tags found!")
		return doc.Content, nil
	}
	if !isList {
		rep.Warnf("Tags is not a list!")
		return doc.Content, nil
	}

	flat := strings.ReplaceAll(doc.Content, "\n", " ")

	for _, pair := range c.Pairs {
		_, isToken := tokens[pair.Word]
		if !strings.Contains(flat, pair.Word) && !isToken {
			continue
		}
		if document.Contains(tags, pair.Tag) {
			continue
		}
		suppressed, err := document.Suppressed(frontmatter, "skip_missing_tags_"+pair.Tag)
		if err != nil {
			return doc.Content, err
		}
		if !suppressed {
			rep.Warnf("'%s' tag is missing", pair.Tag)
			rep.Hint("skip_missing_tags_" + pair.Tag)
		}
	}

	return doc.Content, nil
}

// MissingWordsAsTags warns when a configured word appears in the body but is
// not itself a tag.
type MissingWordsAsTags struct {
	Words []string
}

func (MissingWordsAsTags) Name() string { return "check_missing_words_as_tags" }

func (c MissingWordsAsTags) Apply(doc *Document, rep *Report) (string, error) {
	frontmatter, body, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}
	tokens := document.LowerTokens(body)

	meta, err := document.Metadata(frontmatter)
	if err != nil {
		return doc.Content, err
	}
	tags, found, isList := document.StringList(meta, "tags")
	if !found {
		rep.Warnf("No tags found!")
		return doc.Content, nil
	}
	if !isList {
		rep.Warnf("Tags is not a list!")
		return doc.Content, nil
	}

	for _, word := range c.Words {
		word = strings.ToLower(word)
		if _, ok := tokens[word]; !ok {
			continue
		}
		if document.Contains(tags, word) {
			continue
		}
		suppressed, err := document.Suppressed(frontmatter, "skip_missing_words_"+word)
		if err != nil {
			return doc.Content, err
		}
		if !suppressed {
			rep.Warnf("'%s' tag is missing", word)
			rep.Hint("skip_missing_words_" + word)
		}
	}

	return doc.Content, nil
}

// LowercaseTags enforces the tag character set. Violations cannot be
// suppressed, disable the check instead.
type LowercaseTags struct{}

func (LowercaseTags) Name() string { return "check_lowercase_tags" }

func (LowercaseTags) Apply(doc *Document, rep *Report) (string, error) {
	return checkLowercaseList(doc, rep, "tags", "tag", "Tags")
}

// LowercaseCategories enforces the category character set, same contract as
// LowercaseTags.
type LowercaseCategories struct{}

func (LowercaseCategories) Name() string { return "check_lowercase_categories" }

func (LowercaseCategories) Apply(doc *Document, rep *Report) (string, error) {
	return checkLowercaseList(doc, rep, "categories", "category", "Categories")
}

func checkLowercaseList(doc *Document, rep *Report, key, singular, plural string) (string, error) {
	frontmatter, _, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}
	meta, err := document.Metadata(frontmatter)
	if err != nil {
		return doc.Content, err
	}
	entries, found, isList := document.StringList(meta, key)
	if !found {
		rep.Warnf("No %s found!", key)
		return doc.Content, nil
	}
	if !isList {
		rep.Warnf("%s is not a list!", plural)
		return doc.Content, nil
	}

	for _, entry := range entries {
		s, ok := entry.(string)
		if !ok {
			return doc.Content, fmt.Errorf("invalid %s in %s: %v", singular, doc.Path, entry)
		}
		if allowedTagRe.MatchString(s) {
			// Not suppressible: these values end up in URLs.
			rep.Warnf("Invalid %s: %s", singular, s)
		}
	}

	return doc.Content, nil
}

// MissingOtherTagsOneWay warns when tag1 is present but tag2 is not.
type MissingOtherTagsOneWay struct {
	Pairs []TagPair
}

func (MissingOtherTagsOneWay) Name() string { return "check_missing_other_tags_one_way" }

func (c MissingOtherTagsOneWay) Apply(doc *Document, rep *Report) (string, error) {
	return checkTagImplications(doc, rep, c.Pairs, "skip_missing_other_tags_one_way_", false)
}

// MissingOtherTagsBothWays applies the implication in both directions.
type MissingOtherTagsBothWays struct {
	Pairs []TagPair
}

func (MissingOtherTagsBothWays) Name() string { return "check_missing_other_tags_both_ways" }

func (c MissingOtherTagsBothWays) Apply(doc *Document, rep *Report) (string, error) {
	return checkTagImplications(doc, rep, c.Pairs, "skip_missing_other_tags_both_ways_", true)
}

func checkTagImplications(doc *Document, rep *Report, pairs []TagPair, tokenPrefix string, bothWays bool) (string, error) {
	frontmatter, _, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}
	meta, err := document.Metadata(frontmatter)
	if err != nil {
		return doc.Content, err
	}
	tags, found, isList := document.StringList(meta, "tags")
	if !found {
		rep.Warnf("No tags found!")
		return doc.Content, nil
	}
	if !isList {
		rep.Warnf("Tags is not a list!")
		return doc.Content, nil
	}

	implied := func(tag1, tag2 string) error {
		if !document.Contains(tags, tag1) || document.Contains(tags, tag2) {
			return nil
		}
		token := tokenPrefix + tag1 + "_" + tag2
		suppressed, err := document.Suppressed(frontmatter, token)
		if err != nil {
			return err
		}
		if !suppressed {
			rep.Warnf("Found '%s' tag but '%s' tag is missing", tag1, tag2)
			rep.Hint(token)
		}
		return nil
	}

	for _, pair := range pairs {
		if err := implied(pair.Tag1, pair.Tag2); err != nil {
			return doc.Content, err
		}
		if bothWays {
			if err := implied(pair.Tag2, pair.Tag1); err != nil {
				return doc.Content, err
			}
		}
	}

	return doc.Content, nil
}

// Changeme flags the "changeme" placeholder left in tags or categories.
type Changeme struct{}

func (Changeme) Name() string { return "check_changeme" }

func (Changeme) Apply(doc *Document, rep *Report) (string, error) {
	skipTag, err := doc.SkipAll("skip_changeme_tag")
	if err != nil {
		return doc.Content, err
	}
	skipCategory, err := doc.SkipAll("skip_changeme_category")
	if err != nil {
		return doc.Content, err
	}
	if skipTag && skipCategory {
		return doc.Content, nil
	}

	frontmatter, _, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}
	meta, err := document.Metadata(frontmatter)
	if err != nil {
		return doc.Content, err
	}

	tags, found, _ := document.StringList(meta, "tags")
	if !found {
		rep.Warnf("No tags found!")
	}
	categories, found, _ := document.StringList(meta, "categories")
	if !found {
		rep.Warnf("No categories found!")
	}

	if document.Contains(tags, "changeme") {
		suppressed, err := document.Suppressed(frontmatter, "skip_changeme_tag")
		if err != nil {
			return doc.Content, err
		}
		if !suppressed {
			rep.Warnf("Found 'changeme' tag!")
			rep.Hint("skip_changeme_tag")
		}
	}
	if document.Contains(categories, "changeme") {
		suppressed, err := document.Suppressed(frontmatter, "skip_changeme_category")
		if err != nil {
			return doc.Content, err
		}
		if !suppressed {
			rep.Warnf("Found 'changeme' category!")
			rep.Hint("skip_changeme_category")
		}
	}

	return doc.Content, nil
}

// PreviewThumbnail requires a non-empty thumbnail header field.
type PreviewThumbnail struct{}

func (PreviewThumbnail) Name() string { return "check_preview_thumbnail" }

func (PreviewThumbnail) Apply(doc *Document, rep *Report) (string, error) {
	return checkHeaderField(doc, rep, "thumbnail", "skip_preview_thumbnail", "Found no preview image in header")
}

// PreviewDescription requires a non-empty description header field.
type PreviewDescription struct{}

func (PreviewDescription) Name() string { return "check_preview_description" }

func (PreviewDescription) Apply(doc *Document, rep *Report) (string, error) {
	return checkHeaderField(doc, rep, "description", "skip_preview_description", "Found no preview description in header")
}

func checkHeaderField(doc *Document, rep *Report, field, token, message string) (string, error) {
	if skip, err := doc.SkipAll(token); err != nil || skip {
		return doc.Content, err
	}

	frontmatter, _, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}
	meta, err := document.Metadata(frontmatter)
	if err != nil {
		return doc.Content, err
	}

	value, _ := meta[field].(string)
	if len(value) < 1 {
		rep.Warnf("%s", message)
		rep.Hint(token)
	}

	return doc.Content, nil
}

// HeaderFieldLength requires configured frontmatter fields to have a minimum
// length. A missing field is an error that cannot be suppressed; a too-short
// value can be suppressed per field.
type HeaderFieldLength struct {
	Fields []FieldLength
}

func (HeaderFieldLength) Name() string { return "check_header_field_length" }

func (c HeaderFieldLength) Apply(doc *Document, rep *Report) (string, error) {
	frontmatter, _, err := doc.Split()
	if err != nil {
		return doc.Content, err
	}
	meta, err := document.Metadata(frontmatter)
	if err != nil {
		return doc.Content, err
	}

	for _, fl := range c.Fields {
		value, ok := meta[fl.Field]
		if !ok {
			rep.Warnf("Missing Frontmatter entry: %s", fl.Field)
			continue
		}

		length := 0
		switch v := value.(type) {
		case string:
			length = utf8.RuneCountInString(v)
		case []any:
			length = len(v)
		}
		if length >= fl.MinLength {
			continue
		}
		suppressed, err := document.Suppressed(frontmatter, "skip_header_field_length_"+fl.Field)
		if err != nil {
			return doc.Content, err
		}
		if !suppressed {
			rep.Warnf("Frontmatter entry too short: %s (%d < %d chars)", fl.Field, length, fl.MinLength)
			rep.Hint("skip_header_field_length_" + fl.Field)
		}
	}

	return doc.Content, nil
}
