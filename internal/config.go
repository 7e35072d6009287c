// Package internal provides the application configuration and the serve-mode
// runtime.
package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/andreasscherbaum/check-markdown-files/internal/checks"
)

// DefaultConfigName is the config file searched tree-upwards from the
// working directory.
const DefaultConfigName = "check-markdown-files.conf"

// Flag is a check-enablement value. Besides native booleans the config
// accepts "1"/"y"/"yes" as true and "0"/"n"/"no" as false; any other value
// leaves the check disabled.
type Flag bool

// UnmarshalYAML decodes native booleans and the boolean-like string forms.
func (f *Flag) UnmarshalYAML(value *yaml.Node) error {
	var b bool
	if err := value.Decode(&b); err == nil {
		*f = Flag(b)
		return nil
	}
	var s string
	if err := value.Decode(&s); err == nil {
		switch s {
		case "1", "y", "yes":
			*f = true
		case "0", "n", "no":
			*f = false
		}
	}
	return nil
}

// Enabled reports whether the check is switched on.
func (f Flag) Enabled() bool { return bool(f) }

// Config is the full application configuration. Check-enablement flags and
// their auxiliary parameters live at the top level, matching the config file
// layout; unrecognized keys are ignored.
type Config struct {
	CheckWhitespacesAtEnd        Flag `yaml:"check_whitespaces_at_end"`
	CheckFindMoreSeparator       Flag `yaml:"check_find_more_separator"`
	CheckFind3Headline           Flag `yaml:"check_find_3_headline"`
	CheckFind4Headline           Flag `yaml:"check_find_4_headline"`
	CheckFind5Headline           Flag `yaml:"check_find_5_headline"`
	CheckMissingTags             Flag `yaml:"check_missing_tags"`
	CheckMissingWordsAsTags      Flag `yaml:"check_missing_words_as_tags"`
	CheckLowercaseTags           Flag `yaml:"check_lowercase_tags"`
	CheckLowercaseCategories     Flag `yaml:"check_lowercase_categories"`
	CheckMissingOtherTagsOneWay  Flag `yaml:"check_missing_other_tags_one_way"`
	CheckMissingOtherTagsBothWay Flag `yaml:"check_missing_other_tags_both_ways"`
	CheckMissingCursive          Flag `yaml:"check_missing_cursive"`
	CheckHTTPLink                Flag `yaml:"check_http_link"`
	CheckHugoLocalhost           Flag `yaml:"check_hugo_localhost"`
	CheckIIAm                    Flag `yaml:"check_i_i_am"`
	CheckChangeme                Flag `yaml:"check_changeme"`
	CheckCodeBlocks              Flag `yaml:"check_code_blocks"`
	CheckPsqlCodeBlocks          Flag `yaml:"check_psql_code_blocks"`
	CheckImageInsidePreview      Flag `yaml:"check_image_inside_preview"`
	CheckPreviewThumbnail        Flag `yaml:"check_preview_thumbnail"`
	CheckPreviewDescription      Flag `yaml:"check_preview_description"`
	CheckImageSize               Flag `yaml:"check_image_size"`
	CheckImageExifTagsForbidden  Flag `yaml:"check_image_exif_tags_forbidden"`
	CheckDass                    Flag `yaml:"check_dass"`
	CheckEmptyLineAfterHeader    Flag `yaml:"check_empty_line_after_header"`
	CheckEmptyLineAfterList      Flag `yaml:"check_empty_line_after_list"`
	CheckEmptyLineAfterCode      Flag `yaml:"check_empty_line_after_code"`
	CheckForbiddenWords          Flag `yaml:"check_forbidden_words"`
	CheckForbiddenWebsites       Flag `yaml:"check_forbidden_websites"`
	CheckHeaderFieldLength       Flag `yaml:"check_header_field_length"`
	CheckDoubleBrackets          Flag `yaml:"check_double_brackets"`
	CheckFixme                   Flag `yaml:"check_fixme"`
	DoRemoveWhitespacesAtEnd     Flag `yaml:"do_remove_whitespaces_at_end"`
	DoReplaceBrokenLinks         Flag `yaml:"do_replace_broken_links"`

	// Auxiliary check parameters. Each one is required (and validated
	// eagerly) whenever the corresponding check is enabled.
	MissingTags              []checks.WordTag     `yaml:"missing_tags"`
	MissingTagsInclude       string               `yaml:"missing_tags_include"`
	MissingWords             []string             `yaml:"missing_words"`
	MissingWordsInclude      string               `yaml:"missing_words_include"`
	MissingOtherTagsOneWay   []checks.TagPair     `yaml:"missing_other_tags_one_way"`
	MissingOtherTagsBothWays []checks.TagPair     `yaml:"missing_other_tags_both_ways"`
	MissingCursive           []string             `yaml:"missing_cursive"`
	MissingCursiveInclude    string               `yaml:"missing_cursive_include"`
	ForbiddenWords           []string             `yaml:"forbidden_words"`
	ForbiddenWebsites        []string             `yaml:"forbidden_websites"`
	ImageSize                int64                `yaml:"image_size"`
	ForbiddenExifTags        []string             `yaml:"forbidden_exif_tags"`
	HeaderFieldLength        []checks.FieldLength `yaml:"header_field_length"`
	BrokenLinks              []checks.LinkRule    `yaml:"broken_links"`

	// ContentDirs are the conventional directories scanned when no files
	// are given on the command line.
	ContentDirs []string `yaml:"content_dirs"`

	// CachePath enables the SQLite result cache when non-empty.
	CachePath string `yaml:"cache_path"`

	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds serve-mode configuration.
type ServerConfig struct {
	Port     int        `yaml:"port"`
	Token    string     `yaml:"token"`
	LogLevel slog.Level `yaml:"log_level"`
}

// Address returns the HTTP listen address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// bareHost rejects values carrying a protocol; the four URL-prefix variants
// are constructed by the checks themselves.
func bareHost(value any) error {
	s, _ := value.(string)
	if strings.HasPrefix(s, "http") || strings.Contains(s, "://") {
		return fmt.Errorf("must not include the protocol: %s", s)
	}
	return nil
}

func wordTagComplete(value any) error {
	wt, _ := value.(checks.WordTag)
	if wt.Word == "" || wt.Tag == "" {
		return errors.New("both 'word' and 'tag' must be specified")
	}
	return nil
}

func tagPairComplete(value any) error {
	tp, _ := value.(checks.TagPair)
	if tp.Tag1 == "" || tp.Tag2 == "" {
		return errors.New("both 'tag1' and 'tag2' must be specified")
	}
	return nil
}

func linkRuleComplete(value any) error {
	lr, _ := value.(checks.LinkRule)
	if lr.Orig == "" || lr.Replace == "" {
		return errors.New("both 'orig' and 'replace' must be specified")
	}
	if err := bareHost(lr.Orig); err != nil {
		return fmt.Errorf("'orig' link %w", err)
	}
	if !strings.Contains(lr.Replace, "://") {
		return fmt.Errorf("'replace' link must include the protocol: %s", lr.Replace)
	}
	return nil
}

func fieldLengthValid(value any) error {
	fl, _ := value.(checks.FieldLength)
	if fl.Field == "" {
		return errors.New("header field entry must name a field")
	}
	if fl.MinLength < 0 {
		return fmt.Errorf("length must not be negative: %s", fl.Field)
	}
	return nil
}

// Validate checks that every enabled check has its auxiliary parameters
// present and well-formed. This runs once at load time; a violation aborts
// the run before any document is processed.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.MissingTags,
			validation.When(c.CheckMissingTags.Enabled(),
				validation.Required.Error("'check_missing_tags' is activated, but 'missing_tags' data is not specified")),
			validation.Each(validation.By(wordTagComplete))),
		validation.Field(&c.MissingWords,
			validation.When(c.CheckMissingWordsAsTags.Enabled(),
				validation.Required.Error("'check_missing_words_as_tags' is activated, but 'missing_words' data is not specified"))),
		validation.Field(&c.MissingOtherTagsOneWay,
			validation.When(c.CheckMissingOtherTagsOneWay.Enabled(),
				validation.Required.Error("'check_missing_other_tags_one_way' is activated, but 'missing_other_tags_one_way' data is not specified")),
			validation.Each(validation.By(tagPairComplete))),
		validation.Field(&c.MissingOtherTagsBothWays,
			validation.When(c.CheckMissingOtherTagsBothWay.Enabled(),
				validation.Required.Error("'check_missing_other_tags_both_ways' is activated, but 'missing_other_tags_both_ways' data is not specified")),
			validation.Each(validation.By(tagPairComplete))),
		validation.Field(&c.MissingCursive,
			validation.When(c.CheckMissingCursive.Enabled(),
				validation.Required.Error("'check_missing_cursive' is activated, but 'missing_cursive' data is not specified"))),
		validation.Field(&c.ForbiddenWords,
			validation.When(c.CheckForbiddenWords.Enabled(),
				validation.Required.Error("'check_forbidden_words' is activated, but 'forbidden_words' data is not specified"))),
		validation.Field(&c.ForbiddenWebsites,
			validation.When(c.CheckForbiddenWebsites.Enabled(),
				validation.Required.Error("'check_forbidden_websites' is activated, but 'forbidden_websites' data is not specified")),
			validation.Each(validation.By(bareHost))),
		validation.Field(&c.ImageSize,
			validation.When(c.CheckImageSize.Enabled(),
				validation.Required.Error("'check_image_size' is activated, but 'image_size' data is not specified"),
				validation.Min(int64(1)).Error("image size must be greater zero"))),
		validation.Field(&c.ForbiddenExifTags,
			validation.When(c.CheckImageExifTagsForbidden.Enabled(),
				validation.Required.Error("'check_image_exif_tags_forbidden' is activated, but 'forbidden_exif_tags' data is not specified"))),
		validation.Field(&c.HeaderFieldLength,
			validation.When(c.CheckHeaderFieldLength.Enabled(),
				validation.Required.Error("'check_header_field_length' is activated, but 'header_field_length' data is not specified")),
			validation.Each(validation.By(fieldLengthValid))),
		validation.Field(&c.BrokenLinks,
			validation.When(c.DoReplaceBrokenLinks.Enabled(),
				validation.Required.Error("'do_replace_broken_links' is activated, but 'broken_links' data is not specified")),
			validation.Each(validation.By(linkRuleComplete))),
	); err != nil {
		return err
	}
	return c.Server.Validate()
}

// LoadIncludes reads the optional include files, resolved relative to the
// directory of the config file, and appends their entries.
func (c *Config) LoadIncludes(configDir string) error {
	if c.MissingTagsInclude != "" {
		var extra []checks.WordTag
		if err := readInclude(configDir, c.MissingTagsInclude, &extra); err != nil {
			return err
		}
		for _, wt := range extra {
			if wt.Word != "" && wt.Tag != "" {
				c.MissingTags = append(c.MissingTags, wt)
			}
		}
	}
	if c.MissingWordsInclude != "" {
		var extra []string
		if err := readInclude(configDir, c.MissingWordsInclude, &extra); err != nil {
			return err
		}
		c.MissingWords = append(c.MissingWords, extra...)
	}
	if c.MissingCursiveInclude != "" {
		var extra []string
		if err := readInclude(configDir, c.MissingCursiveInclude, &extra); err != nil {
			return err
		}
		c.MissingCursive = append(c.MissingCursive, extra...)
	}

	c.MissingWords = dedup(c.MissingWords)
	c.MissingCursive = dedup(c.MissingCursive)
	c.ForbiddenWords = dedup(c.ForbiddenWords)
	c.ForbiddenWebsites = dedup(c.ForbiddenWebsites)
	c.ForbiddenExifTags = dedup(c.ForbiddenExifTags)
	return nil
}

func readInclude[T any](configDir, name string, target *T) error {
	path := filepath.Join(configDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read include file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse include file %s: %w", path, err)
	}
	return nil
}

// dedup removes duplicates, keeping the first occurrence order.
func dedup(in []string) []string {
	if in == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Catalog builds the ordered list of enabled checks. The order is fixed and
// part of the observable contract: later checks see content already rewritten
// by earlier ones, and diagnostics appear in this relative order.
func (c *Config) Catalog(ignored checks.IgnorePredicate, readExif checks.ExifReader) []checks.Check {
	var cat []checks.Check
	add := func(flag Flag, chk checks.Check) {
		if flag.Enabled() {
			cat = append(cat, chk)
		}
	}

	add(c.CheckWhitespacesAtEnd, checks.WhitespacesAtEnd{})
	add(c.CheckFindMoreSeparator, checks.FindMoreSeparator{})
	add(c.CheckFind3Headline, checks.FindHeadline{Level: 3})
	add(c.CheckFind4Headline, checks.FindHeadline{Level: 4})
	add(c.CheckFind5Headline, checks.FindHeadline{Level: 5})
	add(c.CheckMissingTags, checks.MissingTags{Pairs: c.MissingTags})
	add(c.CheckMissingWordsAsTags, checks.MissingWordsAsTags{Words: c.MissingWords})
	add(c.CheckLowercaseTags, checks.LowercaseTags{})
	add(c.CheckLowercaseCategories, checks.LowercaseCategories{})
	add(c.CheckMissingOtherTagsOneWay, checks.MissingOtherTagsOneWay{Pairs: c.MissingOtherTagsOneWay})
	add(c.CheckMissingOtherTagsBothWay, checks.MissingOtherTagsBothWays{Pairs: c.MissingOtherTagsBothWays})
	add(c.CheckMissingCursive, checks.MissingCursive{Words: c.MissingCursive})
	add(c.CheckHTTPLink, checks.HTTPLink{})
	add(c.CheckHugoLocalhost, checks.HugoLocalhost{})
	add(c.CheckIIAm, checks.IIAm{})
	add(c.CheckChangeme, checks.Changeme{})
	add(c.CheckCodeBlocks, checks.CodeBlocks{})
	add(c.CheckPsqlCodeBlocks, checks.PsqlCodeBlocks{})
	add(c.CheckImageInsidePreview, checks.ImageInsidePreview{})
	add(c.CheckPreviewThumbnail, checks.PreviewThumbnail{})
	add(c.CheckPreviewDescription, checks.PreviewDescription{})
	add(c.CheckImageSize, checks.ImageSize{MaxBytes: c.ImageSize, Ignored: ignored})
	add(c.CheckImageExifTagsForbidden, checks.ImageExifTagsForbidden{
		ForbiddenTags: c.ForbiddenExifTags,
		Ignored:       ignored,
		ReadExif:      readExif,
	})
	add(c.CheckDass, checks.Dass{})
	add(c.CheckEmptyLineAfterHeader, checks.EmptyLineAfterHeader{})
	add(c.CheckEmptyLineAfterList, checks.EmptyLineAfterList{})
	add(c.CheckEmptyLineAfterCode, checks.EmptyLineAfterCode{})
	add(c.CheckForbiddenWords, checks.ForbiddenWords{Words: c.ForbiddenWords})
	add(c.CheckForbiddenWebsites, checks.ForbiddenWebsites{Hosts: c.ForbiddenWebsites})
	add(c.CheckHeaderFieldLength, checks.HeaderFieldLength{Fields: c.HeaderFieldLength})
	add(c.CheckDoubleBrackets, checks.DoubleBrackets{})
	add(c.CheckFixme, checks.Fixme{})
	add(c.DoRemoveWhitespacesAtEnd, checks.RemoveWhitespacesAtEnd{})
	add(c.DoReplaceBrokenLinks, checks.ReplaceBrokenLinks{Rules: c.BrokenLinks})

	return cat
}

// NewDefaultConfig returns a Config with every check disabled and the
// conventional content directories set.
func NewDefaultConfig() *Config {
	return &Config{
		ContentDirs: []string{
			"content/post", "content/posts", "content/blog", "content/blogs",
			"content/businesses", "content/places", "content/restaurants",
			"content/trips", "content/events",
		},
		Server: ServerConfig{
			Port:     8080,
			LogLevel: slog.LevelInfo,
		},
	}
}
