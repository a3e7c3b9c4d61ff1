package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. It returns the structured frontmatter, the Markdown
// body without delimiters, and any error encountered.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	fm := envelopeToFrontMatter(meta)
	fm.Present = hasFrontMatterBlock(source)
	return fm, body, nil
}

// hasFrontMatterBlock reports whether the source opens with a --- delimiter,
// ignoring a UTF-8 BOM and leading blank lines.
func hasFrontMatterBlock(source []byte) bool {
	trimmed := bytes.TrimPrefix(source, []byte{0xEF, 0xBB, 0xBF})
	trimmed = bytes.TrimLeft(trimmed, " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("---\n")) || bytes.HasPrefix(trimmed, []byte("---\r\n"))
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// locale, raw content, and modification time. BodyHTML is intentionally left
// empty so callers can render lazily.
func BuildDocument(path string, locale string, source []byte, modified time.Time) (*interfaces.Document, error) {
	frontmatter, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		Locale:       locale,
		FrontMatter:  frontmatter,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title       string         `yaml:"title"`
	Slug        string         `yaml:"slug"`
	Description string         `yaml:"description"`
	Template    string         `yaml:"template"`
	Tags        []string       `yaml:"tags"`
	Author      string         `yaml:"author"`
	Date        time.Time      `yaml:"date"`
	Draft       bool           `yaml:"draft"`
	Comments    *bool          `yaml:"comments"`
	Custom      map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	raw := make(map[string]any, len(env.Custom)+8)
	for key, value := range env.Custom {
		raw[key] = value
	}

	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Slug != "" {
		raw["slug"] = env.Slug
	}
	if env.Description != "" {
		raw["description"] = env.Description
	}
	if env.Template != "" {
		raw["template"] = env.Template
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	if env.Author != "" {
		raw["author"] = env.Author
	}
	if !env.Date.IsZero() {
		raw["date"] = env.Date
	}
	if env.Comments != nil {
		raw["comments"] = *env.Comments
	}
	raw["draft"] = env.Draft

	return interfaces.FrontMatter{
		Title:       env.Title,
		Slug:        env.Slug,
		Description: env.Description,
		Template:    env.Template,
		Tags:        append([]string(nil), env.Tags...),
		Author:      env.Author,
		Date:        env.Date,
		Draft:       env.Draft,
		Comments:    cloneBoolPtr(env.Comments),
		Custom:      cloneMap(env.Custom),
		Raw:         raw,
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}

func cloneBoolPtr(input *bool) *bool {
	if input == nil {
		return nil
	}
	value := *input
	return &value
}
