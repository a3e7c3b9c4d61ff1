package interfaces

import (
	"context"
	"time"
)

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Implementations should support reusable parser instances and extension
// toggles so hosts can tailor rendering without rewriting the core service.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// MarkdownService exposes the high-level file workflows of the engine: load
// Markdown documents from a source tree and convert them into HTML.
type MarkdownService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
}

// Document represents a Markdown file with parsed metadata and content. The
// struct is shared between the interfaces package and internal implementations
// so consumers can depend on a stable contract.
type Document struct {
	FilePath     string
	Locale       string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum stores a digest of the original file content (typically SHA-256)
	// so incremental builds can detect changes without re-rendering unchanged
	// files.
	Checksum []byte
}

// FrontMatter models metadata extracted from Markdown files. The typed fields
// cover the publishing contract; everything else lands in the Custom map.
type FrontMatter struct {
	Title       string    `yaml:"title" json:"title"`
	Slug        string    `yaml:"slug" json:"slug"`
	Description string    `yaml:"description" json:"description"`
	Template    string    `yaml:"template" json:"template"`
	Tags        []string  `yaml:"tags" json:"tags"`
	Author      string    `yaml:"author" json:"author"`
	Date        time.Time `yaml:"date" json:"date"`
	Draft       bool      `yaml:"draft" json:"draft"`
	// Comments is a pointer so validation can tell an explicit false from an
	// absent key.
	Comments *bool          `yaml:"comments" json:"comments,omitempty"`
	Custom   map[string]any `yaml:",inline" json:"custom"`
	Raw      map[string]any `yaml:"-" json:"raw"`
	// Present reports whether the source file carried a frontmatter block at
	// all, as opposed to one with empty values.
	Present bool `yaml:"-" json:"present"`
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive      *bool
	Pattern        string
	LocalePatterns map[string]string
	Parser         ParseOptions
}
