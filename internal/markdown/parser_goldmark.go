package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// GoldmarkParser renders Markdown to HTML through goldmark. Instances hold no
// mutable state, so one parser can serve every build worker.
type GoldmarkParser struct {
	defaultOptions interfaces.ParseOptions
}

// NewGoldmarkParser returns a parser whose Parse calls use defaults. With no
// extensions named, rendering gets GFM, linkify, and task lists.
func NewGoldmarkParser(defaults interfaces.ParseOptions) *GoldmarkParser {
	return &GoldmarkParser{defaultOptions: defaults}
}

// Parse renders source with the parser's default options.
func (p *GoldmarkParser) Parse(source []byte) ([]byte, error) {
	return p.ParseWithOptions(source, p.defaultOptions)
}

// ParseWithOptions renders source with per-call options, building a fresh
// goldmark engine so option sets never bleed between documents.
func (p *GoldmarkParser) ParseWithOptions(source []byte, opts interfaces.ParseOptions) ([]byte, error) {
	engine := goldmark.New(engineOptions(opts)...)
	var buf bytes.Buffer
	if err := engine.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	return buf.Bytes(), nil
}

func engineOptions(opts interfaces.ParseOptions) []goldmark.Option {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	// SafeMode and Sanitize both mean raw HTML stays escaped.
	if !opts.SafeMode && !opts.Sanitize {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	options := []goldmark.Option{
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
	}
	if exts := resolveExtensions(opts.Extensions); len(exts) > 0 {
		options = append(options, goldmark.WithExtensions(exts...))
	}
	return options
}

// extensionsByName maps config values to goldmark extenders. Unknown names
// are skipped rather than failing the build.
var extensionsByName = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

func resolveExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{extension.GFM, extension.Linkify, extension.TaskList}
	}

	seen := map[string]struct{}{}
	var extenders []goldmark.Extender
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if ext, ok := extensionsByName[key]; ok {
			extenders = append(extenders, ext)
		}
	}
	return extenders
}
